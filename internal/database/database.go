package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"shareit/internal/config"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type DB struct {
	*sqlx.DB
	sq      squirrel.StatementBuilderType
	dialect dialect
	path    string
	logger  *zerolog.Logger
}

type dialect struct {
	driver string
	// lockRows enables SELECT ... FOR UPDATE inside transitions; SQLite serializes
	// writers with BEGIN IMMEDIATE instead.
	lockRows bool
	schema   []string
}

// Open connects to the database selected by cfg.Driver and creates the schema.
func Open(cfg config.DatabaseConfig, logger *zerolog.Logger) (*DB, error) {
	switch cfg.Driver {
	case "", DriverSQLite:
		return NewDB(cfg.Path, logger)
	case DriverPostgres:
		return NewPostgresDB(cfg.Postgres, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewDB opens (and creates, if needed) a SQLite database at path.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if path != ":memory:" {
		// Создаем директорию для БД, если её нет
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_txlock=immediate&_foreign_keys=on", path)
	conn, err := sqlx.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Один писатель: in-memory база живет в единственном соединении, а переходы
	// статусов сериализуются транзакциями BEGIN IMMEDIATE.
	conn.SetMaxOpenConns(1)

	db := &DB{
		DB:      conn,
		sq:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		dialect: dialect{driver: DriverSQLite, schema: sqliteSchema},
		path:    path,
		logger:  logger,
	}
	if err := db.init(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// NewPostgresDB connects to Postgres through lib/pq.
func NewPostgresDB(cfg config.PostgresConfig, logger *zerolog.Logger) (*DB, error) {
	conn, err := sqlx.Open(DriverPostgres, postgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxConnections > 0 {
		conn.SetMaxOpenConns(cfg.MaxConnections)
	}

	db := &DB{
		DB:      conn,
		sq:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		dialect: dialect{driver: DriverPostgres, lockRows: true, schema: postgresSchema},
		path:    cfg.DBName,
		logger:  logger,
	}
	if err := db.init(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func postgresDSN(cfg config.PostgresConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   cfg.DBName,
	}
	q := url.Values{}
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (db *DB) init() error {
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if db.logger != nil {
		db.logger.Info().Str("driver", db.dialect.driver).Str("path", db.path).Msg("database initialized")
	}
	return nil
}

// Migrate creates missing tables and indexes; it is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	for _, query := range db.dialect.schema {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("error executing query %s: %w", strings.TrimSpace(query), err)
		}
	}
	return nil
}

func (db *DB) Driver() string {
	return db.dialect.driver
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE
        )`,
	`CREATE TABLE IF NOT EXISTS requests (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            description TEXT NOT NULL,
            requestor_id INTEGER NOT NULL REFERENCES users(id),
            created_ts INTEGER NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS items (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            description TEXT NOT NULL,
            available BOOLEAN NOT NULL,
            owner_id INTEGER NOT NULL REFERENCES users(id),
            request_id INTEGER REFERENCES requests(id)
        )`,
	`CREATE TABLE IF NOT EXISTS bookings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            start_ts INTEGER NOT NULL,
            end_ts INTEGER NOT NULL,
            item_id INTEGER NOT NULL REFERENCES items(id),
            booker_id INTEGER NOT NULL REFERENCES users(id),
            status TEXT NOT NULL DEFAULT 'WAITING',
            version INTEGER NOT NULL DEFAULT 1,
            CHECK (start_ts < end_ts)
        )`,
	`CREATE TABLE IF NOT EXISTS comments (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            text TEXT NOT NULL,
            item_id INTEGER NOT NULL REFERENCES items(id),
            author_id INTEGER NOT NULL REFERENCES users(id),
            created_ts INTEGER NOT NULL
        )`,
	`CREATE INDEX IF NOT EXISTS idx_items_owner_id ON items(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_request_id ON items(request_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_item_id ON bookings(item_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_booker_id ON bookings(booker_id, start_ts)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_item_id ON comments(item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_requestor_id ON requests(requestor_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE
        )`,
	`CREATE TABLE IF NOT EXISTS requests (
            id BIGSERIAL PRIMARY KEY,
            description TEXT NOT NULL,
            requestor_id BIGINT NOT NULL REFERENCES users(id),
            created_ts BIGINT NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS items (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT NOT NULL,
            available BOOLEAN NOT NULL,
            owner_id BIGINT NOT NULL REFERENCES users(id),
            request_id BIGINT REFERENCES requests(id)
        )`,
	`CREATE TABLE IF NOT EXISTS bookings (
            id BIGSERIAL PRIMARY KEY,
            start_ts BIGINT NOT NULL,
            end_ts BIGINT NOT NULL,
            item_id BIGINT NOT NULL REFERENCES items(id),
            booker_id BIGINT NOT NULL REFERENCES users(id),
            status TEXT NOT NULL DEFAULT 'WAITING',
            version BIGINT NOT NULL DEFAULT 1,
            CHECK (start_ts < end_ts)
        )`,
	`CREATE TABLE IF NOT EXISTS comments (
            id BIGSERIAL PRIMARY KEY,
            text TEXT NOT NULL,
            item_id BIGINT NOT NULL REFERENCES items(id),
            author_id BIGINT NOT NULL REFERENCES users(id),
            created_ts BIGINT NOT NULL
        )`,
	`CREATE INDEX IF NOT EXISTS idx_items_owner_id ON items(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_request_id ON items(request_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_item_id ON bookings(item_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_booker_id ON bookings(booker_id, start_ts)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_item_id ON comments(item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_requestor_id ON requests(requestor_id)`,
}

// get, list and exec run squirrel builders against either the pool or a transaction.

func get(ctx context.Context, q sqlx.QueryerContext, dest any, b squirrel.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return sqlx.GetContext(ctx, q, dest, query, args...)
}

func list(ctx context.Context, q sqlx.QueryerContext, dest any, b squirrel.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return sqlx.SelectContext(ctx, q, dest, query, args...)
}

func exec(ctx context.Context, e sqlx.ExecerContext, b squirrel.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return e.ExecContext(ctx, query, args...)
}

func pageOf(b squirrel.SelectBuilder, from, size int) squirrel.SelectBuilder {
	return b.Limit(uint64(size)).Offset(uint64(from))
}
