package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"
	"shareit/internal/service"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var seedPath string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo users and items from a YAML file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, closer, err := loadConfigAndLogger("seed")
		if err != nil {
			return err
		}
		defer closeQuietly(closer)

		data, err := loadSeed(seedPath)
		if err != nil {
			return err
		}

		db, err := database.Open(cfg.Database, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		users, items, err := applySeed(cmd.Context(), db, data, logger)
		if err != nil {
			return err
		}
		logger.Info().Int("users", users).Int("items", items).Msg("seed loaded")
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedPath, "file", "f", "configs/seed.yaml", "path to the seed file")
}

type seedFile struct {
	Users []struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"users"`
	Items []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Available   bool   `yaml:"available"`
		Owner       string `yaml:"owner"`
	} `yaml:"items"`
}

func loadSeed(path string) (*seedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var data seedFile
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &data, nil
}

// applySeed creates the users and their items through the services, so seeding follows
// the same validation as the API. Users that already exist are reused by email.
func applySeed(ctx context.Context, db *database.DB, data *seedFile, logger *zerolog.Logger) (int, int, error) {
	users := service.NewUserService(db, logger)
	items := service.NewItemService(db, logger)

	existing, err := users.GetUsers(ctx)
	if err != nil {
		return 0, 0, err
	}
	byEmail := make(map[string]int64, len(existing))
	for _, u := range existing {
		byEmail[u.Email] = u.ID
	}

	createdUsers := 0
	for _, u := range data.Users {
		if _, ok := byEmail[u.Email]; ok {
			continue
		}
		user, err := users.CreateUser(ctx, &models.User{Name: u.Name, Email: u.Email})
		if err != nil && !errors.Is(err, domain.ErrDuplicateEmail) {
			return createdUsers, 0, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		if user != nil {
			byEmail[user.Email] = user.ID
			createdUsers++
		}
	}

	createdItems := 0
	for _, it := range data.Items {
		ownerID, ok := byEmail[it.Owner]
		if !ok {
			return createdUsers, createdItems, fmt.Errorf("seed item %q: unknown owner %s", it.Name, it.Owner)
		}
		item := &models.Item{Name: it.Name, Description: it.Description, Available: it.Available}
		if _, err := items.CreateItem(ctx, ownerID, item); err != nil {
			return createdUsers, createdItems, fmt.Errorf("seed item %q: %w", it.Name, err)
		}
		createdItems++
	}
	return createdUsers, createdItems, nil
}
