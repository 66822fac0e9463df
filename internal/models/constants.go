package models

const (
	// DateTimeLayout ISO-8601 local date-time with second precision
	DateTimeLayout = "2006-01-02T15:04:05"

	// UserIDHeader заголовок с идентификатором пользователя
	UserIDHeader = "X-Sharer-User-Id"
)

const (
	// DefaultPageFrom смещение по умолчанию
	DefaultPageFrom = 0

	// DefaultPageSize размер страницы по умолчанию
	DefaultPageSize = 10

	// DefaultLockTTL время жизни блокировки заявки, в секундах
	DefaultLockTTL = 10

	// DefaultLockWait сколько ждать освобождения блокировки, в секундах
	DefaultLockWait = 5

	// RateLimitRPS запросов в секунду на пользователя по умолчанию
	RateLimitRPS = 20

	// RateLimitBurst запас запросов по умолчанию
	RateLimitBurst = 40
)
