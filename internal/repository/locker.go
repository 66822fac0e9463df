package repository

import "errors"

// ErrLockTimeout is returned when another holder kept the key for longer than the wait budget.
var ErrLockTimeout = errors.New("lock is held by another operation")

func lockKey(key string) string {
	return "shareit:lock:" + key
}
