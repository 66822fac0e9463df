package repository

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"shareit/internal/domain"
	"shareit/internal/metrics"

	"github.com/rs/zerolog"
)

const primaryRetryAfter = time.Minute

// FailoverLocker uses the primary (Redis) locker and switches to the fallback when the
// primary is unreachable, retrying the primary once a minute. Correctness of status
// transitions never depends on the lock alone: the store re-checks the status on update.
type FailoverLocker struct {
	primary   domain.Locker
	fallback  domain.Locker
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
	now       func() time.Time
}

func NewFailoverLocker(primary, fallback domain.Locker, logger *zerolog.Logger) *FailoverLocker {
	return &FailoverLocker{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

func (l *FailoverLocker) Lock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if !l.isDown.Load() || l.now().Sub(time.Unix(0, l.lastCheck.Load())) > primaryRetryAfter {
		unlock, err := l.primary.Lock(ctx, key, ttl)
		if err == nil || !isInfrastructureError(ctx, err) {
			if err == nil && l.isDown.CompareAndSwap(true, false) {
				l.logger.Info().Msg("Primary lock backend recovered")
			}
			return unlock, err
		}

		if !l.isDown.Swap(true) {
			l.logger.Error().Err(err).Msg("Primary lock backend failed, falling back to memory")
			metrics.IncLockFallback()
		}
		l.lastCheck.Store(l.now().UnixNano())
	}

	return l.fallback.Lock(ctx, key, ttl)
}

// Contention and caller cancellation are answers, not outages.
func isInfrastructureError(ctx context.Context, err error) bool {
	if errors.Is(err, ErrLockTimeout) {
		return false
	}
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return false
	}
	return true
}
