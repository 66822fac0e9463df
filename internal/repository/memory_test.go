package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker(t *testing.T) {
	locker := NewMemoryLocker(50 * time.Millisecond)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "booking:1", time.Second)
	require.NoError(t, err)

	_, err = locker.Lock(ctx, "booking:1", time.Second)
	assert.ErrorIs(t, err, ErrLockTimeout)

	other, err := locker.Lock(ctx, "booking:2", time.Second)
	require.NoError(t, err)
	other()

	unlock()
	unlock() // повторный вызов безопасен
	assert.Equal(t, 0, locker.size())

	again, err := locker.Lock(ctx, "booking:1", time.Second)
	require.NoError(t, err)
	again()
}

func TestMemoryLocker_ContextCanceled(t *testing.T) {
	locker := NewMemoryLocker(time.Minute)
	unlock, err := locker.Lock(context.Background(), "k", 0)
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = locker.Lock(ctx, "k", 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryLocker_Handoff(t *testing.T) {
	locker := NewMemoryLocker(time.Second)
	unlock, err := locker.Lock(context.Background(), "k", 0)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		u, err := locker.Lock(context.Background(), "k", 0)
		if err == nil {
			u()
		}
		close(acquired)
	}()

	time.Sleep(20 * time.Millisecond)
	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter did not acquire the released lock")
	}
}
