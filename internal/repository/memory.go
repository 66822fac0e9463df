package repository

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryLocker serializes keys within one process. The ttl argument is ignored: holders
// always release through the returned unlock func.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*memoryLock
	wait  time.Duration
}

type memoryLock struct {
	ch   chan struct{}
	refs int
}

func NewMemoryLocker(wait time.Duration) *MemoryLocker {
	return &MemoryLocker{
		locks: make(map[string]*memoryLock),
		wait:  wait,
	}
}

func (l *MemoryLocker) Lock(ctx context.Context, key string, _ time.Duration) (func(), error) {
	lock := l.acquireRef(key)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case lock.ch <- struct{}{}:
	case <-ctx.Done():
		l.releaseRef(key, lock)
		return nil, ctx.Err()
	case <-timer.C:
		l.releaseRef(key, lock)
		return nil, fmt.Errorf("%s: %w", key, ErrLockTimeout)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lock.ch
			l.releaseRef(key, lock)
		})
	}, nil
}

func (l *MemoryLocker) acquireRef(key string) *memoryLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[key]
	if !ok {
		lock = &memoryLock{ch: make(chan struct{}, 1)}
		l.locks[key] = lock
	}
	lock.refs++
	return lock
}

func (l *MemoryLocker) releaseRef(key string, lock *memoryLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, key)
	}
}

func (l *MemoryLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
