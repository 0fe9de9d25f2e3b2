package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bankledger/internal/models"
)

// keyLock hands out one mutex per key. Each lock is a one-slot channel so
// acquisition can race against the caller's context and a bounded wait.
type keyLock struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newKeyLock() *keyLock {
	return &keyLock{slots: make(map[string]chan struct{})}
}

func (l *keyLock) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

// acquire blocks until the key's lock is free, the context is done, or wait
// elapses. On success it returns the release function; on timeout or
// cancellation it returns ErrBusy.
func (l *keyLock) acquire(ctx context.Context, key string, wait time.Duration) (func(), error) {
	ch := l.slot(key)

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	default:
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: lock %q: %v", models.ErrBusy, key, ctx.Err())
	case <-timer.C:
		return nil, fmt.Errorf("%w: lock %q not acquired within %s", models.ErrBusy, key, wait)
	}
}
