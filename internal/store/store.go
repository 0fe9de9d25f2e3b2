// Package store owns the on-disk tables of the ledger: the user directory,
// per-user account ledgers, per-user transaction logs, and the transfer
// journal. A Store is constructed once at process start and passed to all
// callers; there is no ambient global file state.
//
// Locking is layered. Per-username locks serialize the logical
// read-validate-write sequence of a mutating operation (acquired by the
// ledger service via AcquireUser/AcquireUserPair). Independently, a per-file
// mutex inside the Store serializes the physical rewrite of each table file,
// because updates for two different usernames both rewrite the shared
// users.txt.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Store provides access to one data directory's tables.
type Store struct {
	dir      string
	lockWait time.Duration
	logger   *slog.Logger

	userLocks *keyLock

	mu      sync.Mutex
	fileMus map[string]*sync.Mutex
}

// Open prepares a store rooted at dir, creating the directory if absent.
// lockWait bounds how long a mutating operation waits for a per-user lock
// before giving up with ErrBusy.
func Open(dir string, lockWait time.Duration, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dir, err)
	}
	logger.Info("store opened", "dir", dir, "lock_wait", lockWait)
	return &Store{
		dir:       dir,
		lockWait:  lockWait,
		logger:    logger,
		userLocks: newKeyLock(),
		fileMus:   make(map[string]*sync.Mutex),
	}, nil
}

// Dir returns the data directory the store owns.
func (s *Store) Dir() string {
	return s.dir
}

// AcquireUser takes the per-username lock that serializes every mutating
// operation touching that user's records. The returned release function must
// be called exactly once.
func (s *Store) AcquireUser(ctx context.Context, username string) (func(), error) {
	return s.userLocks.acquire(ctx, username, s.lockWait)
}

// AcquireUserPair locks two usernames for a cross-user operation, always in
// lexicographic order so two concurrent transfers in opposite directions
// cannot deadlock.
func (s *Store) AcquireUserPair(ctx context.Context, a, b string) (func(), error) {
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	releaseFirst, err := s.userLocks.acquire(ctx, first, s.lockWait)
	if err != nil {
		return nil, err
	}
	releaseSecond, err := s.userLocks.acquire(ctx, second, s.lockWait)
	if err != nil {
		releaseFirst()
		return nil, err
	}
	return func() {
		releaseSecond()
		releaseFirst()
	}, nil
}

// fileMu returns the mutex guarding physical writes to one table file.
func (s *Store) fileMu(path string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.fileMus[path]
	if !ok {
		m = &sync.Mutex{}
		s.fileMus[path] = m
	}
	return m
}

// withFileLock runs fn while holding the write mutex for path.
func (s *Store) withFileLock(path string, fn func() error) error {
	m := s.fileMu(path)
	m.Lock()
	defer m.Unlock()
	return fn()
}
