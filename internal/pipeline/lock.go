package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 50 * time.Millisecond

// withLock runs fn while holding an advisory lock on <path>.lock, so two
// jobs never write the same destination at once.
func withLock(ctx context.Context, path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire lock for %s: %w", path, err)
	}
	if !ok {
		return fmt.Errorf("acquire lock for %s: already held", path)
	}
	// the lock file stays behind; removing it would let a waiter holding the
	// old inode race a newcomer that creates a fresh one
	defer func() { _ = lock.Unlock() }()

	return fn()
}
