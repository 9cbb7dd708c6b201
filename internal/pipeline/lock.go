package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = ".newscast.lock"

// acquireLock takes the per-day lock without blocking.
func acquireLock(runDir string) (*flock.Flock, error) {
	lock := flock.New(filepath.Join(runDir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunLocked, runDir)
	}
	return lock, nil
}
