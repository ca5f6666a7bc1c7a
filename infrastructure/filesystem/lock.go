package filesystem

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"video-to-mp3/domain/audio"

	"github.com/gofrs/flock"
)

// Locker implements audio.RunLock with advisory file locks.
// Lock files live outside the output tree so that locking never creates it,
// and are removed again on release.
type Locker struct {
	dir string
}

var _ audio.RunLock = (*Locker)(nil)

// NewLocker creates a locker that keeps its lock files in the system temp dir
func NewLocker() *Locker {
	return &Locker{dir: os.TempDir()}
}

// NewLockerIn creates a locker that keeps its lock files in dir
func NewLockerIn(dir string) *Locker {
	return &Locker{dir: dir}
}

// TryLock acquires the lock for outputDir, failing fast if it is held
func (l *Locker) TryLock(outputDir string) (func() error, error) {
	path, err := l.lockPath(outputDir)
	if err != nil {
		return nil, err
	}

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", audio.ErrRunInProgress, outputDir)
	}
	return func() error {
		if err := lock.Unlock(); err != nil {
			return fmt.Errorf("release lock: %w", err)
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove lock file: %w", err)
		}
		return nil
	}, nil
}

func (l *Locker) lockPath(outputDir string) (string, error) {
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return "", fmt.Errorf("resolve output directory: %w", err)
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return filepath.Join(l.dir, "video-to-mp3-"+hex.EncodeToString(sum[:8])+".lock"), nil
}
