package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by Acquire when another process holds the lock.
var ErrLocked = errors.New("another instance of the app is already running")

type Lock struct {
	flock *flock.Flock
	path  string
}

// Acquire creates and locks a file without blocking.
// If another instance is running, it returns an error wrapping ErrLocked.
func Acquire(lockPath string) (*Lock, error) {
	absPath, err := filepath.Abs(lockPath)
	if err != nil {
		return nil, fmt.Errorf("resolve lock path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o700); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	fl := flock.New(absPath)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("flock failed: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("(%s) %w", absPath, ErrLocked)
	}

	// the pid is informational only; the flock is the source of truth
	_ = os.WriteFile(absPath, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644)

	return &Lock{
		flock: fl,
		path:  absPath,
	}, nil
}

func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

func (l *Lock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return err
	}
	// the file stays: removing it would let a launcher that already opened
	// it lock a dead inode while the next one locks a fresh file
	l.flock = nil
	return nil
}

// Owner reads the pid recorded by the current lock holder, or 0 when unknown.
func Owner(lockPath string) int {
	data, err := os.ReadFile(lockPath)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}
