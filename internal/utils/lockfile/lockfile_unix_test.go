//go:build unix

package lockfile

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

// A launcher that opened the file before the holder released it must contend
// for the same inode as every later launcher.
func TestReleaseKeepsLockInode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.lock")

	holder, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	before, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	early, err := os.OpenFile(path, os.O_RDWR, 0o600)
	if err != nil {
		t.Fatal(err)
	}
	defer early.Close()

	if err := holder.Release(); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("lock file removed on release: %v", err)
	}
	if !os.SameFile(before, after) {
		t.Fatal("lock file replaced on release")
	}

	if err := syscall.Flock(int(early.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		t.Fatalf("early launcher could not lock: %v", err)
	}
	defer syscall.Flock(int(early.Fd()), syscall.LOCK_UN)

	late, err := Acquire(path)
	if err == nil {
		_ = late.Release()
		t.Fatal("two launchers hold the instance lock")
	}
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}
