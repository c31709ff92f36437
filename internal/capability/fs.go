package capability

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"
)

// EventFSChange is emitted to the frontend for every watched change.
const EventFSChange = "fs:change"

var ErrOutOfScope = errors.New("path outside the allowed scope")

type DirEntry struct {
	Name  string `json:"name"`
	IsDir bool   `json:"isDir"`
	Size  int64  `json:"size"`
}

type FSChange struct {
	Path string `json:"path"`
	Op   string `json:"op"`
}

// Emitter publishes an event to the frontend.
type Emitter func(name string, data ...any)

// Filesystem gives the frontend file access confined to a set of roots.
type Filesystem struct {
	scope []string
	log   *zap.Logger

	roots   []string
	watcher *fsnotify.Watcher

	mu   sync.Mutex
	emit Emitter
	done chan struct{}
}

func NewFilesystem(scope []string, log *zap.Logger) *Filesystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &Filesystem{scope: scope, log: log.Named("fs")}
}

func (f *Filesystem) Name() string { return "fs" }

func (f *Filesystem) setup() error {
	if len(f.scope) == 0 {
		return errors.New("fs scope is empty")
	}
	f.roots = f.roots[:0]
	for _, dir := range f.scope {
		if dir == "" {
			return errors.New("fs scope contains an empty path")
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create scope %s: %w", dir, err)
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		real, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return fmt.Errorf("resolve scope %s: %w", dir, err)
		}
		f.roots = append(f.roots, real)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	f.watcher = w
	f.done = make(chan struct{})
	go f.watchLoop()
	return nil
}

func (f *Filesystem) startup(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emit == nil {
		f.emit = func(name string, data ...any) { runtime.EventsEmit(ctx, name, data...) }
	}
}

// setEmitter overrides where change events go. Tests use it in place of the runtime.
func (f *Filesystem) setEmitter(e Emitter) {
	f.mu.Lock()
	f.emit = e
	f.mu.Unlock()
}

func (f *Filesystem) close() error {
	if f.watcher == nil {
		return nil
	}
	err := f.watcher.Close()
	<-f.done
	f.watcher = nil
	return err
}

// Roots lists the resolved scope directories.
func (f *Filesystem) Roots() []string {
	return append([]string(nil), f.roots...)
}

// Resolve maps p onto an absolute path inside the scope. Relative paths are
// taken from the first root.
func (f *Filesystem) Resolve(p string) (string, error) {
	if len(f.roots) == 0 {
		return "", errors.New("fs not set up")
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(f.roots[0], p)
	}
	abs := filepath.Clean(p)
	// follow symlinks for paths that exist so a link cannot escape the scope
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	} else if parent, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(parent, filepath.Base(abs))
	}
	for _, root := range f.roots {
		if within(root, abs) {
			return abs, nil
		}
	}
	return "", fmt.Errorf("%s: %w", p, ErrOutOfScope)
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (f *Filesystem) ReadTextFile(p string) (string, error) {
	abs, err := f.Resolve(p)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (f *Filesystem) WriteTextFile(p, contents string) error {
	abs, err := f.Resolve(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o700); err != nil {
		return err
	}
	return os.WriteFile(abs, []byte(contents), 0o600)
}

func (f *Filesystem) Exists(p string) bool {
	abs, err := f.Resolve(p)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

func (f *Filesystem) ReadDir(p string) ([]DirEntry, error) {
	abs, err := f.Resolve(p)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}
	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		out = append(out, DirEntry{Name: e.Name(), IsDir: e.IsDir(), Size: size})
	}
	return out, nil
}

func (f *Filesystem) Remove(p string) error {
	abs, err := f.Resolve(p)
	if err != nil {
		return err
	}
	for _, root := range f.roots {
		if abs == root {
			return fmt.Errorf("%s: refusing to remove a scope root", p)
		}
	}
	return os.RemoveAll(abs)
}

// Watch reports changes under p as fs:change events.
func (f *Filesystem) Watch(p string) error {
	abs, err := f.Resolve(p)
	if err != nil {
		return err
	}
	if f.watcher == nil {
		return errors.New("fs not set up")
	}
	return f.watcher.Add(abs)
}

func (f *Filesystem) Unwatch(p string) error {
	abs, err := f.Resolve(p)
	if err != nil {
		return err
	}
	if f.watcher == nil {
		return errors.New("fs not set up")
	}
	return f.watcher.Remove(abs)
}

func (f *Filesystem) watchLoop() {
	defer close(f.done)
	w := f.watcher
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			f.mu.Lock()
			emit := f.emit
			f.mu.Unlock()
			if emit != nil {
				emit(EventFSChange, FSChange{Path: ev.Name, Op: ev.Op.String()})
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			f.log.Warn("watch error", zap.Error(err))
		}
	}
}
