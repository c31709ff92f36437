package window

import (
	"context"
	"fmt"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// WailsFinder exposes the single Wails window under a fixed name. The window
// only exists between Attach (OnStartup) and Detach (OnShutdown); the Wails
// runtime aborts the process when called with a nil context.
type WailsFinder struct {
	name string

	mu  sync.RWMutex
	ctx context.Context
}

func NewWailsFinder(name string) *WailsFinder {
	return &WailsFinder{name: name}
}

func (f *WailsFinder) Attach(ctx context.Context) {
	f.mu.Lock()
	f.ctx = ctx
	f.mu.Unlock()
}

func (f *WailsFinder) Detach() {
	f.mu.Lock()
	f.ctx = nil
	f.mu.Unlock()
}

// Context returns the runtime context, or nil before startup.
func (f *WailsFinder) Context() context.Context {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ctx
}

func (f *WailsFinder) Window(name string) (Window, bool) {
	if name != f.name {
		return nil, false
	}
	ctx := f.Context()
	if ctx == nil {
		return nil, false
	}
	return wailsWindow{ctx: ctx}, true
}

type wailsWindow struct {
	ctx context.Context
}

func (w wailsWindow) Show() error {
	return guard("show", func() {
		runtime.WindowUnminimise(w.ctx)
		runtime.WindowShow(w.ctx)
	})
}

func (w wailsWindow) Hide() error {
	return guard("hide", func() {
		runtime.WindowHide(w.ctx)
	})
}

// Focus raises the window above others. Wails v2 has no focus call; toggling
// always-on-top forces the window manager to bring it forward.
func (w wailsWindow) Focus() error {
	return guard("focus", func() {
		runtime.WindowUnminimise(w.ctx)
		runtime.WindowShow(w.ctx)
		runtime.WindowSetAlwaysOnTop(w.ctx, true)
		runtime.WindowSetAlwaysOnTop(w.ctx, false)
	})
}

func guard(op string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("window %s: %v", op, r)
		}
	}()
	fn()
	return nil
}
