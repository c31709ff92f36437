package api

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lugvitc/antigravity-tray/internal/capability"
	"github.com/lugvitc/antigravity-tray/internal/config"
	"github.com/lugvitc/antigravity-tray/internal/instance"
	"github.com/lugvitc/antigravity-tray/internal/misc"
	"github.com/lugvitc/antigravity-tray/internal/tray"
	"github.com/lugvitc/antigravity-tray/internal/window"
)

type fakeWindow struct {
	mu      sync.Mutex
	visible bool
	focused bool
}

func (w *fakeWindow) Show() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = true
	return nil
}

func (w *fakeWindow) Hide() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = false
	w.focused = false
	return nil
}

func (w *fakeWindow) Focus() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.focused = true
	return nil
}

type fakeHost struct {
	mu  sync.Mutex
	ctx context.Context
	win *fakeWindow
}

func (h *fakeHost) Window(name string) (window.Window, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if name != misc.MAIN_WINDOW || h.ctx == nil {
		return nil, false
	}
	return h.win, true
}

func (h *fakeHost) Attach(ctx context.Context) {
	h.mu.Lock()
	h.ctx = ctx
	h.mu.Unlock()
}

func (h *fakeHost) Detach() { h.Attach(nil) }

func (h *fakeHost) Context() context.Context {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ctx
}

type fakeTray struct {
	cb      tray.Callbacks
	menu    *tray.Menu
	stopped bool
}

func (f *fakeTray) Start(icon []byte, tooltip string, menu *tray.Menu, cb tray.Callbacks) error {
	f.cb = cb
	f.menu = menu
	return nil
}

func (f *fakeTray) Stop() { f.stopped = true }

type fixture struct {
	api      *Api
	host     *fakeHost
	tray     *fakeTray
	lockPath string
	sockPath string
	quits    int
	exits    []int
}

func newFixture(t *testing.T, mutate func(*config.Config), withOpts ...func(*Options)) *fixture {
	t.Helper()
	dir, err := os.MkdirTemp("", "agapi")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	cfg := config.Default()
	cfg.NotifyOnHide = false
	if mutate != nil {
		mutate(&cfg)
	}
	paths := misc.Paths{
		ConfigDir:  filepath.Join(dir, "cfg"),
		DataDir:    filepath.Join(dir, "data"),
		RuntimeDir: dir,
	}
	guard, err := instance.Acquire(paths.LockPath(), paths.SocketPath(), nil)
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{
		host:     &fakeHost{win: &fakeWindow{}},
		tray:     &fakeTray{},
		lockPath: paths.LockPath(),
		sockPath: paths.SocketPath(),
	}
	opts := Options{
		Config:      &cfg,
		Paths:       paths,
		Guard:       guard,
		Log:         zaptest.NewLogger(t),
		Icon:        []byte{0x89, 'P', 'N', 'G'},
		Version:     "test",
		StartHidden: true,
		Window:      f.host,
		Tray:        f.tray,
	}
	for _, fn := range withOpts {
		fn(&opts)
	}
	a, err := New(opts)
	if err != nil {
		_ = guard.Release()
		t.Fatalf("New returned error: %v", err)
	}
	a.quitRuntime = func(context.Context) { f.quits++ }
	a.exitProcess = func(code int) { f.exits = append(f.exits, code) }
	f.api = a
	t.Cleanup(a.Close)

	a.Startup(context.Background())
	if err := a.StartupErr(); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}
	return f
}

// flush waits until everything queued on the loop has run.
func (f *fixture) flush(t *testing.T) {
	t.Helper()
	if err := f.api.loop.Do(func() {}); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) state(t *testing.T) (window.Visibility, bool) {
	t.Helper()
	var v window.Visibility
	var focused bool
	if err := f.api.loop.Do(func() {
		v = f.api.window.State()
		focused = f.api.window.Focused()
	}); err != nil {
		t.Fatal(err)
	}
	return v, focused
}

func TestMenuShowAndUnknownItems(t *testing.T) {
	f := newFixture(t, nil)

	f.tray.cb.OnMenu("bogus")
	if v, _ := f.state(t); v != window.Hidden {
		t.Fatalf("unknown id changed state to %s", v)
	}

	f.tray.cb.OnMenu(tray.IDShow)
	v, focused := f.state(t)
	if v != window.Visible || !focused {
		t.Fatalf("expected visible+focused, got %s focused=%v", v, focused)
	}
	if !f.host.win.visible || !f.host.win.focused {
		t.Fatal("platform window not shown")
	}
}

func TestTrayClickFiltering(t *testing.T) {
	f := newFixture(t, nil)

	f.tray.cb.OnEvent(tray.Event{Kind: tray.Click, Button: tray.Right, State: tray.Up})
	f.tray.cb.OnEvent(tray.Event{Kind: tray.Move, Button: tray.Left, State: tray.Down})
	f.tray.cb.OnEvent(tray.Event{Kind: tray.DoubleClick, Button: tray.Left, State: tray.Up})
	if v, _ := f.state(t); v != window.Hidden {
		t.Fatalf("non-activation event changed state to %s", v)
	}

	f.tray.cb.OnEvent(tray.Event{Kind: tray.Click, Button: tray.Left, State: tray.Up})
	if v, _ := f.state(t); v != window.Visible {
		t.Fatalf("left click did not show window, state %s", v)
	}
}

func TestCloseHidesAndTrayStillResponds(t *testing.T) {
	f := newFixture(t, nil)
	f.tray.cb.OnMenu(tray.IDShow)
	f.flush(t)

	for i := 0; i < 3; i++ {
		if !f.api.BeforeClose(context.Background()) {
			t.Fatalf("close %d not prevented", i)
		}
		if v, _ := f.state(t); v != window.Hidden {
			t.Fatalf("close %d left window %s", i, v)
		}
	}
	if f.quits != 0 || len(f.exits) != 0 {
		t.Fatal("close request terminated the process")
	}

	f.tray.cb.OnMenu(tray.IDShow)
	if v, _ := f.state(t); v != window.Visible {
		t.Fatalf("show after close failed, state %s", v)
	}
}

func TestQuitExitsWithZero(t *testing.T) {
	f := newFixture(t, nil)

	f.tray.cb.OnMenu(tray.IDQuit)
	f.flush(t)

	if f.quits != 1 {
		t.Fatalf("expected runtime quit, got %d", f.quits)
	}
	if f.api.ExitCode() != 0 {
		t.Fatalf("unexpected exit code %d", f.api.ExitCode())
	}
	if f.api.BeforeClose(context.Background()) {
		t.Fatal("close must not be prevented once quitting")
	}
}

func TestExitBeforeRuntimeStopsProcess(t *testing.T) {
	f := newFixture(t, nil)
	f.host.Detach()

	f.api.Exit(0)
	if len(f.exits) != 1 || f.exits[0] != 0 {
		t.Fatalf("expected process exit 0, got %v", f.exits)
	}
}

func TestSecondLaunchFocusesExistingWindow(t *testing.T) {
	f := newFixture(t, nil)

	second, err := instance.Acquire(f.lockPath, f.sockPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	if second.Role() != instance.Secondary {
		t.Fatal("second launch acquired the lock")
	}
	if res := second.Forward([]string{"--foo"}, "/"); res.Err != nil {
		t.Fatalf("Forward returned error: %v", res.Err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		v, focused := f.state(t)
		if v == window.Visible && focused {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("window not shown after second launch: %s", v)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDashboardItemOnlyWhenConfigured(t *testing.T) {
	f := newFixture(t, nil)
	if _, ok := f.tray.menu.Item(tray.IDDashboard); ok {
		t.Fatal("dashboard item present without a URL")
	}

	var opened []string
	opener := capability.NewOpenerWith(func(u string) error {
		opened = append(opened, u)
		return nil
	}, nil)
	g := newFixture(t,
		func(c *config.Config) { c.Tray.DashboardURL = "http://localhost:8080/ui" },
		func(o *Options) { o.Opener = opener },
	)
	if _, ok := g.tray.menu.Item(tray.IDDashboard); !ok {
		t.Fatal("dashboard item missing")
	}
	g.tray.cb.OnMenu(tray.IDDashboard)
	g.flush(t)
	if len(opened) != 1 || opened[0] != "http://localhost:8080/ui" {
		t.Fatalf("dashboard opened %v", opened)
	}
}

func TestDashboardRejectedSchemeIsLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	called := false
	opener := capability.NewOpenerWith(func(string) error {
		called = true
		return nil
	}, nil)
	f := newFixture(t,
		func(c *config.Config) { c.Tray.DashboardURL = "ftp://localhost/ui" },
		func(o *Options) {
			o.Opener = opener
			o.Log = zap.New(core)
		},
	)

	f.tray.cb.OnMenu(tray.IDDashboard)
	f.flush(t)

	if called {
		t.Fatal("opener called for a rejected scheme")
	}
	if logs.FilterMessage("open dashboard").Len() != 1 {
		t.Fatalf("rejected dashboard URL not logged, got %v", logs.All())
	}
	if v, _ := f.state(t); v != window.Hidden {
		t.Fatalf("window state changed to %s", v)
	}
}

func TestBindingsExcludeLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	var frontend *Frontend
	for _, b := range f.api.Bindings() {
		switch v := b.(type) {
		case *Api:
			t.Fatal("application context is bound to the frontend")
		case *Frontend:
			frontend = v
		}
	}
	if frontend == nil {
		t.Fatal("frontend bindings missing")
	}

	if err := frontend.ShowWindow(); err != nil {
		t.Fatalf("ShowWindow returned error: %v", err)
	}
	if v, _ := f.state(t); v != window.Visible {
		t.Fatalf("ShowWindow left window %s", v)
	}
	if err := frontend.HideWindow(); err != nil {
		t.Fatalf("HideWindow returned error: %v", err)
	}
	if v, _ := f.state(t); v != window.Hidden {
		t.Fatalf("HideWindow left window %s", v)
	}
	if frontend.Version() != "test" {
		t.Fatalf("unexpected version %q", frontend.Version())
	}
}

func TestCloseReleasesLock(t *testing.T) {
	f := newFixture(t, nil)
	f.api.Close()
	if !f.tray.stopped {
		t.Fatal("tray not stopped")
	}

	next, err := instance.Acquire(f.lockPath, f.sockPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer next.Release()
	if next.Role() != instance.Primary {
		t.Fatal("lock still held after Close")
	}
}
