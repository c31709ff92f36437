package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"github.com/lugvitc/antigravity-tray/internal/capability"
	"github.com/lugvitc/antigravity-tray/internal/config"
	"github.com/lugvitc/antigravity-tray/internal/instance"
	"github.com/lugvitc/antigravity-tray/internal/loop"
	"github.com/lugvitc/antigravity-tray/internal/misc"
	"github.com/lugvitc/antigravity-tray/internal/notify"
	"github.com/lugvitc/antigravity-tray/internal/store"
	"github.com/lugvitc/antigravity-tray/internal/tray"
	"github.com/lugvitc/antigravity-tray/internal/window"
)

// WindowHost is the platform side of the main window: it can be looked up
// once the runtime hands over its context.
type WindowHost interface {
	window.Finder
	Attach(ctx context.Context)
	Detach()
	Context() context.Context
}

type Options struct {
	Config      *config.Config
	Paths       misc.Paths
	Guard       *instance.Guard
	Settings    *store.Settings
	Log         *zap.Logger
	Icon        []byte
	Version     string
	StartHidden bool

	Window WindowHost
	Tray   tray.Backend
	// Opener defaults to the desktop handlers.
	Opener *capability.Opener
}

// Api is the application instance. Exactly one exists per process; every
// tray, menu, window and activation handler closes over it.
type Api struct {
	cfg      *config.Config
	log      *zap.Logger
	icon     []byte
	version  string
	settings *store.Settings

	loop       *loop.Loop
	loopCancel context.CancelFunc

	host     WindowHost
	window   *window.Controller
	dispatch *tray.Dispatcher
	tray     *tray.Controller
	registry *capability.Registry
	opener   *capability.Opener
	fs       *capability.Filesystem
	notice   *notify.HideNotice
	frontend *Frontend

	quitRuntime func(ctx context.Context)
	exitProcess func(code int)

	mu         sync.Mutex
	exitCode   int
	startupErr error
	closeOnce  sync.Once
}

// New builds the application instance and registers every capability. Any
// error here is fatal: nothing has been shown to the user yet.
func New(opts Options) (*Api, error) {
	if opts.Config == nil || opts.Guard == nil || opts.Window == nil || opts.Tray == nil {
		return nil, errors.New("api: config, guard, window and tray are required")
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	cfg := opts.Config

	a := &Api{
		cfg:         cfg,
		log:         log,
		icon:        opts.Icon,
		version:     opts.Version,
		settings:    opts.Settings,
		loop:        loop.New(log.Named("loop")),
		host:        opts.Window,
		quitRuntime: runtime.Quit,
		exitProcess: os.Exit,
	}

	initial := window.Visible
	if opts.StartHidden || cfg.Window.StartHidden {
		initial = window.Hidden
	}
	a.window = window.NewController(misc.MAIN_WINDOW, opts.Window, initial, log)

	menuOpts := tray.DefaultMenuOptions()
	menuOpts.Dashboard = cfg.Tray.DashboardURL != ""
	menu, err := tray.BuildMenu(menuOpts)
	if err != nil {
		return nil, fmt.Errorf("build tray menu: %w", err)
	}
	a.dispatch = tray.NewDispatcher()
	a.dispatch.Handle(tray.IDShow, a.showAndFocus)
	a.dispatch.Handle(tray.IDQuit, func() { a.Exit(0) })
	if menuOpts.Dashboard {
		a.dispatch.Handle(tray.IDDashboard, a.openDashboard)
	}
	a.tray = tray.NewController(menu, a.dispatch, opts.Tray, a.loop, log.Named("tray"))
	a.tray.OnActivate = a.showAndFocus

	if cfg.NotifyOnHide {
		var st notify.Store
		if opts.Settings != nil {
			st = opts.Settings
		}
		a.notice = notify.NewHideNotice(misc.DISPLAY_NAME, store.KeyHideNoticeShown, opts.Icon, st, log)
		a.window.OnHidden = a.notice.Show
	}

	a.frontend = &Frontend{api: a}
	a.opener = opts.Opener
	if a.opener == nil {
		a.opener = capability.NewOpener()
	}
	a.fs = capability.NewFilesystem(cfg.ResolveScope(opts.Paths.ConfigDir, opts.Paths.DataDir), log)
	shellCommands := make(map[string]capability.Command, len(cfg.Shell.Commands))
	for name, c := range cfg.Shell.Commands {
		shellCommands[name] = capability.Command{Program: c.Program, Args: c.Args}
	}
	a.registry = capability.NewRegistry(log.Named("capability"))
	err = a.registry.Register(
		capability.NewAutostart(misc.APP_NAME, cfg.Autostart.AppName, cfg.Autostart.Args),
		capability.NewHTTP(cfg.HTTP.Allow, cfg.HTTP.Timeout),
		a.fs,
		capability.NewShell(shellCommands, cfg.Shell.Timeout),
		a.opener,
		capability.NewSingleInstance(opts.Guard, a.OnSecondInstanceLaunch, log),
	)
	if err != nil {
		return nil, err
	}
	if err := a.registry.SetupAll(); err != nil {
		return nil, err
	}

	var loopCtx context.Context
	loopCtx, a.loopCancel = context.WithCancel(context.Background())
	go a.loop.Run(loopCtx)
	return a, nil
}

// Bindings lists everything exposed to the frontend. Api itself is not
// among them.
func (a *Api) Bindings() []any {
	return append([]any{a.frontend}, a.registry.Bindings()...)
}

func (a *Api) Window() *window.Controller { return a.window }

func (a *Api) Menu() *tray.Menu { return a.tray.Menu() }

// Filesystem is the scoped filesystem, also used by the asset handler.
func (a *Api) Filesystem() *capability.Filesystem { return a.fs }

// Startup is called when the runtime is ready. The context is saved so we
// can call the runtime methods.
func (a *Api) Startup(ctx context.Context) {
	a.host.Attach(ctx)
	a.registry.Startup(ctx)
	if err := a.tray.Start(a.icon, a.cfg.Tray.Tooltip); err != nil {
		a.mu.Lock()
		a.startupErr = fmt.Errorf("start tray: %w", err)
		a.mu.Unlock()
		a.log.Error("tray unavailable, quitting", zap.Error(err))
		a.Exit(1)
		return
	}
	a.log.Info("started", zap.String("version", a.version), zap.Strings("capabilities", a.registry.Names()))
}

// BeforeClose converts a close request on the main window into a hide.
func (a *Api) BeforeClose(ctx context.Context) (prevent bool) {
	if a.window.Quitting() {
		return false
	}
	// the hide is queued: the runtime calls this on its UI thread and the
	// window calls it makes must not wait on that same thread
	a.loop.Post(func() { a.window.HandleCloseRequest() })
	return true
}

func (a *Api) Shutdown(ctx context.Context) {
	a.Close()
}

// Close releases the tray, capabilities and event loop. Safe to call twice.
func (a *Api) Close() {
	a.closeOnce.Do(func() {
		a.tray.Stop()
		if err := a.registry.Close(); err != nil {
			a.log.Warn("close capabilities", zap.Error(err))
		}
		// not waiting for the loop: Close may run on it via the quit item
		a.loopCancel()
		a.host.Detach()
		a.log.Info("stopped")
	})
}

// Exit terminates the process with code, bypassing close interception.
func (a *Api) Exit(code int) {
	a.mu.Lock()
	a.exitCode = code
	a.mu.Unlock()
	a.window.BeginQuit()
	if ctx := a.host.Context(); ctx != nil {
		a.quitRuntime(ctx)
		return
	}
	a.Close()
	a.exitProcess(code)
}

func (a *Api) ExitCode() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.exitCode
}

// StartupErr reports a failure that happened after the runtime started.
func (a *Api) StartupErr() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.startupErr
}

// OnSecondInstanceLaunch brings the window forward when the app is launched
// again. It runs on the activation listener and hands off to the loop.
func (a *Api) OnSecondInstanceLaunch(act instance.Activation) {
	a.loop.Post(a.showAndFocus)
}

func (a *Api) showAndFocus() {
	res := a.window.ShowAndFocus()
	if !res.OK() {
		// nothing to recover: the window is gone or the platform refused
		a.log.Debug("show window", zap.Stringer("outcome", res.Outcome), zap.Error(res.Err))
	}
}

func (a *Api) openDashboard() {
	if err := a.opener.OpenURL(a.cfg.Tray.DashboardURL); err != nil {
		a.log.Warn("open dashboard", zap.String("url", a.cfg.Tray.DashboardURL), zap.Error(err))
	}
}
