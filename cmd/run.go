package cmd

import (
	"fmt"
	"io/fs"
	"os"

	apiPkg "github.com/lugvitc/antigravity-tray/api"
	"github.com/lugvitc/antigravity-tray/cmd/common"
	"github.com/lugvitc/antigravity-tray/internal/config"
	"github.com/lugvitc/antigravity-tray/internal/instance"
	"github.com/lugvitc/antigravity-tray/internal/logging"
	"github.com/lugvitc/antigravity-tray/internal/misc"
	"github.com/lugvitc/antigravity-tray/internal/server"
	"github.com/lugvitc/antigravity-tray/internal/store"
	"github.com/lugvitc/antigravity-tray/internal/tray"
	"github.com/lugvitc/antigravity-tray/internal/window"
	"github.com/urfave/cli"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"go.uber.org/zap"
)

const settingsDB = "settings.db"

var (
	// launchArgs are the raw arguments forwarded to a running instance.
	launchArgs   []string
	resolvePaths = misc.ResolvePaths
	runUI        = func(app *options.App) error { return wails.Run(app) }
)

type environment struct {
	paths misc.Paths
	cfg   *config.Config
	log   *zap.Logger
}

func loadEnvironment(ctx *cli.Context, paths misc.Paths) (*environment, error) {
	cfgPath := ctx.GlobalString("config")
	if cfgPath == "" {
		cfgPath = paths.ConfigFile()
	}
	cfg, _, err := config.Load(cfgPath, paths.EnvFile())
	if err != nil {
		return nil, err
	}
	logFile := ""
	if cfg.Log.File {
		logFile = paths.LogFile()
	}
	log, err := logging.New(logging.Options{Level: cfg.Log.Level, FilePath: logFile})
	if err != nil {
		return nil, err
	}
	return &environment{paths: paths, cfg: cfg, log: log}, nil
}

// forwardLogger is used by a duplicate launch, which never reads the config.
func forwardLogger() *zap.Logger {
	log, err := logging.New(logging.Options{Level: "warn"})
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func run(assets fs.FS) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		paths, err := resolvePaths()
		if err != nil {
			common.PrintRuntimeErr(ctx, "run", "init", err)
			return cli.NewExitError("", 1)
		}

		// the lock comes first so a duplicate forwards whatever state the config is in
		guard, err := instance.Acquire(paths.LockPath(), paths.SocketPath(), nil)
		if err != nil {
			common.PrintRuntimeErr(ctx, "run", "lock", err)
			return cli.NewExitError("", 1)
		}
		if guard.Role() == instance.Secondary {
			log := forwardLogger()
			forwardToPrimary(guard, log)
			_ = log.Sync()
			return nil
		}
		defer func() { _ = guard.Release() }()

		env, err := loadEnvironment(ctx, paths)
		if err != nil {
			common.PrintRuntimeErr(ctx, "run", "init", err)
			return cli.NewExitError("", 1)
		}
		defer func() { _ = env.log.Sync() }()
		guard.SetLogger(env.log.Named("instance"))

		return runPrimary(ctx, assets, env, guard)
	}
}

// forwardToPrimary hands this launch to the running instance. The outcome
// is only logged: a duplicate launch never starts its own UI.
func forwardToPrimary(guard *instance.Guard, log *zap.Logger) {
	cwd, _ := os.Getwd()
	res := guard.Forward(launchArgs, cwd)
	if res.Err != nil {
		log.Warn("could not reach running instance", zap.Error(res.Err))
	} else {
		log.Info("forwarded launch to running instance", zap.String("id", res.Activation.ID))
	}
	_ = guard.Release()
}

func runPrimary(ctx *cli.Context, assets fs.FS, env *environment, guard *instance.Guard) error {
	log := env.log
	settings, err := store.OpenSettings(env.paths.GetSQLiteAddress(settingsDB))
	if err != nil {
		log.Warn("settings unavailable", zap.Error(err))
		settings = nil
	} else {
		defer settings.Close()
	}

	startHidden := ctx.Bool("hidden") || env.cfg.Window.StartHidden
	api, err := apiPkg.New(apiPkg.Options{
		Config:      env.cfg,
		Paths:       env.paths,
		Guard:       guard,
		Settings:    settings,
		Log:         log,
		Icon:        currentBuildArgs.Icon,
		Version:     currentBuildArgs.Version,
		StartHidden: startHidden,
		Window:      window.NewWailsFinder(misc.MAIN_WINDOW),
		Tray:        tray.NewSystrayBackend(),
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "run", "setup", err)
		return cli.NewExitError("", 1)
	}
	defer api.Close()

	err = runUI(&options.App{
		Title:       misc.DISPLAY_NAME,
		Width:       env.cfg.Window.Width,
		Height:      env.cfg.Window.Height,
		StartHidden: startHidden,
		AssetServer: &assetserver.Options{
			Assets:  assets,
			Handler: server.NewAssetFileServer(api.Filesystem(), log.Named("assets")),
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup:        api.Startup,
		OnBeforeClose:    api.BeforeClose,
		OnShutdown:       api.Shutdown,
		Bind:             api.Bindings(),
		Logger:           logging.NewWailsLogger(log),
		LogLevel:         logging.WailsLevel(log.Level()),
		Linux: &linux.Options{
			Icon:             currentBuildArgs.Icon,
			WebviewGpuPolicy: linux.WebviewGpuPolicyOnDemand,
			ProgramName:      misc.APP_NAME,
		},
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "run", "ui", err)
		return cli.NewExitError("", 1)
	}
	if err := api.StartupErr(); err != nil {
		common.PrintRuntimeErr(ctx, "run", "startup", err)
		return cli.NewExitError("", api.ExitCode())
	}
	if code := api.ExitCode(); code != 0 {
		return cli.NewExitError(fmt.Sprintf("exited with code %d", code), code)
	}
	return nil
}
