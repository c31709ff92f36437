package capability

import (
	"errors"
	"fmt"
	"os"

	"github.com/emersion/go-autostart"
)

// Launcher is the OS login-item entry.
type Launcher interface {
	IsEnabled() bool
	Enable() error
	Disable() error
}

// Autostart registers the application to start at user login.
type Autostart struct {
	appID       string
	displayName string
	args        []string
	executable  func() (string, error)
	newLauncher func(app *autostart.App) Launcher

	launcher Launcher
}

func NewAutostart(appID, displayName string, args []string) *Autostart {
	return &Autostart{
		appID:       appID,
		displayName: displayName,
		args:        args,
		executable:  os.Executable,
		newLauncher: func(app *autostart.App) Launcher { return app },
	}
}

func (a *Autostart) Name() string { return "autostart" }

func (a *Autostart) setup() error {
	if a.displayName == "" {
		return errors.New("autostart needs an application name")
	}
	exe, err := a.executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	a.launcher = a.newLauncher(&autostart.App{
		Name:        a.appID,
		DisplayName: a.displayName,
		Exec:        append([]string{exe}, a.args...),
	})
	return nil
}

func (a *Autostart) IsEnabled() bool {
	return a.launcher != nil && a.launcher.IsEnabled()
}

func (a *Autostart) Enable() error {
	if a.launcher == nil {
		return errors.New("autostart not set up")
	}
	if a.launcher.IsEnabled() {
		return nil
	}
	return a.launcher.Enable()
}

func (a *Autostart) Disable() error {
	if a.launcher == nil {
		return errors.New("autostart not set up")
	}
	if !a.launcher.IsEnabled() {
		return nil
	}
	return a.launcher.Disable()
}
