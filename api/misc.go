package api

import (
	"errors"

	"github.com/lugvitc/antigravity-tray/internal/window"
)

// Frontend is the object bound into the webview. Lifecycle methods stay on
// Api so the page cannot call them.
type Frontend struct {
	api *Api
}

func (f *Frontend) Version() string {
	return f.api.version
}

func (f *Frontend) DashboardURL() string {
	return f.api.cfg.Tray.DashboardURL
}

func (f *Frontend) ShowWindow() error {
	var res window.ShowResult
	if err := f.api.loop.Do(func() { res = f.api.window.ShowAndFocus() }); err != nil {
		return err
	}
	return res.Err
}

func (f *Frontend) HideWindow() error {
	var res window.ShowResult
	if err := f.api.loop.Do(func() { res = f.api.window.Hide() }); err != nil {
		return err
	}
	return res.Err
}

func (f *Frontend) Quit() {
	f.api.loop.Post(func() { f.api.Exit(0) })
}

func (f *Frontend) SaveSettings(s map[string]any) error {
	if f.api.settings == nil {
		return errors.New("settings unavailable")
	}
	return f.api.settings.SaveAll(s)
}

func (f *Frontend) GetSettings() (map[string]any, error) {
	if f.api.settings == nil {
		return map[string]any{}, nil
	}
	return f.api.settings.All()
}
