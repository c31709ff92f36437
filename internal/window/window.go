// Package window owns the visibility lifecycle of the main window. A close
// request hides the window; only an explicit quit lets the process exit.
package window

import (
	"sync/atomic"

	"go.uber.org/zap"
)

type Visibility uint8

const (
	Hidden Visibility = iota
	Visible
)

func (v Visibility) String() string {
	if v == Visible {
		return "visible"
	}
	return "hidden"
}

// Window is the platform surface of a single native window.
type Window interface {
	Show() error
	Hide() error
	Focus() error
}

// Finder looks a window up by its identifier. It reports false when the
// window does not exist (yet, or any more).
type Finder interface {
	Window(name string) (Window, bool)
}

// FinderFunc adapts a function to Finder.
type FinderFunc func(name string) (Window, bool)

func (f FinderFunc) Window(name string) (Window, bool) { return f(name) }

// Controller tracks the state of one named window. Its methods must be called
// from the event loop; only the quitting flag is touched from other goroutines.
type Controller struct {
	name     string
	finder   Finder
	log      *zap.Logger
	state    Visibility
	focused  bool
	quitting atomic.Bool

	// OnHidden runs after every close request that hid the window.
	OnHidden func()
}

func NewController(name string, finder Finder, initial Visibility, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		name:    name,
		finder:  finder,
		log:     log.With(zap.String("window", name)),
		state:   initial,
		focused: initial == Visible,
	}
}

func (c *Controller) Name() string { return c.name }

func (c *Controller) State() Visibility { return c.state }

func (c *Controller) Focused() bool { return c.focused }

// ShowAndFocus makes the window visible and gives it input focus. A missing
// window or a failing platform call is reported in the result, never panics.
func (c *Controller) ShowAndFocus() ShowResult {
	w, ok := c.finder.Window(c.name)
	if !ok {
		return ShowResult{Outcome: OutcomeNotFound}
	}
	if c.state == Visible {
		// already shown; raise it again in case another window covers it
		if err := w.Focus(); err != nil {
			return ShowResult{Outcome: OutcomeFailed, Err: err}
		}
		c.focused = true
		return ShowResult{Outcome: OutcomeAlreadyVisible}
	}
	if err := w.Show(); err != nil {
		return ShowResult{Outcome: OutcomeFailed, Err: err}
	}
	c.state = Visible
	if err := w.Focus(); err != nil {
		return ShowResult{Outcome: OutcomeFailed, Err: err}
	}
	c.focused = true
	c.log.Debug("window shown")
	return ShowResult{Outcome: OutcomeShown}
}

// Hide hides the window if it exists.
func (c *Controller) Hide() ShowResult {
	w, ok := c.finder.Window(c.name)
	if !ok {
		return ShowResult{Outcome: OutcomeNotFound}
	}
	if err := w.Hide(); err != nil {
		return ShowResult{Outcome: OutcomeFailed, Err: err}
	}
	c.state = Hidden
	c.focused = false
	c.log.Debug("window hidden")
	return ShowResult{Outcome: OutcomeHidden}
}

// HandleCloseRequest intercepts a close request. It hides the window and
// reports that the default close must be prevented, unless the application
// is quitting.
func (c *Controller) HandleCloseRequest() (prevent bool) {
	if c.quitting.Load() {
		return false
	}
	if res := c.Hide(); res.Err != nil {
		c.log.Warn("hide on close failed", zap.Error(res.Err))
	}
	// the state stays Hidden even if the platform hide failed: the window is
	// never destroyed, so the next show will re-sync it
	c.state = Hidden
	c.focused = false
	if c.OnHidden != nil {
		c.OnHidden()
	}
	return true
}

// BeginQuit disables close interception so the process can exit.
func (c *Controller) BeginQuit() {
	c.quitting.Store(true)
}

func (c *Controller) Quitting() bool {
	return c.quitting.Load()
}
