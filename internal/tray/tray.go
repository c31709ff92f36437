package tray

import (
	"errors"

	"go.uber.org/zap"
)

// Callbacks are invoked by a Backend from its own goroutine.
type Callbacks struct {
	OnMenu  func(id string)
	OnEvent func(ev Event)
}

// Backend is the platform tray icon.
type Backend interface {
	Start(icon []byte, tooltip string, menu *Menu, cb Callbacks) error
	Stop()
}

// Poster schedules work on the event loop.
type Poster interface {
	Post(fn func()) bool
}

type Controller struct {
	menu     *Menu
	dispatch *Dispatcher
	backend  Backend
	loop     Poster
	log      *zap.Logger

	// OnActivate runs on a completed left click on the icon.
	OnActivate Handler
}

func NewController(menu *Menu, dispatch *Dispatcher, backend Backend, loop Poster, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		menu:     menu,
		dispatch: dispatch,
		backend:  backend,
		loop:     loop,
		log:      log,
	}
}

func (c *Controller) Menu() *Menu { return c.menu }

// Start installs the icon with the menu attached.
func (c *Controller) Start(icon []byte, tooltip string) error {
	if len(icon) == 0 {
		return errors.New("tray icon is empty")
	}
	return c.backend.Start(icon, tooltip, c.menu, Callbacks{
		OnMenu:  c.SelectMenu,
		OnEvent: c.IconEvent,
	})
}

func (c *Controller) Stop() {
	c.backend.Stop()
}

// SelectMenu queues the handler for a menu selection.
func (c *Controller) SelectMenu(id string) {
	c.loop.Post(func() {
		if !c.dispatch.Dispatch(id) {
			c.log.Debug("ignoring unknown menu item", zap.String("id", id))
		}
	})
}

// IconEvent queues activation for left clicks and drops everything else.
func (c *Controller) IconEvent(ev Event) {
	if !IsActivation(ev) || c.OnActivate == nil {
		return
	}
	c.loop.Post(func() { c.OnActivate() })
}
