package tray

import (
	"errors"
	"sync"

	"github.com/energye/systray"
)

// SystrayBackend drives the native tray icon. Left click is reported as an
// activation instead of opening the menu; right click opens the menu.
type SystrayBackend struct {
	mu      sync.Mutex
	running bool
}

func NewSystrayBackend() *SystrayBackend {
	return &SystrayBackend{}
}

func (b *SystrayBackend) Start(icon []byte, tooltip string, menu *Menu, cb Callbacks) error {
	if menu == nil {
		return errors.New("tray menu is nil")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return errors.New("tray already started")
	}
	b.running = true

	onReady := func() {
		systray.SetIcon(icon)
		systray.SetTooltip(tooltip)

		for _, e := range menu.Entries() {
			if e.Separator {
				systray.AddSeparator()
				continue
			}
			item := systray.AddMenuItem(e.Item.Label, "")
			if !e.Item.Enabled {
				item.Disable()
			}
			id := e.Item.ID
			item.Click(func() { cb.OnMenu(id) })
		}

		systray.SetOnClick(func(systray.IMenu) {
			cb.OnEvent(Event{Kind: Click, Button: Left, State: Up})
		})
		systray.SetOnDClick(func(systray.IMenu) {
			cb.OnEvent(Event{Kind: DoubleClick, Button: Left, State: Up})
		})
		systray.SetOnRClick(func(m systray.IMenu) {
			cb.OnEvent(Event{Kind: Click, Button: Right, State: Up})
			_ = m.ShowMenu()
		})
	}

	go systray.Run(onReady, func() {})
	return nil
}

func (b *SystrayBackend) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.running {
		return
	}
	b.running = false
	systray.Quit()
}
