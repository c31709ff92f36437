// Package notify tells the user, once, that closing the window only hides it.
package notify

import (
	"github.com/gen2brain/beeep"
	"go.uber.org/zap"
)

// Sender delivers a desktop notification.
type Sender func(title, message string, icon any) error

// Store remembers whether the hint was already shown.
type Store interface {
	GetBool(key string, def bool) bool
	Set(key string, value any) error
}

type HideNotice struct {
	title string
	key   string
	icon  []byte
	store Store
	send  Sender
	log   *zap.Logger
	done  bool
}

func NewHideNotice(appName, key string, icon []byte, store Store, log *zap.Logger) *HideNotice {
	beeep.AppName = appName
	if log == nil {
		log = zap.NewNop()
	}
	return &HideNotice{
		title: appName,
		key:   key,
		icon:  icon,
		store: store,
		send:  beeep.Notify,
		log:   log,
	}
}

// WithSender replaces the notification backend.
func (n *HideNotice) WithSender(send Sender) *HideNotice {
	n.send = send
	return n
}

// Show sends the hint the first time it is called per installation. Delivery
// failures are logged; the hint is not retried.
func (n *HideNotice) Show() {
	if n.done {
		return
	}
	n.done = true
	if n.store != nil && n.store.GetBool(n.key, false) {
		return
	}
	err := n.send(n.title, "Still running in the system tray. Use Quit from the tray menu to exit.", n.icon)
	if err != nil {
		n.log.Debug("hide notification failed", zap.Error(err))
	}
	if n.store != nil {
		if err := n.store.Set(n.key, true); err != nil {
			n.log.Warn("persist hide notice", zap.Error(err))
		}
	}
}
