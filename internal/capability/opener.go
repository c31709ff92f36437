package capability

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/pkg/browser"
)

// Opener hands URLs and paths to the desktop's default handler.
type Opener struct {
	openURL  func(string) error
	openFile func(string) error
}

func NewOpener() *Opener {
	return &Opener{openURL: browser.OpenURL, openFile: browser.OpenFile}
}

// NewOpenerWith uses the given handlers instead of the desktop defaults. A
// nil handler keeps the default.
func NewOpenerWith(openURL, openFile func(string) error) *Opener {
	o := NewOpener()
	if openURL != nil {
		o.openURL = openURL
	}
	if openFile != nil {
		o.openFile = openFile
	}
	return o
}

func (o *Opener) Name() string { return "opener" }

func (o *Opener) setup() error {
	// xdg-open and friends are chatty on stdout
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return nil
}

func (o *Opener) OpenURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "mailto":
	default:
		return fmt.Errorf("refusing to open %q URL", u.Scheme)
	}
	return o.openURL(u.String())
}

func (o *Opener) OpenPath(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return o.openFile(path)
}
