package misc

import (
	"fmt"
	"os"
	"path/filepath"
)

const APP_NAME = "antigravity-claude-proxy"
const APP_ID = "com.antigravity.claude-proxy"

// DISPLAY_NAME is the human readable name used for the window title, tray
// tooltip and autostart entry.
const DISPLAY_NAME = "Antigravity Claude Proxy"

// MAIN_WINDOW is the identifier every component uses to address the main window.
const MAIN_WINDOW = "main"

// Paths groups the per-user directories the application writes to.
type Paths struct {
	ConfigDir  string
	DataDir    string
	RuntimeDir string
}

// ResolvePaths returns the application directories, creating them when missing.
func ResolvePaths() (Paths, error) {
	cdr, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("resolve config dir: %w", err)
	}
	ddr, err := os.UserCacheDir()
	if err != nil {
		return Paths{}, fmt.Errorf("resolve data dir: %w", err)
	}
	p := Paths{
		ConfigDir:  filepath.Join(cdr, APP_NAME),
		DataDir:    filepath.Join(ddr, APP_NAME),
		RuntimeDir: runtimeDir(),
	}
	for _, dir := range []string{p.ConfigDir, p.DataDir, p.RuntimeDir} {
		if dirExists(dir) {
			continue
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return Paths{}, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return p, nil
}

// LockPath is the file guarding the single running instance.
func (p Paths) LockPath() string {
	return filepath.Join(p.RuntimeDir, APP_NAME+".lock")
}

// SocketPath is where the running instance listens for activations.
func (p Paths) SocketPath() string {
	return filepath.Join(p.RuntimeDir, APP_NAME+".sock")
}

func (p Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

func (p Paths) EnvFile() string {
	return filepath.Join(p.ConfigDir, ".env")
}

func (p Paths) LogFile() string {
	return filepath.Join(p.DataDir, APP_NAME+".log")
}

// GetSQLiteAddress keeps databases beside the config: DataDir is a cache
// directory and may be wiped.
func (p Paths) GetSQLiteAddress(dbName string) string {
	path := filepath.Join(p.ConfigDir, dbName)
	return fmt.Sprintf("file:%s?_busy_timeout=5000", path)
}

// runtimeDir prefers XDG_RUNTIME_DIR so the socket path stays short; unix
// socket paths are limited to ~100 bytes.
func runtimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, APP_NAME)
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d", APP_NAME, os.Getuid()))
}

func dirExists(name string) bool {
	_, err := os.ReadDir(name)
	return !os.IsNotExist(err)
}
