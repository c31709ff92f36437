// Package config loads user configuration: defaults, then config.yaml, then
// .env and ACP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "ACP_"

type Config struct {
	Log          LogConfig       `yaml:"log"`
	Window       WindowConfig    `yaml:"window"`
	Tray         TrayConfig      `yaml:"tray"`
	NotifyOnHide bool            `yaml:"notify_on_hide"`
	Autostart    AutostartConfig `yaml:"autostart"`
	HTTP         HTTPConfig      `yaml:"http"`
	FS           FSConfig        `yaml:"fs"`
	Shell        ShellConfig     `yaml:"shell"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// File additionally writes JSON logs under the data directory.
	File bool `yaml:"file"`
}

type WindowConfig struct {
	Width       int  `yaml:"width"`
	Height      int  `yaml:"height"`
	StartHidden bool `yaml:"start_hidden"`
}

type TrayConfig struct {
	Tooltip string `yaml:"tooltip"`
	// DashboardURL adds an "Open Dashboard" menu item when set.
	DashboardURL string `yaml:"dashboard_url"`
}

type AutostartConfig struct {
	AppName string   `yaml:"app_name"`
	Args    []string `yaml:"args"`
}

type HTTPConfig struct {
	// Allow holds URL patterns; host and path accept '*' wildcards.
	Allow   []string      `yaml:"allow"`
	Timeout time.Duration `yaml:"timeout"`
}

type FSConfig struct {
	// Scope lists the directories the frontend may touch. $APPCONFIG and
	// $APPDATA expand to the application directories.
	Scope []string `yaml:"scope"`
}

type ShellCommand struct {
	Program string   `yaml:"program"`
	Args    []string `yaml:"args"`
}

type ShellConfig struct {
	Commands map[string]ShellCommand `yaml:"commands"`
	Timeout  time.Duration           `yaml:"timeout"`
}

func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Window: WindowConfig{
			Width:  1024,
			Height: 768,
		},
		Tray:         TrayConfig{Tooltip: "Antigravity Claude Proxy"},
		NotifyOnHide: true,
		Autostart: AutostartConfig{
			AppName: "Antigravity Claude Proxy",
			Args:    []string{"--hidden"},
		},
		HTTP: HTTPConfig{
			Allow:   []string{"http://localhost:*/*", "http://127.0.0.1:*/*"},
			Timeout: 30 * time.Second,
		},
		FS: FSConfig{Scope: []string{"$APPCONFIG", "$APPDATA"}},
		Shell: ShellConfig{
			Commands: map[string]ShellCommand{},
			Timeout:  time.Minute,
		},
	}
}

// Load returns the effective configuration and whether the config file existed.
func Load(path, envPath string) (*Config, bool, error) {
	cfg := Default()
	exists := false
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			exists = true
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, true, fmt.Errorf("parse %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, false, fmt.Errorf("read %s: %w", path, err)
		}
	}
	if envPath != "" {
		// godotenv never overrides variables that are already set
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, exists, fmt.Errorf("load %s: %w", envPath, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, exists, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, exists, err
	}
	return &cfg, exists, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(envPrefix + "LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(envPrefix + "DASHBOARD_URL"); ok {
		c.Tray.DashboardURL = v
	}
	if v, ok := os.LookupEnv(envPrefix + "START_HIDDEN"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sSTART_HIDDEN: %w", envPrefix, err)
		}
		c.Window.StartHidden = b
	}
	if v, ok := os.LookupEnv(envPrefix + "NOTIFY_ON_HIDE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sNOTIFY_ON_HIDE: %w", envPrefix, err)
		}
		c.NotifyOnHide = b
	}
	return nil
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

func (c *Config) Validate() error {
	var errs []error
	if !logLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window: invalid size %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Tray.DashboardURL != "" {
		u, err := url.Parse(c.Tray.DashboardURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("tray.dashboard_url: %q is not an absolute URL", c.Tray.DashboardURL))
		}
	}
	if strings.TrimSpace(c.Autostart.AppName) == "" {
		errs = append(errs, errors.New("autostart.app_name: must not be empty"))
	}
	if c.HTTP.Timeout <= 0 {
		errs = append(errs, errors.New("http.timeout: must be positive"))
	}
	if c.Shell.Timeout <= 0 {
		errs = append(errs, errors.New("shell.timeout: must be positive"))
	}
	for name, cmd := range c.Shell.Commands {
		if strings.TrimSpace(cmd.Program) == "" {
			errs = append(errs, fmt.Errorf("shell.commands.%s: program must not be empty", name))
		}
	}
	return errors.Join(errs...)
}

// ResolveScope expands the fs scope placeholders.
func (c *Config) ResolveScope(configDir, dataDir string) []string {
	vars := map[string]string{"APPCONFIG": configDir, "APPDATA": dataDir}
	out := make([]string, 0, len(c.FS.Scope))
	for _, s := range c.FS.Scope {
		out = append(out, os.Expand(s, func(k string) string {
			if v, ok := vars[k]; ok {
				return v
			}
			return os.Getenv(k)
		}))
	}
	return out
}
