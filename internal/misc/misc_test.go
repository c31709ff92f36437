package misc

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSQLiteAddressLivesInConfigDir(t *testing.T) {
	p := Paths{ConfigDir: "/home/u/.config/app", DataDir: "/home/u/.cache/app", RuntimeDir: "/run/user/1/app"}

	addr := p.GetSQLiteAddress("settings.db")
	want := "file:" + filepath.Join(p.ConfigDir, "settings.db")
	if !strings.HasPrefix(addr, want+"?") {
		t.Fatalf("address %q does not start with %q", addr, want)
	}
	if strings.Contains(addr, p.DataDir) {
		t.Fatalf("address %q points into the cache dir", addr)
	}
}

func TestPathsLayout(t *testing.T) {
	p := Paths{ConfigDir: "/c", DataDir: "/d", RuntimeDir: "/r"}
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"lock", p.LockPath(), filepath.Join("/r", APP_NAME+".lock")},
		{"socket", p.SocketPath(), filepath.Join("/r", APP_NAME+".sock")},
		{"config", p.ConfigFile(), filepath.Join("/c", "config.yaml")},
		{"env", p.EnvFile(), filepath.Join("/c", ".env")},
		{"log", p.LogFile(), filepath.Join("/d", APP_NAME+".log")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q want %q", tt.name, tt.got, tt.want)
		}
	}
}
