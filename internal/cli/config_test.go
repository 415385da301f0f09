package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/crystal/internal/server"
	"github.com/matzehuels/crystal/pkg/cache"
	"github.com/matzehuels/crystal/pkg/session"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Cache.Backend != cache.BackendFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, cache.BackendFile)
	}
	if cfg.Sessions.Backend != sessionsMemory {
		t.Errorf("Sessions.Backend = %q, want %q", cfg.Sessions.Backend, sessionsMemory)
	}
	if cfg.Server.Addr != server.DefaultAddr {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.SessionTTL.Duration != session.DefaultTTL {
		t.Errorf("Server.SessionTTL = %v", cfg.Server.SessionTTL)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[cache]
backend = "memory"

[sessions]
backend = "file"
dir = "/tmp/crystal-sessions"

[server]
addr = ":9000"
session_ttl = "1h30m"

[render]
palette = "dark"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Cache.Backend != cache.BackendMemory {
		t.Errorf("Cache.Backend = %q", cfg.Cache.Backend)
	}
	if cfg.Sessions.Backend != sessionsFile || cfg.Sessions.Dir != "/tmp/crystal-sessions" {
		t.Errorf("Sessions = %+v", cfg.Sessions)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.SessionTTL.Duration != 90*time.Minute {
		t.Errorf("Server.SessionTTL = %v, want 1h30m", cfg.Server.SessionTTL)
	}
	// Unset keys keep their defaults.
	if cfg.Server.MaxBody != server.DefaultMaxBodyBytes {
		t.Errorf("Server.MaxBody = %d", cfg.Server.MaxBody)
	}
	if cfg.Render.Palette != "dark" {
		t.Errorf("Render.Palette = %q", cfg.Render.Palette)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "[server]\nport = 80\n", "unknown key"},
		{"bad duration", "[server]\nsession_ttl = \"soon\"\n", "invalid duration"},
		{"bad session backend", "[sessions]\nbackend = \"sqlite\"\n", "unknown session backend"},
		{"bad palette", "[render]\npalette = \"neon\"\n", "invalid palette"},
		{"negative ttl", "[server]\nsession_ttl = \"-1m\"\n", "must not be negative"},
		{"malformed", "[server\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if !os.IsNotExist(err) {
		t.Errorf("error = %v, want not-exist", err)
	}
}

func TestCLILoadConfig(t *testing.T) {
	t.Run("missing default file is fine", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		c := New(&strings.Builder{}, LogInfo)
		if err := c.loadConfig(); err != nil {
			t.Fatalf("loadConfig: %v", err)
		}
		if c.Config.Sessions.Backend != sessionsMemory {
			t.Errorf("Sessions.Backend = %q", c.Config.Sessions.Backend)
		}
	})

	t.Run("missing explicit file fails", func(t *testing.T) {
		c := New(&strings.Builder{}, LogInfo)
		c.configPath = filepath.Join(t.TempDir(), "nope.toml")
		if err := c.loadConfig(); err == nil {
			t.Error("expected error for missing --config file")
		}
	})

	t.Run("default file is read", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", home)
		dir := filepath.Join(home, appName)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[cache]\nbackend = \"none\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		c := New(&strings.Builder{}, LogInfo)
		if err := c.loadConfig(); err != nil {
			t.Fatalf("loadConfig: %v", err)
		}
		if c.Config.Cache.Backend != cache.BackendNone {
			t.Errorf("Cache.Backend = %q, want none", c.Config.Cache.Backend)
		}
	})
}
