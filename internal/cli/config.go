package cli

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/crystal/internal/server"
	"github.com/matzehuels/crystal/pkg/cache"
	"github.com/matzehuels/crystal/pkg/pipeline"
	"github.com/matzehuels/crystal/pkg/session"
)

// Config is the optional config file. Every field has a usable default.
//
//	[cache]
//	backend = "redis"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8480"
//	session_ttl = "1h"
type Config struct {
	Cache    cache.Options  `toml:"cache"`
	Sessions SessionsConfig `toml:"sessions"`
	Server   ServerConfig   `toml:"server"`
	Render   RenderConfig   `toml:"render"`
}

// SessionsConfig selects the session store used by serve.
type SessionsConfig struct {
	// Backend is memory, file or redis.
	Backend string            `toml:"backend"`
	Dir     string            `toml:"dir"`
	Redis   cache.RedisConfig `toml:"redis"`
}

// ServerConfig configures serve.
type ServerConfig struct {
	Addr       string   `toml:"addr"`
	SessionTTL duration `toml:"session_ttl"`
	MaxBody    int64    `toml:"max_body_bytes"`
}

// RenderConfig holds render defaults.
type RenderConfig struct {
	Palette string  `toml:"palette"`
	Scale   float64 `toml:"scale"`
}

// Session backends accepted in [sessions].
const (
	sessionsMemory = "memory"
	sessionsFile   = "file"
	sessionsRedis  = "redis"
)

// duration decodes TOML strings like "30m".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Cache:    cache.Options{Backend: cache.BackendFile},
		Sessions: SessionsConfig{Backend: sessionsMemory},
		Server: ServerConfig{
			Addr:       server.DefaultAddr,
			SessionTTL: duration{session.DefaultTTL},
			MaxBody:    server.DefaultMaxBodyBytes,
		},
		Render: RenderConfig{Palette: pipeline.DefaultPalette, Scale: pipeline.DefaultScale},
	}
}

// LoadConfig decodes the file at path over the defaults. Unknown keys are
// rejected so typos do not go unnoticed.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Sessions.Backend {
	case sessionsMemory, sessionsFile, sessionsRedis:
	default:
		return fmt.Errorf("unknown session backend %q (must be one of: memory, file, redis)", c.Sessions.Backend)
	}
	if c.Render.Palette != "" {
		if err := pipeline.ValidatePalette(c.Render.Palette); err != nil {
			return err
		}
	}
	if c.Server.SessionTTL.Duration < 0 || c.Server.MaxBody < 0 {
		return fmt.Errorf("session_ttl and max_body_bytes must not be negative")
	}
	return nil
}
