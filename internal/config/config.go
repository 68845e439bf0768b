// Package config loads kpp settings from a YAML file and KPP_ environment
// variables on top of the server's environment defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"kpp/internal/server"
	"kpp/view"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "kpp.yml"

// Config is the top-level configuration, corresponding to kpp.yml.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Present PresentConfig `koanf:"present"`
	Export  ExportConfig  `koanf:"export"`
}

type ServerConfig struct {
	Addr       string        `koanf:"addr"`
	DocsDir    string        `koanf:"docs_dir"`
	SessionTTL time.Duration `koanf:"session_ttl"`
	Title      string        `koanf:"title"`
	Watch      bool          `koanf:"watch"`
}

// PresentConfig drives the terminal presenter.
type PresentConfig struct {
	Width int `koanf:"width"`
	// Mode is the start view, e.g. "slide-screen"; empty means the class
	// default.
	Mode string `koanf:"mode"`
}

type ExportConfig struct {
	Enabled bool          `koanf:"enabled"`
	Timeout time.Duration `koanf:"timeout"`
}

// Defaults seeds the server section from server.DefaultConfig, which reads
// KPP_DOCS_DIR, KPP_SESSION_TTL and PORT.
func Defaults() *Config {
	srv := server.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Addr:       srv.Addr,
			DocsDir:    srv.DocsDir,
			SessionTTL: srv.SessionTTL,
			Title:      srv.Title,
			Watch:      true,
		},
		Present: PresentConfig{Width: 80},
		Export:  ExportConfig{Enabled: true, Timeout: 30 * time.Second},
	}
}

// Load reads configuration from the given YAML file if it exists, then
// overlays KPP_<SECTION>_<KEY> environment variables, e.g.
// KPP_SERVER_DOCS_DIR or KPP_PRESENT_WIDTH.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("KPP_", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps KPP_SERVER_DOCS_DIR to server.docs_dir.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "KPP_"))
	return strings.Replace(key, "_", ".", 1)
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Server.DocsDir == "" {
		return fmt.Errorf("server.docs_dir is required")
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("server.session_ttl must be positive")
	}
	if c.Present.Width < 20 {
		return fmt.Errorf("present.width must be at least 20, got %d", c.Present.Width)
	}
	if c.Present.Mode != "" {
		if _, err := view.ParsePair(c.Present.Mode); err != nil {
			return fmt.Errorf("present.mode: %w", err)
		}
	}
	if c.Export.Timeout < 0 {
		return fmt.Errorf("export.timeout must be non-negative")
	}
	return nil
}

// ForServer converts the server section for server.New. Printer and
// Logger are left for the caller.
func (c *Config) ForServer() server.Config {
	return server.Config{
		Addr:       c.Server.Addr,
		DocsDir:    c.Server.DocsDir,
		SessionTTL: c.Server.SessionTTL,
		Title:      c.Server.Title,
	}
}

// PresentPair is the configured presenter start view, zero for the class
// default.
func (c *Config) PresentPair() view.Pair {
	p, err := view.ParsePair(c.Present.Mode)
	if err != nil {
		return view.Pair{}
	}
	return p
}
