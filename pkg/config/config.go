// Package config loads the schemeview configuration file.
//
// The file is TOML. Every setting has a default, so an empty file (or no
// file at all) is a valid configuration:
//
//	[view]
//	scheme = "examples/boiler/boiler.json"
//	control_right = true
//	scale = "fit-screen"
//
//	[refresh]
//	interval = "1s"
//
//	[source]
//	kind = "redis"
//	redis_addr = "localhost:6379"
//
//	# or kind = "http" with url = "http://scada.local/api/cur"
//
//	[server]
//	addr = ":8080"
//
// Command-line flags override file values; see the CLI.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/schemeview/pkg/errors"
	"github.com/matzehuels/schemeview/pkg/render"
	"github.com/matzehuels/schemeview/pkg/telemetry"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultTitleSuffix is appended to scheme titles.
	DefaultTitleSuffix = "Rapid SCADA"

	// DefaultInterval is the telemetry refresh interval.
	DefaultInterval = time.Second

	// DefaultAddr is the listen address of the live server.
	DefaultAddr = ":8080"

	// DefaultCacheTTL is how long rendered pages stay cached.
	DefaultCacheTTL = 24 * time.Hour
)

// Telemetry source kinds.
const (
	SourceFile  = "file"
	SourceRedis = "redis"
	SourceHTTP  = "http"
)

// =============================================================================
// Config
// =============================================================================

// Config is the complete application configuration.
type Config struct {
	View    View    `toml:"view"`
	Refresh Refresh `toml:"refresh"`
	Source  Source  `toml:"source"`
	Server  Server  `toml:"server"`
	Cache   Cache   `toml:"cache"`
}

// View configures what is displayed and how.
type View struct {
	Scheme       string `toml:"scheme"`
	ControlRight bool   `toml:"control_right"`
	Scale        string `toml:"scale"`
	TitleSuffix  string `toml:"title_suffix"`
	ViewID       int    `toml:"view_id"`
}

// Refresh configures the telemetry polling loop.
type Refresh struct {
	Interval time.Duration `toml:"interval"`
}

// Source selects where channel data comes from.
type Source struct {
	Kind        string `toml:"kind"`
	Path        string `toml:"path"`
	URL         string `toml:"url"`
	RedisAddr   string `toml:"redis_addr"`
	RedisPrefix string `toml:"redis_prefix"`
	RedisDB     int    `toml:"redis_db"`
}

// Server configures the live view server.
type Server struct {
	Addr           string  `toml:"addr"`
	ViewportWidth  float64 `toml:"viewport_width"`
	ViewportHeight float64 `toml:"viewport_height"`
}

// Cache configures the artifact cache used by one-shot renders.
type Cache struct {
	// Dir is the file cache directory; empty means the user cache dir.
	Dir string `toml:"dir"`
	// RedisAddr selects a Redis cache instead of files.
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		View: View{
			Scale:       string(render.ScaleActualSize),
			TitleSuffix: DefaultTitleSuffix,
		},
		Refresh: Refresh{Interval: DefaultInterval},
		Source: Source{
			Kind:        SourceFile,
			RedisPrefix: telemetry.DefaultRedisPrefix,
		},
		Server: Server{Addr: DefaultAddr},
		Cache:  Cache{TTL: DefaultCacheTTL},
	}
}

// Load reads a configuration file over the defaults and validates it.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return cfg, cfg.Validate()
}

// Parse decodes TOML data into cfg. Keys missing from data keep their
// current values; unknown keys are an error.
func Parse(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown key %s", undecoded[0])
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, ok := render.ParseScaleMode(c.View.Scale); !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "view.scale: unknown mode %q", c.View.Scale)
	}
	if c.Refresh.Interval <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "refresh.interval must be positive, got %s", c.Refresh.Interval)
	}
	switch c.Source.Kind {
	case SourceFile:
	case SourceRedis:
		if c.Source.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "source.redis_addr is required for the redis source")
		}
	case SourceHTTP:
		if c.Source.URL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "source.url is required for the http source")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "source.kind: unknown kind %q", c.Source.Kind)
	}
	if c.Server.ViewportWidth < 0 || c.Server.ViewportHeight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server viewport must not be negative")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// ScaleMode returns the validated scale mode.
func (c Config) ScaleMode() render.ScaleMode {
	m, _ := render.ParseScaleMode(c.View.Scale)
	return m
}
