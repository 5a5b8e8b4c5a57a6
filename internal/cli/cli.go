package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/schemeview/pkg/buildinfo"
	"github.com/matzehuels/schemeview/pkg/cache"
	"github.com/matzehuels/schemeview/pkg/config"
	"github.com/matzehuels/schemeview/pkg/errors"
	"github.com/matzehuels/schemeview/pkg/scheme"
	"github.com/matzehuels/schemeview/pkg/telemetry"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "schemeview"

	// connectTimeout bounds connecting to Redis.
	connectTimeout = 5 * time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Schemeview renders SCADA schemes with live channel data",
		Long:         `Schemeview renders mnemonic schemes of a monitoring system to HTML and keeps them in sync with channel data, either as a one-shot page, a live web view or a terminal view.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// loadScheme loads a scheme document and logs the parts that were skipped.
func (c *CLI) loadScheme(path string) (*scheme.Document, error) {
	doc, issues, err := scheme.Load(path, nil)
	if err != nil {
		return nil, err
	}
	for _, is := range issues {
		c.Logger.Warn("skipped part of scheme", "path", path, "issue", is.String())
	}
	c.Logger.Debug("scheme loaded", "path", path, "components", len(doc.Components), "images", len(doc.Images))
	return doc, nil
}

// openSource creates the telemetry source described by cfg.
func (c *CLI) openSource(ctx context.Context, cfg config.Source) (telemetry.Source, error) {
	switch cfg.Kind {
	case config.SourceRedis:
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		c.Logger.Debug("connecting to redis", "addr", cfg.RedisAddr)
		return telemetry.NewRedisSource(ctx, telemetry.RedisConfig{
			Addr:   cfg.RedisAddr,
			DB:     cfg.RedisDB,
			Prefix: cfg.RedisPrefix,
		})
	case config.SourceHTTP:
		return telemetry.NewHTTPSource(cfg.URL, nil)
	case config.SourceFile, "":
		if cfg.Path == "" {
			return telemetry.SourceFunc(func(context.Context, []int) (*telemetry.Snapshot, error) {
				return telemetry.NewSnapshot(), nil
			}), nil
		}
		return telemetry.NewFileSource(cfg.Path), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown source kind %q", cfg.Kind)
}

// newCache opens the artifact cache described by cfg. Failing to open the
// cache is not fatal: rendering continues uncached.
func (c *CLI) newCache(ctx context.Context, cfg config.Cache, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, rendering uncached", "err", err)
			return cache.NewNullCache()
		}
		return cache.Instrumented(rc, "page")
	}

	dir, err := resolveCacheDir(cfg)
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, rendering uncached", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return cache.Instrumented(fc, "page")
}

// cacheDir returns the default file cache directory.
func cacheDir() (string, error) {
	return cache.DefaultDir()
}
