package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schemeview/pkg/cache"
	"github.com/matzehuels/schemeview/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered page cache",
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file")

	cmd.AddCommand(c.cacheClearCommand(&cfgPath))
	cmd.AddCommand(c.cachePathCommand(&cfgPath))

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			count, where, err := c.clearCache(cmd.Context(), cfg.Cache)
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached pages", count)
			printDetail("Location: %s", where)
			return nil
		},
	}
}

// clearCache empties the configured cache and reports where it lives.
func (c *CLI) clearCache(ctx context.Context, cfg config.Cache) (int, string, error) {
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr})
		if err != nil {
			return 0, "", err
		}
		defer rc.Close()
		n, err := rc.Clear(ctx)
		return n, "redis " + cfg.RedisAddr, err
	}

	dir, err := resolveCacheDir(cfg)
	if err != nil {
		return 0, "", err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, dir, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return 0, dir, err
	}
	n, err := fc.Clear(ctx)
	return n, dir, err
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if cfg.Cache.RedisAddr != "" {
				fmt.Println("redis://" + cfg.Cache.RedisAddr)
				return nil
			}
			dir, err := resolveCacheDir(cfg.Cache)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

func resolveCacheDir(cfg config.Cache) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return cacheDir()
}
