package cli

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/schemeview/pkg/config"
	"github.com/matzehuels/schemeview/pkg/errors"
	"github.com/matzehuels/schemeview/pkg/server"
	"github.com/matzehuels/schemeview/pkg/view"
)

// serveOpts holds the flags of the serve command. Set flags override the
// config file.
type serveOpts struct {
	config  string
	addr    string
	data    string
	scale   string
	control bool
	noWatch bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [scheme]",
		Short: "Serve a live view of a scheme",
		Long: `Serve a live view of a scheme over HTTP.

Channel data is polled from the configured source and pushed to every
connected browser. The scheme file is watched and reloaded when it changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.config)
			if err != nil {
				return err
			}
			opts.apply(cmd, args, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.View.Scheme == "" {
				return errors.New(errors.ErrCodeInvalidInput, "no scheme given (pass a path or set view.scheme)")
			}
			return c.runServe(cmd.Context(), cfg, !opts.noWatch)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "config file")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default "+config.DefaultAddr+")")
	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "channel data file; selects the file source")
	cmd.Flags().StringVar(&opts.scale, "scale", "", "scale mode: fit-screen, fit-width, actual-size")
	cmd.Flags().BoolVar(&opts.control, "control", false, "allow viewers to send commands")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "do not reload the scheme when the file changes")

	return cmd
}

// apply copies the flags the user set into cfg.
func (o serveOpts) apply(cmd *cobra.Command, args []string, cfg *config.Config) {
	if len(args) == 1 {
		cfg.View.Scheme = args[0]
	}
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Server.Addr = o.addr
	}
	if flags.Changed("data") {
		cfg.Source.Kind = config.SourceFile
		cfg.Source.Path = o.data
	}
	if flags.Changed("scale") {
		cfg.View.Scale = o.scale
	}
	if flags.Changed("control") {
		cfg.View.ControlRight = o.control
	}
}

// runServe runs the session loop, the HTTP server and the file watcher
// until ctx is canceled or one of them fails.
func (c *CLI) runServe(ctx context.Context, cfg config.Config, watch bool) error {
	doc, err := c.loadScheme(cfg.View.Scheme)
	if err != nil {
		return err
	}

	src, err := c.openSource(ctx, cfg.Source)
	if err != nil {
		return err
	}
	defer src.Close()

	hub := server.NewHub(cfg.View.ViewID, c.Logger)
	session := view.NewSession(doc, view.Options{
		Hub:            hub,
		Logger:         c.Logger,
		ControlRight:   cfg.View.ControlRight,
		TitleSuffix:    cfg.View.TitleSuffix,
		ScaleMode:      cfg.ScaleMode(),
		ViewportWidth:  cfg.Server.ViewportWidth,
		ViewportHeight: cfg.Server.ViewportHeight,
	})
	srv := server.New(session, hub, server.Options{
		Addr:      cfg.Server.Addr,
		ScaleMode: cfg.ScaleMode(),
		Logger:    c.Logger,
	})

	printInfo("Serving %s", cfg.View.Scheme)
	printKeyValue("Address", cfg.Server.Addr)
	printKeyValue("Source", sourceLabel(cfg.Source))
	printKeyValue("Refresh", cfg.Refresh.Interval.String())
	if cfg.View.ControlRight {
		printWarning("Viewers may send commands")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return session.Run(gctx, src, cfg.Refresh.Interval)
	})
	g.Go(func() error {
		return srv.Run(gctx)
	})
	if watch {
		g.Go(func() error {
			return session.Watch(gctx, cfg.View.Scheme, c.loadScheme)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// Every part stops only once ctx is done.
	return ctx.Err()
}

func sourceLabel(s config.Source) string {
	switch s.Kind {
	case config.SourceRedis:
		return "redis " + s.RedisAddr
	case config.SourceHTTP:
		return s.URL
	default:
		if s.Path == "" {
			return "none"
		}
		return s.Path
	}
}

