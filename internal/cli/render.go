package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schemeview/pkg/cache"
	"github.com/matzehuels/schemeview/pkg/config"
	"github.com/matzehuels/schemeview/pkg/errors"
	"github.com/matzehuels/schemeview/pkg/render"
	"github.com/matzehuels/schemeview/pkg/scheme"
	"github.com/matzehuels/schemeview/pkg/server"
	"github.com/matzehuels/schemeview/pkg/telemetry"
	"github.com/matzehuels/schemeview/pkg/view"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output       string  // output file path; derived from the input when empty
	data         string  // channel data file applied after the createDom pass
	config       string  // optional config file for cache and view defaults
	controlRight bool    // viewer may send commands
	scale        string  // fit mode: fit-screen, fit-width, actual-size
	width        float64 // viewport width used by the fit modes
	height       float64 // viewport height used by the fit modes
	titleSuffix  string  // appended to the scheme title
	noCache      bool    // bypass the page cache
}

// renderResult describes one render.
type renderResult struct {
	Path   string
	Stats  view.Stats
	Cached bool
}

// cachedPage is the cache entry of a rendered page.
type cachedPage struct {
	Stats view.Stats `json:"stats"`
	HTML  []byte     `json:"html"`
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	defaults := config.Default()
	opts := renderOpts{
		scale:       defaults.View.Scale,
		width:       view.DefaultViewportWidth,
		height:      view.DefaultViewportHeight,
		titleSuffix: defaults.View.TitleSuffix,
	}

	cmd := &cobra.Command{
		Use:   "render [scheme]",
		Short: "Render a scheme to a static HTML page",
		Long: `Render a scheme to a static HTML page.

The scheme is rendered once. With --data, the channel data in the file is
applied on top, exactly as a live view would show it after one refresh.
Pages are cached by the content of the scheme and data files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := render.ParseScaleMode(opts.scale); !ok {
				return errors.New(errors.ErrCodeInvalidInput, "invalid scale %q (must be fit-screen, fit-width or actual-size)", opts.scale)
			}
			res, err := c.runRender(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			printSuccess("Rendered %s", args[0])
			printFile(res.Path)
			printStats(res.Stats.Components, res.Stats.Rendered, res.Stats.Skipped, res.Cached)
			printNextStep("Serve it live", fmt.Sprintf("%s serve %s", appName, args[0]))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <scheme>.html)")
	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "channel data file (json, toml or yaml)")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "config file")
	cmd.Flags().BoolVar(&opts.controlRight, "control", false, "render with the right to send commands")
	cmd.Flags().StringVar(&opts.scale, "scale", opts.scale, "scale mode: fit-screen, fit-width, actual-size")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "viewport width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "viewport height")
	cmd.Flags().StringVar(&opts.titleSuffix, "title-suffix", opts.titleSuffix, "text appended to the scheme title")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the page cache")

	return cmd
}

// runRender renders input to an HTML file, serving it from the cache when
// neither the scheme, the data nor the options changed.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) (*renderResult, error) {
	prog := newProgress(c.Logger)

	cfg, err := config.Load(opts.config)
	if err != nil {
		return nil, err
	}

	schemeData, err := os.ReadFile(input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scheme %s", input)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read scheme %s", input)
	}
	var channelData []byte
	if opts.data != "" {
		if channelData, err = os.ReadFile(opts.data); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "channel data %s", opts.data)
		}
	}

	out := opts.output
	if out == "" {
		out = strings.TrimSuffix(input, filepath.Ext(input)) + ".html"
	}

	pc := c.newCache(ctx, cfg.Cache, opts.noCache)
	defer pc.Close()

	key := cache.NewDefaultKeyer().PageKey(cache.Hash(schemeData), cache.Hash(channelData), cache.PageKeyOpts{
		ControlRight: opts.controlRight,
		Scale:        opts.scale,
		TitleSuffix:  opts.titleSuffix,
		Width:        opts.width,
		Height:       opts.height,
	})
	if data, ok, err := pc.Get(ctx, key); err != nil {
		c.Logger.Warn("cache read failed", "err", err)
	} else if ok {
		var cp cachedPage
		if err := json.Unmarshal(data, &cp); err == nil {
			c.Logger.Debug("page served from cache", "key", key)
			if err := writeOutput(out, cp.HTML); err != nil {
				return nil, err
			}
			return &renderResult{Path: out, Stats: cp.Stats, Cached: true}, nil
		}
		c.Logger.Warn("ignoring malformed cache entry", "key", key)
	}

	doc, issues, err := scheme.Parse(schemeData, scheme.FormatFromPath(input), nil)
	if err != nil {
		return nil, err
	}
	for _, is := range issues {
		c.Logger.Warn("skipped part of scheme", "path", input, "issue", is.String())
	}

	mode, _ := render.ParseScaleMode(opts.scale)
	// The page is static; a hub without clients takes the title announcement.
	session := view.NewSession(doc, view.Options{
		Hub:            server.NewHub(cfg.View.ViewID, c.Logger),
		Logger:         c.Logger,
		ControlRight:   opts.controlRight,
		TitleSuffix:    opts.titleSuffix,
		ScaleMode:      mode,
		ViewportWidth:  opts.width,
		ViewportHeight: opts.height,
	})
	stats := session.Load()

	if opts.data != "" {
		snap, err := telemetry.NewFileSource(opts.data).Fetch(ctx, doc.InputChannels())
		if err != nil {
			return nil, err
		}
		changes := session.Refresh(snap)
		c.Logger.Debug("channel data applied", "channels", snap.Len(), "changes", changes)
	}

	var buf bytes.Buffer
	if err := server.WritePage(&buf, session, false, mode); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write page")
	}
	if data, err := json.Marshal(cachedPage{Stats: stats, HTML: buf.Bytes()}); err == nil {
		if err := pc.Set(ctx, key, data, cfg.Cache.TTL); err != nil {
			c.Logger.Warn("cache write failed", "err", err)
		}
	}
	if err := writeOutput(out, buf.Bytes()); err != nil {
		return nil, err
	}

	prog.done(fmt.Sprintf("Rendered %s", input))
	return &renderResult{Path: out, Stats: stats}, nil
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "create output directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "write %s", path)
	}
	return nil
}
