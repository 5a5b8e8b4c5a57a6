package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/schemeview/pkg/config"
	"github.com/matzehuels/schemeview/pkg/render"
	"github.com/matzehuels/schemeview/pkg/scheme"
	"github.com/matzehuels/schemeview/pkg/telemetry"
	"github.com/matzehuels/schemeview/pkg/view"
)

var (
	boilerScheme   = filepath.Join("..", "..", "pkg", "scheme", "testdata", "boiler.json")
	boilerChannels = filepath.Join("..", "..", "pkg", "telemetry", "testdata", "channels.json")
)

func newTestCLI() *CLI {
	return New(io.Discard, log.ErrorLevel)
}

// testRenderOpts renders into a temp dir with a file cache configured
// through a config file.
func testRenderOpts(t *testing.T) renderOpts {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "schemeview.toml")
	cfg := "[cache]\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "cache")) + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return renderOpts{
		output:      filepath.Join(dir, "out", "boiler.html"),
		data:        boilerChannels,
		config:      cfgPath,
		scale:       string(render.ScaleActualSize),
		width:       view.DefaultViewportWidth,
		height:      view.DefaultViewportHeight,
		titleSuffix: config.DefaultTitleSuffix,
	}
}

func TestRunRender(t *testing.T) {
	ctx := context.Background()
	c := newTestCLI()
	opts := testRenderOpts(t)

	res, err := c.runRender(ctx, boilerScheme, opts)
	if err != nil {
		t.Fatalf("runRender() error: %v", err)
	}
	if res.Cached {
		t.Error("first render came from the cache")
	}
	if res.Path != opts.output {
		t.Errorf("Path = %q, want %q", res.Path, opts.output)
	}
	want := view.Stats{Components: 6, Rendered: 4, Skipped: 2}
	if res.Stats != want {
		t.Errorf("Stats = %+v, want %+v", res.Stats, want)
	}

	page, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(page)
	for _, s := range []string{"<title>Boiler - Rapid SCADA</title>", `id="comp2"`, "21.5 °C"} {
		if !strings.Contains(html, s) {
			t.Errorf("page does not contain %q", s)
		}
	}
	if strings.Contains(html, "client.js") {
		t.Error("static page loads the live client")
	}

	again, err := c.runRender(ctx, boilerScheme, opts)
	if err != nil {
		t.Fatalf("second runRender() error: %v", err)
	}
	if !again.Cached {
		t.Error("second render was not cached")
	}
	if again.Stats != want {
		t.Errorf("cached Stats = %+v, want %+v", again.Stats, want)
	}
	cached, _ := os.ReadFile(again.Path)
	if string(cached) != html {
		t.Error("cached page differs from the rendered one")
	}
}

func TestRunRenderOptionsChangeKey(t *testing.T) {
	ctx := context.Background()
	c := newTestCLI()
	opts := testRenderOpts(t)

	if _, err := c.runRender(ctx, boilerScheme, opts); err != nil {
		t.Fatal(err)
	}
	opts.titleSuffix = "Plant"
	res, err := c.runRender(ctx, boilerScheme, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached {
		t.Error("render with another title suffix came from the cache")
	}

	opts.noCache = true
	if res, _ := c.runRender(ctx, boilerScheme, opts); res == nil || res.Cached {
		t.Error("--no-cache render came from the cache")
	}
}

func TestRunRenderMissingFile(t *testing.T) {
	c := newTestCLI()
	opts := testRenderOpts(t)

	if _, err := c.runRender(context.Background(), "missing.json", opts); err == nil {
		t.Error("runRender(missing) error = nil")
	}
}

func TestComponentRows(t *testing.T) {
	doc, _, err := scheme.Load(boilerScheme, nil)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := telemetry.NewFileSource(boilerChannels).Fetch(context.Background(), doc.InputChannels())
	if err != nil {
		t.Fatal(err)
	}

	rows := componentRows(doc, render.DefaultRegistry(), snap)
	if len(rows) != len(doc.Components) {
		t.Fatalf("rows = %d, want %d", len(rows), len(doc.Components))
	}
	if got := len(componentHeaders(true)); len(rows[0]) != got {
		t.Errorf("row width = %d, want %d", len(rows[0]), got)
	}

	tests := []struct {
		row, col int
		want     string
	}{
		{0, 0, "1"},
		{0, 1, "StaticText"},
		{0, 3, "10,20"},
		{0, 4, "100x20"},
		{0, 5, iconNone},
		{1, 5, "101"},
		{1, 7, string(scheme.ActionDrawDiagram)},
		{1, 8, "21.5 °C"},
		{2, 8, "15.00 bar"},
		{3, 1, "Unknown"},
		{3, 2, iconNone},
		{4, 2, iconNone},
	}
	for _, tt := range tests {
		if got := rows[tt.row][tt.col]; got != tt.want {
			t.Errorf("rows[%d][%d] = %q, want %q", tt.row, tt.col, got, tt.want)
		}
	}
	if rows[1][2] == iconNone {
		t.Error("dynamic text has no renderer")
	}
}

func TestRunInspect(t *testing.T) {
	var out bytes.Buffer
	if err := newTestCLI().runInspect(context.Background(), &out, boilerScheme, boilerChannels); err != nil {
		t.Fatalf("runInspect() error: %v", err)
	}
	got := out.String()
	for _, s := range []string{"Boiler", "renderers: DynamicPicture, DynamicText, StaticPicture, StaticText", "21.5 °C"} {
		if !strings.Contains(got, s) {
			t.Errorf("inspect output lacks %q", s)
		}
	}
}

func TestRegisteredKinds(t *testing.T) {
	reg := render.NewRegistry()
	reg.Register(scheme.TypeStaticText, render.StaticTextRenderer{})
	if got := registeredKinds(reg); got != "StaticText" {
		t.Errorf("registeredKinds() = %q, want StaticText", got)
	}
}

func TestRootCommand(t *testing.T) {
	root := newTestCLI().RootCommand()

	want := []string{"render", "serve", "inspect", "watch", "cache", "completion"}
	have := map[string]bool{}
	for _, cmd := range root.Commands() {
		have[cmd.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestServeOptsApply(t *testing.T) {
	var opts serveOpts
	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "")
	cmd.Flags().StringVar(&opts.data, "data", "", "")
	cmd.Flags().StringVar(&opts.scale, "scale", "", "")
	cmd.Flags().BoolVar(&opts.control, "control", false, "")
	if err := cmd.Flags().Parse([]string{"--data", "ch.json", "--control"}); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Source.Kind = config.SourceRedis
	cfg.Server.Addr = ":9000"
	opts.apply(cmd, []string{"plant.json"}, &cfg)

	if cfg.View.Scheme != "plant.json" {
		t.Errorf("Scheme = %q, want plant.json", cfg.View.Scheme)
	}
	if cfg.Source.Kind != config.SourceFile || cfg.Source.Path != "ch.json" {
		t.Errorf("Source = %+v, want file ch.json", cfg.Source)
	}
	if !cfg.View.ControlRight {
		t.Error("ControlRight = false, want true")
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %q, unset flag should keep :9000", cfg.Server.Addr)
	}
	if cfg.View.Scale != config.Default().View.Scale {
		t.Errorf("Scale = %q, unset flag should keep the default", cfg.View.Scale)
	}
}

func TestSourceLabel(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceRedis, RedisAddr: "db:6379"}, "redis db:6379"},
		{config.Source{Kind: config.SourceHTTP, URL: "http://scada/api/cur"}, "http://scada/api/cur"},
		{config.Source{Kind: config.SourceFile, Path: "ch.json"}, "ch.json"},
		{config.Source{Kind: config.SourceFile}, "none"},
	}
	for _, tt := range tests {
		if got := sourceLabel(tt.src); got != tt.want {
			t.Errorf("sourceLabel(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}
