package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/schemeview/pkg/errors"
	"github.com/matzehuels/schemeview/pkg/render"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Refresh.Interval != time.Second {
		t.Errorf("Refresh.Interval = %v, want 1s", cfg.Refresh.Interval)
	}
	if cfg.Source.RedisPrefix != "cnl:" {
		t.Errorf("Source.RedisPrefix = %q, want cnl:", cfg.Source.RedisPrefix)
	}
	if cfg.ScaleMode() != render.ScaleActualSize {
		t.Errorf("ScaleMode() = %q, want actual-size", cfg.ScaleMode())
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemeview.toml")
	data := `
[view]
scheme = "boiler.json"
control_right = true
scale = "fit-width"
view_id = 7

[refresh]
interval = "250ms"

[source]
kind = "redis"
redis_addr = "localhost:6379"

[server]
addr = "127.0.0.1:9000"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.View.Scheme != "boiler.json" || !cfg.View.ControlRight || cfg.View.ViewID != 7 {
		t.Errorf("View = %+v", cfg.View)
	}
	if cfg.ScaleMode() != render.ScaleFitWidth {
		t.Errorf("ScaleMode() = %q, want fit-width", cfg.ScaleMode())
	}
	if cfg.Refresh.Interval != 250*time.Millisecond {
		t.Errorf("Refresh.Interval = %v, want 250ms", cfg.Refresh.Interval)
	}
	if cfg.Source.Kind != SourceRedis || cfg.Source.RedisPrefix != "cnl:" {
		t.Errorf("Source = %+v", cfg.Source)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.View.TitleSuffix != DefaultTitleSuffix {
		t.Errorf("View.TitleSuffix = %q, want default", cfg.View.TitleSuffix)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"bad scale", "[view]\nscale = \"zoom\"\n", errors.ErrCodeInvalidConfig},
		{"bad interval", "[refresh]\ninterval = \"0s\"\n", errors.ErrCodeInvalidConfig},
		{"bad kind", "[source]\nkind = \"opc\"\n", errors.ErrCodeInvalidConfig},
		{"redis without addr", "[source]\nkind = \"redis\"\n", errors.ErrCodeInvalidConfig},
		{"http without url", "[source]\nkind = \"http\"\n", errors.ErrCodeInvalidConfig},
		{"unknown key", "[view]\nzoom = 2\n", errors.ErrCodeInvalidConfig},
		{"syntax", "[view\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".toml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}
