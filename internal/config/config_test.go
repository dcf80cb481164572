package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/sysdesign/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if cfg.Search.Debounce.Duration != 300*time.Millisecond {
		t.Errorf("debounce = %v, want 300ms", cfg.Search.Debounce)
	}
	if cfg.Dropdown.Offset != 1 || cfg.Dropdown.Padding != 1 {
		t.Errorf("dropdown = %+v", cfg.Dropdown)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg := Default()
	data := `
[dropdown]
offset = 2

[cache]
backend = "file"
dir = "/tmp/sd"
ttl = "1h"

[search]
mode = "remote"
url = "http://localhost:9000"
debounce = "150ms"
`
	if err := Parse([]byte(data), &cfg); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Dropdown.Offset != 2 {
		t.Errorf("offset = %d, want 2", cfg.Dropdown.Offset)
	}
	if cfg.Dropdown.Padding != 1 {
		t.Errorf("padding = %d, want default 1", cfg.Dropdown.Padding)
	}
	if cfg.Cache.TTL.Duration != time.Hour {
		t.Errorf("ttl = %v, want 1h", cfg.Cache.TTL)
	}
	if cfg.Search.Debounce.Duration != 150*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Search.Debounce)
	}
	if got := cfg.Cache.CacheTarget(); got != "/tmp/sd" {
		t.Errorf("CacheTarget() = %q", got)
	}
	if cfg.Search.Limit != 10 {
		t.Errorf("limit = %d, want default 10", cfg.Search.Limit)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "[dropdown]\ngap = 3\n"},
		{"bad duration", "[search]\ndebounce = \"soon\"\n"},
		{"syntax", "[cache\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			if err := Parse([]byte(tt.data), &cfg); err == nil {
				t.Error("Parse() expected error")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative offset", func(c *Config) { c.Dropdown.Offset = -1 }, "dropdown"},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "s3" }, "unknown cache backend"},
		{"redis without url", func(c *Config) { c.Cache.Backend = "redis" }, "redis_url"},
		{"remote without url", func(c *Config) { c.Search.Mode = SearchRemote }, "requires url"},
		{"unknown mode", func(c *Config) { c.Search.Mode = "psychic" }, "unknown search mode"},
		{"zero limit", func(c *Config) { c.Search.Limit = 0 }, "limit"},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing default file", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Search.Mode != SearchEmbedded {
			t.Errorf("mode = %q", cfg.Search.Mode)
		}
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("Load() = %v, want FILE_NOT_FOUND", err)
		}
	})

	t.Run("xdg file", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", dir)
		if err := os.MkdirAll(filepath.Join(dir, "sysdesign"), 0o755); err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(dir, "sysdesign", "config.toml")
		if err := os.WriteFile(path, []byte("[site]\nstyle = \"light\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Site.Style != "light" {
			t.Errorf("style = %q, want light", cfg.Site.Style)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "c.toml")
		if err := os.WriteFile(path, []byte("[search]\nlimit = -3\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("Load() = %v, want INVALID_CONFIG", err)
		}
	})
}

func TestPathRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	got, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := "/custom/config/sysdesign/config.toml"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	data, err := Encode(Default())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), `debounce = "300ms"`) {
		t.Errorf("encoded config missing debounce:\n%s", data)
	}
	cfg := Config{}
	if err := Parse(data, &cfg); err != nil {
		t.Fatalf("Parse(Encode()): %v", err)
	}
	if cfg != Default() {
		t.Errorf("round trip = %+v, want %+v", cfg, Default())
	}
}
