package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/vantagedata/dashlayout/pkg/errors"
	"github.com/vantagedata/dashlayout/pkg/grid"
	"github.com/vantagedata/dashlayout/pkg/panels"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Grid != grid.DefaultConfig() {
		t.Errorf("Grid = %+v, want defaults", cfg.Grid)
	}
	if cfg.Panels != panels.DefaultConstraints() {
		t.Errorf("Panels = %+v, want defaults", cfg.Panels)
	}
}

func TestDefaultHonorsXDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")

	cfg := Default()
	if want := filepath.Join("/tmp/state", appName, "store"); cfg.Storage.Dir != want {
		t.Errorf("Storage.Dir = %q, want %q", cfg.Storage.Dir, want)
	}
	if want := filepath.Join("/tmp/data", appName, "layouts.db"); cfg.Layouts.SQLitePath != want {
		t.Errorf("Layouts.SQLitePath = %q, want %q", cfg.Layouts.SQLitePath, want)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "dashlayout.toml", `
[grid]
columns = 12
row_height = 40.0

[panels]
left_min = 200.0

[storage]
backend = "redis"
redis_addr = "localhost:6379"
redis_db = 2

[server]
addr = ":9090"
read_timeout = "3s"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Grid.Columns != 12 || cfg.Grid.RowHeight != 40 {
		t.Errorf("Grid = %+v", cfg.Grid)
	}
	if cfg.Grid.Margin != grid.DefaultConfig().Margin {
		t.Errorf("unset Grid.Margin lost its default: %v", cfg.Grid.Margin)
	}
	if cfg.Panels.LeftMin != 200 || cfg.Panels.RightMin != panels.RightMin {
		t.Errorf("Panels = %+v", cfg.Panels)
	}
	if cfg.Storage.Backend != StorageRedis || cfg.Storage.RedisDB != 2 {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "dashlayout.yaml", `
grid:
  columns: 16
layouts:
  backend: mongo
  mongoURI: mongodb://localhost:27017
  mongoDatabase: dash
server:
  writeTimeout: 30s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Grid.Columns != 16 {
		t.Errorf("Grid.Columns = %d", cfg.Grid.Columns)
	}
	if cfg.Layouts.Backend != LayoutsMongo || cfg.Layouts.MongoDatabase != "dash" {
		t.Errorf("Layouts = %+v", cfg.Layouts)
	}
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("Server.WriteTimeout = %v", cfg.Server.WriteTimeout)
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yml", "\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Grid != grid.DefaultConfig() {
		t.Errorf("Grid = %+v", cfg.Grid)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantCode errors.Code
	}{
		{"unknown toml key", "c.toml", "[grid]\ncolumnz = 3\n", errors.ErrCodeInvalidConfig},
		{"unknown yaml key", "c.yaml", "grid:\n  columnz: 3\n", errors.ErrCodeInvalidConfig},
		{"bad syntax", "c.toml", "[grid\n", errors.ErrCodeInvalidConfig},
		{"unsupported extension", "c.ini", "x=1", errors.ErrCodeInvalidConfig},
		{"invalid grid", "c.toml", "[grid]\ncolumns = 0\n", errors.ErrCodeInvalidConfig},
		{"unknown backend", "c.toml", "[storage]\nbackend = \"s3\"\n", errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %q, want %q (%v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"memory storage", func(c *Config) { c.Storage.Backend = StorageMemory }, true},
		{"none storage", func(c *Config) { c.Storage.Backend = StorageNone }, true},
		{"file storage without dir", func(c *Config) { c.Storage.Dir = "" }, false},
		{"redis without addr", func(c *Config) { c.Storage.Backend = StorageRedis }, false},
		{"sqlite without path", func(c *Config) { c.Layouts.SQLitePath = "" }, false},
		{"mongo without uri", func(c *Config) { c.Layouts.Backend = LayoutsMongo }, false},
		{"store layouts", func(c *Config) { c.Layouts.Backend = LayoutsStore }, true},
		{"unknown layouts backend", func(c *Config) { c.Layouts.Backend = "postgres" }, false},
		{"left max below min", func(c *Config) { c.Panels.LeftMax = 100 }, false},
		{"zero center min", func(c *Config) { c.Panels.CenterMin = 0 }, false},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }, false},
		{"upper case log level", func(c *Config) { c.Log.Level = "WARN" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	want := Default()
	want.Grid.Columns = 12
	want.Server.Addr = ":7000"

	data, err := want.Encode()
	if err != nil {
		t.Fatal(err)
	}

	var got Config
	if _, err := toml.Decode(string(data), &got); err != nil {
		t.Fatalf("decode encoded config: %v\n%s", err, data)
	}
	if got != want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestExampleConfigs(t *testing.T) {
	tests := []struct {
		file    string
		storage string
		layouts string
		addr    string
	}{
		{"config.toml", StorageRedis, LayoutsMongo, "0.0.0.0:8080"},
		{"config.yaml", StorageFile, LayoutsSQLite, "127.0.0.1:9090"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			cfg, err := Load(filepath.Join("..", "..", "examples", tt.file))
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Storage.Backend != tt.storage || cfg.Layouts.Backend != tt.layouts {
				t.Errorf("backends = %s/%s, want %s/%s", cfg.Storage.Backend, cfg.Layouts.Backend, tt.storage, tt.layouts)
			}
			if cfg.Server.Addr != tt.addr {
				t.Errorf("addr = %s, want %s", cfg.Server.Addr, tt.addr)
			}
		})
	}
}
