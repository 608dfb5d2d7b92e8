// Package config loads dashlayout settings from TOML or YAML files.
//
// The format is chosen by extension (.toml, .yaml, .yml). Missing fields
// keep their defaults, so an empty file is a valid configuration:
//
//	[grid]
//	columns = 24
//	row_height = 30.0
//
//	[storage]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/vantagedata/dashlayout/pkg/errors"
	"github.com/vantagedata/dashlayout/pkg/grid"
	"github.com/vantagedata/dashlayout/pkg/panels"
)

const appName = "dashlayout"

// Storage backends for persisted UI state.
const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageNone   = "none"
)

// Layout repository backends.
const (
	LayoutsSQLite = "sqlite"
	LayoutsMongo  = "mongo"
	LayoutsStore  = "store"
)

// Config is the complete application configuration.
type Config struct {
	Grid    grid.Config        `toml:"grid" yaml:"grid"`
	Panels  panels.Constraints `toml:"panels" yaml:"panels"`
	Storage StorageConfig      `toml:"storage" yaml:"storage"`
	Layouts LayoutsConfig      `toml:"layouts" yaml:"layouts"`
	Server  ServerConfig       `toml:"server" yaml:"server"`
	Log     LogConfig          `toml:"log" yaml:"log"`
}

// StorageConfig selects the keyed store for panel and sidebar widths.
type StorageConfig struct {
	Backend       string `toml:"backend" yaml:"backend"`
	Dir           string `toml:"dir" yaml:"dir"`
	Scope         string `toml:"scope" yaml:"scope"`
	RedisAddr     string `toml:"redis_addr" yaml:"redisAddr"`
	RedisPassword string `toml:"redis_password" yaml:"redisPassword"`
	RedisDB       int    `toml:"redis_db" yaml:"redisDB"`
	RedisPrefix   string `toml:"redis_prefix" yaml:"redisPrefix"`
}

// LayoutsConfig selects the layout repository.
type LayoutsConfig struct {
	Backend         string `toml:"backend" yaml:"backend"`
	SQLitePath      string `toml:"sqlite_path" yaml:"sqlitePath"`
	MongoURI        string `toml:"mongo_uri" yaml:"mongoURI"`
	MongoDatabase   string `toml:"mongo_database" yaml:"mongoDatabase"`
	MongoCollection string `toml:"mongo_collection" yaml:"mongoCollection"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr" yaml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout" yaml:"readTimeout"`
	WriteTimeout    time.Duration `toml:"write_timeout" yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" yaml:"shutdownTimeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// Default returns the built-in configuration. Paths follow the XDG base
// directory conventions.
func Default() Config {
	return Config{
		Grid:   grid.DefaultConfig(),
		Panels: panels.DefaultConstraints(),
		Storage: StorageConfig{
			Backend: StorageFile,
			Dir:     filepath.Join(stateHome(), appName, "store"),
		},
		Layouts: LayoutsConfig{
			Backend:    LayoutsSQLite,
			SQLitePath: filepath.Join(dataHome(), appName, "layouts.db"),
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the file at path on top of the defaults. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.decode(data, filepath.Ext(path)); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte, ext string) error {
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), c)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown keys: %v", undecoded)
		}
		return nil
	case ".yaml", ".yml":
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		return dec.Decode(c)
	default:
		return fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}

	p := c.Panels
	if p.LeftMin <= 0 || p.RightMin <= 0 || p.CenterMin <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "panel minimums must be positive")
	}
	if p.LeftMax < p.LeftMin || p.RightMax < p.RightMin {
		return errors.New(errors.ErrCodeInvalidConfig, "panel maximums must not be below their minimums")
	}

	switch c.Storage.Backend {
	case StorageFile:
		if c.Storage.Dir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "storage.dir is required for the file backend")
		}
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "storage.redis_addr is required for the redis backend")
		}
	case StorageMemory, StorageNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown storage backend %q", c.Storage.Backend)
	}

	switch c.Layouts.Backend {
	case LayoutsSQLite:
		if c.Layouts.SQLitePath == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "layouts.sqlite_path is required for the sqlite backend")
		}
	case LayoutsMongo:
		if c.Layouts.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "layouts.mongo_uri is required for the mongo backend")
		}
	case LayoutsStore:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown layouts backend %q", c.Layouts.Backend)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown log level %q", c.Log.Level)
	}
	return nil
}

// Encode renders c as TOML, the format written by "dashlayout config init".
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// stateHome returns $XDG_STATE_HOME or ~/.local/state.
func stateHome() string {
	return xdg("XDG_STATE_HOME", ".local", "state")
}

// dataHome returns $XDG_DATA_HOME or ~/.local/share.
func dataHome() string {
	return xdg("XDG_DATA_HOME", ".local", "share")
}

func xdg(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}
