package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vantagedata/dashlayout/pkg/buildinfo"
	"github.com/vantagedata/dashlayout/pkg/config"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "dashlayout"

	// defaultUser owns the layout when --user is not given.
	defaultUser = "local"
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
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "dashlayout arranges dashboard components on a grid",
		Long: `dashlayout places, compacts and persists dashboard layouts on a
24-column grid and sizes the three-panel window around them.

Layouts are kept per user in SQLite, MongoDB or a key-value store; panel
widths are kept in a file, memory or Redis store.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (.toml, .yaml); default: "+filepath.Join(configDir(), "config.toml"))

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.panelsCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config, or the first config file found in the
// config directory. The configured log level applies unless --verbose
// already lowered it to debug.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		path = findConfig(configDir())
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}

	if c.Logger.GetLevel() != log.DebugLevel {
		if level, err := log.ParseLevel(strings.ToLower(cfg.Log.Level)); err == nil {
			c.Logger.SetLevel(level)
		}
	}
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/dashlayout/).
func configDir() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".config", appName)
}

// findConfig returns the first of config.toml, config.yaml and config.yml
// in dir, or "" if none exists.
func findConfig(dir string) string {
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
