package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/passview/pkg/buildinfo"
	"github.com/matzehuels/passview/pkg/config"
	"github.com/matzehuels/passview/pkg/errors"
	"github.com/matzehuels/passview/pkg/sink"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "passview"

	// defaultAddr is the default listen address for serve.
	defaultAddr = ":8080"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// configFileNames are looked up in the config directory, in order.
var configFileNames = []string{"config.toml", "config.yaml", "config.yml"}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
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
		Use:   appName,
		Short: "passview records graph transformation passes as before/after diagrams",
		Long: `passview runs transformation passes over a program graph and, when an output
destination is configured, writes an input and an output diagram for every pass
that changed the graph, with the erased and created nodes highlighted.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.toml, .yaml); default "+filepath.Join("$XDG_CONFIG_HOME", appName, "config.toml"))

	// Register all subcommands
	root.AddCommand(c.runCommand())
	root.AddCommand(c.lsCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig resolves the effective config: config file, then PASSVIEW_*
// environment variables, then the non-zero fields of flags.
func (c *CLI) loadConfig(flags config.Config) (config.Config, error) {
	var cfg config.Config

	path := c.configPath
	if path == "" {
		path = defaultConfigFile()
	}
	if path != "" {
		fileCfg, err := config.LoadFile(path)
		if err != nil {
			return config.Config{}, err
		}
		c.Logger.Debug("loaded config", "path", path)
		cfg = fileCfg
	}

	cfg = cfg.Merge(config.FromEnv()).Merge(flags)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// destination returns the explicit destination argument, or the configured
// output destination when none is given.
func (c *CLI) destination(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	cfg, err := c.loadConfig(config.Config{})
	if err != nil {
		return "", err
	}
	if !cfg.Enabled() {
		return "", errors.New(errors.ErrCodeConfig,
			"no destination: pass one as argument or set %s", config.EnvOutput)
	}
	return cfg.OutputDestination, nil
}

// openSink connects to dest. Remote backends show a spinner while they dial.
func openSink(ctx context.Context, dest string) (sink.Sink, error) {
	if !strings.Contains(dest, "://") {
		return sink.Open(ctx, dest)
	}
	spinner := newSpinnerWithContext(ctx, os.Stderr, "Connecting to "+dest+"...")
	spinner.Start()
	s, err := sink.Open(ctx, dest)
	if err != nil {
		spinner.StopWithError("Cannot reach " + dest)
		return nil, err
	}
	spinner.Stop()
	return s, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the render cache directory using XDG standard
// (~/.cache/passview/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/passview/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// defaultConfigFile returns the first existing config file in configDir, or "".
func defaultConfigFile() string {
	dir, err := configDir()
	if err != nil {
		return ""
	}
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
