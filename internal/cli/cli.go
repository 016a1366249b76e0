package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/framewright/framewright/pkg/buildinfo"
	"github.com/framewright/framewright/pkg/config"
	"github.com/framewright/framewright/pkg/docstore"
	"github.com/framewright/framewright/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "framewright"

	// configFileName is looked up in the user config directory when
	// --config is not given.
	configFileName = "config.toml"
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

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the editor's
// observability hooks are routed to the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		registerLogHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Framewright edits responsive page trees",
		Long: `Framewright is the core of a visual page builder. Documents are trees of
frames, text and media laid out inside viewports (desktop, tablet, mobile)
that are kept structurally in sync.

The CLI inspects, validates, syncs and renders documents, and serves them
over HTTP. A document argument is either a path to a .json file or the id of
a document in the configured store.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: "+defaultConfigHint()+")")

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.syncCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig loads the configuration once. An explicit --config must exist;
// the default location is optional.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}

	path, explicit := c.configPath, c.configPath != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			cfg := config.Default()
			c.cfg = &cfg
			return cfg, nil
		}
		path = filepath.Join(dir, configFileName)
	}

	cfg, err := config.Load(path)
	switch {
	case err == nil:
		c.Logger.Debug("config loaded", "path", path)
	case !explicit && errors.Is(err, errors.ErrCodeFileNotFound):
		cfg = config.Default()
	default:
		return config.Config{}, err
	}
	c.cfg = &cfg
	return cfg, nil
}

// openStore opens the configured document store.
func (c *CLI) openStore(ctx context.Context) (docstore.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	ds, err := docstore.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("document store opened", "backend", ds.Kind())
	return ds, nil
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/framewright/).
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

func defaultConfigHint() string {
	return filepath.Join("~", ".config", appName, configFileName)
}
