// Package cli implements the flashtrack command-line interface.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flashtrack/pkg/buildinfo"
	"github.com/matzehuels/flashtrack/pkg/cache"
	"github.com/matzehuels/flashtrack/pkg/config"
	"github.com/matzehuels/flashtrack/pkg/observability"
	"github.com/matzehuels/flashtrack/pkg/render/dot"
	"github.com/matzehuels/flashtrack/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "flashtrack"

	// renderCacheTTL bounds how long rendered artifacts are reused.
	renderCacheTTL = 7 * 24 * time.Hour
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

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Flashtrack draws, edits and plays planar course graphs",
		Long: `Flashtrack is a course editor: draw nodes and edges, move and merge them,
erase what is in the way, then trace a path from start to finish without
crossing an edge.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			observability.SetEditHooks(logHooks{c.Logger})
			observability.SetStoreHooks(logHooks{c.Logger})
			observability.SetCacheHooks(logHooks{c.Logger})
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Resources
// =============================================================================

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("config loaded", "path", c.configFile(), "store", cfg.Store.Backend)
	c.cfg = cfg
	return cfg, nil
}

func (c *CLI) configFile() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.Path()
}

// openStore opens the configured course store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, cfg.Store)
}

// newRenderer builds a renderer over the configured render cache.
func (c *CLI) newRenderer(noCache bool) (*dot.Renderer, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	rc, err := newCache(cfg, noCache)
	if err != nil {
		return nil, err
	}
	return dot.NewRenderer(rc, renderCacheTTL), nil
}

func newCache(cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache || !cfg.Render.Cache || cfg.Render.CacheDir == "" {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(cfg.Render.CacheDir)
}
