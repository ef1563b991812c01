// Package cli implements the chanroute command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chanroute/pkg/buildinfo"
	"github.com/matzehuels/chanroute/pkg/cache"
	"github.com/matzehuels/chanroute/pkg/observability"
	"github.com/matzehuels/chanroute/pkg/pipeline"
	"github.com/matzehuels/chanroute/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "chanroute"
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
	Config Config

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level. At debug level every pipeline,
// cache and server event is logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetServerHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "chanroute routes two-layer channels",
		Long:         `chanroute is a greedy channel router. It connects the pins along the top and bottom of a channel with horizontal tracks and vertical jogs, widening the channel whenever it runs out of room.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/chanroute/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the result cache")

	// Register all subcommands
	root.AddCommand(c.routeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.stepCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// =============================================================================
// Runner and Store Factories
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		return cache.NewRedisCache(ctx, c.Config.Cache.RedisURL, c.Config.Cache.Prefix)
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// newStore opens the configured record store. It returns nil, nil when
// the store is disabled.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	switch c.Config.Store.Backend {
	case backendNone:
		return nil, nil
	case backendMongo:
		return store.NewMongoStore(ctx, c.Config.Store.MongoURI, c.Config.Store.Database)
	}
	dir := c.Config.Store.Dir
	if dir == "" {
		base, err := configDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "routes")
	}
	return store.NewFileStore(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/chanroute/).
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

// configDir returns the config directory using XDG standard (~/.config/chanroute/).
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

// =============================================================================
// Flag Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice. Empty
// means the default of the visualization type.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
