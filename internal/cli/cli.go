package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/zonecut/pkg/buildinfo"
	"github.com/matzehuels/zonecut/pkg/cache"
	"github.com/matzehuels/zonecut/pkg/observability"
	"github.com/matzehuels/zonecut/pkg/pipeline"
	"github.com/matzehuels/zonecut/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "zonecut"

	// Cache and store backends accepted in the config file.
	backendFile   = "file"
	backendRedis  = "redis"
	backendNone   = "none"
	backendMemory = "memory"
	backendMongo  = "mongo"
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

	// Config is loaded before any subcommand runs.
	Config     Config
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level. At debug level the observability
// hooks log every pipeline and cache event.
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
		Short:        "zonecut orders and groups the zones of newspaper pages",
		Long:         `zonecut computes the reading order of annotated newspaper pages with a recursive XY-cut and reconstructs their articles from a weighted spatial graph of the zones.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/zonecut/config.toml)")

	// Register all subcommands
	root.AddCommand(c.orderCommand())
	root.AddCommand(c.articlesCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner from the configured cache and store
// backends. defaultStore is used when the config names no store backend.
func (c *CLI) newRunner(ctx context.Context, noCache bool, defaultStore string) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	st, err := c.newStore(ctx, defaultStore)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	var keyer cache.Keyer
	if c.Config.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, c.Config.Cache.Prefix)
	}
	return pipeline.NewRunner(ch, keyer, st, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.Config.Cache
	switch cfg.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		c.Logger.Debug("using redis cache", "addr", cfg.Addr)
		return rc, nil
	case "", backendFile:
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				c.Logger.Warn("no cache directory, caching disabled", "err", err)
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want file, redis or none)", cfg.Backend)
	}
}

func (c *CLI) newStore(ctx context.Context, fallback string) (store.Store, error) {
	backend := c.Config.Store.Backend
	if backend == "" {
		backend = fallback
	}
	switch backend {
	case "", backendNone:
		return store.NullStore{}, nil
	case backendMemory:
		return store.NewMemoryStore(), nil
	case backendMongo:
		ms, err := store.NewMongoStore(ctx, c.Config.Store.MongoConfig)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		c.Logger.Debug("using mongodb store", "database", c.Config.Store.Database)
		return ms, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (want none, memory or mongo)", backend)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/zonecut/).
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

// configDir returns the config directory using XDG standard (~/.config/zonecut/).
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
