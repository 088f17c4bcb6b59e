package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/zonecut/pkg/article"
	"github.com/matzehuels/zonecut/pkg/cache"
	"github.com/matzehuels/zonecut/pkg/pipeline"
	"github.com/matzehuels/zonecut/pkg/server"
	"github.com/matzehuels/zonecut/pkg/store"
	"github.com/matzehuels/zonecut/pkg/xycut"
)

const configFile = "config.toml"

// Config is the optional TOML configuration file. Command-line flags
// override it.
//
//	[analysis]
//	strategy = "xycut"
//	min_gap = 2
//	distance_scale = 150.0
//	orphans = "singletons"
//
//	[[analysis.bonus]]
//	from = "Headline"
//	to = "Text"
//	factor = 2.0
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Analysis AnalysisConfig `toml:"analysis"`
	Cache    CacheConfig    `toml:"cache"`
	Store    StoreConfig    `toml:"store"`
	Server   server.Config  `toml:"server"`
}

// AnalysisConfig holds the default analysis options.
type AnalysisConfig struct {
	Strategy       string               `toml:"strategy"`
	MinValue       int                  `toml:"min_value"`
	MinGap         int                  `toml:"min_gap"`
	Resolution     float64              `toml:"resolution"`
	DistanceScale  float64              `toml:"distance_scale"`
	AlignmentBonus float64              `toml:"alignment_bonus"`
	MaxDistance    float64              `toml:"max_distance"`
	Orphans        string               `toml:"orphans"`
	TextOnly       bool                 `toml:"text_only"`
	Strict         bool                 `toml:"strict"`
	Workers        int                  `toml:"workers"`
	Bonuses        []article.LabelBonus `toml:"bonus"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend string `toml:"backend"` // file (default), redis or none
	Dir     string `toml:"dir"`
	Prefix  string `toml:"prefix"` // namespaces keys in a shared cache
	cache.RedisConfig
}

// StoreConfig selects where analyses are persisted.
type StoreConfig struct {
	Backend string `toml:"backend"` // none, memory or mongo
	store.MongoConfig
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	d := pipeline.DefaultOptions()
	return Config{
		Analysis: AnalysisConfig{
			Strategy:       string(d.Strategy),
			MinValue:       d.MinValue,
			MinGap:         d.MinGap,
			Resolution:     d.Resolution,
			DistanceScale:  d.DistanceScale,
			AlignmentBonus: d.AlignmentBonus,
			Orphans:        string(d.Orphans),
		},
		Cache:  CacheConfig{Backend: backendFile},
		Server: server.Config{Addr: server.DefaultAddr},
	}
}

// Options converts the analysis section to pipeline options.
func (a AnalysisConfig) Options() pipeline.Options {
	opts := pipeline.Options{
		Strategy:       xycut.Strategy(a.Strategy),
		MinValue:       a.MinValue,
		MinGap:         a.MinGap,
		Resolution:     a.Resolution,
		DistanceScale:  a.DistanceScale,
		AlignmentBonus: a.AlignmentBonus,
		MaxDistance:    a.MaxDistance,
		Orphans:        article.OrphanPolicy(a.Orphans),
		TextOnly:       a.TextOnly,
		Strict:         a.Strict,
		Workers:        a.Workers,
		LabelBonuses:   a.Bonuses,
	}
	opts.SetDefaults()
	return opts
}

// LoadConfig reads path over the defaults. Keys missing from the file keep
// their default values; unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown key %s", path, undecoded[0])
	}
	return cfg, nil
}

// loadConfig loads --config, or the default config file when it exists.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(dir, configFile)
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.configPath = path
	c.Logger.Debug("loaded config", "path", path)
	return nil
}

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				dir, err := configDir()
				if err != nil {
					return fmt.Errorf("get config dir: %w", err)
				}
				path = filepath.Join(dir, configFile)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(c.Config)
		},
	})

	return cmd
}
