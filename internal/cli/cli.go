package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chiehanchen/steiner/pkg/cache"
	"github.com/chiehanchen/steiner/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "steiner"

	// defaultConfigFile is read from the working directory when --config is
	// not given and the file exists.
	defaultConfigFile = "steiner.toml"
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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Shared Flags
// =============================================================================

// solveFlags are the solver and cache flags shared by every command that
// routes a net.
type solveFlags struct {
	config    string
	maxPasses int
	workers   int
	noCache   bool
	refresh   bool
	cacheDir  string
	redis     string
}

func (f *solveFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.config, "config", "", "TOML config file (default ./steiner.toml if present)")
	fs.IntVar(&f.maxPasses, "max-passes", 0, "refinement pass cap (0: 2 per pin, -1: spanning tree only)")
	fs.IntVar(&f.workers, "workers", 0, "goroutines evaluating triples (-1: all CPUs)")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	fs.BoolVar(&f.refresh, "refresh", false, "recompute and overwrite cached results")
	fs.StringVar(&f.cacheDir, "cache-dir", "", "file cache directory (default ~/.cache/steiner)")
	fs.StringVar(&f.redis, "redis", "", "use the redis cache at this address")
}

// explicitCache reports whether a cache backend was requested by flag.
func (f *solveFlags) explicitCache() bool {
	return f.cacheDir != "" || f.redis != ""
}

// load reads the config file and applies explicitly set flags on top.
func (f *solveFlags) load(cmd *cobra.Command) (pipeline.Config, error) {
	path := f.config
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	cfg, err := pipeline.LoadConfig(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("max-passes") {
		cfg.Solver.MaxPasses = f.maxPasses
	}
	if flags.Changed("workers") {
		cfg.Solver.Workers = f.workers
	}
	if f.cacheDir != "" {
		cfg.Cache.Backend = pipeline.CacheFile
		cfg.Cache.Dir = f.cacheDir
	}
	if f.redis != "" {
		cfg.Cache.Backend = pipeline.CacheRedis
		cfg.Cache.RedisAddr = f.redis
	}
	if f.noCache {
		cfg.Cache.Backend = pipeline.CacheNone
	}
	if cfg.Cache.Backend == pipeline.CacheFile && cfg.Cache.Dir == "" {
		if dir, err := cacheDir(); err == nil {
			cfg.Cache.Dir = dir
		}
	}
	return cfg, cfg.Validate()
}

// options converts the loaded config into pipeline options for this run,
// logging to the logger attached to ctx.
func (f *solveFlags) options(ctx context.Context, cfg pipeline.Config) pipeline.Options {
	opts := cfg.Options()
	opts.Refresh = f.refresh
	opts.Logger = loggerFromContext(ctx)
	return opts
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A cache that cannot be
// opened only disables caching, unless the backend was picked on the command
// line.
func (c *CLI) newRunner(ctx context.Context, cfg pipeline.Config, explicit bool) (*pipeline.Runner, error) {
	rc, err := cfg.OpenCache(ctx, c.Logger)
	if err != nil {
		if explicit {
			return nil, err
		}
		c.Logger.Warn("cache disabled", "backend", cfg.Cache.Backend, "error", err)
		rc = cache.NewNullCache()
	}
	return pipeline.NewRunner(rc, cfg.Keyer(), c.Logger), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/steiner/).
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
