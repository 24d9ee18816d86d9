package pipeline

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/chiehanchen/steiner/pkg/cache"
	"github.com/chiehanchen/steiner/pkg/errors"
)

// Cache backends accepted in [CacheConfig.Backend].
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the on-disk configuration, usually steiner.toml:
//
//	[solver]
//	max_passes = 0
//	workers = -1
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "168h"
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
//
//	[plot]
//	format = "png"
//	margin = 0.1
type Config struct {
	Solver SolverConfig `toml:"solver"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Plot   PlotConfig   `toml:"plot"`
}

// SolverConfig mirrors the solve fields of [Options].
type SolverConfig struct {
	MaxPasses int `toml:"max_passes"`
	Workers   int `toml:"workers"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	Prefix    string   `toml:"prefix"`
	TTL       Duration `toml:"ttl"`
}

// ServerConfig configures "steiner serve".
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	SolveTimeout Duration `toml:"solve_timeout"`
	MaxPins      int      `toml:"max_pins"`
}

// PlotConfig mirrors the plot fields of [Options].
type PlotConfig struct {
	Format string  `toml:"format"`
	Scale  float64 `toml:"scale"`
	Margin float64 `toml:"margin"`
}

// Duration is a time.Duration written as a string such as "90s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     Duration{TTLSolve},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{10 * time.Second},
			SolveTimeout: Duration{30 * time.Second},
			MaxPins:      10000,
		},
		Plot: PlotConfig{Format: DefaultFormat},
	}
}

// LoadConfig reads a TOML file on top of [DefaultConfig]. A missing file is
// an error; an empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that cannot be checked per field while decoding.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want none, file or redis)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Server.MaxPins < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_pins must not be negative")
	}
	opts := c.Options()
	return opts.ValidateAndSetDefaults()
}

// Options converts the solver and plot sections into pipeline options.
func (c Config) Options() Options {
	return Options{
		MaxPasses: c.Solver.MaxPasses,
		Workers:   c.Solver.Workers,
		Format:    c.Plot.Format,
		Scale:     c.Plot.Scale,
		Margin:    c.Plot.Margin,
		CacheTTL:  c.Cache.TTL.Duration,
	}
}

// Keyer returns the cache keyer, scoped by the configured prefix.
func (c Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Prefix)
}

// OpenCache opens the configured cache backend.
func (c Config) OpenCache(ctx context.Context, logger *log.Logger) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr: c.Cache.RedisAddr,
			DB:   c.Cache.RedisDB,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCacheFailed, err, "open redis cache")
		}
		logger.Debug("using redis cache", "addr", c.Cache.RedisAddr)
		return rc, nil
	default:
		fc, err := cache.NewFileCache(c.Cache.Dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCacheFailed, err, "open file cache")
		}
		logger.Debug("using file cache", "dir", fc.Dir())
		return fc, nil
	}
}
