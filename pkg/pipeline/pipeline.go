// Package pipeline provides the read → solve → write pipeline shared by the
// CLI and the HTTP server.
//
// By centralizing this logic, both entry points apply the same defaults,
// the same cache keys and the same observability hooks.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Read: parse a net file (or decode a JSON request)
//  2. Solve: build the Steiner tree, consulting the cache first
//  3. Output: write the segment file, or render a plot
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, "net.txt", "out.txt", pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.Length)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chiehanchen/steiner/pkg/cache"
	"github.com/chiehanchen/steiner/pkg/errors"
	"github.com/chiehanchen/steiner/pkg/geom"
	netio "github.com/chiehanchen/steiner/pkg/io"
	"github.com/chiehanchen/steiner/pkg/render"
	"github.com/chiehanchen/steiner/pkg/steiner"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultFormat is the default plot format.
	DefaultFormat = render.FormatSVG

	// TTLSolve is how long solved nets stay cached.
	TTLSolve = 7 * 24 * time.Hour

	// TTLPlot is how long rendered plots stay cached.
	TTLPlot = 24 * time.Hour
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Solve options
	MaxPasses int  `json:"max_passes,omitempty"`
	Workers   int  `json:"workers,omitempty"`
	Trace     bool `json:"trace,omitempty"` // record refinement moves; bypasses the cache
	Refresh   bool `json:"refresh,omitempty"`

	// Plot options
	Format string  `json:"format,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
	Margin float64 `json:"margin,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// CacheTTL is how long solutions stay cached. Zero means TTLSolve.
	// Plots keep TTLPlot unless CacheTTL is shorter.
	CacheTTL time.Duration `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Net is the solved net.
	Net netio.Net

	// NetHash is the content hash of the net, used in cache keys.
	NetHash string

	// Segments is the routing.
	Segments []geom.Segment

	// Steiner holds the Steiner point locations, for plotting.
	Steiner []geom.Point

	// Stats describes the solution. On a cache hit it is the stats of the
	// run that populated the cache.
	Stats steiner.Stats

	// Solution holds the tree and trace. It is nil on a cache hit.
	Solution *steiner.Result

	// Timing holds per-stage durations of this run.
	Timing Timing

	// CacheHit reports whether the segments came from the cache.
	CacheHit bool
}

// Timing contains per-stage durations.
type Timing struct {
	Read  time.Duration
	Solve time.Duration
	Write time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForSolve(); err != nil {
		return err
	}
	if err := o.ValidateForPlot(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForSolve checks solver settings and sets their defaults.
func (o *Options) ValidateForSolve() error {
	if o.Workers < -1 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must be -1 (all CPUs) or non-negative, got %d", o.Workers)
	}
	o.setLogger()
	return nil
}

// SetPlotDefaults sets default values for rendering.
func (o *Options) SetPlotDefaults() {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	o.Format = strings.ToLower(o.Format)
	o.setLogger()
}

// ValidateForPlot validates and sets defaults for rendering.
func (o *Options) ValidateForPlot() error {
	o.SetPlotDefaults()
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must not be negative, got %g", o.Scale)
	}
	return errors.ValidateFormat(o.Format, render.Formats...)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SolverOptions returns the options passed to the solver.
func (o *Options) SolverOptions() steiner.Options {
	return steiner.Options{
		MaxPasses: o.MaxPasses,
		Workers:   o.Workers,
		Trace:     o.Trace,
		Logger:    o.Logger,
	}
}

// RenderOptions returns the options passed to the renderer.
func (o *Options) RenderOptions() render.Options {
	return render.Options{Scale: o.Scale, Margin: o.Margin}
}

func (o *Options) solveTTL() time.Duration {
	if o.CacheTTL > 0 {
		return o.CacheTTL
	}
	return TTLSolve
}

func (o *Options) plotTTL() time.Duration {
	return min(TTLPlot, o.solveTTL())
}

// SolveKeyOpts returns cache key options for solving.
func (o *Options) SolveKeyOpts() cache.SolveKeyOpts {
	return cache.SolveKeyOpts{MaxPasses: o.MaxPasses}
}

// PlotKeyOpts returns cache key options for rendering.
func (o *Options) PlotKeyOpts() cache.PlotKeyOpts {
	return cache.PlotKeyOpts{Format: o.Format, Scale: o.Scale, Margin: o.Margin}
}
