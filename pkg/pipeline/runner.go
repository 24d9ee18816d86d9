package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chiehanchen/steiner/pkg/cache"
	"github.com/chiehanchen/steiner/pkg/geom"
	netio "github.com/chiehanchen/steiner/pkg/io"
	"github.com/chiehanchen/steiner/pkg/observability"
	"github.com/chiehanchen/steiner/pkg/render"
	"github.com/chiehanchen/steiner/pkg/steiner"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// solveEntry is the cached form of a solution.
type solveEntry struct {
	Segments [][4]int      `json:"segments"`
	Steiner  [][2]int      `json:"steiner,omitempty"`
	Stats    steiner.Stats `json:"stats"`
}

// Execute reads the net at in, solves it and writes the segment file to out.
func (r *Runner) Execute(ctx context.Context, in, out string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	readStart := time.Now()
	n, err := r.ReadNet(ctx, in)
	if err != nil {
		return nil, err
	}
	readTime := time.Since(readStart)

	result, err := r.Solve(ctx, n, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Timing.Read = readTime

	writeStart := time.Now()
	if err := netio.WriteSegmentsFile(out, result.Segments); err != nil {
		return nil, err
	}
	result.Timing.Write = time.Since(writeStart)

	r.Logger.Info("wrote segments",
		"path", out,
		"segments", len(result.Segments),
		"duration", result.Timing.Write)
	return result, nil
}

// ReadNet parses the net file at path.
func (r *Runner) ReadNet(ctx context.Context, path string) (netio.Net, error) {
	hooks := observability.Pipeline()
	hooks.OnReadStart(ctx, path)
	start := time.Now()

	n, err := netio.ReadNetFile(path)
	hooks.OnReadComplete(ctx, path, len(n.Pins), time.Since(start), err)
	if err != nil {
		return netio.Net{}, err
	}
	r.Logger.Info("read net", "path", path, "pins", len(n.Pins), "duration", time.Since(start))
	return n, nil
}

// Solve routes n, consulting the cache first. Traced runs and refreshes skip
// the cache lookup; refreshed results are still stored.
func (r *Runner) Solve(ctx context.Context, n netio.Net, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSolve(); err != nil {
		return nil, err
	}

	result := &Result{Net: n}
	hash, err := cache.HashJSON(netio.NetToJSON(n))
	if err != nil {
		return nil, err
	}
	result.NetHash = hash
	key := r.Keyer.SolveKey(hash, opts.SolveKeyOpts())

	start := time.Now()
	if !opts.Trace && !opts.Refresh {
		if entry, ok := r.lookup(ctx, key); ok {
			result.Segments = entry.segments()
			result.Steiner = entry.steiner()
			result.Stats = entry.Stats
			result.CacheHit = true
			result.Timing.Solve = time.Since(start)
			r.Logger.Info("loaded cached solution", "pins", len(n.Pins), "length", entry.Stats.Length)
			return result, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnSolveStart(ctx, len(n.Pins))
	sol, err := steiner.NewSolver(opts.SolverOptions()).Run(ctx, n.Boundary, n.Pins)
	length := 0
	if sol != nil {
		length = sol.Stats.Length
	}
	hooks.OnSolveComplete(ctx, len(n.Pins), length, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	result.Solution = sol
	result.Segments = sol.Segments
	result.Steiner = sol.Tree.SteinerPoints()
	result.Stats = sol.Stats
	result.Timing.Solve = time.Since(start)

	r.Logger.Info("solved net",
		"pins", sol.Stats.Pins,
		"steiner", sol.Stats.SteinerPoints,
		"mst", sol.Stats.MSTLength,
		"length", sol.Stats.Length,
		"duration", result.Timing.Solve)

	r.store(ctx, key, "solve", newSolveEntry(result), opts.solveTTL())
	return result, nil
}

// Plot renders a solved net, consulting the cache first.
func (r *Runner) Plot(ctx context.Context, res *Result, opts Options) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForPlot(); err != nil {
		return nil, false, err
	}

	solutionHash, err := cache.HashJSON(netio.NewSolutionJSON(res.Net, res.Segments, nil))
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.PlotKey(solutionHash, opts.PlotKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "plot")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "plot")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Format)
	start := time.Now()
	scene := render.Scene{
		Boundary: res.Net.Boundary,
		Pins:     res.Net.Pins,
		Steiner:  res.Steiner,
		Segments: res.Segments,
	}
	data, err := render.Render(ctx, scene, opts.Format, opts.RenderOptions())
	hooks.OnRenderComplete(ctx, opts.Format, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Info("rendered plot", "format", opts.Format, "bytes", len(data), "duration", time.Since(start))

	if err := r.Cache.Set(ctx, key, data, opts.plotTTL()); err != nil {
		r.Logger.Warn("cache write failed", "kind", "plot", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "plot", len(data))
	}
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) lookup(ctx context.Context, key string) (solveEntry, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "kind", "solve", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "solve")
		return solveEntry{}, false
	}
	var entry solveEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Fall through to recompute; the entry is overwritten below.
		observability.Cache().OnCacheMiss(ctx, "solve")
		return solveEntry{}, false
	}
	observability.Cache().OnCacheHit(ctx, "solve")
	return entry, true
}

func (r *Runner) store(ctx context.Context, key, kind string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err == nil {
		err = r.Cache.Set(ctx, key, data, ttl)
	}
	if err != nil {
		r.Logger.Warn("cache write failed", "kind", kind, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func newSolveEntry(res *Result) solveEntry {
	e := solveEntry{
		Segments: netio.NewSolutionJSON(res.Net, res.Segments, nil).Segments,
		Stats:    res.Stats,
	}
	for _, p := range res.Steiner {
		e.Steiner = append(e.Steiner, [2]int{p.X, p.Y})
	}
	return e
}

func (e solveEntry) segments() []geom.Segment {
	return netio.SolutionJSON{Segments: e.Segments}.SegmentList()
}

func (e solveEntry) steiner() []geom.Point {
	out := make([]geom.Point, len(e.Steiner))
	for i, p := range e.Steiner {
		out[i] = geom.Pt(p[0], p[1])
	}
	return out
}
