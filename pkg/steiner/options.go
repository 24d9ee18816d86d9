package steiner

import (
	"io"
	"runtime"

	"github.com/charmbracelet/log"
)

// DefaultPassFactor bounds refinement to DefaultPassFactor*n passes for n pins
// when [Options.MaxPasses] is zero. A rectilinear Steiner tree over n pins has
// at most n-2 Steiner points, and every pass applies one move.
const DefaultPassFactor = 2

// Options configures a [Solver]. The zero value runs sequentially with the
// default pass cap and no logging.
type Options struct {
	// MaxPasses caps the number of refinement passes. Zero means
	// DefaultPassFactor times the pin count; a negative value disables
	// refinement and returns the spanning tree.
	MaxPasses int `toml:"max_passes" json:"max_passes,omitempty"`

	// Workers is the number of goroutines evaluating triples in a pass.
	// Values below 2 evaluate sequentially; -1 uses GOMAXPROCS. Results do not
	// depend on this setting.
	Workers int `toml:"workers" json:"workers,omitempty"`

	// Trace records every accepted move in [Result.Trace].
	Trace bool `toml:"trace" json:"trace,omitempty"`

	// Logger receives per-pass debug output.
	Logger *log.Logger `toml:"-" json:"-"`
}

// passCap returns the effective pass limit for n pins.
func (o Options) passCap(n int) int {
	switch {
	case o.MaxPasses < 0:
		return 0
	case o.MaxPasses > 0:
		return o.MaxPasses
	default:
		return DefaultPassFactor * n
	}
}

// workers returns the effective worker count.
func (o Options) workers() int {
	if o.Workers < 0 {
		return runtime.GOMAXPROCS(0)
	}
	return max(o.Workers, 1)
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return o.Logger
}
