// Package cache stores solved nets and rendered plots keyed by their inputs.
//
// Three backends implement [Cache]:
//   - [NullCache]: never stores anything; used with --no-cache
//   - [FileCache]: one JSON file per entry; the CLI default
//   - [RedisCache]: shared storage for several server instances
//
// Keys come from a [Keyer], which hashes the canonical form of a request so
// that equivalent requests map to the same entry:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.SolveKey(netHash, cache.SolveKeyOpts{MaxPasses: 8})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value. A missing or expired entry is reported
	// as hit == false with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero keeps the entry until it is
	// deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Keyer derives cache keys for the cached artifacts.
type Keyer interface {
	// SolveKey identifies the solution of the net whose canonical form
	// hashes to netHash.
	SolveKey(netHash string, opts SolveKeyOpts) string

	// PlotKey identifies a rendered plot of a solution.
	PlotKey(solutionHash string, opts PlotKeyOpts) string
}

// SolveKeyOpts holds the solver settings that change the result.
// Worker count is deliberately absent: results do not depend on it.
type SolveKeyOpts struct {
	MaxPasses int `json:"max_passes"`
}

// PlotKeyOpts holds the render settings that change a plot.
type PlotKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale"`
	Margin float64 `json:"margin"`
}

// DefaultKeyer produces keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SolveKey implements [Keyer].
func (DefaultKeyer) SolveKey(netHash string, opts SolveKeyOpts) string {
	return hashKey("solve", netHash, opts)
}

// PlotKey implements [Keyer].
func (DefaultKeyer) PlotKey(solutionHash string, opts PlotKeyOpts) string {
	return hashKey("plot", solutionHash, opts)
}
