package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis database without colliding.
//
//	keyer := cache.NewScopedKeyer(nil, "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SolveKey implements [Keyer].
func (k *ScopedKeyer) SolveKey(netHash string, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SolveKey(netHash, opts)
}

// PlotKey implements [Keyer].
func (k *ScopedKeyer) PlotKey(solutionHash string, opts PlotKeyOpts) string {
	return k.prefix + k.inner.PlotKey(solutionHash, opts)
}
