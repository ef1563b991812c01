package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tenants can share
// one backend without seeing each other's entries. The server scopes keys
// by API version this way:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer falls back to DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// RouteKey generates a prefixed routing key.
func (k *ScopedKeyer) RouteKey(pinsHash string, opts RouteKeyOpts) string {
	return k.prefix + k.inner.RouteKey(pinsHash, opts)
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
