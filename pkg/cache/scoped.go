package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several deployments can
// share one Redis without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "plant-a:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// PageKey generates a prefixed page key.
func (k *ScopedKeyer) PageKey(schemeHash, dataHash string, opts PageKeyOpts) string {
	return k.prefix + k.inner.PageKey(schemeHash, dataHash, opts)
}
