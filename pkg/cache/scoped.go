package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// This is useful when several decks or users share one cache backend and
// need separate namespaces.
//
// Example usage:
//
//	// Session-specific keys for one editing session
//	sessionKeyer := NewScopedKeyer(NewDefaultKeyer(), "session:abc123:")
//
//	// Global keys for shared assets
//	globalKeyer := NewDefaultKeyer()
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

// AssetKey generates a prefixed key for a fetched remote asset.
func (k *ScopedKeyer) AssetKey(ref string) string {
	return k.prefix + k.inner.AssetKey(ref)
}

// RenderKey generates a prefixed key for a composed slide frame.
func (k *ScopedKeyer) RenderKey(slideHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(slideHash, opts)
}

// ExportKey generates a prefixed key for an export artifact.
func (k *ScopedKeyer) ExportKey(deckHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(deckHash, opts)
}
