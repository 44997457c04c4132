package cache

// ScopedKeyer wraps a Keyer with a prefix so that unrelated document
// sets sharing one Redis instance get separate cache namespaces.
//
// Example usage:
//
//	// Keys scoped to one document set
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "docs:handbook:")
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

// ResolveKey generates a prefixed key for a resolved layout.
func (k *ScopedKeyer) ResolveKey(layoutHash, configHash string) string {
	return k.prefix + k.inner.ResolveKey(layoutHash, configHash)
}

// ReportKey generates a prefixed key for a run report.
func (k *ScopedKeyer) ReportKey(layoutHash, configHash string) string {
	return k.prefix + k.inner.ReportKey(layoutHash, configHash)
}
