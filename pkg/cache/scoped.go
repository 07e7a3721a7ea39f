package cache

// ScopedKeyer prefixes every key of an inner Keyer, so that several
// deployments can share one Redis instance:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ResultKey returns the prefixed result key.
func (k *ScopedKeyer) ResultKey(networkHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(networkHash, opts)
}

// NetworkKey returns the prefixed network key.
func (k *ScopedKeyer) NetworkKey(source string, ref ...string) string {
	return k.prefix + k.inner.NetworkKey(source, ref...)
}
