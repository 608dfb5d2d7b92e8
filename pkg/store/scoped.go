package store

// ScopedKeyer wraps a Keyer with a prefix so that several windows or users
// can share one backend without clobbering each other's state.
//
//	perWindow := NewScopedKeyer(NewDefaultKeyer(), "window:reports:")
//	perUser := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer defaults to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) PanelWidthsKey() string  { return k.prefix + k.inner.PanelWidthsKey() }
func (k *ScopedKeyer) SidebarWidthKey() string { return k.prefix + k.inner.SidebarWidthKey() }

func (k *ScopedKeyer) LayoutKey(userID string) string {
	return k.prefix + k.inner.LayoutKey(userID)
}
