package profile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotProfile indicates a document that is not a recognized profile.
var ErrNotProfile = errors.New("not a profile document")

// ErrImmutableKind is returned when a write targets the kind discriminator.
var ErrImmutableKind = errors.New("profile kind is immutable")

// Profile is a canonical profile document. Its kind is fixed at construction.
type Profile struct {
	kind Kind
	root *Map
}

// New returns a profile of the given kind populated with the default skeleton.
func New(kind Kind) (*Profile, error) {
	root, err := Skeleton(kind)
	if err != nil {
		return nil, err
	}
	return &Profile{kind: kind, root: root}, nil
}

// FromDocument wraps a decoded document. The top level must be a map with a
// recognized kind discriminator and a string id.
func FromDocument(n Node) (*Profile, error) {
	root, ok := n.(*Map)
	if !ok {
		return nil, fmt.Errorf("%w: top level is a %s, not a map", ErrNotProfile, kindOf(n))
	}
	kind, ok := DocumentKind(root)
	if !ok {
		return nil, fmt.Errorf("%w: missing or unknown %q", ErrNotProfile, SchemaKey)
	}
	idNode, ok := root.Get(IDKey)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrNotProfile, IDKey)
	}
	if s, ok := idNode.(Scalar); !ok {
		return nil, fmt.Errorf("%w: %q is not a string", ErrNotProfile, IDKey)
	} else if _, ok := s.Text(); !ok {
		return nil, fmt.Errorf("%w: %q is not a string", ErrNotProfile, IDKey)
	}
	return &Profile{kind: kind, root: root}, nil
}

// DocumentKind returns the kind named by a document's discriminator.
func DocumentKind(root *Map) (Kind, bool) {
	n, ok := root.Get(SchemaKey)
	if !ok {
		return "", false
	}
	s, ok := n.(Scalar)
	if !ok {
		return "", false
	}
	text, ok := s.Text()
	if !ok {
		return "", false
	}
	k := Kind(text)
	return k, k.IsValid()
}

// Kind returns the profile kind.
func (p *Profile) Kind() Kind { return p.kind }

// Root returns the underlying document tree.
func (p *Profile) Root() *Map { return p.root }

// ID returns the profile identifier.
func (p *Profile) ID() string {
	return p.GetString(IDKey, "")
}

// Get resolves a dotted path.
func (p *Profile) Get(path string) (Node, bool) {
	return Get(p.root, path)
}

// GetString returns the string at path or def.
func (p *Profile) GetString(path, def string) string {
	n, ok := p.Get(path)
	if !ok {
		return def
	}
	if s, ok := n.(Scalar); ok {
		if text, ok := s.Text(); ok {
			return text
		}
	}
	return def
}

// GetFloat returns the number at path or def.
func (p *Profile) GetFloat(path string, def float64) float64 {
	n, ok := p.Get(path)
	if !ok {
		return def
	}
	if s, ok := n.(Scalar); ok {
		if f, ok := s.Float64(); ok {
			return f
		}
	}
	return def
}

// Set writes value at path. The kind discriminator cannot be written.
func (p *Profile) Set(path string, value Node) error {
	if path == SchemaKey || strings.HasPrefix(path, SchemaKey+Separator) {
		return fmt.Errorf("%w: %q", ErrImmutableKind, path)
	}
	return Set(p.root, path, value)
}

// Extension returns the vendor-extension namespace for d. A missing or
// non-map namespace reads as empty.
func (p *Profile) Extension(d Dialect) Extension {
	n, ok := p.root.Get(d.ExtensionKey())
	if !ok {
		return Extension{}
	}
	m, ok := n.(*Map)
	if !ok {
		return Extension{}
	}
	return Extension{m: m}
}

// SetExtension replaces the vendor-extension namespace for d.
func (p *Profile) SetExtension(d Dialect, ext Extension) {
	m := ext.m
	if m == nil {
		m = NewMap()
	}
	p.root.Set(d.ExtensionKey(), m)
}

// Extension is an opaque bag of dialect-native keys carried through a profile
// untouched. Its contents follow no schema.
type Extension struct {
	m *Map
}

// NewExtension returns an empty bag.
func NewExtension() Extension {
	return Extension{m: NewMap()}
}

// IsEmpty reports whether the bag holds no keys.
func (e Extension) IsEmpty() bool { return e.m.Len() == 0 }

// Len returns the number of keys.
func (e Extension) Len() int { return e.m.Len() }

// Get returns a top-level value.
func (e Extension) Get(key string) (Node, bool) { return e.m.Get(key) }

// Put stores a top-level value.
func (e Extension) Put(key string, value Node) {
	e.m.Set(key, value)
}

// Lookup resolves a dotted path inside the bag.
func (e Extension) Lookup(path string) (Node, bool) {
	if e.m == nil {
		return nil, false
	}
	return Get(e.m, path)
}

// Map returns a deep copy of the bag contents.
func (e Extension) Map() *Map {
	if e.m == nil {
		return NewMap()
	}
	return Clone(e.m).(*Map)
}
