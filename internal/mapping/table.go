package mapping

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/openprint3d/op3d/internal/profile"
)

// ErrNoTable is returned when no mapping table exists for a dialect and kind.
var ErrNoTable = errors.New("no mapping table")

// ErrInvalidTable is returned by Validate for a table that cannot be applied.
var ErrInvalidTable = errors.New("invalid mapping table")

// Entry maps one dialect key to one canonical path.
type Entry struct {
	// Key is the flat dialect key. Indexed list elements are written "key.N".
	Key string

	// Path is the dotted canonical path the coerced value is written to.
	Path string

	// Coercion converts the raw dialect text.
	Coercion Coercion
}

// Table is the ordered mapping for one dialect and profile kind. Entries are
// applied in order, so a later entry targeting the same path wins.
type Table struct {
	Dialect profile.Dialect
	Kind    profile.Kind

	// Section names the INI section holding the kind, for sectioned dialects.
	Section string

	// Nest, when set, is the key inside the vendor-extension namespace under
	// which unmapped keys are stashed and from which exporters relay.
	Nest string

	Entries []Entry

	// Derived lists dialect keys an exporter computes from mapped fields or
	// writes as fixed values. Import consumes them without writing anything,
	// so they never land in the extension namespace.
	Derived []string
}

// Lookup returns the entry for key.
func (t *Table) Lookup(key string) (Entry, bool) {
	for _, e := range t.Entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Consumes reports whether a top-level dialect key is handled by some entry,
// either directly or through one of its indexed elements, or is derived.
func (t *Table) Consumes(key string) bool {
	for _, e := range t.Entries {
		if e.Key == key || topKey(e.Key) == key {
			return true
		}
	}
	return slices.Contains(t.Derived, key)
}

// EntriesFor returns the entries writing to path, in table order.
func (t *Table) EntriesFor(path string) []Entry {
	var out []Entry
	for _, e := range t.Entries {
		if e.Path == path {
			out = append(out, e)
		}
	}
	return out
}

// Validate checks that every entry is well formed and lands inside the
// kind's default skeleton: the parent of each path must already exist as a
// container of the right shape, no entry may replace a whole section, and an
// entry targeting a default leaf must coerce to that leaf's scalar type.
func (t *Table) Validate() error {
	if !t.Dialect.IsValid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidTable, profile.ErrUnknownDialect, t.Dialect)
	}
	skeleton, err := profile.Skeleton(t.Kind)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}

	var errs []error
	seen := make(map[string]bool, len(t.Entries))
	for _, e := range t.Entries {
		if err := validateEntry(skeleton, e); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Key, err))
		}
		if seen[e.Key] {
			errs = append(errs, fmt.Errorf("%s: duplicate key", e.Key))
		}
		seen[e.Key] = true
	}
	for _, k := range t.Derived {
		switch {
		case k == "":
			errs = append(errs, errors.New("empty derived key"))
		case seen[k]:
			errs = append(errs, fmt.Errorf("%s: derived key is also mapped", k))
		}
		seen[k] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w %s/%s: %w", ErrInvalidTable, t.Dialect, t.Kind, errors.Join(errs...))
	}
	return nil
}

func validateEntry(skeleton *profile.Map, e Entry) error {
	if e.Key == "" {
		return errors.New("empty key")
	}
	if !e.Coercion.IsValid() {
		return fmt.Errorf("unknown coercion %d", int(e.Coercion))
	}
	p, err := profile.ParsePath(e.Path)
	if err != nil {
		return err
	}
	if e.Path == profile.SchemaKey {
		return errors.New("targets the kind discriminator")
	}

	var parent profile.Node = skeleton
	if len(p) > 1 {
		n, ok := profile.GetPath(skeleton, p.Parent())
		if !ok {
			return fmt.Errorf("parent of %q is not in the skeleton", e.Path)
		}
		parent = n
	}
	last := p[len(p)-1]
	switch parent.(type) {
	case *profile.Map:
		if last.IsIndex {
			return fmt.Errorf("%q indexes into a map", e.Path)
		}
	case *profile.List:
		if !last.IsIndex {
			return fmt.Errorf("%q keys into a list", e.Path)
		}
	default:
		return fmt.Errorf("parent of %q is not a container", e.Path)
	}

	if leaf, ok := profile.GetPath(skeleton, p); ok {
		switch leaf := leaf.(type) {
		case *profile.Map, *profile.List:
			return fmt.Errorf("%q would replace a whole section", e.Path)
		case profile.Scalar:
			if !e.Coercion.Yields(leaf) {
				return fmt.Errorf("%q defaults to %s, which %s coercion never yields", e.Path, leaf, e.Coercion)
			}
		}
	}
	return nil
}

func topKey(key string) string {
	if i := strings.Index(key, profile.Separator); i >= 0 {
		return key[:i]
	}
	return key
}

type tableKey struct {
	dialect profile.Dialect
	kind    profile.Kind
}

// TableSet holds at most one table per dialect and kind. It is immutable
// once built.
type TableSet struct {
	tables map[tableKey]*Table
}

// NewTableSet validates tables and indexes them.
func NewTableSet(tables ...*Table) (*TableSet, error) {
	s := &TableSet{tables: make(map[tableKey]*Table, len(tables))}
	for _, t := range tables {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		k := tableKey{t.Dialect, t.Kind}
		if _, dup := s.tables[k]; dup {
			return nil, fmt.Errorf("%w: duplicate table %s/%s", ErrInvalidTable, t.Dialect, t.Kind)
		}
		s.tables[k] = t
	}
	return s, nil
}

// MustTableSet is NewTableSet for static tables; it panics on invalid input.
func MustTableSet(tables ...*Table) *TableSet {
	s, err := NewTableSet(tables...)
	if err != nil {
		panic(err)
	}
	return s
}

// Table returns the table for dialect d and kind k.
func (s *TableSet) Table(d profile.Dialect, k profile.Kind) (*Table, error) {
	if t, ok := s.tables[tableKey{d, k}]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w for %s %s profiles", ErrNoTable, d, k)
}

// Tables returns every table ordered by dialect then kind.
func (s *TableSet) Tables() []*Table {
	out := make([]*Table, 0, len(s.tables))
	for _, t := range s.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Dialect != out[j].Dialect {
			return out[i].Dialect < out[j].Dialect
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}
