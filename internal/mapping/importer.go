package mapping

import (
	"fmt"

	"github.com/openprint3d/op3d/internal/output"
	"github.com/openprint3d/op3d/internal/profile"
)

// Config holds the static data an Importer applies. Build it once and share
// it; nothing in it is mutated after construction.
type Config struct {
	Tables *TableSet
	Rules  map[profile.Kind][]Rule
}

// DefaultConfig returns the built-in tables and derived rules.
func DefaultConfig() Config {
	return Config{
		Tables: MustTableSet(DefaultTables()...),
		Rules:  DefaultRules(),
	}
}

// Importer converts dialect documents into canonical profiles.
type Importer struct {
	cfg Config
}

// NewImporter returns an importer using cfg.
func NewImporter(cfg Config) *Importer {
	return &Importer{cfg: cfg}
}

// Tables returns the importer's table set.
func (i *Importer) Tables() *TableSet {
	return i.cfg.Tables
}

// Import builds a canonical profile of the given kind from doc:
//  1. start from the kind's default skeleton
//  2. apply every table entry whose key is present, skipping values that fail coercion
//  3. run the kind's derived rules
//  4. stash keys no entry consumed into the dialect's extension namespace
func (i *Importer) Import(doc *Document, kind profile.Kind) (*profile.Profile, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", profile.ErrUnknownKind, kind)
	}
	if !doc.Dialect.IsValid() {
		return nil, fmt.Errorf("%w: %q", profile.ErrUnknownDialect, doc.Dialect)
	}
	table, err := i.cfg.Tables.Table(doc.Dialect, kind)
	if err != nil {
		return nil, err
	}

	p, err := profile.New(kind)
	if err != nil {
		return nil, err
	}
	if err := p.Set("maintainer.name", profile.String("Imported from "+doc.Dialect.Title())); err != nil {
		return nil, err
	}

	written := make(map[string]bool)
	for _, e := range table.Entries {
		raw, ok := doc.Raw(e.Key)
		if !ok {
			continue
		}
		v, err := e.Coercion.Apply(raw)
		if err != nil {
			output.Debug("skipping field", "key", e.Key, "path", e.Path, "err", err)
			continue
		}
		if err := p.Set(e.Path, v); err != nil {
			return nil, fmt.Errorf("mapping %s to %s: %w", e.Key, e.Path, err)
		}
		written[e.Path] = true
	}

	ctx := &RuleContext{Profile: p, Doc: doc, Table: table, written: written}
	for _, r := range i.cfg.Rules[kind] {
		if err := r.Apply(ctx); err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.Name, err)
		}
	}

	i.stash(p, doc, table)
	return p, nil
}

func (i *Importer) stash(p *profile.Profile, doc *Document, table *Table) {
	bag := profile.NewMap()
	for _, k := range doc.TopKeys() {
		if table.Consumes(k) {
			continue
		}
		v, _ := doc.Top(k)
		bag.Set(k, profile.Clone(v))
	}
	if bag.Len() == 0 {
		return
	}

	ext := profile.NewExtension()
	if table.Nest != "" {
		ext.Put(table.Nest, bag)
	} else {
		bag.Range(func(k string, v profile.Node) bool {
			ext.Put(k, v)
			return true
		})
	}
	p.SetExtension(doc.Dialect, ext)
}

// ImportINI imports the section of src holding kind.
func (i *Importer) ImportINI(src *INISource, kind profile.Kind) (*profile.Profile, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", profile.ErrUnknownKind, kind)
	}
	table, err := i.cfg.Tables.Table(profile.DialectPrusaSlicer, kind)
	if err != nil {
		return nil, err
	}
	doc, ok := src.Section(table.Section)
	if !ok {
		return nil, fmt.Errorf("%w: [%s]", ErrSectionMissing, table.Section)
	}
	return i.Import(doc, kind)
}

// DetectINIKinds lists the kinds whose section is present in src, in
// printer, filament, process order.
func (i *Importer) DetectINIKinds(src *INISource) []profile.Kind {
	var out []profile.Kind
	for _, k := range profile.Kinds() {
		table, err := i.cfg.Tables.Table(profile.DialectPrusaSlicer, k)
		if err != nil {
			continue
		}
		if _, ok := src.Section(table.Section); ok {
			out = append(out, k)
		}
	}
	return out
}
