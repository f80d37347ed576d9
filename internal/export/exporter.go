package export

import (
	"bytes"
	"fmt"

	"github.com/openprint3d/op3d/internal/mapping"
	"github.com/openprint3d/op3d/internal/output"
	"github.com/openprint3d/op3d/internal/profile"
)

// Config holds the static data an Exporter applies.
type Config struct {
	Fields FieldTables

	// Tables supplies the reverse projection for mapped keys the field
	// table does not emit. Nil disables it.
	Tables *mapping.TableSet
}

// DefaultConfig returns the built-in field tables and mapping tables.
func DefaultConfig() Config {
	return Config{
		Fields: DefaultFieldTables(),
		Tables: mapping.MustTableSet(mapping.DefaultTables()...),
	}
}

// Exporter converts canonical profiles into dialect documents.
type Exporter struct {
	cfg Config
}

// New returns an exporter using cfg.
func New(cfg Config) *Exporter {
	return &Exporter{cfg: cfg}
}

// Export produces the dialect document for p. A non-empty x_<dialect>
// namespace is returned verbatim and nothing is derived. Otherwise the
// document is synthesized from the field table, followed by every mapped key
// the field table left out.
func (e *Exporter) Export(p *profile.Profile, d profile.Dialect) (*profile.Map, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("%w: %q", profile.ErrUnknownDialect, d)
	}

	var table *mapping.Table
	if e.cfg.Tables != nil {
		if t, err := e.cfg.Tables.Table(d, p.Kind()); err == nil {
			table = t
		}
	}

	if ext := p.Extension(d); !ext.IsEmpty() {
		output.Debug("relaying vendor block", "dialect", d, "keys", ext.Len())
		return relay(ext, table), nil
	}

	fields := e.cfg.Fields.Fields(d, p.Kind())
	if len(fields) == 0 && table == nil {
		return nil, fmt.Errorf("no export table for %s %s", d, p.Kind())
	}

	out := profile.NewMap()
	emitted := make(map[string]bool, len(fields))
	for _, f := range fields {
		v, ok := f.Render(p)
		if !ok {
			continue
		}
		out.Set(f.Key, v)
		emitted[f.Key] = true
	}

	if table != nil {
		project(p, table, out, emitted)
	}
	return out, nil
}

// ExportJSON renders the dialect document for p as JSON.
func (e *Exporter) ExportJSON(p *profile.Profile, d profile.Dialect, indent int) ([]byte, error) {
	doc, err := e.Export(p, d)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := profile.EncodeJSON(&buf, doc, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func relay(ext profile.Extension, table *mapping.Table) *profile.Map {
	bag := ext.Map()
	if table == nil || table.Nest == "" {
		return bag
	}
	nested, ok := bag.Get(table.Nest)
	if !ok {
		return profile.NewMap()
	}
	m, ok := nested.(*profile.Map)
	if !ok {
		return profile.NewMap()
	}
	return m
}

// project writes each mapped canonical scalar back under its dialect key.
// Keys whose top-level name a field already emitted are left alone.
func project(p *profile.Profile, table *mapping.Table, out *profile.Map, emitted map[string]bool) {
	for _, entry := range table.Entries {
		path, err := profile.ParsePath(entry.Key)
		if err != nil || emitted[path[0].Key] {
			continue
		}
		if _, ok := profile.Get(out, entry.Key); ok {
			continue
		}
		n, ok := p.Get(entry.Path)
		if !ok {
			continue
		}
		s, ok := n.(profile.Scalar)
		if !ok || s.IsNull() {
			continue
		}
		if err := profile.SetPath(out, path, s); err != nil {
			output.Debug("skipping mapped key", "key", entry.Key, "err", err)
		}
	}
}
