package mapping

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/openprint3d/op3d/internal/profile"
)

// ErrSectionMissing is returned when an INI source lacks the section a table needs.
var ErrSectionMissing = errors.New("section not found")

// Document is a flat, ordered view of one dialect document: each key maps to
// its raw text. The original top-level values are kept alongside so unmapped
// keys can be stashed without loss.
type Document struct {
	Dialect profile.Dialect

	keys []string
	raw  map[string]string
	top  *profile.Map
}

// NewDocument returns an empty document for dialect d.
func NewDocument(d profile.Dialect) *Document {
	return &Document{
		Dialect: d,
		raw:     make(map[string]string),
		top:     profile.NewMap(),
	}
}

// Add records a top-level key holding raw text.
func (d *Document) Add(key, raw string) {
	d.addRaw(key, raw)
	d.top.Set(key, profile.String(raw))
}

func (d *Document) addRaw(key, raw string) {
	if _, ok := d.raw[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.raw[key] = raw
}

// Raw returns the raw text for a flat key.
func (d *Document) Raw(key string) (string, bool) {
	v, ok := d.raw[key]
	return v, ok
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.raw[key]
	return ok
}

// Keys returns every flat key in document order.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// TopKeys returns the top-level keys in document order.
func (d *Document) TopKeys() []string {
	return d.top.Keys()
}

// Top returns the original value of a top-level key.
func (d *Document) Top(key string) (profile.Node, bool) {
	return d.top.Get(key)
}

// Len returns the number of top-level keys.
func (d *Document) Len() int {
	return d.top.Len()
}

// INISource is a parsed sectioned key=value file.
type INISource struct {
	sections []string
	docs     map[string]*Document
}

// ReadINI parses PrusaSlicer-style INI text. Keys keep their case, values
// are taken verbatim (quotes and inline '#' or ';' included) and keys
// outside any section are ignored.
func ReadINI(data []byte) (*INISource, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		IgnoreContinuation:      true,
		PreserveSurroundedQuote: true,
		KeyValueDelimiters:      "=",
	}, data)
	if err != nil {
		return nil, err
	}

	src := &INISource{docs: make(map[string]*Document)}
	for _, sec := range f.Sections() {
		name := sec.Name()
		if name == ini.DefaultSection {
			continue
		}
		doc := NewDocument(profile.DialectPrusaSlicer)
		for _, k := range sec.Keys() {
			doc.Add(k.Name(), k.Value())
		}
		src.sections = append(src.sections, name)
		src.docs[name] = doc
	}
	return src, nil
}

// Sections returns the section names in file order.
func (s *INISource) Sections() []string {
	out := make([]string, len(s.sections))
	copy(out, s.sections)
	return out
}

// Section returns the document for a section. A bundle-style header such as
// "printer:Original Prusa MK4" matches name "printer" when no exact section
// exists.
func (s *INISource) Section(name string) (*Document, bool) {
	if doc, ok := s.docs[name]; ok {
		return doc, true
	}
	for _, sec := range s.sections {
		if strings.HasPrefix(sec, name+":") {
			return s.docs[sec], true
		}
	}
	return nil, false
}

// ReadDialectJSON flattens a JSON dialect document. Nested maps and lists
// are addressed with dotted keys ("nozzle_temperature.1"); a single-element
// list of scalars is also reachable through its bare key. Booleans read as
// "1" or "0", numbers keep their text and nulls are skipped.
func ReadDialectJSON(data []byte, d profile.Dialect) (*Document, error) {
	n, err := profile.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	m, ok := n.(*profile.Map)
	if !ok {
		return nil, fmt.Errorf("%s document must be a JSON object", d)
	}
	return DocumentFromMap(m, d), nil
}

// DocumentFromMap builds a document from an already decoded object.
func DocumentFromMap(m *profile.Map, d profile.Dialect) *Document {
	doc := NewDocument(d)
	m.Range(func(key string, value profile.Node) bool {
		doc.top.Set(key, value)
		doc.flatten(key, value)
		if l, ok := value.(*profile.List); ok && l.Len() == 1 {
			if raw, ok := rawText(l.Items[0]); ok {
				doc.addRaw(key, raw)
			}
		}
		return true
	})
	return doc
}

func (d *Document) flatten(key string, n profile.Node) {
	switch t := n.(type) {
	case *profile.Map:
		t.Range(func(k string, v profile.Node) bool {
			d.flatten(key+profile.Separator+k, v)
			return true
		})
	case *profile.List:
		for i, item := range t.Items {
			d.flatten(key+profile.Separator+strconv.Itoa(i), item)
		}
	default:
		if raw, ok := rawText(n); ok {
			d.addRaw(key, raw)
		}
	}
}

func rawText(n profile.Node) (string, bool) {
	s, ok := n.(profile.Scalar)
	if !ok || s.IsNull() {
		return "", false
	}
	if b, ok := s.Value.(bool); ok {
		if b {
			return "1", true
		}
		return "0", true
	}
	return s.String(), true
}
