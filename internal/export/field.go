// Package export turns canonical profiles into slicer dialect documents.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openprint3d/op3d/internal/profile"
)

// Shape says how a field's canonical values become the dialect value.
type Shape int

const (
	// Value emits the first reference as is.
	Value Shape = iota

	// Literal always emits the first reference's default.
	Literal

	// Lower emits the first reference lower-cased.
	Lower

	// Join emits every reference as text joined by Sep.
	Join

	// List emits every reference as a list.
	List

	// Percent emits a number as "N%".
	Percent

	// BambuMaterialID emits "G" + the first four letters of the material + "00".
	BambuMaterialID

	// BambuProductID emits "<maker>_<model>_00" in lower case without dashes or spaces.
	BambuProductID
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case Value:
		return "value"
	case Literal:
		return "literal"
	case Lower:
		return "lower"
	case Join:
		return "join"
	case List:
		return "list"
	case Percent:
		return "percent"
	case BambuMaterialID:
		return "bambu-material-id"
	case BambuProductID:
		return "bambu-product-id"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// Ref reads one canonical path. Default is used when the path is absent;
// a nil Default leaves the value missing.
type Ref struct {
	Path    string
	Default profile.Node
}

// Field is one key of a synthesized dialect document.
type Field struct {
	Key   string
	Refs  []Ref
	Shape Shape
	Sep   string
}

func value(key, path string, def profile.Node) Field {
	return Field{Key: key, Refs: []Ref{{path, def}}, Shape: Value}
}

func literal(key string, v profile.Node) Field {
	return Field{Key: key, Refs: []Ref{{Default: v}}, Shape: Literal}
}

func shaped(key string, shape Shape, refs ...Ref) Field {
	return Field{Key: key, Refs: refs, Shape: shape}
}

func join(key, sep string, refs ...Ref) Field {
	return Field{Key: key, Refs: refs, Shape: Join, Sep: sep}
}

func (r Ref) resolve(p *profile.Profile) (profile.Node, bool) {
	if r.Path != "" {
		if n, ok := p.Get(r.Path); ok {
			return n, true
		}
	}
	if r.Default == nil {
		return nil, false
	}
	return profile.Clone(r.Default), true
}

func (r Ref) text(p *profile.Profile) string {
	n, ok := r.resolve(p)
	if !ok {
		return ""
	}
	if s, ok := n.(profile.Scalar); ok {
		if s.IsNull() {
			return ""
		}
		return s.String()
	}
	return ""
}

// Render produces the field's value from p. It reports false when a
// required reference is missing and has no default.
func (f Field) Render(p *profile.Profile) (profile.Node, bool) {
	if len(f.Refs) == 0 {
		return nil, false
	}
	first := f.Refs[0]

	switch f.Shape {
	case Value:
		return first.resolve(p)

	case Literal:
		if first.Default == nil {
			return nil, false
		}
		return profile.Clone(first.Default), true

	case Lower:
		n, ok := first.resolve(p)
		if !ok {
			return nil, false
		}
		if s, ok := n.(profile.Scalar); ok {
			if text, ok := s.Text(); ok {
				return profile.String(strings.ToLower(text)), true
			}
		}
		return n, true

	case Join:
		parts := make([]string, len(f.Refs))
		for i, r := range f.Refs {
			parts[i] = r.text(p)
		}
		return profile.String(strings.Join(parts, f.Sep)), true

	case List:
		l := profile.NewList()
		for _, r := range f.Refs {
			n, ok := r.resolve(p)
			if !ok {
				n = profile.Null()
			}
			l.Items = append(l.Items, n)
		}
		return l, true

	case Percent:
		n, ok := first.resolve(p)
		if !ok {
			return nil, false
		}
		return percent(n), true

	case BambuMaterialID:
		material := []rune(first.text(p))
		if len(material) > 4 {
			material = material[:4]
		}
		return profile.String("G" + string(material) + "00"), true

	case BambuProductID:
		maker := strings.ToLower(first.text(p))
		var model string
		if len(f.Refs) > 1 {
			model = strings.ToLower(f.Refs[1].text(p))
		}
		model = strings.NewReplacer("-", "", " ", "").Replace(model)
		return profile.String(maker + "_" + model + "_00"), true
	}
	return nil, false
}

func percent(n profile.Node) profile.Node {
	s, ok := n.(profile.Scalar)
	if !ok {
		return n
	}
	if f, ok := s.Float64(); ok {
		return profile.String(strconv.FormatFloat(f, 'f', -1, 64) + "%")
	}
	if text, ok := s.Text(); ok && !strings.HasSuffix(strings.TrimSpace(text), "%") {
		return profile.String(strings.TrimSpace(text) + "%")
	}
	return n
}
