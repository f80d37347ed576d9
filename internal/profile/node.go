// Package profile provides the canonical profile model: an ordered node tree,
// dotted path addressing into it, the per-kind default skeletons and the JSON
// and YAML codecs used to read and write profile documents.
package profile

import (
	"fmt"
	"math"
	"strconv"
)

// Node is one value in a profile tree: a *Map, a *List or a Scalar.
type Node interface {
	node()
}

// Map is a mapping node that remembers key insertion order.
type Map struct {
	keys   []string
	values map[string]Node
}

// List is a sequence node.
type List struct {
	Items []Node
}

// Scalar is a leaf value. Value holds one of string, int64, float64, bool or nil.
type Scalar struct {
	Value any
}

func (*Map) node()   {}
func (*List) node()  {}
func (Scalar) node() {}

// NewMap creates an empty ordered map.
func NewMap() *Map {
	return &Map{values: make(map[string]Node)}
}

// NewList creates a list holding the given items.
func NewList(items ...Node) *List {
	return &List{Items: items}
}

// String returns a string scalar.
func String(s string) Scalar { return Scalar{Value: s} }

// Int returns an integer scalar.
func Int(i int64) Scalar { return Scalar{Value: i} }

// Float returns a floating point scalar.
func Float(f float64) Scalar { return Scalar{Value: f} }

// Bool returns a boolean scalar.
func Bool(b bool) Scalar { return Scalar{Value: b} }

// Null returns the null scalar.
func Null() Scalar { return Scalar{} }

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Node, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key. A new key is appended; an existing key keeps its position.
func (m *Map) Set(key string, value Node) {
	if m.values == nil {
		m.values = make(map[string]Node)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// With is Set in builder form.
func (m *Map) With(key string, value Node) *Map {
	m.Set(key, value)
	return m
}

// Delete removes key if present.
func (m *Map) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Range calls fn for each entry in order until fn returns false.
func (m *Map) Range(fn func(key string, value Node) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Len returns the number of items.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// IsNull reports whether the scalar holds no value.
func (s Scalar) IsNull() bool { return s.Value == nil }

// Float64 returns the scalar as a float64 when it holds a number.
func (s Scalar) Float64() (float64, bool) {
	switch v := s.Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Text returns the scalar as a string when it holds one.
func (s Scalar) Text() (string, bool) {
	v, ok := s.Value.(string)
	return v, ok
}

// String renders the scalar the way it appears in profile documents: floats
// always keep a fractional part so 250.0 stays distinguishable from 250.
func (s Scalar) String() string {
	switch v := s.Value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return FormatFloat(v)
	}
	return fmt.Sprint(s.Value)
}

// FormatFloat formats f with the shortest exact representation, appending
// ".0" when the result would otherwise read as an integer.
func FormatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if abs := math.Abs(f); abs >= 1e-4 && abs < 1e21 {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}
	for _, c := range s {
		if c == '.' || c == 'e' || c == 'E' {
			return s
		}
	}
	return s + ".0"
}

// FromAny converts plain Go values into nodes. Maps with string keys lose
// their order, so callers that care about order build *Map values directly.
func FromAny(v any) (Node, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case Node:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case []any:
		l := NewList()
		for i, item := range t {
			n, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			l.Items = append(l.Items, n)
		}
		return l, nil
	case map[string]any:
		m := NewMap()
		for _, k := range sortedKeys(t) {
			n, err := FromAny(t[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			m.Set(k, n)
		}
		return m, nil
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}

// ToAny converts a node back into plain Go values.
func ToAny(n Node) any {
	switch t := n.(type) {
	case *Map:
		out := make(map[string]any, t.Len())
		t.Range(func(k string, v Node) bool {
			out[k] = ToAny(v)
			return true
		})
		return out
	case *List:
		out := make([]any, len(t.Items))
		for i, item := range t.Items {
			out[i] = ToAny(item)
		}
		return out
	case Scalar:
		return t.Value
	}
	return nil
}

// Equal reports deep structural equality. Scalars compare by type and value,
// so Int(50) and Float(50) differ. Map key order is not significant.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Map:
		y, ok := b.(*Map)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, k := range x.keys {
			yv, ok := y.values[k]
			if !ok || !Equal(x.values[k], yv) {
				return false
			}
		}
		return true
	case *List:
		y, ok := b.(*List)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i := range x.Items {
			if !Equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	case Scalar:
		y, ok := b.(Scalar)
		return ok && x.Value == y.Value
	}
	return a == nil && b == nil
}

// Clone returns a deep copy of n.
func Clone(n Node) Node {
	switch t := n.(type) {
	case *Map:
		out := NewMap()
		t.Range(func(k string, v Node) bool {
			out.Set(k, Clone(v))
			return true
		})
		return out
	case *List:
		out := &List{Items: make([]Node, len(t.Items))}
		for i, item := range t.Items {
			out.Items[i] = Clone(item)
		}
		return out
	}
	return n
}
