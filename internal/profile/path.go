package profile

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Separator joins path segments.
const Separator = "."

// MaxListIndex is the largest list index a write may address. Set pads lists
// up to the index, so the bound also caps what one write can allocate.
const MaxListIndex = 1 << 12

// ErrIndexRange is returned when a write addresses a list index above
// MaxListIndex.
var ErrIndexRange = errors.New("list index out of range")

// ErrStructuralConflict is returned when a write needs to descend through a
// value that is not a container of the required shape.
var ErrStructuralConflict = errors.New("structural conflict")

// Segment is one step of a Path: a map key or a list index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// String returns the segment as written in a path.
func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// Path is a parsed dotted path such as "extruders.0.nozzle_diameter".
type Path []Segment

// String joins the segments back into dotted form.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, Separator)
}

// Parent returns the path without its final segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// ParsePath parses a dotted path. A segment made only of digits is a list index.
func ParsePath(path string) (Path, error) {
	if path == "" {
		return nil, errors.New("empty path")
	}

	parts := strings.Split(path, Separator)
	out := make(Path, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("invalid path %q: empty segment", path)
		}
		if isDigits(part) {
			idx, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid path %q: index %q: %w", path, part, err)
			}
			out = append(out, Segment{Index: idx, IsIndex: true})
			continue
		}
		out = append(out, Segment{Key: part})
	}
	return out, nil
}

// MustParsePath is ParsePath for static paths; it panics on malformed input.
func MustParsePath(path string) Path {
	p, err := ParsePath(path)
	if err != nil {
		panic(err)
	}
	return p
}

// ConflictError describes a write that collided with an existing non-container value.
type ConflictError struct {
	// Path is the full path being written.
	Path string
	// At is the prefix holding the offending value.
	At string
	// Found describes the value found at At.
	Found string
	// Want describes the container the write needed.
	Want string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot set %q: %q holds a %s, need a %s", e.Path, e.At, e.Found, e.Want)
}

// Is matches ErrStructuralConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrStructuralConflict
}

// Get resolves path against root.
func Get(root Node, path string) (Node, bool) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, false
	}
	return GetPath(root, p)
}

// GetPath resolves a parsed path against root.
func GetPath(root Node, p Path) (Node, bool) {
	cur := root
	for _, seg := range p {
		switch c := cur.(type) {
		case *Map:
			if seg.IsIndex {
				return nil, false
			}
			next, ok := c.Get(seg.Key)
			if !ok {
				return nil, false
			}
			cur = next
		case *List:
			if !seg.IsIndex || seg.Index >= len(c.Items) {
				return nil, false
			}
			cur = c.Items[seg.Index]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

// Set writes value at path inside root, creating intermediate maps (or lists,
// for index segments) as needed. Lists are padded with empty maps up to the
// required index. When an existing intermediate value has the wrong shape Set
// returns a *ConflictError and leaves root unchanged.
func Set(root *Map, path string, value Node) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	return SetPath(root, p, value)
}

// SetPath is Set with a parsed path.
func SetPath(root *Map, p Path, value Node) error {
	if root == nil {
		return errors.New("set on nil map")
	}
	if len(p) == 0 {
		return errors.New("empty path")
	}
	if p[0].IsIndex {
		return &ConflictError{Path: p.String(), At: "", Found: "map", Want: "list"}
	}
	for _, seg := range p {
		if seg.IsIndex && seg.Index > MaxListIndex {
			return fmt.Errorf("cannot set %q: %w: %d > %d", p.String(), ErrIndexRange, seg.Index, MaxListIndex)
		}
	}

	// Conflicts can only occur on pre-existing nodes, and every node created
	// below a fresh container is itself fresh, so one pass never leaves a
	// half-applied write behind.
	var cur Node = root
	for i, seg := range p {
		last := i == len(p)-1
		switch c := cur.(type) {
		case *Map:
			if last {
				c.Set(seg.Key, value)
				return nil
			}
			next, ok := c.Get(seg.Key)
			if !ok {
				next = containerFor(p[i+1])
				c.Set(seg.Key, next)
			} else if err := checkShape(p, i+1, next); err != nil {
				return err
			}
			cur = next
		case *List:
			for len(c.Items) < seg.Index {
				c.Items = append(c.Items, NewMap())
			}
			if last {
				if seg.Index == len(c.Items) {
					c.Items = append(c.Items, value)
				} else {
					c.Items[seg.Index] = value
				}
				return nil
			}
			var next Node
			if seg.Index == len(c.Items) {
				next = containerFor(p[i+1])
				c.Items = append(c.Items, next)
			} else {
				next = c.Items[seg.Index]
				if err := checkShape(p, i+1, next); err != nil {
					return err
				}
			}
			cur = next
		}
	}
	return nil
}

// checkShape verifies that n can be descended into by segment p[i].
func checkShape(p Path, i int, n Node) error {
	want := "map"
	if p[i].IsIndex {
		want = "list"
	}
	found := kindOf(n)
	if found == want {
		return nil
	}
	return &ConflictError{Path: p.String(), At: p[:i].String(), Found: found, Want: want}
}

func containerFor(next Segment) Node {
	if next.IsIndex {
		return NewList()
	}
	return NewMap()
}

func kindOf(n Node) string {
	switch n.(type) {
	case *Map:
		return "map"
	case *List:
		return "list"
	case Scalar:
		return "scalar"
	}
	return "nothing"
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
