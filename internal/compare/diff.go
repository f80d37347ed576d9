// Package compare flattens profiles into path/value views and classifies
// the differences between two of them.
package compare

import (
	"sort"

	"github.com/openprint3d/op3d/internal/profile"
)

// Status classifies one key of a comparison.
type Status string

// Comparison statuses. The values are the names the JSON report uses.
const (
	OnlyInLeft  Status = "only_in_profile1"
	OnlyInRight Status = "only_in_profile2"
	Different   Status = "different"
	Common      Status = "common"
)

// Flat is a single-level view of a nested profile keyed by joined path.
type Flat map[string]profile.Node

// Keys returns the flat keys in lexicographic order.
func (f Flat) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flatten joins nested map keys with sep. Only maps recurse: lists and
// scalars are leaves, and an empty map contributes no key.
func Flatten(m *profile.Map, sep string) Flat {
	out := make(Flat)
	flattenInto(out, "", m, sep)
	return out
}

func flattenInto(out Flat, prefix string, m *profile.Map, sep string) {
	m.Range(func(k string, v profile.Node) bool {
		key := k
		if prefix != "" {
			key = prefix + sep + k
		}
		if child, ok := v.(*profile.Map); ok {
			flattenInto(out, key, child, sep)
			return true
		}
		out[key] = v
		return true
	})
}

// Entry is one classified key. Left or Right is nil when the key is absent
// on that side.
type Entry struct {
	Key    string
	Left   profile.Node
	Right  profile.Node
	Status Status
}

// Stats summarizes a Result.
type Stats struct {
	TotalKeys   int
	Differences int
	Common      int
	OnlyInLeft  int
	OnlyInRight int
	Modified    int
}

// Result holds the classified keys of two flat views in key order.
type Result struct {
	Differences []Entry
	Common      []Entry
	Stats       Stats
}

// HasDifferences reports whether any key differs.
func (r *Result) HasDifferences() bool {
	return len(r.Differences) > 0
}

// Diff classifies every key in the union of a and b. Values are equal only
// when they have the same type and value, so 50 and 50.0 differ. Common
// entries are recorded only when includeCommon is set.
func Diff(a, b Flat, includeCommon bool) *Result {
	union := make(Flat, len(a)+len(b))
	for k, v := range a {
		union[k] = v
	}
	for k, v := range b {
		union[k] = v
	}

	r := &Result{Differences: []Entry{}, Common: []Entry{}}
	for _, key := range union.Keys() {
		left, inLeft := a[key]
		right, inRight := b[key]

		switch {
		case !inLeft:
			r.Differences = append(r.Differences, Entry{Key: key, Right: right, Status: OnlyInRight})
			r.Stats.OnlyInRight++
		case !inRight:
			r.Differences = append(r.Differences, Entry{Key: key, Left: left, Status: OnlyInLeft})
			r.Stats.OnlyInLeft++
		case !profile.Equal(left, right):
			r.Differences = append(r.Differences, Entry{Key: key, Left: left, Right: right, Status: Different})
			r.Stats.Modified++
		case includeCommon:
			r.Common = append(r.Common, Entry{Key: key, Left: left, Right: right, Status: Common})
		}
	}

	r.Stats.TotalKeys = len(union)
	r.Stats.Differences = len(r.Differences)
	r.Stats.Common = len(r.Common)
	return r
}

// Options configures CompareDocuments.
type Options struct {
	// Separator joins nested keys. Defaults to profile.Separator.
	Separator string

	// IncludeCommon records keys whose values match.
	IncludeCommon bool
}

// Report is a comparison of two profile documents.
type Report struct {
	LeftSchema  string
	RightSchema string
	LeftID      string
	RightID     string
	Result      *Result
}

// CompareDocuments flattens and diffs two decoded documents. The documents
// need not be valid profiles; a missing schema or id reads as "unknown".
func CompareDocuments(left, right *profile.Map, opts Options) *Report {
	sep := opts.Separator
	if sep == "" {
		sep = profile.Separator
	}
	return &Report{
		LeftSchema:  field(left, profile.SchemaKey),
		RightSchema: field(right, profile.SchemaKey),
		LeftID:      field(left, profile.IDKey),
		RightID:     field(right, profile.IDKey),
		Result:      Diff(Flatten(left, sep), Flatten(right, sep), opts.IncludeCommon),
	}
}

// CompareProfiles compares two profiles.
func CompareProfiles(left, right *profile.Profile, opts Options) *Report {
	return CompareDocuments(left.Root(), right.Root(), opts)
}

func field(m *profile.Map, key string) string {
	n, ok := m.Get(key)
	if !ok {
		return "unknown"
	}
	if s, ok := n.(profile.Scalar); ok && !s.IsNull() {
		return s.String()
	}
	return "unknown"
}
