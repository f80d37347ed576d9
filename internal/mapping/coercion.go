// Package mapping implements the declarative correspondence between flat
// slicer key spaces and the nested canonical profile, and the importer that
// applies it.
package mapping

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/openprint3d/op3d/internal/profile"
)

// Coercion converts a raw dialect string into a typed canonical value.
type Coercion int

const (
	// Identity keeps the raw text unchanged.
	Identity Coercion = iota

	// Float parses a finite decimal number.
	Float

	// Int parses an integer. Integral decimals such as "3.0" are accepted.
	Int

	// BoolToken parses 1/0, true/false, yes/no and on/off.
	BoolToken

	// String keeps text, removing one level of double quotes when present.
	String
)

// Coercions returns every coercion kind.
func Coercions() []Coercion {
	return []Coercion{Identity, Float, Int, BoolToken, String}
}

// String returns the coercion name.
func (c Coercion) String() string {
	switch c {
	case Identity:
		return "identity"
	case Float:
		return "float"
	case Int:
		return "int"
	case BoolToken:
		return "bool"
	case String:
		return "string"
	}
	return fmt.Sprintf("Coercion(%d)", int(c))
}

// IsValid reports whether c is a known coercion.
func (c Coercion) IsValid() bool {
	return c >= Identity && c <= String
}

// Yields reports whether c produces values of the scalar type s holds.
// A null scalar matches every coercion.
func (c Coercion) Yields(s profile.Scalar) bool {
	switch s.Value.(type) {
	case nil:
		return true
	case string:
		return c == Identity || c == String
	case float64:
		return c == Float
	case int64:
		return c == Int
	case bool:
		return c == BoolToken
	}
	return false
}

// CoercionError reports a raw value that does not convert.
type CoercionError struct {
	Coercion Coercion
	Raw      string
	Err      error
}

// Error implements the error interface.
func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot convert %q to %s: %v", e.Raw, e.Coercion, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *CoercionError) Unwrap() error {
	return e.Err
}

var (
	errNotFinite = errors.New("value is not finite")
	errBadToken  = errors.New("not a boolean token")
	errFraction  = errors.New("value has a fractional part")
)

// Apply converts raw. It never panics; failures are returned as *CoercionError.
func (c Coercion) Apply(raw string) (profile.Node, error) {
	fail := func(err error) (profile.Node, error) {
		return nil, &CoercionError{Coercion: c, Raw: raw, Err: err}
	}

	switch c {
	case Identity:
		return profile.String(raw), nil

	case String:
		s := strings.TrimSpace(raw)
		if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
			if unq, err := strconv.Unquote(s); err == nil {
				return profile.String(unq), nil
			}
			return profile.String(s[1 : len(s)-1]), nil
		}
		return profile.String(raw), nil

	case Float:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fail(err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fail(errNotFinite)
		}
		return profile.Float(f), nil

	case Int:
		s := strings.TrimSpace(raw)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return profile.Int(i), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fail(err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fail(errNotFinite)
		}
		if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
			return fail(errFraction)
		}
		return profile.Int(int64(f)), nil

	case BoolToken:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "1", "true", "yes", "on":
			return profile.Bool(true), nil
		case "0", "false", "no", "off":
			return profile.Bool(false), nil
		}
		return fail(errBadToken)
	}
	return fail(fmt.Errorf("unknown coercion %d", int(c)))
}
