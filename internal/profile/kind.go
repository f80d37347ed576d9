package profile

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for unknown enumerations.
var (
	// ErrUnknownKind indicates a profile kind outside printer, filament and process.
	ErrUnknownKind = errors.New("unknown profile kind")

	// ErrUnknownDialect indicates a slicer dialect that has no support.
	ErrUnknownDialect = errors.New("unknown dialect")
)

// Kind discriminates the three profile documents.
type Kind string

const (
	// KindPrinter describes a machine.
	KindPrinter Kind = "printer"

	// KindFilament describes a material.
	KindFilament Kind = "filament"

	// KindProcess describes print settings.
	KindProcess Kind = "process"
)

// Kinds returns every recognized kind in canonical order.
func Kinds() []Kind {
	return []Kind{KindPrinter, KindFilament, KindProcess}
}

// String returns the kind name.
func (k Kind) String() string { return string(k) }

// IsValid reports whether k is a recognized kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindPrinter, KindFilament, KindProcess:
		return true
	}
	return false
}

// ParseKind parses a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Dialect names an external slicer configuration format.
type Dialect string

const (
	// DialectCura is the Ultimaker Cura JSON dialect.
	DialectCura Dialect = "cura"

	// DialectPrusaSlicer is the PrusaSlicer INI dialect.
	DialectPrusaSlicer Dialect = "prusaslicer"

	// DialectOrca is the OrcaSlicer JSON dialect.
	DialectOrca Dialect = "orca"

	// DialectBambu is the Bambu Studio JSON dialect.
	DialectBambu Dialect = "bambu"
)

// Dialects returns every supported dialect.
func Dialects() []Dialect {
	return []Dialect{DialectCura, DialectPrusaSlicer, DialectOrca, DialectBambu}
}

// String returns the dialect name.
func (d Dialect) String() string { return string(d) }

// IsValid reports whether d is a supported dialect.
func (d Dialect) IsValid() bool {
	switch d {
	case DialectCura, DialectPrusaSlicer, DialectOrca, DialectBambu:
		return true
	}
	return false
}

// Title returns the slicer's display name.
func (d Dialect) Title() string {
	switch d {
	case DialectCura:
		return "Cura"
	case DialectPrusaSlicer:
		return "PrusaSlicer"
	case DialectOrca:
		return "OrcaSlicer"
	case DialectBambu:
		return "Bambu Studio"
	}
	return string(d)
}

// ExtensionKey returns the top-level key of the dialect's vendor-extension namespace.
func (d Dialect) ExtensionKey() string {
	return "x_" + string(d)
}

// ParseDialect parses a dialect name.
func ParseDialect(s string) (Dialect, error) {
	d := Dialect(strings.ToLower(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, s)
	}
	return d, nil
}

// DialectNames returns the dialect names for flag help and validation.
func DialectNames() []string {
	ds := Dialects()
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = string(d)
	}
	return out
}
