// Package validate checks profile documents against the embedded CUE
// definitions for each kind.
package validate

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/openprint3d/op3d/internal/profile"
)

//go:embed schema/profile.cue
var profileSchemaCUE []byte

// ErrInvalid is matched by every validation failure.
var ErrInvalid = errors.New("profile failed validation")

// Validator checks a profile.
type Validator interface {
	Validate(p *profile.Profile) error
}

// Issue is one schema violation.
type Issue struct {
	Path    string
	Message string
}

// String renders the issue as "path: message".
func (i Issue) String() string {
	if i.Path == "" {
		return "<root>: " + i.Message
	}
	return i.Path + ": " + i.Message
}

// Error lists the violations found in one profile.
type Error struct {
	Kind   profile.Kind
	Issues []Issue
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s profile has %d issue(s)", e.Kind, len(e.Issues))
	for _, i := range e.Issues {
		sb.WriteString("\n  ")
		sb.WriteString(i.String())
	}
	return sb.String()
}

// Is matches ErrInvalid.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// CUEValidator validates profiles with the embedded CUE definitions
// #Printer, #Filament and #Process.
type CUEValidator struct {
	ctx  *cue.Context
	defs map[profile.Kind]cue.Value
}

// NewCUEValidator compiles the embedded definitions.
func NewCUEValidator() (*CUEValidator, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(profileSchemaCUE, cue.Filename("profile.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	defs := make(map[profile.Kind]cue.Value, 3)
	for kind, name := range map[profile.Kind]string{
		profile.KindPrinter:  "#Printer",
		profile.KindFilament: "#Filament",
		profile.KindProcess:  "#Process",
	} {
		def := schema.LookupPath(cue.ParsePath(name))
		if !def.Exists() {
			return nil, fmt.Errorf("schema has no %s definition", name)
		}
		defs[kind] = def
	}
	return &CUEValidator{ctx: ctx, defs: defs}, nil
}

// Validate checks p against the definition for its kind. Failures are
// returned as *Error.
func (v *CUEValidator) Validate(p *profile.Profile) error {
	def, ok := v.defs[p.Kind()]
	if !ok {
		return fmt.Errorf("%w: %q", profile.ErrUnknownKind, p.Kind())
	}

	var buf bytes.Buffer
	if err := profile.EncodeJSON(&buf, p.Root(), 0); err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	data := v.ctx.CompileBytes(buf.Bytes(), cue.Filename(p.ID()+".json"))
	if data.Err() != nil {
		return fmt.Errorf("loading profile: %w", data.Err())
	}

	if err := def.Unify(data).Validate(cue.Concrete(true)); err != nil {
		return &Error{Kind: p.Kind(), Issues: issues(err)}
	}
	return nil
}

func issues(err error) []Issue {
	seen := make(map[Issue]bool)
	var out []Issue
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		i := Issue{
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		}
		if seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	if len(out) == 0 {
		out = append(out, Issue{Message: err.Error()})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Path < out[b].Path })
	return out
}
