package compare

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/openprint3d/op3d/internal/output"
	"github.com/openprint3d/op3d/internal/profile"
)

// Format selects a report rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatDyff Format = "dyff"
)

// Formats returns the valid report formats.
func Formats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatDyff)}
}

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDyff:
		return true
	}
	return false
}

const (
	missing     = "<missing>"
	maxValueLen = 40
)

// FormatValue renders a value for a report cell. Composite values are
// shown as compact JSON, cut at 40 characters.
func FormatValue(n profile.Node) string {
	if n == nil {
		return missing
	}
	switch t := n.(type) {
	case profile.Scalar:
		if t.IsNull() {
			return "null"
		}
		return t.String()
	default:
		var buf bytes.Buffer
		if err := profile.EncodeJSON(&buf, n, 0); err != nil {
			return "?"
		}
		s := strings.TrimSpace(buf.String())
		if len(s) > maxValueLen {
			return s[:maxValueLen-3] + "..."
		}
		return s
	}
}

// WriteText writes the human report: a summary followed by tables of the
// differing and, when recorded, the common keys.
func WriteText(w io.Writer, r *Report) error {
	stats := r.Result.Stats
	rule := strings.Repeat("=", 70)

	var sb strings.Builder
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "%s %s vs %s\n",
		output.StyleSummary.Render("Profile Comparison:"),
		output.StyleNoun.Render(r.LeftID), output.StyleNoun.Render(r.RightID))
	sb.WriteString(rule + "\n\n")

	sb.WriteString("Summary:\n")
	fmt.Fprintf(&sb, "  Total keys checked: %d\n", stats.TotalKeys)
	fmt.Fprintf(&sb, "  Differences found:  %d\n", stats.Differences)
	fmt.Fprintf(&sb, "    - Only in Profile 1: %d\n", stats.OnlyInLeft)
	fmt.Fprintf(&sb, "    - Only in Profile 2: %d\n", stats.OnlyInRight)
	fmt.Fprintf(&sb, "    - Modified values:   %d\n", stats.Modified)
	fmt.Fprintf(&sb, "  Common settings:    %d\n", stats.Common)

	if len(r.Result.Differences) > 0 {
		sb.WriteString("\n" + output.StyleSummary.Render("DIFFERENCES") + "\n")
		t := output.NewTable("KEY", "PROFILE 1", "PROFILE 2")
		for _, e := range r.Result.Differences {
			t.Row(e.Key, FormatValue(e.Left), FormatValue(e.Right))
		}
		sb.WriteString(t.String() + "\n")
	}

	if len(r.Result.Common) > 0 {
		sb.WriteString("\n" + output.StyleSummary.Render("COMMON SETTINGS") + "\n")
		t := output.NewTable("KEY", "VALUE").AlignRight(1)
		for _, e := range r.Result.Common {
			t.Row(e.Key, FormatValue(e.Left))
		}
		sb.WriteString(t.String() + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteJSON writes the machine-readable report.
func WriteJSON(w io.Writer, r *Report, indent int) error {
	orNull := func(n profile.Node) profile.Node {
		if n == nil {
			return profile.Null()
		}
		return n
	}

	diffs := profile.NewList()
	for _, e := range r.Result.Differences {
		diffs.Items = append(diffs.Items, profile.NewMap().
			With("key", profile.String(e.Key)).
			With("profile1", orNull(e.Left)).
			With("profile2", orNull(e.Right)).
			With("status", profile.String(string(e.Status))))
	}
	common := profile.NewList()
	for _, e := range r.Result.Common {
		common.Items = append(common.Items, profile.NewMap().
			With("key", profile.String(e.Key)).
			With("value", orNull(e.Left)))
	}

	s := r.Result.Stats
	doc := profile.NewMap().
		With("profile1_schema", profile.String(r.LeftSchema)).
		With("profile2_schema", profile.String(r.RightSchema)).
		With("profile1_id", profile.String(r.LeftID)).
		With("profile2_id", profile.String(r.RightID)).
		With("differences", diffs).
		With("common", common).
		With("stats", profile.NewMap().
			With("total_keys", profile.Int(int64(s.TotalKeys))).
			With("differences", profile.Int(int64(s.Differences))).
			With("common", profile.Int(int64(s.Common))).
			With("only_in_profile1", profile.Int(int64(s.OnlyInLeft))).
			With("only_in_profile2", profile.Int(int64(s.OnlyInRight))).
			With("modified", profile.Int(int64(s.Modified))))
	return profile.EncodeJSON(w, doc, indent)
}

// WriteDyff writes a structural YAML diff of the two documents. It writes
// nothing when they are identical.
func WriteDyff(w io.Writer, leftName string, left *profile.Map, rightName string, right *profile.Map, useColor bool) error {
	var lb, rb bytes.Buffer
	if err := profile.EncodeYAML(&lb, left); err != nil {
		return fmt.Errorf("encoding %s: %w", leftName, err)
	}
	if err := profile.EncodeYAML(&rb, right); err != nil {
		return fmt.Errorf("encoding %s: %w", rightName, err)
	}
	report, err := output.RenderDyff(leftName, lb.Bytes(), rightName, rb.Bytes(), useColor)
	if err != nil {
		return err
	}
	if report == "" {
		return nil
	}
	_, err = fmt.Fprintln(w, report)
	return err
}
