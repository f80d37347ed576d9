package output

import (
	"strconv"
	"strings"
)

// Count is one labeled tally in a batch summary.
type Count struct {
	N     int
	Label string
}

// Summary renders "3 converted, 1 failed" from counts, leaving out zero
// tallies. All zero renders "nothing to do".
func Summary(counts ...Count) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		if c.N == 0 {
			continue
		}
		parts = append(parts, strconv.Itoa(c.N)+" "+c.Label)
	}
	if len(parts) == 0 {
		return "nothing to do"
	}
	return strings.Join(parts, ", ")
}

// RenderSummary renders a bold "Summary: ..." line.
func RenderSummary(counts ...Count) string {
	return StyleSummary.Render("Summary:") + " " + Summary(counts...)
}

// IndentLines indents each non-empty line of s.
func IndentLines(s, indent string) string {
	if s == "" {
		return ""
	}

	var sb strings.Builder
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			sb.WriteString(indent)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
