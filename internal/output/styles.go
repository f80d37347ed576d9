package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Named constants for all ANSI 256 colors used in the CLI;
// never use inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: file paths, profile ids, keys.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the OK and written statuses.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for the skipped status.
	ColorYellow = lipgloss.Color("220")

	// ColorBoldRed is used for the FAIL status (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")

	// ColorBlue is used for table headers.
	ColorBlue = lipgloss.Color("12")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (paths, profile ids, keys).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs (importing, exporting, converting).
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome (scope prefixes, separators).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Per-file statuses reported by batch commands.
const (
	StatusOK      = "OK"
	StatusFail    = "FAIL"
	StatusSkip    = "SKIP"
	StatusWritten = "written"
)

// StatusStyle returns the lipgloss style for a per-file status.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusOK, StatusWritten:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusSkip:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusFail:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minPathColumnWidth keeps status words aligned across lines.
const minPathColumnWidth = 48

// FormatFileLine renders a file path with a right-aligned, color-coded status.
//
// Format: f:<path>  <status>[  <detail>]
func FormatFileLine(path, status, detail string) string {
	padding := minPathColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}

	line := StyleDim.Render("f:") + StyleNoun.Render(path) + strings.Repeat(" ", padding) + StatusStyle(status).Render(status)
	if detail != "" {
		line += "  " + StyleDim.Render(detail)
	}
	return line
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
