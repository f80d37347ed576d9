package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorMode selects when styled output is produced.
type ColorMode string

const (
	// ColorAuto colors output only when writing to a terminal.
	ColorAuto ColorMode = "auto"

	// ColorAlways forces colors.
	ColorAlways ColorMode = "always"

	// ColorNever disables colors.
	ColorNever ColorMode = "never"
)

// String returns the string representation of the color mode.
func (m ColorMode) String() string {
	return string(m)
}

// IsValid checks if the color mode is valid.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// ParseColorMode parses a string into a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always", "true", "on":
		return ColorAlways, nil
	case "never", "false", "off":
		return ColorNever, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (valid: %s)", s, strings.Join(ValidColorModes(), ", "))
	}
}

// ValidColorModes returns the valid color mode strings.
func ValidColorModes() []string {
	return []string{"auto", "always", "never"}
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// UseColor resolves mode against the destination writer.
func UseColor(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return IsTTY(w)
	}
}

// ApplyColor switches the default lipgloss renderer on or off so styles
// degrade to plain text when colors are disabled. Tables created afterwards
// drop their borders too.
func ApplyColor(enabled bool) {
	plainTables = !enabled
	if enabled {
		lipgloss.SetColorProfile(termenv.ANSI256)
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}
