package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableStyle defines the style for table output.
type TableStyle struct {
	Border      lipgloss.Border
	BorderColor lipgloss.Color
	HeaderStyle lipgloss.Style
	CellStyle   lipgloss.Style
}

// DefaultTableStyle is the bordered style used on color terminals.
func DefaultTableStyle() TableStyle {
	return TableStyle{
		Border:      lipgloss.RoundedBorder(),
		BorderColor: ColorDimGray,
		HeaderStyle: lipgloss.NewStyle().Bold(true).Foreground(ColorBlue).Padding(0, 1),
		CellStyle:   lipgloss.NewStyle().Padding(0, 1),
	}
}

// PlainTableStyle is a borderless style for pipes and --color=never.
func PlainTableStyle() TableStyle {
	return TableStyle{
		Border:      lipgloss.HiddenBorder(),
		HeaderStyle: lipgloss.NewStyle().PaddingRight(2),
		CellStyle:   lipgloss.NewStyle().PaddingRight(2),
	}
}

// plainTables makes NewTable start from PlainTableStyle. ApplyColor sets it.
var plainTables bool

// Table is a lipgloss table of string cells with optional right-aligned
// columns and a footer line.
type Table struct {
	headers []string
	rows    [][]string
	right   map[int]bool
	footer  string
	style   TableStyle
}

// NewTable creates a table with the given headers in the current default
// style.
func NewTable(headers ...string) *Table {
	style := DefaultTableStyle()
	if plainTables {
		style = PlainTableStyle()
	}
	return &Table{headers: headers, right: map[int]bool{}, style: style}
}

// Row adds a row. Missing cells render empty.
func (t *Table) Row(cells ...string) *Table {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// AlignRight right-aligns the given zero-based columns, for numbers.
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		t.right[c] = true
	}
	return t
}

// Footer sets a line printed one blank line below the table.
func (t *Table) Footer(s string) *Table {
	t.footer = s
	return t
}

// SetStyle overrides the table style.
func (t *Table) SetStyle(style TableStyle) *Table {
	t.style = style
	return t
}

// String renders the table, followed by the footer if one is set.
func (t *Table) String() string {
	tbl := table.New().
		Border(t.style.Border).
		BorderStyle(lipgloss.NewStyle().Foreground(t.style.BorderColor)).
		Headers(t.headers...).
		Rows(t.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := t.style.CellStyle
			if row == table.HeaderRow {
				s = t.style.HeaderStyle
			}
			if t.right[col] {
				return s.Align(lipgloss.Right)
			}
			return s
		})

	out := strings.TrimRight(tbl.String(), "\n")
	if t.footer != "" {
		out += "\n\n" + t.footer
	}
	return out
}
