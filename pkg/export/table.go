package export

import (
	"strings"
	"unicode/utf8"
)

// TableRenderer draws a Dataset as a plain-text grid, one bordered cell per
// value and a heavier rule under the header row.
type TableRenderer struct{}

// NewTableRenderer constructs a text table renderer.
func NewTableRenderer() *TableRenderer {
	return &TableRenderer{}
}

// Render returns the grid-formatted table for the dataset.
func (r *TableRenderer) Render(data Dataset) string {
	if len(data.Headers) == 0 {
		return ""
	}

	widths := make([]int, len(data.Headers))
	for i, h := range data.Headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range data.Rows {
		for i := range data.Headers {
			if i < len(row) {
				if w := utf8.RuneCountInString(row[i]); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	var b strings.Builder
	writeRule(&b, widths, '-')
	writeRow(&b, data.Headers, widths)
	writeRule(&b, widths, '=')
	for _, row := range data.Rows {
		cells := make([]string, len(data.Headers))
		copy(cells, row)
		writeRow(&b, cells, widths)
		writeRule(&b, widths, '-')
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeRule(b *strings.Builder, widths []int, fill rune) {
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat(string(fill), w+2))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	b.WriteByte('|')
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		b.WriteByte(' ')
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", w-utf8.RuneCountInString(cell)))
		b.WriteString(" |")
	}
	b.WriteByte('\n')
}
