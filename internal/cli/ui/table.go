package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"
)

// NewTable returns a table that prints to Stdout with the first column in
// bold. Widths go through lipgloss.Width so styled cells stay aligned.
func NewTable(columns ...string) table.Table {
	headers := make([]interface{}, len(columns))
	for i, c := range columns {
		headers[i] = c
	}

	return table.New(headers...).
		WithWriter(Stdout).
		WithPadding(2).
		WithWidthFunc(lipgloss.Width).
		WithFirstColumnFormatter(func(format string, vals ...interface{}) string {
			return BoldStyle.Render(fmt.Sprintf(format, vals...))
		})
}

// PrintSectionHeader prints "<icon> <title> (<count>)" after a blank line
func PrintSectionHeader(icon, title string, count int) {
	OutputLine("\n%s %s (%d)", icon, title, count)
}
