// Package templates holds the HTML components of the viewer page.
// Components are written in .templ files; run `templ generate` after
// editing them.
package templates

import (
	"strings"

	"github.com/JonMunkholm/sheetview/internal/core"
)

// PageData is everything the viewer page renders.
type PageData struct {
	Table   core.Table
	Error   string
	Pending string

	// Accept is the file input's accept attribute, e.g. ".csv,.pdf".
	Accept   string
	RowLimit int
}

// AcceptList builds an accept attribute from bare extensions.
func AcceptList(formats []string) string {
	parts := make([]string, len(formats))
	for i, f := range formats {
		parts[i] = "." + f
	}
	return strings.Join(parts, ",")
}

// padRow returns row extended with empty cells to width.
func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}
