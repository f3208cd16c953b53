package convert

import (
	"strconv"
	"strings"

	"github.com/hazyhaar/pdfsheet/docpipe"
	"github.com/hazyhaar/pdfsheet/sheet"
)

// Column is the single output column.
const Column = "A"

// HeaderPrefix precedes the page number in page header cells.
const HeaderPrefix = "Página "

// SplitLines splits page text on line breaks, trims each line and drops the
// ones left empty.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Layout places pages in column A. Each page with at least one line gets a
// styled header row, one row per line and a blank separator row (the
// separator follows the last page too). Pages without lines take no rows
// and no header number: headers count the pages that produced text, so
// "Página 1" is the first page with text even when scanned pages precede it.
func Layout(pages []docpipe.Page) []sheet.CellAssignment {
	var cells []sheet.CellAssignment
	row := 1
	header := 0
	for _, p := range pages {
		lines := SplitLines(p.Text)
		if len(lines) == 0 {
			continue
		}
		header++
		cells = append(cells, sheet.CellAssignment{
			Column: Column,
			Row:    row,
			Value:  HeaderPrefix + strconv.Itoa(header),
			Style:  sheet.StylePageHeader,
		})
		row++
		for _, line := range lines {
			cells = append(cells, sheet.CellAssignment{Column: Column, Row: row, Value: line})
			row++
		}
		row++
	}
	return cells
}
