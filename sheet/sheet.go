// Package sheet serializes cell assignments into an XLSX workbook.
//
// The package knows nothing about PDFs: callers describe a single sheet as
// an ordered list of CellAssignment values plus column widths, and get the
// workbook bytes back.
package sheet

import "fmt"

// ContentType is the MIME type of the produced workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Extension is the file extension of the produced workbooks.
const Extension = ".xlsx"

// Style tags a cell with a predefined look.
type Style int

const (
	StyleNone Style = iota
	StylePageHeader
)

func (s Style) String() string {
	switch s {
	case StyleNone:
		return "none"
	case StylePageHeader:
		return "page-header"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

// CellAssignment places one value in one cell. Row is 1-based, Column is a
// spreadsheet column name ("A", "B", ..., "AA").
type CellAssignment struct {
	Column string `json:"column"`
	Row    int    `json:"row"`
	Value  string `json:"value"`
	Style  Style  `json:"style"`
}

// Ref returns the A1-style reference of the cell, e.g. "A3".
func (c CellAssignment) Ref() string {
	return fmt.Sprintf("%s%d", c.Column, c.Row)
}

// Layout is everything needed to write one sheet.
type Layout struct {
	SheetName    string             `json:"sheet_name"`
	ColumnWidths map[string]float64 `json:"column_widths,omitempty"`
	Cells        []CellAssignment   `json:"cells"`
}
