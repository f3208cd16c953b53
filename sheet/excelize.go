package sheet

import (
	"context"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// HeaderStyle configures the look of StylePageHeader cells.
type HeaderStyle struct {
	FontColor string `yaml:"font_color"` // hex RGB, no '#'
	FillColor string `yaml:"fill_color"` // hex RGB, no '#'
}

// DefaultHeaderStyle is bold white text on a solid 366092 fill.
func DefaultHeaderStyle() HeaderStyle {
	return HeaderStyle{FontColor: "FFFFFF", FillColor: "366092"}
}

// ExcelizeWriter writes layouts with github.com/xuri/excelize/v2. It holds
// only configuration; each Write builds a fresh in-memory workbook.
type ExcelizeWriter struct {
	header HeaderStyle
}

// NewExcelizeWriter returns a writer using header for StylePageHeader cells.
// Empty colours fall back to DefaultHeaderStyle.
func NewExcelizeWriter(header HeaderStyle) *ExcelizeWriter {
	def := DefaultHeaderStyle()
	if header.FontColor == "" {
		header.FontColor = def.FontColor
	}
	if header.FillColor == "" {
		header.FillColor = def.FillColor
	}
	return &ExcelizeWriter{header: header}
}

// Write renders layout as a single-sheet workbook and returns its bytes.
func (w *ExcelizeWriter) Write(ctx context.Context, layout Layout) ([]byte, error) {
	if layout.SheetName == "" {
		return nil, fmt.Errorf("sheet: empty sheet name")
	}

	f := excelize.NewFile()
	defer f.Close()

	name := layout.SheetName
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return nil, fmt.Errorf("sheet: rename: %w", err)
	}

	cols := make([]string, 0, len(layout.ColumnWidths))
	for col := range layout.ColumnWidths {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		if err := f.SetColWidth(name, col, col, layout.ColumnWidths[col]); err != nil {
			return nil, fmt.Errorf("sheet: width %s: %w", col, err)
		}
	}

	headerID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: w.header.FontColor},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{w.header.FillColor}},
	})
	if err != nil {
		return nil, fmt.Errorf("sheet: header style: %w", err)
	}

	for i, c := range layout.Cells {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if c.Row < 1 {
			return nil, fmt.Errorf("sheet: invalid row %d for value %q", c.Row, c.Value)
		}
		col, err := excelize.ColumnNameToNumber(c.Column)
		if err != nil {
			return nil, fmt.Errorf("sheet: %w", err)
		}
		ref, err := excelize.CoordinatesToCellName(col, c.Row)
		if err != nil {
			return nil, fmt.Errorf("sheet: %w", err)
		}
		if err := f.SetCellStr(name, ref, c.Value); err != nil {
			return nil, fmt.Errorf("sheet: set %s: %w", ref, err)
		}
		if c.Style == StylePageHeader {
			if err := f.SetCellStyle(name, ref, ref, headerID); err != nil {
				return nil, fmt.Errorf("sheet: style %s: %w", ref, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("sheet: serialize: %w", err)
	}
	return buf.Bytes(), nil
}
