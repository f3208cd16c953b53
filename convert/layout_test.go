package convert

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/hazyhaar/pdfsheet/docpipe"
	"github.com/hazyhaar/pdfsheet/sheet"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Hello\nWorld", []string{"Hello", "World"}},
		{"  padded  \n\n\t\n last ", []string{"padded", "last"}},
		{"a\r\nb\rc", []string{"a", "b", "c"}},
		{"   \n \t ", nil},
		{"", nil},
	}
	for _, tt := range tests {
		if got := SplitLines(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLayout_HelloWorld(t *testing.T) {
	// WHAT: One page "Hello"/"World" → A1 header, A2, A3; row 4 left blank.
	// WHY: Reference layout of the service output.
	got := Layout([]docpipe.Page{{Number: 1, Text: "Hello\nWorld"}})
	want := []sheet.CellAssignment{
		{Column: "A", Row: 1, Value: "Página 1", Style: sheet.StylePageHeader},
		{Column: "A", Row: 2, Value: "Hello"},
		{Column: "A", Row: 3, Value: "World"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Layout = %+v\nwant %+v", got, want)
	}
}

func TestLayout_SeparatorRowsAndSkippedPages(t *testing.T) {
	// WHAT: Empty and whitespace-only pages take no rows and no header number;
	// every page with text is followed by one blank row.
	// WHY: Headers number the pages that produced text, 1-based, in page order.
	pages := []docpipe.Page{
		{Number: 1, Text: "a\nb"},
		{Number: 2, Text: ""},
		{Number: 3, Text: "  \n\t "},
		{Number: 4, Text: "c"},
	}
	got := Layout(pages)
	want := []sheet.CellAssignment{
		{Column: "A", Row: 1, Value: "Página 1", Style: sheet.StylePageHeader},
		{Column: "A", Row: 2, Value: "a"},
		{Column: "A", Row: 3, Value: "b"},
		{Column: "A", Row: 5, Value: "Página 2", Style: sheet.StylePageHeader},
		{Column: "A", Row: 6, Value: "c"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Layout = %+v\nwant %+v", got, want)
	}
}

func TestLayout_RowCountProperty(t *testing.T) {
	// For pages with L_i lines, the layout spans sum(L_i + 2) rows over the
	// pages with L_i > 0, all in column A, rows strictly increasing.
	pages := []docpipe.Page{
		{Number: 1, Text: "1\n2\n3"},
		{Number: 2, Text: ""},
		{Number: 3, Text: "x"},
		{Number: 4, Text: "p\nq"},
	}
	cells := Layout(pages)

	span := 0
	headers := 0
	for _, p := range pages {
		if n := len(SplitLines(p.Text)); n > 0 {
			span += n + 2
			headers++
		}
	}
	if len(cells) != span-headers {
		t.Fatalf("cells = %d, want %d", len(cells), span-headers)
	}
	last := 0
	nextHeader := 1
	for _, c := range cells {
		if c.Column != "A" {
			t.Fatalf("cell in column %q", c.Column)
		}
		if c.Style == sheet.StylePageHeader {
			if want := "Página " + strconv.Itoa(nextHeader); c.Value != want {
				t.Fatalf("header %q, want %q", c.Value, want)
			}
			nextHeader++
		}
		if c.Row <= last {
			t.Fatalf("row %d not after %d", c.Row, last)
		}
		last = c.Row
	}
	// The last cell is followed by the trailing separator row.
	if last+1 != span {
		t.Fatalf("last row %d, span %d", last, span)
	}
}

func TestLayout_NoPages(t *testing.T) {
	if cells := Layout(nil); len(cells) != 0 {
		t.Fatalf("cells = %+v, want none", cells)
	}
}
