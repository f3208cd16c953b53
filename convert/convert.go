// Package convert turns an uploaded PDF into an XLSX workbook holding one
// line of text per row.
//
// The Converter is a linear pipeline: validate, extract, lay out, write.
// Extraction and writing sit behind TextExtractor and SpreadsheetWriter so
// the layout can be exercised without real PDFs or workbooks.
package convert

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hazyhaar/pdfsheet/docpipe"
	"github.com/hazyhaar/pdfsheet/kit"
	"github.com/hazyhaar/pdfsheet/sheet"
)

// TextExtractor reads the pages of a document, in page order.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (*docpipe.Document, error)
}

// SpreadsheetWriter serializes a sheet layout.
type SpreadsheetWriter interface {
	Write(ctx context.Context, layout sheet.Layout) ([]byte, error)
}

// UploadedDocument is one uploaded file.
type UploadedDocument struct {
	Filename string
	Data     []byte
}

// Result is a generated workbook ready to be sent back.
type Result struct {
	Filename       string
	ContentType    string
	Data           []byte
	Pages          int // pages in the source document
	PagesConverted int // pages that produced at least one line
	Cells          int
}

// Options tunes the Converter. Zero values take the defaults below.
type Options struct {
	SheetName   string  // default "PDF_Content"
	ColumnWidth float64 // width of column A, default 100
	Suffix      string  // appended to the input base name, default "_converted"
	Logger      *slog.Logger
}

const (
	// AcceptedExtension is the required (case-insensitive) input suffix.
	AcceptedExtension = ".pdf"

	DefaultSheetName   = "PDF_Content"
	DefaultColumnWidth = 100
	DefaultSuffix      = "_converted"
)

func (o *Options) defaults() {
	if o.SheetName == "" {
		o.SheetName = DefaultSheetName
	}
	if o.ColumnWidth <= 0 {
		o.ColumnWidth = DefaultColumnWidth
	}
	if o.Suffix == "" {
		o.Suffix = DefaultSuffix
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Converter runs conversions. It keeps no per-request state and is safe for
// concurrent use.
type Converter struct {
	extractor TextExtractor
	writer    SpreadsheetWriter
	opts      Options
}

// New creates a Converter.
func New(extractor TextExtractor, writer SpreadsheetWriter, opts Options) *Converter {
	opts.defaults()
	return &Converter{extractor: extractor, writer: writer, opts: opts}
}

// Validate checks that doc is present and carries a PDF filename.
func Validate(doc *UploadedDocument) error {
	if doc == nil {
		return missingFile()
	}
	if doc.Filename == "" || !strings.HasSuffix(strings.ToLower(doc.Filename), AcceptedExtension) {
		return wrongExtension()
	}
	return nil
}

// OutputName derives the workbook name: extension stripped, suffix and
// ".xlsx" appended. "report.PDF" becomes "report_converted.xlsx". Leading
// dots do not start an extension, so ".pdf" becomes ".pdf_converted.xlsx".
func (c *Converter) OutputName(filename string) string {
	return stem(filename) + c.opts.Suffix + sheet.Extension
}

// stem drops the last extension of name. A dot only starts an extension
// when something other than dots precedes it.
func stem(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || strings.Trim(name[:i], ".") == "" {
		return name
	}
	return name[:i]
}

// Convert validates doc and produces its workbook. It returns a
// *ValidationError for unusable input and a *ConversionError when
// extraction or writing fails. No partial result is ever returned.
func (c *Converter) Convert(ctx context.Context, doc *UploadedDocument) (*Result, error) {
	logger := kit.Logger(ctx, c.opts.Logger)

	if err := Validate(doc); err != nil {
		logger.Warn("conversion rejected", "error", err)
		return nil, err
	}

	extracted, err := c.extractor.Extract(ctx, doc.Data)
	if err != nil {
		logger.Error("extraction failed", "file", doc.Filename, "error", err)
		return nil, &ConversionError{Stage: "extract", Err: err}
	}

	cells := Layout(extracted.Pages)
	converted := pagesWithLines(cells)
	if converted == 0 && extracted.Quality != nil {
		logger.Warn("no text extracted", "file", doc.Filename,
			"pages", len(extracted.Pages), "needs_ocr", extracted.Quality.NeedsOCR())
	}

	data, err := c.writer.Write(ctx, sheet.Layout{
		SheetName:    c.opts.SheetName,
		ColumnWidths: map[string]float64{Column: c.opts.ColumnWidth},
		Cells:        cells,
	})
	if err != nil {
		logger.Error("spreadsheet write failed", "file", doc.Filename, "error", err)
		return nil, &ConversionError{Stage: "write", Err: err}
	}

	res := &Result{
		Filename:       c.OutputName(doc.Filename),
		ContentType:    sheet.ContentType,
		Data:           data,
		Pages:          len(extracted.Pages),
		PagesConverted: converted,
		Cells:          len(cells),
	}
	logger.Info("pdf converted", "file", doc.Filename, "output", res.Filename,
		"backend", extracted.Backend, "pages", res.Pages, "pages_converted", converted,
		"cells", res.Cells, "bytes", len(data))
	return res, nil
}

func pagesWithLines(cells []sheet.CellAssignment) int {
	n := 0
	for _, c := range cells {
		if c.Style == sheet.StylePageHeader {
			n++
		}
	}
	return n
}
