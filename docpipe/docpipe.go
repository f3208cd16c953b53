// Package docpipe extracts per-page text from PDF documents held in memory.
//
// Extraction runs in two steps:
//   - preflight: pdfcpu parses and validates the cross-reference structure,
//     counts pages and looks for image streams (scanned documents)
//   - text: a glyph backend (ledongthuc/pdf, falling back to dslipak/pdf)
//     reads each page's content stream; glyphs are grouped into lines by
//     baseline and ordered left to right
//
// Nothing touches the filesystem: input and output live in the caller's buffers.
//
// Usage:
//
//	pipe := docpipe.New(docpipe.Config{Preflight: true})
//	doc, err := pipe.Extract(ctx, data)
//	for _, p := range doc.Pages {
//	    fmt.Println(p.Number, p.Text)
//	}
package docpipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrEmptyDocument is returned when the input buffer holds no bytes.
var ErrEmptyDocument = errors.New("docpipe: empty document")

// ErrTooLarge is returned when the input exceeds Config.MaxFileSize.
var ErrTooLarge = errors.New("docpipe: document too large")

// Pipeline is the PDF text extraction engine. It holds no per-document
// state and is safe for concurrent use.
type Pipeline struct {
	cfg     Config
	logger  *slog.Logger
	inspect func([]byte) (*ExtractionQuality, error)
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:     cfg,
		logger:  cfg.Logger,
		inspect: inspectPDF,
	}
}

// Extract reads every page of the PDF in data, in page order. Pages without
// extractable text are kept with an empty Text so page numbers stay aligned
// with the source document. A failure on any page aborts the extraction.
//
// Preflight is advisory: when pdfcpu rejects the document a warning is
// logged and the text backends decide on their own.
func (p *Pipeline) Extract(ctx context.Context, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}
	if int64(len(data)) > p.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(data), p.cfg.MaxFileSize)
	}

	var quality *ExtractionQuality
	if p.cfg.Preflight {
		q, err := p.inspect(data)
		if err != nil {
			p.logger.Warn("pdf preflight failed, trying text backends", "error", err)
		} else {
			quality = q
		}
	}

	src, backend, err := p.open(data)
	if err != nil {
		return nil, err
	}

	count := src.NumPage()
	if quality != nil && quality.PageCount != count {
		p.logger.Warn("page count mismatch", "pdfcpu", quality.PageCount, "backend", backend, "pages", count)
	}
	p.logger.Debug("extracting pdf", "backend", backend, "pages", count, "bytes", len(data))

	pages := make([]Page, 0, count)
	for n := 1; n <= count; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		glyphs, err := src.Glyphs(n)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", n, err)
		}
		pages = append(pages, Page{Number: n, Text: buildLines(glyphs)})
	}

	if quality == nil {
		quality = &ExtractionQuality{PageCount: count}
	}
	quality.observe(pages)

	return &Document{
		Pages:   pages,
		Backend: backend,
		Quality: quality,
	}, nil
}

// open returns the first configured backend able to parse data.
func (p *Pipeline) open(data []byte) (pageSource, string, error) {
	var errs []error
	for _, name := range p.cfg.Backends {
		opener, ok := backends[name]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown backend %q", name))
			continue
		}
		src, err := opener(data)
		if err == nil {
			return src, name, nil
		}
		p.logger.Debug("backend rejected pdf", "backend", name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	return nil, "", fmt.Errorf("open pdf: %w", errors.Join(errs...))
}

// SupportedBackends returns the names accepted in Config.Backends.
func SupportedBackends() []string {
	return []string{BackendLedongthuc, BackendDslipak}
}
