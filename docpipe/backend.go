package docpipe

import (
	"bytes"
	"fmt"

	dpdf "github.com/dslipak/pdf"
	lpdf "github.com/ledongthuc/pdf"
)

// Backend names accepted in Config.Backends.
const (
	BackendLedongthuc = "ledongthuc"
	BackendDslipak    = "dslipak"
)

// glyph is one positioned run of text as reported by a backend, in PDF user
// space (origin bottom-left, y grows upward).
type glyph struct {
	X, Y     float64
	W        float64
	FontSize float64
	S        string
}

// pageSource is an opened document able to yield the glyphs of a page.
type pageSource interface {
	NumPage() int
	Glyphs(n int) ([]glyph, error)
}

var backends = map[string]func([]byte) (pageSource, error){
	BackendLedongthuc: openLedongthuc,
	BackendDslipak:    openDslipak,
}

// Both libraries panic on some malformed content streams; every call into
// them goes through guard.
func guard(op string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: malformed pdf: %v", op, r)
	}
}

// --- ledongthuc/pdf ---

type ledongthucSource struct {
	r *lpdf.Reader
}

func openLedongthuc(data []byte) (src pageSource, err error) {
	defer guard("ledongthuc open", &err)
	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &ledongthucSource{r: r}, nil
}

func (s *ledongthucSource) NumPage() int { return s.r.NumPage() }

func (s *ledongthucSource) Glyphs(n int) (out []glyph, err error) {
	defer guard("ledongthuc content", &err)
	page := s.r.Page(n)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d not found", n)
	}
	if page.V.Key("Contents").IsNull() {
		return nil, nil
	}
	for _, t := range page.Content().Text {
		out = append(out, glyph{X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize, S: t.S})
	}
	return out, nil
}

// --- dslipak/pdf ---

type dslipakSource struct {
	r *dpdf.Reader
}

func openDslipak(data []byte) (src pageSource, err error) {
	defer guard("dslipak open", &err)
	r, err := dpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &dslipakSource{r: r}, nil
}

func (s *dslipakSource) NumPage() int { return s.r.NumPage() }

func (s *dslipakSource) Glyphs(n int) (out []glyph, err error) {
	defer guard("dslipak content", &err)
	page := s.r.Page(n)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d not found", n)
	}
	if page.V.Key("Contents").IsNull() {
		return nil, nil
	}
	for _, t := range page.Content().Text {
		out = append(out, glyph{X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize, S: t.S})
	}
	return out, nil
}
