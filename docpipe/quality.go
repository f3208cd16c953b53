package docpipe

import (
	"strings"
	"unicode"
)

// ExtractionQuality captures metrics about PDF text extraction quality.
// It is informational: a low score never fails a conversion.
type ExtractionQuality struct {
	PageCount       int     `json:"page_count"`
	TextPages       int     `json:"text_pages"`
	CharsPerPage    float64 `json:"chars_per_page"`
	PrintableRatio  float64 `json:"printable_ratio"`
	WordlikeRatio   float64 `json:"wordlike_ratio"`
	HasImageStreams bool    `json:"has_image_streams"`
}

// NeedsOCR returns true if the PDF likely holds scanned pages whose text
// cannot be recovered without OCR.
func (q *ExtractionQuality) NeedsOCR() bool {
	return (q.CharsPerPage < 50 && q.HasImageStreams) || q.PrintableRatio < 0.85
}

// observe fills the text-derived metrics from the extracted pages.
func (q *ExtractionQuality) observe(pages []Page) {
	var all strings.Builder
	totalChars := 0
	q.TextPages = 0
	for _, p := range pages {
		if isBlank(p.Text) {
			continue
		}
		q.TextPages++
		totalChars += len([]rune(p.Text))
		if all.Len() > 0 {
			all.WriteByte('\n')
		}
		all.WriteString(p.Text)
	}
	if q.PageCount == 0 {
		q.PageCount = len(pages)
	}
	if q.PageCount > 0 {
		q.CharsPerPage = float64(totalChars) / float64(q.PageCount)
	}
	text := all.String()
	q.PrintableRatio = computePrintableRatio(text)
	q.WordlikeRatio = computeWordlikeRatio(text)
}

// computePrintableRatio returns the ratio of printable characters in text.
// Excludes PUA U+E000-U+F8FF, control chars < U+0020 (except \n\r\t), U+FFFD.
func computePrintableRatio(text string) float64 {
	total := 0
	printable := 0
	for _, r := range text {
		total++
		if isGarbageRune(r) {
			continue
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(printable) / float64(total)
}

func isGarbageRune(r rune) bool {
	switch {
	case r >= 0xE000 && r <= 0xF8FF:
		return true
	case r == 0xFFFD:
		return true
	case r < 0x0020 && r != '\n' && r != '\r' && r != '\t':
		return true
	}
	return false
}

// computeWordlikeRatio returns the ratio of word-like tokens (length 2-15) to total tokens.
func computeWordlikeRatio(text string) float64 {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0
	}
	wordlike := 0
	for _, f := range fields {
		n := len([]rune(f))
		if n >= 2 && n <= 15 {
			wordlike++
		}
	}
	return float64(wordlike) / float64(len(fields))
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
