package docpipe

// Page is the text of one PDF page. Lines are separated by '\n' in reading
// order (top to bottom, left to right).
type Page struct {
	Number int    `json:"number"` // 1-based, document order
	Text   string `json:"text"`
}

// Document is the result of extracting text from a PDF buffer.
type Document struct {
	Pages   []Page             `json:"pages"` // every page, including pages without text
	Backend string             `json:"backend"`
	Quality *ExtractionQuality `json:"quality,omitempty"`
}

// TextPages returns the number of pages that produced non-blank text.
func (d *Document) TextPages() int {
	n := 0
	for _, p := range d.Pages {
		if !isBlank(p.Text) {
			n++
		}
	}
	return n
}
