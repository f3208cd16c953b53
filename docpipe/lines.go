package docpipe

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// buildLines groups glyphs sharing a baseline into lines, top to bottom, and
// orders each line left to right. Lines are joined with '\n'. Whitespace is
// preserved; trimming is the caller's business.
func buildLines(glyphs []glyph) string {
	if len(glyphs) == 0 {
		return ""
	}

	gs := make([]glyph, len(glyphs))
	copy(gs, glyphs)
	// Stable: glyphs on the same baseline keep content-stream order, which
	// matters for fonts without /Widths where every glyph reports the same X.
	sort.SliceStable(gs, func(i, j int) bool { return gs[i].Y > gs[j].Y })

	var lines []string
	var cur []glyph
	for _, g := range gs {
		if len(cur) > 0 && !sameBaseline(cur[0], g) {
			lines = append(lines, joinLine(cur))
			cur = cur[:0]
		}
		cur = append(cur, g)
	}
	if len(cur) > 0 {
		lines = append(lines, joinLine(cur))
	}
	return strings.Join(lines, "\n")
}

func sameBaseline(a, b glyph) bool {
	size := math.Max(math.Abs(a.FontSize), math.Abs(b.FontSize))
	tol := math.Max(1, 0.3*size)
	return math.Abs(a.Y-b.Y) <= tol
}

func joinLine(line []glyph) string {
	gs := make([]glyph, len(line))
	copy(gs, line)
	sort.SliceStable(gs, func(i, j int) bool { return gs[i].X < gs[j].X })

	var sb strings.Builder
	for i, g := range gs {
		if i > 0 && gapBetween(gs[i-1], g) {
			sb.WriteByte(' ')
		}
		sb.WriteString(g.S)
	}
	return norm.NFC.String(sb.String())
}

// gapBetween reports whether a word break separates prev and next. Only
// backends that measured glyph widths can tell; without widths the content
// stream's own spaces are all we have.
func gapBetween(prev, next glyph) bool {
	if prev.W <= 0 {
		return false
	}
	if strings.HasSuffix(prev.S, " ") || strings.HasPrefix(next.S, " ") {
		return false
	}
	size := math.Max(math.Abs(prev.FontSize), 1)
	return next.X-(prev.X+prev.W) > 0.2*size
}
