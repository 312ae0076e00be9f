package text

import (
	"math"
	"sort"
	"strings"
)

// Line is a run of fragments sharing a baseline, in reading order
type Line struct {
	Text      string
	Y         float64
	Fragments []Fragment
}

// wordGap is the fraction of the font size a horizontal gap must exceed to
// count as a space between fragments.
const wordGap = 0.15

// AssembleLines groups consecutive fragments into lines. A fragment joins
// the current line when its baseline is within half a font size of it;
// within a line fragments are ordered left to right. Fragments without text
// still extend a line's geometry but add no characters.
func AssembleLines(frags []Fragment) []Line {
	var lines []Line
	var cur []Fragment
	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, buildLine(cur))
			cur = nil
		}
	}
	for _, f := range frags {
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			tol := 0.5 * math.Max(math.Min(prev.FontSize, f.FontSize), 1)
			if math.Abs(f.Y-prev.Y) > tol {
				flush()
			}
		}
		cur = append(cur, f)
	}
	flush()
	return lines
}

func buildLine(frags []Fragment) Line {
	sorted := append([]Fragment(nil), frags...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var b strings.Builder
	var prev *Fragment
	for i := range sorted {
		f := &sorted[i]
		if f.Text == "" {
			continue
		}
		if prev != nil && needsSpace(*prev, *f, b.String()) {
			b.WriteByte(' ')
		}
		b.WriteString(f.Text)
		prev = f
	}
	return Line{Text: b.String(), Y: frags[0].Y, Fragments: sorted}
}

func needsSpace(prev, next Fragment, sofar string) bool {
	if strings.HasSuffix(sofar, " ") || strings.HasPrefix(next.Text, " ") {
		return false
	}
	gap := next.X - (prev.X + prev.Width)
	size := math.Max(math.Min(prev.FontSize, next.FontSize), 1)
	return gap > wordGap*size
}

// PageText joins the lines of a page with newlines
func PageText(frags []Fragment) string {
	lines := AssembleLines(frags)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return strings.Join(out, "\n")
}
