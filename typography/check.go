package typography

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/pdfcomply/model"
	"github.com/tsawler/pdfcomply/report"
)

// Rules for the first page
const (
	RequiredSize    = 12.0 // points
	RequiredMargin  = 72.0 // one inch
	MarginTolerance = 5.0
)

// familyMarkers are the substrings that identify a Times font name
var familyMarkers = []string{"Times", "TimesNewRoman"}

// Glyph is one sampled glyph placement (or a run of glyphs sharing a font
// and size).
type Glyph struct {
	Font string  // font name as reported by the backend
	Size float64 // rendered size in points
	Box  model.BBox
}

// PageSample is what a backend observed on the first page.
type PageSample struct {
	Page   model.BBox // media box
	Glyphs []Glyph
}

// Result holds the three typography statuses and what they were judged on.
type Result struct {
	FontSize   report.Status
	FontFamily report.Status
	Margin     report.Status

	Fonts   []string  // distinct font names, sorted
	Sizes   []float64 // distinct sizes rounded to 0.1pt, ascending
	Page    model.BBox
	Content model.BBox // union of glyph boxes
	Margins report.Margins

	Backend string
	// Failed is set when the first page could not be sampled. All three
	// statuses are Fail then.
	Failed bool
}

// failed is the result for a first page that could not be read
func failed(backend string) Result {
	return Result{
		FontSize:   report.Fail,
		FontFamily: report.Fail,
		Margin:     report.Fail,
		Backend:    backend,
		Failed:     true,
	}
}

// RoundSize rounds a font size to one decimal place.
func RoundSize(size float64) float64 {
	return math.Round(size*10) / 10
}

// IsTimes reports whether a font name belongs to the Times family. The
// match is case-sensitive and ignores any subset prefix.
func IsTimes(fontName string) bool {
	for _, m := range familyMarkers {
		if strings.Contains(fontName, m) {
			return true
		}
	}
	return false
}

// MarginsOf measures the distance from each edge of page to content.
func MarginsOf(page, content model.BBox) report.Margins {
	return report.Margins{
		Left:   content.Left() - page.Left(),
		Right:  page.Right() - content.Right(),
		Top:    page.Top() - content.Top(),
		Bottom: content.Bottom() - page.Bottom(),
	}
}

// WithinTolerance reports whether every margin is within MarginTolerance
// of RequiredMargin.
func WithinTolerance(m report.Margins) bool {
	for _, v := range []float64{m.Left, m.Right, m.Top, m.Bottom} {
		if math.Abs(v-RequiredMargin) > MarginTolerance {
			return false
		}
	}
	return true
}

// Judge applies the typography rules to a page sample. The size rule is a
// presence check: one 12pt run anywhere on the page satisfies it. A page
// without glyphs fails all three rules.
func Judge(s PageSample) Result {
	r := Result{Page: s.Page}
	if len(s.Glyphs) == 0 {
		r.FontSize, r.FontFamily, r.Margin = report.Fail, report.Fail, report.Fail
		return r
	}

	fonts := map[string]bool{}
	sizes := map[float64]bool{}
	for _, g := range s.Glyphs {
		fonts[g.Font] = true
		sizes[RoundSize(g.Size)] = true
		r.Content = r.Content.Union(g.Box)
	}
	for f := range fonts {
		r.Fonts = append(r.Fonts, f)
	}
	sort.Strings(r.Fonts)
	for sz := range sizes {
		r.Sizes = append(r.Sizes, sz)
	}
	sort.Float64s(r.Sizes)

	r.FontSize = report.StatusOf(sizes[RequiredSize])

	r.FontFamily = report.Fail
	for _, f := range r.Fonts {
		if IsTimes(f) {
			r.FontFamily = report.Pass
			break
		}
	}

	r.Margins = MarginsOf(s.Page, r.Content)
	r.Margin = report.StatusOf(!r.Content.IsEmpty() && WithinTolerance(r.Margins))
	return r
}

// Details converts the result for the exporters.
func (r Result) Details() *report.Details {
	return &report.Details{
		Fonts:      r.Fonts,
		Sizes:      r.Sizes,
		PageWidth:  r.Page.Width,
		PageHeight: r.Page.Height,
		Margins:    r.Margins,
		Backend:    r.Backend,
		Failed:     r.Failed,
	}
}
