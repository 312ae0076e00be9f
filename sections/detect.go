package sections

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pdfcomply/report"
)

// Section is a detected heading and the pages attributed to it.
type Section struct {
	Name      string // normalized heading text
	FirstPage int    // 0-based page where the heading first appeared
	Pages     []int  // 0-based, unique and ascending
}

// colonHeading matches "Skills:" style headings
var colonHeading = regexp.MustCompile(`^[A-Z][A-Za-z\s\-]+:$`)

// IsHeading reports whether a line of page text looks like a section
// heading: a capitalized label ending in a colon, or an all upper-case line.
func IsHeading(line string) bool {
	line = strings.TrimSpace(line)
	return colonHeading.MatchString(line) || isUpper(line)
}

// isUpper is true when the line has at least one cased letter and no
// lower-case ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// foldAccents returns a fresh transformer on every call: a chain keeps
// buffers and must not be shared between goroutines.
func foldAccents() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
}

// Normalize turns heading text into a section name: lower-cased, accents
// folded, everything but ASCII letters and spaces removed and whitespace
// collapsed. "Work Experience:" becomes "work experience" and "RÉSUMÉ"
// becomes "resume".
func Normalize(s string) string {
	folded, _, err := transform.String(foldAccents(), strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	var b strings.Builder
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Detect finds sections in the text of a document's pages, given in page
// order.
//
// The first occurrence of a heading registers a section and attributes its
// page to it; a repeated heading is ignored. Every other line attributes its
// page to the most recently registered section, which is not necessarily
// the one whose heading came last in reading order: a heading that reappears
// later in the document does not become current again.
//
// Each page ends with an empty line, as extracted page text conventionally
// does, so a page holding only headings that register nothing still belongs
// to the current section.
func Detect(pages []string) []Section {
	var out []Section
	index := map[string]int{}
	for p, text := range pages {
		for _, line := range strings.Split(text+"\n", "\n") {
			if IsHeading(line) {
				name := Normalize(line)
				if _, seen := index[name]; name != "" && !seen {
					index[name] = len(out)
					out = append(out, Section{Name: name, FirstPage: p, Pages: []int{p}})
				}
				continue
			}
			if len(out) > 0 {
				last := &out[len(out)-1]
				last.Pages = append(last.Pages, p)
			}
		}
	}
	for i := range out {
		out[i].Pages = uniqueSorted(out[i].Pages)
	}
	return out
}

func uniqueSorted(pages []int) []int {
	sort.Ints(pages)
	out := pages[:0]
	for i, p := range pages {
		if i == 0 || p != pages[i-1] {
			out = append(out, p)
		}
	}
	return out
}

// Evaluate applies page limits, keyed by normalized section name, to the
// detected sections. A section without a limit is not applicable; one with
// a limit passes when its page count does not exceed it. Limits naming
// sections that were not detected are ignored.
func Evaluate(secs []Section, limits map[string]int) []report.Section {
	out := make([]report.Section, 0, len(secs))
	for _, s := range secs {
		rs := report.Section{Name: s.Name, Pages: len(s.Pages), Status: report.NotApplicable}
		if limit, ok := limits[s.Name]; ok {
			rs.Status = report.StatusOf(rs.Pages <= limit)
		}
		out = append(out, rs)
	}
	return out
}
