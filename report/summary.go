package report

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Margins are the distances in points from each page edge to the content box.
type Margins struct {
	Left, Right, Top, Bottom float64
}

// Details records what the typography check observed on the first page.
// It feeds the text and HTML exports and never the report JSON.
type Details struct {
	Fonts      []string  // distinct font names, sorted
	Sizes      []float64 // distinct sizes rounded to 0.1pt, ascending
	PageWidth  float64
	PageHeight float64
	Margins    Margins
	Backend    string // sampler that produced the glyphs
	Failed     bool   // sampling failed and every typography check failed with it
}

// Analysis is a report together with the document facts the exports print
// around it.
type Analysis struct {
	Report    Report
	File      string // path as given by the caller
	Size      int64  // bytes
	Pages     int    // zero when the page count is unknown
	Limits    map[string]int
	Details   *Details
	Generated time.Time
}

// Summary condenses a report the way the summary view shows it.
type Summary struct {
	Failed        []string // labels of failed checks, report order
	FormatIssues  []string
	ContentIssues []string
	Passed        int
	Total         int // failed plus passed; n/a is not counted
	Score         float64
	HasScore      bool
}

// Label turns a report key into its display form: "font_size" is "Font Size".
func Label(key string) string {
	// a Caser is stateful, so each call gets its own
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

// Summarize counts passed and failed checks across both report groups.
func Summarize(r Report) Summary {
	var s Summary
	tally := func(entries []Entry, issues *[]string) {
		for _, e := range entries {
			switch e.Value {
			case Fail:
				*issues = append(*issues, Label(e.Key))
			case Pass:
				s.Passed++
			}
		}
	}
	tally(r.FormatEntries(), &s.FormatIssues)
	tally(r.ContentEntries(), &s.ContentIssues)

	s.Failed = append(append([]string(nil), s.FormatIssues...), s.ContentIssues...)
	s.Total = len(s.Failed) + s.Passed
	if s.Total > 0 {
		s.HasScore = true
		s.Score = math.Round(float64(s.Passed)/float64(s.Total)*1000) / 10
	}
	return s
}

// ScoreText formats the score as "87.5%", or "N/A" without any counted check.
func (s Summary) ScoreText() string {
	if !s.HasScore {
		return "N/A"
	}
	return formatFloat(s.Score) + "%"
}
