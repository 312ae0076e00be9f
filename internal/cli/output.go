package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tsawler/pdfcomply/report"
)

type styles struct {
	title lipgloss.Style // bold headers
	dim   lipgloss.Style // labels and metadata
	pass  lipgloss.Style
	fail  lipgloss.Style
	na    lipgloss.Style
	box   lipgloss.Style // summary box with rounded border
}

// newStyles binds the styles to w, so colors are dropped when w is not a
// terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")),
		dim: r.NewStyle().
			Foreground(lipgloss.Color("240")),
		pass: r.NewStyle().
			Foreground(lipgloss.Color("42")),
		fail: r.NewStyle().
			Foreground(lipgloss.Color("196")),
		na: r.NewStyle().
			Foreground(lipgloss.Color("244")),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1),
	}
}

func (s styles) status(st report.Status) string {
	switch st {
	case report.Pass:
		return s.pass.Render("✓ pass")
	case report.Fail:
		return s.fail.Render("✗ fail")
	}
	return s.na.Render("- n/a")
}

// renderSummary prints the analysis the way the summary tab showed it: the
// totals in a box, then every check with its status.
func renderSummary(w io.Writer, a *report.Analysis) error {
	s := newStyles(w)
	sum := report.Summarize(a.Report)

	pages := "N/A"
	if a.Pages > 0 {
		pages = fmt.Sprint(a.Pages)
	}
	box := fmt.Sprintf("%s\n%s %s  %s %.2f MB\n%s %s\n%s %s\n%s %d\n%s %d",
		s.title.Render("PDF Compliance Analysis"),
		s.dim.Render("File:"), filepath.Base(a.File),
		s.dim.Render("Size:"), float64(a.Size)/(1024*1024),
		s.dim.Render("Total Pages:"), pages,
		s.dim.Render("Compliance Score:"), sum.ScoreText(),
		s.dim.Render("Issues Found:"), len(sum.Failed),
		s.dim.Render("Checks Passed:"), sum.Passed,
	)

	var b strings.Builder
	b.WriteString(s.box.Render(box))
	b.WriteString("\n\n")

	b.WriteString(s.title.Render("Format") + "\n")
	for _, e := range a.Report.FormatEntries() {
		st, _ := e.Value.(report.Status)
		fmt.Fprintf(&b, "  %-12s %s\n", report.Label(e.Key), s.status(st))
	}

	b.WriteString("\n" + s.title.Render("Sections") + "\n")
	if len(a.Report.Content) == 0 {
		b.WriteString(s.dim.Render("  No sections detected.") + "\n")
	}
	for _, sec := range a.Report.Content {
		limit := ""
		if n, ok := a.Limits[sec.Name]; ok {
			limit = fmt.Sprintf(" of %d", n)
		}
		fmt.Fprintf(&b, "  %-20s %s %s\n",
			report.Label(sec.Key()),
			s.dim.Render(fmt.Sprintf("%d page(s)%s", sec.Pages, limit)),
			s.status(sec.Status))
	}

	if len(sum.Failed) > 0 {
		b.WriteString("\n" + s.fail.Render("Failed: "+strings.Join(sum.Failed, ", ")) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
