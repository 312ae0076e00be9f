package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Kind selects an export format.
type Kind int

const (
	KindJSON Kind = iota
	KindText
	KindHTML
)

// String returns the name used on the command line.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindHTML:
		return "html"
	}
	return "json"
}

// ParseKind parses an export format name.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(name) {
	case "json":
		return KindJSON, nil
	case "text", "txt":
		return KindText, nil
	case "html":
		return KindHTML, nil
	}
	return KindJSON, fmt.Errorf("unknown export format %q", name)
}

const (
	timestampLayout = "20060102_150405"
	generatedLayout = "2006-01-02 15:04:05"
)

// ExportName builds the download name for an export of file, e.g.
// "resume_analysis_20240131_094500.json".
func ExportName(file string, kind Kind, at time.Time) string {
	base := filepath.Base(file)
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	stamp := at.Format(timestampLayout)
	switch kind {
	case KindText:
		return base + "_summary_" + stamp + ".txt"
	case KindHTML:
		return base + "_report_" + stamp + ".html"
	}
	return base + "_analysis_" + stamp + ".json"
}

// Export writes a in the given format.
func Export(w io.Writer, a *Analysis, kind Kind) error {
	switch kind {
	case KindText:
		return WriteText(w, a)
	case KindHTML:
		return WriteHTML(w, a)
	}
	return WriteJSON(w, a.Report)
}

// WriteJSON writes the report indented by two spaces.
func WriteJSON(w io.Writer, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteText writes the plain text summary report.
func WriteText(w io.Writer, a *Analysis) error {
	body, err := json.MarshalIndent(a.Report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	sum := Summarize(a.Report)

	var b bytes.Buffer
	b.WriteString("PDF Compliance Analysis Report\n")
	fmt.Fprintf(&b, "Generated: %s\n", a.Generated.Format(generatedLayout))
	fmt.Fprintf(&b, "File: %s\n", filepath.Base(a.File))
	fmt.Fprintf(&b, "Size: %.2f MB\n", megabytes(a.Size))
	b.WriteString("\nAnalysis Configuration:\n")
	fmt.Fprintf(&b, "- Section Limits: %s\n", limitsText(a.Limits))
	fmt.Fprintf(&b, "- Total Pages: %s\n", pagesText(a.Pages))
	fmt.Fprintf(&b, "- Compliance Score: %s\n", sum.ScoreText())
	fmt.Fprintf(&b, "- Issues Found: %d\n", len(sum.Failed))
	fmt.Fprintf(&b, "- Checks Passed: %d\n", sum.Passed)

	if d := a.Details; d != nil && !d.Failed {
		b.WriteString("\nFirst Page Typography:\n")
		fmt.Fprintf(&b, "- Fonts: %s\n", strings.Join(d.Fonts, ", "))
		fmt.Fprintf(&b, "- Sizes: %s\n", sizesText(d.Sizes))
		fmt.Fprintf(&b, "- Margins: %s\n", marginsText(d.Margins))
	}

	b.WriteString("\nResults Summary:\n")
	b.Write(body)
	b.WriteByte('\n')
	_, err = w.Write(b.Bytes())
	return err
}

// WriteHTML writes a standalone HTML document with the format and content
// tables and the summary figures.
func WriteHTML(w io.Writer, a *Analysis) error {
	sum := Summarize(a.Report)
	title := "PDF Compliance Analysis: " + filepath.Base(a.File)

	body := elem(atom.Body, nil,
		elem(atom.H1, nil, text(title)),
		elem(atom.P, nil, text("Generated: "+a.Generated.Format(generatedLayout))),
		elem(atom.Ul, nil,
			elem(atom.Li, nil, text("Total Pages: "+pagesText(a.Pages))),
			elem(atom.Li, nil, text("Compliance Score: "+sum.ScoreText())),
			elem(atom.Li, nil, text("Issues Found: "+strconv.Itoa(len(sum.Failed)))),
			elem(atom.Li, nil, text("Checks Passed: "+strconv.Itoa(sum.Passed))),
		),
		elem(atom.H2, nil, text("Format")),
		entryTable(a.Report.FormatEntries()),
		elem(atom.H2, nil, text("Content")),
	)
	if len(a.Report.Content) == 0 {
		body.AppendChild(elem(atom.P, nil, text("No sections detected.")))
	} else {
		body.AppendChild(sectionTable(a.Report.Content))
	}
	if d := a.Details; d != nil && !d.Failed {
		body.AppendChild(elem(atom.H2, nil, text("First Page Typography")))
		body.AppendChild(elem(atom.Ul, nil,
			elem(atom.Li, nil, text("Fonts: "+strings.Join(d.Fonts, ", "))),
			elem(atom.Li, nil, text("Sizes: "+sizesText(d.Sizes))),
			elem(atom.Li, nil, text("Margins: "+marginsText(d.Margins))),
		))
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(elem(atom.Html, []html.Attribute{{Key: "lang", Val: "en"}},
		elem(atom.Head, nil,
			elem(atom.Meta, []html.Attribute{{Key: "charset", Val: "utf-8"}}),
			elem(atom.Title, nil, text(title)),
			elem(atom.Style, nil, text(stylesheet)),
		),
		body,
	))
	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

const stylesheet = `table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:4px 8px}` +
	`.pass{color:#1a7f37}.fail{color:#cf222e}.na{color:#6e7781}`

func entryTable(entries []Entry) *html.Node {
	table := elem(atom.Table, nil, headerRow("Check", "Result"))
	for _, e := range entries {
		s := e.Value.(Status)
		table.AppendChild(elem(atom.Tr, nil,
			elem(atom.Td, nil, text(Label(e.Key))),
			statusCell(s),
		))
	}
	return table
}

func sectionTable(sections []Section) *html.Node {
	table := elem(atom.Table, nil, headerRow("Section", "Pages", "Result"))
	for _, s := range sections {
		table.AppendChild(elem(atom.Tr, nil,
			elem(atom.Td, nil, text(Label(s.Key()))),
			elem(atom.Td, nil, text(strconv.Itoa(s.Pages))),
			statusCell(s.Status),
		))
	}
	return table
}

func headerRow(cols ...string) *html.Node {
	tr := elem(atom.Tr, nil)
	for _, c := range cols {
		tr.AppendChild(elem(atom.Th, nil, text(c)))
	}
	return tr
}

func statusCell(s Status) *html.Node {
	class := s.String()
	if s == NotApplicable {
		class = "na"
	}
	return elem(atom.Td, []html.Attribute{{Key: "class", Val: class}}, text(s.String()))
}

func elem(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func megabytes(n int64) float64 {
	return float64(n) / (1024 * 1024)
}

func pagesText(n int) string {
	if n <= 0 {
		return "N/A"
	}
	return strconv.Itoa(n)
}

func limitsText(limits map[string]int) string {
	if len(limits) == 0 {
		return "none"
	}
	names := make([]string, 0, len(limits))
	for name := range limits {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, limits[name])
	}
	return strings.Join(parts, ", ")
}

func sizesText(sizes []float64) string {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = formatFloat(s)
	}
	return strings.Join(parts, ", ")
}

func marginsText(m Margins) string {
	return fmt.Sprintf("left %s, right %s, top %s, bottom %s",
		formatFloat(m.Left), formatFloat(m.Right), formatFloat(m.Top), formatFloat(m.Bottom))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}
