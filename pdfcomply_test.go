package pdfcomply

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/tsawler/pdfcomply/internal/testpdf"
	"github.com/tsawler/pdfcomply/limits"
	"github.com/tsawler/pdfcomply/report"
)

func marshal(t *testing.T, r report.Report) string {
	t.Helper()
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestAnalyzeResume(t *testing.T) {
	path := testpdf.WriteFile(t, "resume.pdf", testpdf.Resume())
	rep, err := Analyze(context.Background(), path, map[string]int{"summary": 2, "skills": 1})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"format":{"file_type":"pass","font_size":"pass","font_family":"pass","margin":"pass"},` +
		`"content":{"summary_pages":3,"summary":"fail","skills_pages":1,"skills":"pass"}}`
	if got := marshal(t, rep); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestAnalyzeEncryptedResume(t *testing.T) {
	want := `{"format":{"file_type":"pass","font_size":"pass","font_family":"pass","margin":"pass"},` +
		`"content":{"summary_pages":3,"summary":"fail","skills_pages":1,"skills":"pass"}}`
	for _, aes := range []bool{true, false} {
		locked := testpdf.Encrypt(t, testpdf.Resume().Bytes(), "", aes)
		path := testpdf.WriteBytes(t, "locked.pdf", locked)
		rep, err := Analyze(context.Background(), path, map[string]int{"summary": 2, "skills": 1})
		if err != nil {
			t.Fatal(err)
		}
		if got := marshal(t, rep); got != want {
			t.Errorf("aes=%v:\ngot  %s\nwant %s", aes, got, want)
		}
	}
}

func TestAnalyzeConcurrent(t *testing.T) {
	path := testpdf.WriteFile(t, "resume.pdf", testpdf.Resume())
	want, err := Analyze(context.Background(), path, map[string]int{"summary": 2})
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Analyze(context.Background(), path, map[string]int{"summary": 2})
			if err == nil && !reflect.DeepEqual(got, want) {
				err = fmt.Errorf("report = %+v, want %+v", got, want)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Error(err)
		}
	}
}

func TestAnalyzeCorruptedFile(t *testing.T) {
	inputs := map[string][]byte{
		"text":      []byte("definitely not a PDF"),
		"truncated": testpdf.Resume().Bytes()[:40],
		"empty":     {},
	}
	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			path := testpdf.WriteBytes(t, "broken.pdf", data)
			rep, err := Analyze(context.Background(), path, map[string]int{"summary": 1})
			if err != nil {
				t.Fatal(err)
			}
			if got, want := marshal(t, rep), `{"format":{"file_type":"fail"},"content":{}}`; got != want {
				t.Errorf("got %s, want %s", got, want)
			}
		})
	}
}

func TestAnalyzeWithoutHeadings(t *testing.T) {
	path := testpdf.WriteFile(t, "plain.pdf", testpdf.Doc{Pages: []testpdf.Page{
		testpdf.CompliantPage("Just a letter with no section headings."),
		testpdf.TextPage("Kind regards,", "Jane"),
	}})
	for _, lim := range []map[string]int{nil, {"summary": 1}} {
		rep, err := Analyze(context.Background(), path, lim)
		if err != nil {
			t.Fatal(err)
		}
		if len(rep.Content) != 0 {
			t.Errorf("limits %v: content = %+v, want empty", lim, rep.Content)
		}
		if !rep.Valid() {
			t.Errorf("format = %+v", rep.Format)
		}
	}
}

func TestLimitsOnlyChangeStatuses(t *testing.T) {
	path := testpdf.WriteFile(t, "resume.pdf", testpdf.Resume())
	counts := func(r report.Report) []int {
		var out []int
		for _, s := range r.Content {
			out = append(out, s.Pages)
		}
		return out
	}

	none, err := Analyze(context.Background(), path, nil)
	if err != nil {
		t.Fatal(err)
	}
	strict, err := Analyze(context.Background(), path, map[string]int{"summary": 1, "skills": 1})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(counts(none), counts(strict)) {
		t.Errorf("page counts differ: %v vs %v", counts(none), counts(strict))
	}
	for _, s := range none.Content {
		if s.Status != report.NotApplicable {
			t.Errorf("%s: %v without limits", s.Name, s.Status)
		}
	}
	if s, _ := strict.Section("summary"); s.Status != report.Fail {
		t.Errorf("summary = %v, want fail", s.Status)
	}
}

func TestAnalyzeTypographyFailures(t *testing.T) {
	texts := testpdf.Column(740, "SUMMARY", "Engineer.")
	for i := range texts {
		texts[i].X = 40
		texts[i].Font = "F2"
		texts[i].Size = 10
	}
	path := testpdf.WriteFile(t, "sloppy.pdf", testpdf.Doc{Pages: []testpdf.Page{{Texts: texts}}})

	rep, err := Analyze(context.Background(), path, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := report.Format{FileType: report.Pass, FontSize: report.Fail, FontFamily: report.Fail, Margin: report.Fail}
	if rep.Format != want {
		t.Errorf("format = %+v, want %+v", rep.Format, want)
	}
	if s, ok := rep.Section("summary"); !ok || s.Pages != 1 {
		t.Errorf("summary section = %+v, %v", s, ok)
	}
}

func TestAnalyzeMissingFile(t *testing.T) {
	_, err := Analyze(context.Background(), filepath.Join(t.TempDir(), "gone.pdf"), nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
	if _, err := Analyze(context.Background(), "", nil); !errors.Is(err, ErrNoFile) {
		t.Errorf("err = %v, want ErrNoFile", err)
	}
	if _, err := Analyze(context.Background(), t.TempDir(), nil); err == nil {
		t.Error("a directory should not be analyzed")
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	path := testpdf.WriteFile(t, "resume.pdf", testpdf.Resume())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Analyze(ctx, path, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestAnalyzerFluent(t *testing.T) {
	path := testpdf.WriteFile(t, "resume.pdf", testpdf.Resume())
	at := time.Date(2024, 1, 31, 9, 45, 0, 0, time.UTC)
	base := Open(path).withClock(func() time.Time { return at })

	t.Run("preset", func(t *testing.T) {
		a, err := base.Preset("resume").Analyze()
		if err != nil {
			t.Fatal(err)
		}
		summary, _ := a.Report.Section("summary")
		skills, _ := a.Report.Section("skills")
		if summary.Status != report.Fail || skills.Status != report.Pass {
			t.Errorf("summary %v, skills %v", summary.Status, skills.Status)
		}
		if a.Limits["experience"] != 3 {
			t.Errorf("limits = %v", a.Limits)
		}
	})

	t.Run("limits override preset", func(t *testing.T) {
		a, err := base.Preset("resume").Limits(map[string]int{"Summary": 3}).Analyze()
		if err != nil {
			t.Fatal(err)
		}
		if s, _ := a.Report.Section("summary"); s.Status != report.Pass {
			t.Errorf("summary = %v, want pass", s.Status)
		}
	})

	t.Run("configuration does not leak", func(t *testing.T) {
		_ = base.Limits(map[string]int{"summary": 1})
		a, err := base.Analyze()
		if err != nil {
			t.Fatal(err)
		}
		for _, s := range a.Report.Content {
			if s.Status != report.NotApplicable {
				t.Errorf("%s = %v, want n/a", s.Name, s.Status)
			}
		}
	})

	t.Run("analysis facts", func(t *testing.T) {
		a, err := base.Analyze()
		if err != nil {
			t.Fatal(err)
		}
		info, _ := os.Stat(path)
		if a.Pages != 4 || a.Size != info.Size() || !a.Generated.Equal(at) || a.File != path {
			t.Errorf("analysis = %+v", a)
		}
		if a.Details == nil || !reflect.DeepEqual(a.Details.Fonts, []string{"Times-Roman"}) {
			t.Errorf("details = %+v", a.Details)
		}
	})

	t.Run("invalid limit", func(t *testing.T) {
		_, err := base.Limits(map[string]int{"skills": 0}).Analyze()
		if !errors.Is(err, limits.ErrInvalidLimit) {
			t.Errorf("err = %v, want ErrInvalidLimit", err)
		}
	})

	t.Run("unknown preset", func(t *testing.T) {
		if _, err := base.Preset("thesis").Report(); err == nil {
			t.Error("unknown preset should fail")
		}
	})
}

func TestMust(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Must did not panic")
		}
	}()
	Must(Analyze(context.Background(), "", nil))
}
