package typography

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdfcomply/internal/testpdf"
	"github.com/tsawler/pdfcomply/model"
	"github.com/tsawler/pdfcomply/report"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var letterPage = model.NewBBox(0, 0, 612, 792)

// box places a content box with the given margins on a Letter page
func box(left, right, top, bottom float64) model.BBox {
	return model.NewBBox(left, bottom, 612-left-right, 792-top-bottom)
}

func TestJudge(t *testing.T) {
	tests := []struct {
		name   string
		glyphs []Glyph
		want   [3]report.Status // size, family, margin
	}{
		{
			name:   "compliant",
			glyphs: []Glyph{{Font: "ABCDEF+TimesNewRomanPSMT", Size: 12, Box: box(72, 72, 72, 72)}},
			want:   [3]report.Status{report.Pass, report.Pass, report.Pass},
		},
		{
			name: "one 12pt run is enough",
			glyphs: []Glyph{
				{Font: "Arial", Size: 10, Box: box(72, 72, 72, 100)},
				{Font: "Times-Bold", Size: 12.04, Box: box(300, 200, 400, 72)},
			},
			want: [3]report.Status{report.Pass, report.Pass, report.Pass},
		},
		{
			name:   "size rounds to one decimal",
			glyphs: []Glyph{{Font: "Times-Roman", Size: 11.96, Box: box(72, 72, 72, 72)}},
			want:   [3]report.Status{report.Pass, report.Pass, report.Pass},
		},
		{
			name:   "11.9pt fails",
			glyphs: []Glyph{{Font: "Times-Roman", Size: 11.9, Box: box(72, 72, 72, 72)}},
			want:   [3]report.Status{report.Fail, report.Pass, report.Pass},
		},
		{
			name:   "family match is case sensitive",
			glyphs: []Glyph{{Font: "times-roman", Size: 12, Box: box(72, 72, 72, 72)}},
			want:   [3]report.Status{report.Pass, report.Fail, report.Pass},
		},
		{
			name:   "left margin of 66pt",
			glyphs: []Glyph{{Font: "Times-Roman", Size: 12, Box: box(66, 72, 72, 72)}},
			want:   [3]report.Status{report.Pass, report.Pass, report.Fail},
		},
		{
			name:   "bottom margin of 66pt",
			glyphs: []Glyph{{Font: "Times-Roman", Size: 12, Box: box(72, 72, 72, 66)}},
			want:   [3]report.Status{report.Pass, report.Pass, report.Fail},
		},
		{
			name:   "margins at the tolerance edge",
			glyphs: []Glyph{{Font: "Times-Roman", Size: 12, Box: box(67, 77, 67, 77)}},
			want:   [3]report.Status{report.Pass, report.Pass, report.Pass},
		},
		{
			name:   "no glyphs",
			glyphs: nil,
			want:   [3]report.Status{report.Fail, report.Fail, report.Fail},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Judge(PageSample{Page: letterPage, Glyphs: tt.glyphs})
			got := [3]report.Status{r.FontSize, r.FontFamily, r.Margin}
			if got != tt.want {
				t.Errorf("Judge() = %v, want %v (margins %+v)", got, tt.want, r.Margins)
			}
		})
	}
}

func TestJudgeRecordsObservations(t *testing.T) {
	r := Judge(PageSample{Page: letterPage, Glyphs: []Glyph{
		{Font: "Times-Roman", Size: 12, Box: box(72, 300, 72, 600)},
		{Font: "Helvetica", Size: 10.04, Box: box(400, 72, 500, 72)},
		{Font: "Times-Roman", Size: 12, Box: box(100, 100, 100, 100)},
	}})
	if !reflect.DeepEqual(r.Fonts, []string{"Helvetica", "Times-Roman"}) {
		t.Errorf("Fonts = %v", r.Fonts)
	}
	if !reflect.DeepEqual(r.Sizes, []float64{10, 12}) {
		t.Errorf("Sizes = %v", r.Sizes)
	}
	want := report.Margins{Left: 72, Right: 72, Top: 72, Bottom: 72}
	if r.Margins != want {
		t.Errorf("Margins = %+v, want %+v", r.Margins, want)
	}
}

func TestIsTimes(t *testing.T) {
	for name, want := range map[string]bool{
		"ABCDEF+TimesNewRomanPSMT": true,
		"Times-Roman":              true,
		"TimesNewRoman,Bold":       true,
		"Helvetica":                false,
		"TIMES":                    false,
		"":                         false,
	} {
		if got := IsTimes(name); got != want {
			t.Errorf("IsTimes(%q) = %v, want %v", name, got, want)
		}
	}
}

type fakeSampler struct {
	name   string
	sample PageSample
	err    error
	calls  *int
}

func (f fakeSampler) Name() string { return f.name }

func (f fakeSampler) SampleFirstPage(string) (PageSample, error) {
	if f.calls != nil {
		*f.calls++
	}
	return f.sample, f.err
}

func compliantSample() PageSample {
	return PageSample{Page: letterPage, Glyphs: []Glyph{{Font: "Times-Roman", Size: 12, Box: box(72, 72, 72, 72)}}}
}

func TestCheckWithFallsBack(t *testing.T) {
	ctx := context.Background()
	broken := fakeSampler{name: "broken", err: errors.New("xref damaged")}
	empty := fakeSampler{name: "empty", sample: PageSample{Page: letterPage}}
	good := fakeSampler{name: "good", sample: compliantSample()}

	t.Run("first failing", func(t *testing.T) {
		r, err := CheckWith(ctx, "x.pdf", quietLogger(), broken, good)
		if err != nil {
			t.Fatal(err)
		}
		if r.Backend != "good" || r.Failed || r.Margin != report.Pass {
			t.Errorf("result = %+v", r)
		}
	})
	t.Run("first empty", func(t *testing.T) {
		r, _ := CheckWith(ctx, "x.pdf", quietLogger(), empty, good)
		if r.Backend != "good" || r.FontSize != report.Pass {
			t.Errorf("result = %+v", r)
		}
	})
	t.Run("all empty", func(t *testing.T) {
		r, _ := CheckWith(ctx, "x.pdf", quietLogger(), empty, broken)
		if r.Backend != "empty" || r.Failed {
			t.Errorf("result = %+v", r)
		}
		if r.FontSize != report.Fail || r.FontFamily != report.Fail || r.Margin != report.Fail {
			t.Errorf("empty page should fail every check: %+v", r)
		}
	})
	t.Run("all failing", func(t *testing.T) {
		r, _ := CheckWith(ctx, "x.pdf", quietLogger(), broken, broken)
		if !r.Failed || r.FontSize != report.Fail || r.FontFamily != report.Fail || r.Margin != report.Fail {
			t.Errorf("result = %+v", r)
		}
	})
	t.Run("stops at first sample with glyphs", func(t *testing.T) {
		calls := 0
		second := fakeSampler{name: "second", sample: compliantSample(), calls: &calls}
		if _, err := CheckWith(ctx, "x.pdf", quietLogger(), good, second); err != nil {
			t.Fatal(err)
		}
		if calls != 0 {
			t.Errorf("second sampler called %d times", calls)
		}
	})
}

func TestCheckWithCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := CheckWith(ctx, "x.pdf", quietLogger(), fakeSampler{name: "good", sample: compliantSample()}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSamplersOnCompliantPage(t *testing.T) {
	path := testpdf.WriteFile(t, "compliant.pdf", testpdf.Doc{Pages: []testpdf.Page{
		testpdf.CompliantPage("SUMMARY", "Engineer with ten years of experience."),
	}})
	for _, s := range DefaultSamplers {
		t.Run(s.Name(), func(t *testing.T) {
			r, err := CheckWith(context.Background(), path, quietLogger(), s)
			if err != nil {
				t.Fatal(err)
			}
			if r.Failed || r.Backend != s.Name() {
				t.Fatalf("sampling failed: %+v", r)
			}
			if r.FontSize != report.Pass || r.FontFamily != report.Pass || r.Margin != report.Pass {
				t.Errorf("statuses = %v %v %v, margins %+v", r.FontSize, r.FontFamily, r.Margin, r.Margins)
			}
			if r.Page.Width != 612 || r.Page.Height != 792 {
				t.Errorf("page = %+v", r.Page)
			}
		})
	}
}

func TestNativeSamplerHelveticaPage(t *testing.T) {
	texts := testpdf.Column(708, "Quarterly results")
	for i := range texts {
		texts[i].Font = "F2"
		texts[i].Size = 11
	}
	path := testpdf.WriteFile(t, "helvetica.pdf", testpdf.Doc{Pages: []testpdf.Page{{Texts: texts}}})

	r, err := CheckWith(context.Background(), path, quietLogger(), NativeSampler{})
	if err != nil {
		t.Fatal(err)
	}
	if r.FontSize != report.Fail || r.FontFamily != report.Fail || r.Margin != report.Fail {
		t.Errorf("statuses = %v %v %v", r.FontSize, r.FontFamily, r.Margin)
	}
	if !reflect.DeepEqual(r.Fonts, []string{"Helvetica"}) || !reflect.DeepEqual(r.Sizes, []float64{11}) {
		t.Errorf("fonts %v sizes %v", r.Fonts, r.Sizes)
	}
}

func TestCheckUnreadableFile(t *testing.T) {
	path := testpdf.WriteBytes(t, "garbage.pdf", []byte("this is not a pdf"))
	r, err := Check(context.Background(), path, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if !r.Failed || r.FontSize != report.Fail || r.FontFamily != report.Fail || r.Margin != report.Fail {
		t.Errorf("result = %+v", r)
	}
}

// wideStandardPage draws a 466.8pt line of Times "m" (778 units each) on the
// top and bottom margins with fonts that carry no /Widths.
func wideStandardPage() testpdf.Doc {
	line := strings.Repeat("m", 50)
	return testpdf.Doc{StandardFonts: true, Pages: []testpdf.Page{{Texts: []testpdf.Text{
		{X: 72, Y: 708, Size: 12, Value: line},
		{X: 72, Y: 72, Size: 12, Value: line},
	}}}}
}

func TestCheckFontsWithoutWidths(t *testing.T) {
	path := testpdf.WriteFile(t, "standard.pdf", wideStandardPage())

	r, err := Check(context.Background(), path, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if r.Backend != "native" {
		t.Errorf("backend = %q, want native", r.Backend)
	}
	if r.FontSize != report.Pass || r.FontFamily != report.Pass || r.Margin != report.Pass {
		t.Errorf("statuses = %v %v %v, margins %+v", r.FontSize, r.FontFamily, r.Margin, r.Margins)
	}
	if math.Abs(r.Margins.Right-73.2) > 0.01 {
		t.Errorf("right margin = %v, want 73.2", r.Margins.Right)
	}
}

func TestGlyphSamplerRefusesFontsWithoutWidths(t *testing.T) {
	path := testpdf.WriteFile(t, "standard.pdf", wideStandardPage())
	if _, err := (GlyphSampler{}).SampleFirstPage(path); !errors.Is(err, ErrNoWidths) {
		t.Fatalf("err = %v, want ErrNoWidths", err)
	}

	// listed first, it still hands over to the native sampler
	r, err := CheckWith(context.Background(), path, quietLogger(), GlyphSampler{}, NativeSampler{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Backend != "native" || r.Margin != report.Pass {
		t.Errorf("backend %q margin %v", r.Backend, r.Margin)
	}
}

func TestSamplersOnEncryptedPage(t *testing.T) {
	plain := testpdf.Doc{Pages: []testpdf.Page{
		testpdf.CompliantPage("SUMMARY", "Engineer with ten years of experience."),
	}}.Bytes()
	for _, aes := range []bool{true, false} {
		path := testpdf.WriteBytes(t, "locked.pdf", testpdf.Encrypt(t, plain, "", aes))
		for _, s := range DefaultSamplers {
			t.Run(fmt.Sprintf("%s aes=%v", s.Name(), aes), func(t *testing.T) {
				r, err := CheckWith(context.Background(), path, quietLogger(), s)
				if err != nil {
					t.Fatal(err)
				}
				if r.Failed || r.FontSize != report.Pass || r.FontFamily != report.Pass || r.Margin != report.Pass {
					t.Errorf("result = %+v", r)
				}
			})
		}
	}
}
