package typography

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/pdfcomply/font"
	"github.com/tsawler/pdfcomply/model"
	"github.com/tsawler/pdfcomply/reader"
)

// ErrNoFirstPage is returned by samplers for a document without pages.
var ErrNoFirstPage = errors.New("document has no first page")

// Sampler reads the glyphs and media box of a document's first page.
type Sampler interface {
	Name() string
	SampleFirstPage(path string) (PageSample, error)
}

// letter is used when no page in the tree declares a media box
var letter = model.NewBBox(0, 0, 612, 792)

// maxParentDepth bounds the walk up the page tree for inherited attributes
const maxParentDepth = 32

// GlyphSampler samples with github.com/ledongthuc/pdf, which reports one
// entry per non-space glyph with its base font, rendered size and advance.
//
// The decoder advances glyphs by the /Widths array alone, so a page using a
// font without one (composite fonts, or standard 14 fonts written bare)
// would collapse every line onto its start; such pages are refused with
// ErrNoWidths. Its size is the horizontal scale of the text rendering
// matrix, which differs from the drawn height under Tz scaling or rotation.
type GlyphSampler struct{}

// ErrNoWidths is returned by GlyphSampler for a page font without /Widths.
var ErrNoWidths = errors.New("page font has no glyph widths")

// Name implements Sampler.
func (GlyphSampler) Name() string { return "ledongthuc/pdf" }

// SampleFirstPage implements Sampler. The file is opened with the native
// reader first so encrypted documents arrive decrypted. Malformed content
// can make the decoder panic; the panic is returned as an error.
func (GlyphSampler) SampleFirstPage(path string) (sample PageSample, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decode first page: %v", r)
		}
	}()

	doc, err := reader.Open(path)
	if err != nil {
		return PageSample{}, err
	}
	data := doc.Bytes()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return PageSample{}, fmt.Errorf("open pdf: %w", err)
	}

	if r.NumPage() < 1 {
		return PageSample{}, ErrNoFirstPage
	}
	p := r.Page(1)
	if p.V.IsNull() {
		return PageSample{}, ErrNoFirstPage
	}
	if err := checkWidths(p); err != nil {
		return PageSample{}, err
	}

	sample.Page = mediaBox(p.V)
	descents := fontDescents(p)
	for _, t := range p.Content().Text {
		descent := descents[t.Font] * t.FontSize / 1000
		sample.Glyphs = append(sample.Glyphs, Glyph{
			Font: t.Font,
			Size: t.FontSize,
			Box:  model.NewBBox(t.X, t.Y+descent, t.W, t.FontSize),
		})
	}
	return sample, nil
}

// checkWidths refuses pages whose fonts the decoder cannot advance.
func checkWidths(p pdf.Page) error {
	for _, name := range p.Fonts() {
		f := p.Font(name).V
		if f.Key("Subtype").Name() == "Type0" || f.Key("Widths").Len() == 0 {
			return fmt.Errorf("%w: %s (%s)", ErrNoWidths, name, f.Key("BaseFont").Name())
		}
	}
	return nil
}

// mediaBox finds the page's media box, which may be inherited from any
// ancestor in the page tree.
func mediaBox(v pdf.Value) model.BBox {
	for i := 0; i < maxParentDepth && !v.IsNull(); i++ {
		if box := v.Key("MediaBox"); box.Len() == 4 {
			vals := make([]float64, 4)
			for j := range vals {
				vals[j] = box.Index(j).Float64()
			}
			if b, ok := model.BBoxFromArray(vals); ok && !b.IsEmpty() {
				return b
			}
		}
		v = v.Key("Parent")
	}
	return letter
}

// fontDescents maps the page's font names to their descent in glyph space.
// Keys drop everything up to a "+", as the decoder does for text fonts.
func fontDescents(p pdf.Page) map[string]float64 {
	out := map[string]float64{}
	for _, name := range p.Fonts() {
		f := p.Font(name)
		base := f.BaseFont()
		desc := f.V.Key("FontDescriptor")
		if f.V.Key("Subtype").Name() == "Type0" {
			desc = f.V.Key("DescendantFonts").Index(0).Key("FontDescriptor")
		}
		key := base
		if i := strings.Index(key, "+"); i >= 0 {
			key = key[i+1:]
		}
		if d := desc.Key("Descent"); !d.IsNull() {
			out[key] = d.Float64()
		} else if m, ok := font.StandardMetrics(base); ok {
			out[key] = m.Descent
		}
	}
	return out
}

// NativeSampler samples with this module's reader, one glyph run per text
// fragment.
type NativeSampler struct{}

// Name implements Sampler.
func (NativeSampler) Name() string { return "native" }

// SampleFirstPage implements Sampler.
func (NativeSampler) SampleFirstPage(path string) (PageSample, error) {
	r, err := reader.Open(path)
	if err != nil {
		return PageSample{}, err
	}
	n, err := r.PageCount()
	if err != nil {
		return PageSample{}, err
	}
	if n < 1 {
		return PageSample{}, ErrNoFirstPage
	}
	page, err := r.Page(0)
	if err != nil {
		return PageSample{}, err
	}
	frags, err := r.PageFragments(0)
	if err != nil {
		return PageSample{}, err
	}

	sample := PageSample{Page: page.MediaBox()}
	for _, f := range frags {
		if f.Width <= 0 && f.FontSize <= 0 {
			continue
		}
		sample.Glyphs = append(sample.Glyphs, Glyph{Font: f.FontName, Size: f.FontSize, Box: f.BBox()})
	}
	return sample, nil
}
