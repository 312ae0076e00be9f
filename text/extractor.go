package text

import (
	"fmt"
	"math"

	"github.com/tsawler/pdfcomply/contentstream"
	"github.com/tsawler/pdfcomply/core"
	"github.com/tsawler/pdfcomply/font"
	"github.com/tsawler/pdfcomply/graphicsstate"
	"github.com/tsawler/pdfcomply/model"
)

// maxFormDepth bounds nested form XObjects; self-referencing forms exist
const maxFormDepth = 8

// Fragment is a run of glyphs drawn by one show operation or TJ element
type Fragment struct {
	Text     string
	FontName string // BaseFont with any subset tag removed
	// FontSize is the rendered size, after the text and transformation matrices
	FontSize float64
	// X, Y is the baseline origin in user space
	X, Y  float64
	Width float64
	// Descent is the font descent at the rendered size; zero or negative
	Descent float64
}

// BBox is the fragment's glyph box: from the descent below the baseline up
// one font size.
func (f Fragment) BBox() model.BBox {
	return model.NewBBox(f.X, f.Y+f.Descent, f.Width, f.FontSize)
}

// Extractor extracts text fragments from content streams
type Extractor struct {
	res font.Resolver
	gs  *graphicsstate.GraphicsState

	// loaded fonts by object, so a resource name reused with a different
	// meaning inside a form stays distinct
	fonts    map[core.IndirectRef]*font.Font
	fallback *font.Font

	scopes    []core.Dict
	current   *font.Font
	fragments []Fragment
}

// NewExtractor creates an extractor. res resolves indirect objects in
// resource dictionaries and may be nil when everything is direct.
func NewExtractor(res font.Resolver) *Extractor {
	fallback, _ := font.Load(core.Dict{"Subtype": core.Name("Type1")}, nil)
	return &Extractor{
		res:      res,
		fonts:    make(map[core.IndirectRef]*font.Font),
		fallback: fallback,
	}
}

// Extract runs a content stream with its resource dictionary. On a
// malformed stream the fragments read before the error are returned along
// with it.
func (e *Extractor) Extract(content []byte, resources core.Dict) ([]Fragment, error) {
	e.gs = graphicsstate.NewGraphicsState()
	e.fragments = nil
	e.current = e.fallback
	err := e.run(content, resources, 0)
	return e.fragments, err
}

func (e *Extractor) run(content []byte, resources core.Dict, depth int) error {
	ops, parseErr := contentstream.NewParser(content).Parse()
	e.scopes = append(e.scopes, resources)
	defer func() { e.scopes = e.scopes[:len(e.scopes)-1] }()

	for _, op := range ops {
		e.processOperation(op, depth)
	}
	if parseErr != nil {
		return fmt.Errorf("content stream: %w", parseErr)
	}
	return nil
}

func (e *Extractor) processOperation(op contentstream.Operation, depth int) {
	gs := e.gs
	args := op.Operands
	switch op.Operator {
	case "q":
		gs.Save()
	case "Q":
		// unbalanced Q is common; ignore it
		_ = gs.Restore()
	case "cm":
		if m, ok := operandsToMatrix(args); ok {
			gs.Concat(m)
		}
	case "BT":
		gs.BeginText()
	case "ET":
		gs.EndText()
	case "Tf":
		if len(args) >= 2 {
			name, _ := args[0].(core.Name)
			size, _ := core.Number(args[1])
			gs.SetFont(string(name), size)
			e.current = e.lookupFont(string(name))
		}
	case "Tc":
		setFloat(args, &gs.Text.CharSpacing)
	case "Tw":
		setFloat(args, &gs.Text.WordSpacing)
	case "Tz":
		setFloat(args, &gs.Text.HorizontalScaling)
	case "TL":
		setFloat(args, &gs.Text.Leading)
	case "Ts":
		setFloat(args, &gs.Text.Rise)
	case "Tr":
		var mode float64
		setFloat(args, &mode)
		gs.Text.RenderingMode = int(mode)
	case "Td", "TD":
		if len(args) >= 2 {
			tx, _ := core.Number(args[0])
			ty, _ := core.Number(args[1])
			if op.Operator == "TD" {
				gs.TranslateTextSetLeading(tx, ty)
			} else {
				gs.TranslateText(tx, ty)
			}
		}
	case "Tm":
		if m, ok := operandsToMatrix(args); ok {
			gs.SetTextMatrix(m)
		}
	case "T*":
		gs.NextLine()
	case "Tj":
		if len(args) >= 1 {
			e.showText(args[0])
		}
	case "'":
		gs.NextLine()
		if len(args) >= 1 {
			e.showText(args[0])
		}
	case `"`:
		if len(args) >= 3 {
			gs.Text.WordSpacing, _ = core.Number(args[0])
			gs.Text.CharSpacing, _ = core.Number(args[1])
			gs.NextLine()
			e.showText(args[2])
		}
	case "TJ":
		if len(args) >= 1 {
			if arr, ok := args[0].(core.Array); ok {
				e.showTextArray(arr)
			}
		}
	case "Do":
		if len(args) >= 1 && depth < maxFormDepth {
			if name, ok := args[0].(core.Name); ok {
				e.drawForm(string(name), depth)
			}
		}
	}
}

// showText emits one fragment for a shown string and advances the text matrix
func (e *Extractor) showText(obj core.Object) {
	s, ok := obj.(core.String)
	if !ok || len(s) == 0 {
		return
	}
	gs := e.gs
	start := gs.RenderingMatrix()
	size := start.VerticalScale()

	var text []byte
	for _, g := range e.current.Decode([]byte(s)) {
		text = append(text, g.Text...)
		gs.Advance(gs.GlyphAdvance(g.Width, g.Space))
	}
	end := gs.RenderingMatrix()

	e.fragments = append(e.fragments, Fragment{
		Text:     font.NormalizeUnicode(string(text)),
		FontName: font.StripSubsetTag(e.current.BaseFont),
		FontSize: size,
		X:        start[4],
		Y:        start[5],
		Width:    math.Hypot(end[4]-start[4], end[5]-start[5]),
		Descent:  e.current.Descent / 1000 * size,
	})
}

// showTextArray handles TJ: strings are shown, numbers move the position
// back by thousandths of the font size.
func (e *Extractor) showTextArray(arr core.Array) {
	for _, item := range arr {
		if n, ok := core.Number(item); ok {
			e.gs.Advance(-n / 1000 * e.gs.Text.FontSize)
			continue
		}
		e.showText(item)
	}
}

// drawForm runs a form XObject's content with its own resources
func (e *Extractor) drawForm(name string, depth int) {
	xobjects, ok := e.resolve(e.scope().Get("XObject")).(core.Dict)
	if !ok {
		return
	}
	stream, ok := e.resolve(xobjects.Get(name)).(*core.Stream)
	if !ok {
		return
	}
	if st, _ := stream.Dict.GetName("Subtype"); st != "Form" {
		return
	}
	data, err := stream.Decode()
	if err != nil {
		return
	}
	resources, ok := e.resolve(stream.Dict.Get("Resources")).(core.Dict)
	if !ok {
		resources = e.scope()
	}

	e.gs.Save()
	if arr, ok := e.resolve(stream.Dict.Get("Matrix")).(core.Array); ok {
		if vals, ok := arr.Floats(); ok {
			if m, ok := model.MatrixFromArray(vals); ok {
				e.gs.Concat(m)
			}
		}
	}
	saved := e.current
	inText := e.gs.Text
	_ = e.run(data, resources, depth+1)
	e.gs.Text = inText
	e.current = saved
	_ = e.gs.Restore()
}

func (e *Extractor) scope() core.Dict {
	if len(e.scopes) == 0 {
		return nil
	}
	return e.scopes[len(e.scopes)-1]
}

// lookupFont loads the font a resource name refers to in the current scope.
// Unknown names fall back to a StandardEncoding font so text still flows.
func (e *Extractor) lookupFont(name string) *font.Font {
	fonts, ok := e.resolve(e.scope().Get("Font")).(core.Dict)
	if !ok {
		return e.fallback
	}
	raw := fonts.Get(name)
	ref, isRef := raw.(core.IndirectRef)
	if f, ok := e.fonts[ref]; isRef && ok {
		return f
	}
	dict, ok := e.resolve(raw).(core.Dict)
	if !ok {
		return e.fallback
	}
	f, err := font.Load(dict, e.res)
	if err != nil {
		f = e.fallback
	}
	if isRef {
		e.fonts[ref] = f
	}
	return f
}

func (e *Extractor) resolve(obj core.Object) core.Object {
	if _, isRef := obj.(core.IndirectRef); !isRef || e.res == nil {
		return obj
	}
	out, err := e.res.Resolve(obj)
	if err != nil {
		return nil
	}
	return out
}

func setFloat(args []core.Object, dst *float64) {
	if len(args) >= 1 {
		if v, ok := core.Number(args[0]); ok {
			*dst = v
		}
	}
}

func operandsToMatrix(args []core.Object) (model.Matrix, bool) {
	if len(args) < 6 {
		return model.Identity(), false
	}
	vals := make([]float64, 6)
	for i, a := range args[len(args)-6:] {
		v, ok := core.Number(a)
		if !ok {
			return model.Identity(), false
		}
		vals[i] = v
	}
	return model.MatrixFromArray(vals)
}
