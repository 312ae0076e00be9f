package pages

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/tsawler/pdfcomply/core"
	"github.com/tsawler/pdfcomply/model"
)

// ObjectResolver resolves indirect references
type ObjectResolver interface {
	Resolve(obj core.Object) (core.Object, error)
}

// US Letter, the default when no MediaBox is found anywhere
var defaultMediaBox = model.NewBBox(0, 0, 612, 792)

// maxTreeDepth bounds page tree nesting
const maxTreeDepth = 64

// ErrNoPageTree is returned when the catalog has no usable /Pages entry
var ErrNoPageTree = errors.New("catalog has no page tree")

// inherited carries the inheritable attributes while descending
type inherited struct {
	resources core.Dict
	mediaBox  core.Object
	cropBox   core.Object
	rotate    core.Object
}

// Page is a single leaf of the page tree with its inherited attributes
// already applied.
type Page struct {
	Dict     core.Dict
	Number   int // 1-based position in document order
	resolver ObjectResolver
	attrs    inherited
}

// PageTree is the flattened list of pages
type PageTree struct {
	pages []*Page
}

// NewPageTree reads the page tree under the catalog
func NewPageTree(catalog core.Dict, resolver ObjectResolver) (*PageTree, error) {
	root, ok := resolve(resolver, catalog.Get("Pages")).(core.Dict)
	if !ok {
		return nil, ErrNoPageTree
	}
	t := &PageTree{}
	seen := map[core.IndirectRef]bool{}
	if ref, ok := catalog.Get("Pages").(core.IndirectRef); ok {
		seen[ref] = true
	}
	if err := t.walk(root, inherited{}, resolver, seen, 0); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *PageTree) walk(node core.Dict, attrs inherited, resolver ObjectResolver, seen map[core.IndirectRef]bool, depth int) error {
	if depth > maxTreeDepth {
		return fmt.Errorf("page tree deeper than %d levels", maxTreeDepth)
	}

	if res, ok := resolve(resolver, node.Get("Resources")).(core.Dict); ok {
		attrs.resources = res
	}
	for key, dst := range map[string]*core.Object{"MediaBox": &attrs.mediaBox, "CropBox": &attrs.cropBox, "Rotate": &attrs.rotate} {
		if v := node.Get(key); v != nil {
			*dst = v
		}
	}

	kind, _ := node.GetName("Type")
	kidsObj := node.Get("Kids")
	if kind == "Page" || (kind != "Pages" && kidsObj == nil) {
		t.pages = append(t.pages, &Page{Dict: node, Number: len(t.pages) + 1, resolver: resolver, attrs: attrs})
		return nil
	}

	kids, ok := resolve(resolver, kidsObj).(core.Array)
	if !ok {
		return fmt.Errorf("page tree node has invalid /Kids: %T", kidsObj)
	}
	for _, kid := range kids {
		if ref, ok := kid.(core.IndirectRef); ok {
			if seen[ref] {
				continue
			}
			seen[ref] = true
		}
		child, ok := resolve(resolver, kid).(core.Dict)
		if !ok {
			// a dangling kid reference drops that page only
			continue
		}
		if err := t.walk(child, attrs, resolver, seen, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of pages
func (t *PageTree) Count() int { return len(t.pages) }

// Page returns the page at a 0-based index
func (t *PageTree) Page(index int) (*Page, error) {
	if index < 0 || index >= len(t.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(t.pages))
	}
	return t.pages[index], nil
}

// Pages returns all pages in document order
func (t *PageTree) Pages() []*Page {
	return t.pages
}

// Resources returns the page's resource dictionary, inherited if needed
func (p *Page) Resources() core.Dict {
	return p.attrs.resources
}

// MediaBox returns the page boundaries. Missing or malformed boxes default
// to US Letter.
func (p *Page) MediaBox() model.BBox {
	if b, ok := p.box(p.attrs.mediaBox); ok {
		return b
	}
	return defaultMediaBox
}

// CropBox returns the visible region, which defaults to the MediaBox
func (p *Page) CropBox() model.BBox {
	if b, ok := p.box(p.attrs.cropBox); ok {
		return b
	}
	return p.MediaBox()
}

func (p *Page) box(obj core.Object) (model.BBox, bool) {
	arr, ok := resolve(p.resolver, obj).(core.Array)
	if !ok {
		return model.BBox{}, false
	}
	vals := make([]float64, 0, len(arr))
	for _, o := range arr {
		v, ok := core.Number(resolve(p.resolver, o))
		if !ok {
			return model.BBox{}, false
		}
		vals = append(vals, v)
	}
	return model.BBoxFromArray(vals)
}

// Rotate returns the page rotation normalized to 0, 90, 180 or 270
func (p *Page) Rotate() int {
	v, ok := core.Number(resolve(p.resolver, p.attrs.rotate))
	if !ok {
		return 0
	}
	r := int(v) % 360
	if r < 0 {
		r += 360
	}
	return r / 90 * 90
}

// Contents returns the decoded page content. Multiple streams are joined
// with a newline, since operators may not span stream boundaries but
// tokens need separating.
func (p *Page) Contents() ([]byte, error) {
	var streams []core.Object
	switch v := resolve(p.resolver, p.Dict.Get("Contents")).(type) {
	case nil, core.Null:
		return nil, nil
	case *core.Stream:
		streams = []core.Object{v}
	case core.Array:
		for _, elem := range v {
			streams = append(streams, resolve(p.resolver, elem))
		}
	default:
		return nil, fmt.Errorf("invalid Contents type: %T", v)
	}

	var buf bytes.Buffer
	var firstErr error
	for i, obj := range streams {
		s, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		data, err := s.Decode()
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("contents[%d]: %w", i, err)
			}
			continue
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	if buf.Len() == 0 && firstErr != nil {
		return nil, firstErr
	}
	return buf.Bytes(), nil
}

func resolve(resolver ObjectResolver, obj core.Object) core.Object {
	if _, isRef := obj.(core.IndirectRef); !isRef || resolver == nil {
		return obj
	}
	out, err := resolver.Resolve(obj)
	if err != nil {
		return nil
	}
	return out
}
