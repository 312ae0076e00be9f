package reader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/tsawler/pdfcomply/core"
	"github.com/tsawler/pdfcomply/font"
	"github.com/tsawler/pdfcomply/pages"
	"github.com/tsawler/pdfcomply/text"
)

var (
	// ErrNotPDF is returned when no %PDF- header is found
	ErrNotPDF = errors.New("not a PDF file")
	// ErrEncrypted is returned for documents with an /Encrypt dictionary
	// that cannot be opened without a password
	ErrEncrypted = errors.New("encrypted PDF document")
	// ErrNoPages is returned when the document has no readable pages
	ErrNoPages = errors.New("document has no pages")
)

// headerWindow is how far into the file the %PDF- marker may start
const headerWindow = 1024

var versionRe = regexp.MustCompile(`^%PDF-(\d+)\.(\d+)`)

// PDFVersion represents a PDF version
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as a string (e.g., "1.7")
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Reader represents an open PDF document
type Reader struct {
	data      []byte
	version   PDFVersion
	xrefTable *core.XRefTable
	trailer   core.Dict
	rebuilt   bool

	objCache map[int]core.Object
	objStms  map[int]*core.ObjectStream
	loading  map[int]bool
	pageTree *pages.PageTree
}

var (
	_ pages.ObjectResolver   = (*Reader)(nil)
	_ font.Resolver          = (*Reader)(nil)
	_ core.ReferenceResolver = (*Reader)(nil)
)

// Open reads a PDF file. An encrypted file is decrypted with the empty
// user password first.
func Open(filename string) (*Reader, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	r, err := NewReader(data)
	if !errors.Is(err, ErrEncrypted) {
		return r, err
	}
	plain, err := Decrypt(data)
	if err != nil {
		return nil, err
	}
	return NewReader(plain)
}

// NewReader parses the header and cross-reference data of an in-memory PDF.
// Encrypted data is rejected with ErrEncrypted; see Decrypt.
func NewReader(data []byte) (*Reader, error) {
	r := &Reader{
		data:     data,
		objCache: make(map[int]core.Object),
		objStms:  make(map[int]*core.ObjectStream),
		loading:  make(map[int]bool),
	}

	version, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	r.version = version

	table, err := core.LoadXRef(data)
	if err != nil || !table.Trailer.Has("Root") {
		table, err = core.RebuildXRef(data)
		if err != nil {
			return nil, fmt.Errorf("failed to load xref: %w", err)
		}
		r.rebuilt = true
	}
	r.xrefTable = table
	r.trailer = table.Trailer

	if r.trailer.Has("Encrypt") {
		return nil, ErrEncrypted
	}
	return r, nil
}

// parseHeader finds %PDF-x.y near the start of the file. Some producers
// put junk before the marker.
func parseHeader(data []byte) (PDFVersion, error) {
	window := data
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	idx := bytes.Index(window, []byte("%PDF-"))
	if idx < 0 {
		return PDFVersion{}, ErrNotPDF
	}
	m := versionRe.FindSubmatch(data[idx:])
	if m == nil {
		// a bare "%PDF-" still identifies the file; assume 1.4
		return PDFVersion{Major: 1, Minor: 4}, nil
	}
	major, _ := strconv.Atoi(string(m[1]))
	minor, _ := strconv.Atoi(string(m[2]))
	return PDFVersion{Major: major, Minor: minor}, nil
}

// Version returns the PDF version
func (r *Reader) Version() PDFVersion {
	return r.version
}

// Rebuilt reports whether the cross-reference table had to be reconstructed
func (r *Reader) Rebuilt() bool {
	return r.rebuilt
}

// Bytes returns the document as parsed, after any decryption. It must not
// be modified.
func (r *Reader) Bytes() []byte {
	return r.data
}

// GetObject loads an object by its number. Free and unknown objects are
// null, as PDF defines references to missing objects.
func (r *Reader) GetObject(objNum int) (core.Object, error) {
	if obj, ok := r.objCache[objNum]; ok {
		return obj, nil
	}
	if r.loading[objNum] {
		return nil, fmt.Errorf("object %d refers to itself", objNum)
	}
	r.loading[objNum] = true
	defer delete(r.loading, objNum)

	entry, ok := r.xrefTable.Get(objNum)
	if !ok || entry.Type == core.XRefEntryFree {
		return core.Null{}, nil
	}

	var obj core.Object
	var err error
	switch entry.Type {
	case core.XRefEntryCompressed:
		obj, err = r.loadCompressed(objNum, entry)
	default:
		obj, err = r.loadAt(objNum, entry.Offset)
		if err != nil && !r.rebuilt {
			// a stale offset; rebuild once and retry from the scan
			if rerr := r.rebuild(); rerr == nil {
				if e, ok := r.xrefTable.Get(objNum); ok && e.Type == core.XRefEntryUncompressed {
					obj, err = r.loadAt(objNum, e.Offset)
				}
			}
		}
	}
	if err != nil {
		return nil, err
	}
	r.objCache[objNum] = obj
	return obj, nil
}

func (r *Reader) loadAt(objNum int, offset int64) (core.Object, error) {
	if offset < 0 || offset >= int64(len(r.data)) {
		return nil, fmt.Errorf("object %d offset %d out of range", objNum, offset)
	}
	parser := core.NewParser(r.data)
	parser.SetReferenceResolver(r)
	parser.Seek(int(offset))
	ind, err := parser.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse object %d: %w", objNum, err)
	}
	if ind.Ref.Number != objNum {
		return nil, fmt.Errorf("object number mismatch: expected %d, got %d", objNum, ind.Ref.Number)
	}
	return ind.Object, nil
}

func (r *Reader) loadCompressed(objNum int, entry core.XRefEntry) (core.Object, error) {
	stm, ok := r.objStms[entry.StreamObj]
	if !ok {
		obj, err := r.GetObject(entry.StreamObj)
		if err != nil {
			return nil, fmt.Errorf("object stream %d: %w", entry.StreamObj, err)
		}
		s, ok := obj.(*core.Stream)
		if !ok {
			return nil, fmt.Errorf("object stream %d is %T", entry.StreamObj, obj)
		}
		stm, err = core.NewObjectStream(s)
		if err != nil {
			return nil, fmt.Errorf("object stream %d: %w", entry.StreamObj, err)
		}
		r.objStms[entry.StreamObj] = stm
	}
	return stm.GetObjectByNumber(objNum, entry.Index)
}

// rebuild replaces the table with a scanned one, keeping compressed
// entries the scan cannot see.
func (r *Reader) rebuild() error {
	r.rebuilt = true
	scanned, err := core.RebuildXRef(r.data)
	if err != nil {
		return err
	}
	for num, e := range r.xrefTable.Entries {
		if _, ok := scanned.Entries[num]; !ok && e.Type == core.XRefEntryCompressed {
			scanned.Entries[num] = e
		}
	}
	scanned.Trailer = r.trailer
	r.xrefTable = scanned
	return nil
}

// ResolveReference resolves an indirect reference
func (r *Reader) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.GetObject(ref.Number)
}

// Resolve resolves an object if it's an indirect reference, otherwise
// returns it as-is
func (r *Reader) Resolve(obj core.Object) (core.Object, error) {
	if ref, ok := obj.(core.IndirectRef); ok {
		return r.ResolveReference(ref)
	}
	return obj, nil
}

// Catalog returns the document catalog (root object)
func (r *Reader) Catalog() (core.Dict, error) {
	obj, err := r.Resolve(r.trailer.Get("Root"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog: %w", err)
	}
	catalog, ok := obj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("catalog is not a dictionary: %T", obj)
	}
	return catalog, nil
}

// Info returns the text entries of the document information dictionary
func (r *Reader) Info() map[string]string {
	out := map[string]string{}
	obj, err := r.Resolve(r.trailer.Get("Info"))
	if err != nil {
		return out
	}
	info, ok := obj.(core.Dict)
	if !ok {
		return out
	}
	for _, key := range info.Keys() {
		v, err := r.Resolve(info.Get(key))
		if err != nil {
			continue
		}
		if s, ok := v.(core.String); ok {
			out[key] = font.DecodeTextString([]byte(s))
		}
	}
	return out
}

// PageCount returns the number of pages. A document without pages
// reports ErrNoPages.
func (r *Reader) PageCount() (int, error) {
	if err := r.ensurePageTree(); err != nil {
		return 0, err
	}
	if r.pageTree.Count() == 0 {
		return 0, ErrNoPages
	}
	return r.pageTree.Count(), nil
}

// Page returns the page at the given index (0-based)
func (r *Reader) Page(index int) (*pages.Page, error) {
	if err := r.ensurePageTree(); err != nil {
		return nil, err
	}
	return r.pageTree.Page(index)
}

func (r *Reader) ensurePageTree() error {
	if r.pageTree != nil {
		return nil
	}
	catalog, err := r.Catalog()
	if err != nil {
		return err
	}
	tree, err := pages.NewPageTree(catalog, r)
	if err != nil {
		return fmt.Errorf("failed to read page tree: %w", err)
	}
	r.pageTree = tree
	return nil
}

// PageFragments extracts the positioned text of a page (0-based)
func (r *Reader) PageFragments(index int) ([]text.Fragment, error) {
	page, err := r.Page(index)
	if err != nil {
		return nil, err
	}
	content, err := page.Contents()
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", index+1, err)
	}
	if len(content) == 0 {
		return nil, nil
	}
	frags, err := text.NewExtractor(r).Extract(content, page.Resources())
	if err != nil && len(frags) == 0 {
		return nil, fmt.Errorf("page %d: %w", index+1, err)
	}
	return frags, nil
}

// PageText returns the text of a page (0-based) with lines separated by
// newlines
func (r *Reader) PageText(index int) (string, error) {
	frags, err := r.PageFragments(index)
	if err != nil {
		return "", err
	}
	return text.PageText(frags), nil
}
