package core

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// XRefEntryType distinguishes the three kinds of cross-reference entries
type XRefEntryType int

const (
	XRefEntryFree         XRefEntryType = iota // f entries / type 0
	XRefEntryUncompressed                      // n entries / type 1: byte offset
	XRefEntryCompressed                        // type 2: stored inside an object stream
)

// XRefEntry locates one object. For uncompressed objects Offset is the byte
// offset of "N G obj"; for compressed ones StreamObj and Index identify the
// containing object stream and the position inside it.
type XRefEntry struct {
	Type       XRefEntryType
	Offset     int64
	Generation int
	StreamObj  int
	Index      int
}

// XRefTable maps object numbers to their locations plus the merged trailer
type XRefTable struct {
	Entries map[int]XRefEntry
	Trailer Dict
}

// NewXRefTable creates an empty table
func NewXRefTable() *XRefTable {
	return &XRefTable{Entries: make(map[int]XRefEntry), Trailer: Dict{}}
}

// Get retrieves the entry for an object number
func (x *XRefTable) Get(objNum int) (XRefEntry, bool) {
	e, ok := x.Entries[objNum]
	return e, ok
}

// Size returns the number of entries
func (x *XRefTable) Size() int { return len(x.Entries) }

// mergeOlder adds entries and trailer keys from an older section without
// overriding anything already present, since newer revisions win. A free
// entry is the exception: hybrid files list compressed objects as free in
// the table and locate them in the /XRefStm stream.
func (x *XRefTable) mergeOlder(older *XRefTable) {
	for num, e := range older.Entries {
		cur, ok := x.Entries[num]
		if !ok || (cur.Type == XRefEntryFree && e.Type != XRefEntryFree) {
			x.Entries[num] = e
		}
	}
	for k, v := range older.Trailer {
		if _, ok := x.Trailer[k]; !ok {
			x.Trailer[k] = v
		}
	}
}

// FindStartXRef locates the offset recorded after the last "startxref"
func FindStartXRef(data []byte) (int64, error) {
	tail := data
	if len(tail) > 2048 {
		tail = tail[len(tail)-2048:]
	}
	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx < 0 {
		return 0, errors.New("startxref not found")
	}
	lex := NewLexer(tail[idx+len("startxref"):])
	tok, err := lex.NextToken()
	if err != nil || tok.Type != TokenInteger {
		return 0, errors.New("invalid startxref offset")
	}
	off, err := strconv.ParseInt(string(tok.Value), 10, 64)
	if err != nil || off < 0 || off >= int64(len(data)) {
		return 0, fmt.Errorf("startxref offset %s out of range", tok.Value)
	}
	return off, nil
}

// LoadXRef reads the cross-reference chain starting at startxref, following
// /Prev and /XRefStm links. Both classic tables and xref streams are read.
func LoadXRef(data []byte) (*XRefTable, error) {
	start, err := FindStartXRef(data)
	if err != nil {
		return nil, err
	}

	table := NewXRefTable()
	seen := map[int64]bool{}
	queue := []int64{start}
	for len(queue) > 0 {
		off := queue[0]
		queue = queue[1:]
		if seen[off] || off < 0 || off >= int64(len(data)) {
			continue
		}
		seen[off] = true

		section, err := parseXRefSection(data, int(off))
		if err != nil {
			if off == start {
				return nil, err
			}
			// a broken older revision should not hide the newest one
			continue
		}
		table.mergeOlder(section)

		// hybrid files: /XRefStm is read before /Prev
		if stm, ok := section.Trailer.GetInt("XRefStm"); ok {
			queue = append([]int64{int64(stm)}, queue...)
		}
		if prev, ok := section.Trailer.GetInt("Prev"); ok {
			queue = append(queue, int64(prev))
		}
	}
	delete(table.Trailer, "Prev")
	delete(table.Trailer, "XRefStm")
	return table, nil
}

func parseXRefSection(data []byte, offset int) (*XRefTable, error) {
	p := NewParser(data)
	p.Seek(offset)
	if isXRefTable(data, offset) {
		return p.parseXRefTable()
	}
	return p.parseXRefStream()
}

func isXRefTable(data []byte, offset int) bool {
	lex := NewLexer(data)
	lex.Seek(offset)
	tok, err := lex.NextToken()
	return err == nil && tok.Type == TokenKeyword && string(tok.Value) == "xref"
}

// parseXRefTable reads "xref" subsections followed by "trailer << >>"
func (p *Parser) parseXRefTable() (*XRefTable, error) {
	table := NewXRefTable()
	if tok, _ := p.lexer.NextToken(); string(tok.Value) != "xref" {
		return nil, errors.New("expected xref keyword")
	}

	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenKeyword && string(tok.Value) == "trailer" {
			break
		}
		if tok.Type != TokenInteger {
			return nil, fmt.Errorf("malformed xref subsection at position %d", tok.Pos)
		}
		first, _ := strconv.Atoi(string(tok.Value))
		countTok, err := p.lexer.NextToken()
		if err != nil || countTok.Type != TokenInteger {
			return nil, errors.New("malformed xref subsection count")
		}
		count, _ := strconv.Atoi(string(countTok.Value))

		for i := 0; i < count; i++ {
			offTok, _ := p.lexer.NextToken()
			genTok, _ := p.lexer.NextToken()
			kindTok, _ := p.lexer.NextToken()
			if offTok.Type != TokenInteger || genTok.Type != TokenInteger || kindTok.Type != TokenKeyword {
				return nil, fmt.Errorf("malformed xref entry %d", first+i)
			}
			off, _ := strconv.ParseInt(string(offTok.Value), 10, 64)
			gen, _ := strconv.Atoi(string(genTok.Value))
			entry := XRefEntry{Type: XRefEntryFree, Offset: off, Generation: gen}
			if string(kindTok.Value) == "n" {
				entry.Type = XRefEntryUncompressed
			}
			if _, dup := table.Entries[first+i]; !dup {
				table.Entries[first+i] = entry
			}
		}
	}

	trailer, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("trailer: %w", err)
	}
	dict, ok := trailer.(Dict)
	if !ok {
		return nil, errors.New("trailer is not a dictionary")
	}
	table.Trailer = dict
	return table, nil
}

// parseXRefStream reads a cross-reference stream (PDF 1.5+). Its dictionary
// doubles as the trailer.
func (p *Parser) parseXRefStream() (*XRefTable, error) {
	obj, err := p.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("xref stream: %w", err)
	}
	stream, ok := obj.Object.(*Stream)
	if !ok {
		return nil, errors.New("xref offset does not point at a stream")
	}
	if t, _ := stream.Dict.GetName("Type"); t != "XRef" {
		return nil, fmt.Errorf("stream type %q is not XRef", t)
	}

	wArr, ok := stream.Dict.GetArray("W")
	if !ok || len(wArr) != 3 {
		return nil, errors.New("xref stream missing /W")
	}
	var w [3]int
	for i := range w {
		n, ok := Number(wArr[i])
		if !ok || n < 0 || n > 8 {
			return nil, errors.New("invalid /W entry")
		}
		w[i] = int(n)
	}

	size, _ := stream.Dict.GetInt("Size")
	index := []int{0, int(size)}
	if idx, ok := stream.Dict.GetArray("Index"); ok {
		index = index[:0]
		for _, o := range idx {
			n, _ := Number(o)
			index = append(index, int(n))
		}
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("xref stream: %w", err)
	}

	table := NewXRefTable()
	rowLen := w[0] + w[1] + w[2]
	if rowLen == 0 {
		return nil, errors.New("xref stream with zero-width rows")
	}
	pos := 0
	for i := 0; i+1 < len(index); i += 2 {
		first, count := index[i], index[i+1]
		for j := 0; j < count && pos+rowLen <= len(data); j++ {
			entry := parseXRefStreamRow(data[pos:pos+rowLen], w)
			pos += rowLen
			if _, dup := table.Entries[first+j]; !dup {
				table.Entries[first+j] = entry
			}
		}
	}

	table.Trailer = stream.Dict
	return table, nil
}

// parseXRefStreamRow decodes one row. A zero-width type field defaults to 1.
func parseXRefStreamRow(row []byte, w [3]int) XRefEntry {
	kind := int64(1)
	if w[0] > 0 {
		kind = readBigEndianInt(row[:w[0]], w[0])
	}
	f2 := readBigEndianInt(row[w[0]:w[0]+w[1]], w[1])
	f3 := readBigEndianInt(row[w[0]+w[1]:], w[2])

	switch kind {
	case 1:
		return XRefEntry{Type: XRefEntryUncompressed, Offset: f2, Generation: int(f3)}
	case 2:
		return XRefEntry{Type: XRefEntryCompressed, StreamObj: int(f2), Index: int(f3)}
	}
	return XRefEntry{Type: XRefEntryFree, Offset: f2, Generation: int(f3)}
}

// readBigEndianInt reads a width-byte big-endian unsigned integer
func readBigEndianInt(data []byte, width int) int64 {
	var v int64
	for i := 0; i < width && i < len(data); i++ {
		v = v<<8 | int64(data[i])
	}
	return v
}

var objHeaderRe = regexp.MustCompile(`(?m)(\d+)[ \t\r\n\f]+(\d+)[ \t\r\n\f]+obj\b`)

// RebuildXRef reconstructs a table by scanning for "N G obj" headers. It is
// the recovery path for files whose startxref or tables are damaged. The
// trailer comes from the last trailer dictionary or xref stream found.
func RebuildXRef(data []byte) (*XRefTable, error) {
	table := NewXRefTable()
	for _, m := range objHeaderRe.FindAllSubmatchIndex(data, -1) {
		if m[0] > 0 && !isWhitespace(data[m[0]-1]) && !isDelimiter(data[m[0]-1]) {
			continue
		}
		num, err1 := strconv.Atoi(string(data[m[2]:m[3]]))
		gen, err2 := strconv.Atoi(string(data[m[4]:m[5]]))
		if err1 != nil || err2 != nil {
			continue
		}
		// later definitions override earlier ones, matching incremental updates
		table.Entries[num] = XRefEntry{Type: XRefEntryUncompressed, Offset: int64(m[0]), Generation: gen}
	}
	if len(table.Entries) == 0 {
		return nil, errors.New("no objects found")
	}

	p := NewParser(data)
	if idx := bytes.LastIndex(data, []byte("trailer")); idx >= 0 {
		p.Seek(idx + len("trailer"))
		if obj, err := p.ParseObject(); err == nil {
			if d, ok := obj.(Dict); ok {
				table.Trailer = d
			}
		}
	}
	if !table.Trailer.Has("Root") {
		for num, e := range table.Entries {
			p.Seek(int(e.Offset))
			obj, err := p.ParseIndirectObject()
			if err != nil {
				continue
			}
			var d Dict
			switch v := obj.Object.(type) {
			case Dict:
				d = v
			case *Stream:
				d = v.Dict
			}
			if t, _ := d.GetName("Type"); t == "Catalog" {
				table.Trailer["Root"] = IndirectRef{Number: num, Generation: e.Generation}
				break
			}
			if t, _ := d.GetName("Type"); t == "XRef" && d.Has("Root") {
				table.Trailer = d
				break
			}
		}
	}
	if !table.Trailer.Has("Root") {
		return nil, errors.New("no document catalog found")
	}
	return table, nil
}
