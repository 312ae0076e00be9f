package core

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// maxNesting bounds array/dictionary depth so hostile files cannot exhaust the stack
const maxNesting = 256

// ReferenceResolver resolves indirect references. The parser needs one to
// read streams whose /Length is itself an indirect object.
type ReferenceResolver interface {
	ResolveReference(ref IndirectRef) (Object, error)
}

// Parser parses PDF objects from a byte buffer. Because the whole buffer is
// available, lookahead for "num gen R" is done by rewinding the lexer rather
// than by keeping a token queue.
type Parser struct {
	lexer    *Lexer
	resolver ReferenceResolver
	depth    int
}

// NewParser creates a parser over data, positioned at offset 0
func NewParser(data []byte) *Parser {
	return &Parser{lexer: NewLexer(data)}
}

// SetReferenceResolver sets the resolver used for indirect stream lengths
func (p *Parser) SetReferenceResolver(resolver ReferenceResolver) {
	p.resolver = resolver
}

// Seek moves the parser to an absolute offset
func (p *Parser) Seek(offset int) { p.lexer.Seek(offset) }

// Pos returns the current offset
func (p *Parser) Pos() int { return p.lexer.Pos() }

// ParseObject parses the next direct object or indirect reference
func (p *Parser) ParseObject() (Object, error) {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return nil, err
	}
	return p.parseFrom(tok)
}

func (p *Parser) parseFrom(tok Token) (Object, error) {
	switch tok.Type {
	case TokenEOF:
		return nil, errors.New("unexpected end of input")
	case TokenKeyword:
		switch string(tok.Value) {
		case "null":
			return Null{}, nil
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return nil, fmt.Errorf("unexpected keyword %q at position %d", tok.Value, tok.Pos)
	case TokenInteger:
		return p.parseInteger(tok), nil
	case TokenReal:
		f, err := strconv.ParseFloat(string(tok.Value), 64)
		if err != nil {
			// malformed reals such as "-.": treat as zero like most readers do
			return Real(0), nil
		}
		return Real(f), nil
	case TokenString, TokenHexString:
		return String(tok.Value), nil
	case TokenName:
		return Name(tok.Value), nil
	case TokenArrayStart:
		return p.parseArray()
	case TokenDictStart:
		return p.parseDict()
	}
	return nil, fmt.Errorf("unexpected token %q at position %d", tok.Value, tok.Pos)
}

// parseInteger returns an Int or, when followed by "gen R", an IndirectRef
func (p *Parser) parseInteger(tok Token) Object {
	first, err := strconv.ParseInt(string(tok.Value), 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(string(tok.Value), 64)
		if ferr != nil {
			return Int(0)
		}
		return Real(f)
	}

	mark := p.lexer.Pos()
	second, err := p.lexer.NextToken()
	if err == nil && second.Type == TokenInteger {
		third, err := p.lexer.NextToken()
		if err == nil && third.Type == TokenIndirectRef {
			gen, _ := strconv.Atoi(string(second.Value))
			return IndirectRef{Number: int(first), Generation: gen}
		}
	}
	p.lexer.Seek(mark)
	return Int(first)
}

func (p *Parser) parseArray() (Object, error) {
	if p.depth++; p.depth > maxNesting {
		return nil, errors.New("array nesting too deep")
	}
	defer func() { p.depth-- }()

	arr := Array{}
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenArrayEnd:
			return arr, nil
		case TokenEOF:
			return nil, errors.New("unexpected EOF in array")
		}
		obj, err := p.parseFrom(tok)
		if err != nil {
			return nil, fmt.Errorf("array element: %w", err)
		}
		arr = append(arr, obj)
	}
}

func (p *Parser) parseDict() (Object, error) {
	if p.depth++; p.depth > maxNesting {
		return nil, errors.New("dictionary nesting too deep")
	}
	defer func() { p.depth-- }()

	dict := Dict{}
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenDictEnd:
			return dict, nil
		case TokenEOF:
			return nil, errors.New("unexpected EOF in dictionary")
		case TokenName:
		default:
			return nil, fmt.Errorf("expected name for dictionary key at position %d, got %q", tok.Pos, tok.Value)
		}
		key := string(tok.Value)

		valTok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}
		if valTok.Type == TokenDictEnd {
			// key without value; treat as null and close
			dict[key] = Null{}
			return dict, nil
		}
		value, err := p.parseFrom(valTok)
		if err != nil {
			return nil, fmt.Errorf("dictionary value for /%s: %w", key, err)
		}
		if _, isNull := value.(Null); !isNull {
			dict[key] = value
		}
	}
}

// ParseIndirectObject parses "num gen obj <object> endobj", including a
// trailing stream body when the object is a stream.
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	numTok, err := p.lexer.NextToken()
	if err != nil {
		return nil, err
	}
	genTok, err := p.lexer.NextToken()
	if err != nil {
		return nil, err
	}
	objTok, err := p.lexer.NextToken()
	if err != nil {
		return nil, err
	}
	if numTok.Type != TokenInteger || genTok.Type != TokenInteger ||
		objTok.Type != TokenKeyword || string(objTok.Value) != "obj" {
		return nil, fmt.Errorf("expected object header at position %d", numTok.Pos)
	}
	num, _ := strconv.Atoi(string(numTok.Value))
	gen, _ := strconv.Atoi(string(genTok.Value))

	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("object %d %d: %w", num, gen, err)
	}

	mark := p.lexer.Pos()
	next, err := p.lexer.NextToken()
	if err != nil {
		return nil, err
	}
	if next.Type == TokenKeyword && string(next.Value) == "stream" {
		dict, ok := obj.(Dict)
		if !ok {
			return nil, fmt.Errorf("object %d %d: stream must follow a dictionary", num, gen)
		}
		stream, err := p.parseStream(dict)
		if err != nil {
			return nil, fmt.Errorf("object %d %d: %w", num, gen, err)
		}
		obj = stream
		mark = p.lexer.Pos()
		next, _ = p.lexer.NextToken()
	}
	if next.Type != TokenKeyword || string(next.Value) != "endobj" {
		// missing endobj is common in damaged files; leave the lexer where it was
		p.lexer.Seek(mark)
	}

	return &IndirectObject{Ref: IndirectRef{Number: num, Generation: gen}, Object: obj}, nil
}

// parseStream reads stream data after the "stream" keyword. When /Length is
// missing, unresolvable or wrong, the data runs to the next "endstream".
func (p *Parser) parseStream(dict Dict) (*Stream, error) {
	p.lexer.SkipStreamEOL()
	start := p.lexer.Pos()
	data := p.lexer.Data()

	length := -1
	switch v := dict.Get("Length").(type) {
	case Int:
		length = int(v)
	case IndirectRef:
		if p.resolver != nil {
			if resolved, err := p.resolver.ResolveReference(v); err == nil {
				if n, ok := resolved.(Int); ok {
					length = int(n)
				}
			}
		}
	}

	if length >= 0 && start+length <= len(data) {
		p.lexer.Seek(start + length)
		mark := p.lexer.Pos()
		tok, err := p.lexer.NextToken()
		if err == nil && tok.Type == TokenKeyword && string(tok.Value) == "endstream" {
			return &Stream{Dict: dict, Data: data[start : start+length]}, nil
		}
		p.lexer.Seek(mark)
	}

	idx := bytes.Index(data[start:], []byte("endstream"))
	if idx < 0 {
		return nil, errors.New("stream without endstream")
	}
	end := start + idx
	p.lexer.Seek(end + len("endstream"))
	// strip the EOL that precedes endstream
	if end > start && data[end-1] == '\n' {
		end--
	}
	if end > start && data[end-1] == '\r' {
		end--
	}
	return &Stream{Dict: dict, Data: data[start:end]}, nil
}
