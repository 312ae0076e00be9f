package core

import (
	"bytes"
	"fmt"
)

// TokenType represents the type of token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenKeyword     // true, false, null, obj, endobj, stream, endstream, etc.
	TokenInteger     // 123
	TokenReal        // 3.14
	TokenString      // (hello)
	TokenHexString   // <48656C6C6F>
	TokenName        // /Type
	TokenArrayStart  // [
	TokenArrayEnd    // ]
	TokenDictStart   // <<
	TokenDictEnd     // >>
	TokenIndirectRef // R (after two numbers)
)

// Token represents a lexical token. Value holds the decoded payload: string
// bytes with escapes resolved, name bytes without the slash and with #xx
// escapes resolved, or the literal text of numbers and keywords.
type Token struct {
	Type  TokenType
	Value []byte
	Pos   int
}

// Lexer tokenizes PDF syntax from an in-memory buffer. Comments are skipped.
type Lexer struct {
	data []byte
	pos  int
}

// NewLexer creates a lexer positioned at the start of data
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// Pos returns the current byte offset
func (l *Lexer) Pos() int { return l.pos }

// Seek moves the lexer to an absolute offset
func (l *Lexer) Seek(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(l.data) {
		pos = len(l.data)
	}
	l.pos = pos
}

// Data returns the underlying buffer
func (l *Lexer) Data() []byte { return l.data }

// NextToken returns the next token from the input
func (l *Lexer) NextToken() (Token, error) {
	l.skipSpaceAndComments()
	if l.pos >= len(l.data) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	b := l.data[l.pos]
	switch b {
	case '[':
		l.pos++
		return Token{Type: TokenArrayStart, Value: []byte{'['}, Pos: start}, nil
	case ']':
		l.pos++
		return Token{Type: TokenArrayEnd, Value: []byte{']'}, Pos: start}, nil
	case '(':
		return l.readString()
	case '<':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
			l.pos += 2
			return Token{Type: TokenDictStart, Value: []byte("<<"), Pos: start}, nil
		}
		return l.readHexString()
	case '>':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '>' {
			l.pos += 2
			return Token{Type: TokenDictEnd, Value: []byte(">>"), Pos: start}, nil
		}
		return Token{}, fmt.Errorf("unexpected '>' at position %d", l.pos)
	case '/':
		return l.readName(), nil
	case '{', '}':
		// PostScript calculator braces only appear in type 4 functions
		l.pos++
		return Token{Type: TokenKeyword, Value: []byte{b}, Pos: start}, nil
	}

	if isDigit(b) || b == '-' || b == '+' || b == '.' {
		return l.readNumber(), nil
	}

	return l.readKeyword(), nil
}

func (l *Lexer) skipSpaceAndComments() {
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isWhitespace(b) {
			l.pos++
			continue
		}
		if b == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		return
	}
}

// readString reads a literal string (hello), resolving escapes and nesting
func (l *Lexer) readString() (Token, error) {
	start := l.pos
	l.pos++ // (
	var buf bytes.Buffer
	depth := 1
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		l.pos++
		switch b {
		case '(':
			depth++
			buf.WriteByte(b)
		case ')':
			depth--
			if depth == 0 {
				return Token{Type: TokenString, Value: buf.Bytes(), Pos: start}, nil
			}
			buf.WriteByte(b)
		case '\\':
			l.readEscape(&buf)
		case '\r':
			// EOL inside a string is read as a single LF
			if l.pos < len(l.data) && l.data[l.pos] == '\n' {
				l.pos++
			}
			buf.WriteByte('\n')
		default:
			buf.WriteByte(b)
		}
	}
	return Token{}, fmt.Errorf("unterminated string starting at position %d", start)
}

func (l *Lexer) readEscape(buf *bytes.Buffer) {
	if l.pos >= len(l.data) {
		return
	}
	next := l.data[l.pos]
	l.pos++
	switch next {
	case 'n':
		buf.WriteByte('\n')
	case 'r':
		buf.WriteByte('\r')
	case 't':
		buf.WriteByte('\t')
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case '\r':
		if l.pos < len(l.data) && l.data[l.pos] == '\n' {
			l.pos++
		}
	case '\n':
		// line continuation
	default:
		if isOctalDigit(next) {
			val := int(next - '0')
			for i := 0; i < 2 && l.pos < len(l.data) && isOctalDigit(l.data[l.pos]); i++ {
				val = val*8 + int(l.data[l.pos]-'0')
				l.pos++
			}
			buf.WriteByte(byte(val))
			return
		}
		buf.WriteByte(next)
	}
}

// readHexString reads <48656C6C6F>. An odd trailing digit is padded with 0.
func (l *Lexer) readHexString() (Token, error) {
	start := l.pos
	l.pos++ // <
	var digits []byte
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		l.pos++
		if b == '>' {
			if len(digits)%2 == 1 {
				digits = append(digits, '0')
			}
			out := make([]byte, len(digits)/2)
			for i := range out {
				out[i] = hexValue(digits[2*i])<<4 | hexValue(digits[2*i+1])
			}
			return Token{Type: TokenHexString, Value: out, Pos: start}, nil
		}
		if isWhitespace(b) {
			continue
		}
		if !isHexDigit(b) {
			return Token{}, fmt.Errorf("invalid hex digit '%c' at position %d", b, l.pos-1)
		}
		digits = append(digits, b)
	}
	return Token{}, fmt.Errorf("unterminated hex string starting at position %d", start)
}

func (l *Lexer) readName() Token {
	start := l.pos
	l.pos++ // /
	var buf bytes.Buffer
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isWhitespace(b) || isDelimiter(b) {
			break
		}
		l.pos++
		if b == '#' && l.pos+1 < len(l.data) && isHexDigit(l.data[l.pos]) && isHexDigit(l.data[l.pos+1]) {
			buf.WriteByte(hexValue(l.data[l.pos])<<4 | hexValue(l.data[l.pos+1]))
			l.pos += 2
			continue
		}
		buf.WriteByte(b)
	}
	return Token{Type: TokenName, Value: buf.Bytes(), Pos: start}
}

func (l *Lexer) readNumber() Token {
	start := l.pos
	hasDecimal := false
	for ; l.pos < len(l.data); l.pos++ {
		b := l.data[l.pos]
		if b == '.' && !hasDecimal {
			hasDecimal = true
			continue
		}
		if isDigit(b) || ((b == '-' || b == '+') && l.pos == start) {
			continue
		}
		break
	}
	tokenType := TokenInteger
	if hasDecimal {
		tokenType = TokenReal
	}
	return Token{Type: tokenType, Value: l.data[start:l.pos], Pos: start}
}

func (l *Lexer) readKeyword() Token {
	start := l.pos
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isWhitespace(b) || isDelimiter(b) {
			break
		}
		l.pos++
	}
	if l.pos == start {
		// stray delimiter such as ')'; consume it so callers make progress
		l.pos++
	}
	value := l.data[start:l.pos]
	if len(value) == 1 && value[0] == 'R' {
		return Token{Type: TokenIndirectRef, Value: value, Pos: start}
	}
	return Token{Type: TokenKeyword, Value: value, Pos: start}
}

// SkipStreamEOL consumes the end-of-line marker that must follow the
// "stream" keyword: CRLF or LF, and tolerates a lone CR.
func (l *Lexer) SkipStreamEOL() {
	for l.pos < len(l.data) && (l.data[l.pos] == ' ' || l.data[l.pos] == '\t') {
		l.pos++
	}
	if l.pos < len(l.data) && l.data[l.pos] == '\r' {
		l.pos++
	}
	if l.pos < len(l.data) && l.data[l.pos] == '\n' {
		l.pos++
	}
}

// ReadBytes returns the next n bytes, or fewer at end of input
func (l *Lexer) ReadBytes(n int) []byte {
	end := l.pos + n
	if end > len(l.data) || n < 0 {
		end = len(l.data)
	}
	out := l.data[l.pos:end]
	l.pos = end
	return out
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
