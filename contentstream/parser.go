package contentstream

import (
	"bytes"
	"fmt"

	"github.com/tsawler/pdfcomply/core"
)

// Operation represents a single content stream operation consisting of an
// operator and its operands.
type Operation struct {
	Operator string        // The operator (e.g., "Tj", "Tm", "q")
	Operands []core.Object // The operands
}

// Parser parses PDF content streams into a sequence of operations
type Parser struct {
	lexer    *core.Lexer
	objects  *core.Parser
	operands []core.Object
}

// NewParser creates a new content stream parser for the given data
func NewParser(data []byte) *Parser {
	return &Parser{
		lexer:   core.NewLexer(data),
		objects: core.NewParser(data),
	}
}

// Parse parses the content stream and returns all operations in order
func (p *Parser) Parse() ([]Operation, error) {
	var ops []Operation
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return ops, err
		}
		if tok.Type == core.TokenEOF {
			return ops, nil
		}

		if tok.Type == core.TokenKeyword {
			switch word := string(tok.Value); word {
			case "true", "false", "null":
			case "BI":
				if err := p.skipInlineImage(); err != nil {
					return ops, err
				}
				p.operands = p.operands[:0]
				ops = append(ops, Operation{Operator: "BI"})
				continue
			default:
				ops = append(ops, Operation{
					Operator: word,
					Operands: append([]core.Object(nil), p.operands...),
				})
				p.operands = p.operands[:0]
				continue
			}
		}

		// rewind and let the object parser read composite operands
		p.objects.Seek(tok.Pos)
		obj, err := p.objects.ParseObject()
		if err != nil {
			return ops, fmt.Errorf("operand at position %d: %w", tok.Pos, err)
		}
		p.lexer.Seek(p.objects.Pos())
		p.operands = append(p.operands, obj)
	}
}

// skipInlineImage moves past "ID <data> EI". EI only counts when it is
// surrounded by whitespace, since the binary data may contain the letters.
func (p *Parser) skipInlineImage() error {
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return err
		}
		if tok.Type == core.TokenEOF {
			return fmt.Errorf("inline image without ID")
		}
		if tok.Type == core.TokenKeyword && string(tok.Value) == "ID" {
			break
		}
	}

	data := p.lexer.Data()
	start := p.lexer.Pos() + 1
	for i := start; i+2 <= len(data); i++ {
		if !bytes.HasPrefix(data[i:], []byte("EI")) {
			continue
		}
		before := i == 0 || isWhitespace(data[i-1])
		after := i+2 == len(data) || isWhitespace(data[i+2])
		if before && after {
			p.lexer.Seek(i + 2)
			return nil
		}
	}
	return fmt.Errorf("inline image without EI")
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}
