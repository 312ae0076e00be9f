// Package contentstream splits PDF content streams into operations.
//
// A content stream is a postfix program: operands are pushed until an
// operator consumes them.
//
//	ops, err := contentstream.NewParser(data).Parse()
//	for _, op := range ops {
//	    fmt.Println(op.Operator, op.Operands)
//	}
//
// Inline images (BI ... ID ... EI) are skipped and reported as a single
// "BI" operation without operands so their binary payload never reaches the
// operand stack. Parsing is tolerant: on malformed input the operations read
// so far are returned together with the error.
package contentstream
