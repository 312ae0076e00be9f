package contentstream

import (
	"testing"

	"github.com/tsawler/pdfcomply/core"
)

func TestParseTextObject(t *testing.T) {
	input := []byte(`BT
/F1 12 Tf
72 720 Td
(Hello \(World\)) Tj
[(A) -250 (B)] TJ
ET`)
	ops, err := NewParser(input).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []string{"BT", "Tf", "Td", "Tj", "TJ", "ET"}
	if len(ops) != len(want) {
		t.Fatalf("expected %d operations, got %d", len(want), len(ops))
	}
	for i, op := range want {
		if ops[i].Operator != op {
			t.Errorf("operation %d: expected %q, got %q", i, op, ops[i].Operator)
		}
	}

	if name, ok := ops[1].Operands[0].(core.Name); !ok || name != "F1" {
		t.Errorf("Tf font operand = %v", ops[1].Operands[0])
	}
	if size, ok := ops[1].Operands[1].(core.Int); !ok || size != 12 {
		t.Errorf("Tf size operand = %v", ops[1].Operands[1])
	}
	if s, ok := ops[3].Operands[0].(core.String); !ok || string(s) != "Hello (World)" {
		t.Errorf("Tj operand = %v", ops[3].Operands[0])
	}
	arr, ok := ops[4].Operands[0].(core.Array)
	if !ok || len(arr) != 3 {
		t.Fatalf("TJ operand = %v", ops[4].Operands[0])
	}
	if n, ok := arr[1].(core.Int); !ok || n != -250 {
		t.Errorf("TJ adjustment = %v", arr[1])
	}
}

func TestParseOperandKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		op    string
		check func(core.Object) bool
	}{
		{"real", "1.5 w", "w", func(o core.Object) bool { return o == core.Real(1.5) }},
		{"hex", "<48 69> Tj", "Tj", func(o core.Object) bool { s, ok := o.(core.String); return ok && string(s) == "Hi" }},
		{"dict", "/Span <</MCID 3>> BDC", "BDC", func(o core.Object) bool {
			d, ok := o.(core.Dict)
			if !ok {
				return false
			}
			n, _ := d.GetInt("MCID")
			return n == 3
		}},
		{"bool", "true Tx", "Tx", func(o core.Object) bool { return o == core.Bool(true) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := NewParser([]byte(tt.input)).Parse()
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if len(ops) != 1 || ops[0].Operator != tt.op {
				t.Fatalf("got %+v", ops)
			}
			last := ops[0].Operands[len(ops[0].Operands)-1]
			if !tt.check(last) {
				t.Errorf("unexpected operand %#v", last)
			}
		})
	}
}

func TestParseQuoteOperators(t *testing.T) {
	ops, err := NewParser([]byte(`(a) ' 1 2 (b) "`)).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(ops) != 2 || ops[0].Operator != "'" || ops[1].Operator != `"` {
		t.Fatalf("got %+v", ops)
	}
	if len(ops[1].Operands) != 3 {
		t.Errorf("expected 3 operands for \", got %d", len(ops[1].Operands))
	}
}

func TestParseSkipsInlineImage(t *testing.T) {
	input := []byte("q BI /W 2 /H 1 /BPC 8 /CS /G ID \x00EI\xff EI Q (x) Tj")
	ops, err := NewParser(input).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []string{"q", "BI", "Q", "Tj"}
	if len(ops) != len(want) {
		t.Fatalf("got %d operations: %+v", len(ops), ops)
	}
	for i, op := range want {
		if ops[i].Operator != op {
			t.Errorf("operation %d: expected %q, got %q", i, op, ops[i].Operator)
		}
	}
}

func TestParseOperandsDoNotLeak(t *testing.T) {
	ops, err := NewParser([]byte("1 0 0 1 5 5 cm Q")).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(ops[0].Operands) != 6 || len(ops[1].Operands) != 0 {
		t.Errorf("operand counts = %d, %d", len(ops[0].Operands), len(ops[1].Operands))
	}

	// a second parser starts with an empty stack
	ops, _ = NewParser([]byte("Q")).Parse()
	if len(ops[0].Operands) != 0 {
		t.Errorf("operands leaked between parsers: %v", ops[0].Operands)
	}
}

func TestParseReturnsPartialOnError(t *testing.T) {
	ops, err := NewParser([]byte("q (unterminated")).Parse()
	if err == nil {
		t.Fatal("expected error")
	}
	if len(ops) != 1 || ops[0].Operator != "q" {
		t.Errorf("expected the q operation before the error, got %+v", ops)
	}
}
