package core

import (
	"strings"
	"testing"
)

func TestParseObject(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"null", "null"},
		{"true", "true"},
		{"42", "42"},
		{"-3.25", "-3.25"},
		{"/Font", "/Font"},
		{"(text)", "text"},
		{"[1 2 0 R /X]", "[1 2 0 R /X]"},
		{"<< /B 2 /A 1 >>", "<</A 1 /B 2>>"},
		{"<< /A null /B 1 >>", "<</B 1>>"},
		{"12 0 R", "12 0 R"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			obj, err := NewParser([]byte(tt.input)).ParseObject()
			if err != nil {
				t.Fatalf("ParseObject: %v", err)
			}
			if obj.String() != tt.want {
				t.Errorf("got %s, want %s", obj.String(), tt.want)
			}
		})
	}
}

func TestParseIntegersWithoutReference(t *testing.T) {
	p := NewParser([]byte("[1 2 3]"))
	obj, err := p.ParseObject()
	if err != nil {
		t.Fatalf("ParseObject: %v", err)
	}
	arr := obj.(Array)
	if len(arr) != 3 {
		t.Fatalf("got %d elements, want 3", len(arr))
	}
	for i, want := range []Int{1, 2, 3} {
		if arr[i] != want {
			t.Errorf("element %d = %v, want %v", i, arr[i], want)
		}
	}
}

func TestParseIndirectObjectStream(t *testing.T) {
	input := "7 0 obj\n<< /Length 5 >>\nstream\r\nHELLO\nendstream\nendobj\n"
	obj, err := NewParser([]byte(input)).ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject: %v", err)
	}
	if obj.Ref.Number != 7 || obj.Ref.Generation != 0 {
		t.Errorf("ref = %v", obj.Ref)
	}
	s, ok := obj.Object.(*Stream)
	if !ok {
		t.Fatalf("got %T, want *Stream", obj.Object)
	}
	if string(s.Data) != "HELLO" {
		t.Errorf("data = %q", s.Data)
	}
}

func TestParseStreamWrongLength(t *testing.T) {
	input := "1 0 obj\n<< /Length 99 >>\nstream\nABC\nendstream\nendobj"
	obj, err := NewParser([]byte(input)).ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject: %v", err)
	}
	if got := string(obj.Object.(*Stream).Data); got != "ABC" {
		t.Errorf("data = %q, want %q", got, "ABC")
	}
}

type mapResolver map[int]Object

func (m mapResolver) ResolveReference(ref IndirectRef) (Object, error) {
	return m[ref.Number], nil
}

func TestParseStreamIndirectLength(t *testing.T) {
	input := "1 0 obj\n<< /Length 2 0 R >>\nstream\nAB endstream\nendobj"
	p := NewParser([]byte(input))
	p.SetReferenceResolver(mapResolver{2: Int(2)})
	obj, err := p.ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject: %v", err)
	}
	if got := string(obj.Object.(*Stream).Data); got != "AB" {
		t.Errorf("data = %q, want %q", got, "AB")
	}
}

func TestParseNestingLimit(t *testing.T) {
	input := strings.Repeat("[", maxNesting+5) + strings.Repeat("]", maxNesting+5)
	if _, err := NewParser([]byte(input)).ParseObject(); err == nil {
		t.Error("expected nesting error")
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"", "<< 1 2 >>", "[1 2", "endobj"} {
		if _, err := NewParser([]byte(input)).ParseObject(); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestDictHelpers(t *testing.T) {
	d := Dict{"N": Int(3), "R": Real(1.5), "Name": Name("X"), "Arr": Array{Int(1), Real(2.5)}}
	if n, ok := d.GetNumber("N"); !ok || n != 3 {
		t.Errorf("GetNumber(N) = %v, %v", n, ok)
	}
	if n, ok := d.GetNumber("R"); !ok || n != 1.5 {
		t.Errorf("GetNumber(R) = %v, %v", n, ok)
	}
	if _, ok := d.GetNumber("Name"); ok {
		t.Error("GetNumber on a name should fail")
	}
	arr, _ := d.GetArray("Arr")
	f, ok := arr.Floats()
	if !ok || f[0] != 1 || f[1] != 2.5 {
		t.Errorf("Floats = %v, %v", f, ok)
	}
	if _, ok := (Array{Name("x")}).Floats(); ok {
		t.Error("Floats should reject names")
	}
}
