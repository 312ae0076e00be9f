package font

import (
	"testing"
)

func TestParseCMapRanges(t *testing.T) {
	cm := ParseCMap([]byte(`begincmap
1 begincodespacerange <00> <FF> endcodespacerange
1 beginbfrange
<20> <22> [<0041> <0042> <00660069>]
<30> <39> <0030>
<F0> <F1> <00FF>
endbfrange
1 beginbfchar <01> /fi endbfchar
endcmap`))

	tests := []struct {
		code uint32
		want string
	}{
		{0x20, "A"},
		{0x22, "fi"},
		{0x35, "5"},
		{0xF1, "Ā"},
		{0x01, "ﬁ"},
	}
	for _, tt := range tests {
		got, ok := cm.Lookup(tt.code)
		if !ok || got != tt.want {
			t.Errorf("Lookup(0x%X) = %q, %v; want %q", tt.code, got, ok, tt.want)
		}
	}
	if _, ok := cm.Lookup(0x99); ok {
		t.Error("unmapped code should not resolve")
	}
}

func TestCMapNextCode(t *testing.T) {
	cm := ParseCMap([]byte(`2 begincodespacerange
<00> <80>
<8140> <FFFF>
endcodespacerange`))
	data := []byte{0x41, 0x81, 0x40, 0x42}
	var codes []uint32
	for len(data) > 0 {
		code, n := cm.NextCode(data, 1)
		codes = append(codes, code)
		data = data[n:]
	}
	want := []uint32{0x41, 0x8140, 0x42}
	if len(codes) != len(want) {
		t.Fatalf("codes = %X, want %X", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("code %d = %X, want %X", i, codes[i], want[i])
		}
	}
}

func TestNilCMap(t *testing.T) {
	var cm *CMap
	if _, ok := cm.Lookup(1); ok {
		t.Error("nil CMap should not resolve")
	}
	if code, n := cm.NextCode([]byte{0x12, 0x34, 0x56}, 2); code != 0x1234 || n != 2 {
		t.Errorf("NextCode = %X, %d", code, n)
	}
}

func TestParseCMapToleratesGarbage(t *testing.T) {
	cm := ParseCMap([]byte("> ) <zz> beginbfchar <41> <0042> endbfchar"))
	if got, ok := cm.Lookup(0x41); !ok || got != "B" {
		t.Errorf("Lookup = %q, %v", got, ok)
	}
}
