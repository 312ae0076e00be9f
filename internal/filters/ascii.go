package filters

import (
	"bytes"
	"fmt"
)

// ASCIIHexDecode decodes hexadecimal data up to the '>' end marker.
// Whitespace is ignored and an odd final digit is padded with zero.
func ASCIIHexDecode(data []byte) ([]byte, error) {
	var out bytes.Buffer
	var hi byte
	half := false
	for _, c := range data {
		if isWhitespace(c) {
			continue
		}
		if c == '>' {
			break
		}
		v, ok := hexDigit(c)
		if !ok {
			return nil, fmt.Errorf("invalid hex digit: %q", c)
		}
		if half {
			out.WriteByte(hi<<4 | v)
		} else {
			hi = v
		}
		half = !half
	}
	if half {
		out.WriteByte(hi << 4)
	}
	return out.Bytes(), nil
}

// ASCII85Decode decodes base-85 data up to the "~>" end marker. 'z' stands
// for four zero bytes; a short final group is padded with 'u'.
func ASCII85Decode(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(bytes.TrimSpace(data), []byte("<~"))

	var out bytes.Buffer
	var group [5]byte
	n := 0
	flush := func(count int) {
		for i := count; i < 5; i++ {
			group[i] = 'u' - '!'
		}
		var v uint32
		for _, d := range group {
			v = v*85 + uint32(d)
		}
		word := []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
		out.Write(word[:count-1])
	}

	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case isWhitespace(c):
			continue
		case c == '~':
			i = len(data)
			continue
		case c == 'z' && n == 0:
			out.Write([]byte{0, 0, 0, 0})
			continue
		case c < '!' || c > 'u':
			return nil, fmt.Errorf("invalid ASCII85 character: %q", c)
		}
		group[n] = c - '!'
		n++
		if n == 5 {
			flush(5)
			n = 0
		}
	}
	if n > 1 {
		flush(n)
	}
	return out.Bytes(), nil
}

// RunLengthDecode decodes the PackBits-style RunLengthDecode filter
func RunLengthDecode(data []byte) ([]byte, error) {
	var out bytes.Buffer
	for i := 0; i < len(data); {
		length := int(data[i])
		i++
		switch {
		case length == 128:
			return out.Bytes(), nil
		case length < 128:
			end := i + length + 1
			if end > len(data) {
				end = len(data)
			}
			out.Write(data[i:end])
			i = end
		default:
			if i >= len(data) {
				return out.Bytes(), nil
			}
			out.Write(bytes.Repeat(data[i:i+1], 257-length))
			i++
		}
	}
	return out.Bytes(), nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}
