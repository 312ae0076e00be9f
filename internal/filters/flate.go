package filters

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// FlateDecode inflates zlib data and applies any predictor
func FlateDecode(data []byte, params Params) ([]byte, error) {
	out, err := inflate(data)
	if err != nil {
		return nil, err
	}
	return applyPredictor(out, params.Normalize())
}

// inflate keeps whatever decompressed cleanly before a corrupt or truncated
// tail; only a stream that yields nothing at all is an error.
func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib header: %w", err)
	}
	defer r.Close()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	if err != nil && buf.Len() == 0 {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	return buf.Bytes(), nil
}

func applyPredictor(data []byte, p Params) ([]byte, error) {
	switch {
	case p.Predictor <= 1:
		return data, nil
	case p.Predictor == 2:
		return tiffPredictor(data, p)
	case p.Predictor >= 10 && p.Predictor <= 15:
		return pngPredictor(data, p)
	}
	return nil, fmt.Errorf("unsupported predictor: %d", p.Predictor)
}

func tiffPredictor(data []byte, p Params) ([]byte, error) {
	if p.BitsPerComponent != 8 {
		return nil, fmt.Errorf("TIFF predictor with %d bits per component", p.BitsPerComponent)
	}
	rowSize := p.Columns * p.Colors
	out := make([]byte, len(data))
	copy(out, data)
	for row := 0; row+rowSize <= len(out); row += rowSize {
		for i := p.Colors; i < rowSize; i++ {
			out[row+i] += out[row+i-p.Colors]
		}
	}
	return out, nil
}

// pngPredictor undoes per-row PNG filtering. Each row carries a leading
// filter-type byte; a short final row is decoded as far as it goes.
func pngPredictor(data []byte, p Params) ([]byte, error) {
	bpp := (p.Colors*p.BitsPerComponent + 7) / 8
	rowLen := (p.Columns*p.Colors*p.BitsPerComponent + 7) / 8
	if rowLen <= 0 {
		return nil, errors.New("invalid predictor row length")
	}

	prev := make([]byte, rowLen)
	out := make([]byte, 0, len(data))
	for pos := 0; pos < len(data); pos += rowLen + 1 {
		filter := data[pos]
		end := pos + 1 + rowLen
		if end > len(data) {
			end = len(data)
		}
		row := make([]byte, rowLen)
		copy(row, data[pos+1:end])
		n := end - pos - 1

		for i := 0; i < n; i++ {
			var left, upLeft byte
			if i >= bpp {
				left = row[i-bpp]
				upLeft = prev[i-bpp]
			}
			up := prev[i]
			switch filter {
			case 0:
			case 1:
				row[i] += left
			case 2:
				row[i] += up
			case 3:
				row[i] += byte((int(left) + int(up)) / 2)
			case 4:
				row[i] += paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("unknown PNG filter type %d", filter)
			}
		}
		out = append(out, row[:n]...)
		prev = row
	}
	return out, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
