package filters

// LZWDecode decodes the PDF variant of LZW: MSB-first codes of 9 to 12 bits,
// 256 = clear table, 257 = end of data. With EarlyChange (the default) the
// code width grows one code early, which compress/lzw cannot express.
func LZWDecode(data []byte, params Params) ([]byte, error) {
	p := params.Normalize()
	out := lzwDecode(data, p.EarlyChange)
	return applyPredictor(out, p)
}

func lzwDecode(data []byte, earlyChange int) []byte {
	const (
		clearCode = 256
		eodCode   = 257
	)

	var (
		table  [][]byte
		width  = 9
		bitBuf uint32
		bitLen int
		pos    int
		prev   []byte
		out    []byte
	)
	reset := func() {
		table = table[:0]
		for i := 0; i < 256; i++ {
			table = append(table, []byte{byte(i)})
		}
		table = append(table, nil, nil)
		width = 9
		prev = nil
	}
	reset()

	for {
		for bitLen < width && pos < len(data) {
			bitBuf = bitBuf<<8 | uint32(data[pos])
			bitLen += 8
			pos++
		}
		if bitLen < width {
			return out
		}
		code := int(bitBuf>>(bitLen-width)) & (1<<width - 1)
		bitLen -= width

		switch {
		case code == clearCode:
			reset()
			continue
		case code == eodCode:
			return out
		}

		var entry []byte
		switch {
		case code < len(table) && table[code] != nil:
			entry = table[code]
		case code == len(table) && prev != nil:
			entry = append(append([]byte{}, prev...), prev[0])
		default:
			return out
		}
		out = append(out, entry...)

		if prev != nil && len(table) < 4096 {
			next := append(append([]byte{}, prev...), entry[0])
			table = append(table, next)
		}
		prev = entry

		if len(table)+earlyChange >= 1<<width && width < 12 {
			width++
		}
	}
}
