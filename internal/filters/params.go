package filters

import "fmt"

// Params holds the /DecodeParms entries the supported filters understand.
// Zero values mean "not given"; Normalize fills in the defaults.
type Params struct {
	Predictor        int
	Columns          int
	Colors           int
	BitsPerComponent int
	EarlyChange      int
	HasEarlyChange   bool

	// CCITT
	K        int
	Rows     int
	BlackIs1 bool
}

// Normalize returns a copy with PDF defaults applied
func (p Params) Normalize() Params {
	if p.Predictor == 0 {
		p.Predictor = 1
	}
	if p.Columns == 0 {
		p.Columns = 1
	}
	if p.Colors == 0 {
		p.Colors = 1
	}
	if p.BitsPerComponent == 0 {
		p.BitsPerComponent = 8
	}
	if !p.HasEarlyChange {
		p.EarlyChange = 1
	}
	return p
}

// Decode applies the named filter. Abbreviated names from inline images are
// accepted. Image-only codecs (DCT, JPX, JBIG2) pass data through unchanged
// since their payload is never text.
func Decode(name string, data []byte, params Params) ([]byte, error) {
	switch name {
	case "FlateDecode", "Fl":
		return FlateDecode(data, params)
	case "LZWDecode", "LZW":
		return LZWDecode(data, params)
	case "ASCIIHexDecode", "AHx":
		return ASCIIHexDecode(data)
	case "ASCII85Decode", "A85":
		return ASCII85Decode(data)
	case "RunLengthDecode", "RL":
		return RunLengthDecode(data)
	case "CCITTFaxDecode", "CCF":
		return CCITTFaxDecode(data, params)
	case "DCTDecode", "DCT", "JPXDecode", "JBIG2Decode":
		return data, nil
	}
	return nil, fmt.Errorf("unsupported filter: %s", name)
}
