package core

import (
	"fmt"

	"github.com/tsawler/pdfcomply/internal/filters"
)

// Decode applies the stream's /Filter chain and returns the decoded bytes.
// A stream without filters returns its raw data.
func (s *Stream) Decode() ([]byte, error) {
	names, params := s.filterChain()
	data := s.Data
	for i, name := range names {
		var err error
		data, err = filters.Decode(name, data, params[i])
		if err != nil {
			return nil, fmt.Errorf("filter %d (%s): %w", i, name, err)
		}
	}
	return data, nil
}

// filterChain pairs each filter name with its decode parameters. /DecodeParms
// may be a single dictionary or an array parallel to /Filter.
func (s *Stream) filterChain() ([]string, []filters.Params) {
	var names []string
	switch f := s.Dict.Get("Filter").(type) {
	case Name:
		names = []string{string(f)}
	case Array:
		for _, item := range f {
			if n, ok := item.(Name); ok {
				names = append(names, string(n))
			}
		}
	}

	params := make([]filters.Params, len(names))
	switch dp := s.Dict.Get("DecodeParms").(type) {
	case Dict:
		if len(params) > 0 {
			params[0] = toParams(dp)
		}
	case Array:
		for i := range params {
			if d, ok := dp.Get(i).(Dict); ok {
				params[i] = toParams(d)
			}
		}
	}
	return names, params
}

func toParams(d Dict) filters.Params {
	intOf := func(key string) int {
		n, _ := d.GetNumber(key)
		return int(n)
	}
	p := filters.Params{
		Predictor:        intOf("Predictor"),
		Columns:          intOf("Columns"),
		Colors:           intOf("Colors"),
		BitsPerComponent: intOf("BitsPerComponent"),
		K:                intOf("K"),
		Rows:             intOf("Rows"),
	}
	if _, ok := d.GetNumber("EarlyChange"); ok {
		p.HasEarlyChange = true
		p.EarlyChange = intOf("EarlyChange")
	}
	if b, ok := d.Get("BlackIs1").(Bool); ok {
		p.BlackIs1 = bool(b)
	}
	return p
}
