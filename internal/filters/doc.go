// Package filters implements the PDF stream decoding filters the reader
// needs to get at page content: FlateDecode and LZWDecode (with PNG and TIFF
// predictors), ASCIIHexDecode, ASCII85Decode, RunLengthDecode and
// CCITTFaxDecode.
//
// Decoders are lenient. Truncated Flate or LZW data yields whatever was
// decoded before the damage, because a partly readable content stream is
// more useful to a text scanner than none at all.
//
//	decoded, err := filters.Decode("FlateDecode", data, filters.Params{Predictor: 12, Columns: 5})
package filters
