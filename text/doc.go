// Package text extracts positioned text from PDF content streams.
//
// The [Extractor] runs a page's content stream (and the form XObjects it
// draws) against a graphics state and emits one [Fragment] per shown string
// segment, carrying the font's base name, the rendered size, the baseline
// origin, the advance width and the descent:
//
//	ex := text.NewExtractor(reader)
//	frags, err := ex.Extract(content, resources)
//	lines := text.AssembleLines(frags)
//
// [AssembleLines] groups fragments that share a baseline into reading
// lines and inserts a space wherever the gap between two fragments is wide
// enough to be a word break.
package text
