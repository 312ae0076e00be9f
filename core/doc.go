// Package core provides the low-level PDF object model and parser.
//
// # Object Types
//
// The eight PDF object types satisfy the [Object] interface: [Null], [Bool],
// [Int], [Real], [String], [Name], [Array] and [Dict]. [Stream] pairs a
// dictionary with encoded data and [IndirectRef] points at an indirect
// object.
//
// # Parsing
//
// [Lexer] and [Parser] work over an in-memory buffer. Whole files are small
// enough to hold in memory for compliance scanning, and random access makes
// "num gen R" lookahead and stream recovery straightforward.
//
//	p := core.NewParser(data)
//	p.Seek(offset)
//	obj, err := p.ParseIndirectObject()
//
// # Cross-Reference Data
//
// [LoadXRef] follows the startxref chain through classic tables and xref
// streams (including hybrid files). [RebuildXRef] scans for object headers
// when that chain is damaged. Compressed objects live in an [ObjectStream].
package core
