// Package graphicsstate tracks the parts of the PDF graphics state that
// position text: the current transformation matrix, the text state
// parameters and the text and text line matrices, with q/Q save and
// restore.
//
// The text rendering matrix combines them. Its vertical scale is the font
// size a glyph is actually drawn at, which is what typography checks read.
package graphicsstate
