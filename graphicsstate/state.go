package graphicsstate

import (
	"errors"

	"github.com/tsawler/pdfcomply/model"
)

// ErrStackUnderflow is returned by Restore without a matching Save
var ErrStackUnderflow = errors.New("graphics state stack underflow")

// GraphicsState represents the text-related PDF graphics state
type GraphicsState struct {
	// Current Transformation Matrix
	CTM model.Matrix

	Text TextState

	// saved states for q/Q
	stack []saved
}

type saved struct {
	ctm  model.Matrix
	text TextParams
}

// TextParams are the text state parameters that q/Q save and restore
type TextParams struct {
	FontName string
	FontSize float64

	CharSpacing float64 // Tc
	WordSpacing float64 // Tw
	// HorizontalScaling is a percentage (Tz)
	HorizontalScaling float64
	Leading           float64 // TL
	RenderingMode     int     // Tr
	Rise              float64 // Ts
}

// TextState holds the text parameters and the matrices of the current text
// object. The matrices are not part of the saved graphics state.
type TextState struct {
	TextParams

	TextMatrix     model.Matrix
	TextLineMatrix model.Matrix
	InText         bool
}

// NewGraphicsState creates a new graphics state with default values
func NewGraphicsState() *GraphicsState {
	return &GraphicsState{
		CTM: model.Identity(),
		Text: TextState{
			TextParams:     TextParams{HorizontalScaling: 100},
			TextMatrix:     model.Identity(),
			TextLineMatrix: model.Identity(),
		},
	}
}

// Save pushes the current graphics state onto the stack (q operator)
func (gs *GraphicsState) Save() {
	gs.stack = append(gs.stack, saved{ctm: gs.CTM, text: gs.Text.TextParams})
}

// Restore pops a graphics state from the stack (Q operator)
func (gs *GraphicsState) Restore() error {
	if len(gs.stack) == 0 {
		return ErrStackUnderflow
	}
	top := gs.stack[len(gs.stack)-1]
	gs.stack = gs.stack[:len(gs.stack)-1]
	gs.CTM = top.ctm
	gs.Text.TextParams = top.text
	return nil
}

// Depth returns the number of saved states
func (gs *GraphicsState) Depth() int { return len(gs.stack) }

// Concat prepends m to the CTM (cm operator)
func (gs *GraphicsState) Concat(m model.Matrix) {
	gs.CTM = m.Multiply(gs.CTM)
}

// SetFont sets the font resource name and size (Tf operator)
func (gs *GraphicsState) SetFont(name string, size float64) {
	gs.Text.FontName = name
	gs.Text.FontSize = size
}

// BeginText resets both text matrices (BT operator)
func (gs *GraphicsState) BeginText() {
	gs.Text.InText = true
	gs.Text.TextMatrix = model.Identity()
	gs.Text.TextLineMatrix = model.Identity()
}

// EndText ends the text object (ET operator)
func (gs *GraphicsState) EndText() {
	gs.Text.InText = false
}

// SetTextMatrix sets both text matrices (Tm operator)
func (gs *GraphicsState) SetTextMatrix(m model.Matrix) {
	gs.Text.TextMatrix = m
	gs.Text.TextLineMatrix = m
}

// TranslateText starts a new line offset from the current one (Td operator)
func (gs *GraphicsState) TranslateText(tx, ty float64) {
	m := model.Translate(tx, ty).Multiply(gs.Text.TextLineMatrix)
	gs.Text.TextMatrix = m
	gs.Text.TextLineMatrix = m
}

// TranslateTextSetLeading is Td that also sets the leading to -ty (TD operator)
func (gs *GraphicsState) TranslateTextSetLeading(tx, ty float64) {
	gs.Text.Leading = -ty
	gs.TranslateText(tx, ty)
}

// NextLine moves to the start of the next line (T* operator)
func (gs *GraphicsState) NextLine() {
	gs.TranslateText(0, -gs.Text.Leading)
}

// Advance moves the text matrix after a glyph or a TJ adjustment. tx is in
// unscaled text space; horizontal scaling is applied here.
func (gs *GraphicsState) Advance(tx float64) {
	scaled := tx * gs.Text.HorizontalScaling / 100
	gs.Text.TextMatrix = model.Translate(scaled, 0).Multiply(gs.Text.TextMatrix)
}

// GlyphAdvance returns the unscaled advance of one glyph whose width is w0
// for a font size of 1. Word spacing applies only when space is set.
func (gs *GraphicsState) GlyphAdvance(w0 float64, space bool) float64 {
	tx := w0*gs.Text.FontSize + gs.Text.CharSpacing
	if space {
		tx += gs.Text.WordSpacing
	}
	return tx
}

// RenderingMatrix returns the text rendering matrix
// [size*Th 0 0 size 0 rise] × Tm × CTM.
func (gs *GraphicsState) RenderingMatrix() model.Matrix {
	t := gs.Text
	params := model.Matrix{t.FontSize * t.HorizontalScaling / 100, 0, 0, t.FontSize, 0, t.Rise}
	return params.Multiply(t.TextMatrix).Multiply(gs.CTM)
}

// Origin returns the current text position in device space
func (gs *GraphicsState) Origin() model.Point {
	return gs.Text.TextMatrix.Multiply(gs.CTM).Transform(model.Point{})
}

// EffectiveFontSize returns the font size after all transforms
func (gs *GraphicsState) EffectiveFontSize() float64 {
	return gs.RenderingMatrix().VerticalScale()
}
