package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// BBox is an axis-aligned rectangle in PDF user space
type BBox struct {
	X      float64 // Left
	Y      float64 // Bottom (PDF coordinate system)
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from coordinates
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromPoints creates a bounding box spanning two corners
func NewBBoxFromPoints(p1, p2 Point) BBox {
	return BBox{
		X:      math.Min(p1.X, p2.X),
		Y:      math.Min(p1.Y, p2.Y),
		Width:  math.Abs(p2.X - p1.X),
		Height: math.Abs(p2.Y - p1.Y),
	}
}

// BBoxFromArray reads a PDF rectangle [llx lly urx ury]. The corners may be
// given in any order.
func BBoxFromArray(vals []float64) (BBox, bool) {
	if len(vals) != 4 {
		return BBox{}, false
	}
	return NewBBoxFromPoints(Point{vals[0], vals[1]}, Point{vals[2], vals[3]}), true
}

// Left returns the left edge X coordinate
func (b BBox) Left() float64 { return b.X }

// Right returns the right edge X coordinate
func (b BBox) Right() float64 { return b.X + b.Width }

// Bottom returns the bottom edge Y coordinate
func (b BBox) Bottom() float64 { return b.Y }

// Top returns the top edge Y coordinate
func (b BBox) Top() float64 { return b.Y + b.Height }

// Union returns the smallest box containing both boxes. An empty box is
// the identity element.
func (b BBox) Union(other BBox) BBox {
	if b.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return b
	}
	x := math.Min(b.Left(), other.Left())
	y := math.Min(b.Bottom(), other.Bottom())
	return BBox{
		X:      x,
		Y:      y,
		Width:  math.Max(b.Right(), other.Right()) - x,
		Height: math.Max(b.Top(), other.Top()) - y,
	}
}

// IsEmpty reports a zero-area box
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 && b.Height <= 0
}

// Matrix is a 2D affine transformation [a b c d e f], applied to row
// vectors as PDF does: x' = a*x + c*y + e, y' = b*x + d*y + f.
type Matrix [6]float64

// Identity returns an identity matrix
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// MatrixFromArray builds a matrix from six numbers
func MatrixFromArray(vals []float64) (Matrix, bool) {
	if len(vals) != 6 {
		return Identity(), false
	}
	return Matrix{vals[0], vals[1], vals[2], vals[3], vals[4], vals[5]}, true
}

// Transform applies the matrix transformation to a point
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Multiply returns m × other, i.e. m applied first and other second
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// Translate creates a translation matrix
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale creates a scaling matrix
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// VerticalScale is the length of the transformed unit y vector. For a text
// rendering matrix it is the rendered font size.
func (m Matrix) VerticalScale() float64 {
	return math.Hypot(m[2], m[3])
}

// IsIdentity returns true if the matrix is an identity matrix
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}
