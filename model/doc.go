// Package model holds the geometry shared by the PDF layers: points,
// rectangles in PDF user space (origin bottom-left, y up) and the 2D affine
// matrices used for the CTM and the text matrices.
package model
