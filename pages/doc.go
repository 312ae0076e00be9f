// Package pages walks the PDF page tree.
//
// [NewPageTree] flattens the tree under the catalog's /Pages entry into
// document order. Inheritable attributes (Resources, MediaBox, CropBox,
// Rotate) are carried down from every ancestor, with the nearest definition
// winning. Damaged trees are handled leniently: a missing /Type is inferred
// from the presence of /Kids, and cycles are cut.
package pages
