// Package sections detects heading-delimited sections in a PDF and counts
// the pages each one spans.
//
// Detection is a single forward pass over the lines of every page. A line
// is a heading when it is a capitalized label ending in a colon ("Skills:")
// or is entirely upper case ("WORK EXPERIENCE"). Headings are normalized to
// lower-case letters and single spaces, and the normalized name is the key
// page limits are matched against.
package sections
