// Package limits holds the page limits that detected sections are checked
// against: built-in presets, JSON loading and key normalization.
package limits

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tsawler/pdfcomply/sections"
)

// ErrInvalidLimit is returned for a limit that is not a positive integer
// or whose name has no letters.
var ErrInvalidLimit = errors.New("invalid page limit")

// Map maps normalized section names to a maximum page count.
type Map map[string]int

// Normalize turns a limit key into the section name it applies to.
// Underscores separate words, so "executive_summary" and "Executive Summary"
// both become "executive summary".
func Normalize(key string) string {
	return sections.Normalize(strings.ReplaceAll(key, "_", " "))
}

// New builds a normalized Map. When two keys normalize to the same name the
// one that sorts last wins, so the result does not depend on map order.
func New(raw map[string]int) (Map, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := make(Map, len(raw))
	for _, k := range keys {
		v := raw[k]
		name := Normalize(k)
		if name == "" {
			return nil, fmt.Errorf("%w: %q has no letters", ErrInvalidLimit, k)
		}
		if v <= 0 {
			return nil, fmt.Errorf("%w: %q must be positive, got %d", ErrInvalidLimit, k, v)
		}
		m[name] = v
	}
	return m, nil
}

// Parse reads a JSON object of section name to page limit.
func Parse(data []byte) (Map, error) {
	var raw map[string]json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse limits: %w", err)
	}
	ints := make(map[string]int, len(raw))
	for k, n := range raw {
		v, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: %q is %s, want an integer", ErrInvalidLimit, k, n)
		}
		ints[k] = int(v)
	}
	return New(ints)
}

// Load reads a JSON limits file.
func Load(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read limits: %w", err)
	}
	return Parse(data)
}

// Merge combines maps; later maps override earlier ones.
func Merge(maps ...Map) Map {
	out := Map{}
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// Names returns the section names in sorted order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// String formats the map as "name=N" pairs in name order.
func (m Map) String() string {
	if len(m) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(m))
	for _, k := range m.Names() {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, ", ")
}
