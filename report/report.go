package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Format holds the fixed formatting checks. The typography fields are only
// meaningful when FileType is Pass; a failed file serializes FileType alone.
type Format struct {
	FileType   Status
	FontSize   Status
	FontFamily Status
	Margin     Status
}

// Section is the content entry of one detected section.
type Section struct {
	Name   string // normalized, e.g. "executive summary"
	Pages  int    // distinct pages attributed to the section
	Status Status
}

// Key returns the section's key in serialized reports ("executive_summary").
func (s Section) Key() string {
	return strings.ReplaceAll(s.Name, " ", "_")
}

// Report is the result of one compliance analysis. Content keeps the order
// in which sections were discovered.
type Report struct {
	Format  Format
	Content []Section
}

// Invalid returns the report for a file that is not a readable PDF.
func Invalid() Report {
	return Report{Format: Format{FileType: Fail}}
}

// Valid reports whether the file passed the container check.
func (r Report) Valid() bool {
	return r.Format.FileType == Pass
}

// Entry is one key/value pair of a report group in serialized order. Value
// is a Status, or an int for "<section>_pages" keys.
type Entry struct {
	Key   string
	Value any
}

// FormatEntries returns the format group in serialized order.
func (r Report) FormatEntries() []Entry {
	entries := []Entry{{"file_type", r.Format.FileType}}
	if !r.Valid() {
		return entries
	}
	return append(entries,
		Entry{"font_size", r.Format.FontSize},
		Entry{"font_family", r.Format.FontFamily},
		Entry{"margin", r.Format.Margin},
	)
}

// ContentEntries returns the content group in serialized order.
func (r Report) ContentEntries() []Entry {
	entries := make([]Entry, 0, 2*len(r.Content))
	for _, s := range r.Content {
		key := s.Key()
		entries = append(entries, Entry{key + "_pages", s.Pages}, Entry{key, s.Status})
	}
	return entries
}

// Section returns the content entry for a normalized section name.
func (r Report) Section(name string) (Section, bool) {
	for _, s := range r.Content {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// Map returns the report as a plain nested map, the shape consumers that
// pattern-match on the report expect.
func (r Report) Map() map[string]map[string]any {
	out := map[string]map[string]any{"format": {}, "content": {}}
	for _, e := range r.FormatEntries() {
		out["format"][e.Key] = e.Value.(Status).String()
	}
	for _, e := range r.ContentEntries() {
		if s, ok := e.Value.(Status); ok {
			out["content"][e.Key] = s.String()
		} else {
			out["content"][e.Key] = e.Value
		}
	}
	return out
}

// MarshalJSON writes the report with its keys in report order. encoding/json
// sorts map keys, which would separate each section's two entries.
func (r Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"format":`)
	if err := writeObject(&buf, r.FormatEntries()); err != nil {
		return nil, err
	}
	buf.WriteString(`,"content":`)
	if err := writeObject(&buf, r.ContentEntries()); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeObject(buf *bytes.Buffer, entries []Entry) error {
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return err
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return nil
}

// UnmarshalJSON reads a serialized report back. Content keys ending in
// "_pages" carry counts; every other content key is a section status.
func (r *Report) UnmarshalJSON(data []byte) error {
	var raw struct {
		Format  map[string]Status `json:"format"`
		Content json.RawMessage   `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Report{Format: Format{
		FileType:   raw.Format["file_type"],
		FontSize:   raw.Format["font_size"],
		FontFamily: raw.Format["font_family"],
		Margin:     raw.Format["margin"],
	}}
	if len(raw.Content) == 0 || string(raw.Content) == "null" {
		return nil
	}

	// walk tokens to keep the section order
	dec := json.NewDecoder(bytes.NewReader(raw.Content))
	if _, err := dec.Token(); err != nil {
		return err
	}
	index := map[string]int{}
	section := func(key string) *Section {
		i, ok := index[key]
		if !ok {
			i = len(r.Content)
			index[key] = i
			r.Content = append(r.Content, Section{Name: strings.ReplaceAll(key, "_", " ")})
		}
		return &r.Content[i]
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return err
		}
		// a section may itself end in "pages", so the value type decides
		if bytes.HasPrefix(val, []byte(`"`)) {
			var s Status
			if err := json.Unmarshal(val, &s); err != nil {
				return err
			}
			section(key).Status = s
			continue
		}
		var n int
		if err := json.Unmarshal(val, &n); err != nil {
			return fmt.Errorf("content key %q: %w", key, err)
		}
		section(strings.TrimSuffix(key, "_pages")).Pages = n
	}
	return nil
}
