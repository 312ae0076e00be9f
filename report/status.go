package report

import (
	"encoding/json"
	"fmt"
)

// Status is the outcome of a single check.
type Status int

const (
	// NotApplicable marks a section that has no configured limit
	NotApplicable Status = iota
	Pass
	Fail
)

// String returns the label used in serialized reports.
func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	}
	return "n/a"
}

// ParseStatus converts a serialized label back to a Status.
func ParseStatus(label string) (Status, error) {
	switch label {
	case "pass":
		return Pass, nil
	case "fail":
		return Fail, nil
	case "n/a":
		return NotApplicable, nil
	}
	return NotApplicable, fmt.Errorf("unknown status %q", label)
}

// StatusOf returns Pass when ok is true and Fail otherwise.
func StatusOf(ok bool) Status {
	if ok {
		return Pass
	}
	return Fail
}

// MarshalJSON implements json.Marshaler.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Status) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	v, err := ParseStatus(label)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
