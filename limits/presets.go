package limits

import (
	"fmt"
	"sort"
)

// presets are the document types offered out of the box
var presets = map[string]map[string]int{
	"resume": {
		"skills":     2,
		"experience": 3,
		"education":  1,
		"summary":    1,
	},
	"report": {
		"executive_summary": 2,
		"methodology":       3,
		"results":           5,
		"appendix":          10,
	},
}

// Preset returns the normalized limits of a named preset.
func Preset(name string) (Map, error) {
	raw, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (have %v)", name, PresetNames())
	}
	return New(raw)
}

// PresetNames lists the available presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
