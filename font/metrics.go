package font

import "strings"

// Metrics holds the built-in vertical metrics of a standard font family in
// glyph space (thousandths of an em).
type Metrics struct {
	Ascent  float64
	Descent float64
}

var standardMetrics = map[string]Metrics{
	"Times":        {Ascent: 683, Descent: -217},
	"Helvetica":    {Ascent: 718, Descent: -207},
	"Courier":      {Ascent: 629, Descent: -157},
	"Symbol":       {Ascent: 1010, Descent: -293},
	"ZapfDingbats": {Ascent: 820, Descent: -143},
}

// standard family aliases, including the names Windows producers use
var familyAliases = []struct{ prefix, family string }{
	{"TimesNewRoman", "Times"},
	{"Times", "Times"},
	{"Arial", "Helvetica"},
	{"Helvetica", "Helvetica"},
	{"CourierNew", "Courier"},
	{"Courier", "Courier"},
	{"Symbol", "Symbol"},
	{"ZapfDingbats", "ZapfDingbats"},
}

// StandardFamily returns the standard 14 family a base font name belongs to,
// ignoring any subset tag ("ABCDEF+") and spaces.
func StandardFamily(baseFont string) (string, bool) {
	name := StripSubsetTag(baseFont)
	name = strings.ReplaceAll(name, " ", "")
	for _, a := range familyAliases {
		if strings.HasPrefix(name, a.prefix) {
			return a.family, true
		}
	}
	return "", false
}

// StandardMetrics returns built-in ascent and descent for a standard family
func StandardMetrics(baseFont string) (Metrics, bool) {
	family, ok := StandardFamily(baseFont)
	if !ok {
		return Metrics{}, false
	}
	return standardMetrics[family], true
}

// StripSubsetTag removes a six-letter subset prefix such as "ABCDEF+"
func StripSubsetTag(name string) string {
	if len(name) > 7 && name[6] == '+' {
		for i := 0; i < 6; i++ {
			if name[i] < 'A' || name[i] > 'Z' {
				return name
			}
		}
		return name[7:]
	}
	return name
}

// widths of printable ASCII (32-126) in the standard fonts
var (
	timesASCII = [95]float64{
		250, 333, 408, 500, 500, 833, 778, 333, 333, 333, 500, 564, 250, 333, 250, 278,
		500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 278, 278, 564, 564, 564, 444,
		921, 722, 667, 667, 722, 611, 556, 722, 722, 333, 389, 722, 611, 889, 722, 722,
		556, 722, 667, 556, 611, 722, 722, 944, 722, 722, 611, 333, 278, 333, 469, 500,
		333, 444, 500, 444, 500, 444, 333, 500, 500, 278, 278, 500, 278, 778, 500, 500,
		500, 500, 333, 389, 278, 500, 500, 722, 500, 500, 444, 480, 200, 480, 541,
	}
	helveticaASCII = [95]float64{
		278, 278, 355, 556, 556, 889, 667, 222, 333, 333, 389, 584, 278, 333, 278, 278,
		556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556,
		1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778,
		667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556,
		222, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556,
		556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584,
	}
)

// standardWidth returns the glyph-space width of r in a standard family
func standardWidth(family string, r rune) float64 {
	switch family {
	case "Courier":
		return 600
	case "Times":
		if r >= 32 && r <= 126 {
			return timesASCII[r-32]
		}
		return 500
	case "Helvetica":
		if r >= 32 && r <= 126 {
			return helveticaASCII[r-32]
		}
		return 556
	}
	return 500
}
