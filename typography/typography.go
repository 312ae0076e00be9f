// Package typography checks the font size, font family and margins of a
// PDF's first page.
//
// The checks run over glyph samples. The primary sampler is the module's
// own reader, which knows the standard 14 and composite font widths and
// measures the drawn glyph height. When it cannot read the page, or reads
// no glyphs from it, the github.com/ledongthuc/pdf decoder is tried. If
// neither can sample the page, every check fails together.
package typography

import (
	"context"

	"github.com/sirupsen/logrus"
)

// DefaultSamplers are tried in order by Check.
var DefaultSamplers = []Sampler{NativeSampler{}, GlyphSampler{}}

// Check judges the first page of the PDF at path with DefaultSamplers.
func Check(ctx context.Context, path string, log logrus.FieldLogger) (Result, error) {
	return CheckWith(ctx, path, log, DefaultSamplers...)
}

// CheckWith judges the first page using the given samplers in order. The
// first sample with glyphs is judged; a page that every sampler reads as
// empty is judged empty. The error is non-nil only when ctx is done.
func CheckWith(ctx context.Context, path string, log logrus.FieldLogger, samplers ...Sampler) (Result, error) {
	var (
		empty   *PageSample
		emptyBy string
	)
	for _, s := range samplers {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		entry := log.WithField("sampler", s.Name())
		sample, err := s.SampleFirstPage(path)
		if err != nil {
			entry.WithError(err).Warn("first page sampling failed")
			continue
		}
		if len(sample.Glyphs) == 0 {
			entry.Debug("first page has no glyphs")
			if empty == nil {
				empty, emptyBy = &sample, s.Name()
			}
			continue
		}
		return judged(sample, s.Name(), entry), nil
	}
	if empty != nil {
		return judged(*empty, emptyBy, log.WithField("sampler", emptyBy)), nil
	}
	return failed(""), nil
}

func judged(sample PageSample, backend string, log logrus.FieldLogger) Result {
	r := Judge(sample)
	r.Backend = backend
	log.WithFields(logrus.Fields{
		"font_size":   r.FontSize.String(),
		"font_family": r.FontFamily.String(),
		"margin":      r.Margin.String(),
		"fonts":       r.Fonts,
		"sizes":       r.Sizes,
	}).Debug("typography judged")
	return r
}
