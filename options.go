package pdfcomply

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdfcomply/limits"
)

// Options holds the configuration of an Analyzer.
type Options struct {
	limits limits.Map // nil means no limits: every section is "n/a"
	logger logrus.FieldLogger
	now    func() time.Time
}

// defaultOptions returns the default analysis options.
func defaultOptions() Options {
	return Options{
		limits: nil,
		logger: discardLogger(),
		now:    time.Now,
	}
}

// clone creates a deep copy of Options.
func (o Options) clone() Options {
	newOpts := Options{
		logger: o.logger,
		now:    o.now,
	}
	if o.limits != nil {
		newOpts.limits = limits.Merge(o.limits)
	}
	return newOpts
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
