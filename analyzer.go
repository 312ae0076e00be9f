package pdfcomply

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdfcomply/limits"
	"github.com/tsawler/pdfcomply/report"
)

// Analyzer provides a fluent interface for configuring an analysis.
// Each configuration method returns a new Analyzer instance, so a
// configured Analyzer can be shared and extended safely.
type Analyzer struct {
	filename string
	options  Options

	// Accumulated error (fail-fast)
	err error
}

// Open returns an Analyzer for the PDF at filename. Nothing is read until
// Analyze is called.
//
// Example:
//
//	analysis, err := pdfcomply.Open("document.pdf").Analyze()
func Open(filename string) *Analyzer {
	return &Analyzer{
		filename: filename,
		options:  defaultOptions(),
	}
}

// clone creates a copy of the Analyzer with a deep copy of options.
func (a *Analyzer) clone() *Analyzer {
	return &Analyzer{
		filename: a.filename,
		options:  a.options.clone(),
		err:      a.err,
	}
}

// ============================================================================
// Configuration Methods (return new Analyzer instance)
// ============================================================================

// Limits adds page limits. Keys are normalized, so "executive_summary" and
// "Executive Summary" both limit the "executive summary" section. Later
// calls override earlier limits for the same section. A non-positive limit
// makes Analyze fail with limits.ErrInvalidLimit.
//
// Example:
//
//	analysis, err := pdfcomply.Open("cv.pdf").Limits(map[string]int{"skills": 1}).Analyze()
func (a *Analyzer) Limits(m map[string]int) *Analyzer {
	newA := a.clone()
	normalized, err := limits.New(m)
	if err != nil {
		if newA.err == nil {
			newA.err = err
		}
		return newA
	}
	newA.options.limits = limits.Merge(newA.options.limits, normalized)
	return newA
}

// Preset adds the limits of a named preset (see limits.PresetNames).
//
// Example:
//
//	analysis, err := pdfcomply.Open("cv.pdf").Preset("resume").Analyze()
func (a *Analyzer) Preset(name string) *Analyzer {
	newA := a.clone()
	preset, err := limits.Preset(name)
	if err != nil {
		if newA.err == nil {
			newA.err = err
		}
		return newA
	}
	newA.options.limits = limits.Merge(newA.options.limits, preset)
	return newA
}

// WithLogger sends the analysis log to logger. By default nothing is logged.
func (a *Analyzer) WithLogger(logger logrus.FieldLogger) *Analyzer {
	newA := a.clone()
	if logger == nil {
		logger = discardLogger()
	}
	newA.options.logger = logger
	return newA
}

// withClock sets the time source for Analysis.Generated.
func (a *Analyzer) withClock(now func() time.Time) *Analyzer {
	newA := a.clone()
	newA.options.now = now
	return newA
}

// ============================================================================
// Terminal Methods
// ============================================================================

// Analyze runs the analysis with a background context.
func (a *Analyzer) Analyze() (*report.Analysis, error) {
	return a.AnalyzeContext(context.Background())
}

// AnalyzeContext runs the analysis. The checks stop early when ctx is done.
func (a *Analyzer) AnalyzeContext(ctx context.Context) (*report.Analysis, error) {
	if a.err != nil {
		return nil, a.err
	}
	return run(ctx, a.filename, a.options.limits, a.options.logger, a.options.now)
}

// Report runs the analysis and returns only the report.
func (a *Analyzer) Report() (report.Report, error) {
	analysis, err := a.Analyze()
	if err != nil {
		return report.Report{}, err
	}
	return analysis.Report, nil
}
