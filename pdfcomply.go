// Package pdfcomply checks PDF documents against simple formatting and
// structure rules and reports the outcome as pass/fail statuses.
//
// Three checks run over a document. The container check gates the other
// two: a file that is not a readable PDF gets a report with a failed
// "file_type" and nothing else. The typography check looks at the first
// page for 12pt text, a Times font and one-inch margins. Section detection
// finds heading lines across all pages and counts the pages under each,
// comparing the counts with caller-supplied limits.
//
// Basic usage:
//
//	rep, err := pdfcomply.Analyze(ctx, "resume.pdf", map[string]int{"summary": 1})
//	if err != nil {
//	    // the file could not be read at all
//	}
//	data, _ := json.Marshal(rep)
//
// With options:
//
//	analysis, err := pdfcomply.Open("report.pdf").
//	    Preset("report").
//	    Limits(map[string]int{"appendix": 4}).
//	    WithLogger(logger).
//	    Analyze()
//
// The returned report.Analysis carries the report together with the page
// count and typography details that the exporters in package report print.
package pdfcomply

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdfcomply/report"
	"github.com/tsawler/pdfcomply/sections"
	"github.com/tsawler/pdfcomply/typography"
	"github.com/tsawler/pdfcomply/validate"
)

// ErrNoFile is returned when no file name was given.
var ErrNoFile = errors.New("no file specified")

// Analyze runs every check on the PDF at path. Limits are keyed by
// normalized section name ("executive summary") and used as given; use
// package limits to normalize keys from other sources.
//
// Malformed documents are reported through the statuses, never as errors.
// The error is non-nil only when the file cannot be read or ctx is done.
func Analyze(ctx context.Context, path string, limits map[string]int) (report.Report, error) {
	a, err := run(ctx, path, limits, discardLogger(), time.Now)
	if err != nil {
		return report.Report{}, err
	}
	return a.Report, nil
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	rep := pdfcomply.Must(pdfcomply.Analyze(ctx, "document.pdf", nil))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

func run(ctx context.Context, path string, limits map[string]int, log logrus.FieldLogger, now func() time.Time) (*report.Analysis, error) {
	if path == "" {
		return nil, ErrNoFile
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("failed to open file: %s is a directory", path)
	}

	log = log.WithField("file", path)
	a := &report.Analysis{
		File:      path,
		Size:      info.Size(),
		Limits:    limits,
		Generated: now(),
	}

	if !validate.IsValid(ctx, path, log.WithField("check", "file_type")) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a.Report = report.Invalid()
		log.WithField("check", "file_type").Debug("file rejected")
		return a, nil
	}

	typo, err := typography.Check(ctx, path, log.WithField("check", "typography"))
	if err != nil {
		return nil, err
	}
	a.Details = typo.Details()
	a.Report.Format = report.Format{
		FileType:   report.Pass,
		FontSize:   typo.FontSize,
		FontFamily: typo.FontFamily,
		Margin:     typo.Margin,
	}

	secLog := log.WithField("check", "sections")
	secs, err := sections.Scan(ctx, path, secLog)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		secLog.WithError(err).Warn("section scan failed")
	}
	a.Report.Content = sections.Evaluate(secs, limits)

	if n, err := validate.PageCount(path); err == nil {
		a.Pages = n
	} else {
		log.WithError(err).Debug("page count unavailable")
	}

	log.WithFields(logrus.Fields{
		"pages":    a.Pages,
		"sections": len(a.Report.Content),
	}).Debug("analysis complete")
	return a, nil
}
