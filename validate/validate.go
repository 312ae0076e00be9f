// Package validate decides whether a file is a readable PDF container.
//
// A file passes when it carries a %PDF- header and either pdfcpu accepts
// it in relaxed validation mode or the module's own reader can open it and
// find its pages. The second parser keeps slightly damaged files, which most
// viewers open without complaint, from being rejected outright. PageCount
// uses the same two parsers.
package validate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdfcomply/format"
	"github.com/tsawler/pdfcomply/reader"
)

// ErrNoHeader is returned for files without a %PDF- marker near the start.
var ErrNoHeader = errors.New("no PDF header")

var disableConfig sync.Once

// relaxed returns a pdfcpu configuration that tolerates common producer
// mistakes and never touches the user's config directory.
func relaxed() *model.Configuration {
	disableConfig.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// IsValid reports whether path is a readable PDF. Every failure, including
// a missing file, is reported as false.
func IsValid(ctx context.Context, path string, log logrus.FieldLogger) bool {
	err := Validate(ctx, path, log)
	if err != nil {
		log.WithError(err).WithField("file", path).Warn("not a valid PDF")
		return false
	}
	return true
}

// Validate returns nil when path is a readable PDF and the reason otherwise.
func Validate(ctx context.Context, path string, log logrus.FieldLogger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkHeader(path, log); err != nil {
		return err
	}

	strictErr := validateStructure(path)
	if strictErr == nil {
		log.WithField("validator", "pdfcpu").Debug("structure validated")
		return nil
	}
	log.WithError(strictErr).Debug("pdfcpu rejected file, trying native reader")

	if err := ctx.Err(); err != nil {
		return err
	}
	r, err := openNative(path)
	if err != nil {
		return fmt.Errorf("pdfcpu: %v; reader: %w", strictErr, err)
	}
	log.WithFields(logrus.Fields{
		"validator": "native",
		"version":   r.Version().String(),
		"rebuilt":   r.Rebuilt(),
	}).Debug("structure validated")
	return nil
}

func checkHeader(path string, log logrus.FieldLogger) error {
	kind, err := format.DetectFile(path)
	if err != nil {
		return err
	}
	if kind != format.PDF {
		return fmt.Errorf("%w: content looks like %s", ErrNoHeader, kind)
	}
	if ext := format.Detect(path); ext != format.PDF {
		log.WithField("extension", ext).Debug("PDF content under a non-PDF name")
	}
	return nil
}

// validateStructure runs pdfcpu. Its validator can panic on hostile input.
func validateStructure(path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdfcpu panic: %v", r)
		}
	}()
	return api.ValidateFile(path, relaxed())
}

func openNative(path string) (*reader.Reader, error) {
	r, err := reader.Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := r.PageCount(); err != nil {
		return nil, err
	}
	return r, nil
}

// PageCount returns the number of pages, asking the native reader first
// and pdfcpu second.
func PageCount(path string) (int, error) {
	r, err := reader.Open(path)
	if err == nil {
		var n int
		if n, err = r.PageCount(); err == nil {
			return n, nil
		}
	}
	n, cpuErr := pageCountPDFCPU(path)
	if cpuErr != nil {
		return 0, fmt.Errorf("reader: %v; pdfcpu: %w", err, cpuErr)
	}
	return n, nil
}

func pageCountPDFCPU(path string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdfcpu panic: %v", r)
		}
	}()
	disableConfig.Do(api.DisableConfigDir)
	return api.PageCountFile(path)
}
