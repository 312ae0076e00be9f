package sections

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdfcomply/reader"
)

// PageSource yields the plain text of a document's pages. *reader.Reader
// implements it.
type PageSource interface {
	PageCount() (int, error)
	PageText(index int) (string, error)
}

var _ PageSource = (*reader.Reader)(nil)

// Scan opens the PDF at path with the native reader and detects its
// sections.
func Scan(ctx context.Context, path string, log logrus.FieldLogger) ([]Section, error) {
	r, err := reader.Open(path)
	if err != nil {
		return nil, err
	}
	return DetectFrom(ctx, r, log)
}

// DetectFrom reads every page of src and detects sections. A page whose
// text cannot be extracted counts as an empty page, so it still belongs to
// the current section. The context is checked between pages.
func DetectFrom(ctx context.Context, src PageSource, log logrus.FieldLogger) ([]Section, error) {
	n, err := src.PageCount()
	if err != nil {
		return nil, fmt.Errorf("count pages: %w", err)
	}

	texts := make([]string, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := src.PageText(i)
		if err != nil {
			log.WithError(err).WithField("page", i+1).Warn("page text unavailable")
			continue
		}
		texts[i] = text
	}

	secs := Detect(texts)
	log.WithFields(logrus.Fields{
		"pages":    n,
		"sections": len(secs),
	}).Debug("sections detected")
	return secs, nil
}
