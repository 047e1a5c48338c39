// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// progressEvery is the page interval for progress logging.
const progressEvery = 50

// PDFConverter decodes the embedded text layer of a PDF in-process. Scanned
// (image-only) reports have no text layer and yield no text.
type PDFConverter struct {
	log *zap.Logger
}

var _ Converter = (*PDFConverter)(nil)

// NewPDFConverter returns an in-process PDF converter. A nil logger is
// replaced with a no-op logger.
func NewPDFConverter(log *zap.Logger) *PDFConverter {
	if log == nil {
		log = zap.NewNop()
	}
	return &PDFConverter{log: log}
}

// Convert returns the text of every page, each followed by a newline.
// Null pages are skipped; a page that cannot be decoded fails the document.
// ctx is checked between pages.
func (c *PDFConverter) Convert(ctx context.Context, path string) (text string, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("decoding PDF %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	total := r.NumPage()
	log := c.log.With(zap.String("document", path))
	log.Debug("extracting text", zap.Int("pages", total))

	fonts := make(map[string]*pdf.Font)
	var b strings.Builder
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		pageText, err := p.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("reading page %d of %s: %w", i, path, err)
		}
		b.WriteString(pageText)
		b.WriteByte('\n')

		if i%progressEvery == 0 {
			log.Debug("extraction progress", zap.Int("page", i), zap.Int("pages", total))
		}
	}

	return b.String(), nil
}
