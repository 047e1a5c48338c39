// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns report documents into plain text with pluggable
// backends.
package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/brsr-extractor/internal/container"
	"github.com/pdiddy/brsr-extractor/pkg/types"
)

// Converter transforms a document into plain text. Different backends
// (in-process PDF decoding, markitdown) implement this interface.
type Converter interface {
	// Convert reads the document at path and returns its text.
	Convert(ctx context.Context, path string) (string, error)
}

// Document is the acquired text of one report.
type Document struct {
	// Path is the source file.
	Path string
	// Name is the file name without extension. It is the default company
	// name for the extracted record.
	Name string
	// Text is the decoded plain text.
	Text string
}

// DocumentName returns the file name of path without its extension.
func DocumentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Acquire converts the document at path. Blank output is a failure: the
// document is most likely scanned, encrypted or empty.
func Acquire(ctx context.Context, c Converter, path string) (Document, error) {
	text, err := c.Convert(ctx, path)
	if err != nil {
		return Document{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Document{}, fmt.Errorf("no text extracted from %s", path)
	}
	return Document{
		Path: path,
		Name: DocumentName(path),
		Text: text,
	}, nil
}

// New returns the converter selected by cfg. The markitdown backend detects
// a container runtime and checks the image before returning.
func New(cfg types.ConversionConfig, log *zap.Logger) (Converter, error) {
	switch cfg.Backend {
	case "", types.BackendPDF:
		return NewPDFConverter(log), nil
	case types.BackendMarkitdown:
		rt, err := container.Detect(cfg.Runtime)
		if err != nil {
			return nil, err
		}
		return NewMarkitdownConverter(rt)
	default:
		return nil, fmt.Errorf("unsupported backend %q: use %s or %s", cfg.Backend, types.BackendPDF, types.BackendMarkitdown)
	}
}
