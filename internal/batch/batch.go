// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch drives extraction over one report or a directory of
// reports: acquire the text, extract the record, print a preview and upsert
// it into the table. Documents are processed one at a time.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/brsr-extractor/internal/convert"
	"github.com/pdiddy/brsr-extractor/internal/extract"
	"github.com/pdiddy/brsr-extractor/internal/table"
	"github.com/pdiddy/brsr-extractor/pkg/types"
)

// Summary counts what a run did.
type Summary struct {
	Found   int
	Added   int
	Updated int
	Failed  int
}

// Runner wires the pipeline stages together.
type Runner struct {
	Converter convert.Converter
	Extractor *extract.Extractor
	Store     *table.Store

	// Extension selects documents in directory mode. Empty means ".pdf".
	Extension string

	// Log receives diagnostics. Nil means no logging.
	Log *zap.Logger

	// Out receives progress, previews and the summary. Nil means discard.
	Out io.Writer
}

// skipError marks a document whose text could not be acquired. The run
// continues past it.
type skipError struct {
	path string
	err  error
}

func (e *skipError) Error() string { return fmt.Sprintf("skipping %s: %v", e.path, e.err) }
func (e *skipError) Unwrap() error { return e.err }

func (r *Runner) log() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return io.Discard
	}
	return r.Out
}

// Process handles path as a batch when it is a directory and as a single
// document otherwise. The returned error is set only for fatal failures: a
// missing input, a cancelled context or a table that cannot be written.
// Documents that could not be read are counted in Summary.Failed.
func (r *Runner) Process(ctx context.Context, path string) (Summary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Summary{}, fmt.Errorf("reading input %s: %w", path, err)
	}
	if info.IsDir() {
		return r.Batch(ctx, path)
	}
	return r.Single(ctx, path)
}

// Single processes one document.
func (r *Runner) Single(ctx context.Context, path string) (Summary, error) {
	s := Summary{Found: 1}
	if err := ctx.Err(); err != nil {
		return s, err
	}
	if err := r.document(ctx, path, &s); err != nil {
		return s, err
	}
	return s, nil
}

// Batch processes every document under dir in walk order. A document whose
// text cannot be acquired is skipped; a table write failure stops the run.
// ctx is checked before each document.
func (r *Runner) Batch(ctx context.Context, dir string) (Summary, error) {
	ext := r.Extension
	if ext == "" {
		ext = types.DefaultExtension
	}
	docs, err := ListDocuments(dir, ext)
	if err != nil {
		return Summary{}, err
	}

	w := r.out()
	s := Summary{Found: len(docs)}
	banner := strings.Repeat("#", 60)
	fmt.Fprintf(w, "\n%s\n# BATCH PROCESSING: %d %s files found\n%s\n", banner, len(docs), strings.TrimPrefix(strings.ToUpper(ext), "."), banner)
	r.log().Info("batch started", zap.String("dir", dir), zap.Int("documents", len(docs)))

	for i, path := range docs {
		if err := ctx.Err(); err != nil {
			r.log().Warn("batch interrupted", zap.Int("processed", i), zap.Int("documents", len(docs)))
			return s, err
		}
		fmt.Fprintf(w, "\n[%d/%d] Processing: %s\n", i+1, len(docs), filepath.Base(path))
		if err := r.document(ctx, path, &s); err != nil {
			return s, err
		}
	}

	WriteSummary(w, s, r.Store.Path())
	r.log().Info("batch finished",
		zap.Int("added", s.Added),
		zap.Int("updated", s.Updated),
		zap.Int("failed", s.Failed))
	return s, nil
}

// document runs one report through the pipeline and updates s. It returns
// an error only when the table could not be written.
func (r *Runner) document(ctx context.Context, path string, s *Summary) error {
	err := r.extractAndStore(ctx, path, s)
	var skip *skipError
	if errors.As(err, &skip) {
		s.Failed++
		r.log().Warn("skipping document", zap.String("document", path), zap.Error(skip.err))
		fmt.Fprintf(r.out(), "  x Skipped %s: %v\n", filepath.Base(path), skip.err)
		return nil
	}
	return err
}

func (r *Runner) extractAndStore(ctx context.Context, path string, s *Summary) error {
	doc, err := convert.Acquire(ctx, r.Converter, path)
	if err != nil {
		return &skipError{path: path, err: err}
	}

	rec, outcomes := r.Extractor.ExtractDetailed(doc.Text, doc.Name)
	w := r.out()
	WritePreview(w, rec)
	fmt.Fprintf(w, "Tables matched: %d/%d\n", extract.Matched(outcomes), len(outcomes))

	action, err := r.Store.Upsert(rec)
	if err != nil {
		return fmt.Errorf("storing %s: %w", rec.Company, err)
	}
	switch action {
	case table.Added:
		s.Added++
		fmt.Fprintf(w, "  Added %s to %s\n", rec.Company, r.Store.Path())
	case table.Updated:
		s.Updated++
		fmt.Fprintf(w, "  Updated %s in %s\n", rec.Company, r.Store.Path())
	}
	r.log().Debug("document processed",
		zap.String("document", path),
		zap.String("company", rec.Company),
		zap.String("action", string(action)))
	return nil
}

// WriteSummary prints the end-of-batch block.
func WriteSummary(w io.Writer, s Summary, output string) {
	fmt.Fprintf(w, "\n%s\nBATCH PROCESSING COMPLETE\n", rule)
	fmt.Fprintf(w, "  Documents: %d\n", s.Found)
	fmt.Fprintf(w, "  Added:     %d\n", s.Added)
	fmt.Fprintf(w, "  Updated:   %d\n", s.Updated)
	fmt.Fprintf(w, "  Failed:    %d\n", s.Failed)
	fmt.Fprintf(w, "  Output:    %s\n%s\n", output, rule)
}
