// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table persists extracted records as a flat CSV file, one row per
// company, and merges new records into it with upsert semantics.
//
// Every upsert loads the whole table, replaces or appends one row in memory
// and rewrites the whole file. There is no locking: one writer process at a
// time.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/renameio/v2"
	"go.uber.org/zap"

	"github.com/pdiddy/brsr-extractor/pkg/types"
)

// Row is one persisted row: header name to raw, unparsed cell value.
type Row map[string]string

// Company returns the row's company cell.
func (r Row) Company() string { return r[types.CompanyField] }

// Action reports what Upsert did.
type Action string

const (
	Added   Action = "added"
	Updated Action = "updated"
)

// ErrNoCompany is returned when a row without a company value has to be
// turned into a typed record.
var ErrNoCompany = errors.New("row has no company")

// Store is a CSV table at a fixed path.
type Store struct {
	path string
	log  *zap.Logger
}

// Open returns a Store for path. The file is not touched until Load or
// Upsert. A nil logger is replaced with a no-op logger.
func Open(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{path: path, log: log}
}

// Path returns the table location.
func (s *Store) Path() string { return s.path }

// Load reads every row in file order. A missing file is an empty table.
func (s *Store) Load() ([]Row, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening table %s: %w", s.path, err)
	}
	defer f.Close()

	rows, err := readRows(f)
	if err != nil {
		return nil, fmt.Errorf("reading table %s: %w", s.path, err)
	}
	return rows, nil
}

func readRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// find returns the index of the first row whose company matches
// case-insensitively after trimming, or -1.
func find(rows []Row, company string) int {
	key := types.Key(company)
	for i, r := range rows {
		if types.Key(r.Company()) == key {
			return i
		}
	}
	return -1
}

// Merge replaces the row for rec's company in place, or appends one. The
// replacement is a full overwrite of the row, not a field merge.
func Merge(rows []Row, rec types.Record) ([]Row, Action) {
	row := Row(rec.Map())
	if i := find(rows, rec.Company); i >= 0 {
		rows[i] = row
		return rows, Updated
	}
	return append(rows, row), Added
}

// Upsert merges rec into the persisted table and rewrites it.
func (s *Store) Upsert(rec types.Record) (Action, error) {
	rows, err := s.Load()
	if err != nil {
		return "", err
	}

	rows, action := Merge(rows, rec)
	if err := s.Write(rows); err != nil {
		return "", err
	}

	s.log.Debug("table row written",
		zap.String("company", rec.Company),
		zap.String("action", string(action)),
		zap.Int("rows", len(rows)))
	return action, nil
}

// Write replaces the table with rows under the canonical header. Columns not
// in the header are dropped; header columns a row lacks are written empty.
// The rows are synced to a temporary file that is renamed over the table, so
// a crash leaves either the old or the new table. An existing table keeps its
// permissions; a new one is created 0644.
func (s *Store) Write(rows []Row) error {
	header := types.Header()
	known := make(map[string]bool, len(header))
	for _, h := range header {
		known[h] = true
	}

	pf, err := renameio.NewPendingFile(s.path,
		renameio.WithPermissions(0o644),
		renameio.WithExistingPermissions())
	if err != nil {
		return fmt.Errorf("creating temporary table for %s: %w", s.path, err)
	}
	defer pf.Cleanup()

	w := csv.NewWriter(pf)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	dropped := map[string]bool{}
	line := make([]string, len(header))
	for _, r := range rows {
		for i, h := range header {
			line[i] = r[h]
		}
		for k := range r {
			if !known[k] {
				dropped[k] = true
			}
		}
		if err := w.Write(line); err != nil {
			return fmt.Errorf("writing row %q: %w", r.Company(), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replacing table %s: %w", s.path, err)
	}

	for k := range dropped {
		s.log.Warn("dropping unknown table column", zap.String("column", k))
	}
	return nil
}

// Records parses every row into a typed record, in table order.
func (s *Store) Records() ([]types.Record, error) {
	rows, err := s.Load()
	if err != nil {
		return nil, err
	}
	out := make([]types.Record, 0, len(rows))
	for i, r := range rows {
		rec, err := ParseRow(r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ParseRow converts a raw row into a typed record.
func ParseRow(r Row) (types.Record, error) {
	company := strings.TrimSpace(r.Company())
	if company == "" {
		return types.Record{}, ErrNoCompany
	}
	rec := types.NewRecord(company)
	for _, f := range types.Schema {
		if err := rec.Set(f.Name, r[f.Name]); err != nil {
			return types.Record{}, fmt.Errorf("company %q: %w", company, err)
		}
	}
	return rec, nil
}
