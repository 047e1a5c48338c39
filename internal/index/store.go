// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index mirrors the extraction table into a SQLite database so that
// companies can be looked up and searched without rescanning the CSV.
// The CSV table stays the source of truth; Sync makes the mirror match it.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/brsr-extractor/pkg/types"
)

// ErrNotFound is returned by Lookup when no company matches.
var ErrNotFound = errors.New("company not found in index")

// Store is the SQLite mirror.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewStore opens or creates the database at path and its schema.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS companies (
			key TEXT PRIMARY KEY,
			company TEXT NOT NULL,
			synced_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS field_values (
			key TEXT NOT NULL REFERENCES companies(key) ON DELETE CASCADE,
			field TEXT NOT NULL,
			kind TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (key, field)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_field_values_field ON field_values(field)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SyncSummary holds counts from one Sync.
type SyncSummary struct {
	Indexed   int
	Updated   int
	Unchanged int
	Removed   int
}

// Sync makes the mirror hold exactly recs. Companies are matched by
// types.Key; a changed record replaces every stored value. Companies no
// longer in recs are removed. The whole sync is one transaction.
func (s *Store) Sync(ctx context.Context, recs []types.Record) (SyncSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SyncSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var summary SyncSummary
	seen := make(map[string]bool, len(recs))
	syncedAt := s.now().UTC().Format(time.RFC3339)

	for _, rec := range recs {
		key := types.Key(rec.Company)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		old, err := lookup(ctx, tx, key)
		switch {
		case errors.Is(err, ErrNotFound):
			summary.Indexed++
		case err != nil:
			return SyncSummary{}, err
		case old.Equal(rec):
			summary.Unchanged++
			continue
		default:
			summary.Updated++
		}

		if err := upsert(ctx, tx, key, rec, syncedAt); err != nil {
			return SyncSummary{}, err
		}
	}

	removed, err := prune(ctx, tx, seen)
	if err != nil {
		return SyncSummary{}, err
	}
	summary.Removed = removed

	if err := tx.Commit(); err != nil {
		return SyncSummary{}, fmt.Errorf("committing sync: %w", err)
	}
	return summary, nil
}

func upsert(ctx context.Context, tx *sql.Tx, key string, rec types.Record, syncedAt string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO companies (key, company, synced_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET company=excluded.company, synced_at=excluded.synced_at`,
		key, rec.Company, syncedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting company %s: %w", rec.Company, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO field_values (key, field, kind, value) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key, field) DO UPDATE SET kind=excluded.kind, value=excluded.value`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range types.Schema {
		if _, err := stmt.ExecContext(ctx, key, f.Name, f.Kind.String(), rec.Format(f)); err != nil {
			return fmt.Errorf("inserting %s for %s: %w", f.Name, rec.Company, err)
		}
	}
	return nil
}

func prune(ctx context.Context, tx *sql.Tx, keep map[string]bool) (int, error) {
	rows, err := tx.QueryContext(ctx, `SELECT key FROM companies`)
	if err != nil {
		return 0, fmt.Errorf("listing companies: %w", err)
	}
	var stale []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning company: %w", err)
		}
		if !keep[key] {
			stale = append(stale, key)
		}
	}
	if err := rows.Close(); err != nil {
		return 0, err
	}

	for _, key := range stale {
		if _, err := tx.ExecContext(ctx, `DELETE FROM companies WHERE key = ?`, key); err != nil {
			return 0, fmt.Errorf("removing company %s: %w", key, err)
		}
	}
	return len(stale), nil
}

// queryer is the read surface shared by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func lookup(ctx context.Context, q queryer, key string) (types.Record, error) {
	var company string
	err := q.QueryRowContext(ctx, `SELECT company FROM companies WHERE key = ?`, key).Scan(&company)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Record{}, ErrNotFound
	}
	if err != nil {
		return types.Record{}, fmt.Errorf("querying company %s: %w", key, err)
	}

	rows, err := q.QueryContext(ctx, `SELECT field, value FROM field_values WHERE key = ?`, key)
	if err != nil {
		return types.Record{}, fmt.Errorf("querying values for %s: %w", company, err)
	}
	defer rows.Close()

	rec := types.NewRecord(company)
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return types.Record{}, fmt.Errorf("scanning value: %w", err)
		}
		// Fields dropped from the schema since the last sync are ignored.
		if _, ok := types.LookupField(field); !ok {
			continue
		}
		if err := rec.Set(field, value); err != nil {
			return types.Record{}, fmt.Errorf("decoding %s for %s: %w", field, company, err)
		}
	}
	return rec, rows.Err()
}

// Lookup returns the record for company, matched case-insensitively.
func (s *Store) Lookup(ctx context.Context, company string) (types.Record, error) {
	return lookup(ctx, s.db, types.Key(company))
}

// List returns every mirrored record ordered by company name.
func (s *Store) List(ctx context.Context) ([]types.Record, error) {
	keys, err := s.keys(ctx, `SELECT key FROM companies ORDER BY company COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	recs := make([]types.Record, 0, len(keys))
	for _, key := range keys {
		rec, err := lookup(ctx, s.db, key)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Search returns the names of companies whose name contains term,
// case-insensitively, ordered by name.
func (s *Store) Search(ctx context.Context, term string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT company FROM companies WHERE key LIKE '%' || ? || '%' ORDER BY company COLLATE NOCASE`,
		types.Key(term))
	if err != nil {
		return nil, fmt.Errorf("searching companies: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning company: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) keys(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning company: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
