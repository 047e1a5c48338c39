// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes the extracted records as a spreadsheet, YAML or
// JSON document for consumers that do not read the CSV table.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/brsr-extractor/pkg/types"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts a format name in any case; "yml" is an alias for yaml.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatYAML, FormatJSON:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q: use xlsx, yaml or json", s)
	}
}

// FileName returns base with the format's extension, replacing any
// extension base already has.
func FileName(base string, f Format) string {
	if i := strings.LastIndexByte(base, '.'); i > 0 && !strings.ContainsAny(base[i:], `/\`) {
		base = base[:i]
	}
	return base + "." + string(f)
}

// Entry is one company in a YAML or JSON export. Counts and percents are
// keyed by table column name.
type Entry struct {
	Company  string             `json:"company" yaml:"company"`
	Counts   map[string]int64   `json:"counts" yaml:"counts"`
	Percents map[string]float64 `json:"percents" yaml:"percents"`
}

// Entries converts records into export entries, keeping their order.
func Entries(recs []types.Record) []Entry {
	entries := make([]Entry, len(recs))
	for i, rec := range recs {
		e := Entry{
			Company:  rec.Company,
			Counts:   map[string]int64{},
			Percents: map[string]float64{},
		}
		for _, f := range types.Schema {
			switch f.Kind {
			case types.KindCount:
				e.Counts[f.Name] = rec.Count(f.Name)
			case types.KindPercent:
				e.Percents[f.Name] = rec.Percent(f.Name)
			}
		}
		entries[i] = e
	}
	return entries
}

// Write encodes recs to w in format f.
func Write(w io.Writer, f Format, recs []types.Record) error {
	switch f {
	case FormatXLSX:
		return writeXLSX(w, recs)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Entries(recs)); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(Entries(recs)); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// WriteFile writes recs to path in format f.
func WriteFile(path string, f Format, recs []types.Record) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export %s: %w", path, err)
	}
	if err := Write(out, f, recs); err != nil {
		out.Close()
		return fmt.Errorf("writing export %s: %w", path, err)
	}
	return out.Close()
}
