// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns the plain text of one sustainability report into a
// flat Record by running every built-in table definition against it.
package extract

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/brsr-extractor/internal/match"
	"github.com/pdiddy/brsr-extractor/pkg/types"
)

// Status is the outcome of one table definition against one document.
type Status string

const (
	StatusMatched Status = "matched"
	StatusMissed  Status = "missed"
	StatusInvalid Status = "invalid"
)

// Outcome records how one table fared during extraction.
type Outcome struct {
	Table   string
	Status  Status
	Pattern string
	// Total is the first decoded value of the winning pattern (the row total
	// for workforce and governance tables).
	Total string
	Err   error
}

// Extractor applies a fixed set of compiled definitions to document text.
type Extractor struct {
	defs []*match.Compiled
	log  *zap.Logger
}

// New compiles the built-in definitions. A nil logger is replaced with a
// no-op logger.
func New(log *zap.Logger) (*Extractor, error) {
	return NewWithDefinitions(Definitions(), log)
}

// NewWithDefinitions compiles defs in order. Extraction applies them in the
// same order; definitions are expected to fill disjoint fields.
func NewWithDefinitions(defs []match.Definition, log *zap.Logger) (*Extractor, error) {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Extractor{log: log, defs: make([]*match.Compiled, 0, len(defs))}
	for _, d := range defs {
		c, err := match.Compile(d)
		if err != nil {
			return nil, fmt.Errorf("compiling definitions: %w", err)
		}
		e.defs = append(e.defs, c)
	}
	return e, nil
}

// Extract returns the record for company. It never fails: tables that are
// missing from text, or whose values cannot be decoded, stay at zero.
func (e *Extractor) Extract(text, company string) types.Record {
	rec, _ := e.ExtractDetailed(text, company)
	return rec
}

// ExtractDetailed is Extract plus the per-table outcomes, in definition order.
// The text is passed through match.Normalize first.
func (e *Extractor) ExtractDetailed(text, company string) (types.Record, []Outcome) {
	rec := types.NewRecord(company)
	outcomes := make([]Outcome, 0, len(e.defs))
	text = match.Normalize(text)
	log := e.log.With(zap.String("company", rec.Company))

	for _, c := range e.defs {
		out := Outcome{Table: c.Table()}

		res, ok, err := c.Match(text)
		switch {
		case err != nil:
			out.Status = StatusInvalid
			out.Err = err
			log.Warn("table values could not be decoded", zap.String("table", c.Table()), zap.Error(err))
		case !ok:
			out.Status = StatusMissed
			log.Info("table not found", zap.String("table", c.Table()))
		default:
			// Apply only fails on schema mismatches, which Compile rules out.
			if err := res.Apply(&rec); err != nil {
				out.Status = StatusInvalid
				out.Err = err
				log.Warn("table values could not be stored", zap.String("table", c.Table()), zap.Error(err))
				break
			}
			out.Status = StatusMatched
			out.Pattern = res.Pattern
			if len(res.Values) > 0 {
				out.Total = res.Values[0].Raw
			}
			log.Debug("table matched",
				zap.String("table", c.Table()),
				zap.String("pattern", res.Pattern),
				zap.String("total", out.Total))
		}

		outcomes = append(outcomes, out)
	}

	return rec, outcomes
}

// Matched counts the outcomes with StatusMatched.
func Matched(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Status == StatusMatched {
			n++
		}
	}
	return n
}
