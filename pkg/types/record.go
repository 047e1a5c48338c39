// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures for the brsr-extractor
// pipeline: the canonical record schema, the Record itself, and stage
// configuration.
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldKind is the value type of a schema field.
type FieldKind int

const (
	// KindCount is a non-negative integer such as a headcount.
	KindCount FieldKind = iota + 1
	// KindPercent is a decimal percentage. Values outside [0,100] are kept as
	// read; the source text is not validated against that range.
	KindPercent
)

// String returns the lowercase kind name used in error messages.
func (k FieldKind) String() string {
	switch k {
	case KindCount:
		return "count"
	case KindPercent:
		return "percent"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field describes one column of the persisted table.
type Field struct {
	Name string
	Kind FieldKind
}

// CompanyField is the identity column. It is always first in the header.
const CompanyField = "Company"

// Field names referenced outside the schema table itself.
const (
	PermanentMaleNumber   = "Permanent Employees Male Number"
	PermanentMalePct      = "Permanent Employees Male %"
	PermanentFemaleNumber = "Permanent Employees Female Number"
	PermanentFemalePct    = "Permanent Employees Female %"

	OtherMaleNumber   = "Other than Permanent Employees Male Number"
	OtherMalePct      = "Other than Permanent Employees Male %"
	OtherFemaleNumber = "Other than Permanent Employees Female Number"
	OtherFemalePct    = "Other than Permanent Employees Female %"

	TotalMaleNumber   = "Total Employees Male Number"
	TotalMalePct      = "Total Employees Male %"
	TotalFemaleNumber = "Total Employees Female Number"
	TotalFemalePct    = "Total Employees Female %"

	BoardTotal        = "Board of Directors Total"
	BoardFemaleNumber = "Board of Directors Female Number"
	BoardFemalePct    = "Board of Directors Female %"

	KMPTotal        = "Key Management Personnel Total"
	KMPFemaleNumber = "Key Management Personnel Female Number"
	KMPFemalePct    = "Key Management Personnel Female %"

	TurnoverCurrentMale   = "Turnover Current Year Permanent Employees Male %"
	TurnoverCurrentFemale = "Turnover Current Year Permanent Employees Female %"
	TurnoverCurrentTotal  = "Turnover Current Year Permanent Employees Total %"

	TurnoverPreviousMale   = "Turnover Previous Year Permanent Employees Male %"
	TurnoverPreviousFemale = "Turnover Previous Year Permanent Employees Female %"
	TurnoverPreviousTotal  = "Turnover Previous Year Permanent Employees Total %"

	TurnoverPriorMale   = "Turnover Prior Year Permanent Employees Male %"
	TurnoverPriorFemale = "Turnover Prior Year Permanent Employees Female %"
	TurnoverPriorTotal  = "Turnover Prior Year Permanent Employees Total %"
)

// Schema is the canonical, ordered list of extracted fields. Extraction,
// preview, persistence and exports all iterate it; no other list of field
// names exists.
var Schema = []Field{
	{PermanentMaleNumber, KindCount},
	{PermanentMalePct, KindPercent},
	{PermanentFemaleNumber, KindCount},
	{PermanentFemalePct, KindPercent},
	{OtherMaleNumber, KindCount},
	{OtherMalePct, KindPercent},
	{OtherFemaleNumber, KindCount},
	{OtherFemalePct, KindPercent},
	{TotalMaleNumber, KindCount},
	{TotalMalePct, KindPercent},
	{TotalFemaleNumber, KindCount},
	{TotalFemalePct, KindPercent},

	{BoardTotal, KindCount},
	{BoardFemaleNumber, KindCount},
	{BoardFemalePct, KindPercent},
	{KMPTotal, KindCount},
	{KMPFemaleNumber, KindCount},
	{KMPFemalePct, KindPercent},

	{TurnoverCurrentMale, KindPercent},
	{TurnoverCurrentFemale, KindPercent},
	{TurnoverCurrentTotal, KindPercent},
	{TurnoverPreviousMale, KindPercent},
	{TurnoverPreviousFemale, KindPercent},
	{TurnoverPreviousTotal, KindPercent},
	{TurnoverPriorMale, KindPercent},
	{TurnoverPriorFemale, KindPercent},
	{TurnoverPriorTotal, KindPercent},
}

var schemaIndex = func() map[string]int {
	m := make(map[string]int, len(Schema))
	for i, f := range Schema {
		m[f.Name] = i
	}
	return m
}()

// LookupField returns the schema entry for name.
func LookupField(name string) (Field, bool) {
	i, ok := schemaIndex[name]
	if !ok {
		return Field{}, false
	}
	return Schema[i], true
}

// Header returns the persisted table header: Company followed by every
// schema field in canonical order.
func Header() []string {
	h := make([]string, 0, len(Schema)+1)
	h = append(h, CompanyField)
	for _, f := range Schema {
		h = append(h, f.Name)
	}
	return h
}

// Key normalizes a company name for identity comparison.
func Key(company string) string {
	return strings.ToLower(strings.TrimSpace(company))
}

// Record is one company's full set of extracted fields. Every Record carries
// the whole schema; absent data is zero, so "not found" and "found zero" are
// indistinguishable.
type Record struct {
	Company string

	counts   []int64
	percents []float64
}

// NewRecord returns a Record for company with every field at zero.
func NewRecord(company string) Record {
	return Record{
		Company:  strings.TrimSpace(company),
		counts:   make([]int64, len(Schema)),
		percents: make([]float64, len(Schema)),
	}
}

func (r *Record) ensure() {
	if r.counts == nil {
		r.counts = make([]int64, len(Schema))
		r.percents = make([]float64, len(Schema))
	}
}

func (r *Record) slot(name string, kind FieldKind) (int, error) {
	i, ok := schemaIndex[name]
	if !ok {
		return 0, fmt.Errorf("unknown field %q", name)
	}
	if Schema[i].Kind != kind {
		return 0, fmt.Errorf("field %q is a %s, not a %s", name, Schema[i].Kind, kind)
	}
	return i, nil
}

// SetCount stores a count field.
func (r *Record) SetCount(name string, v int64) error {
	i, err := r.slot(name, KindCount)
	if err != nil {
		return err
	}
	r.ensure()
	r.counts[i] = v
	return nil
}

// SetPercent stores a percent field.
func (r *Record) SetPercent(name string, v float64) error {
	i, err := r.slot(name, KindPercent)
	if err != nil {
		return err
	}
	r.ensure()
	r.percents[i] = v
	return nil
}

// Count returns a count field, or zero for unknown names.
func (r Record) Count(name string) int64 {
	i, ok := schemaIndex[name]
	if !ok || r.counts == nil {
		return 0
	}
	return r.counts[i]
}

// Percent returns a percent field, or zero for unknown names.
func (r Record) Percent(name string) float64 {
	i, ok := schemaIndex[name]
	if !ok || r.percents == nil {
		return 0
	}
	return r.percents[i]
}

// Format renders the named field as it is written to the table.
func (r Record) Format(f Field) string {
	switch f.Kind {
	case KindCount:
		return strconv.FormatInt(r.Count(f.Name), 10)
	default:
		return strconv.FormatFloat(r.Percent(f.Name), 'f', -1, 64)
	}
}

// Values renders the record in Header order.
func (r Record) Values() []string {
	out := make([]string, 0, len(Schema)+1)
	out = append(out, r.Company)
	for _, f := range Schema {
		out = append(out, r.Format(f))
	}
	return out
}

// Map renders the record keyed by header name.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(Schema)+1)
	m[CompanyField] = r.Company
	for _, f := range Schema {
		m[f.Name] = r.Format(f)
	}
	return m
}

// Set parses raw and stores it in the named field according to its kind.
// An empty raw value leaves the field at zero.
func (r *Record) Set(name, raw string) error {
	f, ok := LookupField(name)
	if !ok {
		return fmt.Errorf("unknown field %q", name)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	switch f.Kind {
	case KindCount:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			// Older tables may hold a count written as a float ("0.0").
			fv, ferr := strconv.ParseFloat(raw, 64)
			if ferr != nil {
				return fmt.Errorf("parsing %q as count: %w", name, err)
			}
			v = int64(fv)
		}
		return r.SetCount(name, v)
	default:
		v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
		if err != nil {
			return fmt.Errorf("parsing %q as percent: %w", name, err)
		}
		return r.SetPercent(name, v)
	}
}

// Equal reports whether two records carry the same company and values.
func (r Record) Equal(o Record) bool {
	if r.Company != o.Company {
		return false
	}
	for _, f := range Schema {
		if r.Count(f.Name) != o.Count(f.Name) || r.Percent(f.Name) != o.Percent(f.Name) {
			return false
		}
	}
	return true
}
