// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"github.com/pdiddy/brsr-extractor/internal/match"
	"github.com/pdiddy/brsr-extractor/pkg/types"
)

// Row layouts. The numeric tail of each workforce row is
// total, male count, male %, female count, female %.
const (
	numTail5 = `\s*([\d,]+)\s+([\d,]+)\s+([\d.]+)%?\s+([\d,]+)\s+([\d.]+)%?`
	numTail3 = `[^\n]*\s+([\d,]+)\s+([\d,]+)\s+([\d.]+)%?`
	pct      = `\s+([\d.]+)%?`
)

// workforceRow keeps the row total raw and does not store it; the record
// only carries the per-gender split.
func workforceRow(male, malePct, female, femalePct string) []match.Capture {
	return []match.Capture{
		match.Count(""),
		match.Count(male),
		match.Percent(malePct),
		match.Count(female),
		match.Percent(femalePct),
	}
}

// Workforce returns the three employee sub-row definitions of the
// employees-by-gender table: permanent, other than permanent, and the
// total row. Each has a numbered and an unnumbered layout; the numbered
// one is tried first.
func Workforce() []match.Definition {
	perm := workforceRow(types.PermanentMaleNumber, types.PermanentMalePct,
		types.PermanentFemaleNumber, types.PermanentFemalePct)
	other := workforceRow(types.OtherMaleNumber, types.OtherMalePct,
		types.OtherFemaleNumber, types.OtherFemalePct)
	total := workforceRow(types.TotalMaleNumber, types.TotalMalePct,
		types.TotalFemaleNumber, types.TotalFemalePct)

	return []match.Definition{
		{
			Table: "permanent employees",
			Patterns: []match.Pattern{
				{Name: "numbered", Expr: `1[.\s]+Permanent\s*\([DdEe]\)` + numTail5, Captures: perm},
				{Name: "plain", Expr: `Permanent\s*\([DdEe]\)` + numTail5, Captures: perm},
			},
		},
		{
			Table: "other than permanent employees",
			Patterns: []match.Pattern{
				{Name: "numbered", Expr: `2[.\s]+Other\s+than\s+[Pp]ermanent\s*\([EeFf]\)` + numTail5, Captures: other},
				{Name: "plain", Expr: `Other\s+than\s+[Pp]ermanent\s*\([EeFf]\)` + numTail5, Captures: other},
			},
		},
		{
			Table: "total employees",
			Patterns: []match.Pattern{
				{Name: "numbered", Expr: `3[.\s]+T\s*otal\s+employees\s*\([DdEe]\s*\+\s*[EeFf]\)` + numTail5, Captures: total},
				{Name: "plain", Expr: `Total\s+employees\s*\([DdEe]\s*\+\s*[EeFf]\)` + numTail5, Captures: total},
			},
		},
	}
}

// Governance returns the board of directors and key management personnel
// definitions. Each row is total, female count, female %.
func Governance() []match.Definition {
	board := []match.Capture{
		match.Count(types.BoardTotal),
		match.Count(types.BoardFemaleNumber),
		match.Percent(types.BoardFemalePct),
	}
	kmp := []match.Capture{
		match.Count(types.KMPTotal),
		match.Count(types.KMPFemaleNumber),
		match.Percent(types.KMPFemalePct),
	}

	return []match.Definition{
		{
			Table: "board of directors",
			Patterns: []match.Pattern{
				{Name: "full", Expr: `Board\s+of\s+Directors` + numTail3, Captures: board},
				{Name: "abbrev", Expr: `BoD` + numTail3, Captures: board},
			},
		},
		{
			Table: "key management personnel",
			Patterns: []match.Pattern{
				{Name: "full", Expr: `Key\s+Management\s+Personnel` + numTail3, Captures: kmp},
				{Name: "abbrev", Expr: `KMP` + numTail3, Captures: kmp},
			},
		},
	}
}

// Attrition returns the turnover definition: one permanent-employees row
// carrying male, female and total rates for the current, previous and prior
// year, in that order.
func Attrition() []match.Definition {
	captures := []match.Capture{
		match.Percent(types.TurnoverCurrentMale),
		match.Percent(types.TurnoverCurrentFemale),
		match.Percent(types.TurnoverCurrentTotal),
		match.Percent(types.TurnoverPreviousMale),
		match.Percent(types.TurnoverPreviousFemale),
		match.Percent(types.TurnoverPreviousTotal),
		match.Percent(types.TurnoverPriorMale),
		match.Percent(types.TurnoverPriorFemale),
		match.Percent(types.TurnoverPriorTotal),
	}

	expr := `Permanent\s+Employees`
	for range captures {
		expr += pct
	}

	return []match.Definition{
		{
			Table:    "turnover",
			Patterns: []match.Pattern{{Name: "three-year row", Expr: expr, Captures: captures}},
		},
	}
}

// Definitions returns every built-in definition in extraction order.
func Definitions() []match.Definition {
	var defs []match.Definition
	defs = append(defs, Workforce()...)
	defs = append(defs, Governance()...)
	defs = append(defs, Attrition()...)
	return defs
}
