// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match finds one logical disclosure table in unstructured report
// text. A Definition lists candidate patterns in preference order; each
// pattern declares which schema field every capture group feeds, so a
// pattern whose groups do not line up with its captures is rejected when it
// is compiled rather than silently writing values into the wrong columns.
package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/brsr-extractor/pkg/types"
)

// Capture binds one regex group to a schema field. An empty Field marks a
// group that is kept raw and never decoded or stored (e.g. a row total that
// only appears in progress output), so it cannot fail the match.
type Capture struct {
	Field string
	Kind  types.FieldKind
}

// Count returns a count capture for field.
func Count(field string) Capture { return Capture{Field: field, Kind: types.KindCount} }

// Percent returns a percent capture for field.
func Percent(field string) Capture { return Capture{Field: field, Kind: types.KindPercent} }

// Pattern is one candidate textual layout. Captures[i] describes group i+1
// of Expr.
type Pattern struct {
	Name     string
	Expr     string
	Captures []Capture
}

// Definition is the ordered candidate list for one logical table. The first
// pattern that matches anywhere in the text wins.
type Definition struct {
	Table    string
	Patterns []Pattern
}

type compiledPattern struct {
	Pattern
	re *regexp.Regexp
}

// Compiled is a validated Definition ready for matching.
type Compiled struct {
	table    string
	patterns []compiledPattern
}

// Compile validates def and compiles its patterns. Matching is always
// case-insensitive. It fails when an expression does not compile, when the
// number of groups differs from the number of captures, when a capture names
// a field missing from the schema or with a different kind, or when one
// pattern captures the same field twice.
func Compile(def Definition) (*Compiled, error) {
	if len(def.Patterns) == 0 {
		return nil, fmt.Errorf("definition %q has no patterns", def.Table)
	}

	c := &Compiled{table: def.Table, patterns: make([]compiledPattern, 0, len(def.Patterns))}
	for i, p := range def.Patterns {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
			p.Name = name
		}

		expr := p.Expr
		if !strings.HasPrefix(expr, "(?i)") {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compiling %s pattern %s: %w", def.Table, name, err)
		}

		if re.NumSubexp() != len(p.Captures) {
			return nil, fmt.Errorf("%s pattern %s has %d groups but %d captures",
				def.Table, name, re.NumSubexp(), len(p.Captures))
		}

		seen := make(map[string]bool, len(p.Captures))
		for g, capt := range p.Captures {
			if capt.Kind != types.KindCount && capt.Kind != types.KindPercent {
				return nil, fmt.Errorf("%s pattern %s group %d: invalid kind %s", def.Table, name, g+1, capt.Kind)
			}
			if capt.Field == "" {
				continue
			}
			f, ok := types.LookupField(capt.Field)
			if !ok {
				return nil, fmt.Errorf("%s pattern %s group %d: unknown field %q", def.Table, name, g+1, capt.Field)
			}
			if f.Kind != capt.Kind {
				return nil, fmt.Errorf("%s pattern %s group %d: field %q is a %s, capture decodes a %s",
					def.Table, name, g+1, capt.Field, f.Kind, capt.Kind)
			}
			if seen[capt.Field] {
				return nil, fmt.Errorf("%s pattern %s: field %q captured twice", def.Table, name, capt.Field)
			}
			seen[capt.Field] = true
		}

		c.patterns = append(c.patterns, compiledPattern{Pattern: p, re: re})
	}
	return c, nil
}

// MustCompile is like Compile but panics on error. It is meant for
// package-level built-in definitions.
func MustCompile(def Definition) *Compiled {
	c, err := Compile(def)
	if err != nil {
		panic(err)
	}
	return c
}

// Table returns the logical table name.
func (c *Compiled) Table() string { return c.table }

// Len returns the number of candidate patterns.
func (c *Compiled) Len() int { return len(c.patterns) }

// Value is one decoded capture group.
type Value struct {
	Capture
	Raw     string
	Count   int64
	Percent float64
}

// Result is a successful match of one pattern.
type Result struct {
	Table   string
	Pattern string
	Values  []Value
}

// Match tries each pattern in order and decodes the first one that matches
// anywhere in text. ok is false when no pattern matches; that is not an
// error. A decode failure on the winning pattern is returned as an error and
// later patterns are not tried.
func (c *Compiled) Match(text string) (res Result, ok bool, err error) {
	for _, p := range c.patterns {
		groups := p.re.FindStringSubmatch(text)
		if groups == nil {
			continue
		}

		res = Result{Table: c.table, Pattern: p.Name, Values: make([]Value, len(p.Captures))}
		for i, capt := range p.Captures {
			raw := groups[i+1]
			v := Value{Capture: capt, Raw: raw}
			if capt.Field == "" {
				res.Values[i] = v
				continue
			}
			switch capt.Kind {
			case types.KindCount:
				v.Count, err = ParseCount(raw)
			case types.KindPercent:
				v.Percent, err = ParsePercent(raw)
			}
			if err != nil {
				return Result{}, false, fmt.Errorf("decoding %s pattern %s group %d: %w", c.table, p.Name, i+1, err)
			}
			res.Values[i] = v
		}
		return res, true, nil
	}
	return Result{}, false, nil
}

// Apply writes every stored capture of r into rec.
func (r Result) Apply(rec *types.Record) error {
	for _, v := range r.Values {
		if v.Field == "" {
			continue
		}
		var err error
		switch v.Kind {
		case types.KindCount:
			err = rec.SetCount(v.Field, v.Count)
		case types.KindPercent:
			err = rec.SetPercent(v.Field, v.Percent)
		}
		if err != nil {
			return fmt.Errorf("applying %s: %w", r.Table, err)
		}
	}
	return nil
}
