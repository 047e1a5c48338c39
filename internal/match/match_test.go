// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/brsr-extractor/pkg/types"
)

func boardDefinition() Definition {
	captures := []Capture{
		Count(types.BoardTotal),
		Count(types.BoardFemaleNumber),
		Percent(types.BoardFemalePct),
	}
	return Definition{
		Table: "board",
		Patterns: []Pattern{
			{Name: "long", Expr: `Board\s+of\s+Directors[^\n]*\s+([\d,]+)\s+([\d,]+)\s+([\d.]+)%?`, Captures: captures},
			{Name: "abbrev", Expr: `BoD[^\n]*\s+([\d,]+)\s+([\d,]+)\s+([\d.]+)%?`, Captures: captures},
		},
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "12,345", want: 12345},
		{in: "1,23,456", want: 123456},
		{in: "0", want: 0},
		{in: " 42 ", want: 42},
		{in: ",", wantErr: true},
		{in: "", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "4.5", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "45.50%", want: 45.5},
		{in: "45.50", want: 45.5},
		{in: "100", want: 100},
		{in: "250.0", want: 250},
		{in: "1.2.3", wantErr: true},
		{in: "%", wantErr: true},
		{in: ".", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePercent(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCompileRejectsMalformedDefinitions(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
	}{
		{
			name: "no patterns",
			def:  Definition{Table: "empty"},
		},
		{
			name: "bad regex",
			def: Definition{Table: "t", Patterns: []Pattern{
				{Expr: `Board(`, Captures: nil},
			}},
		},
		{
			name: "too few captures",
			def: Definition{Table: "t", Patterns: []Pattern{
				{Expr: `(\d+) (\d+)`, Captures: []Capture{Count(types.BoardTotal)}},
			}},
		},
		{
			name: "too many captures",
			def: Definition{Table: "t", Patterns: []Pattern{
				{Expr: `(\d+)`, Captures: []Capture{Count(types.BoardTotal), Count(types.KMPTotal)}},
			}},
		},
		{
			name: "swapped kinds",
			def: Definition{Table: "t", Patterns: []Pattern{
				{Expr: `(\d+) ([\d.]+)`, Captures: []Capture{
					Percent(types.BoardTotal),
					Count(types.BoardFemalePct),
				}},
			}},
		},
		{
			name: "unknown field",
			def: Definition{Table: "t", Patterns: []Pattern{
				{Expr: `(\d+)`, Captures: []Capture{Count("Board Size")}},
			}},
		},
		{
			name: "duplicate field",
			def: Definition{Table: "t", Patterns: []Pattern{
				{Expr: `(\d+) (\d+)`, Captures: []Capture{Count(types.BoardTotal), Count(types.BoardTotal)}},
			}},
		},
		{
			name: "missing kind",
			def: Definition{Table: "t", Patterns: []Pattern{
				{Expr: `(\d+)`, Captures: []Capture{{}}},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.def)
			assert.Error(t, err)
		})
	}
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() { MustCompile(Definition{Table: "empty"}) })
	assert.NotPanics(t, func() { MustCompile(boardDefinition()) })
}

func TestMatchBoardRow(t *testing.T) {
	c, err := Compile(boardDefinition())
	require.NoError(t, err)
	assert.Equal(t, "board", c.Table())
	assert.Equal(t, 2, c.Len())

	res, ok, err := c.Match("Some heading\nBoard of Directors 10 3 30.0%\nKMP 5 1 20%")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "long", res.Pattern)
	require.Len(t, res.Values, 3)
	assert.Equal(t, int64(10), res.Values[0].Count)
	assert.Equal(t, int64(3), res.Values[1].Count)
	assert.Equal(t, 30.0, res.Values[2].Percent)

	rec := types.NewRecord("Acme")
	require.NoError(t, res.Apply(&rec))
	assert.Equal(t, int64(10), rec.Count(types.BoardTotal))
	assert.Equal(t, int64(3), rec.Count(types.BoardFemaleNumber))
	assert.Equal(t, 30.0, rec.Percent(types.BoardFemalePct))
}

func TestMatchIsCaseInsensitive(t *testing.T) {
	c := MustCompile(boardDefinition())
	res, ok, err := c.Match("BOARD OF DIRECTORS 9 2 22.22")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(9), res.Values[0].Count)
	assert.Equal(t, 22.22, res.Values[2].Percent)
}

func TestMatchFallsBackInOrder(t *testing.T) {
	c := MustCompile(boardDefinition())
	res, ok, err := c.Match("bod composition 12 4 33.33%")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abbrev", res.Pattern)
	assert.Equal(t, int64(12), res.Values[0].Count)
}

func TestMatchNonMatchingPrefixIsIrrelevant(t *testing.T) {
	text := "BoD 8 2 25%"
	full := MustCompile(boardDefinition())

	def := boardDefinition()
	def.Patterns = def.Patterns[1:]
	only := MustCompile(def)

	a, okA, errA := full.Match(text)
	b, okB, errB := only.Match(text)
	require.NoError(t, errA)
	require.NoError(t, errB)
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, b, a)
}

func TestMatchNoMatch(t *testing.T) {
	c := MustCompile(boardDefinition())
	res, ok, err := c.Match("nothing relevant here")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, res.Values)
}

func TestMatchUnstoredCapture(t *testing.T) {
	c := MustCompile(Definition{Table: "row", Patterns: []Pattern{{
		Expr:     `Permanent\s*\(D\)\s*([\d,]+)\s+([\d,]+)`,
		Captures: []Capture{Count(""), Count(types.PermanentMaleNumber)},
	}}})

	tests := []struct {
		name    string
		text    string
		wantRaw string
	}{
		{"decodable total", "Permanent (D) 1,500 1,000", "1,500"},
		{"bare separator", "Permanent (D) , 1,000", ","},
		{"overflowing total", "Permanent (D) 99999999999999999999 1,000", "99999999999999999999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok, err := c.Match(tt.text)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.wantRaw, res.Values[0].Raw)
			assert.Zero(t, res.Values[0].Count)

			rec := types.NewRecord("Acme")
			require.NoError(t, res.Apply(&rec))
			assert.Equal(t, int64(1000), rec.Count(types.PermanentMaleNumber))
		})
	}
}

func TestMatchDecodeFailure(t *testing.T) {
	c := MustCompile(Definition{Table: "row", Patterns: []Pattern{{
		Expr:     `Rate\s+([\d.]+)`,
		Captures: []Capture{Percent(types.TurnoverCurrentMale)},
	}}})

	_, ok, err := c.Match("Rate 1.2.3")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii untouched", "Board of Directors\t10 3\n30.0%", "Board of Directors\t10 3\n30.0%"},
		{"no-break space", "Board\u00a0of\u00a0Directors", "Board of Directors"},
		{"thin and narrow spaces", "10\u20093\u202f30", "10 3 30"},
		{"full-width digits", "\uff11,\uff12\uff10\uff10 \uff14\uff15.\uff15\uff05", "1,200 45.5%"},
		{"line separator", "10\u20283", "10 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
