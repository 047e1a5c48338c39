// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pdiddy/brsr-extractor/pkg/types"
)

var rule = strings.Repeat("=", 60)

// workforceRow names the four schema fields of one workforce sub-row.
type workforceRow struct {
	label                            string
	male, malePct, female, femalePct string
}

var workforceRows = []workforceRow{
	{"Permanent", types.PermanentMaleNumber, types.PermanentMalePct, types.PermanentFemaleNumber, types.PermanentFemalePct},
	{"Other", types.OtherMaleNumber, types.OtherMalePct, types.OtherFemaleNumber, types.OtherFemalePct},
	{"TOTAL", types.TotalMaleNumber, types.TotalMalePct, types.TotalFemaleNumber, types.TotalFemalePct},
}

var turnoverRows = []struct {
	label               string
	male, female, total string
}{
	{"Current Year", types.TurnoverCurrentMale, types.TurnoverCurrentFemale, types.TurnoverCurrentTotal},
	{"Previous Year", types.TurnoverPreviousMale, types.TurnoverPreviousFemale, types.TurnoverPreviousTotal},
	{"Prior Year", types.TurnoverPriorMale, types.TurnoverPriorFemale, types.TurnoverPriorTotal},
}

// WritePreview prints a human-readable summary of rec. Head counts use
// thousands separators; the workforce headline is male plus female.
func WritePreview(w io.Writer, rec types.Record) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "\n%s\nDATA PREVIEW - %s\n%s\n\n", rule, rec.Company, rule)

	p.Fprintf(w, "EMPLOYEES:\n")
	for _, row := range workforceRows {
		male, female := rec.Count(row.male), rec.Count(row.female)
		p.Fprintf(w, "   %s: %d (M:%d/%.1f%% F:%d/%.1f%%)\n",
			row.label, male+female,
			male, rec.Percent(row.malePct),
			female, rec.Percent(row.femalePct))
	}

	p.Fprintf(w, "\nBOARD OF DIRECTORS:\n")
	p.Fprintf(w, "   Total: %d, Women: %d (%.2f%%)\n",
		rec.Count(types.BoardTotal), rec.Count(types.BoardFemaleNumber), rec.Percent(types.BoardFemalePct))

	p.Fprintf(w, "\nKEY MANAGEMENT PERSONNEL:\n")
	p.Fprintf(w, "   Total: %d, Women: %d (%.1f%%)\n",
		rec.Count(types.KMPTotal), rec.Count(types.KMPFemaleNumber), rec.Percent(types.KMPFemalePct))

	p.Fprintf(w, "\nTURNOVER RATES:\n")
	for _, row := range turnoverRows {
		p.Fprintf(w, "   %s: M:%.1f%% F:%.1f%% Total:%.1f%%\n",
			row.label, rec.Percent(row.male), rec.Percent(row.female), rec.Percent(row.total))
	}

	p.Fprintf(w, "\n%s\n", rule)
}
