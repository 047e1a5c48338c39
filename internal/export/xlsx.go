// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/brsr-extractor/pkg/types"
)

const (
	dataSheet     = "BRSR"
	coverageSheet = "Coverage"
)

// writeXLSX writes one data sheet in table layout and a coverage sheet that
// counts, per column, how many companies have a non-zero value.
func writeXLSX(w io.Writer, recs []types.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	header := types.Header()
	if err := setRow(f, dataSheet, 1, toCells(header)); err != nil {
		return err
	}
	for i, rec := range recs {
		row := make([]interface{}, 0, len(header))
		row = append(row, rec.Company)
		for _, field := range types.Schema {
			switch field.Kind {
			case types.KindCount:
				row = append(row, rec.Count(field.Name))
			case types.KindPercent:
				row = append(row, rec.Percent(field.Name))
			}
		}
		if err := setRow(f, dataSheet, i+2, row); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	_ = f.SetRowStyle(dataSheet, 1, 1, headerStyle)
	_ = f.SetColWidth(dataSheet, "A", "A", 30)
	_ = f.SetColWidth(dataSheet, "B", lastCol, 16)
	if err := f.SetPanes(dataSheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	if _, err := f.NewSheet(coverageSheet); err != nil {
		return fmt.Errorf("creating coverage sheet: %w", err)
	}
	if err := setRow(f, coverageSheet, 1, []interface{}{"Column", "Kind", "Companies reported"}); err != nil {
		return err
	}
	for i, field := range types.Schema {
		n := 0
		for _, rec := range recs {
			if rec.Count(field.Name) != 0 || rec.Percent(field.Name) != 0 {
				n++
			}
		}
		if err := setRow(f, coverageSheet, i+2, []interface{}{field.Name, field.Kind.String(), n}); err != nil {
			return err
		}
	}
	_ = f.SetRowStyle(coverageSheet, 1, 1, headerStyle)
	_ = f.SetColWidth(coverageSheet, "A", "A", 55)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
