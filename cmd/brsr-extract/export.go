// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/brsr-extractor/internal/export"
	"github.com/pdiddy/brsr-extractor/internal/table"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the extraction table as a spreadsheet, YAML or JSON",
	Long: `Export reads brsr_simple_analysis.csv and writes the same records next to
it as brsr_simple_analysis.xlsx, .yaml or .json. The spreadsheet has a data
sheet in table layout and a coverage sheet counting, per column, how many
companies reported a non-zero value.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", string(export.FormatXLSX), "export format: xlsx, yaml or json")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	defer logger.Sync() //nolint:errcheck

	name, _ := cmd.Flags().GetString("format")
	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}

	recs, err := table.Open(appConfig.Store.TablePath, logger).Records()
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return fmt.Errorf("no records in %s: run brsr-extract on a report first", appConfig.Store.TablePath)
	}

	path := export.FileName(appConfig.Store.TablePath, format)
	if err := export.WriteFile(path, format, recs); err != nil {
		return err
	}
	logger.Debug("export written", zap.String("path", path), zap.String("format", string(format)))
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d companies to %s\n", len(recs), path)
	return nil
}
