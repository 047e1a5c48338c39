// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/brsr-extractor/internal/index"
	"github.com/pdiddy/brsr-extractor/internal/table"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Mirror the extraction table into a SQLite database",
	Long: `Index copies every row of brsr_simple_analysis.csv into
brsr_simple_analysis.db, keyed by lower-cased company name. Unchanged
companies are left alone and companies no longer in the table are removed,
so the database always matches the CSV after a run.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	defer logger.Sync() //nolint:errcheck

	recs, err := table.Open(appConfig.Store.TablePath, logger).Records()
	if err != nil {
		return err
	}

	store, err := index.NewStore(appConfig.Store.IndexPath)
	if err != nil {
		return err
	}
	defer store.Close()

	s, err := store.Sync(cmd.Context(), recs)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: indexed: %d, updated: %d, unchanged: %d, removed: %d\n",
		store.Path(), s.Indexed, s.Updated, s.Unchanged, s.Removed)
	return nil
}
