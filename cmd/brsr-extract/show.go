// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/brsr-extractor/internal/batch"
	"github.com/pdiddy/brsr-extractor/internal/index"
)

var showCmd = &cobra.Command{
	Use:   "show [company]",
	Short: "Print the preview for a company from the index",
	Long: `Show looks a company up in brsr_simple_analysis.db (built by the index
command) and prints the same preview the extractor prints. The name is
matched ignoring case. Without a name it lists the indexed companies.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	store, err := index.NewStore(appConfig.Store.IndexPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		recs, err := store.List(ctx)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Fprintln(out, "No companies indexed. Run brsr-extract index first.")
			return nil
		}
		for _, r := range recs {
			fmt.Fprintln(out, r.Company)
		}
		return nil
	}

	rec, err := store.Lookup(ctx, args[0])
	if errors.Is(err, index.ErrNotFound) {
		matches, serr := store.Search(ctx, args[0])
		if serr == nil && len(matches) > 0 {
			return fmt.Errorf("%w: %q (did you mean: %s?)", err, args[0], strings.Join(matches, ", "))
		}
		return fmt.Errorf("%w: %q", err, args[0])
	}
	if err != nil {
		return err
	}

	batch.WritePreview(out, rec)
	return nil
}
