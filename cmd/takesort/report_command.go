package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"takesort/internal/catalog"
)

func newReportCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show the most recent run recorded in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			if strings.TrimSpace(cfg.Paths.CatalogPath) == "" {
				return errors.New("catalog disabled (paths.catalog_path is empty)")
			}

			store, err := catalog.Open(cfg.Paths.CatalogPath)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			run, err := store.LastRun(cmd.Context())
			if err != nil {
				return err
			}
			if run == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
				return nil
			}

			rows := [][]string{
				{"Run", run.ID},
				{"Source", run.SourceDir},
				{"Output", run.OutputDir},
				{"Started", run.StartedAt.Local().Format(time.RFC3339)},
				{"Finished", run.FinishedAt.Local().Format(time.RFC3339)},
				{"Matched by sidecar", fmt.Sprintf("%d", run.MatchedSidecar)},
				{"Matched by fuzzy search", fmt.Sprintf("%d", run.MatchedFuzzy)},
				{"Date inferred from name", fmt.Sprintf("%d", run.MatchedFilename)},
				{"Unmatched media", fmt.Sprintf("%d", run.UnmatchedMedia)},
				{"Unmatched sidecars", fmt.Sprintf("%d", run.UnmatchedSidecars)},
				{"Extension corrections", fmt.Sprintf("%d", run.ExtensionMismatches)},
				{"Duplicates removed", fmt.Sprintf("%d", run.DuplicatesRemoved)},
				{"Files copied", fmt.Sprintf("%d", run.FilesCopied)},
				{"Embed failures", fmt.Sprintf("%d", run.EmbedFailures)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows))
			return nil
		},
	}
}
