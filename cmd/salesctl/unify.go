package main

import (
	"github.com/spf13/cobra"

	"github.com/bullebakery/sales-unifier/internal/batch"
	"github.com/bullebakery/sales-unifier/internal/lookup"
	"github.com/bullebakery/sales-unifier/internal/store"
	"github.com/bullebakery/sales-unifier/internal/unify"
)

var archiveRun bool

// unifyCmd runs the monthly batch: every month with journal coverage is
// unified across all three sources and written out, with QC reports for
// unmapped articles.
var unifyCmd = &cobra.Command{
	Use:   "unify",
	Short: "Unify extracted sources into consolidated per-day records",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := lookup.Load(cfg.Data.LookupTablePath)
		if err != nil {
			return err
		}
		logger.Info("lookup.loaded", "variants", table.Len())

		runner := batch.NewRunner(unify.New(table, logger), batch.Dirs{
			JournalExtractDir: cfg.Data.JournalExtractDir,
			ShiftCountDir:     cfg.Data.ShiftCountDir,
			OrdersExtractDir:  cfg.Data.OrdersExtractDir,
			UnifiedDir:        cfg.Data.UnifiedDir,
			QCDir:             cfg.Data.QCDir,
		}, logger)

		results, skipped, err := runner.Run()
		if err != nil {
			return err
		}
		for _, month := range skipped {
			logger.Warn("unify.month.skipped", "month", month, "reason", "missing journal data")
		}

		if archiveRun || cfg.Archive.Enabled {
			archive, err := store.OpenArchive(cmd.Context(), cfg.Archive.Path, logger)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := archive.Close(); cerr != nil {
					logger.Warn("archive.close_failed", "error", cerr)
				}
			}()
			for _, res := range results {
				consolidated, err := store.ReadConsolidated(res.OutputPath)
				if err != nil {
					return err
				}
				if err := archive.SaveMonth(cmd.Context(), consolidated); err != nil {
					return err
				}
			}
		}

		logger.Info("unify.done", "months", len(results), "skipped", len(skipped))
		return nil
	},
}

func init() {
	unifyCmd.Flags().BoolVar(&archiveRun, "archive", false, "also archive consolidated data to SQLite")
	rootCmd.AddCommand(unifyCmd)
}
