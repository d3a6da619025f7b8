package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bullebakery/sales-unifier/internal/journal"
	"github.com/bullebakery/sales-unifier/internal/store"
)

// journalCmd processes all journal dump files into JSON extracts, one
// per input file, and writes the unparsed-blocks audit file.
var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Extract journal dumps into transaction JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := journal.NewParser(logger)

		entries, err := os.ReadDir(cfg.Data.JournalRawDir)
		if err != nil {
			return err
		}

		processed := 0
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".txt" {
				continue
			}
			path := filepath.Join(cfg.Data.JournalRawDir, e.Name())
			transactions, err := parser.ParseFile(path)
			if err != nil {
				logger.Error("journal.file.failed", "path", path, "error", err)
				continue
			}
			outPath := filepath.Join(cfg.Data.JournalExtractDir, e.Name()+".json")
			if err := store.WriteJournalExtract(transactions, outPath); err != nil {
				logger.Error("journal.extract.write_failed", "path", outPath, "error", err)
				continue
			}
			logger.Info("journal.file.ok", "path", path, "transactions", len(transactions), "out", outPath)
			processed++
		}

		auditPath := filepath.Join(cfg.Data.QCDir, "unparsed_fiskal_blocks.txt")
		if err := store.WriteUnparsedBlocks(parser.UnparsedBlocks(), auditPath); err != nil {
			return err
		}
		logger.Info("journal.done",
			"files", processed,
			"unparsed_blocks", len(parser.UnparsedBlocks()),
			"skipped_item_lines", parser.SkippedItemLines(),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(journalCmd)
}
