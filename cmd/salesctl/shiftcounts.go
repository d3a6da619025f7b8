package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bullebakery/sales-unifier/internal/shiftcount"
	"github.com/bullebakery/sales-unifier/internal/shiftcount/gemini"
	"github.com/bullebakery/sales-unifier/internal/store"

	"github.com/bullebakery/sales-unifier/constants"
)

// shiftcountsCmd transcribes shift-count PDFs via the AI client and
// writes one extract file per report date. The client enforces a fixed
// delay between API calls.
var shiftcountsCmd = &cobra.Command{
	Use:   "shiftcounts",
	Short: "Transcribe shift-count PDFs into JSON extracts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateForTranscription(); err != nil {
			return err
		}

		client := gemini.NewClient(gemini.Config{
			BaseURL:      cfg.AI.BaseURL,
			Model:        cfg.AI.Model,
			APIKey:       cfg.AI.APIKey,
			Timeout:      cfg.AI.Timeout,
			RequestDelay: cfg.AI.RequestDelay,
		}, logger)
		extractor := shiftcount.NewExtractor(client, logger)

		entries, err := os.ReadDir(cfg.Data.ShiftCountRawDir)
		if err != nil {
			return err
		}

		processed := 0
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".pdf" {
				continue
			}
			path := filepath.Join(cfg.Data.ShiftCountRawDir, e.Name())
			report, err := extractor.ReadFile(cmd.Context(), path)
			if err != nil {
				return err
			}
			if report == nil {
				continue // recorded as unparsed
			}
			outPath := filepath.Join(cfg.Data.ShiftCountDir,
				fmt.Sprintf("%s.json", report.ReportDate.Format(constants.DateLayout)))
			if err := store.WriteShiftReport(*report, outPath); err != nil {
				logger.Error("shiftcount.extract.write_failed", "path", outPath, "error", err)
				continue
			}
			processed++
		}

		auditPath := filepath.Join(cfg.Data.QCDir, "unparsed_mengenlisten.txt")
		if err := store.WriteUnparsedFiles(extractor.UnparsedFiles(), auditPath); err != nil {
			return err
		}
		logger.Info("shiftcounts.done", "processed", processed, "unparsed", len(extractor.UnparsedFiles()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shiftcountsCmd)
}
