package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bullebakery/sales-unifier/internal/export"
	"github.com/bullebakery/sales-unifier/internal/store"
)

var (
	exportMonth string
	exportOut   string
)

// exportCmd renders one consolidated month as an XLSX workbook.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a consolidated month as an XLSX report",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportMonth == "" {
			return errors.New("--month is required (YYYY-MM)")
		}

		inPath := filepath.Join(cfg.Data.UnifiedDir, fmt.Sprintf("consolidated_%s.json", exportMonth))
		consolidated, err := store.ReadConsolidated(inPath)
		if err != nil {
			return err
		}

		outPath := exportOut
		if outPath == "" {
			outPath = filepath.Join(cfg.Data.UnifiedDir, fmt.Sprintf("consolidated_%s.xlsx", exportMonth))
		}
		return export.WriteMonthlyReport(consolidated, outPath, logger)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportMonth, "month", "", "month to export (YYYY-MM)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output XLSX path")
	rootCmd.AddCommand(exportCmd)
}
