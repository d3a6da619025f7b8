package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bullebakery/sales-unifier/internal/orders"
	"github.com/bullebakery/sales-unifier/internal/store"
)

var ordersCSV string

// ordersCmd reads the pre-order CSV export and writes one extract file
// per pickup month.
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Extract the pre-order CSV into monthly JSON files",
	RunE: func(cmd *cobra.Command, args []string) error {
		csvPath := ordersCSV
		if csvPath == "" {
			csvPath = cfg.Data.OrdersCSVPath
		}
		if csvPath == "" {
			return errors.New("orders csv path required (--csv or ORDERS_CSV_PATH)")
		}

		extractor := orders.NewExtractor(logger)
		allOrders, err := extractor.ReadFile(csvPath)
		if err != nil {
			return err
		}

		written := 0
		for month, monthOrders := range orders.GroupByMonth(allOrders) {
			outPath := filepath.Join(cfg.Data.OrdersExtractDir, fmt.Sprintf("bestellungen_%s.json", month))
			if err := store.WriteOrdersExtract(monthOrders, outPath); err != nil {
				logger.Error("orders.extract.write_failed", "path", outPath, "error", err)
				continue
			}
			logger.Info("orders.month.ok", "month", month, "orders", len(monthOrders), "out", outPath)
			written++
		}

		logger.Info("orders.done", "orders", len(allOrders), "months", written)
		return nil
	},
}

func init() {
	ordersCmd.Flags().StringVar(&ordersCSV, "csv", "", "path to the pre-order CSV export")
	rootCmd.AddCommand(ordersCmd)
}
