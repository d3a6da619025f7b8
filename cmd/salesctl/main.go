package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bullebakery/sales-unifier/internal/common"
)

var (
	cfgFile string
	verbose bool

	cfg    *common.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "salesctl",
	Short: "Reconcile bakery sales data from journal dumps, pre-orders and shift counts",
	Long: `salesctl extracts point-of-sale journal dumps, pre-order CSV exports and
AI-transcribed shift-count sheets into canonical JSON, and unifies them
into one consolidated revenue/quantity record per day and master article.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		cfg = common.LoadConfig()
		if cfgFile != "" {
			if err := cfg.ApplyFile(cfgFile); err != nil {
				return err
			}
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if _, werr := fmt.Fprintln(os.Stderr, "Error:", err); werr != nil {
			fmt.Println("Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
