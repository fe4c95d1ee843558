package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/config"
	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/engine"
	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/history"
	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/store"
)

var (
	configPath  string
	historyPath string
)

var rootCmd = &cobra.Command{
	Use:   "aquaguard",
	Short: "Water allocation decisions with a tamper-evident audit chain",
	Long:  "Allocates water volume across regions, sectors, and cycles under benchmark, reservoir-safety, and drought rules. Every committed decision is appended to a SHA-256 hash-chained audit ledger.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (default ~/.aquaguard/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&historyPath, "history", "", "Path to history database (default ~/.aquaguard/history.db)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSystem opens the history database, rehydrates the allocation state,
// and returns a ready System. The caller closes the history store.
func loadSystem() (*engine.System, *history.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	hist, err := history.Open(historyPath)
	if err != nil {
		return nil, nil, err
	}

	recs, err := hist.Records()
	if err != nil {
		hist.Close()
		return nil, nil, err
	}
	blks, err := hist.Blocks()
	if err != nil {
		hist.Close()
		return nil, nil, err
	}

	st, err := store.Load(recs, blks, hist)
	if err != nil {
		hist.Close()
		return nil, nil, fmt.Errorf("rehydrate state: %w", err)
	}
	return engine.New(cfg, st), hist, nil
}
