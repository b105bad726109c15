package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sustrend/zeroe-viz/internal/config"
)

const version = "1.0.0"

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:     "zeroe-viz",
	Short:   "Zero-E impact visualizer",
	Long:    "Projects the avoided emissions, valorized byproducts and revenue of the Zero-E natural feed additive and charts them against a fixed baseline.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
