package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reflexcore/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the runtime configuration banner and content digest",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load runtime config: %w", err)
	}

	fmt.Println(config.BuildPlanningBanner(cfg))
	fmt.Printf("accumulator_ttl=%s max_accumulators=%d max_lifecycle_events=%d\n",
		cfg.AccumulatorTTL(), cfg.CoreLimits.MaxAccumulators, cfg.CoreLimits.MaxLifecycleEvents)
	return nil
}
