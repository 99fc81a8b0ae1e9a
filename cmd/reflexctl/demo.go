package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reflexcore/internal/evidence"
	"reflexcore/internal/lifecycle"
	"reflexcore/internal/reflex"
	"reflexcore/internal/types"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted hunger-reflex firing end to end and print the resulting proof bundle",
	RunE:  runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	bus := lifecycle.NewBus(0)
	controller := reflex.New(reflex.Config{
		Thresholds: reflex.Thresholds{Trigger: 12, Reset: 16, Critical: 5},
		NeedType:   types.NeedSurvival,
		Template:   "consume_food",
		Bus:        bus,
	})

	snapshot := reflex.Snapshot{
		Food:      10,
		Inventory: []types.InventoryItem{{Name: "bread", Count: 3}},
	}

	result, fired := controller.Evaluate(snapshot, types.IdleNoTasks, reflex.EvaluateOptions{})
	if !fired {
		fmt.Println("reflex did not fire for the scripted snapshot")
		return nil
	}

	fmt.Printf("fired: reflexInstanceId=%s goalKey=%s\n", result.ReflexInstanceID, result.GoalKey)
	for i, step := range result.Task.Steps {
		fmt.Printf("  step[%d]: leaf=%s args=%v\n", i, step.Leaf, step.Args)
	}

	controller.EmitTaskEnqueued(result.ReflexInstanceID, "task-demo-1")

	outcome := reflex.ExecutionOutcome{
		TaskID:  "task-demo-1",
		Result:  evidence.ExecutionOK,
		Receipt: &evidence.ExecutionReceipt{ItemsConsumed: 1},
	}
	after := &reflex.AfterState{Food: 15, Inventory: map[string]int{"bread": 2}}

	bundle, err := controller.BuildProofBundle(result.Accumulator, outcome, after)
	if err != nil {
		return fmt.Errorf("build proof bundle: %w", err)
	}

	fmt.Printf("bundle_hash=%s schema=%s execution_result=%s\n", bundle.BundleHash, bundle.SchemaVersion, bundle.Identity.ExecutionResult)
	fmt.Printf("events_emitted=%d\n", bus.Len())

	return nil
}
