package reflex

import (
	"testing"
	"time"

	"reflexcore/internal/evidence"
	"reflexcore/internal/lifecycle"
	"reflexcore/internal/types"
)

func fireOnce(t *testing.T) (*Controller, *ReflexAccumulator) {
	t.Helper()
	c := newHungerController(t)
	result, fired := c.Evaluate(
		Snapshot{Food: 10, Inventory: []types.InventoryItem{{Name: "bread", Count: 3}}},
		types.IdleNoTasks,
		EvaluateOptions{},
	)
	if !fired {
		t.Fatal("setup: expected firing")
	}
	return c, result.Accumulator
}

func TestBuildProofBundle_DeterministicAcrossVaryingRuntimeFields(t *testing.T) {
	_, acc1 := fireOnce(t)
	time.Sleep(time.Millisecond)
	_, acc2 := fireOnce(t)

	c := newHungerController(t)
	outcome1 := ExecutionOutcome{TaskID: "task-aaa", Result: evidence.ExecutionOK, Receipt: &evidence.ExecutionReceipt{ItemsConsumed: 1}}
	outcome2 := ExecutionOutcome{TaskID: "task-zzz", Result: evidence.ExecutionOK, Receipt: &evidence.ExecutionReceipt{ItemsConsumed: 1}}
	after := &AfterState{Food: 14, Inventory: map[string]int{"bread": 2}}

	bundle1, err := c.BuildProofBundle(acc1, outcome1, after)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bundle2, err := c.BuildProofBundle(acc2, outcome2, after)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bundle1.BundleHash != bundle2.BundleHash {
		t.Errorf("expected identical bundle_hash for identical trigger+outcome, got %s vs %s", bundle1.BundleHash, bundle2.BundleHash)
	}
	if bundle1.Evidence.ProofID == bundle2.Evidence.ProofID {
		t.Error("expected proof_id to differ between firings")
	}
	if bundle1.Evidence.TaskID == bundle2.Evidence.TaskID {
		t.Error("expected task_id to differ between firings")
	}
}

func TestBuildProofBundle_VerificationStrictnessOverridesReportedSuccess(t *testing.T) {
	c := newHungerController(t)
	acc := &ReflexAccumulator{
		ReflexInstanceID: "instance-1",
		GoalID:           "goal-1",
		NeedType:         types.NeedSurvival,
		Template:         foodConsumptionTemplate,
		CandidateItem:    "bread",
		TriggeredAt:      time.Now(),
		FormulatedAt:     time.Now(),
		TaskCreatedAt:    time.Now(),
		TriggerFood:      10,
		TriggerInventory: map[string]int{"bread": 3},
		Steps:            []evidence.TaskStep{{Leaf: "consume_food", Args: map[string]interface{}{"food_type": "any", "amount": 1}}},
	}

	outcome := ExecutionOutcome{
		TaskID:  "task-1",
		Result:  evidence.ExecutionOK,
		Receipt: &evidence.ExecutionReceipt{ItemsConsumed: 0},
	}
	after := &AfterState{Food: 14, Inventory: map[string]int{"bread": 3}}

	bundle, err := c.BuildProofBundle(acc, outcome, after)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bundle.Identity.ExecutionResult != evidence.ExecutionError {
		t.Errorf("expected execution.result='error' despite reported success, got %s", bundle.Identity.ExecutionResult)
	}
}

func TestBuildProofBundle_EvictsAccumulatorAndEmitsTerminalEvents(t *testing.T) {
	c, acc := fireOnce(t)
	outcome := ExecutionOutcome{TaskID: "task-1", Result: evidence.ExecutionOK, Receipt: &evidence.ExecutionReceipt{ItemsConsumed: 1}}
	after := &AfterState{Food: 14, Inventory: map[string]int{"bread": 2}}

	_, err := c.BuildProofBundle(acc, outcome, after)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := c.Accumulator(acc.ReflexInstanceID); ok {
		t.Error("expected accumulator to be evicted after buildProofBundle")
	}

	events := c.bus.GetByInstance(acc.ReflexInstanceID)
	var sawVerified, sawClosed bool
	for _, e := range events {
		switch e.Type() {
		case lifecycle.EventGoalVerified:
			sawVerified = true
		case lifecycle.EventGoalClosed:
			sawClosed = true
		}
	}
	if !sawVerified || !sawClosed {
		t.Errorf("expected goal_verified and goal_closed events, got %+v", events)
	}
}

func TestBuildProofBundle_NilAccumulatorErrors(t *testing.T) {
	c := newHungerController(t)
	_, err := c.BuildProofBundle(nil, ExecutionOutcome{}, nil)
	if err == nil {
		t.Error("expected error for nil accumulator")
	}
}
