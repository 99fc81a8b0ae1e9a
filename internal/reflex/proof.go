package reflex

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"reflexcore/internal/evidence"
	"reflexcore/internal/lifecycle"
)

// AfterState is the post-completion reading buildProofBundle compares
// against the accumulator's trigger snapshot. A nil *AfterState models the
// after-state-unavailable outcome.
type AfterState struct {
	Food      float64
	Inventory map[string]int
}

// ExecutionOutcome is what the integration boundary reports back once a
// dispatched task completes (or fails to).
type ExecutionOutcome struct {
	TaskID  string
	Result  evidence.ExecutionResult
	Receipt *evidence.ExecutionReceipt
}

// BuildProofBundle finalizes a bundle on completion. It is idempotent
// given the same accumulator and outcome: identical inputs always produce
// an identical bundle_hash, regardless of timing or proof_id.
func (c *Controller) BuildProofBundle(acc *ReflexAccumulator, outcome ExecutionOutcome, after *AfterState) (*evidence.ProofBundleV1, error) {
	if acc == nil {
		return nil, fmt.Errorf("reflex: buildProofBundle requires a non-nil accumulator")
	}

	verifyInput := evidence.VerificationInput{
		Before: evidence.FoodInventoryState{
			FoodLevel:       acc.TriggerFood,
			InventoryCounts: acc.TriggerInventory,
		},
		Receipt:         outcome.Receipt,
		TrackedResource: acc.CandidateItem,
	}
	if after != nil {
		verifyInput.After = &evidence.FoodInventoryState{
			FoodLevel:       after.Food,
			InventoryCounts: after.Inventory,
		}
	}
	verification := evidence.VerifyProof(verifyInput)

	// Verification is stricter than the executor's own self-report: an
	// unverified outcome always records execution.result = 'error', even
	// when the actuator itself reported success.
	result := outcome.Result
	if !verification.Verified {
		result = evidence.ExecutionError
	}

	var itemsConsumed []string
	if outcome.Receipt != nil && outcome.Receipt.ItemsConsumed > 0 && acc.CandidateItem != "" {
		itemsConsumed = []string{acc.CandidateItem}
	}

	afterFood := acc.TriggerFood
	if after != nil {
		afterFood = after.Food
	}

	identity := evidence.ProofIdentity{
		TriggerValue:     evidence.RoundedTrigger(acc.TriggerFood),
		Threshold:        c.thresholds.Trigger,
		PreconditionsMet: true,
		GoalType:         string(acc.NeedType),
		Template:         acc.Template,
		Description:      fmt.Sprintf("%s reflex firing for need %s", acc.Template, acc.NeedType),
		Steps:            acc.Steps,
		ExecutionResult:  result,
		Verification:     evidence.NewVerificationBlock(acc.TriggerFood, afterFood, itemsConsumed),
	}

	now := time.Now()
	var receiptMap map[string]interface{}
	if outcome.Receipt != nil {
		receiptMap = map[string]interface{}{"items_consumed": outcome.Receipt.ItemsConsumed}
	}

	ev := evidence.ProofEvidence{
		ProofID:             uuid.NewString(),
		GoalID:              acc.GoalID,
		TaskID:              outcome.TaskID,
		HomeostasisDigest:   acc.HomeostasisDigest,
		CandidateSetDigest:  acc.CandidateSetDigest,
		ExecutionReceipt:    receiptMap,
		CandidateItem:       acc.CandidateItem,
		TriggerToFormulated: acc.FormulatedAt.Sub(acc.TriggeredAt).Milliseconds(),
		FormulatedToTask:    acc.TaskCreatedAt.Sub(acc.FormulatedAt).Milliseconds(),
		TaskToCompleted:     now.Sub(acc.TaskCreatedAt).Milliseconds(),
		TotalMS:             now.Sub(acc.TriggeredAt).Milliseconds(),
		TriggerTimestampMS:  acc.TriggeredAt.UnixMilli(),
	}

	bundle, err := evidence.BuildBundle(identity, ev)
	if err != nil {
		return nil, fmt.Errorf("build proof bundle: %w", err)
	}

	if c.bus != nil {
		c.bus.Emit(lifecycle.NewGoalVerifiedEvent(acc.ReflexInstanceID, verification.Verified, string(verification.Reason)))
		c.bus.Emit(lifecycle.NewGoalClosedEvent(acc.ReflexInstanceID, bundle.BundleHash, verification.Verified))
	}

	c.EvictAccumulator(acc.ReflexInstanceID)

	return bundle, nil
}
