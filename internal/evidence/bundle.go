package evidence

import (
	"fmt"
	"sort"
)

// SchemaVersion tags every bundle this package produces.
const SchemaVersion = "autonomy_proof_v1"

// ExecutionResult is a closed enumeration of how a fired reflex's dispatched
// task ultimately resolved.
type ExecutionResult string

const (
	ExecutionOK      ExecutionResult = "ok"
	ExecutionError   ExecutionResult = "error"
	ExecutionSkipped ExecutionResult = "skipped"
)

// TaskStep is one ordered step of the constructed task plan. Leaf is the
// finest-grained actuator primitive (e.g. "consume_food"); Args carries its
// explicit default arguments.
type TaskStep struct {
	Leaf string                 `json:"leaf"`
	Args map[string]interface{} `json:"args"`
}

// VerificationBlock is the hashed, semantic-only record of what the
// verification algorithm observed. ItemsConsumed MUST be sorted before
// assignment — see NewVerificationBlock.
type VerificationBlock struct {
	FoodBefore    float64  `json:"food_before"`
	FoodAfter     float64  `json:"food_after"`
	FoodDelta     float64  `json:"food_delta"`
	ItemsConsumed []string `json:"items_consumed"`
}

// NewVerificationBlock builds a VerificationBlock with itemsConsumed sorted,
// so canonicalization's order-preservation for sequences does not leak
// observation-order nondeterminism into the identity hash.
func NewVerificationBlock(before, after float64, itemsConsumed []string) VerificationBlock {
	sorted := append([]string(nil), itemsConsumed...)
	sort.Strings(sorted)
	return VerificationBlock{
		FoodBefore:    before,
		FoodAfter:     after,
		FoodDelta:     after - before,
		ItemsConsumed: sorted,
	}
}

// ProofIdentity carries only semantic fields: no UUIDs, timestamps, or other
// runtime-specific nondeterministic data. Its canonical hash is bundle_hash.
type ProofIdentity struct {
	TriggerValue     float64           `json:"trigger_value"`
	Threshold        float64           `json:"threshold"`
	PreconditionsMet bool              `json:"preconditions_met"`
	GoalType         string            `json:"goal_type"`
	Template         string            `json:"template"`
	Description      string            `json:"description"`
	Steps            []TaskStep        `json:"steps"`
	ExecutionResult  ExecutionResult   `json:"execution_result"`
	Verification     VerificationBlock `json:"verification"`
}

// RoundedTrigger returns the trigger value rounded to 2 decimals, matching
// the identity's "rounded trigger value" field per the spec's normalization
// rule for the hashed layer.
func RoundedTrigger(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// ProofEvidence is the per-run, not-hashed companion to ProofIdentity. All
// fields here are allowed to vary between otherwise-identical firings.
type ProofEvidence struct {
	ProofID             string                 `json:"proof_id"`
	GoalID              string                 `json:"goal_id"`
	TaskID              string                 `json:"task_id,omitempty"`
	HomeostasisDigest   string                 `json:"homeostasis_digest"`
	CandidateSetDigest  string                 `json:"candidate_set_digest"`
	ExecutionReceipt    map[string]interface{} `json:"execution_receipt,omitempty"`
	CandidateItem       string                 `json:"candidate_item,omitempty"`
	TriggerToFormulated int64                  `json:"trigger_to_formulated_ms"`
	FormulatedToTask    int64                  `json:"formulated_to_task_ms"`
	TaskToCompleted     int64                  `json:"task_to_completed_ms"`
	TotalMS             int64                  `json:"total_ms"`
	TriggerTimestampMS  int64                  `json:"trigger_timestamp_ms"`
}

// ProofBundleV1 is the full, immutable proof artifact.
type ProofBundleV1 struct {
	SchemaVersion string        `json:"schema_version"`
	BundleHash    string        `json:"bundle_hash"`
	Identity      ProofIdentity `json:"identity"`
	Evidence      ProofEvidence `json:"evidence"`
}

// BuildBundle hashes identity's canonical form and assembles the bundle.
// It is idempotent: identical identity values always produce an identical
// bundle_hash, regardless of what varies in evidence.
func BuildBundle(identity ProofIdentity, ev ProofEvidence) (*ProofBundleV1, error) {
	hash, err := ContentHash(identity)
	if err != nil {
		return nil, fmt.Errorf("build bundle: %w", err)
	}
	return &ProofBundleV1{
		SchemaVersion: SchemaVersion,
		BundleHash:    hash,
		Identity:      identity,
		Evidence:      ev,
	}, nil
}

// GoalID derives the content-addressed goal identifier over {need_type,
// template_name}. The candidate resource item is deliberately excluded —
// identity is "eat food", not "eat bread".
func GoalID(needType, template string) (string, error) {
	return ContentHash(map[string]interface{}{
		"need_type": needType,
		"template":  template,
	})
}
