// Package reflex implements the hysteresis-gated reflex controller: the
// state machine that decides, on each homeostasis sample, whether a
// reflex firing is warranted, and if so runs it through goal formulation
// and emits the correlated lifecycle events.
package reflex

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"reflexcore/internal/evidence"
	"reflexcore/internal/lifecycle"
	"reflexcore/internal/logging"
	"reflexcore/internal/needs"
	"reflexcore/internal/types"
)

// Thresholds are the three hysteresis bounds. Reset must exceed trigger;
// critical must not exceed trigger. Validate enforces this at construction.
type Thresholds struct {
	Trigger  float64
	Reset    float64
	Critical float64
}

// Validate checks the ordering invariant Reset > Trigger >= Critical.
func (t Thresholds) Validate() error {
	if t.Reset <= t.Trigger {
		return fmt.Errorf("reset threshold (%v) must exceed trigger threshold (%v)", t.Reset, t.Trigger)
	}
	if t.Critical > t.Trigger {
		return fmt.Errorf("critical threshold (%v) must not exceed trigger threshold (%v)", t.Critical, t.Trigger)
	}
	return nil
}

// Snapshot is what evaluate consumes: the measured drive level plus the
// external inventory reading the availability gate checks.
type Snapshot struct {
	Food      float64
	Inventory []types.InventoryItem
}

func (s Snapshot) inventoryCounts() map[string]int {
	out := make(map[string]int, len(s.Inventory))
	for _, item := range s.Inventory {
		out[item.Name] = item.Count
	}
	return out
}

// EvaluateOptions carries evaluate's optional dry_run flag.
type EvaluateOptions struct {
	DryRun bool
}

// TaskDescription is the constructed task a firing hands to the execution
// gateway, carrying explicit default arguments per step.
type TaskDescription struct {
	Steps []evidence.TaskStep
}

// ReflexResult is evaluate's successful outcome.
type ReflexResult struct {
	Candidate        types.CandidateGoal
	Task             TaskDescription
	GoalKey          string
	GoalID           string
	ReflexInstanceID string
	Accumulator      *ReflexAccumulator
}

// Config parameterizes one reflex instance. This port wires exactly one
// concrete reflex — hunger. The gating steps are generic, but Evaluate reads
// Snapshot.Food, maps it onto the Hunger drive and always builds a
// consume_food step, and the candidate generator in goalgen.go only yields a
// consume_food candidate, so a Config with another Template never fires.
type Config struct {
	Thresholds      Thresholds
	NeedType        types.NeedType
	Template        string
	MaxAccumulators int
	AccumulatorTTL  time.Duration
	Bus             *lifecycle.Bus

	// ShadowMode mirrors the executor mode at the gateway: when true, a
	// firing disarms the controller, emits only goal_formulated and stores
	// no accumulator. An explicit dry_run, by contrast, emits no event.
	ShadowMode bool
}

// Controller owns hysteresis state and the accumulator map for one reflex
// instance. All state mutation inside evaluate is synchronous within a
// single call, so accumulator storage, event emission, and hysteresis
// transitions appear atomic to external observers.
type Controller struct {
	mu         sync.Mutex
	armed      bool
	thresholds Thresholds
	needType   types.NeedType
	template   string
	bus        *lifecycle.Bus
	shadow     bool
	accum      *accumulatorStore
}

// New constructs an armed Controller. Panics on an invalid threshold
// ordering — a misconfigured reflex is a startup defect, not a runtime one.
func New(cfg Config) *Controller {
	if err := cfg.Thresholds.Validate(); err != nil {
		panic(fmt.Sprintf("reflex: invalid thresholds: %v", err))
	}
	return &Controller{
		armed:      true,
		thresholds: cfg.Thresholds,
		needType:   cfg.NeedType,
		template:   cfg.Template,
		bus:        cfg.Bus,
		shadow:     cfg.ShadowMode,
		accum:      newAccumulatorStore(cfg.MaxAccumulators, cfg.AccumulatorTTL),
	}
}

// Armed reports the current hysteresis state.
func (c *Controller) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.armed
}

// Evaluate is evaluate(snapshot, idle_reason, {dry_run?}). It is total: it
// either returns a firing or (nil, false); it never panics for flow
// control. External pipeline component failures are folded into "no
// firing" with no accumulator stored.
func (c *Controller) Evaluate(snapshot Snapshot, idleReason types.IdleReason, opts EvaluateOptions) (*ReflexResult, bool) {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	// 1. Opportunistic stale-accumulator eviction.
	c.accum.evictStale(now)

	// 2. Hysteresis gate. Dry-run computes the rest of the pipeline as if
	// armed — it previews what would fire, it never applies the gate or
	// mutates armed state — so a disarmed controller does not short-circuit
	// here when opts.DryRun is set.
	if !c.armed && !opts.DryRun {
		if snapshot.Food < c.thresholds.Reset {
			return nil, false
		}
		c.armed = true
		logging.Reflex("hysteresis re-armed: food=%.2f reset_threshold=%.2f", snapshot.Food, c.thresholds.Reset)
	}

	// 3. Threshold gate.
	if snapshot.Food > c.thresholds.Trigger {
		return nil, false
	}

	// 4. Preemption gate.
	critical := snapshot.Food <= c.thresholds.Critical
	if !critical && idleReason != types.IdleNoTasks {
		return nil, false
	}

	// 5. Availability gate, read through the world-state adapter rather
	// than the raw snapshot directly.
	roundedFood := evidence.RoundedTrigger(snapshot.Food)
	// Hunger is the satiation drive (1=full, 0=starving); food is on a
	// roughly 0-20 scale in this domain, so normalize directly rather than
	// inverting — low food must map to low Hunger, i.e. high need severity.
	homeostasis := types.HomeostasisSnapshot{Hunger: roundedFood / 20, TimestampMS: now.UnixMilli()}
	worldState := newSnapshotWorldState(homeostasis, snapshot.inventoryCounts())

	candidateItem, available := pickCandidateItem(snapshot.Inventory)
	if !available || !worldState.HasItem(candidateItem, 1) {
		return nil, false
	}

	// 6. Pipeline execution: generate candidates against the adapted
	// world-state view, priority-score them, and verify the intended
	// candidate ranks first.
	needList := needs.GenerateNeeds(&homeostasis)

	need, found := findNeed(needList, c.needType)
	if !found {
		logging.ReflexWarn("pipeline abort: no %s need produced from snapshot", c.needType)
		return nil, false
	}

	candidates := buildFoodCandidate(need, worldState, candidateItem)
	scoringCtx := needs.ScoringContext{
		PrerequisitesPresent: available,
		Starvation:           critical,
	}
	ranked := scoreCandidates(need, candidates, scoringCtx)
	if len(ranked) == 0 || ranked[0].Candidate.Template != c.template {
		logging.ReflexWarn("pipeline abort: intended candidate did not rank first")
		return nil, false
	}

	homeostasisDigest, err := evidence.ContentHash(homeostasis)
	if err != nil {
		logging.ReflexError("pipeline abort: homeostasis digest failed: %v", err)
		return nil, false
	}
	candidateSetDigest, err := evidence.ContentHash(candidates)
	if err != nil {
		logging.ReflexError("pipeline abort: candidate set digest failed: %v", err)
		return nil, false
	}

	// 7. Commit.
	goalID, err := evidence.GoalID(string(c.needType), c.template)
	if err != nil {
		logging.ReflexError("commit abort: goal id hash failed: %v", err)
		return nil, false
	}
	goalKey := goalID // goalKey and goal_id share the same derivation per spec.

	steps := []evidence.TaskStep{
		{Leaf: "consume_food", Args: map[string]interface{}{"food_type": "any", "amount": 1}},
	}

	if opts.DryRun {
		// Dry-run computes gating as if armed but never mutates armed state
		// or stores an accumulator — there is nothing here to disarm or
		// evict later, so the result carries no ReflexInstanceID.
		return &ReflexResult{
			Candidate: ranked[0].Candidate,
			Task:      TaskDescription{Steps: steps},
			GoalKey:   goalKey,
			GoalID:    goalID,
		}, true
	}

	c.armed = false
	instanceID := uuid.NewString()

	acc := &ReflexAccumulator{
		ReflexInstanceID:   instanceID,
		GoalKey:            goalKey,
		GoalID:             goalID,
		NeedType:           c.needType,
		Template:           c.template,
		CandidateItem:      candidateItem,
		TriggeredAt:        now,
		FormulatedAt:       now,
		TriggerSnapshot:    homeostasis,
		TriggerFood:        snapshot.Food,
		TriggerInventory:   snapshot.inventoryCounts(),
		HomeostasisDigest:  homeostasisDigest,
		CandidateSetDigest: candidateSetDigest,
		Steps:              steps,
	}

	if c.bus != nil {
		c.bus.Emit(lifecycle.NewGoalFormulatedEvent(instanceID, goalID, goalKey, string(c.needType), c.template))
	}

	if c.shadow {
		// Shadow mode: only goal_formulated fires, no task enqueued, no
		// accumulator stored — there will never be a completion signal.
		return &ReflexResult{
			Candidate:        ranked[0].Candidate,
			Task:             TaskDescription{Steps: steps},
			GoalKey:          goalKey,
			GoalID:           goalID,
			ReflexInstanceID: instanceID,
		}, true
	}

	acc.TaskCreatedAt = now
	c.accum.put(acc)

	if c.bus != nil {
		c.bus.Emit(lifecycle.NewTaskPlannedEvent(instanceID, goalID, len(steps)))
	}

	return &ReflexResult{
		Candidate:        ranked[0].Candidate,
		Task:             TaskDescription{Steps: steps},
		GoalKey:          goalKey,
		GoalID:           goalID,
		ReflexInstanceID: instanceID,
		Accumulator:      acc,
	}, true
}

func findNeed(list []types.Need, needType types.NeedType) (types.Need, bool) {
	for _, n := range list {
		if n.Type == needType {
			return n, true
		}
	}
	return types.Need{}, false
}

// EvictAccumulator releases accumulator state when no completion will
// arrive — the integration boundary's explicit "give up waiting" signal.
func (c *Controller) EvictAccumulator(id string) {
	c.accum.evict(id)
}

// EmitTaskEnqueued records the actuator-assigned task id once dispatch
// lands successfully. Called by the integration boundary, not by evaluate
// itself — enqueue happens outside the controller's synchronous scope.
func (c *Controller) EmitTaskEnqueued(reflexInstanceID, taskID string) {
	if c.bus != nil {
		c.bus.Emit(lifecycle.NewTaskEnqueuedEvent(reflexInstanceID, taskID))
	}
}

// EmitTaskEnqueueSkipped marks a firing terminal without dispatch and
// evicts its accumulator — no completion event can ever arrive for it.
func (c *Controller) EmitTaskEnqueueSkipped(reflexInstanceID string, reason lifecycle.SkipReason) {
	if c.bus != nil {
		c.bus.Emit(lifecycle.NewTaskEnqueueSkippedEvent(reflexInstanceID, reason))
	}
	c.EvictAccumulator(reflexInstanceID)
}

// AccumulatorCount reports how many accumulators are currently retained.
// Test and diagnostic use.
func (c *Controller) AccumulatorCount() int {
	return c.accum.len()
}

// Accumulator looks up one stored accumulator by instance id.
func (c *Controller) Accumulator(id string) (*ReflexAccumulator, bool) {
	return c.accum.get(id)
}
