package reflex

import (
	"reflexcore/internal/needs"
	"reflexcore/internal/types"
)

// foodConsumptionTemplate is the only concrete reflex template this
// controller wires today: the hunger reflex. buildFoodCandidate always
// yields this template, so another drive-specific template (thirst, warmth,
// rest) needs its own candidate generator as well as its own Config.
const foodConsumptionTemplate = "consume_food"

// pickCandidateItem returns the first inventory entry with count > 0, or
// "" with ok=false when nothing is available. Which specific item the
// actuator ultimately consumes is a downstream decision — identity is
// "eat food", not "eat bread".
func pickCandidateItem(inventory []types.InventoryItem) (string, bool) {
	for _, item := range inventory {
		if item.Count > 0 {
			return item.Name, true
		}
	}
	return "", false
}

// buildFoodCandidate constructs the primary candidate goal for the hunger
// reflex, plus a fixed low-priority curiosity filler candidate so the
// "intended candidate ranks first" check is meaningful rather
// than trivially true for a single-element list. Availability of the
// candidate item is read from the world-state adapter, not the raw
// snapshot, so the generator only ever sees what the world-state contract
// exposes.
func buildFoodCandidate(need types.Need, world types.WorldState, candidateItem string) []types.CandidateGoal {
	resources := []types.ResourceRequirement{{ItemName: candidateItem, MinCount: 1}}
	if !world.HasItem(candidateItem, 1) {
		// The availability gate already refused to reach here with nothing
		// on hand; this only guards a future caller that skips the gate.
		resources = nil
	}

	primary := types.CandidateGoal{
		NeedType:         need.Type,
		Template:         foodConsumptionTemplate,
		EstimatedCost:    1,
		EstimatedMinutes: 1,
		SourceNeedType:   need.Type,
		Description:      "consume available food to satisfy hunger",
		Resources:        resources,
	}

	filler := types.CandidateGoal{
		NeedType:         types.NeedCuriosity,
		Template:         "idle_explore",
		EstimatedCost:    5,
		EstimatedMinutes: 10,
		SourceNeedType:   types.NeedCuriosity,
		Description:      "low-priority filler candidate for ranking comparison",
	}

	return []types.CandidateGoal{primary, filler}
}

// scoreCandidates priority-scores every candidate against the firing need
// and returns them ranked descending, authoritative for whether the
// controller is allowed to fire on the primary candidate.
func scoreCandidates(need types.Need, candidates []types.CandidateGoal, ctx needs.ScoringContext) []types.PriorityScore {
	scored := make([]types.PriorityScore, 0, len(candidates))
	for _, c := range candidates {
		risk := types.RiskBreakdown{}
		localCtx := ctx
		if c.Template != foodConsumptionTemplate {
			// The filler candidate never benefits from the firing need's
			// starvation/health-crisis multipliers or its prerequisite gate.
			localCtx = needs.ScoringContext{PrerequisitesPresent: true}
			fillerNeed := types.Need{Urgency: 0.05}
			scored = append(scored, needs.ScoreCandidate(fillerNeed, c, risk, localCtx))
			continue
		}
		scored = append(scored, needs.ScoreCandidate(need, c, risk, localCtx))
	}
	return needs.RankCandidates(scored)
}
