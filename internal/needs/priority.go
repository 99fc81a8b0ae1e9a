package needs

import (
	"sort"

	"reflexcore/internal/types"
)

// ScoringContext carries the situational adjustments the priority scorer
// applies on top of a need's raw urgency. Callers derive these from world
// state and the agent's active commitments; this package never reaches out
// to fetch them itself.
type ScoringContext struct {
	HealthCrisis     bool
	Starvation       bool
	NightExploration bool

	// PrerequisitesPresent gates context: when false, context collapses to
	// a small value regardless of how urgent the need is.
	PrerequisitesPresent bool

	// ActivePromiseAlignment and CurrentProjectAlignment are in [0,1] and
	// feed the commitment boost.
	ActivePromiseAlignment  float64
	CurrentProjectAlignment float64

	// MinutesSinceSimilarGoal feeds the banded novelty boost (5/10/30 min).
	MinutesSinceSimilarGoal float64

	// CompetingHighPriorityCount is the number of other candidates ranking
	// above a high-priority cutoff this tick; it feeds opportunity cost.
	CompetingHighPriorityCount int
}

// contextCollapse is the value context gating falls to when prerequisites
// for the candidate are absent.
const contextCollapse = 0.05

// ScoreCandidate combines the six orthogonal components into a
// PriorityScore. total = urgency * context * (1 - risk) + commitment +
// novelty - opportunity, clamped to >= 0.
func ScoreCandidate(need types.Need, candidate types.CandidateGoal, risk types.RiskBreakdown, ctx ScoringContext) types.PriorityScore {
	urgency := need.Urgency
	switch {
	case ctx.Starvation:
		urgency *= 2.0
	case ctx.HealthCrisis:
		urgency *= 1.5
	case ctx.NightExploration:
		urgency *= 0.3
	}

	context := 1.0
	if !ctx.PrerequisitesPresent {
		context = contextCollapse
	}

	commitment := 0.2*clamp01(ctx.ActivePromiseAlignment) + 0.2*clamp01(ctx.CurrentProjectAlignment)
	novelty := noveltyBoost(ctx.MinutesSinceSimilarGoal)
	opportunity := 0.05*float64(ctx.CompetingHighPriorityCount) +
		0.1*(candidate.EstimatedMinutes/120.0) +
		0.01*candidate.EstimatedCost

	score := types.PriorityScore{
		Candidate:       candidate,
		Urgency:         urgency,
		Context:         context,
		Risk:            risk,
		CommitmentBoost: commitment,
		NoveltyBoost:    novelty,
		OpportunityCost: opportunity,
	}
	score.Compute()
	return score
}

// noveltyBoost bands time-since-last-similar-goal into three tiers.
func noveltyBoost(minutesSince float64) float64 {
	switch {
	case minutesSince >= 30:
		return 0.3
	case minutesSince >= 10:
		return 0.2
	case minutesSince >= 5:
		return 0.1
	default:
		return 0
	}
}

// RankCandidates sorts scores descending on Total. The reflex controller
// treats this ranking as authoritative: if the intended candidate doesn't
// come out first, the caller must not fire.
func RankCandidates(scores []types.PriorityScore) []types.PriorityScore {
	ranked := append([]types.PriorityScore(nil), scores...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})
	return ranked
}
