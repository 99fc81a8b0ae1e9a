// Package needs implements the pure transformations from a homeostasis
// snapshot to a ranked need list, and from a candidate goal to a priority
// score. Nothing here suspends or mutates external state.
package needs

import (
	"sort"
	"time"

	"reflexcore/internal/types"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// acuteSeverityThreshold is the severity above which a drive produces a
// second, more urgent need alongside its baseline need.
const acuteSeverityThreshold = 0.7

// GenerateNeeds is a pure transformation from a homeostasis snapshot to a
// prioritized need list. A nil snapshot is an early-return guard yielding a
// single conservative curiosity need with fixed low intensity — the
// controller still has something to rank against when the poller hasn't
// produced a reading yet.
func GenerateNeeds(snapshot *types.HomeostasisSnapshot) []types.Need {
	now := time.Now()

	if snapshot == nil {
		return []types.Need{{
			Type:         types.NeedCuriosity,
			Intensity:    0.2,
			Urgency:      0.1,
			Satisfaction: 0.8,
			Description:  "default low-intensity curiosity need (no snapshot available)",
			CreatedAt:    now,
			UpdatedAt:    now,
		}}
	}

	clamped := snapshot.Clamped()
	var out []types.Need

	add := func(needType types.NeedType, severity float64, desc string) {
		severity = clamp01(severity)
		out = append(out, types.Need{
			Type:         needType,
			Intensity:    severity,
			Urgency:      severity,
			Satisfaction: clamp01(1 - severity),
			Description:  desc,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if severity > acuteSeverityThreshold {
			out = append(out, types.Need{
				Type:         needType,
				Intensity:    severity,
				Urgency:      clamp01(severity * 1.3),
				Satisfaction: clamp01(1 - severity),
				Description:  desc + " (acute)",
				CreatedAt:    now,
				UpdatedAt:    now,
			})
		}
	}

	add(types.NeedSurvival, 1-clamped.Hunger, "hunger drive unmet")
	add(types.NeedSafety, 1-clamped.Safety, "safety drive unmet")
	add(types.NeedSafety, 1-clamped.Health, "health drive unmet")
	add(types.NeedRest, 1-clamped.Energy, "energy drive unmet")
	add(types.NeedSocial, 1-clamped.Social, "social drive unmet")
	add(types.NeedAchievement, 1-clamped.Achievement, "achievement drive unmet")
	add(types.NeedCreativity, 1-clamped.Creativity, "creativity drive unmet")
	add(types.NeedCuriosity, 1-clamped.Curiosity, "curiosity drive unmet")
	add(types.NeedWarmth, 1-clamped.Warmth, "warmth drive unmet")
	add(types.NeedTerritory, 1-clamped.Territory, "territory drive unmet")

	sort.SliceStable(out, func(i, j int) bool {
		return (out[i].Intensity + out[i].Urgency) > (out[j].Intensity + out[j].Urgency)
	})

	return out
}
