package needs

import (
	"testing"

	"reflexcore/internal/types"
)

func TestGenerateNeeds_NilSnapshotYieldsConservativeCuriosity(t *testing.T) {
	out := GenerateNeeds(nil)
	if len(out) != 1 {
		t.Fatalf("expected exactly 1 need for nil snapshot, got %d", len(out))
	}
	if out[0].Type != types.NeedCuriosity {
		t.Errorf("expected curiosity need, got %s", out[0].Type)
	}
	if out[0].Intensity != 0.2 {
		t.Errorf("expected fixed low intensity 0.2, got %v", out[0].Intensity)
	}
}

func TestGenerateNeeds_SortedByIntensityPlusUrgencyDescending(t *testing.T) {
	snapshot := &types.HomeostasisSnapshot{
		Hunger: 0.1, // severe need
		Safety: 0.9, // mild need
		Energy: 0.9,
		Health: 0.9,
		// A drive left at 0 is fully unmet (severity 1), so every other
		// drive GenerateNeeds reads is set to a mild level too.
		Social:      0.9,
		Achievement: 0.9,
		Creativity:  0.9,
		Curiosity:   0.9,
		Warmth:      0.9,
		Territory:   0.9,
	}
	out := GenerateNeeds(snapshot)
	for i := 1; i < len(out); i++ {
		prev := out[i-1].Intensity + out[i-1].Urgency
		cur := out[i].Intensity + out[i].Urgency
		if cur > prev {
			t.Fatalf("expected descending sort by intensity+urgency, violated at index %d", i)
		}
	}
	if out[0].Type != types.NeedSurvival {
		t.Errorf("expected survival (hunger) need to rank first, got %s", out[0].Type)
	}
}

func TestGenerateNeeds_AcuteSeverityProducesSecondNeed(t *testing.T) {
	snapshot := &types.HomeostasisSnapshot{Hunger: 0.0}
	out := GenerateNeeds(snapshot)

	count := 0
	for _, n := range out {
		if n.Type == types.NeedSurvival {
			count++
		}
	}
	if count != 2 {
		t.Errorf("expected acute severity to produce 2 survival needs, got %d", count)
	}
}

func TestGenerateNeeds_DrivesClampedBeforeUse(t *testing.T) {
	snapshot := &types.HomeostasisSnapshot{Hunger: 5.0, Safety: -2.0}
	out := GenerateNeeds(snapshot)
	for _, n := range out {
		if n.Intensity < 0 || n.Intensity > 1 {
			t.Errorf("expected clamped intensity in [0,1], got %v for %s", n.Intensity, n.Type)
		}
	}
}
