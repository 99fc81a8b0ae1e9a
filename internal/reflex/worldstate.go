package reflex

import "reflexcore/internal/types"

// snapshotWorldState adapts one evaluate() snapshot into the read-only
// types.WorldState view the goal generator's availability checks consult.
// It is rebuilt fresh on every Evaluate call and never retained past it.
type snapshotWorldState struct {
	homeostasis types.HomeostasisSnapshot
	inventory   map[string]int
}

var _ types.WorldState = (*snapshotWorldState)(nil)

func newSnapshotWorldState(homeostasis types.HomeostasisSnapshot, inventory map[string]int) *snapshotWorldState {
	return &snapshotWorldState{homeostasis: homeostasis, inventory: inventory}
}

// DriveLevel reports the one drive this reflex instance's snapshot actually
// carries. Other drives read 0 — this adapter only ever sees a hunger
// reflex's snapshot, never the full agent homeostasis.
func (w *snapshotWorldState) DriveLevel(drive types.NeedType) float64 {
	if drive == types.NeedSurvival {
		return w.homeostasis.Hunger
	}
	return 0
}

func (w *snapshotWorldState) HasItem(name string, minCount int) bool {
	return w.inventory[name] >= minCount
}

// IsNear, IsEnvironment, HasWeapon, and HasArmor have no analogue in a
// homeostasis+inventory snapshot; the hunger reflex never consults them.
func (w *snapshotWorldState) IsNear(landmark string) bool    { return false }
func (w *snapshotWorldState) IsEnvironment(flag string) bool { return false }
func (w *snapshotWorldState) HasWeapon() bool                { return false }
func (w *snapshotWorldState) HasArmor() bool                 { return false }
