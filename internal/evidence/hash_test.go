package evidence

import "testing"

func TestContentHash_Deterministic(t *testing.T) {
	v := map[string]interface{}{"need_type": "survival", "template": "consume_food"}
	h1, err := ContentHash(v)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := ContentHash(v)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 != h2 {
		t.Errorf("expected deterministic hash, got %s vs %s", h1, h2)
	}
}

func TestContentHash_KeyOrderIndependent(t *testing.T) {
	a := map[string]interface{}{"need_type": "survival", "template": "consume_food"}
	b := map[string]interface{}{"template": "consume_food", "need_type": "survival"}

	ha, _ := ContentHash(a)
	hb, _ := ContentHash(b)
	if ha != hb {
		t.Errorf("expected hash independent of map key insertion order, got %s vs %s", ha, hb)
	}
}

func TestContentHash_FixedLength(t *testing.T) {
	h, err := ContentHash("anything")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if len(h) != 32 {
		t.Errorf("expected 32 hex chars (128 bits), got %d: %s", len(h), h)
	}
}

func TestGoalID_ExcludesCandidateItem(t *testing.T) {
	id1, _ := GoalID("survival", "consume_food")
	id2, _ := GoalID("survival", "consume_food")
	if id1 != id2 {
		t.Error("expected identical goal id for identical need_type+template")
	}

	idOther, _ := GoalID("survival", "flee")
	if id1 == idOther {
		t.Error("expected different goal id for different template")
	}
}
