package conversation

import (
	"testing"
	"time"

	"github.com/julianstephens/confmate/internal/models"
)

func TestNew(t *testing.T) {
	conv := New("u1")

	if conv.ID == "" {
		t.Error("expected a generated conversation id")
	}
	if conv.UserID != "u1" {
		t.Errorf("user = %q, want u1", conv.UserID)
	}
	if conv.Phase != models.PhaseGreeting {
		t.Errorf("phase = %q, want greeting", conv.Phase)
	}
	if _, err := time.Parse(time.RFC3339, conv.UpdatedAt); err != nil {
		t.Errorf("updated_at %q is not RFC3339: %v", conv.UpdatedAt, err)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.ConversationPhase
		want     bool
	}{
		{models.PhaseGreeting, models.PhaseCollecting, true},
		{models.PhaseCollecting, models.PhaseResearching, true},
		{models.PhaseCollecting, models.PhaseFailed, true},
		{models.PhaseResearching, models.PhaseConfirming, true},
		{models.PhaseResearching, models.PhaseBuilding, true},
		{models.PhaseConfirming, models.PhaseBuilding, true},
		{models.PhaseConfirming, models.PhaseCollecting, true},
		{models.PhaseBuilding, models.PhaseComplete, true},
		{models.PhaseBuilding, models.PhaseFailed, true},
		{models.PhaseFailed, models.PhaseCollecting, true},

		// Skips and reversals are rejected.
		{models.PhaseGreeting, models.PhaseBuilding, false},
		{models.PhaseGreeting, models.PhaseComplete, false},
		{models.PhaseCollecting, models.PhaseComplete, false},
		{models.PhaseBuilding, models.PhaseCollecting, false},
		{models.PhaseComplete, models.PhaseCollecting, false},
		{models.PhaseComplete, models.PhaseFailed, false},
		{models.PhaseFailed, models.PhaseComplete, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestAdvance(t *testing.T) {
	conv := New("u1")

	for _, phase := range []models.ConversationPhase{
		models.PhaseCollecting,
		models.PhaseResearching,
		models.PhaseBuilding,
		models.PhaseComplete,
	} {
		if err := Advance(&conv, phase); err != nil {
			t.Fatalf("advance to %s failed: %v", phase, err)
		}
		if conv.Phase != phase {
			t.Fatalf("phase = %s, want %s", conv.Phase, phase)
		}
	}
}

func TestAdvance_InvalidLeavesPhaseUntouched(t *testing.T) {
	conv := New("u1")

	if err := Advance(&conv, models.PhaseComplete); err == nil {
		t.Fatal("expected greeting -> complete to be rejected")
	}
	if conv.Phase != models.PhaseGreeting {
		t.Errorf("phase = %s, invalid transition must not mutate", conv.Phase)
	}
}

func TestAdvance_FailedRetries(t *testing.T) {
	conv := New("u1")
	mustAdvance := func(to models.ConversationPhase) {
		t.Helper()
		if err := Advance(&conv, to); err != nil {
			t.Fatalf("advance to %s failed: %v", to, err)
		}
	}

	mustAdvance(models.PhaseCollecting)
	mustAdvance(models.PhaseFailed)
	mustAdvance(models.PhaseCollecting)
	mustAdvance(models.PhaseResearching)
}

func TestIsTerminal(t *testing.T) {
	if !IsTerminal(models.PhaseComplete) {
		t.Error("complete should be terminal")
	}
	if IsTerminal(models.PhaseFailed) {
		t.Error("failed allows a retry and is not terminal")
	}
	if IsTerminal(models.PhaseGreeting) {
		t.Error("greeting is not terminal")
	}
}

func TestRegistry_PutGetRemove(t *testing.T) {
	registry := NewRegistry(time.Minute)
	conv := New("u1")

	registry.Put(conv)
	got, ok := registry.Get(conv.ID)
	if !ok || got.ID != conv.ID {
		t.Fatal("stored conversation not retrievable")
	}

	registry.Remove(conv.ID)
	if _, ok := registry.Get(conv.ID); ok {
		t.Error("removed conversation still retrievable")
	}
}

func TestRegistry_GetMissing(t *testing.T) {
	registry := NewRegistry(time.Minute)
	if _, ok := registry.Get("nope"); ok {
		t.Error("expected miss for unknown id")
	}
}

func TestRegistry_TTLExpiry(t *testing.T) {
	registry := NewRegistry(time.Minute)
	current := time.Now()
	registry.now = func() time.Time { return current }

	conv := New("u1")
	registry.Put(conv)

	current = current.Add(30 * time.Second)
	if _, ok := registry.Get(conv.ID); !ok {
		t.Fatal("unexpired conversation evicted early")
	}

	// Get refreshed the TTL, so expiry counts from the last touch.
	current = current.Add(61 * time.Second)
	if _, ok := registry.Get(conv.ID); ok {
		t.Error("expired conversation still retrievable")
	}
	if registry.Len() != 0 {
		t.Errorf("len = %d, expired entry not dropped on read", registry.Len())
	}
}

func TestRegistry_Sweep(t *testing.T) {
	registry := NewRegistry(time.Minute)
	current := time.Now()
	registry.now = func() time.Time { return current }

	old := New("u1")
	registry.Put(old)
	current = current.Add(2 * time.Minute)
	fresh := New("u2")
	registry.Put(fresh)

	if removed := registry.Sweep(); removed != 1 {
		t.Errorf("swept %d entries, want 1", removed)
	}
	if _, ok := registry.Get(fresh.ID); !ok {
		t.Error("fresh conversation swept away")
	}
	if registry.Len() != 1 {
		t.Errorf("len = %d, want 1", registry.Len())
	}
}
