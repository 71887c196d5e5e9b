package scheduler

import (
	"context"
	"testing"

	"github.com/julianstephens/confmate/internal/models"
)

func TestInsertFavorite_FreeSlot(t *testing.T) {
	builder := New(Config{}, nil)

	favorites := []models.Session{
		{ID: "s1", Title: "Keynote", Date: "2025-06-10", Start: "09:00", End: "10:00"},
	}
	agenda, err := builder.Build(context.Background(), "u1", favorites, nil, nil, []string{"2025-06-10"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	itemsBefore := len(agenda.Days[0].Items)

	session := models.Session{ID: "s2", Title: "Afternoon Talk", Date: "2025-06-10", Start: "14:00", End: "15:00"}
	result, placed := builder.InsertFavorite(&agenda, session)

	if !placed {
		t.Fatal("expected insertion into a free slot")
	}
	if result.HasConflicts {
		t.Error("free-slot insert reported conflicts")
	}
	if len(agenda.Days[0].Items) != itemsBefore+1 {
		t.Errorf("items = %d, want %d", len(agenda.Days[0].Items), itemsBefore+1)
	}
	// Existing items are untouched.
	foundKeynote := false
	for _, item := range agenda.Days[0].Items {
		if item.SessionID == "s1" {
			foundKeynote = true
		}
	}
	if !foundKeynote {
		t.Error("existing favorite disappeared during incremental insert")
	}
	if agenda.Metrics.TotalFavorites != 2 || agenda.Metrics.FavoritesIncluded != 2 {
		t.Errorf("metrics = %+v, want both favorite counts 2", agenda.Metrics)
	}
}

func TestInsertFavorite_ConflictLeavesAgendaUntouched(t *testing.T) {
	builder := New(Config{}, nil)

	favorites := []models.Session{
		{ID: "s1", Title: "Keynote", Date: "2025-06-10", Start: "09:00", End: "10:00"},
	}
	agenda, err := builder.Build(context.Background(), "u1", favorites, nil, nil, []string{"2025-06-10"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	itemsBefore := len(agenda.Days[0].Items)

	session := models.Session{ID: "s2", Title: "Clash", Date: "2025-06-10", Start: "09:30", End: "10:30"}
	result, placed := builder.InsertFavorite(&agenda, session)

	if placed {
		t.Fatal("conflicting favorite must not be inserted")
	}
	if !result.HasConflicts {
		t.Error("expected conflict details in the result")
	}
	if len(agenda.Days[0].Items) != itemsBefore {
		t.Errorf("agenda changed: items = %d, want %d", len(agenda.Days[0].Items), itemsBefore)
	}
}

func TestInsertFavorite_NoDayForDate(t *testing.T) {
	builder := New(Config{}, nil)

	agenda, err := builder.Build(context.Background(), "u1", nil, nil, nil, []string{"2025-06-10"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	session := models.Session{ID: "s2", Title: "Off Schedule", Date: "2025-07-01", Start: "09:00", End: "10:00"}
	if _, placed := builder.InsertFavorite(&agenda, session); placed {
		t.Error("favorite outside the agenda's date range must not be placed")
	}
}

func TestRemoveFavorite_LeavesSlotOpen(t *testing.T) {
	builder := New(Config{}, nil)

	favorites := []models.Session{
		{ID: "s1", Title: "Keynote", Date: "2025-06-10", Start: "09:00", End: "10:00"},
		{ID: "s2", Title: "Workshop", Date: "2025-06-10", Start: "11:00", End: "12:00"},
	}
	agenda, err := builder.Build(context.Background(), "u1", favorites, nil, nil, []string{"2025-06-10"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if !builder.RemoveFavorite(&agenda, "s1") {
		t.Fatal("expected removal to report true")
	}

	for _, item := range agenda.Days[0].Items {
		if item.SessionID == "s1" {
			t.Error("removed favorite still on the agenda")
		}
	}
	// Nothing is refilled; the other favorite remains.
	if len(agenda.Days[0].Items) != 1 {
		t.Errorf("items = %d, want 1", len(agenda.Days[0].Items))
	}
	if agenda.Metrics.TotalFavorites != 1 || agenda.Metrics.FavoritesIncluded != 1 {
		t.Errorf("metrics = %+v, want both favorite counts 1", agenda.Metrics)
	}
}

func TestRemoveFavorite_ClearsAlternative(t *testing.T) {
	builder := New(Config{}, nil)

	favorites := []models.Session{
		{ID: "s1", Title: "Alpha", Date: "2025-06-10", Start: "09:00", End: "10:00"},
		{ID: "s2", Title: "Beta", Date: "2025-06-10", Start: "09:30", End: "10:30"},
	}
	agenda, err := builder.Build(context.Background(), "u1", favorites, nil, nil, []string{"2025-06-10"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(agenda.Days[0].Alternatives) != 1 {
		t.Fatalf("precondition: expected 1 alternative, got %d", len(agenda.Days[0].Alternatives))
	}

	// s2 lost the favorite-vs-favorite conflict; unfavoriting it clears the
	// alternatives list.
	if !builder.RemoveFavorite(&agenda, "s2") {
		t.Fatal("expected removal of the displaced favorite to report true")
	}
	if len(agenda.Days[0].Alternatives) != 0 {
		t.Errorf("alternatives = %d, want 0", len(agenda.Days[0].Alternatives))
	}
}

func TestRemoveFavorite_UnknownSession(t *testing.T) {
	builder := New(Config{}, nil)

	agenda, err := builder.Build(context.Background(), "u1", nil, nil, nil, []string{"2025-06-10"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if builder.RemoveFavorite(&agenda, "nope") {
		t.Error("removal of an unknown session must report false")
	}
}
