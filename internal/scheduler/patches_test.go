package scheduler

import (
	"context"
	"testing"

	"github.com/julianstephens/confmate/internal/models"
	"github.com/julianstephens/confmate/internal/review"
)

func draftWithSuggestion(t *testing.T) (*Builder, models.SmartAgenda) {
	t.Helper()
	pool := []models.ScoredSession{
		{Session: models.Session{ID: "c1", Title: "Original", Date: "2025-06-10", Start: "10:00", End: "11:00"}, Score: 70},
	}
	builder := New(Config{}, poolSource(pool))

	favorites := []models.Session{
		{ID: "s1", Title: "Keynote", Date: "2025-06-10", Start: "09:00", End: "10:00"},
	}
	agenda, err := builder.Build(context.Background(), "u1", favorites, nil, nil, []string{"2025-06-10"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return builder, agenda
}

func suggestionID(t *testing.T, agenda models.SmartAgenda, sessionID string) string {
	t.Helper()
	for _, day := range agenda.Days {
		for _, item := range day.Items {
			if item.SessionID == sessionID {
				return item.ID
			}
		}
	}
	t.Fatalf("session %s not found on agenda", sessionID)
	return ""
}

func TestApplyReview_SwapsSuggestion(t *testing.T) {
	builder, agenda := draftWithSuggestion(t)

	patch := review.Patch{
		ID:         "p1",
		Date:       "2025-06-10",
		RemoveItem: suggestionID(t, agenda, "c1"),
		Replacement: models.ScoredSession{
			Session: models.Session{ID: "c2", Title: "Better", Date: "2025-06-10", Start: "11:00", End: "12:00"},
			Score:   95,
		},
	}

	applied := builder.ApplyReview(&agenda, review.Result{Patches: []review.Patch{patch}})
	if applied != 1 {
		t.Fatalf("applied = %d, want 1", applied)
	}

	day := agenda.Days[0]
	for _, item := range day.Items {
		if item.SessionID == "c1" {
			t.Error("patched-out item still on the agenda")
		}
		if item.SessionID == "c2" && item.PatchedBy != "p1" {
			t.Errorf("replacement PatchedBy = %q, want p1", item.PatchedBy)
		}
	}
}

func TestApplyReview_NeverRemovesFavorite(t *testing.T) {
	builder, agenda := draftWithSuggestion(t)

	var favoriteID string
	for _, item := range agenda.Days[0].Items {
		if item.Source == models.SourceUserFavorite {
			favoriteID = item.ID
		}
	}

	patch := review.Patch{
		ID:         "p1",
		Date:       "2025-06-10",
		RemoveItem: favoriteID,
		Replacement: models.ScoredSession{
			Session: models.Session{ID: "c9", Title: "Usurper", Date: "2025-06-10", Start: "09:00", End: "10:00"},
			Score:   99,
		},
	}

	if applied := builder.ApplyReview(&agenda, review.Result{Patches: []review.Patch{patch}}); applied != 0 {
		t.Errorf("applied = %d, patch against a favorite must be dropped", applied)
	}
	found := false
	for _, item := range agenda.Days[0].Items {
		if item.ID == favoriteID {
			found = true
		}
	}
	if !found {
		t.Error("favorite disappeared from the agenda")
	}
}

func TestApplyReview_RejectsOverlappingReplacement(t *testing.T) {
	builder, agenda := draftWithSuggestion(t)

	patch := review.Patch{
		ID:         "p1",
		Date:       "2025-06-10",
		RemoveItem: suggestionID(t, agenda, "c1"),
		Replacement: models.ScoredSession{
			// Overlaps the locked 09:00-10:00 favorite.
			Session: models.Session{ID: "c2", Title: "Clash", Date: "2025-06-10", Start: "09:30", End: "10:30"},
			Score:   95,
		},
	}

	if applied := builder.ApplyReview(&agenda, review.Result{Patches: []review.Patch{patch}}); applied != 0 {
		t.Errorf("applied = %d, overlapping replacement must be dropped", applied)
	}
	// Original suggestion stays.
	found := false
	for _, item := range agenda.Days[0].Items {
		if item.SessionID == "c1" {
			found = true
		}
	}
	if !found {
		t.Error("rejected patch removed the original item anyway")
	}
}

func TestApplyReview_RejectsWrongDate(t *testing.T) {
	builder, agenda := draftWithSuggestion(t)

	patch := review.Patch{
		ID:         "p1",
		Date:       "2025-06-10",
		RemoveItem: suggestionID(t, agenda, "c1"),
		Replacement: models.ScoredSession{
			Session: models.Session{ID: "c2", Title: "Wrong Day", Date: "2025-06-11", Start: "11:00", End: "12:00"},
			Score:   95,
		},
	}

	if applied := builder.ApplyReview(&agenda, review.Result{Patches: []review.Patch{patch}}); applied != 0 {
		t.Errorf("applied = %d, cross-date replacement must be dropped", applied)
	}
}

func TestApplyReview_RejectsCapViolation(t *testing.T) {
	pool := []models.ScoredSession{
		{Session: models.Session{ID: "c1", Title: "Original", Date: "2025-06-10", Start: "10:00", End: "11:00"}, Score: 70},
	}
	builder := New(Config{MaxSessionMinutes: 120}, poolSource(pool))

	favorites := []models.Session{
		{ID: "s1", Title: "Keynote", Date: "2025-06-10", Start: "09:00", End: "10:00"},
	}
	agenda, err := builder.Build(context.Background(), "u1", favorites, nil, nil, []string{"2025-06-10"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	patch := review.Patch{
		ID:         "p1",
		Date:       "2025-06-10",
		RemoveItem: suggestionID(t, agenda, "c1"),
		Replacement: models.ScoredSession{
			// A three-hour replacement blows the 120-minute cap.
			Session: models.Session{ID: "c2", Title: "Marathon", Date: "2025-06-10", Start: "13:00", End: "16:00"},
			Score:   95,
		},
	}

	if applied := builder.ApplyReview(&agenda, review.Result{Patches: []review.Patch{patch}}); applied != 0 {
		t.Errorf("applied = %d, cap-violating replacement must be dropped", applied)
	}
}

func TestApplyReview_RecomputesMetrics(t *testing.T) {
	builder, agenda := draftWithSuggestion(t)
	before := agenda.Metrics.Confidence

	patch := review.Patch{
		ID:         "p1",
		Date:       "2025-06-10",
		RemoveItem: suggestionID(t, agenda, "c1"),
		Replacement: models.ScoredSession{
			Session: models.Session{ID: "c2", Title: "Better", Date: "2025-06-10", Start: "11:00", End: "12:00"},
			Score:   100,
		},
	}

	if applied := builder.ApplyReview(&agenda, review.Result{Patches: []review.Patch{patch}}); applied != 1 {
		t.Fatalf("applied = %d, want 1", applied)
	}
	if agenda.Metrics.Confidence <= before {
		t.Errorf("confidence %.1f did not improve from %.1f after a higher-relevance swap", agenda.Metrics.Confidence, before)
	}
	if agenda.Metrics.SuggestionsAdded != 1 {
		t.Errorf("suggestions added = %d, want 1 after swap", agenda.Metrics.SuggestionsAdded)
	}
}
