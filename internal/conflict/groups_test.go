package conflict

import "testing"

func TestGroupConflicts_TransitiveChain(t *testing.T) {
	// A overlaps B, B overlaps C, but A and C do not touch. All three belong
	// to one group.
	items := []Interval{
		{ID: "a", Title: "A", Date: "2025-06-10", Start: "09:00", End: "10:00"},
		{ID: "b", Title: "B", Date: "2025-06-10", Start: "09:45", End: "10:45"},
		{ID: "c", Title: "C", Date: "2025-06-10", Start: "10:30", End: "11:30"},
	}

	groups := GroupConflicts(items)

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if len(groups[0].Intervals) != 3 {
		t.Errorf("expected 3 members, got %d", len(groups[0].Intervals))
	}
	if groups[0].Intervals[0].ID != "a" {
		t.Errorf("expected members sorted by start, first was %s", groups[0].Intervals[0].ID)
	}
}

func TestGroupConflicts_SingletonsDropped(t *testing.T) {
	items := []Interval{
		{ID: "a", Title: "A", Date: "2025-06-10", Start: "09:00", End: "10:00"},
		{ID: "b", Title: "B", Date: "2025-06-10", Start: "11:00", End: "12:00"},
	}

	groups := GroupConflicts(items)

	if len(groups) != 0 {
		t.Errorf("expected no groups for non-overlapping intervals, got %d", len(groups))
	}
}

func TestGroupConflicts_SeparateDays(t *testing.T) {
	items := []Interval{
		{ID: "a", Title: "A", Date: "2025-06-10", Start: "09:00", End: "10:00"},
		{ID: "b", Title: "B", Date: "2025-06-10", Start: "09:30", End: "10:30"},
		{ID: "c", Title: "C", Date: "2025-06-11", Start: "09:00", End: "10:00"},
		{ID: "d", Title: "D", Date: "2025-06-11", Start: "09:30", End: "10:30"},
	}

	groups := GroupConflicts(items)

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups across days, got %d", len(groups))
	}
	if groups[0].Date != "2025-06-10" || groups[1].Date != "2025-06-11" {
		t.Errorf("expected groups ordered by date, got %s then %s", groups[0].Date, groups[1].Date)
	}
}

func TestGroupConflicts_MultipleGroupsSameDay(t *testing.T) {
	items := []Interval{
		{ID: "a", Title: "A", Date: "2025-06-10", Start: "09:00", End: "10:00"},
		{ID: "b", Title: "B", Date: "2025-06-10", Start: "09:30", End: "10:30"},
		{ID: "c", Title: "C", Date: "2025-06-10", Start: "14:00", End: "15:00"},
		{ID: "d", Title: "D", Date: "2025-06-10", Start: "14:30", End: "15:30"},
	}

	groups := GroupConflicts(items)

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Intervals[0].Start != "09:00" {
		t.Errorf("expected earliest group first, got start %s", groups[0].Intervals[0].Start)
	}
}

func TestGroupConflicts_Deterministic(t *testing.T) {
	items := []Interval{
		{ID: "b", Title: "B", Date: "2025-06-10", Start: "09:00", End: "10:00"},
		{ID: "a", Title: "A", Date: "2025-06-10", Start: "09:00", End: "10:00"},
		{ID: "c", Title: "C", Date: "2025-06-10", Start: "09:30", End: "10:30"},
	}

	first := GroupConflicts(items)
	for i := 0; i < 10; i++ {
		again := GroupConflicts(items)
		if len(again) != len(first) {
			t.Fatal("group count varied between runs")
		}
		for g := range again {
			for m := range again[g].Intervals {
				if again[g].Intervals[m].ID != first[g].Intervals[m].ID {
					t.Fatal("member ordering varied between runs")
				}
			}
		}
	}

	// Identical starts fall back to title ordering.
	if first[0].Intervals[0].ID != "a" {
		t.Errorf("expected title tie-break, first member was %s", first[0].Intervals[0].ID)
	}
}
