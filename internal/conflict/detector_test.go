package conflict

import (
	"testing"
)

func TestDetect_NoOverlap(t *testing.T) {
	detector := New(15)

	candidate := Interval{ID: "c", Title: "Candidate", Date: "2025-06-10", Start: "11:00", End: "12:00", Location: "Hall A"}
	existing := []Interval{
		{ID: "a", Title: "Morning Talk", Date: "2025-06-10", Start: "09:00", End: "10:00", Location: "Hall B"},
	}

	result := detector.Detect(candidate, existing)

	if result.HasConflicts {
		t.Error("expected no conflicts for non-overlapping intervals")
	}
	if len(result.Conflicts) != 0 {
		t.Errorf("expected 0 conflicts, got %d", len(result.Conflicts))
	}
}

func TestDetect_PartialOverlapIsMedium(t *testing.T) {
	detector := New(15)

	// 30-minute overlap on two 60-minute sessions: under the 50% threshold.
	candidate := Interval{ID: "c", Title: "Candidate", Date: "2025-06-10", Start: "09:30", End: "10:30"}
	existing := []Interval{
		{ID: "a", Title: "Meeting", Date: "2025-06-10", Start: "09:00", End: "10:00"},
	}

	result := detector.Detect(candidate, existing)

	if !result.HasConflicts {
		t.Fatal("expected a conflict")
	}
	if len(result.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(result.Conflicts))
	}
	c := result.Conflicts[0]
	if c.OverlapMinutes != 30 {
		t.Errorf("expected 30 overlap minutes, got %d", c.OverlapMinutes)
	}
	if c.Severity != SeverityMedium {
		t.Errorf("expected medium severity, got %s", c.Severity)
	}
}

func TestDetect_MajorityOverlapIsHigh(t *testing.T) {
	detector := New(15)

	// 45 of 60 minutes overlap: well above half the shorter duration.
	candidate := Interval{ID: "c", Title: "Candidate", Date: "2025-06-10", Start: "09:15", End: "10:15"}
	existing := []Interval{
		{ID: "a", Title: "Keynote", Date: "2025-06-10", Start: "09:00", End: "10:00"},
	}

	result := detector.Detect(candidate, existing)

	if len(result.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(result.Conflicts))
	}
	if result.Conflicts[0].Severity != SeverityHigh {
		t.Errorf("expected high severity, got %s", result.Conflicts[0].Severity)
	}
}

func TestDetect_HalfOverlapBoundary(t *testing.T) {
	detector := New(15)

	existing := []Interval{
		{ID: "a", Title: "Workshop", Date: "2025-06-10", Start: "09:00", End: "11:00"},
	}

	// 60 of 120 minutes overlap: exactly half the shorter duration stays medium.
	atHalf := Interval{ID: "c", Title: "Candidate", Date: "2025-06-10", Start: "10:00", End: "12:00"}
	result := detector.Detect(atHalf, existing)
	if len(result.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(result.Conflicts))
	}
	if result.Conflicts[0].Severity != SeverityMedium {
		t.Errorf("expected medium severity at exactly half, got %s", result.Conflicts[0].Severity)
	}

	// 61 of 120 minutes overlap: one minute past half tips to high.
	pastHalf := Interval{ID: "c", Title: "Candidate", Date: "2025-06-10", Start: "09:59", End: "12:00"}
	result = detector.Detect(pastHalf, existing)
	if len(result.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(result.Conflicts))
	}
	if result.Conflicts[0].Severity != SeverityHigh {
		t.Errorf("expected high severity past half, got %s", result.Conflicts[0].Severity)
	}
}

func TestDetect_BackToBackSameRoomIsLow(t *testing.T) {
	detector := New(15)

	candidate := Interval{ID: "c", Title: "Candidate", Date: "2025-06-10", Start: "10:05", End: "11:00", Location: "Hall A"}
	existing := []Interval{
		{ID: "a", Title: "Prior Talk", Date: "2025-06-10", Start: "09:00", End: "10:00", Location: "Hall A"},
	}

	result := detector.Detect(candidate, existing)

	if result.HasConflicts {
		t.Error("low-severity squeeze should not set HasConflicts")
	}
	if len(result.Conflicts) != 1 {
		t.Fatalf("expected 1 low conflict, got %d", len(result.Conflicts))
	}
	if result.Conflicts[0].Severity != SeverityLow {
		t.Errorf("expected low severity, got %s", result.Conflicts[0].Severity)
	}
}

func TestDetect_BackToBackDifferentRoomNotFlagged(t *testing.T) {
	detector := New(15)

	candidate := Interval{ID: "c", Title: "Candidate", Date: "2025-06-10", Start: "10:05", End: "11:00", Location: "Hall B"}
	existing := []Interval{
		{ID: "a", Title: "Prior Talk", Date: "2025-06-10", Start: "09:00", End: "10:00", Location: "Hall A"},
	}

	result := detector.Detect(candidate, existing)

	if len(result.Conflicts) != 0 {
		t.Errorf("expected no conflicts across rooms without overlap, got %d", len(result.Conflicts))
	}
}

func TestDetect_AdjacentIntervalsDoNotOverlap(t *testing.T) {
	detector := New(15)

	// Half-open intervals: [09:00,10:00) and [10:00,11:00) share only a boundary.
	candidate := Interval{ID: "c", Title: "Candidate", Date: "2025-06-10", Start: "10:00", End: "11:00"}
	existing := []Interval{
		{ID: "a", Title: "Earlier", Date: "2025-06-10", Start: "09:00", End: "10:00"},
	}

	result := detector.Detect(candidate, existing)

	for _, c := range result.Conflicts {
		if c.OverlapMinutes > 0 {
			t.Errorf("adjacent intervals reported %d overlap minutes", c.OverlapMinutes)
		}
	}
}

func TestDetect_IndeterminateCandidate(t *testing.T) {
	detector := New(15)

	candidate := Interval{ID: "c", Title: "Candidate", Date: "2025-06-10", Start: "bad", End: "10:00"}
	result := detector.Detect(candidate, []Interval{
		{ID: "a", Title: "Talk", Date: "2025-06-10", Start: "09:00", End: "10:00"},
	})

	if !result.Indeterminate {
		t.Error("expected indeterminate result for unparseable candidate times")
	}
	if result.HasConflicts {
		t.Error("indeterminate result should not claim conflicts")
	}
}

func TestDetect_IndeterminateExistingItem(t *testing.T) {
	detector := New(15)

	candidate := Interval{ID: "c", Title: "Candidate", Date: "2025-06-10", Start: "09:00", End: "10:00"}
	result := detector.Detect(candidate, []Interval{
		{ID: "a", Title: "Broken", Date: "2025-06-10", Start: "", End: ""},
		{ID: "b", Title: "Overlapping", Date: "2025-06-10", Start: "09:30", End: "10:30"},
	})

	if !result.Indeterminate {
		t.Error("expected indeterminate flag when an existing item has no usable times")
	}
	// The parseable item must still be checked.
	if len(result.Conflicts) != 1 {
		t.Errorf("expected 1 conflict from the parseable item, got %d", len(result.Conflicts))
	}
}

func TestDetect_DifferentDatesIgnored(t *testing.T) {
	detector := New(15)

	candidate := Interval{ID: "c", Title: "Candidate", Date: "2025-06-11", Start: "09:00", End: "10:00"}
	result := detector.Detect(candidate, []Interval{
		{ID: "a", Title: "Other Day", Date: "2025-06-10", Start: "09:00", End: "10:00"},
	})

	if len(result.Conflicts) != 0 {
		t.Errorf("expected no conflicts across dates, got %d", len(result.Conflicts))
	}
}

func TestDetect_EndBeforeStartIsIndeterminate(t *testing.T) {
	detector := New(15)

	candidate := Interval{ID: "c", Title: "Candidate", Date: "2025-06-10", Start: "10:00", End: "09:00"}
	result := detector.Detect(candidate, nil)

	if !result.Indeterminate {
		t.Error("expected indeterminate result for an inverted interval")
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{
			"partial overlap",
			Interval{Date: "2025-06-10", Start: "09:00", End: "10:00"},
			Interval{Date: "2025-06-10", Start: "09:30", End: "10:30"},
			true,
		},
		{
			"adjacent",
			Interval{Date: "2025-06-10", Start: "09:00", End: "10:00"},
			Interval{Date: "2025-06-10", Start: "10:00", End: "11:00"},
			false,
		},
		{
			"different dates",
			Interval{Date: "2025-06-10", Start: "09:00", End: "10:00"},
			Interval{Date: "2025-06-11", Start: "09:00", End: "10:00"},
			false,
		},
		{
			"malformed times",
			Interval{Date: "2025-06-10", Start: "bad", End: "10:00"},
			Interval{Date: "2025-06-10", Start: "09:00", End: "10:00"},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}
