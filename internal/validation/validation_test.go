package validation

import (
	"testing"

	"github.com/julianstephens/confmate/internal/models"
)

func TestValidateSessions_DuplicateEntries(t *testing.T) {
	validator := New()

	sessions := []models.Session{
		{ID: "1", Title: "Go Concurrency", Date: "2025-06-10", Start: "09:00", End: "10:00"},
		{ID: "2", Title: "Intro to Rust", Date: "2025-06-10", Start: "09:00", End: "10:00"},
		{ID: "3", Title: "Go Concurrency", Date: "2025-06-10", Start: "09:00", End: "10:00"}, // Duplicate
	}

	result := validator.ValidateSessions(sessions)

	if !result.HasIssues() {
		t.Error("Expected to detect duplicate session entries")
	}

	found := false
	for _, issue := range result.Issues {
		if issue.Type == IssueDuplicateSession {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected IssueDuplicateSession issue type")
	}
}

func TestValidateSessions_InvalidTimes(t *testing.T) {
	validator := New()

	sessions := []models.Session{
		{ID: "1", Title: "Bad Hour", Date: "2025-06-10", Start: "25:00", End: "10:00"},
		{ID: "2", Title: "Bad Minute", Date: "2025-06-10", Start: "09:00", End: "12:70"},
		{ID: "3", Title: "Bad Date", Date: "not-a-date", Start: "09:00", End: "10:00"},
	}

	result := validator.ValidateSessions(sessions)

	invalidCount := 0
	for _, issue := range result.Issues {
		if issue.Type == IssueInvalidDateTime {
			invalidCount++
		}
	}
	if invalidCount != 3 {
		t.Errorf("Expected 3 invalid datetime issues, got %d", invalidCount)
	}
}

func TestValidateSessions_EndBeforeStart(t *testing.T) {
	validator := New()

	sessions := []models.Session{
		{ID: "1", Title: "Backwards", Date: "2025-06-10", Start: "10:00", End: "09:00"},
	}

	result := validator.ValidateSessions(sessions)

	if !result.HasIssues() {
		t.Error("Expected to detect end before start")
	}
}

func TestValidateSessions_NoIssues(t *testing.T) {
	validator := New()

	sessions := []models.Session{
		{ID: "1", Title: "Talk A", Date: "2025-06-10", Start: "09:00", End: "10:00"},
		{ID: "2", Title: "Talk B", Date: "2025-06-10", Start: "10:00", End: "11:00"},
	}

	result := validator.ValidateSessions(sessions)

	if result.HasIssues() {
		t.Errorf("Expected no issues, got: %s", result.FormatReport())
	}
}

func TestValidateAgenda_OverlappingItems(t *testing.T) {
	validator := New()

	agenda := models.SmartAgenda{
		Days: []models.DayPlan{
			{
				Day:  1,
				Date: "2025-06-10",
				Items: []models.ScheduleItem{
					{ID: "a", SessionID: "s1", Kind: models.ItemKindSession, Start: "09:00", End: "10:00", Title: "Talk A"},
					{ID: "b", SessionID: "s2", Kind: models.ItemKindSession, Start: "09:30", End: "10:30", Title: "Talk B"},
				},
			},
		},
	}

	result := validator.ValidateAgenda(agenda, 480)

	if !result.HasIssues() {
		t.Error("Expected to detect overlapping items")
	}

	found := false
	for _, issue := range result.Issues {
		if issue.Type == IssueOverlappingItems {
			found = true
			if len(issue.Items) != 2 {
				t.Errorf("Expected 2 items in issue, got %d", len(issue.Items))
			}
		}
	}
	if !found {
		t.Error("Expected IssueOverlappingItems issue type")
	}
}

func TestValidateAgenda_UnresolvedOnTimeline(t *testing.T) {
	validator := New()

	agenda := models.SmartAgenda{
		Days: []models.DayPlan{
			{
				Day:  1,
				Date: "2025-06-10",
				Items: []models.ScheduleItem{
					{ID: "a", SessionID: "s1", Kind: models.ItemKindSession, Start: "09:00", End: "10:00", Title: "Talk A", Unresolved: true},
				},
			},
		},
	}

	result := validator.ValidateAgenda(agenda, 480)

	found := false
	for _, issue := range result.Issues {
		if issue.Type == IssueUnresolvedOnAgenda {
			found = true
		}
	}
	if !found {
		t.Error("Expected IssueUnresolvedOnAgenda issue type")
	}
}

func TestValidateAgenda_ExceedsDayCap(t *testing.T) {
	validator := New()

	// 9 hours of sessions against an 8-hour cap.
	agenda := models.SmartAgenda{
		Days: []models.DayPlan{
			{
				Day:  1,
				Date: "2025-06-10",
				Items: []models.ScheduleItem{
					{ID: "a", SessionID: "s1", Kind: models.ItemKindSession, Start: "08:00", End: "13:00", Title: "Morning Block"},
					{ID: "b", SessionID: "s2", Kind: models.ItemKindSession, Start: "13:00", End: "17:00", Title: "Afternoon Block"},
				},
			},
		},
	}

	result := validator.ValidateAgenda(agenda, 480)

	found := false
	for _, issue := range result.Issues {
		if issue.Type == IssueExceedsDayCap {
			found = true
		}
	}
	if !found {
		t.Error("Expected IssueExceedsDayCap issue type")
	}
}

func TestValidateAgenda_MetricsOutOfBounds(t *testing.T) {
	validator := New()

	agenda := models.SmartAgenda{
		Metrics: models.AgendaMetrics{
			Confidence:        120,
			FavoritesIncluded: 5,
			TotalFavorites:    3,
		},
	}

	result := validator.ValidateAgenda(agenda, 480)

	count := 0
	for _, issue := range result.Issues {
		if issue.Type == IssueMetricsOutOfBounds {
			count++
		}
	}
	if count != 2 {
		t.Errorf("Expected 2 metrics issues, got %d", count)
	}
}

func TestValidateAgenda_MissingSessionID(t *testing.T) {
	validator := New()

	agenda := models.SmartAgenda{
		Days: []models.DayPlan{
			{
				Day:  1,
				Date: "2025-06-10",
				Items: []models.ScheduleItem{
					{ID: "a", Kind: models.ItemKindSession, Start: "09:00", End: "10:00", Title: "Orphan"},
				},
			},
		},
	}

	result := validator.ValidateAgenda(agenda, 480)

	found := false
	for _, issue := range result.Issues {
		if issue.Type == IssueMissingSessionID {
			found = true
		}
	}
	if !found {
		t.Error("Expected IssueMissingSessionID issue type")
	}
}

func TestValidateAgenda_InvalidDate(t *testing.T) {
	validator := New()

	agenda := models.SmartAgenda{
		Days: []models.DayPlan{
			{Day: 1, Date: "invalid-date"},
		},
	}

	result := validator.ValidateAgenda(agenda, 480)

	if !result.HasIssues() {
		t.Error("Expected to detect invalid day date")
	}
}

func TestValidateAgenda_NoIssues(t *testing.T) {
	validator := New()

	agenda := models.SmartAgenda{
		Days: []models.DayPlan{
			{
				Day:  1,
				Date: "2025-06-10",
				Items: []models.ScheduleItem{
					{ID: "a", SessionID: "s1", Kind: models.ItemKindSession, Start: "09:00", End: "10:00", Title: "Talk A"},
					{ID: "b", Kind: models.ItemKindMeal, Start: "12:00", End: "13:00", Title: "Lunch"},
					{ID: "c", SessionID: "s2", Kind: models.ItemKindSession, Start: "13:00", End: "14:00", Title: "Talk B"},
				},
			},
		},
		Metrics: models.AgendaMetrics{Confidence: 75, FavoritesIncluded: 2, TotalFavorites: 2},
	}

	result := validator.ValidateAgenda(agenda, 480)

	if result.HasIssues() {
		t.Errorf("Expected no issues, got: %s", result.FormatReport())
	}
}

func TestTimesOverlap(t *testing.T) {
	tests := []struct {
		name   string
		start1 string
		end1   string
		start2 string
		end2   string
		want   bool
	}{
		{"Completely separate", "09:00", "10:00", "11:00", "12:00", false},
		{"Adjacent (no overlap)", "09:00", "10:00", "10:00", "11:00", false},
		{"Partial overlap", "09:00", "10:00", "09:30", "10:30", true},
		{"Complete overlap", "09:00", "11:00", "09:30", "10:30", true},
		{"Same times", "09:00", "10:00", "09:00", "10:00", true},
		{"Reverse order", "11:00", "12:00", "09:00", "10:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timesOverlap(tt.start1, tt.end1, tt.start2, tt.end2)
			if got != tt.want {
				t.Errorf("timesOverlap(%s, %s, %s, %s) = %v, want %v",
					tt.start1, tt.end1, tt.start2, tt.end2, got, tt.want)
			}
		})
	}
}

func TestValidationResult_FormatReport(t *testing.T) {
	result := ValidationResult{
		Issues: []Issue{
			{Type: IssueOverlappingItems, Description: "2025-06-10: 09:00-10:00 \"Talk A\" overlaps \"Talk B\""},
		},
	}

	report := result.FormatReport()
	if report == "" || report == "No issues detected." {
		t.Errorf("Expected issues in report, got: %s", report)
	}
}

func TestValidationResult_FormatReport_NoIssues(t *testing.T) {
	result := ValidationResult{Issues: []Issue{}}

	if report := result.FormatReport(); report != "No issues detected." {
		t.Errorf("Expected 'No issues detected.', got: %s", report)
	}
}
