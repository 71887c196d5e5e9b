package validation

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/confmate/internal/constants"
	"github.com/julianstephens/confmate/internal/models"
	"github.com/julianstephens/confmate/internal/utils"
)

// IssueType represents the type of validation issue
type IssueType string

const (
	IssueOverlappingItems    IssueType = "overlapping_items"
	IssueUnresolvedOnAgenda  IssueType = "unresolved_on_agenda"
	IssueExceedsDayCap       IssueType = "exceeds_day_cap"
	IssueMissingSessionID    IssueType = "missing_session_id"
	IssueDuplicateSession    IssueType = "duplicate_session"
	IssueInvalidDateTime     IssueType = "invalid_datetime"
	IssueMetricsOutOfBounds  IssueType = "metrics_out_of_bounds"
)

// Issue represents a detected problem in sessions or an agenda
type Issue struct {
	Type        IssueType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Session/item titles involved
	TimeRange   string   // Human-readable time range (if applicable)
}

// ValidationResult contains all detected issues
type ValidationResult struct {
	Issues []Issue
}

// HasIssues returns true if there are any issues
func (vr *ValidationResult) HasIssues() bool {
	return len(vr.Issues) > 0
}

// FormatReport returns a human-readable report of all issues
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasIssues() {
		return "No issues detected."
	}

	report := "Issues detected:\n"
	for _, issue := range vr.Issues {
		report += fmt.Sprintf("- %s\n", issue.Description)
	}
	return report
}

// Validator validates imported sessions and built agendas
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateSessions checks an imported session catalog for bad time data and
// duplicate entries. Sessions that fail here still load; the conflict detector
// reports them as indeterminate instead of guessing.
func (v *Validator) ValidateSessions(sessions []models.Session) ValidationResult {
	result := ValidationResult{Issues: []Issue{}}

	seen := make(map[string][]string)
	for _, session := range sessions {
		if session.Title == "" {
			continue
		}
		key := session.Date + "|" + session.Start + "|" + session.Title
		seen[key] = append(seen[key], session.ID)
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		ids := seen[key]
		if len(ids) > 1 {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueDuplicateSession,
				Description: fmt.Sprintf("Duplicate session entry: %q (IDs: %v)", key, ids),
			})
		}
	}

	for _, session := range sessions {
		if !utils.ValidateDateFormat(session.Date) {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueInvalidDateTime,
				Description: fmt.Sprintf("Session %q has invalid date: %s", session.Title, session.Date),
				Items:       []string{session.Title},
			})
		}
		if !utils.ValidateTimeFormat(session.Start) {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueInvalidDateTime,
				Description: fmt.Sprintf("Session %q has invalid start time: %s", session.Title, session.Start),
				Items:       []string{session.Title},
			})
		}
		if !utils.ValidateTimeFormat(session.End) {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueInvalidDateTime,
				Description: fmt.Sprintf("Session %q has invalid end time: %s", session.Title, session.End),
				Items:       []string{session.Title},
			})
		}
		if utils.ValidateTimeFormat(session.Start) && utils.ValidateTimeFormat(session.End) {
			start, _ := utils.ParseTimeToMinutes(session.Start)
			end, _ := utils.ParseTimeToMinutes(session.End)
			if end <= start {
				result.Issues = append(result.Issues, Issue{
					Type:        IssueInvalidDateTime,
					Description: fmt.Sprintf("Session %q ends (%s) at or before it starts (%s)", session.Title, session.End, session.Start),
					Items:       []string{session.Title},
				})
			}
		}
	}

	return result
}

// ValidateAgenda checks a built agenda against its structural invariants:
// no overlapping items within a day, no unresolved item on the timeline,
// session minutes within the daily cap, and metrics inside their bounds.
func (v *Validator) ValidateAgenda(agenda models.SmartAgenda, maxSessionMinutes int) ValidationResult {
	result := ValidationResult{Issues: []Issue{}}
	if maxSessionMinutes <= 0 {
		maxSessionMinutes = constants.DefaultMaxSessionMinutes
	}

	for _, day := range agenda.Days {
		if _, err := time.Parse(constants.DateFormat, day.Date); err != nil {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueInvalidDateTime,
				Description: fmt.Sprintf("Invalid day date: %s", day.Date),
				Date:        day.Date,
			})
			continue
		}
		v.validateDay(day, maxSessionMinutes, &result)
	}

	m := agenda.Metrics
	if m.Confidence < 0 || m.Confidence > 100 {
		result.Issues = append(result.Issues, Issue{
			Type:        IssueMetricsOutOfBounds,
			Description: fmt.Sprintf("Confidence %.1f outside [0, 100]", m.Confidence),
		})
	}
	if m.FavoritesIncluded > m.TotalFavorites {
		result.Issues = append(result.Issues, Issue{
			Type:        IssueMetricsOutOfBounds,
			Description: fmt.Sprintf("Favorites included (%d) exceeds total favorites (%d)", m.FavoritesIncluded, m.TotalFavorites),
		})
	}

	return result
}

func (v *Validator) validateDay(day models.DayPlan, maxSessionMinutes int, result *ValidationResult) {
	sessionMinutes := 0
	for _, item := range day.Items {
		if item.Unresolved {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueUnresolvedOnAgenda,
				Description: fmt.Sprintf("%s: unresolved item %q is on the timeline instead of the alternatives list", day.Date, item.Title),
				Date:        day.Date,
				Items:       []string{item.Title},
			})
		}
		if item.Kind == models.ItemKindSession && item.SessionID == "" {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueMissingSessionID,
				Description: fmt.Sprintf("%s: item %q has no session reference", day.Date, item.Title),
				Date:        day.Date,
				Items:       []string{item.Title},
			})
		}
		if !utils.ValidateTimeFormat(item.Start) || !utils.ValidateTimeFormat(item.End) {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueInvalidDateTime,
				Description: fmt.Sprintf("%s: item %q has invalid times %s-%s", day.Date, item.Title, item.Start, item.End),
				Date:        day.Date,
				Items:       []string{item.Title},
			})
			continue
		}
		if item.Kind == models.ItemKindSession {
			start, _ := utils.ParseTimeToMinutes(item.Start)
			end, _ := utils.ParseTimeToMinutes(item.End)
			if end > start {
				sessionMinutes += end - start
			}
		}
	}

	items := make([]models.ScheduleItem, len(day.Items))
	copy(items, day.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].Start < items[j].Start })

	// O(n²) pair check; a day holds at most a few dozen items.
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if timesOverlap(items[i].Start, items[i].End, items[j].Start, items[j].End) {
				result.Issues = append(result.Issues, Issue{
					Type: IssueOverlappingItems,
					Description: fmt.Sprintf("%s: %s-%s %q overlaps %q",
						day.Date, items[i].Start, items[i].End, items[i].Title, items[j].Title),
					Date:      day.Date,
					Items:     []string{items[i].Title, items[j].Title},
					TimeRange: fmt.Sprintf("%s-%s", items[i].Start, items[i].End),
				})
			}
		}
	}

	if sessionMinutes > maxSessionMinutes {
		result.Issues = append(result.Issues, Issue{
			Type: IssueExceedsDayCap,
			Description: fmt.Sprintf("%s: %.1fh of sessions exceeds the %.1fh daily cap",
				day.Date, float64(sessionMinutes)/60.0, float64(maxSessionMinutes)/60.0),
			Date: day.Date,
		})
	}
}

// timesOverlap checks if two half-open time ranges overlap
// Assumes all times are in HH:MM format
func timesOverlap(start1, end1, start2, end2 string) bool {
	s1, err := utils.ParseTimeToMinutes(start1)
	if err != nil {
		return false
	}
	e1, err := utils.ParseTimeToMinutes(end1)
	if err != nil {
		return false
	}
	s2, err := utils.ParseTimeToMinutes(start2)
	if err != nil {
		return false
	}
	e2, err := utils.ParseTimeToMinutes(end2)
	if err != nil {
		return false
	}

	return s1 < e2 && s2 < e1
}
