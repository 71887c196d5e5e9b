package models

type ItemKind string

const (
	ItemKindSession ItemKind = "session"
	ItemKindMeal    ItemKind = "meal"
	ItemKindBreak   ItemKind = "break"
)

type ItemSource string

const (
	SourceUserFavorite ItemSource = "user-favorite"
	SourceAISuggested  ItemSource = "ai-suggested"
	SourceFiller       ItemSource = "filler"
)

type ScheduleItem struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id,omitempty"`
	Kind      ItemKind   `json:"kind"`
	Start     string     `json:"start"` // HH:MM format
	End       string     `json:"end"`   // HH:MM format
	Title     string     `json:"title"`
	Location  string     `json:"location,omitempty"`
	Source    ItemSource `json:"source"`
	Priority  int        `json:"priority"`
	Reasoning string     `json:"reasoning,omitempty"`
	Relevance float64    `json:"relevance,omitempty"`
	// PatchedBy records the review patch that swapped this item in, if any.
	PatchedBy string `json:"patched_by,omitempty"`
	// Unresolved marks a favorite that lost a favorite-vs-favorite conflict.
	// Unresolved items live in DayPlan.Alternatives, never in DayPlan.Items.
	Unresolved bool `json:"unresolved,omitempty"`
}

type DayStats struct {
	Sessions         int `json:"sessions"`
	FavoritesCovered int `json:"favorites_covered"`
	Suggestions      int `json:"suggestions"`
}

type DayPlan struct {
	Day   int            `json:"day"`
	Date  string         `json:"date"` // YYYY-MM-DD format
	Items []ScheduleItem `json:"items"`
	// Alternatives holds favorites displaced by a conflicting favorite. They
	// are reported for user review rather than silently dropped.
	Alternatives []ScheduleItem `json:"alternatives,omitempty"`
	Stats        DayStats       `json:"stats"`
}

type AgendaMetrics struct {
	FavoritesIncluded int     `json:"favorites_included"`
	TotalFavorites    int     `json:"total_favorites"`
	SuggestionsAdded  int     `json:"suggestions_added"`
	Confidence        float64 `json:"confidence"` // 0-100
}

type SmartAgenda struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	Days        []DayPlan     `json:"days"`
	Metrics     AgendaMetrics `json:"metrics"`
	Insights    []string      `json:"insights,omitempty"`
	GeneratedAt string        `json:"generated_at"` // RFC3339 timestamp
	Version     int           `json:"version"`
	Active      bool          `json:"active"`
	Source      string        `json:"source"`
	Reviewed    bool          `json:"reviewed"`
}

// ItemCount returns the number of schedule items across all days, excluding
// alternatives.
func (a *SmartAgenda) ItemCount() int {
	n := 0
	for _, day := range a.Days {
		n += len(day.Items)
	}
	return n
}

// DayFor returns a pointer to the day plan for the given date, or nil.
func (a *SmartAgenda) DayFor(date string) *DayPlan {
	for i := range a.Days {
		if a.Days[i].Date == date {
			return &a.Days[i]
		}
	}
	return nil
}

// AgendaVersion is an immutable snapshot of an agenda at a given version.
type AgendaVersion struct {
	AgendaID    string      `json:"agenda_id"`
	Version     int         `json:"version"`
	Snapshot    SmartAgenda `json:"snapshot"`
	Description string      `json:"description"`
	Actor       string      `json:"actor"`
	CreatedAt   string      `json:"created_at"` // RFC3339 timestamp
}
