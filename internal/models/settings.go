package models

// MealWindow is a canonical meal or break block inserted into each day.
type MealWindow struct {
	Name  string   `json:"name"`
	Kind  ItemKind `json:"kind"`  // meal or break
	Start string   `json:"start"` // HH:MM format
	End   string   `json:"end"`   // HH:MM format
}

type Settings struct {
	ConferenceStart   string `json:"conference_start"` // YYYY-MM-DD format
	ConferenceEnd     string `json:"conference_end"`   // YYYY-MM-DD format
	DayStart          string `json:"day_start"`        // HH:MM format
	DayEnd            string `json:"day_end"`          // HH:MM format
	TravelBufferMin   int    `json:"travel_buffer_min"`
	MaxSessionMinutes int    `json:"max_session_minutes"`
	Timezone          string `json:"timezone"`
}

// DefaultMealWindows returns the canonical meal/break blocks for a conference
// day. The scheduler only places a block when its window is still free.
func DefaultMealWindows() []MealWindow {
	return []MealWindow{
		{Name: "Breakfast", Kind: ItemKindMeal, Start: "08:00", End: "08:45"},
		{Name: "Lunch", Kind: ItemKindMeal, Start: "12:00", End: "13:00"},
		{Name: "Afternoon Break", Kind: ItemKindBreak, Start: "15:30", End: "15:45"},
	}
}
