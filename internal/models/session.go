package models

type Session struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Date        string   `json:"date"`  // YYYY-MM-DD format
	Start       string   `json:"start"` // HH:MM format
	End         string   `json:"end"`   // HH:MM format
	Location    string   `json:"location,omitempty"`
	Track       string   `json:"track,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Speakers    []string `json:"speakers,omitempty"`
}

// ScoredSession is a session paired with the relevance score assigned by the
// ranked-candidate source. Scores are on a 0-100 scale.
type ScoredSession struct {
	Session Session `json:"session"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason,omitempty"`
}

type FavoriteKind string

const (
	FavoriteSession FavoriteKind = "session"
	FavoriteSpeaker FavoriteKind = "speaker"
)

type Favorite struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	TargetID  string       `json:"target_id"`
	Kind      FavoriteKind `json:"kind"`
	CreatedAt string       `json:"created_at"` // RFC3339 timestamp
}
