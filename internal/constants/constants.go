package constants

const (
	AppName            = "confmate"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/confmate/confmate.db"
	Version            = "v0.2.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// AgendaSourceAgent tags agendas produced by the build pipeline.
	AgendaSourceAgent = "ai_agent"
)

// Scheduling defaults. All of these are persisted as settings and can be
// changed per installation; the values here are the documented defaults.
const (
	DefaultDayStart = "08:00"
	DefaultDayEnd   = "18:00"

	// DefaultTravelBufferMin is the minimum gap expected between two
	// back-to-back commitments before the transition is flagged as tight.
	DefaultTravelBufferMin = 15

	// DefaultMaxSessionMinutes caps how many minutes of talks get scheduled
	// into a single day, meals and breaks excluded.
	DefaultMaxSessionMinutes = 480

	// DefaultCandidateLimit bounds the ranked pool requested per build.
	DefaultCandidateLimit = 50

	// DefaultSourceTimeoutSec bounds calls to the ranked-candidate source and
	// the optional reviewer.
	DefaultSourceTimeoutSec = 3
)

// Priority bands for schedule items. Favorites are locked and always win
// against suggestions of any relevance.
const (
	PriorityFavorite      = 100
	PriorityMeal          = 50
	MaxSuggestionPriority = 90
)

// Confidence scoring. Confidence blends favorite coverage with the mean
// relevance of inserted suggestions; agendas below the low threshold are
// surfaced to the user as degraded.
const (
	ConfidenceCoverageWeight  = 60.0
	ConfidenceRelevanceWeight = 0.4
	LowConfidenceThreshold    = 40.0
)

// HighSeverityOverlapRatio is the fraction of the shorter interval's duration
// an overlap must exceed to be reported as high severity. An overlap of
// exactly half the shorter interval is still medium.
const HighSeverityOverlapRatio = 0.5
