package models

// ConversationPhase is one step of the agenda-building dialogue. Transitions
// are governed by the table in the conversation package, never by ad-hoc
// branching.
type ConversationPhase string

const (
	PhaseGreeting    ConversationPhase = "greeting"
	PhaseCollecting  ConversationPhase = "collecting"
	PhaseResearching ConversationPhase = "researching"
	PhaseConfirming  ConversationPhase = "confirming"
	PhaseBuilding    ConversationPhase = "building"
	PhaseComplete    ConversationPhase = "complete"
	PhaseFailed      ConversationPhase = "failed"
)

type Conversation struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Phase     ConversationPhase `json:"phase"`
	Interests []string          `json:"interests,omitempty"`
	UpdatedAt string            `json:"updated_at"` // RFC3339 timestamp
}
