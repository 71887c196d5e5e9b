package conversation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/confmate/internal/models"
)

// transitions is the explicit phase table for the agenda-building dialogue.
// Any step not listed here is invalid; there is no ad-hoc branching.
var transitions = map[models.ConversationPhase][]models.ConversationPhase{
	models.PhaseGreeting:    {models.PhaseCollecting},
	models.PhaseCollecting:  {models.PhaseResearching, models.PhaseFailed},
	models.PhaseResearching: {models.PhaseConfirming, models.PhaseBuilding, models.PhaseFailed},
	models.PhaseConfirming:  {models.PhaseBuilding, models.PhaseCollecting, models.PhaseFailed},
	models.PhaseBuilding:    {models.PhaseComplete, models.PhaseFailed},
	models.PhaseComplete:    {},
	models.PhaseFailed:      {models.PhaseCollecting},
}

// CanTransition reports whether moving from one phase to another is allowed.
func CanTransition(from, to models.ConversationPhase) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// New starts a conversation in the greeting phase.
func New(userID string) models.Conversation {
	return models.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Phase:     models.PhaseGreeting,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Advance moves the conversation to the requested phase, enforcing the
// transition table.
func Advance(conv *models.Conversation, to models.ConversationPhase) error {
	if !CanTransition(conv.Phase, to) {
		return fmt.Errorf("invalid phase transition %s -> %s", conv.Phase, to)
	}
	conv.Phase = to
	conv.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return nil
}

// IsTerminal reports whether no further transitions are possible.
func IsTerminal(phase models.ConversationPhase) bool {
	return len(transitions[phase]) == 0
}
