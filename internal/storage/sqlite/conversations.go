package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/confmate/internal/models"
	"github.com/julianstephens/confmate/internal/storage/storeerr"
)

func (s *Store) SaveConversation(conv models.Conversation) error {
	interests, err := json.Marshal(conv.Interests)
	if err != nil {
		return fmt.Errorf("failed to marshal interests: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO conversations (id, user_id, phase, interests, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		conv.ID, conv.UserID, conv.Phase, string(interests), conv.UpdatedAt,
	)
	return err
}

func (s *Store) GetConversation(id string) (models.Conversation, error) {
	var conv models.Conversation
	var interests string
	err := s.db.QueryRow(`
		SELECT id, user_id, phase, interests, updated_at
		FROM conversations WHERE id = ?`, id).Scan(
		&conv.ID, &conv.UserID, &conv.Phase, &interests, &conv.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, storeerr.ErrConversationNotFound
	}
	if err != nil {
		return models.Conversation{}, err
	}
	if err := json.Unmarshal([]byte(interests), &conv.Interests); err != nil {
		return models.Conversation{}, fmt.Errorf("failed to unmarshal interests: %w", err)
	}
	return conv, nil
}
