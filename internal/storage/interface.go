package storage

import (
	"github.com/julianstephens/confmate/internal/models"
	"github.com/julianstephens/confmate/internal/storage/storeerr"
)

// Sentinel errors shared by all backends. ErrNoActiveAgenda is translated by
// callers into an empty fetch result rather than a failure.
var (
	ErrNoActiveAgenda       = storeerr.ErrNoActiveAgenda
	ErrEmptyAgenda          = storeerr.ErrEmptyAgenda
	ErrSessionNotFound      = storeerr.ErrSessionNotFound
	ErrConversationNotFound = storeerr.ErrConversationNotFound
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Sessions (read-mostly; the scheduler treats them as immutable input)
	AddSession(models.Session) error
	GetSession(id string) (models.Session, error)
	GetAllSessions() ([]models.Session, error)
	GetSessionsForDate(date string) ([]models.Session, error)

	// Favorites
	AddFavorite(models.Favorite) error
	RemoveFavorite(userID, targetID string, kind models.FavoriteKind) error
	GetFavorites(userID string) ([]models.Favorite, error)
	// GetFavoriteSessions resolves a user's session-kind favorites to the
	// underlying sessions, skipping favorites whose session no longer exists.
	GetFavoriteSessions(userID string) ([]models.Session, error)

	// Agendas. SaveAgenda accepts a fresh build: any prior active agenda for
	// the same (user, source) is deactivated and the new agenda is stored as
	// version 1 with its first version snapshot. UpdateAgenda persists a new
	// version of the active agenda with version = previous max + 1; version
	// numbers are never reused or skipped.
	SaveAgenda(agenda models.SmartAgenda, description, actor string) (models.SmartAgenda, error)
	UpdateAgenda(agenda models.SmartAgenda, description, actor string) (models.SmartAgenda, error)
	GetActiveAgenda(userID, source string) (models.SmartAgenda, error)
	DeleteAgenda(userID, source string) error
	GetAgendaVersions(agendaID string) ([]models.AgendaVersion, error)
	GetAgendaVersion(agendaID string, version int) (models.AgendaVersion, error)

	// Conversations
	SaveConversation(models.Conversation) error
	GetConversation(id string) (models.Conversation, error)

	// Utils
	GetConfigPath() string
}
