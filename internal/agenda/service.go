// Package agenda exposes the build/fetch/update/delete surface over the
// scheduling kernel and the storage layer. All writes to a user's agenda
// lineage are serialized through a per-user critical section so concurrent
// saves can neither duplicate version numbers nor leave two active agendas.
package agenda

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/confmate/internal/conflict"
	"github.com/julianstephens/confmate/internal/constants"
	"github.com/julianstephens/confmate/internal/conversation"
	"github.com/julianstephens/confmate/internal/logger"
	"github.com/julianstephens/confmate/internal/models"
	"github.com/julianstephens/confmate/internal/ranker"
	"github.com/julianstephens/confmate/internal/review"
	"github.com/julianstephens/confmate/internal/scheduler"
	"github.com/julianstephens/confmate/internal/storage"
	"github.com/julianstephens/confmate/internal/utils"
)

type Service struct {
	store    storage.Provider
	source   ranker.Source   // optional override; defaults to the keyword ranker
	reviewer review.Reviewer // optional; nil means unreviewed drafts
	registry *conversation.Registry
	timeout  time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type Option func(*Service)

// WithSource overrides the default keyword ranker.
func WithSource(src ranker.Source) Option {
	return func(s *Service) { s.source = src }
}

// WithReviewer enables the optional post-build review pass.
func WithReviewer(r review.Reviewer) Option {
	return func(s *Service) { s.reviewer = r }
}

// WithTimeout bounds calls to the candidate source and the reviewer.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

func NewService(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store:    store,
		registry: conversation.NewRegistry(30 * time.Minute),
		timeout:  constants.DefaultSourceTimeoutSec * time.Second,
		locks:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// userLock returns the mutex guarding a user's agenda lineage.
func (s *Service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// Build produces and persists a new active agenda from the user's favorites
// and the ranked candidate pool. An empty pool or absent reviewer degrades
// the result, never fails it; only a missing date range is an error.
func (s *Service) Build(ctx context.Context, userID string) (models.SmartAgenda, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	conv := conversation.New(userID)
	s.registry.Put(conv)
	defer s.registry.Remove(conv.ID)

	agenda, err := s.build(ctx, userID, &conv)
	if err != nil {
		if ferr := s.failConversation(&conv); ferr != nil {
			logger.Warn("Failed to record conversation failure", "error", ferr)
		}
		return models.SmartAgenda{}, err
	}
	return agenda, nil
}

func (s *Service) build(ctx context.Context, userID string, conv *models.Conversation) (models.SmartAgenda, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return models.SmartAgenda{}, fmt.Errorf("failed to load settings: %w", err)
	}

	dates, err := s.conferenceDates(settings)
	if err != nil {
		return models.SmartAgenda{}, err
	}

	if err := s.advance(conv, models.PhaseCollecting); err != nil {
		return models.SmartAgenda{}, err
	}
	favorites, err := s.store.GetFavoriteSessions(userID)
	if err != nil {
		return models.SmartAgenda{}, fmt.Errorf("failed to load favorites: %w", err)
	}
	interests := interestsFrom(favorites)
	conv.Interests = interests

	if err := s.advance(conv, models.PhaseResearching); err != nil {
		return models.SmartAgenda{}, err
	}
	source := s.source
	if source == nil {
		sessions, err := s.store.GetAllSessions()
		if err != nil {
			logger.Warn("Failed to load sessions for ranking, continuing with empty pool", "error", err)
			sessions = nil
		}
		source = ranker.NewKeyword(sessions)
	}
	bounded := ranker.NewBounded(source, s.timeout)

	if err := s.advance(conv, models.PhaseBuilding); err != nil {
		return models.SmartAgenda{}, err
	}
	builder := scheduler.New(scheduler.ConfigFromSettings(settings), bounded)
	agenda, err := builder.Build(ctx, userID, favorites, interests, interests, dates)
	if err != nil {
		return models.SmartAgenda{}, err
	}

	if result, ok := review.NewBounded(s.reviewer, s.timeout).Review(ctx, agenda); ok {
		applied := builder.ApplyReview(&agenda, result)
		agenda.Reviewed = true
		logger.Info("Review pass complete", "patches_applied", applied, "user", userID)
	}

	agenda.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	saved, err := s.store.SaveAgenda(agenda, "Initial build", agenda.Source)
	if err != nil {
		return models.SmartAgenda{}, fmt.Errorf("failed to persist agenda: %w", err)
	}

	if err := s.advance(conv, models.PhaseComplete); err != nil {
		return models.SmartAgenda{}, err
	}
	logger.Info("Agenda built",
		"user", userID,
		"days", len(saved.Days),
		"favorites", saved.Metrics.FavoritesIncluded,
		"suggestions", saved.Metrics.SuggestionsAdded,
		"confidence", saved.Metrics.Confidence,
	)
	return saved, nil
}

// Fetch returns the user's active agenda, or nil when none exists yet.
func (s *Service) Fetch(userID string) (*models.SmartAgenda, error) {
	agenda, err := s.store.GetActiveAgenda(userID, constants.AgendaSourceAgent)
	if errors.Is(err, storage.ErrNoActiveAgenda) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &agenda, nil
}

// Update persists a modified agenda payload as a new version of the user's
// active agenda.
func (s *Service) Update(userID string, agenda models.SmartAgenda, description string) (models.SmartAgenda, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	agenda.UserID = userID
	if agenda.Source == "" {
		agenda.Source = constants.AgendaSourceAgent
	}
	if description == "" {
		description = "Manual update"
	}
	return s.store.UpdateAgenda(agenda, description, "user")
}

// Delete removes the active agenda and its full version history.
func (s *Service) Delete(userID string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return s.store.DeleteAgenda(userID, constants.AgendaSourceAgent)
}

// Versions lists the version history of the user's active agenda.
func (s *Service) Versions(userID string) ([]models.AgendaVersion, error) {
	agenda, err := s.store.GetActiveAgenda(userID, constants.AgendaSourceAgent)
	if err != nil {
		return nil, err
	}
	return s.store.GetAgendaVersions(agenda.ID)
}

// ConflictCheck tests a single session against the caller's active agenda.
// It reads only the stored snapshot and never triggers a rebuild, so it is
// safe on interactive paths.
func (s *Service) ConflictCheck(userID, sessionID string) (conflict.Result, error) {
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return conflict.Result{}, err
	}

	agenda, err := s.store.GetActiveAgenda(userID, constants.AgendaSourceAgent)
	if errors.Is(err, storage.ErrNoActiveAgenda) {
		return conflict.Result{CandidateID: sessionID, HasAgenda: false}, nil
	}
	if err != nil {
		return conflict.Result{}, err
	}

	settings, err := s.store.GetSettings()
	if err != nil {
		return conflict.Result{}, err
	}
	detector := conflict.New(settings.TravelBufferMin)

	var existing []conflict.Interval
	if day := agenda.DayFor(session.Date); day != nil {
		for _, item := range day.Items {
			if item.Kind == models.ItemKindSession || item.Kind == models.ItemKindMeal {
				existing = append(existing, conflict.Interval{
					ID:       item.SessionID,
					Title:    item.Title,
					Date:     day.Date,
					Start:    item.Start,
					End:      item.End,
					Location: item.Location,
				})
			}
		}
	}

	return detector.Detect(conflict.Interval{
		ID:       session.ID,
		Title:    session.Title,
		Date:     session.Date,
		Start:    session.Start,
		End:      session.End,
		Location: session.Location,
	}, existing), nil
}

// AddFavorite records the favorite and incrementally patches the active
// agenda, reporting whether the agenda was updated. On an irreconcilable
// overlap, or when the session's date falls outside the agenda's range, the
// favorite is still recorded and the agenda is left untouched.
func (s *Service) AddFavorite(userID, sessionID string) (conflict.Result, bool, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return conflict.Result{}, false, err
	}

	if err := s.store.AddFavorite(models.Favorite{
		ID:        uuid.NewString(),
		UserID:    userID,
		TargetID:  sessionID,
		Kind:      models.FavoriteSession,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return conflict.Result{}, false, fmt.Errorf("failed to save favorite: %w", err)
	}

	agenda, err := s.store.GetActiveAgenda(userID, constants.AgendaSourceAgent)
	if errors.Is(err, storage.ErrNoActiveAgenda) {
		return conflict.Result{CandidateID: sessionID, HasAgenda: false}, false, nil
	}
	if err != nil {
		return conflict.Result{}, false, err
	}

	builder, err := s.builderFromSettings()
	if err != nil {
		return conflict.Result{}, false, err
	}
	result, placed := builder.InsertFavorite(&agenda, session)
	if !placed {
		if result.HasConflicts || result.Indeterminate {
			logger.Info("Favorite conflicts with existing agenda, schedule left unchanged",
				"user", userID, "session", sessionID)
		} else {
			logger.Info("Favorite date is outside the agenda's range, schedule left unchanged",
				"user", userID, "session", sessionID, "date", session.Date)
		}
		return result, false, nil
	}

	if _, err := s.store.UpdateAgenda(agenda, fmt.Sprintf("Added favorite %q", session.Title), "user"); err != nil {
		return conflict.Result{}, false, fmt.Errorf("failed to persist patched agenda: %w", err)
	}
	return result, true, nil
}

// RemoveFavorite drops the favorite and its schedule item. The vacated slot
// stays open until the user rebuilds.
func (s *Service) RemoveFavorite(userID, sessionID string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.RemoveFavorite(userID, sessionID, models.FavoriteSession); err != nil {
		return err
	}

	agenda, err := s.store.GetActiveAgenda(userID, constants.AgendaSourceAgent)
	if errors.Is(err, storage.ErrNoActiveAgenda) {
		return nil
	}
	if err != nil {
		return err
	}

	builder, err := s.builderFromSettings()
	if err != nil {
		return err
	}
	if !builder.RemoveFavorite(&agenda, sessionID) {
		return nil
	}

	_, err = s.store.UpdateAgenda(agenda, "Removed favorite", "user")
	if err != nil {
		return fmt.Errorf("failed to persist patched agenda: %w", err)
	}
	return nil
}

func (s *Service) builderFromSettings() (*scheduler.Builder, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return scheduler.New(scheduler.ConfigFromSettings(settings), nil), nil
}

// conferenceDates resolves the build range from settings, falling back to
// the span of loaded sessions.
func (s *Service) conferenceDates(settings models.Settings) ([]string, error) {
	start, end := settings.ConferenceStart, settings.ConferenceEnd
	if start == "" || end == "" {
		sessions, err := s.store.GetAllSessions()
		if err != nil || len(sessions) == 0 {
			return nil, fmt.Errorf("no usable date range: set conference dates or load sessions first")
		}
		start, end = sessions[0].Date, sessions[0].Date
		for _, session := range sessions {
			if session.Date < start {
				start = session.Date
			}
			if session.Date > end {
				end = session.Date
			}
		}
	}
	return utils.DatesInRange(start, end)
}

func (s *Service) advance(conv *models.Conversation, to models.ConversationPhase) error {
	if err := conversation.Advance(conv, to); err != nil {
		return err
	}
	s.registry.Put(*conv)
	if err := s.store.SaveConversation(*conv); err != nil {
		return fmt.Errorf("failed to persist conversation state: %w", err)
	}
	return nil
}

func (s *Service) failConversation(conv *models.Conversation) error {
	if !conversation.CanTransition(conv.Phase, models.PhaseFailed) {
		return nil
	}
	if err := conversation.Advance(conv, models.PhaseFailed); err != nil {
		return err
	}
	return s.store.SaveConversation(*conv)
}

func interestsFrom(favorites []models.Session) []string {
	seen := make(map[string]bool)
	var interests []string
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			interests = append(interests, v)
		}
	}
	for _, session := range favorites {
		add(session.Track)
		for _, tag := range session.Tags {
			add(tag)
		}
	}
	return interests
}
