package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/confmate/internal/models"
	"github.com/julianstephens/confmate/internal/storage/storeerr"
)

// SaveAgenda persists a freshly built agenda as version 1, deactivating any
// prior active agenda for the same (user, source) in the same transaction.
func (s *Store) SaveAgenda(agenda models.SmartAgenda, description, actor string) (models.SmartAgenda, error) {
	if agenda.ItemCount() == 0 {
		return models.SmartAgenda{}, storeerr.ErrEmptyAgenda
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.SmartAgenda{}, err
	}
	defer tx.Rollback()

	if agenda.ID == "" {
		agenda.ID = uuid.NewString()
	}
	if agenda.GeneratedAt == "" {
		agenda.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	}
	agenda.Version = 1
	agenda.Active = true

	if _, err := tx.Exec(
		"UPDATE agendas SET active = FALSE WHERE user_id = $1 AND source = $2 AND active",
		agenda.UserID, agenda.Source,
	); err != nil {
		return models.SmartAgenda{}, fmt.Errorf("failed to deactivate previous agenda: %w", err)
	}

	days, insights, err := marshalAgendaColumns(agenda)
	if err != nil {
		return models.SmartAgenda{}, err
	}
	if _, err := tx.Exec(`
		INSERT INTO agendas (
			id, user_id, source, version, active, reviewed, favorites_included,
			total_favorites, suggestions_added, confidence, insights, days, generated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		agenda.ID, agenda.UserID, agenda.Source, agenda.Version,
		agenda.Active, agenda.Reviewed,
		agenda.Metrics.FavoritesIncluded, agenda.Metrics.TotalFavorites,
		agenda.Metrics.SuggestionsAdded, agenda.Metrics.Confidence,
		insights, days, agenda.GeneratedAt,
	); err != nil {
		return models.SmartAgenda{}, fmt.Errorf("failed to insert agenda: %w", err)
	}

	if err := insertVersionRow(tx, agenda, description, actor); err != nil {
		return models.SmartAgenda{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.SmartAgenda{}, err
	}
	return agenda, nil
}

// UpdateAgenda appends a new version of the active agenda; the number is
// assigned from MAX(version)+1 inside the transaction.
func (s *Store) UpdateAgenda(agenda models.SmartAgenda, description, actor string) (models.SmartAgenda, error) {
	if agenda.ItemCount() == 0 {
		return models.SmartAgenda{}, storeerr.ErrEmptyAgenda
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.SmartAgenda{}, err
	}
	defer tx.Rollback()

	var agendaID string
	err = tx.QueryRow(
		"SELECT id FROM agendas WHERE user_id = $1 AND source = $2 AND active FOR UPDATE",
		agenda.UserID, agenda.Source,
	).Scan(&agendaID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SmartAgenda{}, storeerr.ErrNoActiveAgenda
	}
	if err != nil {
		return models.SmartAgenda{}, err
	}

	var maxVersion int
	if err := tx.QueryRow(
		"SELECT COALESCE(MAX(version), 0) FROM agenda_versions WHERE agenda_id = $1",
		agendaID,
	).Scan(&maxVersion); err != nil {
		return models.SmartAgenda{}, err
	}

	agenda.ID = agendaID
	agenda.Version = maxVersion + 1
	agenda.Active = true
	agenda.GeneratedAt = time.Now().UTC().Format(time.RFC3339)

	days, insights, err := marshalAgendaColumns(agenda)
	if err != nil {
		return models.SmartAgenda{}, err
	}
	if _, err := tx.Exec(`
		UPDATE agendas SET
			version = $1, reviewed = $2, favorites_included = $3, total_favorites = $4,
			suggestions_added = $5, confidence = $6, insights = $7, days = $8, generated_at = $9
		WHERE id = $10`,
		agenda.Version, agenda.Reviewed,
		agenda.Metrics.FavoritesIncluded, agenda.Metrics.TotalFavorites,
		agenda.Metrics.SuggestionsAdded, agenda.Metrics.Confidence,
		insights, days, agenda.GeneratedAt, agenda.ID,
	); err != nil {
		return models.SmartAgenda{}, fmt.Errorf("failed to update agenda: %w", err)
	}

	if err := insertVersionRow(tx, agenda, description, actor); err != nil {
		return models.SmartAgenda{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.SmartAgenda{}, err
	}
	return agenda, nil
}

func (s *Store) GetActiveAgenda(userID, source string) (models.SmartAgenda, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, source, version, active, reviewed, favorites_included,
		       total_favorites, suggestions_added, confidence, insights, days, generated_at
		FROM agendas WHERE user_id = $1 AND source = $2 AND active`,
		userID, source)

	agenda, err := scanAgenda(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SmartAgenda{}, storeerr.ErrNoActiveAgenda
	}
	return agenda, err
}

func (s *Store) DeleteAgenda(userID, source string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var agendaID string
	err = tx.QueryRow(
		"SELECT id FROM agendas WHERE user_id = $1 AND source = $2 AND active FOR UPDATE",
		userID, source,
	).Scan(&agendaID)
	if errors.Is(err, sql.ErrNoRows) {
		return storeerr.ErrNoActiveAgenda
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM agendas WHERE id = $1", agendaID); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) GetAgendaVersions(agendaID string) ([]models.AgendaVersion, error) {
	rows, err := s.db.Query(`
		SELECT agenda_id, version, snapshot, description, actor, created_at
		FROM agenda_versions WHERE agenda_id = $1 ORDER BY version`, agendaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []models.AgendaVersion
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}
	return versions, rows.Err()
}

func (s *Store) GetAgendaVersion(agendaID string, version int) (models.AgendaVersion, error) {
	row := s.db.QueryRow(`
		SELECT agenda_id, version, snapshot, description, actor, created_at
		FROM agenda_versions WHERE agenda_id = $1 AND version = $2`, agendaID, version)
	v, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AgendaVersion{}, fmt.Errorf("no version %d for agenda %s", version, agendaID)
	}
	return v, err
}

func insertVersionRow(tx *sql.Tx, agenda models.SmartAgenda, description, actor string) error {
	snapshot, err := json.Marshal(agenda)
	if err != nil {
		return fmt.Errorf("failed to marshal agenda snapshot: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO agenda_versions (agenda_id, version, snapshot, description, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		agenda.ID, agenda.Version, string(snapshot), description, actor,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert agenda version %d: %w", agenda.Version, err)
	}
	return nil
}

func marshalAgendaColumns(agenda models.SmartAgenda) (days, insights string, err error) {
	daysBytes, err := json.Marshal(agenda.Days)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal day plans: %w", err)
	}
	insightsBytes, err := json.Marshal(agenda.Insights)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal insights: %w", err)
	}
	return string(daysBytes), string(insightsBytes), nil
}

func scanAgenda(row rowScanner) (models.SmartAgenda, error) {
	var agenda models.SmartAgenda
	var insights, days string
	err := row.Scan(
		&agenda.ID, &agenda.UserID, &agenda.Source, &agenda.Version,
		&agenda.Active, &agenda.Reviewed,
		&agenda.Metrics.FavoritesIncluded, &agenda.Metrics.TotalFavorites,
		&agenda.Metrics.SuggestionsAdded, &agenda.Metrics.Confidence,
		&insights, &days, &agenda.GeneratedAt,
	)
	if err != nil {
		return models.SmartAgenda{}, err
	}
	if err := json.Unmarshal([]byte(insights), &agenda.Insights); err != nil {
		return models.SmartAgenda{}, fmt.Errorf("failed to unmarshal insights: %w", err)
	}
	if err := json.Unmarshal([]byte(days), &agenda.Days); err != nil {
		return models.SmartAgenda{}, fmt.Errorf("failed to unmarshal day plans: %w", err)
	}
	return agenda, nil
}

func scanVersion(row rowScanner) (models.AgendaVersion, error) {
	var version models.AgendaVersion
	var snapshot string
	err := row.Scan(
		&version.AgendaID, &version.Version, &snapshot,
		&version.Description, &version.Actor, &version.CreatedAt,
	)
	if err != nil {
		return models.AgendaVersion{}, err
	}
	if err := json.Unmarshal([]byte(snapshot), &version.Snapshot); err != nil {
		return models.AgendaVersion{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return version, nil
}
