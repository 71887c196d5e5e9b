package sqlite

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

// SaveAgenda persists a freshly built agenda. Any prior active agenda for the
// same (user, source) is deactivated in the same transaction, so the
// single-active invariant can never be observed broken. The agenda is stored
// as version 1 together with its first version snapshot.
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
		"UPDATE agendas SET active = 0 WHERE user_id = ? AND source = ? AND active = 1",
		agenda.UserID, agenda.Source,
	); err != nil {
		return models.SmartAgenda{}, fmt.Errorf("failed to deactivate previous agenda: %w", err)
	}

	if err := insertAgendaRow(tx, agenda); err != nil {
		return models.SmartAgenda{}, err
	}
	if err := insertVersionRow(tx, agenda, description, actor); err != nil {
		return models.SmartAgenda{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.SmartAgenda{}, err
	}
	return agenda, nil
}

// UpdateAgenda persists a new version of the user's active agenda. The
// version number is previous max + 1 for that agenda id, assigned inside the
// transaction so concurrent updates cannot duplicate or skip numbers.
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
		"SELECT id FROM agendas WHERE user_id = ? AND source = ? AND active = 1",
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
		"SELECT COALESCE(MAX(version), 0) FROM agenda_versions WHERE agenda_id = ?",
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
			version = ?, reviewed = ?, favorites_included = ?, total_favorites = ?,
			suggestions_added = ?, confidence = ?, insights = ?, days = ?, generated_at = ?
		WHERE id = ?`,
		agenda.Version, boolToInt(agenda.Reviewed),
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
		FROM agendas WHERE user_id = ? AND source = ? AND active = 1`,
		userID, source)

	agenda, err := scanAgenda(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SmartAgenda{}, storeerr.ErrNoActiveAgenda
	}
	return agenda, err
}

// DeleteAgenda removes the active agenda and cascades its version history.
func (s *Store) DeleteAgenda(userID, source string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var agendaID string
	err = tx.QueryRow(
		"SELECT id FROM agendas WHERE user_id = ? AND source = ? AND active = 1",
		userID, source,
	).Scan(&agendaID)
	if errors.Is(err, sql.ErrNoRows) {
		return storeerr.ErrNoActiveAgenda
	}
	if err != nil {
		return err
	}

	// Explicit delete alongside the FK cascade keeps the behavior identical
	// when foreign keys are off (e.g. externally opened databases).
	if _, err := tx.Exec("DELETE FROM agenda_versions WHERE agenda_id = ?", agendaID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM agendas WHERE id = ?", agendaID); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) GetAgendaVersions(agendaID string) ([]models.AgendaVersion, error) {
	rows, err := s.db.Query(`
		SELECT agenda_id, version, snapshot, description, actor, created_at
		FROM agenda_versions WHERE agenda_id = ? ORDER BY version`, agendaID)
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
		FROM agenda_versions WHERE agenda_id = ? AND version = ?`, agendaID, version)
	v, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AgendaVersion{}, fmt.Errorf("no version %d for agenda %s", version, agendaID)
	}
	return v, err
}

func insertAgendaRow(tx *sql.Tx, agenda models.SmartAgenda) error {
	days, insights, err := marshalAgendaColumns(agenda)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO agendas (
			id, user_id, source, version, active, reviewed, favorites_included,
			total_favorites, suggestions_added, confidence, insights, days, generated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		agenda.ID, agenda.UserID, agenda.Source, agenda.Version,
		boolToInt(agenda.Active), boolToInt(agenda.Reviewed),
		agenda.Metrics.FavoritesIncluded, agenda.Metrics.TotalFavorites,
		agenda.Metrics.SuggestionsAdded, agenda.Metrics.Confidence,
		insights, days, agenda.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert agenda: %w", err)
	}
	return nil
}

func insertVersionRow(tx *sql.Tx, agenda models.SmartAgenda, description, actor string) error {
	snapshot, err := json.Marshal(agenda)
	if err != nil {
		return fmt.Errorf("failed to marshal agenda snapshot: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO agenda_versions (agenda_id, version, snapshot, description, actor, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
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
	var active, reviewed int
	var insights, days string
	err := row.Scan(
		&agenda.ID, &agenda.UserID, &agenda.Source, &agenda.Version,
		&active, &reviewed,
		&agenda.Metrics.FavoritesIncluded, &agenda.Metrics.TotalFavorites,
		&agenda.Metrics.SuggestionsAdded, &agenda.Metrics.Confidence,
		&insights, &days, &agenda.GeneratedAt,
	)
	if err != nil {
		return models.SmartAgenda{}, err
	}
	agenda.Active = active != 0
	agenda.Reviewed = reviewed != 0
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

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
