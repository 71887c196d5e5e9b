package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/confmate/internal/models"
	"github.com/julianstephens/confmate/internal/storage/storeerr"
)

func (s *Store) AddSession(session models.Session) error {
	tags, err := json.Marshal(session.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}
	speakers, err := json.Marshal(session.Speakers)
	if err != nil {
		return fmt.Errorf("failed to marshal speakers: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO sessions (id, title, description, date, start_time, end_time, location, track, tags, speakers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, description = EXCLUDED.description,
			date = EXCLUDED.date, start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time, location = EXCLUDED.location,
			track = EXCLUDED.track, tags = EXCLUDED.tags, speakers = EXCLUDED.speakers`,
		session.ID, session.Title, session.Description, session.Date,
		session.Start, session.End, session.Location, session.Track,
		string(tags), string(speakers),
	)
	return err
}

func (s *Store) GetSession(id string) (models.Session, error) {
	row := s.db.QueryRow(`
		SELECT id, title, description, date, start_time, end_time, location, track, tags, speakers
		FROM sessions WHERE id = $1`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, storeerr.ErrSessionNotFound
	}
	return session, err
}

func (s *Store) GetAllSessions() ([]models.Session, error) {
	return s.querySessions(`
		SELECT id, title, description, date, start_time, end_time, location, track, tags, speakers
		FROM sessions ORDER BY date, start_time, title`)
}

func (s *Store) GetSessionsForDate(date string) ([]models.Session, error) {
	return s.querySessions(`
		SELECT id, title, description, date, start_time, end_time, location, track, tags, speakers
		FROM sessions WHERE date = $1 ORDER BY start_time, title`, date)
}

func (s *Store) querySessions(query string, args ...interface{}) ([]models.Session, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (models.Session, error) {
	var session models.Session
	var tags, speakers string
	err := row.Scan(
		&session.ID, &session.Title, &session.Description, &session.Date,
		&session.Start, &session.End, &session.Location, &session.Track,
		&tags, &speakers,
	)
	if err != nil {
		return models.Session{}, err
	}
	if err := json.Unmarshal([]byte(tags), &session.Tags); err != nil {
		return models.Session{}, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	if err := json.Unmarshal([]byte(speakers), &session.Speakers); err != nil {
		return models.Session{}, fmt.Errorf("failed to unmarshal speakers: %w", err)
	}
	return session, nil
}
