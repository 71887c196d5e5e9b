package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/confmate/internal/models"
)

func (s *Store) GetSettings() (models.Settings, error) {
	var settings models.Settings
	err := s.db.QueryRow(`
		SELECT conference_start, conference_end, day_start, day_end,
		       travel_buffer_min, max_session_minutes, timezone
		FROM settings WHERE id = 1`).Scan(
		&settings.ConferenceStart, &settings.ConferenceEnd,
		&settings.DayStart, &settings.DayEnd,
		&settings.TravelBufferMin, &settings.MaxSessionMinutes,
		&settings.Timezone,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Settings{}, fmt.Errorf("settings not found")
	}
	return settings, err
}

func (s *Store) SaveSettings(settings models.Settings) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (
			id, conference_start, conference_end, day_start, day_end,
			travel_buffer_min, max_session_minutes, timezone
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			conference_start = EXCLUDED.conference_start,
			conference_end = EXCLUDED.conference_end,
			day_start = EXCLUDED.day_start,
			day_end = EXCLUDED.day_end,
			travel_buffer_min = EXCLUDED.travel_buffer_min,
			max_session_minutes = EXCLUDED.max_session_minutes,
			timezone = EXCLUDED.timezone`,
		settings.ConferenceStart, settings.ConferenceEnd,
		settings.DayStart, settings.DayEnd,
		settings.TravelBufferMin, settings.MaxSessionMinutes,
		settings.Timezone,
	)
	return err
}
