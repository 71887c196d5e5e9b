package postgres

import (
	"fmt"

	"github.com/julianstephens/confmate/internal/models"
)

func (s *Store) AddFavorite(fav models.Favorite) error {
	_, err := s.db.Exec(`
		INSERT INTO favorites (id, user_id, target_id, kind, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, target_id, kind) DO NOTHING`,
		fav.ID, fav.UserID, fav.TargetID, fav.Kind, fav.CreatedAt,
	)
	return err
}

func (s *Store) RemoveFavorite(userID, targetID string, kind models.FavoriteKind) error {
	result, err := s.db.Exec(
		"DELETE FROM favorites WHERE user_id = $1 AND target_id = $2 AND kind = $3",
		userID, targetID, kind,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("favorite not found: %s", targetID)
	}
	return nil
}

func (s *Store) GetFavorites(userID string) ([]models.Favorite, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, target_id, kind, created_at
		FROM favorites WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favorites []models.Favorite
	for rows.Next() {
		var fav models.Favorite
		if err := rows.Scan(&fav.ID, &fav.UserID, &fav.TargetID, &fav.Kind, &fav.CreatedAt); err != nil {
			return nil, err
		}
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}

func (s *Store) GetFavoriteSessions(userID string) ([]models.Session, error) {
	return s.querySessions(`
		SELECT s.id, s.title, s.description, s.date, s.start_time, s.end_time,
		       s.location, s.track, s.tags, s.speakers
		FROM favorites f
		JOIN sessions s ON s.id = f.target_id
		WHERE f.user_id = $1 AND f.kind = $2
		ORDER BY s.date, s.start_time, s.title`, userID, models.FavoriteSession)
}
