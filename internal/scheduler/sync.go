package scheduler

import (
	"github.com/julianstephens/confmate/internal/conflict"
	"github.com/julianstephens/confmate/internal/models"
)

// InsertFavorite attempts to place a newly favorited session into the
// existing agenda snapshot without a full rebuild. On an irreconcilable
// overlap the agenda is left untouched and the conflict result is returned
// for the caller to surface. Low-severity squeezes do not block insertion.
func (b *Builder) InsertFavorite(agenda *models.SmartAgenda, session models.Session) (conflict.Result, bool) {
	day := agenda.DayFor(session.Date)
	if day == nil {
		return conflict.Result{CandidateID: session.ID, HasAgenda: true}, false
	}

	existing := make([]conflict.Interval, 0, len(day.Items))
	for _, item := range day.Items {
		if item.Kind == models.ItemKindSession || item.Kind == models.ItemKindMeal {
			existing = append(existing, itemInterval(item, day.Date))
		}
	}

	candidate := conflict.Interval{
		ID:       session.ID,
		Title:    session.Title,
		Date:     session.Date,
		Start:    session.Start,
		End:      session.End,
		Location: session.Location,
	}
	result := b.detector.Detect(candidate, existing)
	if result.HasConflicts || result.Indeterminate {
		return result, false
	}

	day.Items = append(day.Items, favoriteItem(session))
	sortItems(day.Items)
	day.Stats = computeDayStats(day.Items)
	bumpFavoriteMetrics(agenda, 1)
	return result, true
}

// RemoveFavorite drops the schedule item for the given session, leaving the
// rest of the day unchanged. The vacated slot is not refilled; that happens
// only on a user-initiated rebuild.
func (b *Builder) RemoveFavorite(agenda *models.SmartAgenda, sessionID string) bool {
	removed := false
	for i := range agenda.Days {
		day := &agenda.Days[i]

		items := day.Items[:0]
		for _, item := range day.Items {
			if item.SessionID == sessionID && item.Source == models.SourceUserFavorite {
				removed = true
				continue
			}
			items = append(items, item)
		}
		day.Items = items

		// A favorite that lost a favorite-vs-favorite conflict lives in the
		// alternatives list; unfavoriting it clears the flag too.
		alts := day.Alternatives[:0]
		for _, alt := range day.Alternatives {
			if alt.SessionID == sessionID {
				removed = true
				continue
			}
			alts = append(alts, alt)
		}
		day.Alternatives = alts

		day.Stats = computeDayStats(day.Items)
	}

	if removed {
		bumpFavoriteMetrics(agenda, -1)
	}
	return removed
}

// bumpFavoriteMetrics adjusts the favorite total and recounts everything
// else from the day plans, preserving favoritesIncluded <= totalFavorites.
func bumpFavoriteMetrics(agenda *models.SmartAgenda, delta int) {
	agenda.Metrics.TotalFavorites += delta
	if agenda.Metrics.TotalFavorites < 0 {
		agenda.Metrics.TotalFavorites = 0
	}
	recomputeMetrics(agenda)
	if agenda.Metrics.TotalFavorites < agenda.Metrics.FavoritesIncluded {
		agenda.Metrics.TotalFavorites = agenda.Metrics.FavoritesIncluded
	}
}
