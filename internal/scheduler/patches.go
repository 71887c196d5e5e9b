package scheduler

import (
	"github.com/julianstephens/confmate/internal/conflict"
	"github.com/julianstephens/confmate/internal/logger"
	"github.com/julianstephens/confmate/internal/models"
	"github.com/julianstephens/confmate/internal/review"
	"github.com/julianstephens/confmate/internal/utils"
)

// ApplyReview applies the patches a reviewer proposed against a draft. A
// patch is applied only when it swaps an ai-suggested item, introduces no
// overlap with the remaining items, and stays under the session-minute cap.
// Rejected patches are discarded silently. Returns the number applied.
func (b *Builder) ApplyReview(draft *models.SmartAgenda, result review.Result) int {
	applied := 0
	for _, patch := range result.Patches {
		if b.applyPatch(draft, patch) {
			applied++
		} else {
			logger.Debug("Review patch rejected", "patch", patch.ID, "date", patch.Date)
		}
	}
	if applied > 0 {
		recomputeMetrics(draft)
	}
	return applied
}

func (b *Builder) applyPatch(draft *models.SmartAgenda, patch review.Patch) bool {
	day := draft.DayFor(patch.Date)
	if day == nil {
		return false
	}

	idx := -1
	for i, item := range day.Items {
		if item.ID == patch.RemoveItem {
			// Favorites are locked; only suggestions can be swapped out.
			if item.Source != models.SourceAISuggested {
				return false
			}
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	replacement := patch.Replacement
	if replacement.Session.Date != patch.Date {
		return false
	}
	newItem := suggestionItem(replacement)
	newItem.PatchedBy = patch.ID

	// Validate against the day with the old item removed.
	remaining := make([]models.ScheduleItem, 0, len(day.Items)-1)
	remaining = append(remaining, day.Items[:idx]...)
	remaining = append(remaining, day.Items[idx+1:]...)

	for _, item := range remaining {
		if conflict.Overlaps(itemInterval(newItem, day.Date), itemInterval(item, day.Date)) {
			return false
		}
	}

	budget := scheduledSessionMinutes(remaining) + durationMinutes(newItem.Start, newItem.End)
	if budget > b.cfg.MaxSessionMinutes {
		return false
	}
	if !b.respectsTravelBufferAmong(remaining, newItem) {
		return false
	}

	day.Items = append(remaining, newItem)
	sortItems(day.Items)
	day.Stats = computeDayStats(day.Items)
	return true
}

func (b *Builder) respectsTravelBufferAmong(items []models.ScheduleItem, candidate models.ScheduleItem) bool {
	probe := models.DayPlan{Items: items}
	start, err1 := utils.ParseTimeToMinutes(candidate.Start)
	end, err2 := utils.ParseTimeToMinutes(candidate.End)
	if err1 != nil || err2 != nil {
		return false
	}
	session := models.Session{ID: candidate.SessionID, Location: candidate.Location}
	return b.respectsTravelBuffer(&probe, session, start, end)
}

// recomputeMetrics refreshes agenda metrics after patches changed the items.
func recomputeMetrics(agenda *models.SmartAgenda) {
	var relevanceSum float64
	for i := range agenda.Days {
		agenda.Days[i].Stats = computeDayStats(agenda.Days[i].Items)
		for _, item := range agenda.Days[i].Items {
			if item.Source == models.SourceAISuggested {
				relevanceSum += item.Relevance
			}
		}
	}
	agenda.Metrics = computeMetrics(agenda.Days, agenda.Metrics.TotalFavorites, relevanceSum)
}
