package scheduler

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/julianstephens/confmate/internal/conflict"
	"github.com/julianstephens/confmate/internal/constants"
	"github.com/julianstephens/confmate/internal/logger"
	"github.com/julianstephens/confmate/internal/models"
	"github.com/julianstephens/confmate/internal/ranker"
	"github.com/julianstephens/confmate/internal/utils"
)

// Config carries the per-day scheduling knobs. Zero values fall back to the
// documented defaults.
type Config struct {
	DayStart          string // HH:MM format
	DayEnd            string // HH:MM format
	TravelBufferMin   int
	MaxSessionMinutes int
	Meals             []models.MealWindow
}

// ConfigFromSettings derives a scheduling config from stored settings.
func ConfigFromSettings(settings models.Settings) Config {
	return Config{
		DayStart:          settings.DayStart,
		DayEnd:            settings.DayEnd,
		TravelBufferMin:   settings.TravelBufferMin,
		MaxSessionMinutes: settings.MaxSessionMinutes,
		Meals:             models.DefaultMealWindows(),
	}
}

func (c *Config) applyDefaults() {
	if c.DayStart == "" {
		c.DayStart = constants.DefaultDayStart
	}
	if c.DayEnd == "" {
		c.DayEnd = constants.DefaultDayEnd
	}
	if c.TravelBufferMin <= 0 {
		c.TravelBufferMin = constants.DefaultTravelBufferMin
	}
	if c.MaxSessionMinutes <= 0 {
		c.MaxSessionMinutes = constants.DefaultMaxSessionMinutes
	}
}

// Builder turns favorites plus a ranked candidate pool into a conflict-free
// multi-day agenda. It is a synchronous single-pass computation; the only
// suspension point is the candidate source, which the caller is expected to
// wrap with a bounded timeout.
type Builder struct {
	cfg      Config
	detector *conflict.Detector
	source   ranker.Source
}

func New(cfg Config, source ranker.Source) *Builder {
	cfg.applyDefaults()
	return &Builder{
		cfg:      cfg,
		detector: conflict.New(cfg.TravelBufferMin),
		source:   source,
	}
}

// Detector exposes the builder's conflict detector for interactive checks.
func (b *Builder) Detector() *conflict.Detector {
	return b.detector
}

// Build produces a draft agenda for the given dates. Favorites are locked at
// the highest priority; remaining free time is filled from the ranked pool.
// The result is deterministic for identical inputs.
func (b *Builder) Build(ctx context.Context, userID string, favorites []models.Session, interests, keywords []string, dates []string) (models.SmartAgenda, error) {
	if len(dates) == 0 {
		return models.SmartAgenda{}, fmt.Errorf("no usable date range")
	}

	var pool []models.ScoredSession
	if b.source != nil {
		var err error
		pool, err = b.source.Rank(ctx, interests, keywords, constants.DefaultCandidateLimit)
		if err != nil {
			// Best effort: an empty pool still yields a valid agenda.
			logger.Warn("Ranked candidate source unavailable", "error", err)
			pool = nil
		}
	}
	sortPool(pool)

	agenda := models.SmartAgenda{
		UserID: userID,
		Source: constants.AgendaSourceAgent,
	}

	placed := make(map[string]bool) // session ids already on the agenda
	var relevanceSum float64
	for i, date := range dates {
		day := b.buildDay(i+1, date, favorites, pool, placed)
		for _, item := range day.Items {
			if item.Source == models.SourceAISuggested {
				relevanceSum += item.Relevance
			}
		}
		agenda.Days = append(agenda.Days, day)
	}

	agenda.Metrics = computeMetrics(agenda.Days, len(favorites), relevanceSum)
	agenda.Insights = buildInsights(agenda.Days, agenda.Metrics, len(pool))
	return agenda, nil
}

// buildDay runs the per-day pipeline: seed favorites, resolve favorite
// conflicts, insert meal blocks, then fill free time from the pool.
func (b *Builder) buildDay(dayNum int, date string, favorites []models.Session, pool []models.ScoredSession, placed map[string]bool) models.DayPlan {
	day := models.DayPlan{Day: dayNum, Date: date}

	var seeds []models.ScheduleItem
	for _, session := range favorites {
		if session.Date != date {
			continue
		}
		seeds = append(seeds, favoriteItem(session))
	}

	day.Items, day.Alternatives = resolveLockedConflicts(seeds)
	for _, item := range day.Items {
		placed[item.SessionID] = true
	}
	// Alternatives stay off the timeline but still count as placed so the
	// fill step never re-suggests a displaced favorite.
	for _, alt := range day.Alternatives {
		placed[alt.SessionID] = true
	}

	b.insertMeals(&day)
	b.fillSuggestions(&day, date, pool, placed)

	sortItems(day.Items)
	day.Stats = computeDayStats(day.Items)
	return day
}

// resolveLockedConflicts keeps the winning favorite of each overlapping pair
// and flags the loser as an unresolved alternative. Winners are chosen by
// priority, then earlier start, then lexical title, so the outcome is stable.
func resolveLockedConflicts(seeds []models.ScheduleItem) (items, alternatives []models.ScheduleItem) {
	sort.Slice(seeds, func(i, j int) bool {
		if seeds[i].Priority != seeds[j].Priority {
			return seeds[i].Priority > seeds[j].Priority
		}
		if seeds[i].Start != seeds[j].Start {
			return seeds[i].Start < seeds[j].Start
		}
		return seeds[i].Title < seeds[j].Title
	})

	for _, seed := range seeds {
		conflicting := false
		for _, kept := range items {
			if conflict.Overlaps(itemInterval(seed, ""), itemInterval(kept, "")) {
				conflicting = true
				break
			}
		}
		if conflicting {
			seed.Unresolved = true
			alternatives = append(alternatives, seed)
		} else {
			items = append(items, seed)
		}
	}
	return items, alternatives
}

// insertMeals places each canonical meal/break block whose window is still
// free. Occupied windows are skipped; meals never displace sessions.
func (b *Builder) insertMeals(day *models.DayPlan) {
	for _, meal := range b.cfg.Meals {
		item := models.ScheduleItem{
			ID:       deterministicID(day.Date, meal.Start, meal.Name),
			Kind:     meal.Kind,
			Start:    meal.Start,
			End:      meal.End,
			Title:    meal.Name,
			Source:   models.SourceFiller,
			Priority: constants.PriorityMeal,
		}
		free := true
		for _, existing := range day.Items {
			if conflict.Overlaps(itemInterval(item, day.Date), itemInterval(existing, day.Date)) {
				free = false
				break
			}
		}
		if free {
			day.Items = append(day.Items, item)
		}
	}
	sortItems(day.Items)
}

// fillSuggestions walks the day's free intervals chronologically and places
// the highest-ranked still-unplaced candidate that fits each one, honoring
// the session-minute cap and the travel buffer between differing locations.
func (b *Builder) fillSuggestions(day *models.DayPlan, date string, pool []models.ScoredSession, placed map[string]bool) {
	dayStart, err1 := utils.ParseTimeToMinutes(b.cfg.DayStart)
	dayEnd, err2 := utils.ParseTimeToMinutes(b.cfg.DayEnd)
	if err1 != nil || err2 != nil || dayEnd <= dayStart {
		return
	}

	sessionMinutes := scheduledSessionMinutes(day.Items)

	for {
		blocks := freeBlocks(dayStart, dayEnd, day.Items)
		inserted := false

		for _, block := range blocks {
			best, ok := b.pickCandidate(day, date, block, pool, placed, sessionMinutes)
			if !ok {
				continue
			}
			item := suggestionItem(best)
			day.Items = append(day.Items, item)
			sortItems(day.Items)
			placed[best.Session.ID] = true
			sessionMinutes += durationMinutes(item.Start, item.End)
			inserted = true
			break
		}

		if !inserted {
			return
		}
	}
}

// pickCandidate returns the highest-ranked unplaced candidate whose interval
// sits inside the block. Pool order already encodes the tie-break rule.
func (b *Builder) pickCandidate(day *models.DayPlan, date string, block timeBlock, pool []models.ScoredSession, placed map[string]bool, sessionMinutes int) (models.ScoredSession, bool) {
	for _, cand := range pool {
		if cand.Session.Date != date || placed[cand.Session.ID] {
			continue
		}
		start, err1 := utils.ParseTimeToMinutes(cand.Session.Start)
		end, err2 := utils.ParseTimeToMinutes(cand.Session.End)
		if err1 != nil || err2 != nil || end <= start {
			continue
		}
		if start < block.start || end > block.end {
			continue
		}
		if sessionMinutes+(end-start) > b.cfg.MaxSessionMinutes {
			continue
		}
		if !b.respectsTravelBuffer(day, cand.Session, start, end) {
			continue
		}
		return cand, true
	}
	return models.ScoredSession{}, false
}

// respectsTravelBuffer rejects a candidate whose nearest neighbors are in a
// different location with a gap under the travel buffer.
func (b *Builder) respectsTravelBuffer(day *models.DayPlan, session models.Session, start, end int) bool {
	for _, item := range day.Items {
		if item.Kind != models.ItemKindSession || item.Location == "" || session.Location == "" {
			continue
		}
		if item.Location == session.Location {
			continue
		}
		itemStart, err1 := utils.ParseTimeToMinutes(item.Start)
		itemEnd, err2 := utils.ParseTimeToMinutes(item.End)
		if err1 != nil || err2 != nil {
			continue
		}
		if itemEnd <= start && start-itemEnd < b.cfg.TravelBufferMin {
			return false
		}
		if end <= itemStart && itemStart-end < b.cfg.TravelBufferMin {
			return false
		}
	}
	return true
}

type timeBlock struct {
	start int // minutes from midnight
	end   int // minutes from midnight
}

// freeBlocks computes the unoccupied intervals of the day window given the
// currently placed items, in chronological order.
func freeBlocks(dayStart, dayEnd int, items []models.ScheduleItem) []timeBlock {
	occupied := make([]timeBlock, 0, len(items))
	for _, item := range items {
		start, err1 := utils.ParseTimeToMinutes(item.Start)
		end, err2 := utils.ParseTimeToMinutes(item.End)
		if err1 != nil || err2 != nil {
			continue
		}
		occupied = append(occupied, timeBlock{start: start, end: end})
	}
	sort.Slice(occupied, func(i, j int) bool { return occupied[i].start < occupied[j].start })

	var blocks []timeBlock
	cursor := dayStart
	for _, slot := range occupied {
		if cursor < slot.start {
			blocks = append(blocks, timeBlock{start: cursor, end: slot.start})
		}
		if slot.end > cursor {
			cursor = slot.end
		}
	}
	if cursor < dayEnd {
		blocks = append(blocks, timeBlock{start: cursor, end: dayEnd})
	}
	return blocks
}

func favoriteItem(session models.Session) models.ScheduleItem {
	return models.ScheduleItem{
		ID:        deterministicID(session.Date, session.Start, session.ID),
		SessionID: session.ID,
		Kind:      models.ItemKindSession,
		Start:     session.Start,
		End:       session.End,
		Title:     session.Title,
		Location:  session.Location,
		Source:    models.SourceUserFavorite,
		Priority:  constants.PriorityFavorite,
	}
}

func suggestionItem(cand models.ScoredSession) models.ScheduleItem {
	priority := int(cand.Score)
	if priority > constants.MaxSuggestionPriority {
		priority = constants.MaxSuggestionPriority
	}
	reasoning := cand.Reason
	if reasoning == "" {
		reasoning = "fills an open slot in your day"
	}
	return models.ScheduleItem{
		ID:        deterministicID(cand.Session.Date, cand.Session.Start, cand.Session.ID),
		SessionID: cand.Session.ID,
		Kind:      models.ItemKindSession,
		Start:     cand.Session.Start,
		End:       cand.Session.End,
		Title:     cand.Session.Title,
		Location:  cand.Session.Location,
		Source:    models.SourceAISuggested,
		Priority:  priority,
		Reasoning: reasoning,
		Relevance: cand.Score,
	}
}

// sortPool enforces the global tie-break rule: relevance descending, then
// earlier start, then lexical title.
func sortPool(pool []models.ScoredSession) {
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].Score != pool[j].Score {
			return pool[i].Score > pool[j].Score
		}
		if pool[i].Session.Start != pool[j].Session.Start {
			return pool[i].Session.Start < pool[j].Session.Start
		}
		return pool[i].Session.Title < pool[j].Session.Title
	})
}

func sortItems(items []models.ScheduleItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Start != items[j].Start {
			return items[i].Start < items[j].Start
		}
		return items[i].Title < items[j].Title
	})
}

func computeDayStats(items []models.ScheduleItem) models.DayStats {
	var stats models.DayStats
	for _, item := range items {
		if item.Kind != models.ItemKindSession {
			continue
		}
		stats.Sessions++
		switch item.Source {
		case models.SourceUserFavorite:
			stats.FavoritesCovered++
		case models.SourceAISuggested:
			stats.Suggestions++
		}
	}
	return stats
}

func computeMetrics(days []models.DayPlan, totalFavorites int, relevanceSum float64) models.AgendaMetrics {
	metrics := models.AgendaMetrics{TotalFavorites: totalFavorites}
	for _, day := range days {
		metrics.FavoritesIncluded += day.Stats.FavoritesCovered
		metrics.SuggestionsAdded += day.Stats.Suggestions
	}

	coverage := 0.0
	if totalFavorites > 0 {
		coverage = float64(metrics.FavoritesIncluded) / float64(totalFavorites)
	}
	meanRelevance := 0.0
	if metrics.SuggestionsAdded > 0 {
		meanRelevance = relevanceSum / float64(metrics.SuggestionsAdded)
	}

	confidence := constants.ConfidenceCoverageWeight*coverage + constants.ConfidenceRelevanceWeight*meanRelevance
	metrics.Confidence = math.Round(math.Min(100, math.Max(0, confidence)))
	return metrics
}

func buildInsights(days []models.DayPlan, metrics models.AgendaMetrics, poolSize int) []string {
	var insights []string

	if metrics.TotalFavorites == 0 {
		insights = append(insights, "No favorites yet; your agenda contains only meal and break blocks.")
	} else {
		insights = append(insights, fmt.Sprintf("Covered %d of %d favorited sessions.", metrics.FavoritesIncluded, metrics.TotalFavorites))
	}

	unresolved := 0
	for _, day := range days {
		unresolved += len(day.Alternatives)
	}
	if unresolved > 0 {
		insights = append(insights, fmt.Sprintf("%d favorited session(s) overlap others; review the flagged alternatives.", unresolved))
	}

	if metrics.SuggestionsAdded > 0 {
		insights = append(insights, fmt.Sprintf("Added %d suggested session(s) matching your interests.", metrics.SuggestionsAdded))
	} else if poolSize == 0 && metrics.TotalFavorites == 0 {
		insights = append(insights, "Session recommendations were unavailable; rebuild later for suggestions.")
	}

	if metrics.Confidence < constants.LowConfidenceThreshold {
		insights = append(insights, "Low-confidence agenda: favorite a few sessions to improve it.")
	}
	return insights
}

func scheduledSessionMinutes(items []models.ScheduleItem) int {
	total := 0
	for _, item := range items {
		if item.Kind == models.ItemKindSession {
			total += durationMinutes(item.Start, item.End)
		}
	}
	return total
}

func durationMinutes(start, end string) int {
	s, err1 := utils.ParseTimeToMinutes(start)
	e, err2 := utils.ParseTimeToMinutes(end)
	if err1 != nil || err2 != nil || e <= s {
		return 0
	}
	return e - s
}

func itemInterval(item models.ScheduleItem, date string) conflict.Interval {
	return conflict.Interval{
		ID:       item.ID,
		Title:    item.Title,
		Date:     date,
		Start:    item.Start,
		End:      item.End,
		Location: item.Location,
	}
}

// deterministicID derives a stable UUID from the item's identity so repeated
// builds over identical inputs produce byte-identical agendas.
func deterministicID(parts ...string) string {
	key := ""
	for _, p := range parts {
		key += p + "|"
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("confmate:"+key)).String()
}
