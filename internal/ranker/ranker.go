package ranker

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/confmate/internal/logger"
	"github.com/julianstephens/confmate/internal/models"
)

// Source supplies a relevance-ranked candidate pool for the scheduler. A
// source may be slow or unavailable; callers treat it as best effort.
type Source interface {
	Rank(ctx context.Context, interests, keywords []string, limit int) ([]models.ScoredSession, error)
}

// SourceFunc adapts a plain function to a Source.
type SourceFunc func(ctx context.Context, interests, keywords []string, limit int) ([]models.ScoredSession, error)

func (f SourceFunc) Rank(ctx context.Context, interests, keywords []string, limit int) ([]models.ScoredSession, error) {
	return f(ctx, interests, keywords, limit)
}

// Bounded wraps a source with a timeout and degrades to an empty pool on
// failure so a slow or broken ranker never blocks a build.
type Bounded struct {
	src     Source
	timeout time.Duration
}

func NewBounded(src Source, timeout time.Duration) *Bounded {
	return &Bounded{src: src, timeout: timeout}
}

func (b *Bounded) Rank(ctx context.Context, interests, keywords []string, limit int) ([]models.ScoredSession, error) {
	if b.src == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	type rankResult struct {
		pool []models.ScoredSession
		err  error
	}
	ch := make(chan rankResult, 1)
	go func() {
		pool, err := b.src.Rank(ctx, interests, keywords, limit)
		ch <- rankResult{pool, err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			logger.Warn("Candidate source failed, continuing with empty pool", "error", res.err)
			return nil, nil
		}
		return res.pool, nil
	case <-ctx.Done():
		logger.Warn("Candidate source timed out, continuing with empty pool", "timeout", b.timeout)
		return nil, nil
	}
}

// Keyword scores sessions against the user's interests (tracks and tags drawn
// from their favorites) and free-text keywords. It is fully deterministic so
// repeated builds rank identically.
type Keyword struct {
	sessions []models.Session
}

func NewKeyword(sessions []models.Session) *Keyword {
	return &Keyword{sessions: sessions}
}

func (k *Keyword) Rank(ctx context.Context, interests, keywords []string, limit int) ([]models.ScoredSession, error) {
	interestSet := lowerSet(interests)
	keywordList := lowerList(keywords)

	var pool []models.ScoredSession
	for _, session := range k.sessions {
		score, reason := scoreSession(session, interestSet, keywordList)
		if score <= 0 {
			continue
		}
		pool = append(pool, models.ScoredSession{Session: session, Score: score, Reason: reason})
	}

	sort.Slice(pool, func(i, j int) bool {
		if pool[i].Score != pool[j].Score {
			return pool[i].Score > pool[j].Score
		}
		if pool[i].Session.Start != pool[j].Session.Start {
			return pool[i].Session.Start < pool[j].Session.Start
		}
		return pool[i].Session.Title < pool[j].Session.Title
	})

	if limit > 0 && len(pool) > limit {
		pool = pool[:limit]
	}
	return pool, nil
}

func scoreSession(session models.Session, interests map[string]bool, keywords []string) (float64, string) {
	var score float64
	var reasons []string

	if session.Track != "" && interests[strings.ToLower(session.Track)] {
		score += 40
		reasons = append(reasons, "track "+session.Track)
	}
	for _, tag := range session.Tags {
		if interests[strings.ToLower(tag)] {
			score += 20
			reasons = append(reasons, "tag "+tag)
		}
	}

	haystack := strings.ToLower(session.Title + " " + session.Description)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(haystack, kw) {
			score += 15
			reasons = append(reasons, "mentions "+kw)
		}
	}

	if score > 100 {
		score = 100
	}
	reason := ""
	if len(reasons) > 0 {
		reason = "matches " + strings.Join(reasons, ", ")
	}
	return score, reason
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v != "" {
			set[strings.ToLower(v)] = true
		}
	}
	return set
}

func lowerList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(strings.TrimSpace(v)))
	}
	return out
}
