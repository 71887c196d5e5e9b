package review

import (
	"context"
	"time"

	"github.com/julianstephens/confmate/internal/logger"
	"github.com/julianstephens/confmate/internal/models"
)

// Patch proposes swapping one ai-suggested schedule item for another
// candidate. Patches never touch user favorites.
type Patch struct {
	ID          string               `json:"id"`
	Date        string               `json:"date"`      // day to patch, YYYY-MM-DD
	RemoveItem  string               `json:"remove"`    // schedule item id to remove
	Replacement models.ScoredSession `json:"replacement"`
	Reason      string               `json:"reason,omitempty"`
}

type Result struct {
	Patches     []Patch  `json:"patches,omitempty"`
	Confidence  float64  `json:"confidence"`
	IssuesFixed []string `json:"issues_fixed,omitempty"`
	Notes       []string `json:"notes,omitempty"`
}

// Reviewer is an optional post-pass over a draft agenda. Implementations may
// call out to external services and must honor the context deadline.
type Reviewer interface {
	Review(ctx context.Context, draft models.SmartAgenda) (Result, error)
}

// Noop accepts every draft unchanged. It keeps the builder testable without
// any non-deterministic dependency.
type Noop struct{}

func (Noop) Review(ctx context.Context, draft models.SmartAgenda) (Result, error) {
	return Result{Confidence: draft.Metrics.Confidence}, nil
}

// Bounded wraps a reviewer with a timeout. On failure or timeout the draft
// proceeds unreviewed; the caller marks Reviewed=false.
type Bounded struct {
	reviewer Reviewer
	timeout  time.Duration
}

func NewBounded(reviewer Reviewer, timeout time.Duration) *Bounded {
	return &Bounded{reviewer: reviewer, timeout: timeout}
}

// Review returns the inner result and true, or a zero result and false when
// the reviewer is unavailable, errored, or timed out.
func (b *Bounded) Review(ctx context.Context, draft models.SmartAgenda) (Result, bool) {
	if b.reviewer == nil {
		return Result{}, false
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	type reviewResult struct {
		res Result
		err error
	}
	ch := make(chan reviewResult, 1)
	go func() {
		res, err := b.reviewer.Review(ctx, draft)
		ch <- reviewResult{res, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			logger.Warn("Review step failed, keeping unreviewed draft", "error", r.err)
			return Result{}, false
		}
		return r.res, true
	case <-ctx.Done():
		logger.Warn("Review step timed out, keeping unreviewed draft", "timeout", b.timeout)
		return Result{}, false
	}
}
