package conflict

import (
	"github.com/julianstephens/confmate/internal/constants"
	"github.com/julianstephens/confmate/internal/utils"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Interval is the minimal view of a scheduled commitment the detector needs.
// Times are HH:MM strings within a single day; intervals are half-open, so
// [09:00,10:00) and [10:00,11:00) do not conflict.
type Interval struct {
	ID       string
	Title    string
	Date     string // YYYY-MM-DD format
	Start    string // HH:MM format
	End      string // HH:MM format
	Location string
}

// Overlap describes one pairwise conflict between the candidate and an
// existing commitment.
type Overlap struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	OverlapMinutes int      `json:"overlap_minutes"`
	Severity       Severity `json:"severity"`
}

// Result is computed on demand and never persisted.
type Result struct {
	CandidateID   string    `json:"candidate_id"`
	HasAgenda     bool      `json:"has_agenda"`
	HasConflicts  bool      `json:"has_conflicts"`
	Indeterminate bool      `json:"indeterminate"`
	Conflicts     []Overlap `json:"conflicts,omitempty"`
}

// Detector performs pure interval arithmetic. It holds only configuration and
// is safe for concurrent use.
type Detector struct {
	travelBufferMin int
}

func New(travelBufferMin int) *Detector {
	if travelBufferMin <= 0 {
		travelBufferMin = constants.DefaultTravelBufferMin
	}
	return &Detector{travelBufferMin: travelBufferMin}
}

// Detect checks the candidate against every existing interval on the same
// date. Missing or malformed time data on the candidate yields an explicit
// indeterminate result instead of a false negative.
func (d *Detector) Detect(candidate Interval, existing []Interval) Result {
	result := Result{CandidateID: candidate.ID, HasAgenda: true}

	candStart, candEnd, ok := minuteBounds(candidate)
	if !ok {
		result.Indeterminate = true
		return result
	}

	for _, other := range existing {
		if other.Date != "" && candidate.Date != "" && other.Date != candidate.Date {
			continue
		}
		otherStart, otherEnd, ok := minuteBounds(other)
		if !ok {
			// An unparseable existing item cannot be cleared either way.
			result.Indeterminate = true
			continue
		}

		overlap := overlapMinutes(candStart, candEnd, otherStart, otherEnd)
		if overlap > 0 {
			result.Conflicts = append(result.Conflicts, Overlap{
				ID:             other.ID,
				Title:          other.Title,
				OverlapMinutes: overlap,
				Severity:       overlapSeverity(overlap, candEnd-candStart, otherEnd-otherStart),
			})
			continue
		}

		// Non-overlapping but back-to-back in the same room with a gap under
		// the travel buffer is reported as a low-severity squeeze.
		if candidate.Location != "" && candidate.Location == other.Location {
			gap := gapMinutes(candStart, candEnd, otherStart, otherEnd)
			if gap >= 0 && gap < d.travelBufferMin {
				result.Conflicts = append(result.Conflicts, Overlap{
					ID:       other.ID,
					Title:    other.Title,
					Severity: SeverityLow,
				})
			}
		}
	}

	for _, c := range result.Conflicts {
		if c.Severity != SeverityLow {
			result.HasConflicts = true
			break
		}
	}
	return result
}

// Overlaps reports whether two intervals conflict, treating malformed time
// data as non-conflicting.
func Overlaps(a, b Interval) bool {
	if a.Date != "" && b.Date != "" && a.Date != b.Date {
		return false
	}
	aStart, aEnd, ok := minuteBounds(a)
	if !ok {
		return false
	}
	bStart, bEnd, ok := minuteBounds(b)
	if !ok {
		return false
	}
	return overlapMinutes(aStart, aEnd, bStart, bEnd) > 0
}

func minuteBounds(iv Interval) (start, end int, ok bool) {
	if iv.Start == "" || iv.End == "" {
		return 0, 0, false
	}
	start, err := utils.ParseTimeToMinutes(iv.Start)
	if err != nil {
		return 0, 0, false
	}
	end, err = utils.ParseTimeToMinutes(iv.End)
	if err != nil {
		return 0, 0, false
	}
	if end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// overlapMinutes returns min(e1,e2) - max(s1,s2), clamped at zero. Two
// half-open intervals conflict iff the result is positive.
func overlapMinutes(s1, e1, s2, e2 int) int {
	low := s1
	if s2 > low {
		low = s2
	}
	high := e1
	if e2 < high {
		high = e2
	}
	if high <= low {
		return 0
	}
	return high - low
}

func overlapSeverity(overlap, dur1, dur2 int) Severity {
	shorter := dur1
	if dur2 < shorter {
		shorter = dur2
	}
	if shorter > 0 && float64(overlap) > constants.HighSeverityOverlapRatio*float64(shorter) {
		return SeverityHigh
	}
	return SeverityMedium
}

// gapMinutes returns the free time between two non-overlapping intervals, or
// -1 if they overlap.
func gapMinutes(s1, e1, s2, e2 int) int {
	if overlapMinutes(s1, e1, s2, e2) > 0 {
		return -1
	}
	if e1 <= s2 {
		return s2 - e1
	}
	return s1 - e2
}
