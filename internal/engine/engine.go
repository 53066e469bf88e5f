package engine

import (
	"time"

	"shelfstats/internal/model"
)

// Result is one complete dashboard computation. Every field is always
// populated with a well-typed (possibly empty) value, so callers never
// null-check the shape. Recomputing with identical inputs yields a
// deep-equal Result.
type Result struct {
	Range           model.TimeRange
	Core            CoreStats
	Chart           ChartDays
	Streaks         StreakStats
	Week            WeeklyChallenge
	Year            YearInReview
	StatusBreakdown []StatusCount
	TopBooks        []BookRank
	TopSessions     []NormalizedSession
	TotalSeconds    float64
}

// Engine computes dashboard results for a fixed viewer location.
type Engine struct {
	loc *time.Location
}

// New returns an engine bucketing calendar days in loc. A nil location
// falls back to the process-local zone.
func New(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{loc: loc}
}

// Compute runs the full pipeline over an immutable snapshot of the library
// and the current preferences. It never fails: degraded input degrades to
// zeros and exclusions, not errors.
func (e *Engine) Compute(books []model.BookRecord, p model.PreferenceSet, now time.Time) Result {
	p = p.Normalize()
	all := ExtractSessions(books, e.loc)
	filtered := FilterByRange(all, p.TimeRange, now)

	return Result{
		Range:           p.TimeRange,
		Core:            SummarizeCore(books, filtered),
		Chart:           BuildChartDays(filtered, p.TimeRange, now, e.loc),
		Streaks:         Streaks(all, now, e.loc),
		Week:            SummarizeWeek(all, now, e.loc),
		Year:            SummarizeYear(books, all, now, e.loc),
		StatusBreakdown: StatusBreakdown(books),
		TopBooks:        TopBooks(books, filtered),
		TopSessions:     TopSessions(filtered),
		TotalSeconds:    TotalSecondsForRange(filtered),
	}
}
