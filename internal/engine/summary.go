package engine

import (
	"math"
	"time"

	"shelfstats/internal/model"
)

// WeeklyGoalSeconds is the fixed weekly reading challenge target (5 hours).
const WeeklyGoalSeconds = 18000

// CoreStats are the scalar KPIs shown at the top of the dashboard.
type CoreStats struct {
	TotalBooks            int
	FinishedBooks         int
	InProgressBooks       int
	CompletionRate        int
	AverageSessionSeconds int
	TrackedSessions       int
	CompletedPages        int
}

// WeeklyChallenge is progress against the fixed weekly goal, computed over
// the current ISO week (Monday start) from the unfiltered history.
type WeeklyChallenge struct {
	WeekSeconds int
	Percent     int
	Remaining   int
}

// YearInReview summarizes the current calendar year.
type YearInReview struct {
	Year          int
	Seconds       int
	Pages         int
	FinishedBooks int
	Sessions      int
}

// SummarizeCore computes the scalar KPIs. Range-scoped values (average
// session length, tracked sessions, completed pages) come from the filtered
// set; book counts and completion rate cover the whole library.
func SummarizeCore(books []model.BookRecord, filtered []NormalizedSession) CoreStats {
	stats := CoreStats{
		TotalBooks:      len(books),
		TrackedSessions: len(filtered),
	}
	for _, b := range books {
		p := b.ClampedProgress()
		switch {
		case p >= 100:
			stats.FinishedBooks++
		case p > 0:
			stats.InProgressBooks++
		}
	}
	if stats.TotalBooks > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.FinishedBooks) / float64(stats.TotalBooks) * 100))
	}
	var seconds, pages float64
	for _, s := range filtered {
		seconds += s.Seconds
		pages += s.PagesEstimate
	}
	if len(filtered) > 0 {
		stats.AverageSessionSeconds = int(math.Round(seconds / float64(len(filtered))))
	}
	stats.CompletedPages = int(math.Round(pages))
	return stats
}

// TotalSecondsForRange sums the filtered sessions' seconds.
func TotalSecondsForRange(filtered []NormalizedSession) float64 {
	total := 0.0
	for _, s := range filtered {
		total += s.Seconds
	}
	return total
}

// startOfISOWeek returns the most recent Monday at 00:00 in t's location.
func startOfISOWeek(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(midnight.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -offset)
}

// SummarizeWeek computes weekly challenge progress from the full history.
// Percent is clamped to [0,100] no matter how far past the goal the week is.
func SummarizeWeek(all []NormalizedSession, now time.Time, loc *time.Location) WeeklyChallenge {
	weekStartMs := startOfISOWeek(now.In(loc)).UnixMilli()
	seconds := 0.0
	for _, s := range all {
		if s.EndMs >= weekStartMs {
			seconds += s.Seconds
		}
	}
	week := WeeklyChallenge{WeekSeconds: int(math.Round(seconds))}
	percent := math.Round(seconds / WeeklyGoalSeconds * 100)
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	week.Percent = int(percent)
	if week.WeekSeconds < WeeklyGoalSeconds {
		week.Remaining = WeeklyGoalSeconds - week.WeekSeconds
	}
	return week
}

// SummarizeYear sums activity inside the current calendar year and counts
// books finished during it (progress complete and last read this year).
func SummarizeYear(books []model.BookRecord, all []NormalizedSession, now time.Time, loc *time.Location) YearInReview {
	local := now.In(loc)
	jan1 := time.Date(local.Year(), time.January, 1, 0, 0, 0, 0, loc)
	nextJan1 := jan1.AddDate(1, 0, 0)
	startMs, endMs := jan1.UnixMilli(), nextJan1.UnixMilli()

	review := YearInReview{Year: local.Year()}
	var seconds, pages float64
	for _, s := range all {
		if s.EndMs >= startMs && s.EndMs < endMs {
			seconds += s.Seconds
			pages += s.PagesEstimate
			review.Sessions++
		}
	}
	review.Seconds = int(math.Round(seconds))
	review.Pages = int(math.Round(pages))
	for _, b := range books {
		if !b.Finished() {
			continue
		}
		lastMs, ok := parseTimestampMs(b.LastRead, loc)
		if ok && lastMs >= startMs && lastMs < endMs {
			review.FinishedBooks++
		}
	}
	return review
}
