package engine

import (
	"time"

	"shelfstats/internal/model"
)

const dayMillis = int64(24 * 60 * 60 * 1000)

// rangeCutoffMs returns the inclusive lower bound for a range, in epoch
// milliseconds. The second return is false for the unbounded range.
func rangeCutoffMs(r model.TimeRange, now time.Time) (int64, bool) {
	days := r.Days()
	if days <= 0 {
		return 0, false
	}
	return now.UnixMilli() - int64(days)*dayMillis, true
}

// FilterByRange keeps sessions whose end falls inside the trailing window.
// The cutoff instant itself is included. The unbounded range keeps
// everything.
func FilterByRange(sessions []NormalizedSession, r model.TimeRange, now time.Time) []NormalizedSession {
	cutoff, bounded := rangeCutoffMs(r, now)
	out := make([]NormalizedSession, 0, len(sessions))
	for _, s := range sessions {
		if bounded && s.EndMs < cutoff {
			continue
		}
		out = append(out, s)
	}
	return out
}
