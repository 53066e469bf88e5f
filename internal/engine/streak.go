package engine

import (
	"sort"
	"time"
)

// StreakStats holds the consecutive-reading-day streaks.
type StreakStats struct {
	Current int
	Best    int
}

// Streaks computes current and best streaks from the full session history.
// It deliberately ignores the selected range: a streak reflects real
// consecutive days regardless of the dashboard's view window.
func Streaks(all []NormalizedSession, now time.Time, loc *time.Location) StreakStats {
	active := make(map[string]bool, len(all))
	for _, s := range all {
		active[s.DayKey] = true
	}
	return StreakStats{
		Current: currentStreak(active, now.In(loc)),
		Best:    bestStreak(active, loc),
	}
}

// bestStreak walks the distinct active days in ascending order, extending a
// run whenever the gap to the previous day is exactly one calendar day.
func bestStreak(active map[string]bool, loc *time.Location) int {
	if len(active) == 0 {
		return 0
	}
	keys := make([]string, 0, len(active))
	for k := range active {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := 0
	run := 0
	var prev time.Time
	for i, key := range keys {
		day, err := time.ParseInLocation(dayKeyLayout, key, loc)
		if err != nil {
			continue
		}
		if i > 0 && prev.AddDate(0, 0, 1).Format(dayKeyLayout) == key {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
		prev = day
	}
	return best
}

// currentStreak anchors on today if today had activity, else yesterday, and
// counts backwards one day at a time until the first inactive day.
func currentStreak(active map[string]bool, today time.Time) int {
	anchor := today
	if !active[anchor.Format(dayKeyLayout)] {
		anchor = anchor.AddDate(0, 0, -1)
		if !active[anchor.Format(dayKeyLayout)] {
			return 0
		}
	}
	count := 0
	for d := anchor; active[d.Format(dayKeyLayout)]; d = d.AddDate(0, 0, -1) {
		count++
	}
	return count
}
