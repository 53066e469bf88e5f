package engine

import (
	"time"

	"shelfstats/internal/model"
)

// DayBucket is one calendar day of accumulated activity.
type DayBucket struct {
	Key     string
	Short   string
	Label   string
	Seconds float64
	Pages   float64
	Titles  []string
}

// ChartDays is the ordered trailing-day series plus the single-day maximum
// used to normalize bar heights. MaxDaySeconds is 0 when every day is empty.
type ChartDays struct {
	Days          []DayBucket
	MaxDaySeconds float64
}

// ChartDayCount maps a range to the number of trailing days charted. The
// chart density deliberately diverges from the scalar-metric window for the
// 90d and unbounded ranges to keep the chart legible.
func ChartDayCount(r model.TimeRange) int {
	switch r {
	case model.Range7d:
		return 7
	case model.Range30d:
		return 30
	case model.Range90d:
		return 45
	default:
		return 14
	}
}

// BuildChartDays constructs the trailing calendar-day series ending today
// (oldest first) and accumulates the filtered sessions into it. Sessions
// whose day key falls outside the window are ignored; days without activity
// stay at zero.
func BuildChartDays(filtered []NormalizedSession, r model.TimeRange, now time.Time, loc *time.Location) ChartDays {
	count := ChartDayCount(r)
	today := now.In(loc)
	days := make([]DayBucket, count)
	index := make(map[string]int, count)
	for i := 0; i < count; i++ {
		d := today.AddDate(0, 0, i-count+1)
		key := d.Format(dayKeyLayout)
		days[i] = DayBucket{
			Key:    key,
			Short:  d.Format("Mon"),
			Label:  d.Format("Jan 2, 2006"),
			Titles: make([]string, 0),
		}
		index[key] = i
	}

	seen := make([]map[string]struct{}, count)
	for _, s := range filtered {
		i, ok := index[s.DayKey]
		if !ok {
			continue
		}
		days[i].Seconds += s.Seconds
		days[i].Pages += s.PagesEstimate
		if seen[i] == nil {
			seen[i] = make(map[string]struct{})
		}
		if _, dup := seen[i][s.Title]; !dup {
			seen[i][s.Title] = struct{}{}
			days[i].Titles = append(days[i].Titles, s.Title)
		}
	}

	maxSeconds := 0.0
	for _, d := range days {
		if d.Seconds > maxSeconds {
			maxSeconds = d.Seconds
		}
	}
	return ChartDays{Days: days, MaxDaySeconds: maxSeconds}
}
