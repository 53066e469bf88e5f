package engine

import (
	"testing"
	"time"
)

func sessionsOnDays(keys ...string) []NormalizedSession {
	out := make([]NormalizedSession, 0, len(keys))
	for _, key := range keys {
		day, err := time.ParseInLocation(dayKeyLayout, key, time.UTC)
		if err != nil {
			panic(err)
		}
		out = append(out, NormalizedSession{
			DayKey:  key,
			EndMs:   day.Add(10 * time.Hour).UnixMilli(),
			Seconds: 60,
		})
	}
	return out
}

func TestStreaks(t *testing.T) {
	history := sessionsOnDays("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-05")
	cases := []struct {
		name        string
		today       string
		wantCurrent int
		wantBest    int
	}{
		{"today active", "2024-01-05", 1, 3},
		{"yesterday active", "2024-01-06", 1, 3},
		{"gap breaks streak", "2024-01-07", 0, 3},
		{"inside the run", "2024-01-03", 3, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			today, err := time.ParseInLocation(dayKeyLayout, tc.today, time.UTC)
			if err != nil {
				t.Fatal(err)
			}
			got := Streaks(history, today.Add(12*time.Hour), time.UTC)
			if got.Current != tc.wantCurrent {
				t.Fatalf("current: expected %d, got %d", tc.wantCurrent, got.Current)
			}
			if got.Best != tc.wantBest {
				t.Fatalf("best: expected %d, got %d", tc.wantBest, got.Best)
			}
		})
	}
}

func TestStreaksEmptyHistory(t *testing.T) {
	now := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	got := Streaks(nil, now, time.UTC)
	if got.Current != 0 || got.Best != 0 {
		t.Fatalf("expected zero streaks, got %+v", got)
	}
}

func TestStreaksAcrossMonthBoundary(t *testing.T) {
	history := sessionsOnDays("2024-01-30", "2024-01-31", "2024-02-01", "2024-02-02")
	now := time.Date(2024, 2, 2, 20, 0, 0, 0, time.UTC)
	got := Streaks(history, now, time.UTC)
	if got.Current != 4 || got.Best != 4 {
		t.Fatalf("expected 4/4 across month boundary, got %+v", got)
	}
}

func TestStreaksDuplicateDaysCountOnce(t *testing.T) {
	history := sessionsOnDays("2024-01-01", "2024-01-01", "2024-01-02")
	now := time.Date(2024, 1, 2, 20, 0, 0, 0, time.UTC)
	got := Streaks(history, now, time.UTC)
	if got.Current != 2 || got.Best != 2 {
		t.Fatalf("expected 2/2, got %+v", got)
	}
}
