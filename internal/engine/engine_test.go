package engine

import (
	"reflect"
	"testing"
	"time"

	"shelfstats/internal/model"
)

func testBooks() []model.BookRecord {
	return []model.BookRecord{
		{
			ID:             "b1",
			Title:          "Dune",
			Author:         "Frank Herbert",
			Progress:       60,
			EstimatedPages: 600,
			ReadingTime:    7200,
			LastRead:       "2024-03-09T21:00:00Z",
			ReadingSessions: []model.SessionRecord{
				{StartAt: "2024-03-08T20:00:00Z", EndAt: "2024-03-08T21:00:00Z", Seconds: 3600},
				{StartAt: "2024-03-09T20:00:00Z", EndAt: "2024-03-09T21:00:00Z", Seconds: 3600},
			},
		},
		{
			ID:       "b2",
			Title:    "Emma",
			Author:   "Jane Austen",
			Progress: 100,
			LastRead: "2024-02-10T10:00:00Z",
			ReadingSessions: []model.SessionRecord{
				{EndAt: "2024-02-10T10:00:00Z", Seconds: 1800},
			},
		},
		{ID: "b3", Title: "Unread", IsToRead: true},
	}
}

func TestComputeEmptyLibrary(t *testing.T) {
	e := New(time.UTC)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	res := e.Compute(nil, model.DefaultPreferences(), now)

	if res.Core.TotalBooks != 0 || res.Core.CompletionRate != 0 {
		t.Fatalf("expected zero core stats, got %+v", res.Core)
	}
	if res.TopBooks == nil || len(res.TopBooks) != 0 {
		t.Fatalf("expected empty top books, got %v", res.TopBooks)
	}
	if res.TopSessions == nil || len(res.TopSessions) != 0 {
		t.Fatalf("expected empty top sessions, got %v", res.TopSessions)
	}
	if len(res.Chart.Days) != ChartDayCount(model.Range30d) {
		t.Fatalf("expected a full chart window, got %d days", len(res.Chart.Days))
	}
	for _, d := range res.Chart.Days {
		if d.Seconds != 0 {
			t.Fatalf("expected empty buckets, got %+v", d)
		}
	}
	if len(res.StatusBreakdown) != 4 {
		t.Fatalf("expected 4 status labels, got %d", len(res.StatusBreakdown))
	}
}

func TestComputeInvalidPreferencesFallBack(t *testing.T) {
	e := New(time.UTC)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	res := e.Compute(testBooks(), model.PreferenceSet{TimeRange: "14d"}, now)
	if res.Range != model.Range30d {
		t.Fatalf("expected default range, got %s", res.Range)
	}
}

func TestComputeIdempotent(t *testing.T) {
	e := New(time.UTC)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	books := testBooks()
	prefs := model.DefaultPreferences()

	first := e.Compute(books, prefs, now)
	second := e.Compute(books, prefs, now)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical inputs to produce deep-equal results")
	}
}

func TestComputeRangeScoping(t *testing.T) {
	e := New(time.UTC)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	books := testBooks()

	week := e.Compute(books, model.PreferenceSet{TimeRange: model.Range7d}, now)
	all := e.Compute(books, model.PreferenceSet{TimeRange: model.RangeAll}, now)

	// Emma's February session is outside the 7d window but inside "all".
	if week.Core.TrackedSessions != 2 {
		t.Fatalf("expected 2 tracked sessions in 7d, got %d", week.Core.TrackedSessions)
	}
	if all.Core.TrackedSessions != 3 {
		t.Fatalf("expected 3 tracked sessions in all, got %d", all.Core.TrackedSessions)
	}
	if week.TotalSeconds != 7200 {
		t.Fatalf("expected 7200s in 7d, got %f", week.TotalSeconds)
	}

	// Streaks ignore the range entirely.
	if week.Streaks != all.Streaks {
		t.Fatalf("streaks must not depend on the range: %+v vs %+v", week.Streaks, all.Streaks)
	}
	if len(week.TopBooks) != 1 || week.TopBooks[0].BookID != "b1" {
		t.Fatalf("expected only Dune ranked in 7d, got %+v", week.TopBooks)
	}
	if len(all.TopBooks) != 2 {
		t.Fatalf("expected 2 ranked books in all, got %d", len(all.TopBooks))
	}
}
