package engine

import (
	"testing"
	"time"

	"shelfstats/internal/model"
)

func TestChartDayCount(t *testing.T) {
	cases := []struct {
		r    model.TimeRange
		want int
	}{
		{model.Range7d, 7},
		{model.Range30d, 30},
		{model.Range90d, 45},
		{model.RangeAll, 14},
	}
	for _, tc := range cases {
		if got := ChartDayCount(tc.r); got != tc.want {
			t.Fatalf("%s: expected %d days, got %d", tc.r, tc.want, got)
		}
	}
}

func TestBuildChartDaysWindow(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	chart := BuildChartDays(nil, model.Range7d, now, time.UTC)
	if len(chart.Days) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(chart.Days))
	}
	if chart.Days[0].Key != "2024-03-04" {
		t.Fatalf("expected oldest day first, got %s", chart.Days[0].Key)
	}
	if chart.Days[6].Key != "2024-03-10" {
		t.Fatalf("expected today last, got %s", chart.Days[6].Key)
	}
	if chart.MaxDaySeconds != 0 {
		t.Fatalf("expected zero max on empty chart, got %f", chart.MaxDaySeconds)
	}
	for _, d := range chart.Days {
		if d.Titles == nil {
			t.Fatalf("day %s has nil titles", d.Key)
		}
	}
}

func TestBuildChartDaysAccumulates(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	sessions := []NormalizedSession{
		{DayKey: "2024-03-09", Seconds: 600, PagesEstimate: 10, Title: "Dune"},
		{DayKey: "2024-03-09", Seconds: 300, PagesEstimate: 5, Title: "Dune"},
		{DayKey: "2024-03-09", Seconds: 100, PagesEstimate: 2, Title: "Emma"},
		{DayKey: "2024-03-10", Seconds: 200, PagesEstimate: 4, Title: "Emma"},
		{DayKey: "2023-12-31", Seconds: 999, PagesEstimate: 9, Title: "Old"},
	}
	chart := BuildChartDays(sessions, model.Range7d, now, time.UTC)
	yesterday := chart.Days[5]
	if yesterday.Seconds != 1000 {
		t.Fatalf("expected 1000s on 2024-03-09, got %f", yesterday.Seconds)
	}
	if yesterday.Pages != 17 {
		t.Fatalf("expected 17 pages, got %f", yesterday.Pages)
	}
	if len(yesterday.Titles) != 2 || yesterday.Titles[0] != "Dune" || yesterday.Titles[1] != "Emma" {
		t.Fatalf("expected deduped titles in insertion order, got %v", yesterday.Titles)
	}
	if chart.MaxDaySeconds != 1000 {
		t.Fatalf("expected max 1000, got %f", chart.MaxDaySeconds)
	}
}

func TestChartMatchesRangeTotalFor7d(t *testing.T) {
	// A 7-day window fully covers the 7d range, so the chart total must
	// equal the range total exactly.
	now := time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC)
	books := []model.BookRecord{{
		ID:    "b1",
		Title: "Dune",
		ReadingSessions: []model.SessionRecord{
			{EndAt: "2024-03-05T08:00:00Z", Seconds: 100},
			{EndAt: "2024-03-08T21:00:00Z", Seconds: 250},
			{EndAt: "2024-03-10T22:30:00Z", Seconds: 400},
			{EndAt: "2024-02-01T10:00:00Z", Seconds: 9999},
		},
	}}
	all := ExtractSessions(books, time.UTC)
	filtered := FilterByRange(all, model.Range7d, now)
	chart := BuildChartDays(filtered, model.Range7d, now, time.UTC)

	chartTotal := 0.0
	for _, d := range chart.Days {
		chartTotal += d.Seconds
	}
	rangeTotal := TotalSecondsForRange(filtered)
	if chartTotal != rangeTotal {
		t.Fatalf("chart total %f != range total %f", chartTotal, rangeTotal)
	}
	if rangeTotal != 750 {
		t.Fatalf("expected 750s in range, got %f", rangeTotal)
	}
}
