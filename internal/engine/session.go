// Package engine computes reading statistics from book records.
//
// Everything in this package is a pure transform: it never mutates its
// inputs, never touches persistence, and never returns an error. Degraded
// input (missing timestamps, non-numeric fields) is substituted or dropped
// at the extraction boundary; downstream components do not re-validate.
package engine

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"shelfstats/internal/model"
)

// NormalizedSession is one session row flattened out of a book record.
type NormalizedSession struct {
	ID            string
	BookID        string
	Title         string
	Seconds       float64
	PagesEstimate float64
	EndMs         int64
	DayKey        string
}

const dayKeyLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a stored timestamp. Accepts RFC3339 variants,
// zone-less date-times (interpreted in loc), plain dates, and raw
// epoch-millisecond integers.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms), true
	}
	return time.Time{}, false
}

func parseTimestampMs(raw string, loc *time.Location) (int64, bool) {
	t, ok := ParseTimestamp(raw, loc)
	if !ok {
		return 0, false
	}
	return t.UnixMilli(), true
}

// dayKey returns the local calendar date for an epoch-millisecond instant.
// Bucketing uses the local wall-clock day, not a UTC slice, so a session
// just before midnight lands on the correct day in non-UTC zones.
func dayKey(endMs int64, loc *time.Location) string {
	return time.UnixMilli(endMs).In(loc).Format(dayKeyLayout)
}

// ExtractSessions flattens every book's session list into normalized rows.
// A session whose end timestamp cannot be resolved (neither endAt nor
// startAt parses) is dropped; it appears in no bucket, ranking, or streak.
func ExtractSessions(books []model.BookRecord, loc *time.Location) []NormalizedSession {
	out := make([]NormalizedSession, 0)
	for _, book := range books {
		readPages := readPagesEstimate(book)
		pagesPerSecond := 0.0
		if book.ReadingTime > 0 && readPages > 0 {
			pagesPerSecond = readPages / float64(book.ReadingTime)
		}
		for i, rec := range book.ReadingSessions {
			endMs, ok := parseTimestampMs(rec.EndAt, loc)
			if !ok {
				endMs, ok = parseTimestampMs(rec.StartAt, loc)
			}
			if !ok {
				continue
			}
			seconds := rec.Seconds
			if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
				seconds = 0
			}
			out = append(out, NormalizedSession{
				ID:            fmt.Sprintf("%s-%d-%d", book.ID, i, endMs),
				BookID:        book.ID,
				Title:         book.Title,
				Seconds:       seconds,
				PagesEstimate: seconds * pagesPerSecond,
				EndMs:         endMs,
				DayKey:        dayKey(endMs, loc),
			})
		}
	}
	return out
}

// readPagesEstimate apportions a book's known completion into pages read:
// estimatedPages scaled by clamped progress. This is the per-book total that
// session page estimates are distributed against; the distribution cannot
// exceed it as long as session seconds sum to at most the book's reading
// time, which the source data guarantees.
func readPagesEstimate(book model.BookRecord) float64 {
	if book.EstimatedPages <= 0 {
		return 0
	}
	return math.Round(float64(book.EstimatedPages) * float64(book.ClampedProgress()) / 100)
}
