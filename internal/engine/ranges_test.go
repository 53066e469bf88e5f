package engine

import (
	"testing"
	"time"

	"shelfstats/internal/model"
)

func TestFilterByRangeInclusiveCutoff(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	cutoff := now.UnixMilli() - 7*dayMillis
	sessions := []NormalizedSession{
		{ID: "at-cutoff", EndMs: cutoff},
		{ID: "inside", EndMs: cutoff + 1},
		{ID: "outside", EndMs: cutoff - 1},
	}
	got := FilterByRange(sessions, model.Range7d, now)
	if len(got) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(got))
	}
	if got[0].ID != "at-cutoff" || got[1].ID != "inside" {
		t.Fatalf("unexpected sessions: %+v", got)
	}
}

func TestFilterByRangeAllKeepsEverything(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	sessions := []NormalizedSession{
		{ID: "ancient", EndMs: 0},
		{ID: "recent", EndMs: now.UnixMilli()},
	}
	if got := FilterByRange(sessions, model.RangeAll, now); len(got) != 2 {
		t.Fatalf("expected all sessions kept, got %d", len(got))
	}
}

func TestFilterByRangeReturnsNonNil(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	got := FilterByRange(nil, model.Range30d, now)
	if got == nil {
		t.Fatal("expected non-nil slice")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty slice, got %d", len(got))
	}
}
