package dashui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"shelfstats/internal/engine"
	"shelfstats/internal/model"
)

type memStore struct {
	prefs model.PreferenceSet
	saves int
}

func (s *memStore) Load() model.PreferenceSet {
	return s.prefs.Normalize()
}

func (s *memStore) Save(p model.PreferenceSet) error {
	s.prefs = p.Normalize()
	s.saves++
	return nil
}

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
				{EndAt: "2024-03-09T21:00:00Z", Seconds: 3600},
			},
		},
	}
}

func newTestModel(t *testing.T) (*Model, *memStore) {
	t.Helper()
	store := &memStore{prefs: model.DefaultPreferences()}
	m := NewModel(testBooks(), engine.New(time.UTC), store, time.UTC)
	m.now = func() time.Time {
		return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	m.recompute()
	return m, store
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRangeChangeIsDebounced(t *testing.T) {
	m, _ := newTestModel(t)
	if m.prefs.TimeRange != model.Range30d {
		t.Fatalf("expected default range, got %s", m.prefs.TimeRange)
	}
	updated, cmd := m.Update(keyMsg("r"))
	m = updated.(*Model)
	if cmd == nil {
		t.Fatal("expected a tick command scheduling the recompute")
	}
	if !m.pending {
		t.Fatal("expected pending recompute after range change")
	}
	if m.result.Range != model.Range30d {
		t.Fatalf("expected stale result to stay until the tick, got %s", m.result.Range)
	}
}

func TestStaleTickIsIgnored(t *testing.T) {
	m, _ := newTestModel(t)
	updated, _ := m.Update(keyMsg("r"))
	m = updated.(*Model)
	firstGen := m.gen
	updated, _ = m.Update(keyMsg("r"))
	m = updated.(*Model)

	updated, _ = m.Update(computeTickMsg{gen: firstGen})
	m = updated.(*Model)
	if !m.pending {
		t.Fatal("expected stale tick to be dropped")
	}

	updated, _ = m.Update(computeTickMsg{gen: m.gen})
	m = updated.(*Model)
	if m.pending {
		t.Fatal("expected current tick to complete the recompute")
	}
	if m.result.Range != model.RangeAll {
		t.Fatalf("expected result for the latest range, got %s", m.result.Range)
	}
}

func TestRangeCycle(t *testing.T) {
	order := []model.TimeRange{model.Range30d, model.Range90d, model.RangeAll, model.Range7d, model.Range30d}
	r := model.Range7d
	for _, want := range order {
		r = nextRange(r)
		if r != want {
			t.Fatalf("expected %s, got %s", want, r)
		}
	}
}

func TestViewToggle(t *testing.T) {
	if toggleView(model.ViewBars) != model.ViewLine {
		t.Fatal("expected bars to toggle to line")
	}
	if toggleView(model.ViewLine) != model.ViewBars {
		t.Fatal("expected line to toggle back to bars")
	}
}

func TestTabLayoutRoundTrip(t *testing.T) {
	for _, mode := range []model.LayoutMode{model.LayoutDashboard, model.LayoutBooks, model.LayoutHabits} {
		if got := layoutForTab(tabForLayout(mode)); got != mode {
			t.Fatalf("layout %s did not round trip, got %s", mode, got)
		}
	}
}

func TestPreferencesPersistOnChange(t *testing.T) {
	m, store := newTestModel(t)
	updated, _ := m.Update(keyMsg("v"))
	m = updated.(*Model)
	if store.saves == 0 {
		t.Fatal("expected view toggle to persist preferences")
	}
	if store.prefs.ActivityView != model.ViewLine {
		t.Fatalf("expected saved view to be line, got %s", store.prefs.ActivityView)
	}
	updated, _ = m.Update(keyMsg("l"))
	m = updated.(*Model)
	if store.prefs.LayoutMode != model.LayoutBooks {
		t.Fatalf("expected saved layout books, got %s", store.prefs.LayoutMode)
	}
	if m.activeTab != tabBooks {
		t.Fatalf("expected books tab active, got %d", m.activeTab)
	}
}

func TestPendingBodyShowsPlaceholder(t *testing.T) {
	m, _ := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(*Model)
	updated, _ = m.Update(keyMsg("r"))
	m = updated.(*Model)
	if !strings.Contains(m.View(), "Calculating...") {
		t.Fatal("expected placeholder while a recompute is pending")
	}
}
