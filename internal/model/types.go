// Package model defines shared data structures.
package model

// TimeRange selects the trailing window used for scalar metrics and rankings.
type TimeRange string

// Supported time ranges.
const (
	Range7d  TimeRange = "7d"
	Range30d TimeRange = "30d"
	Range90d TimeRange = "90d"
	RangeAll TimeRange = "all"
)

// Days returns the window length in days, or 0 for the unbounded range.
func (r TimeRange) Days() int {
	switch r {
	case Range7d:
		return 7
	case Range30d:
		return 30
	case Range90d:
		return 90
	default:
		return 0
	}
}

// Valid reports whether r is one of the enumerated ranges.
func (r TimeRange) Valid() bool {
	switch r {
	case Range7d, Range30d, Range90d, RangeAll:
		return true
	}
	return false
}

// LayoutMode selects which dashboard layout is shown.
type LayoutMode string

// Supported layout modes.
const (
	LayoutDashboard LayoutMode = "dashboard"
	LayoutBooks     LayoutMode = "books"
	LayoutHabits    LayoutMode = "habits"
)

// Valid reports whether m is one of the enumerated layouts.
func (m LayoutMode) Valid() bool {
	switch m {
	case LayoutDashboard, LayoutBooks, LayoutHabits:
		return true
	}
	return false
}

// ActivityView selects how the daily activity chart is drawn.
type ActivityView string

// Supported activity views.
const (
	ViewBars ActivityView = "bars"
	ViewLine ActivityView = "line"
)

// Valid reports whether v is one of the enumerated views.
func (v ActivityView) Valid() bool {
	return v == ViewBars || v == ViewLine
}

// Default preference values, applied field by field when a stored value is
// missing or outside its enumerated set.
const (
	DefaultTimeRange    = Range30d
	DefaultLayoutMode   = LayoutDashboard
	DefaultActivityView = ViewBars
)

// PreferenceSet holds the three persisted display preferences.
type PreferenceSet struct {
	TimeRange    TimeRange
	LayoutMode   LayoutMode
	ActivityView ActivityView
}

// DefaultPreferences returns the documented defaults.
func DefaultPreferences() PreferenceSet {
	return PreferenceSet{
		TimeRange:    DefaultTimeRange,
		LayoutMode:   DefaultLayoutMode,
		ActivityView: DefaultActivityView,
	}
}

// Normalize replaces each invalid field independently with its default, so a
// partially corrupt stored value never invalidates the remaining fields.
func (p PreferenceSet) Normalize() PreferenceSet {
	if !p.TimeRange.Valid() {
		p.TimeRange = DefaultTimeRange
	}
	if !p.LayoutMode.Valid() {
		p.LayoutMode = DefaultLayoutMode
	}
	if !p.ActivityView.Valid() {
		p.ActivityView = DefaultActivityView
	}
	return p
}

// SessionRecord is one recorded interval of reading against a single book.
// Either timestamp may be empty; Seconds is already coerced to a number at
// the import boundary (0 when missing or non-numeric).
type SessionRecord struct {
	StartAt string
	EndAt   string
	Seconds float64
}

// BookRecord is one book as supplied by the library collaborator. The
// analytics engine treats it as read-only input. ReadingSessions keeps the
// order the sessions occurred in; it is not guaranteed sorted by time.
type BookRecord struct {
	ID              string
	Title           string
	Author          string
	Progress        int
	EstimatedPages  int
	ReadingTime     int64
	LastRead        string
	IsToRead        bool
	ReadingSessions []SessionRecord
}

// ClampedProgress returns Progress limited to 0-100.
func (b BookRecord) ClampedProgress() int {
	if b.Progress < 0 {
		return 0
	}
	if b.Progress > 100 {
		return 100
	}
	return b.Progress
}

// Finished reports whether the book counts as completed.
func (b BookRecord) Finished() bool {
	return b.ClampedProgress() >= 100
}
