// Package prefs persists the display preferences as a TOML file.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"shelfstats/internal/model"
)

// Store loads and saves the validated preference set. Load never fails:
// a missing, unreadable, or corrupt file degrades to the defaults, and each
// stored field is validated independently so one bad value cannot poison
// the others.
type Store interface {
	Load() model.PreferenceSet
	Save(model.PreferenceSet) error
}

type fileDoc struct {
	Display displaySection `toml:"display"`
}

type displaySection struct {
	TimeRange    *string `toml:"time-range"`
	Layout       *string `toml:"layout"`
	ActivityView *string `toml:"activity-view"`
}

// FileStore is the TOML-backed preference store.
type FileStore struct {
	path string
}

// NewFileStore returns a store persisting to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the preference file and validates each field against its
// enumerated set, substituting the documented default per field.
func (s *FileStore) Load() model.PreferenceSet {
	out := model.DefaultPreferences()
	var doc fileDoc
	if _, err := toml.DecodeFile(s.path, &doc); err != nil {
		return out
	}
	if doc.Display.TimeRange != nil {
		if r := model.TimeRange(*doc.Display.TimeRange); r.Valid() {
			out.TimeRange = r
		}
	}
	if doc.Display.Layout != nil {
		if m := model.LayoutMode(*doc.Display.Layout); m.Valid() {
			out.LayoutMode = m
		}
	}
	if doc.Display.ActivityView != nil {
		if v := model.ActivityView(*doc.Display.ActivityView); v.Valid() {
			out.ActivityView = v
		}
	}
	return out
}

// Save writes the preference file atomically (temp file then rename).
func (s *FileStore) Save(p model.PreferenceSet) error {
	p = p.Normalize()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create prefs dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(s.path), "prefs-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp prefs file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	timeRange := string(p.TimeRange)
	layout := string(p.LayoutMode)
	view := string(p.ActivityView)
	doc := fileDoc{Display: displaySection{
		TimeRange:    &timeRange,
		Layout:       &layout,
		ActivityView: &view,
	}}
	if err := toml.NewEncoder(tmpFile).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode prefs: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close prefs file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	return nil
}
