// Package library decodes reader-app library exports.
//
// Exports come from a loosely-typed source, so every record field tolerates
// the wrong JSON type: numbers may arrive as strings, timestamps as strings
// or epoch milliseconds, and any field may be missing entirely. Degraded
// fields decode to their zero value; only malformed JSON as a whole is an
// error.
package library

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"shelfstats/internal/model"
)

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*f = 0
		return nil
	}
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			*f = 0
		} else {
			*f = flexFloat(v)
		}
	case string:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			*f = flexFloat(n)
		} else {
			*f = 0
		}
	default:
		*f = 0
	}
	return nil
}

type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = ""
		return nil
	}
	switch v := raw.(type) {
	case string:
		*s = flexString(v)
	case float64:
		*s = flexString(strconv.FormatInt(int64(v), 10))
	default:
		*s = ""
	}
	return nil
}

type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*b = false
		return nil
	}
	v, ok := raw.(bool)
	*b = flexBool(ok && v)
	return nil
}

type sessionJSON struct {
	StartAt flexString `json:"startAt"`
	EndAt   flexString `json:"endAt"`
	Seconds flexFloat  `json:"seconds"`
}

type bookJSON struct {
	ID              flexString    `json:"id"`
	Title           flexString    `json:"title"`
	Author          flexString    `json:"author"`
	Progress        flexFloat     `json:"progress"`
	EstimatedPages  flexFloat     `json:"estimatedPages"`
	ReadingTime     flexFloat     `json:"readingTime"`
	LastRead        flexString    `json:"lastRead"`
	IsToRead        flexBool      `json:"isToRead"`
	ReadingSessions []sessionJSON `json:"readingSessions"`
}

type exportJSON struct {
	Books []bookJSON `json:"books"`
}

// Decode reads a library export: either a top-level {"books": [...]} object
// or a bare book array.
func Decode(r io.Reader) ([]model.BookRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	var raw []bookJSON
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode export: %w", err)
		}
	} else {
		var doc exportJSON
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode export: %w", err)
		}
		raw = doc.Books
	}

	books := make([]model.BookRecord, 0, len(raw))
	for i, b := range raw {
		books = append(books, toBookRecord(b, i))
	}
	return books, nil
}

// DecodeFile reads a library export from disk.
func DecodeFile(path string) ([]model.BookRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Decode(f)
}

func toBookRecord(b bookJSON, idx int) model.BookRecord {
	id := string(b.ID)
	if id == "" {
		id = fmt.Sprintf("book-%d", idx+1)
	}
	sessions := make([]model.SessionRecord, 0, len(b.ReadingSessions))
	for _, s := range b.ReadingSessions {
		sessions = append(sessions, model.SessionRecord{
			StartAt: string(s.StartAt),
			EndAt:   string(s.EndAt),
			Seconds: nonNegative(float64(s.Seconds)),
		})
	}
	return model.BookRecord{
		ID:              id,
		Title:           string(b.Title),
		Author:          string(b.Author),
		Progress:        int(math.Round(nonNegative(float64(b.Progress)))),
		EstimatedPages:  int(math.Round(nonNegative(float64(b.EstimatedPages)))),
		ReadingTime:     int64(math.Round(nonNegative(float64(b.ReadingTime)))),
		LastRead:        string(b.LastRead),
		IsToRead:        bool(b.IsToRead),
		ReadingSessions: sessions,
	}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
