package engine

import (
	"math"

	"shelfstats/internal/model"
)

// Status is a book's lifecycle label.
type Status string

// Lifecycle labels, in classification priority order.
const (
	StatusFinished   Status = "Finished"
	StatusInProgress Status = "In progress"
	StatusToRead     Status = "To read"
	StatusNotStarted Status = "Not started"
)

var statusOrder = []Status{StatusFinished, StatusInProgress, StatusToRead, StatusNotStarted}

// StatusCount is one label's share of the library.
type StatusCount struct {
	Status  Status
	Count   int
	Percent int
}

// Classify assigns a lifecycle status. The chain is evaluated strictly in
// priority order: completion beats progress beats the to-read flag.
func Classify(book model.BookRecord) Status {
	switch {
	case book.ClampedProgress() >= 100:
		return StatusFinished
	case book.ClampedProgress() > 0:
		return StatusInProgress
	case book.IsToRead:
		return StatusToRead
	default:
		return StatusNotStarted
	}
}

// StatusBreakdown counts books per label. Every label appears even at zero.
// Percentages are rounded independently and need not sum to 100.
func StatusBreakdown(books []model.BookRecord) []StatusCount {
	counts := make(map[Status]int, len(statusOrder))
	for _, b := range books {
		counts[Classify(b)]++
	}
	denom := len(books)
	if denom == 0 {
		denom = 1
	}
	out := make([]StatusCount, 0, len(statusOrder))
	for _, status := range statusOrder {
		n := counts[status]
		out = append(out, StatusCount{
			Status:  status,
			Count:   n,
			Percent: int(math.Round(float64(n) / float64(denom) * 100)),
		})
	}
	return out
}
