package engine

import (
	"sort"

	"shelfstats/internal/model"
)

const (
	topBookCount    = 6
	topSessionCount = 5
)

// BookRank is one entry in the top-books ranking.
type BookRank struct {
	BookID         string
	Title          string
	Author         string
	TrackedSeconds float64
}

// TopBooks ranks books by time tracked within the filtered range, dropping
// books with no tracked time. Ties keep the original book-list order.
func TopBooks(books []model.BookRecord, filtered []NormalizedSession) []BookRank {
	tracked := make(map[string]float64, len(books))
	for _, s := range filtered {
		tracked[s.BookID] += s.Seconds
	}
	ranks := make([]BookRank, 0, len(books))
	for _, b := range books {
		seconds := tracked[b.ID]
		if seconds <= 0 {
			continue
		}
		ranks = append(ranks, BookRank{
			BookID:         b.ID,
			Title:          b.Title,
			Author:         b.Author,
			TrackedSeconds: seconds,
		})
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].TrackedSeconds > ranks[j].TrackedSeconds
	})
	if len(ranks) > topBookCount {
		ranks = ranks[:topBookCount]
	}
	return ranks
}

// TopSessions returns the longest sessions in the filtered range. Ties keep
// extraction order.
func TopSessions(filtered []NormalizedSession) []NormalizedSession {
	out := append(make([]NormalizedSession, 0, len(filtered)), filtered...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Seconds > out[j].Seconds
	})
	if len(out) > topSessionCount {
		out = out[:topSessionCount]
	}
	return out
}
