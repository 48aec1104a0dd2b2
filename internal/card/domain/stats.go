package domain

import (
	"math"
	"strings"
)

// Stats is the aggregate projection over a card collection's limits.
// Field names follow the remote repository's stats view columns.
type Stats struct {
	TotalCards int64 `json:"total_cards"`
	TotalLimit int64 `json:"total_limit"`
	AvgLimit   int64 `json:"avg_limit"`
	MaxLimit   int64 `json:"max_limit"`
	MinLimit   int64 `json:"min_limit"`
}

// ComputeStats derives aggregate statistics from a collection. Used as the
// local fallback when the remote stats projection is unavailable, so stats
// are never left undefined while any cards exist.
func ComputeStats(cards []Card) Stats {
	stats := Stats{TotalCards: int64(len(cards))}
	if len(cards) == 0 {
		return stats
	}

	stats.MaxLimit = cards[0].Limit
	stats.MinLimit = cards[0].Limit
	for _, c := range cards {
		stats.TotalLimit += c.Limit
		if c.Limit > stats.MaxLimit {
			stats.MaxLimit = c.Limit
		}
		if c.Limit < stats.MinLimit {
			stats.MinLimit = c.Limit
		}
	}
	stats.AvgLimit = int64(math.Round(float64(stats.TotalLimit) / float64(len(cards))))
	return stats
}

// Filters holds the equality/range criteria for filtering a collection.
// Nil fields are ignored.
type Filters struct {
	Network    *Network
	Level      *Level
	MinLimit   *int64
	MaxLimit   *int64
	IsFavorite *bool
}

// MatchFilters evaluates the filter predicate over a single card. The
// database-backed store uses this for its degrade-to-local fallback; the
// remote repository evaluates the same criteria in SQL.
func MatchFilters(c Card, f Filters) bool {
	if f.Network != nil && c.Network != *f.Network {
		return false
	}
	if f.Level != nil && c.Level != *f.Level {
		return false
	}
	if f.MinLimit != nil && c.Limit < *f.MinLimit {
		return false
	}
	if f.MaxLimit != nil && c.Limit > *f.MaxLimit {
		return false
	}
	if f.IsFavorite != nil && c.IsFavorite != *f.IsFavorite {
		return false
	}
	return true
}

// MatchQuery evaluates the substring search predicate over a single card:
// case-insensitive match across card number, nickname, and network.
func MatchQuery(c Card, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.CardNumber), q) ||
		strings.Contains(strings.ToLower(c.Nickname), q) ||
		strings.Contains(strings.ToLower(string(c.Network)), q)
}
