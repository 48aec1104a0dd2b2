package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeStats(t *testing.T) {
	now := time.Now().UTC()

	t.Run("empty collection", func(t *testing.T) {
		assert.Equal(t, Stats{}, ComputeStats(nil))
	})

	t.Run("aggregates with rounded average", func(t *testing.T) {
		cards := []Card{
			testCard(t, now, 100),
			testCard(t, now, 200),
			testCard(t, now, 33),
		}
		stats := ComputeStats(cards)
		assert.Equal(t, int64(3), stats.TotalCards)
		assert.Equal(t, int64(333), stats.TotalLimit)
		assert.Equal(t, int64(111), stats.AvgLimit)
		assert.Equal(t, int64(200), stats.MaxLimit)
		assert.Equal(t, int64(33), stats.MinLimit)
	})

	t.Run("single card", func(t *testing.T) {
		stats := ComputeStats([]Card{testCard(t, now, 500)})
		assert.Equal(t, int64(1), stats.TotalCards)
		assert.Equal(t, int64(500), stats.MaxLimit)
		assert.Equal(t, int64(500), stats.MinLimit)
		assert.Equal(t, int64(500), stats.AvgLimit)
	})
}

func TestMatchFilters(t *testing.T) {
	now := time.Now().UTC()
	card := testCard(t, now, 5000)
	card.Level = LevelGold
	card.IsFavorite = true

	network := NetworkVisa
	otherNetwork := NetworkJCB
	level := LevelGold
	minLimit := int64(1000)
	maxLimit := int64(10_000)
	tooHighMin := int64(6000)
	favorite := true
	notFavorite := false

	assert.True(t, MatchFilters(card, Filters{}))
	assert.True(t, MatchFilters(card, Filters{Network: &network, Level: &level}))
	assert.True(t, MatchFilters(card, Filters{MinLimit: &minLimit, MaxLimit: &maxLimit, IsFavorite: &favorite}))
	assert.False(t, MatchFilters(card, Filters{Network: &otherNetwork}))
	assert.False(t, MatchFilters(card, Filters{MinLimit: &tooHighMin}))
	assert.False(t, MatchFilters(card, Filters{IsFavorite: &notFavorite}))
}

func TestMatchQuery(t *testing.T) {
	now := time.Now().UTC()
	card := testCard(t, now, 5000)
	card.Nickname = "Daily Driver"

	assert.True(t, MatchQuery(card, "visa"))
	assert.True(t, MatchQuery(card, "4111"))
	assert.True(t, MatchQuery(card, "daily"))
	assert.False(t, MatchQuery(card, "mastercard"))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "¥50,000", FormatCurrency(50_000))
	assert.Equal(t, "¥0", FormatCurrency(0))
	assert.Equal(t, "¥500,000", FormatCurrency(500_000))
}
