package dto

import (
	"time"

	"github.com/allisson/cardbook/internal/card/domain"
	"github.com/allisson/cardbook/internal/card/usecase"
)

// CardResponse represents a card in API responses. Derived display fields
// (masked number, gradient classes, formatted limit) are computed here so
// every client renders them the same way.
type CardResponse struct {
	ID                 string    `json:"id"`
	CardNumber         string    `json:"cardNumber"`
	MaskedNumber       string    `json:"maskedNumber"`
	Nickname           string    `json:"nickname,omitempty"`
	Network            string    `json:"network"`
	Level              string    `json:"level"`
	Limit              int64     `json:"limit"`
	LimitDisplay       string    `json:"limitDisplay"`
	Color              string    `json:"color"`
	Gradient           string    `json:"gradient"`
	AnnualFeeWaived    bool      `json:"annualFeeWaived"`
	AnnualFeeCondition string    `json:"annualFeeCondition,omitempty"`
	ExpiryDate         string    `json:"expiryDate,omitempty"`
	CardholderName     string    `json:"cardholderName,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	IsFavorite         bool      `json:"isFavorite"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// MapCardToResponse converts a domain card to an API response.
func MapCardToResponse(card *domain.Card) CardResponse {
	gradient, ok := domain.Gradients[card.Color]
	if !ok {
		gradient = domain.Gradients[domain.DefaultGradient(card.Network)]
	}

	return CardResponse{
		ID:                 card.ID.String(),
		CardNumber:         card.CardNumber,
		MaskedNumber:       domain.MaskNumberForNetwork(card.CardNumber, card.Network),
		Nickname:           card.Nickname,
		Network:            string(card.Network),
		Level:              string(card.Level),
		Limit:              card.Limit,
		LimitDisplay:       domain.FormatCurrency(card.Limit),
		Color:              card.Color,
		Gradient:           gradient,
		AnnualFeeWaived:    card.AnnualFeeWaived,
		AnnualFeeCondition: card.AnnualFeeCondition,
		ExpiryDate:         card.ExpiryDate,
		CardholderName:     card.CardholderName,
		Notes:              card.Notes,
		IsFavorite:         card.IsFavorite,
		CreatedAt:          card.CreatedAt,
		UpdatedAt:          card.UpdatedAt,
	}
}

// ListCardsResponse carries the collection plus the store's condition, so
// clients can tell fresh data from a degraded cached answer.
type ListCardsResponse struct {
	Cards  []CardResponse `json:"cards"`
	Status usecase.Status `json:"status"`
}

// MapCardsToListResponse converts a card slice and store status to an API response.
func MapCardsToListResponse(cards []domain.Card, status usecase.Status) ListCardsResponse {
	out := ListCardsResponse{Cards: make([]CardResponse, 0, len(cards)), Status: status}
	for i := range cards {
		out.Cards = append(out.Cards, MapCardToResponse(&cards[i]))
	}
	return out
}

// StatsResponse represents aggregate statistics in API responses.
type StatsResponse struct {
	TotalCards        int64  `json:"total_cards"`
	TotalLimit        int64  `json:"total_limit"`
	AvgLimit          int64  `json:"avg_limit"`
	MaxLimit          int64  `json:"max_limit"`
	MinLimit          int64  `json:"min_limit"`
	TotalLimitDisplay string `json:"total_limit_display"`
}

// MapStatsToResponse converts domain stats to an API response.
func MapStatsToResponse(stats *domain.Stats) StatsResponse {
	return StatsResponse{
		TotalCards:        stats.TotalCards,
		TotalLimit:        stats.TotalLimit,
		AvgLimit:          stats.AvgLimit,
		MaxLimit:          stats.MaxLimit,
		MinLimit:          stats.MinLimit,
		TotalLimitDisplay: domain.FormatCurrency(stats.TotalLimit),
	}
}
