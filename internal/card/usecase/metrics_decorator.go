package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/cardbook/internal/card/domain"
	"github.com/allisson/cardbook/internal/metrics"
)

const metricsDomain = "cards"

// cardUseCaseWithMetrics decorates CardUseCase with metrics instrumentation.
type cardUseCaseWithMetrics struct {
	next    CardUseCase
	metrics metrics.BusinessMetrics
}

// NewCardUseCaseWithMetrics wraps a CardUseCase with metrics recording.
func NewCardUseCaseWithMetrics(useCase CardUseCase, m metrics.BusinessMetrics) CardUseCase {
	return &cardUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits the counter and duration for one operation.
func (c *cardUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	c.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

func (c *cardUseCaseWithMetrics) FetchCards(ctx context.Context, userID uuid.UUID) []domain.Card {
	start := time.Now()
	cards := c.next.FetchCards(ctx, userID)
	c.record(ctx, "card_fetch", start, nil)
	return cards
}

func (c *cardUseCaseWithMetrics) AddCard(
	ctx context.Context,
	userID uuid.UUID,
	input domain.CardInput,
) (*domain.Card, error) {
	start := time.Now()
	card, err := c.next.AddCard(ctx, userID, input)
	c.record(ctx, "card_add", start, err)
	return card, err
}

func (c *cardUseCaseWithMetrics) UpdateCard(
	ctx context.Context,
	userID, id uuid.UUID,
	patch domain.CardPatch,
) (*domain.Card, error) {
	start := time.Now()
	card, err := c.next.UpdateCard(ctx, userID, id, patch)
	c.record(ctx, "card_update", start, err)
	return card, err
}

func (c *cardUseCaseWithMetrics) DeleteCard(ctx context.Context, userID, id uuid.UUID) error {
	start := time.Now()
	err := c.next.DeleteCard(ctx, userID, id)
	c.record(ctx, "card_delete", start, err)
	return err
}

func (c *cardUseCaseWithMetrics) ToggleFavorite(
	ctx context.Context,
	userID, id uuid.UUID,
) (*domain.Card, error) {
	start := time.Now()
	card, err := c.next.ToggleFavorite(ctx, userID, id)
	c.record(ctx, "card_toggle_favorite", start, err)
	return card, err
}

func (c *cardUseCaseWithMetrics) SearchCards(
	ctx context.Context,
	userID uuid.UUID,
	query string,
) []domain.Card {
	start := time.Now()
	cards := c.next.SearchCards(ctx, userID, query)
	c.record(ctx, "card_search", start, nil)
	return cards
}

func (c *cardUseCaseWithMetrics) FilterCards(
	ctx context.Context,
	userID uuid.UUID,
	filters domain.Filters,
) []domain.Card {
	start := time.Now()
	cards := c.next.FilterCards(ctx, userID, filters)
	c.record(ctx, "card_filter", start, nil)
	return cards
}

func (c *cardUseCaseWithMetrics) FetchStats(ctx context.Context, userID uuid.UUID) *domain.Stats {
	start := time.Now()
	stats := c.next.FetchStats(ctx, userID)
	c.record(ctx, "card_stats", start, nil)
	return stats
}

func (c *cardUseCaseWithMetrics) ImportCards(
	ctx context.Context,
	userID uuid.UUID,
	cards []domain.Card,
) ImportReport {
	start := time.Now()
	report := c.next.ImportCards(ctx, userID, cards)
	c.record(ctx, "card_import", start, nil)
	return report
}

func (c *cardUseCaseWithMetrics) ExportCards(userID uuid.UUID) []domain.Card {
	return c.next.ExportCards(userID)
}

func (c *cardUseCaseWithMetrics) Clear(ctx context.Context, userID uuid.UUID) ClearReport {
	start := time.Now()
	report := c.next.Clear(ctx, userID)
	c.record(ctx, "card_clear", start, nil)
	return report
}

func (c *cardUseCaseWithMetrics) SyncWithDatabase(ctx context.Context, userID uuid.UUID) error {
	start := time.Now()
	err := c.next.SyncWithDatabase(ctx, userID)
	c.record(ctx, "card_sync", start, err)
	return err
}

func (c *cardUseCaseWithMetrics) Status(userID uuid.UUID) Status {
	return c.next.Status(userID)
}
