package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/cardbook/internal/card/domain"
	apperrors "github.com/allisson/cardbook/internal/errors"
	"github.com/allisson/cardbook/internal/metrics"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

// mockCardUseCase is a minimal CardUseCase fake for decorator tests.
type mockCardUseCase struct {
	mock.Mock
}

func (m *mockCardUseCase) FetchCards(ctx context.Context, userID uuid.UUID) []domain.Card {
	args := m.Called(ctx, userID)
	cards, _ := args.Get(0).([]domain.Card)
	return cards
}

func (m *mockCardUseCase) AddCard(
	ctx context.Context,
	userID uuid.UUID,
	input domain.CardInput,
) (*domain.Card, error) {
	args := m.Called(ctx, userID, input)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

func (m *mockCardUseCase) UpdateCard(
	ctx context.Context,
	userID, id uuid.UUID,
	patch domain.CardPatch,
) (*domain.Card, error) {
	args := m.Called(ctx, userID, id, patch)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

func (m *mockCardUseCase) DeleteCard(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockCardUseCase) ToggleFavorite(
	ctx context.Context,
	userID, id uuid.UUID,
) (*domain.Card, error) {
	args := m.Called(ctx, userID, id)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

func (m *mockCardUseCase) SearchCards(ctx context.Context, userID uuid.UUID, query string) []domain.Card {
	args := m.Called(ctx, userID, query)
	cards, _ := args.Get(0).([]domain.Card)
	return cards
}

func (m *mockCardUseCase) FilterCards(
	ctx context.Context,
	userID uuid.UUID,
	filters domain.Filters,
) []domain.Card {
	args := m.Called(ctx, userID, filters)
	cards, _ := args.Get(0).([]domain.Card)
	return cards
}

func (m *mockCardUseCase) FetchStats(ctx context.Context, userID uuid.UUID) *domain.Stats {
	args := m.Called(ctx, userID)
	stats, _ := args.Get(0).(*domain.Stats)
	return stats
}

func (m *mockCardUseCase) ImportCards(
	ctx context.Context,
	userID uuid.UUID,
	cards []domain.Card,
) ImportReport {
	args := m.Called(ctx, userID, cards)
	return args.Get(0).(ImportReport)
}

func (m *mockCardUseCase) ExportCards(userID uuid.UUID) []domain.Card {
	args := m.Called(userID)
	cards, _ := args.Get(0).([]domain.Card)
	return cards
}

func (m *mockCardUseCase) Clear(ctx context.Context, userID uuid.UUID) ClearReport {
	args := m.Called(ctx, userID)
	return args.Get(0).(ClearReport)
}

func (m *mockCardUseCase) SyncWithDatabase(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockCardUseCase) Status(userID uuid.UUID) Status {
	args := m.Called(userID)
	return args.Get(0).(Status)
}

var _ CardUseCase = (*mockCardUseCase)(nil)

func TestNewCardUseCaseWithMetrics(t *testing.T) {
	t.Parallel()

	decorator := NewCardUseCaseWithMetrics(&mockCardUseCase{}, &mockBusinessMetrics{})

	assert.NotNil(t, decorator)
	assert.Implements(t, (*CardUseCase)(nil), decorator)
}

func TestMetricsDecorator_AddCard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())

	t.Run("Success_RecordsSuccessMetrics", func(t *testing.T) {
		t.Parallel()
		next := &mockCardUseCase{}
		m := &mockBusinessMetrics{}

		input := domain.CardInput{CardNumber: "4111111111111111", Network: domain.NetworkVisa}
		card := &domain.Card{ID: uuid.Must(uuid.NewV7())}

		next.On("AddCard", ctx, userID, input).Return(card, nil)
		m.On("RecordOperation", ctx, "cards", "card_add", "success").Return()
		m.On("RecordDuration", ctx, "cards", "card_add", mock.AnythingOfType("time.Duration"), "success").Return()

		got, err := NewCardUseCaseWithMetrics(next, m).AddCard(ctx, userID, input)
		require.NoError(t, err)
		assert.Equal(t, card, got)
		m.AssertExpectations(t)
	})

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		t.Parallel()
		next := &mockCardUseCase{}
		m := &mockBusinessMetrics{}

		input := domain.CardInput{}
		next.On("AddCard", ctx, userID, input).Return(nil, apperrors.ErrInvalidInput)
		m.On("RecordOperation", ctx, "cards", "card_add", "error").Return()
		m.On("RecordDuration", ctx, "cards", "card_add", mock.AnythingOfType("time.Duration"), "error").Return()

		_, err := NewCardUseCaseWithMetrics(next, m).AddCard(ctx, userID, input)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		m.AssertExpectations(t)
	})
}

func TestMetricsDecorator_FetchCards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())

	next := &mockCardUseCase{}
	m := &mockBusinessMetrics{}

	next.On("FetchCards", ctx, userID).Return([]domain.Card{})
	m.On("RecordOperation", ctx, "cards", "card_fetch", "success").Return()
	m.On("RecordDuration", ctx, "cards", "card_fetch", mock.AnythingOfType("time.Duration"), "success").Return()

	NewCardUseCaseWithMetrics(next, m).FetchCards(ctx, userID)
	m.AssertExpectations(t)
}

func TestMetricsDecorator_PassThroughs(t *testing.T) {
	t.Parallel()
	userID := uuid.Must(uuid.NewV7())

	next := &mockCardUseCase{}
	m := &mockBusinessMetrics{}
	decorator := NewCardUseCaseWithMetrics(next, m)

	// Export and Status read in-memory state only; no metrics emitted.
	next.On("ExportCards", userID).Return([]domain.Card{})
	next.On("Status", userID).Return(Status{})

	decorator.ExportCards(userID)
	decorator.Status(userID)
	m.AssertNotCalled(t, "RecordOperation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
