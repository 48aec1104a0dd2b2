// Package mocks provides mock implementations for testing card handlers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/cardbook/internal/card/domain"
	"github.com/allisson/cardbook/internal/card/usecase"
)

// MockCardUseCase is a mock implementation of CardUseCase for testing.
type MockCardUseCase struct {
	mock.Mock
}

// FetchCards mocks the FetchCards method of CardUseCase.
func (m *MockCardUseCase) FetchCards(ctx context.Context, userID uuid.UUID) []domain.Card {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Card)
}

// AddCard mocks the AddCard method of CardUseCase.
func (m *MockCardUseCase) AddCard(
	ctx context.Context,
	userID uuid.UUID,
	input domain.CardInput,
) (*domain.Card, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

// UpdateCard mocks the UpdateCard method of CardUseCase.
func (m *MockCardUseCase) UpdateCard(
	ctx context.Context,
	userID, id uuid.UUID,
	patch domain.CardPatch,
) (*domain.Card, error) {
	args := m.Called(ctx, userID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

// DeleteCard mocks the DeleteCard method of CardUseCase.
func (m *MockCardUseCase) DeleteCard(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// ToggleFavorite mocks the ToggleFavorite method of CardUseCase.
func (m *MockCardUseCase) ToggleFavorite(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

// SearchCards mocks the SearchCards method of CardUseCase.
func (m *MockCardUseCase) SearchCards(ctx context.Context, userID uuid.UUID, query string) []domain.Card {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Card)
}

// FilterCards mocks the FilterCards method of CardUseCase.
func (m *MockCardUseCase) FilterCards(
	ctx context.Context,
	userID uuid.UUID,
	filters domain.Filters,
) []domain.Card {
	args := m.Called(ctx, userID, filters)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Card)
}

// FetchStats mocks the FetchStats method of CardUseCase.
func (m *MockCardUseCase) FetchStats(ctx context.Context, userID uuid.UUID) *domain.Stats {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Stats)
}

// ImportCards mocks the ImportCards method of CardUseCase.
func (m *MockCardUseCase) ImportCards(
	ctx context.Context,
	userID uuid.UUID,
	cards []domain.Card,
) usecase.ImportReport {
	args := m.Called(ctx, userID, cards)
	return args.Get(0).(usecase.ImportReport)
}

// ExportCards mocks the ExportCards method of CardUseCase.
func (m *MockCardUseCase) ExportCards(userID uuid.UUID) []domain.Card {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Card)
}

// Clear mocks the Clear method of CardUseCase.
func (m *MockCardUseCase) Clear(ctx context.Context, userID uuid.UUID) usecase.ClearReport {
	args := m.Called(ctx, userID)
	return args.Get(0).(usecase.ClearReport)
}

// SyncWithDatabase mocks the SyncWithDatabase method of CardUseCase.
func (m *MockCardUseCase) SyncWithDatabase(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// Status mocks the Status method of CardUseCase.
func (m *MockCardUseCase) Status(userID uuid.UUID) usecase.Status {
	args := m.Called(userID)
	return args.Get(0).(usecase.Status)
}
