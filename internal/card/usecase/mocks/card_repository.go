// Package mocks provides mock implementations for testing card use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/cardbook/internal/card/domain"
)

// MockCardRepository is a mock implementation of CardRepository for testing.
type MockCardRepository struct {
	mock.Mock
}

// Create mocks the Create method of CardRepository.
func (m *MockCardRepository) Create(
	ctx context.Context,
	userID uuid.UUID,
	card domain.Card,
) (*domain.Card, error) {
	args := m.Called(ctx, userID, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

// GetByID mocks the GetByID method of CardRepository.
func (m *MockCardRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

// Update mocks the Update method of CardRepository.
func (m *MockCardRepository) Update(
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

// Delete mocks the Delete method of CardRepository.
func (m *MockCardRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// ListByUser mocks the ListByUser method of CardRepository.
func (m *MockCardRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Card, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}

// Search mocks the Search method of CardRepository.
func (m *MockCardRepository) Search(
	ctx context.Context,
	userID uuid.UUID,
	search string,
) ([]domain.Card, error) {
	args := m.Called(ctx, userID, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}

// Filter mocks the Filter method of CardRepository.
func (m *MockCardRepository) Filter(
	ctx context.Context,
	userID uuid.UUID,
	filters domain.Filters,
) ([]domain.Card, error) {
	args := m.Called(ctx, userID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}

// Stats mocks the Stats method of CardRepository.
func (m *MockCardRepository) Stats(ctx context.Context, userID uuid.UUID) (*domain.Stats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}
