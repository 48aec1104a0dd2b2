// Package usecase implements the database-backed card store: an async
// facade over the remote card repository that mirrors remote state into a
// local cache with durable snapshots, so reads stay available when the
// database is not.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/cardbook/internal/card/domain"
)

// CardRepository defines the interface for remote card persistence.
type CardRepository interface {
	Create(ctx context.Context, userID uuid.UUID, card domain.Card) (*domain.Card, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch domain.CardPatch) (*domain.Card, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Card, error)
	Search(ctx context.Context, userID uuid.UUID, search string) ([]domain.Card, error)
	Filter(ctx context.Context, userID uuid.UUID, filters domain.Filters) ([]domain.Card, error)
	Stats(ctx context.Context, userID uuid.UUID) (*domain.Stats, error)
}

// Status reports the store's last-known condition for a user: whether an
// operation is in flight and the last recorded failure, if any.
type Status struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// ImportReport counts the outcome of a bulk import. Individual failures do
// not abort the run.
type ImportReport struct {
	Created int `json:"created"`
	Failed  int `json:"failed"`
}

// ClearReport counts the outcome of emptying the collection. Individual
// failures do not abort the run; the cache is emptied regardless.
type ClearReport struct {
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

// CardUseCase defines the interface for the database-backed card store.
//
// Mutations (AddCard, UpdateCard, DeleteCard, ToggleFavorite) fail loud:
// the error is recorded and returned, and the cache is only updated on
// success. Reads (FetchCards, SearchCards, FilterCards, FetchStats) degrade:
// on repository failure the error is recorded and the cached data answers.
type CardUseCase interface {
	FetchCards(ctx context.Context, userID uuid.UUID) []domain.Card
	AddCard(ctx context.Context, userID uuid.UUID, input domain.CardInput) (*domain.Card, error)
	UpdateCard(ctx context.Context, userID, id uuid.UUID, patch domain.CardPatch) (*domain.Card, error)
	DeleteCard(ctx context.Context, userID, id uuid.UUID) error
	ToggleFavorite(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error)
	SearchCards(ctx context.Context, userID uuid.UUID, query string) []domain.Card
	FilterCards(ctx context.Context, userID uuid.UUID, filters domain.Filters) []domain.Card
	FetchStats(ctx context.Context, userID uuid.UUID) *domain.Stats
	ImportCards(ctx context.Context, userID uuid.UUID, cards []domain.Card) ImportReport
	ExportCards(userID uuid.UUID) []domain.Card
	Clear(ctx context.Context, userID uuid.UUID) ClearReport
	SyncWithDatabase(ctx context.Context, userID uuid.UUID) error
	Status(userID uuid.UUID) Status
}
