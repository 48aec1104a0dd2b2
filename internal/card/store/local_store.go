// Package store implements the local card store: an in-memory collection
// durably persisted as a JSON snapshot through a blob bucket, with no
// network dependency. Operations complete synchronously against memory and
// write the snapshot through before returning.
package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"gocloud.dev/blob"

	"github.com/allisson/cardbook/internal/card/domain"
	apperrors "github.com/allisson/cardbook/internal/errors"
)

// SnapshotKey is the stable storage key of the local store's snapshot.
const SnapshotKey = "cards-v1.json"

// LocalStore manages an in-process card collection with write-through
// snapshot persistence. It owns the collection exclusively; callers only
// read copies and issue operations.
type LocalStore struct {
	mu     sync.RWMutex
	cards  []domain.Card
	bucket *blob.Bucket
	logger *slog.Logger
}

// NewLocalStore seeds the collection from the persisted snapshot. A corrupt
// snapshot is a recoverable condition: the store starts empty and logs a
// one-time warning instead of failing.
func NewLocalStore(ctx context.Context, bucket *blob.Bucket, logger *slog.Logger) (*LocalStore, error) {
	snap, err := LoadSnapshot(ctx, bucket, SnapshotKey)
	if err != nil {
		if !apperrors.Is(err, domain.ErrSnapshotCorrupt) {
			return nil, err
		}
		logger.Warn("card snapshot corrupt, starting with an empty collection", slog.Any("error", err))
		snap = Snapshot{}
	}

	return &LocalStore{
		cards:  snap.Cards,
		bucket: bucket,
		logger: logger,
	}, nil
}

// Add normalizes the input, assigns a fresh id and timestamps, and prepends
// the new card. Validation happens upstream in the form layer.
func (s *LocalStore) Add(ctx context.Context, input domain.CardInput) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card := domain.NewCard(input, time.Now().UTC())
	cards := append([]domain.Card{card}, s.cards...)

	if err := s.persist(ctx, cards); err != nil {
		return uuid.Nil, err
	}
	s.cards = cards
	return card.ID, nil
}

// Update applies a partial patch to the matching card, re-normalizing the
// patched fields and refreshing UpdatedAt. Returns ErrCardNotFound for
// unknown ids.
func (s *LocalStore) Update(ctx context.Context, id uuid.UUID, patch domain.CardPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.ErrCardNotFound
	}

	cards := make([]domain.Card, len(s.cards))
	copy(cards, s.cards)
	domain.ApplyPatch(&cards[idx], patch, time.Now().UTC())

	if err := s.persist(ctx, cards); err != nil {
		return err
	}
	s.cards = cards
	return nil
}

// Delete removes the matching card. Returns ErrCardNotFound for unknown ids.
func (s *LocalStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.ErrCardNotFound
	}

	cards := make([]domain.Card, 0, len(s.cards)-1)
	cards = append(cards, s.cards[:idx]...)
	cards = append(cards, s.cards[idx+1:]...)

	if err := s.persist(ctx, cards); err != nil {
		return err
	}
	s.cards = cards
	return nil
}

// ImportCards merges an externally supplied list into the collection by id:
// for duplicated ids the record with the later UpdatedAt wins, new ids are
// added, and the result is re-sorted by UpdatedAt descending. Idempotent
// given unchanged inputs.
func (s *LocalStore) ImportCards(ctx context.Context, cards []domain.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := domain.MergeByID(s.cards, cards)
	if err := s.persist(ctx, merged); err != nil {
		return err
	}
	s.cards = merged
	return nil
}

// Clear empties the collection.
func (s *LocalStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, nil); err != nil {
		return err
	}
	s.cards = nil
	return nil
}

// Cards returns a copy of the collection in insertion order (newest first).
func (s *LocalStore) Cards() []domain.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// Get returns the card matching id, or ErrCardNotFound.
func (s *LocalStore) Get(id uuid.UUID) (domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.cards[idx], nil
	}
	return domain.Card{}, domain.ErrCardNotFound
}

// indexOf must be called with the lock held.
func (s *LocalStore) indexOf(id uuid.UUID) int {
	for i, c := range s.cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// persist writes the snapshot through before the in-memory state is
// replaced, so a failed write never leaves memory ahead of disk.
func (s *LocalStore) persist(ctx context.Context, cards []domain.Card) error {
	return SaveSnapshot(ctx, s.bucket, SnapshotKey, Snapshot{Cards: cards})
}
