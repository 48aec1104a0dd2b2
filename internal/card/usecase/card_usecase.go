package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"gocloud.dev/blob"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/cardbook/internal/card/domain"
	"github.com/allisson/cardbook/internal/card/store"
	apperrors "github.com/allisson/cardbook/internal/errors"
)

// snapshotPrefix versions the durable mirror of remote state. Bumping it
// abandons old snapshots instead of migrating them.
const snapshotPrefix = "cards-db-v1"

// userCache is the in-memory mirror of one user's remote collection.
type userCache struct {
	cards  []domain.Card
	stats  *domain.Stats
	status Status
	loaded bool
}

// cardUseCase implements CardUseCase over a remote repository with a
// per-user cache mirror and snapshot persistence.
type cardUseCase struct {
	repo   CardRepository
	bucket *blob.Bucket
	logger *slog.Logger

	mu    sync.Mutex
	users map[uuid.UUID]*userCache
}

// NewCardUseCase creates a new database-backed card store. The bucket holds
// per-user snapshots so cached reads survive restarts.
func NewCardUseCase(repo CardRepository, bucket *blob.Bucket, logger *slog.Logger) CardUseCase {
	return &cardUseCase{
		repo:   repo,
		bucket: bucket,
		logger: logger,
		users:  map[uuid.UUID]*userCache{},
	}
}

// FetchCards refreshes the cache from the repository. On failure the error
// is recorded and the previous cache answers.
func (c *cardUseCase) FetchCards(ctx context.Context, userID uuid.UUID) []domain.Card {
	cache := c.cacheFor(ctx, userID)
	c.setLoading(cache, true)
	defer c.setLoading(cache, false)

	cards, err := c.refreshCards(ctx, userID, cache)
	if err != nil {
		return c.cachedCards(cache)
	}
	return slices.Clone(cards)
}

// refreshCards replaces the cached collection with the repository's and
// reports the degrade error, so callers that must not swallow staleness
// (sync) can propagate it.
func (c *cardUseCase) refreshCards(
	ctx context.Context,
	userID uuid.UUID,
	cache *userCache,
) ([]domain.Card, error) {
	cards, err := c.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, c.degrade(cache, userID, "fetch cards", err)
	}

	c.mu.Lock()
	cache.cards = cards
	cache.status.Error = ""
	c.mu.Unlock()
	c.persist(ctx, userID, cache)

	return cards, nil
}

// AddCard normalizes the input and creates the card remotely. The cache is
// only updated on success; the new card is prepended.
func (c *cardUseCase) AddCard(
	ctx context.Context,
	userID uuid.UUID,
	input domain.CardInput,
) (*domain.Card, error) {
	cache := c.cacheFor(ctx, userID)
	c.setLoading(cache, true)
	defer c.setLoading(cache, false)

	card := domain.NewCard(input, time.Now().UTC())
	created, err := c.repo.Create(ctx, userID, card)
	if err != nil {
		return nil, c.fail(cache, "add card", err)
	}

	// The repository stores digits only; the cache keeps display form.
	created.CardNumber = domain.FormatNumber(created.CardNumber)

	c.mu.Lock()
	cache.cards = append([]domain.Card{*created}, cache.cards...)
	cache.status.Error = ""
	c.mu.Unlock()
	c.persist(ctx, userID, cache)

	return created, nil
}

// UpdateCard applies a partial update remotely and mirrors the authoritative
// result into the cache, keeping the card's position.
func (c *cardUseCase) UpdateCard(
	ctx context.Context,
	userID, id uuid.UUID,
	patch domain.CardPatch,
) (*domain.Card, error) {
	cache := c.cacheFor(ctx, userID)
	c.setLoading(cache, true)
	defer c.setLoading(cache, false)

	updated, err := c.repo.Update(ctx, userID, id, patch)
	if err != nil {
		return nil, c.fail(cache, "update card", err)
	}
	updated.CardNumber = domain.FormatNumber(updated.CardNumber)

	c.mu.Lock()
	for i := range cache.cards {
		if cache.cards[i].ID == id {
			cache.cards[i] = *updated
			break
		}
	}
	cache.status.Error = ""
	c.mu.Unlock()
	c.persist(ctx, userID, cache)

	return updated, nil
}

// DeleteCard removes the card remotely and from the cache.
func (c *cardUseCase) DeleteCard(ctx context.Context, userID, id uuid.UUID) error {
	cache := c.cacheFor(ctx, userID)
	c.setLoading(cache, true)
	defer c.setLoading(cache, false)

	if err := c.repo.Delete(ctx, userID, id); err != nil {
		return c.fail(cache, "delete card", err)
	}

	c.mu.Lock()
	cache.cards = slices.DeleteFunc(cache.cards, func(card domain.Card) bool {
		return card.ID == id
	})
	cache.status.Error = ""
	c.mu.Unlock()
	c.persist(ctx, userID, cache)

	return nil
}

// ToggleFavorite flips the favorite flag. The current value is read from the
// repository so the flip starts from remote truth; the cache only answers
// when the repository is unreachable.
func (c *cardUseCase) ToggleFavorite(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error) {
	cache := c.cacheFor(ctx, userID)

	current, err := c.repo.GetByID(ctx, userID, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, c.fail(cache, "toggle favorite", err)
		}
		cached, ok := c.cachedCard(cache, id)
		if !ok {
			return nil, c.fail(cache, "toggle favorite", err)
		}
		current = &cached
	}

	favorite := !current.IsFavorite
	return c.UpdateCard(ctx, userID, id, domain.CardPatch{IsFavorite: &favorite})
}

// SearchCards matches a substring remotely, falling back to the same match
// over the cache when the repository is unavailable.
func (c *cardUseCase) SearchCards(ctx context.Context, userID uuid.UUID, query string) []domain.Card {
	cache := c.cacheFor(ctx, userID)

	cards, err := c.repo.Search(ctx, userID, query)
	if err != nil {
		c.degrade(cache, userID, "search cards", err)
		return filterCached(c.cachedCards(cache), func(card domain.Card) bool {
			return domain.MatchQuery(card, query)
		})
	}
	return cards
}

// FilterCards applies structured filters remotely, falling back to the same
// predicate over the cache when the repository is unavailable.
func (c *cardUseCase) FilterCards(
	ctx context.Context,
	userID uuid.UUID,
	filters domain.Filters,
) []domain.Card {
	cache := c.cacheFor(ctx, userID)

	cards, err := c.repo.Filter(ctx, userID, filters)
	if err != nil {
		c.degrade(cache, userID, "filter cards", err)
		return filterCached(c.cachedCards(cache), func(card domain.Card) bool {
			return domain.MatchFilters(card, filters)
		})
	}
	return cards
}

// FetchStats reads the aggregate projection, recomputing locally from the
// cache when the repository is unavailable. Never nil.
func (c *cardUseCase) FetchStats(ctx context.Context, userID uuid.UUID) *domain.Stats {
	cache := c.cacheFor(ctx, userID)
	stats, _ := c.refreshStats(ctx, userID, cache)
	return stats
}

// refreshStats replaces the cached stats with the repository's, recomputing
// locally when the read fails. The degrade error is reported alongside the
// fallback value so sync can propagate it.
func (c *cardUseCase) refreshStats(
	ctx context.Context,
	userID uuid.UUID,
	cache *userCache,
) (*domain.Stats, error) {
	stats, readErr := c.repo.Stats(ctx, userID)
	if readErr != nil {
		readErr = c.degrade(cache, userID, "fetch stats", readErr)
		local := domain.ComputeStats(c.cachedCards(cache))
		stats = &local
	}

	c.mu.Lock()
	cache.stats = stats
	c.mu.Unlock()
	c.persist(ctx, userID, cache)

	return stats, readErr
}

// ImportCards creates each record remotely, tolerating individual failures.
// Successes are prepended to the cache and stats are refreshed.
func (c *cardUseCase) ImportCards(
	ctx context.Context,
	userID uuid.UUID,
	cards []domain.Card,
) ImportReport {
	cache := c.cacheFor(ctx, userID)
	c.setLoading(cache, true)
	defer c.setLoading(cache, false)
	c.clearError(cache)

	var report ImportReport
	var created []domain.Card
	for _, card := range cards {
		remote, err := c.repo.Create(ctx, userID, card)
		if err != nil {
			report.Failed++
			c.logger.Warn("card import skipped a record",
				"card_id", card.ID, "error", err)
			continue
		}
		remote.CardNumber = domain.FormatNumber(remote.CardNumber)
		created = append(created, *remote)
		report.Created++
	}

	c.mu.Lock()
	cache.cards = append(created, cache.cards...)
	c.mu.Unlock()
	c.persist(ctx, userID, cache)

	c.FetchStats(ctx, userID)
	return report
}

// ExportCards returns the cached collection verbatim.
func (c *cardUseCase) ExportCards(userID uuid.UUID) []domain.Card {
	cache := c.cacheFor(context.Background(), userID)
	return c.cachedCards(cache)
}

// Clear deletes every cached record remotely, tolerating individual
// failures, then empties the cache and stats.
func (c *cardUseCase) Clear(ctx context.Context, userID uuid.UUID) ClearReport {
	cache := c.cacheFor(ctx, userID)
	c.setLoading(cache, true)
	defer c.setLoading(cache, false)
	c.clearError(cache)

	var report ClearReport
	for _, card := range c.cachedCards(cache) {
		if err := c.repo.Delete(ctx, userID, card.ID); err != nil {
			report.Failed++
			c.logger.Warn("card clear skipped a record",
				"card_id", card.ID, "error", err)
			continue
		}
		report.Deleted++
	}

	c.mu.Lock()
	cache.cards = nil
	cache.stats = &domain.Stats{}
	c.mu.Unlock()
	c.persist(ctx, userID, cache)

	return report
}

// SyncWithDatabase refreshes both the collection and the stats. The two
// reads are independent and run concurrently; either failure is returned
// so callers can surface staleness, even when the other read succeeds and
// clears the recorded status.
func (c *cardUseCase) SyncWithDatabase(ctx context.Context, userID uuid.UUID) error {
	cache := c.cacheFor(ctx, userID)
	c.setLoading(cache, true)
	defer c.setLoading(cache, false)

	var group errgroup.Group
	group.Go(func() error {
		_, err := c.refreshCards(ctx, userID, cache)
		return err
	})
	group.Go(func() error {
		_, err := c.refreshStats(ctx, userID, cache)
		return err
	})
	if err := group.Wait(); err != nil {
		c.mu.Lock()
		cache.status.Error = err.Error()
		c.mu.Unlock()
		return err
	}
	return nil
}

// Status reports the loading flag and last recorded failure for a user.
func (c *cardUseCase) Status(userID uuid.UUID) Status {
	cache := c.cacheFor(context.Background(), userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	return cache.status
}

// cacheFor returns the user's cache, loading its snapshot on first access.
// A corrupt snapshot is logged and replaced by an empty cache.
func (c *cardUseCase) cacheFor(ctx context.Context, userID uuid.UUID) *userCache {
	c.mu.Lock()
	defer c.mu.Unlock()

	cache, ok := c.users[userID]
	if !ok {
		cache = &userCache{}
		c.users[userID] = cache
	}
	if cache.loaded {
		return cache
	}
	cache.loaded = true

	snap, err := store.LoadSnapshot(ctx, c.bucket, snapshotKey(userID))
	if err != nil {
		c.logger.Warn("card snapshot unreadable, starting empty",
			"user_id", userID, "error", err)
		return cache
	}
	cache.cards = snap.Cards
	cache.stats = snap.Stats
	return cache
}

// fail records a mutation error and returns it.
func (c *cardUseCase) fail(cache *userCache, op string, err error) error {
	c.mu.Lock()
	cache.status.Error = fmt.Sprintf("%s: %v", op, err)
	c.mu.Unlock()
	return err
}

// degrade records a read error and returns it wrapped with the operation
// name; most callers answer from the cache and drop it, sync propagates it.
func (c *cardUseCase) degrade(cache *userCache, userID uuid.UUID, op string, err error) error {
	wrapped := apperrors.Wrap(err, op)
	c.mu.Lock()
	cache.status.Error = wrapped.Error()
	c.mu.Unlock()
	c.logger.Warn("remote read failed, answering from cache",
		"user_id", userID, "operation", op, "error", err)
	return wrapped
}

func (c *cardUseCase) setLoading(cache *userCache, loading bool) {
	c.mu.Lock()
	cache.status.Loading = loading
	c.mu.Unlock()
}

// clearError resets the recorded failure when a bulk operation starts over.
func (c *cardUseCase) clearError(cache *userCache) {
	c.mu.Lock()
	cache.status.Error = ""
	c.mu.Unlock()
}

func (c *cardUseCase) cachedCards(cache *userCache) []domain.Card {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(cache.cards)
}

func (c *cardUseCase) cachedCard(cache *userCache, id uuid.UUID) (domain.Card, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, card := range cache.cards {
		if card.ID == id {
			return card, true
		}
	}
	return domain.Card{}, false
}

// persist writes the user's cache to its snapshot. Snapshot failures do not
// fail the operation that triggered them.
func (c *cardUseCase) persist(ctx context.Context, userID uuid.UUID, cache *userCache) {
	c.mu.Lock()
	snap := store.Snapshot{Cards: slices.Clone(cache.cards), Stats: cache.stats}
	c.mu.Unlock()

	if err := store.SaveSnapshot(ctx, c.bucket, snapshotKey(userID), snap); err != nil {
		c.logger.Warn("card snapshot write failed",
			"user_id", userID, "error", err)
	}
}

func snapshotKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s/%s.json", snapshotPrefix, userID)
}

func filterCached(cards []domain.Card, keep func(domain.Card) bool) []domain.Card {
	var out []domain.Card
	for _, card := range cards {
		if keep(card) {
			out = append(out, card)
		}
	}
	return out
}
