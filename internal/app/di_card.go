package app

import (
	"context"
	"fmt"
	"sync"

	cardHTTP "github.com/allisson/cardbook/internal/card/http"
	cardRepository "github.com/allisson/cardbook/internal/card/repository"
	cardUseCase "github.com/allisson/cardbook/internal/card/usecase"
)

// cardComponents holds the card feature dependencies inside the container.
type cardComponents struct {
	cardRepo    cardUseCase.CardRepository
	cardUC      cardUseCase.CardUseCase
	cardHandler *cardHTTP.CardHandler

	cardRepoInit    sync.Once
	cardUCInit      sync.Once
	cardHandlerInit sync.Once
}

// CardRepository returns the card repository based on the database driver.
func (c *Container) CardRepository(ctx context.Context) (cardUseCase.CardRepository, error) {
	var err error
	c.cardRepoInit.Do(func() {
		c.cardRepo, err = c.initCardRepository(ctx)
		if err != nil {
			c.initErrors["cardRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cardRepo"]; exists {
		return nil, storedErr
	}
	return c.cardRepo, nil
}

// CardUseCase returns the database-backed card store.
func (c *Container) CardUseCase(ctx context.Context) (cardUseCase.CardUseCase, error) {
	var err error
	c.cardUCInit.Do(func() {
		c.cardUC, err = c.initCardUseCase(ctx)
		if err != nil {
			c.initErrors["cardUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cardUseCase"]; exists {
		return nil, storedErr
	}
	return c.cardUC, nil
}

// CardHandler returns the HTTP handler for card collection operations.
func (c *Container) CardHandler(ctx context.Context) (*cardHTTP.CardHandler, error) {
	var err error
	c.cardHandlerInit.Do(func() {
		c.cardHandler, err = c.initCardHandler(ctx)
		if err != nil {
			c.initErrors["cardHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cardHandler"]; exists {
		return nil, storedErr
	}
	return c.cardHandler, nil
}

// initCardRepository creates the card repository based on the database driver.
func (c *Container) initCardRepository(ctx context.Context) (cardUseCase.CardRepository, error) {
	db, err := c.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get database for card repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return cardRepository.NewPostgreSQLCardRepository(db), nil
	case "mysql":
		return cardRepository.NewMySQLCardRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCardUseCase creates the card store, wrapped with business metrics
// when metrics are enabled.
func (c *Container) initCardUseCase(ctx context.Context) (cardUseCase.CardUseCase, error) {
	repo, err := c.CardRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get card repository for card use case: %w", err)
	}

	bucket, err := c.SnapshotBucket()
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot bucket for card use case: %w", err)
	}

	useCase := cardUseCase.NewCardUseCase(repo, bucket, c.Logger())

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for card use case: %w", err)
	}

	return cardUseCase.NewCardUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initCardHandler creates the card HTTP handler.
func (c *Container) initCardHandler(ctx context.Context) (*cardHTTP.CardHandler, error) {
	useCase, err := c.CardUseCase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get card use case for card handler: %w", err)
	}

	return cardHTTP.NewCardHandler(useCase, c.Logger()), nil
}
