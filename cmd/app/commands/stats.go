package commands

import (
	"context"
	"fmt"

	"github.com/allisson/cardbook/internal/app"
	"github.com/allisson/cardbook/internal/card/domain"
	"github.com/allisson/cardbook/internal/config"
)

// RunStats prints aggregate statistics for the local card collection.
func RunStats(ctx context.Context, ioTuple IOTuple) error {
	container := app.NewContainer(config.Load())
	logger := container.Logger()
	defer closeContainer(container, logger)

	localStore, err := openLocalStore(ctx, container)
	if err != nil {
		return err
	}

	stats := domain.ComputeStats(localStore.Cards())

	fmt.Fprintf(ioTuple.Writer, "Total cards: %d\n", stats.TotalCards)
	fmt.Fprintf(ioTuple.Writer, "Total limit: %s\n", domain.FormatCurrency(stats.TotalLimit))
	fmt.Fprintf(ioTuple.Writer, "Average limit: %s\n", domain.FormatCurrency(stats.AvgLimit))
	fmt.Fprintf(ioTuple.Writer, "Highest limit: %s\n", domain.FormatCurrency(stats.MaxLimit))
	fmt.Fprintf(ioTuple.Writer, "Lowest limit: %s\n", domain.FormatCurrency(stats.MinLimit))

	return nil
}
