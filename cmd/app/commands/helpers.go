// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"

	"github.com/allisson/cardbook/internal/app"
	"github.com/allisson/cardbook/internal/card/store"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// openLocalStore opens the local card store backed by the container's
// snapshot bucket. The returned container must be closed by the caller
// via closeContainer.
func openLocalStore(ctx context.Context, container *app.Container) (*store.LocalStore, error) {
	bucket, err := container.SnapshotBucket()
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot bucket: %w", err)
	}

	localStore, err := store.NewLocalStore(ctx, bucket, container.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to open local card store: %w", err)
	}

	return localStore, nil
}
