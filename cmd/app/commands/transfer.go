package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/allisson/cardbook/internal/app"
	"github.com/allisson/cardbook/internal/card/transfer"
	"github.com/allisson/cardbook/internal/config"
)

// RunExport writes the local card collection as a versioned JSON document
// to the output path, or to the IOTuple writer when the path is empty.
func RunExport(ctx context.Context, ioTuple IOTuple, outputPath string) error {
	container := app.NewContainer(config.Load())
	logger := container.Logger()
	defer closeContainer(container, logger)

	localStore, err := openLocalStore(ctx, container)
	if err != nil {
		return err
	}

	cards := localStore.Cards()
	data, err := transfer.Export(cards)
	if err != nil {
		return fmt.Errorf("failed to build export document: %w", err)
	}

	writer := ioTuple.Writer
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil {
				logger.Error("failed to close output file", slog.Any("error", closeErr))
			}
		}()
		writer = file
	}

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write export document: %w", err)
	}

	logger.Info("export completed", slog.Int("cards", len(cards)))
	return nil
}

// RunImport reads a versioned JSON document from the input path, or from
// the IOTuple reader when the path is empty, and merges it into the local
// card collection by id.
func RunImport(ctx context.Context, ioTuple IOTuple, inputPath string) error {
	container := app.NewContainer(config.Load())
	logger := container.Logger()
	defer closeContainer(container, logger)

	reader := ioTuple.Reader
	if inputPath != "" {
		file, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil {
				logger.Error("failed to close input file", slog.Any("error", closeErr))
			}
		}()
		reader = file
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read import document: %w", err)
	}

	cards, err := transfer.Import(data)
	if err != nil {
		return fmt.Errorf("failed to parse import document: %w", err)
	}

	localStore, err := openLocalStore(ctx, container)
	if err != nil {
		return err
	}

	if err := localStore.ImportCards(ctx, cards); err != nil {
		return fmt.Errorf("failed to import cards: %w", err)
	}

	logger.Info("import completed", slog.Int("cards", len(cards)))
	fmt.Fprintf(ioTuple.Writer, "Imported %d cards\n", len(cards))
	return nil
}
