package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pulseroom/pulseroom/internal/catalog"
	"github.com/pulseroom/pulseroom/internal/repository"
)

// SyncGiftCatalog loads, validates, and syncs the gift catalog configuration
// to the database. It handles the complete lifecycle: load JSON, validate,
// sync to DB, log results. An empty path disables the sync and the catalog is
// served from whatever the database already holds.
func SyncGiftCatalog(ctx context.Context, catalogRepo repository.Catalog, path string) error {
	if path == "" {
		slog.Info(LogMsgGiftCatalogDisabled)
		return nil
	}

	slog.Info(LogMsgSyncingGiftCatalog, "path", path)
	loader := catalog.NewLoader()

	file, err := loader.Load(path)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedLoadGiftCatalog, err)
	}

	if err := loader.Validate(file); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgInvalidGiftCatalog, err)
	}

	if _, err := loader.SyncToDatabase(ctx, file, catalogRepo); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSyncGiftCatalog, err)
	}

	return nil
}
