package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/pulseroom/pulseroom/internal/domain"
	"github.com/pulseroom/pulseroom/internal/logger"
	"github.com/pulseroom/pulseroom/internal/repository"
)

// Sentinel errors for the catalog loader
var (
	ErrDuplicateGiftID = errors.New("duplicate gift id")
	ErrInvalidCatalog  = errors.New("invalid catalog configuration")
)

// File represents the JSON configuration for the gift catalog.
type File struct {
	Version     string `json:"version"`
	Description string `json:"description"`

	Gifts []GiftDef `json:"gifts"`
}

// GiftDef represents a single gift definition in the JSON.
type GiftDef struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	Cost          int64  `json:"cost"`
	IsLucky       bool   `json:"is_lucky"`
	AnimationKind string `json:"animation_kind"`
}

// SyncResult contains the result of syncing the catalog to the database.
type SyncResult struct {
	GiftsInserted int
	GiftsUpdated  int
	GiftsSkipped  int
}

// Loader handles loading and validating the gift catalog configuration.
type Loader interface {
	Load(path string) (*File, error)
	Validate(file *File) error
	SyncToDatabase(ctx context.Context, file *File, repo repository.Catalog) (*SyncResult, error)
}

type catalogLoader struct{}

// NewLoader creates a new Loader instance
func NewLoader() Loader {
	return &catalogLoader{}
}

// Load reads and parses a gift catalog JSON file.
func (l *catalogLoader) Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	return &file, nil
}

// Validate checks the catalog configuration for errors.
func (l *catalogLoader) Validate(file *File) error {
	if file == nil {
		return fmt.Errorf("%w: file is nil", ErrInvalidCatalog)
	}
	if len(file.Gifts) == 0 {
		return fmt.Errorf("%w: no gifts defined", ErrInvalidCatalog)
	}

	ids := make(map[string]bool, len(file.Gifts))
	for i := range file.Gifts {
		if err := validateGiftDef(i, &file.Gifts[i], ids); err != nil {
			return err
		}
	}
	return nil
}

func validateGiftDef(index int, def *GiftDef, ids map[string]bool) error {
	if def.ID == "" {
		return fmt.Errorf("%w: gift at index %d has empty id", ErrInvalidCatalog, index)
	}
	if ids[def.ID] {
		return fmt.Errorf("%w: '%s'", ErrDuplicateGiftID, def.ID)
	}
	ids[def.ID] = true

	if def.Name == "" {
		return fmt.Errorf("%w: gift '%s' has empty name", ErrInvalidCatalog, def.ID)
	}
	if def.Cost <= 0 {
		return fmt.Errorf("%w: gift '%s' must cost at least 1 coin", ErrInvalidCatalog, def.ID)
	}
	return nil
}

// SyncToDatabase syncs the catalog configuration to the database idempotently.
// Definitions already matching the database row are skipped; everything else
// is upserted. Gifts present in the database but absent from the file are left
// alone so historical events keep resolving.
func (l *catalogLoader) SyncToDatabase(ctx context.Context, file *File, repo repository.Catalog) (*SyncResult, error) {
	log := logger.FromContext(ctx)

	existing, err := repo.ListGifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing gifts: %w", err)
	}

	existingByID := make(map[string]*domain.Gift, len(existing))
	for i := range existing {
		existingByID[existing[i].ID] = &existing[i]
	}

	result := &SyncResult{}
	for _, def := range file.Gifts {
		gift := domain.Gift{
			ID:            def.ID,
			Name:          def.Name,
			Icon:          def.Icon,
			Cost:          def.Cost,
			IsLucky:       def.IsLucky,
			AnimationKind: def.AnimationKind,
		}

		if current, ok := existingByID[def.ID]; ok {
			if *current == gift {
				result.GiftsSkipped++
				continue
			}
			if err := repo.UpsertGift(ctx, gift); err != nil {
				return nil, fmt.Errorf("failed to update gift '%s': %w", def.ID, err)
			}
			result.GiftsUpdated++
			log.Info("Updated gift definition", "gift_id", def.ID)
			continue
		}

		if err := repo.UpsertGift(ctx, gift); err != nil {
			return nil, fmt.Errorf("failed to insert gift '%s': %w", def.ID, err)
		}
		result.GiftsInserted++
		log.Info("Inserted gift definition", "gift_id", def.ID)
	}

	log.Info("Gift catalog synced",
		"inserted", result.GiftsInserted,
		"updated", result.GiftsUpdated,
		"skipped", result.GiftsSkipped)

	return result, nil
}
