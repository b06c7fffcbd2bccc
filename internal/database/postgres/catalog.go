package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulseroom/pulseroom/internal/domain"
)

const (
	queryGetGiftByID = `
		SELECT id, name, icon, cost, is_lucky, animation_kind
		FROM gifts
		WHERE id = $1`

	queryListGifts = `
		SELECT id, name, icon, cost, is_lucky, animation_kind
		FROM gifts
		ORDER BY cost ASC, id ASC`

	queryUpsertGift = `
		INSERT INTO gifts (id, name, icon, cost, is_lucky, animation_kind)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			icon = EXCLUDED.icon,
			cost = EXCLUDED.cost,
			is_lucky = EXCLUDED.is_lucky,
			animation_kind = EXCLUDED.animation_kind`
)

// CatalogRepo implements repository.Catalog on PostgreSQL.
type CatalogRepo struct {
	db *pgxpool.Pool
}

// NewCatalogRepo creates a new PostgreSQL gift catalog repository
func NewCatalogRepo(db *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// GetGiftByID fetches one gift definition.
func (r *CatalogRepo) GetGiftByID(ctx context.Context, giftID string) (*domain.Gift, error) {
	var g domain.Gift
	err := r.db.QueryRow(ctx, queryGetGiftByID, giftID).
		Scan(&g.ID, &g.Name, &g.Icon, &g.Cost, &g.IsLucky, &g.AnimationKind)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrGiftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get gift: %w", err)
	}
	return &g, nil
}

// ListGifts returns the full catalog, cheapest first.
func (r *CatalogRepo) ListGifts(ctx context.Context) ([]domain.Gift, error) {
	rows, err := r.db.Query(ctx, queryListGifts)
	if err != nil {
		return nil, fmt.Errorf("query gifts: %w", err)
	}
	defer rows.Close()

	var gifts []domain.Gift
	for rows.Next() {
		var g domain.Gift
		if err := rows.Scan(&g.ID, &g.Name, &g.Icon, &g.Cost, &g.IsLucky, &g.AnimationKind); err != nil {
			return nil, fmt.Errorf("scan gift: %w", err)
		}
		gifts = append(gifts, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gifts: %w", err)
	}
	return gifts, nil
}

// UpsertGift inserts or replaces one gift definition.
func (r *CatalogRepo) UpsertGift(ctx context.Context, gift domain.Gift) error {
	_, err := r.db.Exec(ctx, queryUpsertGift,
		gift.ID, gift.Name, gift.Icon, gift.Cost, gift.IsLucky, gift.AnimationKind)
	if err != nil {
		return fmt.Errorf("upsert gift: %w", err)
	}
	return nil
}
