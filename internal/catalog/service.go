// Package catalog serves gift definitions with a read-through cache. The
// catalog changes rarely; the short TTL is only there so admin edits land
// without a restart.
package catalog

import (
	"context"
	"time"

	"github.com/pulseroom/pulseroom/internal/domain"
	"github.com/pulseroom/pulseroom/internal/repository"
)

// Cache sizing
const (
	DefaultCacheSize = 256
	DefaultCacheTTL  = 5 * time.Minute
)

// Service defines the interface for gift catalog operations
type Service interface {
	GetGift(ctx context.Context, giftID string) (*domain.Gift, error)
	ListGifts(ctx context.Context) ([]domain.Gift, error)
	InvalidateCache()
}

type service struct {
	repo  repository.Catalog
	cache *giftCache
}

// NewService creates a new catalog service
func NewService(repo repository.Catalog) Service {
	return &service{
		repo:  repo,
		cache: newGiftCache(DefaultCacheSize, DefaultCacheTTL),
	}
}

// GetGift resolves one gift definition, hitting the store only on cache miss.
func (s *service) GetGift(ctx context.Context, giftID string) (*domain.Gift, error) {
	if gift, ok := s.cache.Get(giftID); ok {
		return gift, nil
	}

	gift, err := s.repo.GetGiftByID(ctx, giftID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(giftID, gift)
	return gift, nil
}

// ListGifts returns the full catalog. Listing bypasses the per-gift cache;
// it is an infrequent shop-open call.
func (s *service) ListGifts(ctx context.Context) ([]domain.Gift, error) {
	return s.repo.ListGifts(ctx)
}

// InvalidateCache drops every cached definition.
func (s *service) InvalidateCache() {
	s.cache.Clear()
}
