// Package repository defines the persistence interfaces of the economy
// engine. Implementations live in internal/database/postgres; tests supply
// in-memory fakes.
package repository

import (
	"context"

	"github.com/pulseroom/pulseroom/internal/domain"
)

// Wallet is the sole mutation surface for user currency counters. There are
// no absolute-value writes: every mutation is a signed delta so concurrent
// increments commute.
type Wallet interface {
	// GetWallet returns the current counters for a user, creating a zeroed
	// wallet row if none exists.
	GetWallet(ctx context.Context, userID string) (*domain.Wallet, error)

	// ApplyDelta applies one signed delta to one counter. When field is
	// coins and current+delta would be negative it returns
	// domain.ErrInsufficientFunds and applies nothing.
	ApplyDelta(ctx context.Context, userID string, field domain.BalanceField, delta int64) error
}

// Leaderboard tracks per-room cumulative gift contributions.
type Leaderboard interface {
	// IncrementContribution upserts the contributor entry, adding delta to
	// its amount.
	IncrementContribution(ctx context.Context, roomID string, contributor domain.UserProfile, delta int64) error

	// TopContributors lists entries by amount, highest first.
	TopContributors(ctx context.Context, roomID string, limit int) ([]domain.LeaderboardEntry, error)

	// Clear removes every entry for the room. Host moderation only; this is
	// the single sanctioned decrement of leaderboard amounts.
	Clear(ctx context.Context, roomID string) error
}

// RoomState reads room snapshots and maintains the seat-level charm mirror.
type RoomState interface {
	GetRoom(ctx context.Context, roomID string) (*domain.RoomSnapshot, error)

	// MirrorSeatCharm adds delta to the cached charm of every listed user
	// currently seated in the room. Users without a seat are skipped.
	MirrorSeatCharm(ctx context.Context, roomID string, userIDs []string, delta int64) error

	// ResetSeatCharms zeroes the charm mirror of every seat in the room.
	ResetSeatCharms(ctx context.Context, roomID string) error
}

// Roster resolves user identities for announcements.
type Roster interface {
	GetUser(ctx context.Context, userID string) (*domain.UserProfile, error)
}

// Catalog serves gift definitions. UpsertGift exists for the startup config
// sync; request paths only read.
type Catalog interface {
	GetGiftByID(ctx context.Context, giftID string) (*domain.Gift, error)
	ListGifts(ctx context.Context) ([]domain.Gift, error)
	UpsertGift(ctx context.Context, gift domain.Gift) error
}

// GiftLog persists committed gift events for animation consumers, which read
// only a short most-recent window.
type GiftLog interface {
	Append(ctx context.Context, p domain.GiftEventPayloadV1) error
	Recent(ctx context.Context, roomID string, limit int) ([]domain.GiftEventPayloadV1, error)
}
