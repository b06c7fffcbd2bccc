package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulseroom/pulseroom/internal/domain"
)

const (
	queryIncrementContribution = `
		INSERT INTO room_contributors (room_id, user_id, name, avatar, amount, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (room_id, user_id) DO UPDATE
		SET amount = room_contributors.amount + EXCLUDED.amount,
		    name = EXCLUDED.name,
		    avatar = EXCLUDED.avatar,
		    updated_at = now()`

	queryTopContributors = `
		SELECT room_id, user_id, name, avatar, amount, updated_at
		FROM room_contributors
		WHERE room_id = $1
		ORDER BY amount DESC, updated_at ASC
		LIMIT $2`

	queryClearContributors = `
		DELETE FROM room_contributors
		WHERE room_id = $1`
)

// LeaderboardRepo implements repository.Leaderboard on PostgreSQL.
type LeaderboardRepo struct {
	db *pgxpool.Pool
}

// NewLeaderboardRepo creates a new PostgreSQL leaderboard repository
func NewLeaderboardRepo(db *pgxpool.Pool) *LeaderboardRepo {
	return &LeaderboardRepo{db: db}
}

// IncrementContribution upserts the contributor entry, adding delta to its
// cumulative amount and refreshing the display fields.
func (r *LeaderboardRepo) IncrementContribution(ctx context.Context, roomID string, contributor domain.UserProfile, delta int64) error {
	_, err := r.db.Exec(ctx, queryIncrementContribution, roomID, contributor.ID, contributor.Name, contributor.Avatar, delta)
	if err != nil {
		return fmt.Errorf("increment contribution: %w", err)
	}
	return nil
}

// TopContributors lists entries by amount, highest first. Ties break toward
// the earlier contributor.
func (r *LeaderboardRepo) TopContributors(ctx context.Context, roomID string, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx, queryTopContributors, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("query top contributors: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.RoomID, &e.UserID, &e.Name, &e.Avatar, &e.Amount, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan contributor: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contributors: %w", err)
	}
	return entries, nil
}

// Clear removes every contributor entry for the room.
func (r *LeaderboardRepo) Clear(ctx context.Context, roomID string) error {
	if _, err := r.db.Exec(ctx, queryClearContributors, roomID); err != nil {
		return fmt.Errorf("clear contributors: %w", err)
	}
	return nil
}
