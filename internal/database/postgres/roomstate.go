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
	queryGetRoom = `
		SELECT id, title, host_id
		FROM rooms
		WHERE id = $1`

	queryGetRoomSeats = `
		SELECT user_id, name, avatar, seat_index, is_muted, charm
		FROM room_seats
		WHERE room_id = $1
		ORDER BY seat_index ASC`

	queryMirrorSeatCharm = `
		UPDATE room_seats
		SET charm = charm + $3
		WHERE room_id = $1 AND user_id = ANY($2)`

	queryResetSeatCharms = `
		UPDATE room_seats
		SET charm = 0
		WHERE room_id = $1`
)

// RoomStateRepo implements repository.RoomState on PostgreSQL.
type RoomStateRepo struct {
	db *pgxpool.Pool
}

// NewRoomStateRepo creates a new PostgreSQL room state repository
func NewRoomStateRepo(db *pgxpool.Pool) *RoomStateRepo {
	return &RoomStateRepo{db: db}
}

// GetRoom loads the room snapshot with its seated speakers.
func (r *RoomStateRepo) GetRoom(ctx context.Context, roomID string) (*domain.RoomSnapshot, error) {
	var snap domain.RoomSnapshot
	err := r.db.QueryRow(ctx, queryGetRoom, roomID).Scan(&snap.ID, &snap.Title, &snap.HostID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}

	rows, err := r.db.Query(ctx, queryGetRoomSeats, roomID)
	if err != nil {
		return nil, fmt.Errorf("query room seats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.UserID, &s.Name, &s.Avatar, &s.SeatIndex, &s.IsMuted, &s.Charm); err != nil {
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		snap.Speakers = append(snap.Speakers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seats: %w", err)
	}
	return &snap, nil
}

// MirrorSeatCharm adds delta to the cached charm of every listed user that
// holds a seat. Users without a seat simply match no row.
func (r *RoomStateRepo) MirrorSeatCharm(ctx context.Context, roomID string, userIDs []string, delta int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	if _, err := r.db.Exec(ctx, queryMirrorSeatCharm, roomID, userIDs, delta); err != nil {
		return fmt.Errorf("mirror seat charm: %w", err)
	}
	return nil
}

// ResetSeatCharms zeroes the charm mirror of every seat in the room.
func (r *RoomStateRepo) ResetSeatCharms(ctx context.Context, roomID string) error {
	if _, err := r.db.Exec(ctx, queryResetSeatCharms, roomID); err != nil {
		return fmt.Errorf("reset seat charms: %w", err)
	}
	return nil
}
