package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulseroom/pulseroom/internal/domain"
)

const (
	queryAppendGiftEvent = `
		INSERT INTO gift_events (
			id, room_id, gift_id, gift_name, gift_icon, animation_kind,
			sender_id, sender_name, recipient_ids, quantity, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	queryRecentGiftEvents = `
		SELECT gift_id, gift_name, gift_icon, animation_kind,
		       room_id, sender_id, sender_name, recipient_ids, quantity, created_at
		FROM gift_events
		WHERE room_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
)

// GiftLogRepo implements repository.GiftLog on PostgreSQL.
type GiftLogRepo struct {
	db *pgxpool.Pool
}

// NewGiftLogRepo creates a new PostgreSQL gift event log repository
func NewGiftLogRepo(db *pgxpool.Pool) *GiftLogRepo {
	return &GiftLogRepo{db: db}
}

// Append records one committed gift event.
func (r *GiftLogRepo) Append(ctx context.Context, p domain.GiftEventPayloadV1) error {
	_, err := r.db.Exec(ctx, queryAppendGiftEvent,
		uuid.New(), p.RoomID, p.GiftID, p.GiftName, p.GiftIcon, p.AnimationKind,
		p.SenderID, p.SenderName, p.RecipientIDs, p.Quantity, p.Timestamp)
	if err != nil {
		return fmt.Errorf("append gift event: %w", err)
	}
	return nil
}

// Recent returns the newest events for a room, newest first. Animation
// consumers only ever replay a short window.
func (r *GiftLogRepo) Recent(ctx context.Context, roomID string, limit int) ([]domain.GiftEventPayloadV1, error) {
	rows, err := r.db.Query(ctx, queryRecentGiftEvents, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("query gift events: %w", err)
	}
	defer rows.Close()

	var events []domain.GiftEventPayloadV1
	for rows.Next() {
		var p domain.GiftEventPayloadV1
		if err := rows.Scan(&p.GiftID, &p.GiftName, &p.GiftIcon, &p.AnimationKind,
			&p.RoomID, &p.SenderID, &p.SenderName, &p.RecipientIDs, &p.Quantity, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("scan gift event: %w", err)
		}
		events = append(events, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gift events: %w", err)
	}
	return events, nil
}
