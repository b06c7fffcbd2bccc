package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulseroom/pulseroom/internal/domain"
)

const queryGetUser = `
	SELECT id, name, avatar
	FROM users
	WHERE id = $1`

// RosterRepo implements repository.Roster on PostgreSQL.
type RosterRepo struct {
	db *pgxpool.Pool
}

// NewRosterRepo creates a new PostgreSQL roster repository
func NewRosterRepo(db *pgxpool.Pool) *RosterRepo {
	return &RosterRepo{db: db}
}

// GetUser resolves a user's display identity.
func (r *RosterRepo) GetUser(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var u domain.UserProfile
	err := r.db.QueryRow(ctx, queryGetUser, userID).Scan(&u.ID, &u.Name, &u.Avatar)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
