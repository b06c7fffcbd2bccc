// Package postgres holds the PostgreSQL implementations of the repository
// interfaces. All writes are signed-delta updates; absolute-value writes are
// deliberately absent so concurrent mutations commute.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulseroom/pulseroom/internal/domain"
)

const (
	queryEnsureWallet = `
		INSERT INTO wallets (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`

	queryGetWallet = `
		SELECT user_id, coins, wealth, charm, diamonds
		FROM wallets
		WHERE user_id = $1`

	// Coins is the only counter with a floor. The WHERE guard makes the
	// overdraft check and the write a single atomic statement.
	queryApplyCoinsDelta = `
		UPDATE wallets
		SET coins = coins + $2, updated_at = now()
		WHERE user_id = $1 AND coins + $2 >= 0`

	queryApplyFieldDelta = `
		UPDATE wallets
		SET %s = %s + $2, updated_at = now()
		WHERE user_id = $1`
)

// WalletRepo implements repository.Wallet on PostgreSQL.
type WalletRepo struct {
	db *pgxpool.Pool
}

// NewWalletRepo creates a new PostgreSQL wallet repository
func NewWalletRepo(db *pgxpool.Pool) *WalletRepo {
	return &WalletRepo{db: db}
}

// GetWallet returns the user's counters, creating a zeroed row on first sight.
func (r *WalletRepo) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	if _, err := r.db.Exec(ctx, queryEnsureWallet, userID); err != nil {
		return nil, fmt.Errorf("ensure wallet row: %w", err)
	}

	var w domain.Wallet
	err := r.db.QueryRow(ctx, queryGetWallet, userID).
		Scan(&w.UserID, &w.Coins, &w.Wealth, &w.Charm, &w.Diamonds)
	if err != nil {
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return &w, nil
}

// ApplyDelta applies one signed delta to one counter. A coins delta that
// would take the balance negative affects zero rows and surfaces as
// domain.ErrInsufficientFunds.
func (r *WalletRepo) ApplyDelta(ctx context.Context, userID string, field domain.BalanceField, delta int64) error {
	column, err := columnFor(field)
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, queryEnsureWallet, userID); err != nil {
		return fmt.Errorf("ensure wallet row: %w", err)
	}

	if field == domain.FieldCoins {
		tag, err := r.db.Exec(ctx, queryApplyCoinsDelta, userID, delta)
		if err != nil {
			return fmt.Errorf("apply coins delta: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrInsufficientFunds
		}
		return nil
	}

	query := fmt.Sprintf(queryApplyFieldDelta, column, column)
	if _, err := r.db.Exec(ctx, query, userID, delta); err != nil {
		return fmt.Errorf("apply %s delta: %w", column, err)
	}
	return nil
}

// columnFor maps a balance field onto its column name. The whitelist keeps
// the Sprintf query free of caller-controlled identifiers.
func columnFor(field domain.BalanceField) (string, error) {
	switch field {
	case domain.FieldCoins:
		return "coins", nil
	case domain.FieldWealth:
		return "wealth", nil
	case domain.FieldCharm:
		return "charm", nil
	case domain.FieldDiamonds:
		return "diamonds", nil
	}
	return "", domain.ErrUnknownField
}
