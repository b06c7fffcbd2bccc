package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulseroom/pulseroom/internal/database/postgres"
	"github.com/pulseroom/pulseroom/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	Wallet      repository.Wallet
	Catalog     repository.Catalog
	Leaderboard repository.Leaderboard
	RoomState   repository.RoomState
	Roster      repository.Roster
	GiftLog     repository.GiftLog
}

// InitializeRepositories creates all repository implementations.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Wallet:      postgres.NewWalletRepo(dbPool),
		Catalog:     postgres.NewCatalogRepo(dbPool),
		Leaderboard: postgres.NewLeaderboardRepo(dbPool),
		RoomState:   postgres.NewRoomStateRepo(dbPool),
		Roster:      postgres.NewRosterRepo(dbPool),
		GiftLog:     postgres.NewGiftLogRepo(dbPool),
	}
}
