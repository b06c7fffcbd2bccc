package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pulseroom/pulseroom/internal/config"
	"github.com/pulseroom/pulseroom/internal/domain"
	"github.com/pulseroom/pulseroom/internal/event"
	"github.com/pulseroom/pulseroom/internal/ledger"
	"github.com/pulseroom/pulseroom/internal/outcome"
	"github.com/pulseroom/pulseroom/internal/worker"
)

// fixedSource pins the win roll; Intn always picks the first element.
type fixedSource struct {
	f float64
}

func (s fixedSource) Float64() float64 { return s.f }
func (s fixedSource) Intn(n int) int   { return 0 }

// MockWalletRepo
type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepo) ApplyDelta(ctx context.Context, userID string, field domain.BalanceField, delta int64) error {
	args := m.Called(ctx, userID, field, delta)
	return args.Error(0)
}

func testSettings() config.GameSettings {
	return config.GameSettings{
		SlotsWinRate: config.DefaultSlotsWinRate,
		SlotsSevenX:  config.DefaultSlotsSevenX,
		SlotsFruitX:  config.DefaultSlotsFruitX,
	}
}

func newTestService(t *testing.T, roll float64) (Service, *MockWalletRepo) {
	t.Helper()
	wallet := new(MockWalletRepo)

	pool := worker.NewPool(1, 16)
	pool.Start()
	t.Cleanup(pool.Stop)

	ledgerSvc := ledger.NewService(wallet, pool, ledger.Config{MaxWriteAttempts: 1, RetryBaseDelay: time.Millisecond})
	selector := outcome.NewSelector(fixedSource{f: roll})
	return NewService(ledgerSvc, event.NewMemoryBus(), selector, testSettings(), 10*time.Millisecond), wallet
}

func TestPull_WinPaysSymbolMultiplierPlusWager(t *testing.T) {
	// roll=0.0 wins; Intn 0 triples the first symbol, seven, on the high tier
	svc, wallet := newTestService(t, 0.0)
	wallet.On("ApplyDelta", mock.Anything, "player", domain.FieldCoins, int64(-10000)).Return(nil)
	// 10,000 x 20 + 10,000 back = 210,000
	wallet.On("ApplyDelta", mock.Anything, "player", domain.FieldCoins, int64(210000)).Return(nil)

	result, err := svc.Pull(context.Background(), "room1", "player", 10000)
	require.NoError(t, err)

	assert.True(t, result.IsWin)
	assert.Equal(t, domain.SlotSymbolSeven, result.Reels[0].ID)
	assert.Equal(t, result.Reels[0].ID, result.Reels[1].ID)
	assert.Equal(t, result.Reels[1].ID, result.Reels[2].ID)
	assert.Equal(t, int64(210000), result.Payout)
	assert.False(t, result.RevealAt.Before(time.Now().Add(-time.Millisecond)))

	time.Sleep(50 * time.Millisecond) // async payout
	wallet.AssertExpectations(t)
}

func TestPull_LoseDebitsOnly(t *testing.T) {
	svc, wallet := newTestService(t, 0.99)
	wallet.On("ApplyDelta", mock.Anything, "player", domain.FieldCoins, int64(-10000)).Return(nil)

	result, err := svc.Pull(context.Background(), "room1", "player", 10000)
	require.NoError(t, err)

	assert.False(t, result.IsWin)
	assert.Zero(t, result.Payout)
	identical := result.Reels[0].ID == result.Reels[1].ID && result.Reels[1].ID == result.Reels[2].ID
	assert.False(t, identical)

	time.Sleep(30 * time.Millisecond)
	wallet.AssertNumberOfCalls(t, "ApplyDelta", 1)
}

func TestPull_InsufficientFundsIsNoOp(t *testing.T) {
	svc, wallet := newTestService(t, 0.0)
	wallet.On("ApplyDelta", mock.Anything, "player", domain.FieldCoins, int64(-10000)).
		Return(domain.ErrInsufficientFunds)

	_, err := svc.Pull(context.Background(), "room1", "player", 10000)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	wallet.AssertNumberOfCalls(t, "ApplyDelta", 1)
}

func TestPull_RejectsNonPositiveBet(t *testing.T) {
	svc, wallet := newTestService(t, 0.0)

	_, err := svc.Pull(context.Background(), "room1", "player", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidBet)

	_, err = svc.Pull(context.Background(), "room1", "player", -5)
	assert.ErrorIs(t, err, domain.ErrInvalidBet)

	wallet.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
