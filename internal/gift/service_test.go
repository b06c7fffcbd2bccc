package gift

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pulseroom/pulseroom/internal/config"
	"github.com/pulseroom/pulseroom/internal/domain"
	"github.com/pulseroom/pulseroom/internal/event"
	"github.com/pulseroom/pulseroom/internal/ledger"
	"github.com/pulseroom/pulseroom/internal/outcome"
	"github.com/pulseroom/pulseroom/internal/worker"
)

// fixedSource pins the win/lose roll; Intn always picks the first element.
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

// MockLeaderboard
type MockLeaderboard struct {
	mock.Mock
}

func (m *MockLeaderboard) IncrementContribution(ctx context.Context, roomID string, contributor domain.UserProfile, delta int64) error {
	args := m.Called(ctx, roomID, contributor, delta)
	return args.Error(0)
}

func (m *MockLeaderboard) TopContributors(ctx context.Context, roomID string, limit int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, roomID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboard) Clear(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

// MockRoomState
type MockRoomState struct {
	mock.Mock
}

func (m *MockRoomState) GetRoom(ctx context.Context, roomID string) (*domain.RoomSnapshot, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RoomSnapshot), args.Error(1)
}

func (m *MockRoomState) MirrorSeatCharm(ctx context.Context, roomID string, userIDs []string, delta int64) error {
	args := m.Called(ctx, roomID, userIDs, delta)
	return args.Error(0)
}

func (m *MockRoomState) ResetSeatCharms(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

// MockRoster
type MockRoster struct {
	mock.Mock
}

func (m *MockRoster) GetUser(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

// MockGiftLog
type MockGiftLog struct {
	mock.Mock
}

func (m *MockGiftLog) Append(ctx context.Context, p domain.GiftEventPayloadV1) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockGiftLog) Recent(ctx context.Context, roomID string, limit int) ([]domain.GiftEventPayloadV1, error) {
	args := m.Called(ctx, roomID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GiftEventPayloadV1), args.Error(1)
}

// MockCatalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetGift(ctx context.Context, giftID string) (*domain.Gift, error) {
	args := m.Called(ctx, giftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Gift), args.Error(1)
}

func (m *MockCatalog) ListGifts(ctx context.Context) ([]domain.Gift, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Gift), args.Error(1)
}

func (m *MockCatalog) InvalidateCache() {
	m.Called()
}

// stubCombo records Begin calls.
type stubCombo struct {
	mu    sync.Mutex
	calls int
}

func (s *stubCombo) Begin(ctx context.Context, tx domain.GiftTransaction) *domain.ComboState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return &domain.ComboState{
		RoomID:     tx.RoomID,
		SenderID:   tx.SenderID,
		Gift:       tx.Gift,
		Recipients: tx.RecipientIDs,
		Count:      1,
	}
}

func (s *stubCombo) beginCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type testEnv struct {
	svc         Service
	wallet      *MockWalletRepo
	leaderboard *MockLeaderboard
	roomState   *MockRoomState
	roster      *MockRoster
	giftLog     *MockGiftLog
	catalog     *MockCatalog
	combo       *stubCombo
	bus         *event.MemoryBus
	pool        *worker.Pool

	mu     sync.Mutex
	events []event.Event
}

func (e *testEnv) published(eventType event.Type) []event.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []event.Event
	for _, ev := range e.events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func defaultSettings() config.GameSettings {
	return config.GameSettings{
		LuckyGiftWinRate:       config.DefaultLuckyGiftWinRate,
		LuckyGiftRefundPercent: config.DefaultLuckyGiftRefundPercent,
		WheelWinRate:           config.DefaultWheelWinRate,
		SlotsWinRate:           config.DefaultSlotsWinRate,
		WheelJackpotX:          config.DefaultWheelJackpotX,
		WheelNormalX:           config.DefaultWheelNormalX,
		SlotsSevenX:            config.DefaultSlotsSevenX,
		SlotsFruitX:            config.DefaultSlotsFruitX,
	}
}

// newTestEnv builds a service over mocks with a deterministic win roll.
func newTestEnv(t *testing.T, roll float64) *testEnv {
	t.Helper()

	env := &testEnv{
		wallet:      new(MockWalletRepo),
		leaderboard: new(MockLeaderboard),
		roomState:   new(MockRoomState),
		roster:      new(MockRoster),
		giftLog:     new(MockGiftLog),
		catalog:     new(MockCatalog),
		combo:       &stubCombo{},
		bus:         event.NewMemoryBus(),
	}

	for _, et := range []event.Type{event.GiftSent, event.GiftAnnounced, event.LuckyWin, event.LuckyWinCleared} {
		env.bus.Subscribe(et, func(ctx context.Context, ev event.Event) error {
			env.mu.Lock()
			defer env.mu.Unlock()
			env.events = append(env.events, ev)
			return nil
		})
	}

	env.pool = worker.NewPool(1, 16)
	env.pool.Start()
	t.Cleanup(env.pool.Stop)

	ledgerSvc := ledger.NewService(env.wallet, env.pool, ledger.Config{MaxWriteAttempts: 1, RetryBaseDelay: time.Millisecond})
	publisher := event.NewResilientPublisher(env.bus, event.ResilientConfig{MaxRetries: 1, RetryDelay: time.Millisecond, DeadLetterPath: t.TempDir() + "/dead.jsonl"})
	selector := outcome.NewSelector(fixedSource{f: roll})

	env.svc = NewService(ledgerSvc, env.catalog, env.leaderboard, env.roomState, env.roster, env.giftLog, publisher, selector, defaultSettings())
	env.svc.SetComboTracker(env.combo)
	return env
}

func (e *testEnv) stubHappyPath(gift *domain.Gift) {
	e.catalog.On("GetGift", mock.Anything, gift.ID).Return(gift, nil)
	e.roster.On("GetUser", mock.Anything, mock.Anything).Return(&domain.UserProfile{ID: "sender", Name: "Sender"}, nil)
	e.roomState.On("GetRoom", mock.Anything, "room1").Return(&domain.RoomSnapshot{ID: "room1", Title: "Night Talk", HostID: "host"}, nil)
	e.roomState.On("MirrorSeatCharm", mock.Anything, "room1", mock.Anything, mock.Anything).Return(nil)
	e.leaderboard.On("IncrementContribution", mock.Anything, "room1", mock.Anything, mock.Anything).Return(nil)
	e.giftLog.On("Append", mock.Anything, mock.Anything).Return(nil)
}

func TestSend_ConservationAcrossParties(t *testing.T) {
	// roll=0.99 never wins the lucky bonus
	env := newTestEnv(t, 0.99)
	rose := &domain.Gift{ID: "rose", Name: "Rose", Cost: 1000}
	env.stubHappyPath(rose)

	// The ledger never deduplicates, so conservation holds only if every
	// step issues its delta exactly once. Once() pins that.
	// sender pays cost x qty x recipients = 1000 x 2 x 2 = 4000
	env.wallet.On("ApplyDelta", mock.Anything, "sender", domain.FieldCoins, int64(-4000)).Return(nil).Once()
	env.wallet.On("ApplyDelta", mock.Anything, "sender", domain.FieldWealth, int64(4000)).Return(nil).Once()
	// each recipient gets the full per-recipient price, 1000 x 2 = 2000
	for _, r := range []string{"alice", "bob"} {
		env.wallet.On("ApplyDelta", mock.Anything, r, domain.FieldCharm, int64(2000)).Return(nil).Once()
		env.wallet.On("ApplyDelta", mock.Anything, r, domain.FieldDiamonds, int64(2000)).Return(nil).Once()
	}

	result, err := env.svc.Send(context.Background(), domain.GiftTransaction{
		Gift:         domain.Gift{ID: "rose"},
		RoomID:       "room1",
		SenderID:     "sender",
		RecipientIDs: []string{"alice", "bob"},
		Quantity:     2,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(4000), result.TotalCost)
	assert.Empty(t, result.Warnings)

	time.Sleep(50 * time.Millisecond) // async recipient credits
	env.wallet.AssertExpectations(t)
	env.wallet.AssertNumberOfCalls(t, "ApplyDelta", 6)
	env.leaderboard.AssertCalled(t, "IncrementContribution", mock.Anything, "room1", mock.Anything, int64(4000))
	env.roomState.AssertCalled(t, "MirrorSeatCharm", mock.Anything, "room1", []string{"alice", "bob"}, int64(2000))
}

func TestSend_InsufficientFundsIsTotalNoOp(t *testing.T) {
	env := newTestEnv(t, 0.99)
	rose := &domain.Gift{ID: "rose", Name: "Rose", Cost: 1000}
	env.catalog.On("GetGift", mock.Anything, "rose").Return(rose, nil)
	env.wallet.On("ApplyDelta", mock.Anything, "sender", domain.FieldCoins, int64(-1000)).
		Return(domain.ErrInsufficientFunds)

	_, err := env.svc.Send(context.Background(), domain.GiftTransaction{
		Gift:         domain.Gift{ID: "rose"},
		RoomID:       "room1",
		SenderID:     "sender",
		RecipientIDs: []string{"alice"},
		Quantity:     1,
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	env.leaderboard.AssertNotCalled(t, "IncrementContribution", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	env.giftLog.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	assert.Empty(t, env.published(event.GiftSent))
	assert.Equal(t, 0, env.combo.beginCalls())
}

func TestSend_ValidationRejectsBeforeDebit(t *testing.T) {
	env := newTestEnv(t, 0.99)

	_, err := env.svc.Send(context.Background(), domain.GiftTransaction{
		Gift: domain.Gift{ID: "rose"}, RoomID: "room1", SenderID: "sender",
		RecipientIDs: []string{"alice"}, Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = env.svc.Send(context.Background(), domain.GiftTransaction{
		Gift: domain.Gift{ID: "rose"}, RoomID: "room1", SenderID: "sender",
		Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNoRecipients)

	env.wallet.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSend_LuckyWinRefundsAgainstTotalCost(t *testing.T) {
	// roll=0.0 always wins
	env := newTestEnv(t, 0.0)
	clover := &domain.Gift{ID: "clover", Name: "Lucky Clover", Cost: 1000, IsLucky: true}
	env.stubHappyPath(clover)

	// balance 5000: -1000 debit, then +2000 refund at the default 200%
	env.wallet.On("ApplyDelta", mock.Anything, "sender", domain.FieldCoins, int64(-1000)).Return(nil)
	env.wallet.On("ApplyDelta", mock.Anything, "sender", domain.FieldWealth, int64(1000)).Return(nil)
	env.wallet.On("ApplyDelta", mock.Anything, "sender", domain.FieldCoins, int64(2000)).Return(nil)
	env.wallet.On("ApplyDelta", mock.Anything, "alice", domain.FieldCharm, int64(1000)).Return(nil)
	env.wallet.On("ApplyDelta", mock.Anything, "alice", domain.FieldDiamonds, int64(1000)).Return(nil)

	result, err := env.svc.Send(context.Background(), domain.GiftTransaction{
		Gift:         domain.Gift{ID: "clover"},
		RoomID:       "room1",
		SenderID:     "sender",
		RecipientIDs: []string{"alice"},
		Quantity:     1,
	})

	assert.NoError(t, err)
	assert.True(t, result.LuckyWin)
	assert.Equal(t, int64(2000), result.LuckyRefund)

	time.Sleep(50 * time.Millisecond)
	env.wallet.AssertExpectations(t)
	assert.Len(t, env.published(event.LuckyWin), 1)
}

func TestSend_LuckyLossPaysNothing(t *testing.T) {
	env := newTestEnv(t, 0.99)
	clover := &domain.Gift{ID: "clover", Name: "Lucky Clover", Cost: 1000, IsLucky: true}
	env.stubHappyPath(clover)
	env.wallet.On("ApplyDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := env.svc.Send(context.Background(), domain.GiftTransaction{
		Gift:         domain.Gift{ID: "clover"},
		RoomID:       "room1",
		SenderID:     "sender",
		RecipientIDs: []string{"alice"},
		Quantity:     1,
	})

	assert.NoError(t, err)
	assert.False(t, result.LuckyWin)
	assert.Zero(t, result.LuckyRefund)
	assert.Empty(t, env.published(event.LuckyWin))
}

func TestSend_PartialFailureBecomesWarning(t *testing.T) {
	env := newTestEnv(t, 0.99)
	rose := &domain.Gift{ID: "rose", Name: "Rose", Cost: 500}
	env.catalog.On("GetGift", mock.Anything, "rose").Return(rose, nil)
	env.roster.On("GetUser", mock.Anything, mock.Anything).Return(&domain.UserProfile{ID: "sender", Name: "Sender"}, nil)
	env.roomState.On("GetRoom", mock.Anything, "room1").Return(&domain.RoomSnapshot{ID: "room1", HostID: "host"}, nil)
	env.roomState.On("MirrorSeatCharm", mock.Anything, "room1", mock.Anything, mock.Anything).Return(nil)
	env.giftLog.On("Append", mock.Anything, mock.Anything).Return(nil)
	env.wallet.On("ApplyDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	env.leaderboard.On("IncrementContribution", mock.Anything, "room1", mock.Anything, mock.Anything).
		Return(errors.New("connection reset"))

	result, err := env.svc.Send(context.Background(), domain.GiftTransaction{
		Gift:         domain.Gift{ID: "rose"},
		RoomID:       "room1",
		SenderID:     "sender",
		RecipientIDs: []string{"alice"},
		Quantity:     1,
	})

	// the send still succeeds; the failed step surfaces as a warning only
	assert.NoError(t, err)
	assert.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], WarnLeaderboardFailed)
	assert.Len(t, env.published(event.GiftSent), 1)
}

func TestSend_SelfGiftUsesSelfLabel(t *testing.T) {
	env := newTestEnv(t, 0.99)
	rose := &domain.Gift{ID: "rose", Name: "Rose", Cost: 500}
	env.stubHappyPath(rose)
	env.wallet.On("ApplyDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := env.svc.Send(context.Background(), domain.GiftTransaction{
		Gift:         domain.Gift{ID: "rose"},
		RoomID:       "room1",
		SenderID:     "sender",
		RecipientIDs: []string{"sender"},
		Quantity:     1,
	})
	assert.NoError(t, err)

	announcements := env.published(event.GiftAnnounced)
	assert.Len(t, announcements, 1)
	payload := announcements[0].Payload.(domain.AnnouncementPayloadV1)
	assert.Equal(t, domain.SelfRecipientLabel, payload.RecipientName)
}

func TestSend_AnnouncementAmountIsGrouped(t *testing.T) {
	env := newTestEnv(t, 0.99)
	whale := &domain.Gift{ID: "yacht", Name: "Yacht", Cost: 1000000}
	env.stubHappyPath(whale)
	env.wallet.On("ApplyDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := env.svc.Send(context.Background(), domain.GiftTransaction{
		Gift:         domain.Gift{ID: "yacht"},
		RoomID:       "room1",
		SenderID:     "sender",
		RecipientIDs: []string{"alice"},
		Quantity:     1,
	})
	assert.NoError(t, err)

	announcements := env.published(event.GiftAnnounced)
	assert.Len(t, announcements, 1)
	payload := announcements[0].Payload.(domain.AnnouncementPayloadV1)
	assert.Equal(t, "1,000,000", payload.AmountText)
}

func TestSend_ComboOriginatedSkipsComboRestart(t *testing.T) {
	env := newTestEnv(t, 0.99)
	rose := &domain.Gift{ID: "rose", Name: "Rose", Cost: 500}
	env.stubHappyPath(rose)
	env.wallet.On("ApplyDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := env.svc.Send(context.Background(), domain.GiftTransaction{
		Gift:         domain.Gift{ID: "rose"},
		RoomID:       "room1",
		SenderID:     "sender",
		RecipientIDs: []string{"alice"},
		Quantity:     1,
		FromCombo:    true,
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, env.combo.beginCalls())

	_, err = env.svc.Send(context.Background(), domain.GiftTransaction{
		Gift:         domain.Gift{ID: "rose"},
		RoomID:       "room1",
		SenderID:     "sender",
		RecipientIDs: []string{"alice"},
		Quantity:     1,
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, env.combo.beginCalls())
}

func TestResetRoom_HostOnly(t *testing.T) {
	env := newTestEnv(t, 0.99)
	env.roomState.On("GetRoom", mock.Anything, "room1").
		Return(&domain.RoomSnapshot{ID: "room1", HostID: "host"}, nil)

	err := env.svc.ResetRoom(context.Background(), "room1", "stranger")
	assert.ErrorIs(t, err, domain.ErrNotHost)
	env.leaderboard.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)

	env.leaderboard.On("Clear", mock.Anything, "room1").Return(nil)
	env.roomState.On("ResetSeatCharms", mock.Anything, "room1").Return(nil)

	err = env.svc.ResetRoom(context.Background(), "room1", "host")
	assert.NoError(t, err)
	env.leaderboard.AssertExpectations(t)
	env.roomState.AssertCalled(t, "ResetSeatCharms", mock.Anything, "room1")
}
