// Package wheel runs the per-player wheel game: a cyclic
// betting/spinning/result round where every chip is debited the moment it is
// placed and the winner is fixed by the outcome selector the instant betting
// closes. The spin and result phases are pure presentation delay; the money
// moved when the phase began.
package wheel

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/pulseroom/pulseroom/internal/config"
	"github.com/pulseroom/pulseroom/internal/domain"
	"github.com/pulseroom/pulseroom/internal/event"
	"github.com/pulseroom/pulseroom/internal/ledger"
	"github.com/pulseroom/pulseroom/internal/logger"
	"github.com/pulseroom/pulseroom/internal/metrics"
	"github.com/pulseroom/pulseroom/internal/outcome"
)

// Async ledger step names.
const (
	// StepWheelPayout names the step for win credits.
	StepWheelPayout = "wheel_payout"
	// StepWheelRefund names the step for bets whose debit landed after
	// betting closed.
	StepWheelRefund = "wheel_refund"
)

// Durations are the three phase lengths, injectable for tests.
type Durations struct {
	Betting  time.Duration
	Spinning time.Duration
	Result   time.Duration
}

// DefaultDurations returns the production phase lengths.
func DefaultDurations() Durations {
	return Durations{
		Betting:  DefaultBettingDuration,
		Spinning: DefaultSpinningDuration,
		Result:   DefaultResultDuration,
	}
}

// Service defines the interface for wheel game operations
type Service interface {
	Open(ctx context.Context, roomID, userID string) (*domain.WheelRound, error)
	PlaceBet(ctx context.Context, roomID, userID, optionID string, amount int64) (*domain.WheelRound, error)
	State(roomID, userID string) (*domain.WheelRound, error)
	Close(ctx context.Context, roomID, userID string) error
	Shutdown(ctx context.Context) error
}

type session struct {
	roomID    string
	userID    string
	options   []domain.WheelOption
	status    domain.WheelStatus
	phaseEnds time.Time
	bets      map[string]int64
	winner    *domain.WheelOption
	winPaid   int64
	history   []domain.WheelOption
	timer     *time.Timer
	seq       uint64
}

type service struct {
	ledger    *ledger.Service
	publisher event.Bus
	selector  *outcome.Selector
	settings  config.GameSettings
	durations Durations

	mu       sync.Mutex
	sessions map[string]*session
	nextSeq  uint64
	rng      func(int) int // Injectable for testing
	shutdown chan struct{}
}

// NewService creates a new wheel service
func NewService(ledgerSvc *ledger.Service, publisher event.Bus, selector *outcome.Selector, settings config.GameSettings, durations Durations) Service {
	if durations.Betting <= 0 {
		durations = DefaultDurations()
	}
	return &service{
		ledger:    ledgerSvc,
		publisher: publisher,
		selector:  selector,
		settings:  settings,
		durations: durations,
		sessions:  make(map[string]*session),
		rng:       rand.Intn, //nolint:gosec // game odds, not security
		shutdown:  make(chan struct{}),
	}
}

func key(roomID, userID string) string {
	return roomID + ":" + userID
}

// wheelOptions builds the segment set with multipliers taken from settings:
// the jackpot segment gets the jackpot tier, every other segment the common
// tier.
func (s *service) wheelOptions() []domain.WheelOption {
	options := make([]domain.WheelOption, len(domain.DefaultWheelOptions))
	copy(options, domain.DefaultWheelOptions)
	for i := range options {
		if options[i].ID == domain.WheelJackpotID {
			options[i].Multiplier = s.settings.WheelJackpotX
		} else {
			options[i].Multiplier = s.settings.WheelNormalX
		}
	}
	return options
}

// Open starts (or restarts) a session for one player in one room. History is
// pre-seeded with random past winners so the strip is never empty.
func (s *service) Open(ctx context.Context, roomID, userID string) (*domain.WheelRound, error) {
	s.mu.Lock()
	k := key(roomID, userID)
	if existing, ok := s.sessions[k]; ok {
		existing.timer.Stop()
		delete(s.sessions, k)
	}

	options := s.wheelOptions()
	history := make([]domain.WheelOption, domain.WheelHistoryCap)
	for i := range history {
		history[i] = options[s.rng(len(options))]
	}

	sess := &session{
		roomID:  roomID,
		userID:  userID,
		options: options,
		bets:    make(map[string]int64),
		history: history,
	}
	s.sessions[k] = sess
	s.startBetting(sess)
	round := snapshot(sess)
	s.mu.Unlock()

	logger.FromContext(ctx).Info(LogMsgSessionOpened, "room_id", roomID, "user_id", userID)
	return round, nil
}

// PlaceBet debits the chip immediately and stacks it on the option. Outside
// the betting phase the call is a rejected no-op.
func (s *service) PlaceBet(ctx context.Context, roomID, userID, optionID string, amount int64) (*domain.WheelRound, error) {
	s.mu.Lock()
	sess, ok := s.sessions[key(roomID, userID)]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrSessionClosed
	}
	if sess.status != domain.WheelBetting {
		s.mu.Unlock()
		return nil, domain.ErrInvalidBet
	}
	if amount <= 0 || !s.validOption(sess, optionID) {
		s.mu.Unlock()
		return nil, domain.ErrInvalidBet
	}
	s.mu.Unlock()

	// Debit outside the lock: a slow store must not stall timer callbacks.
	if err := s.ledger.Debit(ctx, userID, amount); err != nil {
		return nil, err
	}

	s.mu.Lock()
	sess, ok = s.sessions[key(roomID, userID)]
	if !ok || sess.status != domain.WheelBetting {
		s.mu.Unlock()
		// Betting closed while the debit was in flight. The chip missed
		// the round, so it goes back through the async credit path.
		s.ledger.CreditAsync(userID, domain.FieldCoins, amount, StepWheelRefund)
		logger.FromContext(ctx).Warn(LogMsgLateBetRefunded,
			"room_id", roomID, "user_id", userID, "amount", amount)
		return nil, domain.ErrInvalidBet
	}
	sess.bets[optionID] += amount
	round := snapshot(sess)
	s.mu.Unlock()

	logger.FromContext(ctx).Info(LogMsgBetPlaced,
		"room_id", roomID, "user_id", userID, "option_id", optionID, "amount", amount)
	return round, nil
}

// State returns the current round view.
func (s *service) State(roomID, userID string) (*domain.WheelRound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key(roomID, userID)]
	if !ok {
		return nil, domain.ErrSessionClosed
	}
	return snapshot(sess), nil
}

// Close tears the session down. A round already past its spin keeps its
// financial effects: a fixed winner with a matching bet is settled silently
// before the session goes away.
func (s *service) Close(ctx context.Context, roomID, userID string) error {
	s.mu.Lock()
	k := key(roomID, userID)
	sess, ok := s.sessions[k]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	sess.timer.Stop()
	delete(s.sessions, k)

	var paid int64
	settled := false
	if sess.status == domain.WheelSpinning && sess.winner != nil {
		paid = s.payoutLocked(sess)
		settled = true
	}
	s.mu.Unlock()

	log := logger.FromContext(ctx)
	if settled {
		s.creditPayout(userID, paid)
		log.Info(LogMsgSettledOnClose, "room_id", roomID, "user_id", userID, "paid", paid)
	}
	log.Info(LogMsgSessionClosed, "room_id", roomID, "user_id", userID)
	return nil
}

func (s *service) validOption(sess *session, optionID string) bool {
	for _, o := range sess.options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// startBetting begins a fresh betting phase. Callers hold s.mu.
func (s *service) startBetting(sess *session) {
	sess.status = domain.WheelBetting
	sess.bets = make(map[string]int64)
	sess.winner = nil
	sess.winPaid = 0
	sess.phaseEnds = time.Now().Add(s.durations.Betting)
	s.armTimer(sess, s.durations.Betting, s.beginSpin)
}

// beginSpin fixes the winner from the player's backed set and starts the
// spin animation delay. The outcome is decided here, not when it is shown.
func (s *service) beginSpin(sess *session) func() {
	backed := make(map[string]bool, len(sess.bets))
	for id := range sess.bets {
		backed[id] = true
	}
	ids := make([]string, len(sess.options))
	for i, o := range sess.options {
		ids[i] = o.ID
	}

	winnerID := s.selector.Pick(s.settings.WheelWinRate, ids, backed)
	for i := range sess.options {
		if sess.options[i].ID == winnerID {
			sess.winner = &sess.options[i]
			break
		}
	}

	sess.status = domain.WheelSpinning
	sess.phaseEnds = time.Now().Add(s.durations.Spinning)
	s.armTimer(sess, s.durations.Spinning, s.settleRound)

	logger.FromContext(context.Background()).Info(LogMsgWinnerFixed,
		"room_id", sess.roomID, "user_id", sess.userID, "winner", winnerID)
	return nil
}

// settleRound records the winner, computes a matching bet's payout, and
// enters the result display phase. The credit and result event go out in the
// returned closure, once the session lock is released.
func (s *service) settleRound(sess *session) func() {
	paid := s.payoutLocked(sess)
	sess.winPaid = paid

	// most-recent-first, bounded
	sess.history = append([]domain.WheelOption{*sess.winner}, sess.history...)
	if len(sess.history) > domain.WheelHistoryCap {
		sess.history = sess.history[:domain.WheelHistoryCap]
	}

	outcomeLabel := OutcomeLose
	if paid > 0 {
		outcomeLabel = OutcomeWin
	}
	metrics.WheelRounds.WithLabelValues(outcomeLabel).Inc()

	sess.status = domain.WheelResult
	sess.phaseEnds = time.Now().Add(s.durations.Result)
	s.armTimer(sess, s.durations.Result, func(sess *session) func() {
		s.startBetting(sess)
		return nil
	})

	roomID, userID, winnerID := sess.roomID, sess.userID, sess.winner.ID
	return func() {
		s.creditPayout(userID, paid)

		ctx := context.Background()
		logger.FromContext(ctx).Info(LogMsgRoundSettled,
			"room_id", roomID, "user_id", userID,
			"winner", winnerID, "paid", paid)
		_ = s.publisher.Publish(ctx, event.NewWheelResultEvent(roomID, userID, winnerID, paid))
	}
}

// payoutLocked computes a winning bet's lump sum: stake times multiplier
// plus the stake back. No bet on the winner pays nothing even though an
// outcome was drawn. Callers hold s.mu; the credit itself goes through
// creditPayout after the lock is released, because a full write queue blocks
// Enqueue and must not stall timer callbacks.
func (s *service) payoutLocked(sess *session) int64 {
	bet, backed := sess.bets[sess.winner.ID]
	if !backed || bet == 0 {
		return 0
	}
	return bet*sess.winner.Multiplier + bet
}

// creditPayout queues the win credit. Callers must not hold s.mu.
func (s *service) creditPayout(userID string, paid int64) {
	if paid == 0 {
		return
	}
	s.ledger.CreditAsync(userID, domain.FieldCoins, paid, StepWheelPayout)
	metrics.GamePayout.WithLabelValues("wheel").Add(float64(paid))
}

// armTimer schedules the next phase transition. Callers hold s.mu. The seq
// check drops callbacks that raced a close or reopen. A non-nil closure
// returned by fn runs after s.mu is released.
func (s *service) armTimer(sess *session, d time.Duration, fn func(*session) func()) {
	s.nextSeq++
	seq := s.nextSeq
	sess.seq = seq
	k := key(sess.roomID, sess.userID)

	sess.timer = time.AfterFunc(d, func() {
		select {
		case <-s.shutdown:
			return
		default:
		}

		s.mu.Lock()
		current, ok := s.sessions[k]
		if !ok || current.seq != seq {
			s.mu.Unlock()
			return
		}
		after := fn(current)
		s.mu.Unlock()

		if after != nil {
			after()
		}
	})
}

func snapshot(sess *session) *domain.WheelRound {
	bets := make(map[string]int64, len(sess.bets))
	for id, amount := range sess.bets {
		bets[id] = amount
	}
	history := make([]domain.WheelOption, len(sess.history))
	copy(history, sess.history)

	timeLeft := int(time.Until(sess.phaseEnds).Round(time.Second).Seconds())
	if timeLeft < 0 {
		timeLeft = 0
	}

	round := &domain.WheelRound{
		Status:   sess.status,
		TimeLeft: timeLeft,
		Bets:     bets,
		WinPaid:  sess.winPaid,
		History:  history,
	}
	if sess.winner != nil && sess.status == domain.WheelResult {
		winner := *sess.winner
		round.Winner = &winner
	}
	return round
}

// Shutdown cancels every session timer.
func (s *service) Shutdown(ctx context.Context) error {
	logger.FromContext(ctx).Info(LogMsgShuttingDown)
	close(s.shutdown)

	s.mu.Lock()
	for _, sess := range s.sessions {
		sess.timer.Stop()
	}
	s.sessions = make(map[string]*session)
	s.mu.Unlock()
	return nil
}
