// Package slots runs the single-pull slot game. A pull is
// debit-resolve-credit in one shot; the reveal delay is presentation only
// and the money has already moved by the time the reels stop.
package slots

import (
	"context"
	"time"

	"github.com/pulseroom/pulseroom/internal/config"
	"github.com/pulseroom/pulseroom/internal/domain"
	"github.com/pulseroom/pulseroom/internal/event"
	"github.com/pulseroom/pulseroom/internal/ledger"
	"github.com/pulseroom/pulseroom/internal/logger"
	"github.com/pulseroom/pulseroom/internal/metrics"
	"github.com/pulseroom/pulseroom/internal/outcome"
)

// DefaultRevealDelay separates pull initiation from result visibility.
const DefaultRevealDelay = 2 * time.Second

// StepSlotsPayout names the async ledger step for win credits.
const StepSlotsPayout = "slots_payout"

// Metric outcome label values
const (
	OutcomeWin  = "win"
	OutcomeLose = "lose"
)

// Log Messages
const (
	LogMsgPullResolved = "Slots pull resolved"
)

// Service defines the interface for slots operations
type Service interface {
	Pull(ctx context.Context, roomID, userID string, bet int64) (*domain.SlotsResult, error)
}

type service struct {
	ledger      *ledger.Service
	publisher   event.Bus
	selector    *outcome.Selector
	settings    config.GameSettings
	revealDelay time.Duration
}

// NewService creates a new slots service
func NewService(ledgerSvc *ledger.Service, publisher event.Bus, selector *outcome.Selector, settings config.GameSettings, revealDelay time.Duration) Service {
	if revealDelay <= 0 {
		revealDelay = DefaultRevealDelay
	}
	return &service{
		ledger:      ledgerSvc,
		publisher:   publisher,
		selector:    selector,
		settings:    settings,
		revealDelay: revealDelay,
	}
}

// symbols builds the reel strip with multipliers taken from settings.
func (s *service) symbols() []domain.SlotSymbol {
	strip := make([]domain.SlotSymbol, len(domain.DefaultSlotSymbols))
	copy(strip, domain.DefaultSlotSymbols)
	for i := range strip {
		switch strip[i].ID {
		case domain.SlotSymbolSeven, domain.SlotSymbolDiamond:
			strip[i].Multiplier = s.settings.SlotsSevenX
		default:
			strip[i].Multiplier = s.settings.SlotsFruitX
		}
	}
	return strip
}

// Pull debits the bet, resolves the reels, and credits any win, all before
// returning. RevealAt tells the caller when to show the result.
func (s *service) Pull(ctx context.Context, roomID, userID string, bet int64) (*domain.SlotsResult, error) {
	if bet <= 0 {
		return nil, domain.ErrInvalidBet
	}

	if err := s.ledger.Debit(ctx, userID, bet); err != nil {
		return nil, err
	}

	reels, win := s.selector.Reels(s.settings.SlotsWinRate, s.symbols())

	result := &domain.SlotsResult{
		Reels:    reels,
		Bet:      bet,
		IsWin:    win,
		RevealAt: time.Now().Add(s.revealDelay),
	}

	outcomeLabel := OutcomeLose
	if win {
		outcomeLabel = OutcomeWin
		// lump sum: winnings plus the wager back
		result.Payout = bet*reels[0].Multiplier + bet
		s.ledger.CreditAsync(userID, domain.FieldCoins, result.Payout, StepSlotsPayout)
		metrics.GamePayout.WithLabelValues("slots").Add(float64(result.Payout))
	}
	metrics.SlotsPulls.WithLabelValues(outcomeLabel).Inc()

	logger.FromContext(ctx).Info(LogMsgPullResolved,
		"room_id", roomID, "user_id", userID, "bet", bet,
		"win", win, "payout", result.Payout)

	reelIDs := [3]string{reels[0].ID, reels[1].ID, reels[2].ID}
	_ = s.publisher.Publish(ctx, event.NewSlotsResultEvent(roomID, userID, reelIDs, result.Payout))
	return result, nil
}
