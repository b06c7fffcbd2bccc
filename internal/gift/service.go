// Package gift implements the gift transaction processor: the one code path
// that moves coins from a sender to recipient scores, the room leaderboard,
// and the lucky-gift bonus. The debit is the commit point; every effect
// after it favors availability over atomicity and degrades to a warning.
package gift

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pulseroom/pulseroom/internal/catalog"
	"github.com/pulseroom/pulseroom/internal/config"
	"github.com/pulseroom/pulseroom/internal/domain"
	"github.com/pulseroom/pulseroom/internal/event"
	"github.com/pulseroom/pulseroom/internal/ledger"
	"github.com/pulseroom/pulseroom/internal/logger"
	"github.com/pulseroom/pulseroom/internal/metrics"
	"github.com/pulseroom/pulseroom/internal/outcome"
	"github.com/pulseroom/pulseroom/internal/repository"
)

// ComboTracker starts or replaces a sender's combo for a room. Implemented
// by internal/combo; injected after construction because combo repeat hits
// call back into Send.
type ComboTracker interface {
	Begin(ctx context.Context, tx domain.GiftTransaction) *domain.ComboState
}

// Service defines the interface for gift operations
type Service interface {
	Send(ctx context.Context, tx domain.GiftTransaction) (*domain.SendResult, error)
	TopContributors(ctx context.Context, roomID string, limit int) ([]domain.LeaderboardEntry, error)
	RecentEvents(ctx context.Context, roomID string, limit int) ([]domain.GiftEventPayloadV1, error)
	ResetRoom(ctx context.Context, roomID, requesterID string) error
	SetComboTracker(t ComboTracker)
}

type service struct {
	ledger      *ledger.Service
	catalog     catalog.Service
	leaderboard repository.Leaderboard
	roomState   repository.RoomState
	roster      repository.Roster
	giftLog     repository.GiftLog
	publisher   *event.ResilientPublisher
	selector    *outcome.Selector
	settings    config.GameSettings
	combo       ComboTracker
	printer     *message.Printer
}

// NewService creates a new gift service
func NewService(
	ledgerSvc *ledger.Service,
	catalogSvc catalog.Service,
	leaderboard repository.Leaderboard,
	roomState repository.RoomState,
	roster repository.Roster,
	giftLog repository.GiftLog,
	publisher *event.ResilientPublisher,
	selector *outcome.Selector,
	settings config.GameSettings,
) Service {
	return &service{
		ledger:      ledgerSvc,
		catalog:     catalogSvc,
		leaderboard: leaderboard,
		roomState:   roomState,
		roster:      roster,
		giftLog:     giftLog,
		publisher:   publisher,
		selector:    selector,
		settings:    settings,
		printer:     message.NewPrinter(language.English),
	}
}

// SetComboTracker wires the combo tracker after both services exist.
func (s *service) SetComboTracker(t ComboTracker) {
	s.combo = t
}

// Send executes one gift transaction. The sender is debited synchronously;
// a shortfall fails the whole call with no mutation. Everything downstream
// of the debit is preserved on failure and reported in SendResult.Warnings.
func (s *service) Send(ctx context.Context, tx domain.GiftTransaction) (*domain.SendResult, error) {
	log := logger.FromContext(ctx)

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	// The catalog price is authoritative; never trust a client-supplied cost.
	def, err := s.catalog.GetGift(ctx, tx.Gift.ID)
	if err != nil {
		return nil, err
	}
	tx.Gift = *def

	totalCost := tx.TotalCost()
	result := &domain.SendResult{
		TotalCost:    totalCost,
		RecipientIDs: tx.RecipientIDs,
	}

	// Commit point. Past here nothing is rolled back.
	if err := s.ledger.Debit(ctx, tx.SenderID, totalCost); err != nil {
		return nil, err
	}

	if err := s.ledger.Credit(ctx, tx.SenderID, domain.FieldWealth, totalCost); err != nil {
		s.warn(ctx, result, WarnWealthCreditFailed, err)
	}

	metrics.GiftsSent.WithLabelValues(tx.Gift.ID).Inc()
	metrics.GiftValue.WithLabelValues(tx.Gift.ID).Add(float64(totalCost))

	sender := s.resolveSender(ctx, tx.SenderID, result)
	room := s.resolveRoom(ctx, tx.RoomID, result)

	if err := s.leaderboard.IncrementContribution(ctx, tx.RoomID, sender, totalCost); err != nil {
		s.warn(ctx, result, WarnLeaderboardFailed, err)
	}

	// Per-recipient score credits ride the async ledger queue; the seat
	// mirror is a display cache and fails soft.
	perRecipient := tx.PerRecipientAmount()
	for _, recipientID := range tx.RecipientIDs {
		s.ledger.CreditAsync(recipientID, domain.FieldCharm, perRecipient, StepRecipientCharm)
		s.ledger.CreditAsync(recipientID, domain.FieldDiamonds, perRecipient, StepRecipientDiamonds)
	}
	if err := s.roomState.MirrorSeatCharm(ctx, tx.RoomID, tx.RecipientIDs, perRecipient); err != nil {
		s.warn(ctx, result, WarnSeatMirrorFailed, err)
	}

	if tx.Gift.IsLucky {
		s.resolveLucky(ctx, tx, totalCost, result)
	}

	s.publishGiftEvents(ctx, tx, sender, room, result)

	if !tx.FromCombo && s.combo != nil {
		if state := s.combo.Begin(ctx, tx); state != nil {
			result.ComboCount = state.Count
		}
	}

	log.Info(LogMsgGiftSent,
		"gift_id", tx.Gift.ID,
		"room_id", tx.RoomID,
		"sender_id", tx.SenderID,
		"recipients", len(tx.RecipientIDs),
		"quantity", tx.Quantity,
		"total_cost", totalCost,
		"lucky_win", result.LuckyWin,
		"warnings", len(result.Warnings))
	return result, nil
}

// resolveLucky rolls the lucky bonus and, on a win, credits the refund and
// raises the self-expiring banner.
func (s *service) resolveLucky(ctx context.Context, tx domain.GiftTransaction, totalCost int64, result *domain.SendResult) {
	if !s.selector.RollWin(s.settings.LuckyGiftWinRate) {
		return
	}

	refund := totalCost * s.settings.LuckyGiftRefundPercent / 100
	result.LuckyWin = true
	result.LuckyRefund = refund

	if err := s.ledger.Credit(ctx, tx.SenderID, domain.FieldCoins, refund); err != nil {
		s.warn(ctx, result, WarnLuckyRefundFailed, err)
	}

	metrics.LuckyWins.Inc()
	metrics.LuckyRefunds.Add(float64(refund))
	logger.FromContext(ctx).Info(LogMsgLuckyWinRolled,
		"sender_id", tx.SenderID, "room_id", tx.RoomID, "refund", refund)

	_ = s.publisher.Publish(ctx, event.NewLuckyWinEvent(tx.RoomID, tx.SenderID, refund))
	event.PublishAfter(s.publisher, LuckyBannerDuration, event.NewLuckyWinClearedEvent(tx.RoomID, tx.SenderID))
}

// publishGiftEvents emits the per-send animation event, persists it, and
// raises one global announcement per recipient.
func (s *service) publishGiftEvents(ctx context.Context, tx domain.GiftTransaction, sender domain.UserProfile, room *domain.RoomSnapshot, result *domain.SendResult) {
	payload := domain.GiftEventPayloadV1{
		GiftID:        tx.Gift.ID,
		GiftName:      tx.Gift.Name,
		GiftIcon:      tx.Gift.Icon,
		AnimationKind: tx.Gift.AnimationKind,
		RoomID:        tx.RoomID,
		SenderID:      tx.SenderID,
		SenderName:    sender.Name,
		RecipientIDs:  tx.RecipientIDs,
		Quantity:      tx.Quantity,
		Timestamp:     time.Now().UTC(),
	}

	if err := s.publisher.Publish(ctx, event.NewGiftSentEvent(payload)); err != nil {
		s.warn(ctx, result, WarnAnnouncementFailed, err)
	}
	if err := s.giftLog.Append(ctx, payload); err != nil {
		s.warn(ctx, result, WarnGiftLogFailed, err)
	}

	roomTitle := ""
	if room != nil {
		roomTitle = room.Title
	}
	perRecipient := tx.PerRecipientAmount()

	for _, recipientID := range tx.RecipientIDs {
		recipientName := s.recipientLabel(ctx, tx.SenderID, recipientID, result)
		announcement := domain.AnnouncementPayloadV1{
			SenderName:    sender.Name,
			RecipientName: recipientName,
			GiftName:      tx.Gift.Name,
			GiftIcon:      tx.Gift.Icon,
			Amount:        perRecipient,
			AmountText:    s.printer.Sprintf("%d", perRecipient),
			RoomID:        tx.RoomID,
			RoomTitle:     roomTitle,
		}
		if err := s.publisher.Publish(ctx, event.NewAnnouncementEvent(announcement)); err != nil {
			s.warn(ctx, result, WarnAnnouncementFailed, err)
		}
	}
}

// recipientLabel resolves the display name used in announcements. Gifting
// yourself gets the dedicated label instead of your own name.
func (s *service) recipientLabel(ctx context.Context, senderID, recipientID string, result *domain.SendResult) string {
	if recipientID == senderID {
		return domain.SelfRecipientLabel
	}
	profile, err := s.roster.GetUser(ctx, recipientID)
	if err != nil {
		s.warn(ctx, result, WarnRecipientLookupSkip, err)
		return recipientID
	}
	return profile.Name
}

func (s *service) resolveSender(ctx context.Context, senderID string, result *domain.SendResult) domain.UserProfile {
	profile, err := s.roster.GetUser(ctx, senderID)
	if err != nil {
		s.warn(ctx, result, WarnSenderLookupFailed, err)
		return domain.UserProfile{ID: senderID, Name: senderID}
	}
	return *profile
}

func (s *service) resolveRoom(ctx context.Context, roomID string, result *domain.SendResult) *domain.RoomSnapshot {
	room, err := s.roomState.GetRoom(ctx, roomID)
	if err != nil {
		s.warn(ctx, result, WarnRoomLookupFailed, err)
		return nil
	}
	return room
}

// warn records a preserved post-debit failure on the result and logs it.
func (s *service) warn(ctx context.Context, result *domain.SendResult, label string, err error) {
	result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", label, err))
	logger.FromContext(ctx).Warn(LogMsgPostDebitStepSoft, "step", label, "error", err)
}

// TopContributors lists the room leaderboard, biggest spender first.
func (s *service) TopContributors(ctx context.Context, roomID string, limit int) ([]domain.LeaderboardEntry, error) {
	return s.leaderboard.TopContributors(ctx, roomID, limit)
}

// RecentEvents replays the newest committed gift events for a room.
func (s *service) RecentEvents(ctx context.Context, roomID string, limit int) ([]domain.GiftEventPayloadV1, error) {
	return s.giftLog.Recent(ctx, roomID, limit)
}

// ResetRoom clears the room leaderboard and zeroes every seat's charm
// mirror. Host moderation only.
func (s *service) ResetRoom(ctx context.Context, roomID, requesterID string) error {
	room, err := s.roomState.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.HostID != requesterID {
		return domain.ErrNotHost
	}

	if err := s.leaderboard.Clear(ctx, roomID); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}
	if err := s.roomState.ResetSeatCharms(ctx, roomID); err != nil {
		return fmt.Errorf("reset seat charms: %w", err)
	}

	logger.FromContext(ctx).Info(LogMsgRoomReset, "room_id", roomID, "host_id", requesterID)
	return nil
}
