// Package combo tracks per-sender gift streaks. A streak holds the last
// gift and recipient set; each repeat hit re-runs the send at quantity 1 and
// pushes the idle deadline out. Expiry, replacement, and a failed hit all
// tear the streak down.
package combo

import (
	"context"
	"sync"
	"time"

	"github.com/pulseroom/pulseroom/internal/domain"
	"github.com/pulseroom/pulseroom/internal/event"
	"github.com/pulseroom/pulseroom/internal/gift"
	"github.com/pulseroom/pulseroom/internal/logger"
	"github.com/pulseroom/pulseroom/internal/metrics"
)

// DefaultIdleWindow is how long a streak survives without a repeat hit.
const DefaultIdleWindow = 5 * time.Second

// Log Messages
const (
	LogMsgComboStarted   = "Combo started"
	LogMsgComboHit       = "Combo hit"
	LogMsgComboExpired   = "Combo expired"
	LogMsgComboAbandoned = "Combo abandoned after failed hit"
	LogMsgShuttingDown   = "Shutting down combo tracker"
)

type entry struct {
	state domain.ComboState
	timer *time.Timer
	seq   uint64
}

// Tracker owns every active streak. One streak per sender per room.
type Tracker struct {
	gifts    gift.Service
	bus      event.Bus
	window   time.Duration
	mu       sync.Mutex
	active   map[string]*entry // roomID+":"+senderID
	nextSeq  uint64
	shutdown chan struct{}
}

// NewTracker creates a new combo tracker
func NewTracker(gifts gift.Service, bus event.Bus, window time.Duration) *Tracker {
	if window <= 0 {
		window = DefaultIdleWindow
	}
	return &Tracker{
		gifts:    gifts,
		bus:      bus,
		window:   window,
		active:   make(map[string]*entry),
		shutdown: make(chan struct{}),
	}
}

func key(roomID, senderID string) string {
	return roomID + ":" + senderID
}

// Begin starts a streak for the transaction's sender and room, replacing any
// streak already running there. Called by the gift processor on every
// non-combo send.
func (t *Tracker) Begin(ctx context.Context, tx domain.GiftTransaction) *domain.ComboState {
	t.mu.Lock()
	k := key(tx.RoomID, tx.SenderID)
	if existing, ok := t.active[k]; ok {
		existing.timer.Stop()
		delete(t.active, k)
	}

	t.nextSeq++
	e := &entry{
		state: domain.ComboState{
			RoomID:     tx.RoomID,
			SenderID:   tx.SenderID,
			Gift:       tx.Gift,
			Recipients: tx.RecipientIDs,
			Count:      1,
			ExpiresAt:  time.Now().Add(t.window),
		},
		seq: t.nextSeq,
	}
	e.timer = t.scheduleExpiry(k, e.seq)
	t.active[k] = e
	state := e.state
	t.mu.Unlock()

	logger.FromContext(ctx).Info(LogMsgComboStarted,
		"room_id", tx.RoomID, "sender_id", tx.SenderID, "gift_id", tx.Gift.ID)
	_ = t.bus.Publish(ctx, event.NewComboProgressEvent(state))
	return &state
}

// Hit replays the streak's gift at quantity 1, increments the count, and
// resets the idle deadline. A hit that cannot pay abandons the streak
// without incrementing.
func (t *Tracker) Hit(ctx context.Context, roomID, senderID string) (*domain.SendResult, error) {
	t.mu.Lock()
	k := key(roomID, senderID)
	e, ok := t.active[k]
	if !ok {
		t.mu.Unlock()
		return nil, domain.ErrSessionClosed
	}
	tx := domain.GiftTransaction{
		Gift:         e.state.Gift,
		RoomID:       roomID,
		SenderID:     senderID,
		RecipientIDs: e.state.Recipients,
		Quantity:     1,
		FromCombo:    true,
	}
	t.mu.Unlock()

	result, err := t.gifts.Send(ctx, tx)
	if err != nil {
		t.abandon(ctx, k)
		return nil, err
	}

	t.mu.Lock()
	e, ok = t.active[k]
	if !ok {
		// Expired while the send was in flight; the send itself stands.
		t.mu.Unlock()
		return result, nil
	}
	e.timer.Stop()
	e.state.Count++
	e.state.ExpiresAt = time.Now().Add(t.window)
	t.nextSeq++
	e.seq = t.nextSeq
	e.timer = t.scheduleExpiry(k, e.seq)
	state := e.state
	t.mu.Unlock()

	metrics.ComboHits.Inc()
	result.ComboCount = state.Count
	logger.FromContext(ctx).Info(LogMsgComboHit,
		"room_id", roomID, "sender_id", senderID, "count", state.Count)
	_ = t.bus.Publish(ctx, event.NewComboProgressEvent(state))
	return result, nil
}

// Get returns the live streak state, or nil when none is active.
func (t *Tracker) Get(roomID, senderID string) *domain.ComboState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.active[key(roomID, senderID)]; ok {
		state := e.state
		return &state
	}
	return nil
}

// scheduleExpiry arms the idle timer. Callers hold t.mu. The seq check
// discards a stale callback that raced a replacement or a reset.
func (t *Tracker) scheduleExpiry(k string, seq uint64) *time.Timer {
	return time.AfterFunc(t.window, func() {
		select {
		case <-t.shutdown:
			return
		default:
		}

		t.mu.Lock()
		e, ok := t.active[k]
		if !ok || e.seq != seq {
			t.mu.Unlock()
			return
		}
		delete(t.active, k)
		state := e.state
		t.mu.Unlock()

		ctx := context.Background()
		logger.FromContext(ctx).Info(LogMsgComboExpired,
			"room_id", state.RoomID, "sender_id", state.SenderID, "count", state.Count)
		_ = t.bus.Publish(ctx, event.NewComboExpiredEvent(state))
	})
}

func (t *Tracker) abandon(ctx context.Context, k string) {
	t.mu.Lock()
	e, ok := t.active[k]
	if ok {
		e.timer.Stop()
		delete(t.active, k)
	}
	t.mu.Unlock()

	if ok {
		logger.FromContext(ctx).Info(LogMsgComboAbandoned,
			"room_id", e.state.RoomID, "sender_id", e.state.SenderID, "count", e.state.Count)
		_ = t.bus.Publish(ctx, event.NewComboExpiredEvent(e.state))
	}
}

// Shutdown cancels every pending expiry timer.
func (t *Tracker) Shutdown(ctx context.Context) error {
	logger.FromContext(ctx).Info(LogMsgShuttingDown)
	close(t.shutdown)

	t.mu.Lock()
	for _, e := range t.active {
		e.timer.Stop()
	}
	t.active = make(map[string]*entry)
	t.mu.Unlock()
	return nil
}
