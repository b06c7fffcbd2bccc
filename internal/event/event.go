package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pulseroom/pulseroom/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// Event types emitted by the economy engine.
const (
	GiftSent        Type = "gift.sent"
	GiftAnnounced   Type = "gift.announced"
	LuckyWin        Type = "gift.lucky_win"
	LuckyWinCleared Type = "gift.lucky_win.cleared"
	ComboProgress   Type = "combo.progress"
	ComboExpired    Type = "combo.expired"
	WheelResult     Type = "wheel.result"
	SlotsResult     Type = "slots.result"
)

// Type-safe event constructors

// NewGiftSentEvent creates the per-send event consumed by animation layers.
func NewGiftSentEvent(p domain.GiftEventPayloadV1) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    GiftSent,
		Payload: p,
	}
}

// NewAnnouncementEvent creates one global-broadcast announcement for one
// recipient of a send.
func NewAnnouncementEvent(p domain.AnnouncementPayloadV1) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    GiftAnnounced,
		Payload: p,
	}
}

// NewLuckyWinEvent creates a lucky-win banner event.
func NewLuckyWinEvent(roomID, senderID string, amount int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LuckyWin,
		Payload: domain.LuckyWinPayloadV1{RoomID: roomID, SenderID: senderID, Amount: amount},
	}
}

// NewLuckyWinClearedEvent creates the banner-expiry companion of a lucky win.
func NewLuckyWinClearedEvent(roomID, senderID string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LuckyWinCleared,
		Payload: domain.LuckyWinPayloadV1{RoomID: roomID, SenderID: senderID},
	}
}

// NewComboProgressEvent reports a started or extended combo.
func NewComboProgressEvent(state domain.ComboState) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ComboProgress,
		Payload: domain.ComboPayloadV1{
			RoomID:   state.RoomID,
			SenderID: state.SenderID,
			GiftID:   state.Gift.ID,
			Count:    state.Count,
		},
	}
}

// NewComboExpiredEvent reports a combo whose idle window elapsed.
func NewComboExpiredEvent(state domain.ComboState) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ComboExpired,
		Payload: domain.ComboPayloadV1{
			RoomID:   state.RoomID,
			SenderID: state.SenderID,
			GiftID:   state.Gift.ID,
			Count:    state.Count,
		},
	}
}

// NewWheelResultEvent reports a fixed wheel winner.
func NewWheelResultEvent(roomID, userID, optionID string, paid int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    WheelResult,
		Payload: domain.WheelResultPayloadV1{RoomID: roomID, UserID: userID, OptionID: optionID, Paid: paid},
	}
}

// NewSlotsResultEvent reports a resolved slots pull.
func NewSlotsResultEvent(roomID, userID string, reels [3]string, paid int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SlotsResult,
		Payload: domain.SlotsResultPayloadV1{RoomID: roomID, UserID: userID, ReelIDs: reels, Paid: paid},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// PublishAfter publishes an event after the given delay on a detached
// context. Used for self-expiring banners; the returned timer can be stopped
// on shutdown.
func PublishAfter(bus Bus, delay time.Duration, e Event) *time.Timer {
	return time.AfterFunc(delay, func() {
		_ = bus.Publish(context.Background(), e)
	})
}
