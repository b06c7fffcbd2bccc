package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pulseroom/pulseroom/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")
	handled := false

	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		if event.Type != eventType {
			t.Errorf("Expected event type %s, got %s", eventType, event.Type)
		}
		if event.Payload.(string) != "payload" {
			t.Errorf("Expected payload 'payload', got %v", event.Payload)
		}
		handled = true
		return nil
	})

	err := bus.Publish(context.Background(), Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: "payload",
	})

	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if !handled {
		t.Error("Handler was not called")
	}
}

func TestMemoryBus_PublishMultipleHandlers(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")
	count := 0

	handler := func(ctx context.Context, event Event) error {
		count++
		return nil
	}

	bus.Subscribe(eventType, handler)
	bus.Subscribe(eventType, handler)

	err := bus.Publish(context.Background(), Event{Version: EventSchemaVersion, Type: eventType})
	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if count != 2 {
		t.Errorf("Expected 2 handlers to be called, got %d", count)
	}
}

func TestMemoryBus_PublishNoSubscribers(t *testing.T) {
	bus := NewMemoryBus()

	err := bus.Publish(context.Background(), Event{Version: EventSchemaVersion, Type: Type("unheard")})
	if err != nil {
		t.Errorf("Publish to unsubscribed type returned error: %v", err)
	}
}

func TestMemoryBus_PublishError(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")

	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		return errors.New("handler error")
	})

	err := bus.Publish(context.Background(), Event{Version: EventSchemaVersion, Type: eventType})
	if err == nil {
		t.Error("Expected error from Publish, got nil")
	}
}

func TestPublishAfter(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("delayed_event")
	received := make(chan Event, 1)

	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		received <- event
		return nil
	})

	timer := PublishAfter(bus, 10*time.Millisecond, Event{Version: EventSchemaVersion, Type: eventType})
	defer timer.Stop()

	select {
	case evt := <-received:
		if evt.Type != eventType {
			t.Errorf("Expected type %s, got %s", eventType, evt.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("Delayed event was never published")
	}
}

func TestNewGiftSentEvent(t *testing.T) {
	payload := domain.GiftEventPayloadV1{
		RoomID:   "room-1",
		SenderID: "user-1",
		GiftID:   "rose",
		Quantity: 3,
	}

	evt := NewGiftSentEvent(payload)

	if evt.Type != GiftSent {
		t.Errorf("Expected type %s, got %s", GiftSent, evt.Type)
	}
	if evt.Version != EventSchemaVersion {
		t.Errorf("Expected version %s, got %s", EventSchemaVersion, evt.Version)
	}
	got, ok := evt.Payload.(domain.GiftEventPayloadV1)
	if !ok {
		t.Fatalf("Expected GiftEventPayloadV1 payload, got %T", evt.Payload)
	}
	if got.GiftID != "rose" || got.Quantity != 3 {
		t.Errorf("Payload fields not carried through: %+v", got)
	}
}

func TestNewLuckyWinClearedEvent(t *testing.T) {
	evt := NewLuckyWinClearedEvent("room-1", "user-1")

	if evt.Type != LuckyWinCleared {
		t.Errorf("Expected type %s, got %s", LuckyWinCleared, evt.Type)
	}
	got, ok := evt.Payload.(domain.LuckyWinPayloadV1)
	if !ok {
		t.Fatalf("Expected LuckyWinPayloadV1 payload, got %T", evt.Payload)
	}
	if got.RoomID != "room-1" || got.SenderID != "user-1" {
		t.Errorf("Payload fields not carried through: %+v", got)
	}
	if got.Amount != 0 {
		t.Errorf("Cleared event should carry no amount, got %d", got.Amount)
	}
}
