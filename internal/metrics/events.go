package metrics

import (
	"context"

	"github.com/pulseroom/pulseroom/internal/event"
)

// EventMetricsCollector subscribes to the event bus and counts published
// events per type. Business counters are incremented at the source; this
// collector only tracks bus throughput.
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all event types the engine emits.
func (e *EventMetricsCollector) Register(bus event.Bus) {
	eventTypes := []event.Type{
		event.GiftSent,
		event.GiftAnnounced,
		event.LuckyWin,
		event.LuckyWinCleared,
		event.ComboProgress,
		event.ComboExpired,
		event.WheelResult,
		event.SlotsResult,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
}

// HandleEvent counts one delivered event.
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()
	return nil
}
