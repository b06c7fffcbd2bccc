package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	GiftsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGiftsSent,
			Help: HelpTextGiftsSent,
		},
		[]string{LabelGift},
	)

	GiftValue = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGiftValue,
			Help: HelpTextGiftValue,
		},
		[]string{LabelGift},
	)

	LuckyWins = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLuckyWins,
			Help: HelpTextLuckyWins,
		},
	)

	LuckyRefunds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLuckyRefunds,
			Help: HelpTextLuckyRefunds,
		},
	)

	ComboHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameComboHits,
			Help: HelpTextComboHits,
		},
	)

	WheelRounds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWheelRounds,
			Help: HelpTextWheelRounds,
		},
		[]string{LabelOutcome},
	)

	SlotsPulls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSlotsPulls,
			Help: HelpTextSlotsPulls,
		},
		[]string{LabelOutcome},
	)

	GamePayout = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGamePayout,
			Help: HelpTextGamePayout,
		},
		[]string{LabelGame},
	)

	LedgerWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLedgerWriteFailures,
			Help: HelpTextLedgerWriteFailures,
		},
		[]string{LabelField},
	)

	LedgerWriteRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLedgerWriteRetries,
			Help: HelpTextLedgerWriteRetries,
		},
		[]string{LabelField},
	)
)
