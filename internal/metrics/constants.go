package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameGiftsSent           = "gifts_sent_total"
	MetricNameGiftValue           = "gift_value_total"
	MetricNameLuckyWins           = "lucky_wins_total"
	MetricNameLuckyRefunds        = "lucky_refund_coins_total"
	MetricNameComboHits           = "combo_hits_total"
	MetricNameWheelRounds         = "wheel_rounds_total"
	MetricNameSlotsPulls          = "slots_pulls_total"
	MetricNameGamePayout          = "game_payout_coins_total"
	MetricNameLedgerWriteFailures = "ledger_write_failures_total"
	MetricNameLedgerWriteRetries  = "ledger_write_retries_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextGiftsSent           = "Total number of gift sends committed"
	HelpTextGiftValue           = "Total coin value debited through gift sends"
	HelpTextLuckyWins           = "Total number of lucky-gift bonus wins"
	HelpTextLuckyRefunds        = "Total coins refunded through lucky-gift wins"
	HelpTextComboHits           = "Total number of combo repeat hits"
	HelpTextWheelRounds         = "Total number of resolved wheel rounds"
	HelpTextSlotsPulls          = "Total number of resolved slots pulls"
	HelpTextGamePayout          = "Total coins paid out by mini-games"
	HelpTextLedgerWriteFailures = "Total number of ledger writes that exhausted retries"
	HelpTextLedgerWriteRetries  = "Total number of ledger write retry attempts"
)

// ============================================================================
// Label Names
// ============================================================================

const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelGift    = "gift"
	LabelGame    = "game"
	LabelOutcome = "outcome"
	LabelField   = "field"
)

// HTTPLatencyBuckets are the histogram buckets for request latency in seconds.
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
