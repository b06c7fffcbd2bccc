package wheel

import "time"

// Phase durations for one wheel cycle.
const (
	DefaultBettingDuration  = 15 * time.Second
	DefaultSpinningDuration = 7 * time.Second
	DefaultResultDuration   = 5 * time.Second
)

// Metric outcome label values
const (
	OutcomeWin  = "win"
	OutcomeLose = "lose"
)

// Log Messages
const (
	LogMsgSessionOpened   = "Wheel session opened"
	LogMsgSessionClosed   = "Wheel session closed"
	LogMsgBetPlaced       = "Wheel bet placed"
	LogMsgLateBetRefunded = "Wheel bet arrived after betting closed, refunding"
	LogMsgWinnerFixed     = "Wheel winner fixed"
	LogMsgRoundSettled    = "Wheel round settled"
	LogMsgSettledOnClose  = "Wheel round settled during close"
	LogMsgShuttingDown    = "Shutting down wheel sessions"
)
