package ledger

import "time"

// Retry configuration for asynchronous ledger writes
const (
	// DefaultMaxWriteAttempts is the total number of tries per async write
	DefaultMaxWriteAttempts = 3

	// DefaultRetryBaseDelay is multiplied by the attempt number between tries
	DefaultRetryBaseDelay = 100 * time.Millisecond
)

// Log Messages
const (
	LogMsgAsyncWriteRetrying  = "Ledger write failed, retrying"
	LogMsgAsyncWriteAbandoned = "Ledger write abandoned after retries"
)
