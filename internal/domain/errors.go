package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Wallet errors
	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgUnknownField      = "unknown balance field"

	// User errors
	ErrMsgUserNotFound = "user not found"

	// Gift errors
	ErrMsgGiftNotFound    = "gift not found"
	ErrMsgInvalidQuantity = "quantity must be positive"
	ErrMsgNoRecipients    = "at least one recipient is required"

	// Game errors
	ErrMsgInvalidBet    = "invalid bet"
	ErrMsgSessionClosed = "session is closed"

	// Room errors
	ErrMsgRoomNotFound = "room not found"
	ErrMsgNotHost      = "only the room host may do that"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Wallet errors
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrUnknownField      = errors.New(ErrMsgUnknownField)

	// User errors
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	// Gift errors
	ErrGiftNotFound    = errors.New(ErrMsgGiftNotFound)
	ErrInvalidQuantity = errors.New(ErrMsgInvalidQuantity)
	ErrNoRecipients    = errors.New(ErrMsgNoRecipients)

	// Game errors
	ErrInvalidBet    = errors.New(ErrMsgInvalidBet)
	ErrSessionClosed = errors.New(ErrMsgSessionClosed)

	// Room errors
	ErrRoomNotFound = errors.New(ErrMsgRoomNotFound)
	ErrNotHost      = errors.New(ErrMsgNotHost)
)

// TransientWriteError reports a downstream write that failed after the sender
// was already debited. It is surfaced to callers as a warning, never by
// reversing the debit.
type TransientWriteError struct {
	Step string
	Err  error
}

func (e *TransientWriteError) Error() string {
	return fmt.Sprintf("transient write failure at %s: %v", e.Step, e.Err)
}

func (e *TransientWriteError) Unwrap() error { return e.Err }
