package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pulseroom/pulseroom/internal/domain"
	"github.com/pulseroom/pulseroom/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Helper functions for responding

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Get a buffer from the pool to reduce allocations
	buf := getBuffer()
	defer putBuffer(buf)

	// Encode to the buffer first
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Log the error - we can't write to response at this point since headers are sent
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	// Write the buffer to the response
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs a failed service call and writes the mapped
// user-facing response.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	logger.FromContext(r.Context()).Error("Service call failed", "op", opName, "error", err)
	statusCode, userMsg := mapServiceErrorToUserMessage(err)
	respondError(w, statusCode, userMsg)
}

// User-facing error messages for service errors
// These messages are derived from domain errors and provide helpful guidance to users
const (
	// Generic messages
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgServerErrorError    = "Server error occurred. Please try again."
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."

	// Wallet messages
	ErrMsgNotEnoughCoinsError = "Not enough coins"

	// User and room messages
	ErrMsgUserNotFoundError = "User not found"
	ErrMsgRoomNotFoundError = "Room not found"
	ErrMsgNotHostError      = "Only the room host can do that"

	// Gift messages
	ErrMsgGiftNotFoundError     = "Gift not found"
	ErrMsgQuantityPositiveError = "Quantity must be at least 1"
	ErrMsgNoRecipientsError     = "Pick at least one recipient"
	ErrMsgComboOverError        = "That combo has ended"

	// Game messages
	ErrMsgInvalidBetError    = "That bet can't be placed right now"
	ErrMsgSessionClosedError = "The game session is not open"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses
// This function converts internal service errors to appropriate HTTP status codes and messages
// that users can understand and act upon.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	// Check for specific domain errors
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, ErrMsgNotEnoughCoinsError
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusBadRequest, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrRoomNotFound):
		return http.StatusBadRequest, ErrMsgRoomNotFoundError
	case errors.Is(err, domain.ErrNotHost):
		return http.StatusForbidden, ErrMsgNotHostError
	case errors.Is(err, domain.ErrGiftNotFound):
		return http.StatusBadRequest, ErrMsgGiftNotFoundError
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest, ErrMsgQuantityPositiveError
	case errors.Is(err, domain.ErrNoRecipients):
		return http.StatusBadRequest, ErrMsgNoRecipientsError
	case errors.Is(err, domain.ErrInvalidBet):
		return http.StatusBadRequest, ErrMsgInvalidBetError
	case errors.Is(err, domain.ErrSessionClosed):
		return http.StatusConflict, ErrMsgSessionClosedError
	case errors.Is(err, domain.ErrUnknownField):
		return http.StatusBadRequest, ErrMsgInvalidRequestError
	default:
		return http.StatusInternalServerError, ErrMsgServerErrorError
	}
}
