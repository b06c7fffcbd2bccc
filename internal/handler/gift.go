package handler

import (
	"net/http"

	"github.com/pulseroom/pulseroom/internal/catalog"
	"github.com/pulseroom/pulseroom/internal/combo"
	"github.com/pulseroom/pulseroom/internal/domain"
	"github.com/pulseroom/pulseroom/internal/gift"
	"github.com/pulseroom/pulseroom/internal/logger"
)

// Default leaderboard / event replay window sizes
const (
	DefaultLeaderboardLimit = 10
	DefaultRecentLimit      = 8
)

type GiftHandler struct {
	service    gift.Service
	catalogSvc catalog.Service
	tracker    *combo.Tracker
}

func NewGiftHandler(service gift.Service, catalogSvc catalog.Service, tracker *combo.Tracker) *GiftHandler {
	return &GiftHandler{
		service:    service,
		catalogSvc: catalogSvc,
		tracker:    tracker,
	}
}

type SendGiftRequest struct {
	GiftID       string   `json:"gift_id" validate:"required"`
	RoomID       string   `json:"room_id" validate:"required"`
	SenderID     string   `json:"sender_id" validate:"required"`
	RecipientIDs []string `json:"recipient_ids" validate:"required,min=1"`
	Quantity     int64    `json:"quantity" validate:"required,gte=1"`
}

func (h *GiftHandler) HandleSendGift(w http.ResponseWriter, r *http.Request) {
	var req SendGiftRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Send gift"); err != nil {
		return
	}

	result, err := h.service.Send(r.Context(), domain.GiftTransaction{
		Gift:         domain.Gift{ID: req.GiftID},
		RoomID:       req.RoomID,
		SenderID:     req.SenderID,
		RecipientIDs: req.RecipientIDs,
		Quantity:     req.Quantity,
	})
	if err != nil {
		respondServiceError(w, r, "Send gift", err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

type ComboHitRequest struct {
	RoomID   string `json:"room_id" validate:"required"`
	SenderID string `json:"sender_id" validate:"required"`
}

func (h *GiftHandler) HandleComboHit(w http.ResponseWriter, r *http.Request) {
	var req ComboHitRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Combo hit"); err != nil {
		return
	}

	result, err := h.tracker.Hit(r.Context(), req.RoomID, req.SenderID)
	if err != nil {
		logger.FromContext(r.Context()).Warn("Combo hit rejected", "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *GiftHandler) HandleGetCombo(w http.ResponseWriter, r *http.Request) {
	roomID, ok := GetQueryParam(r, w, "room_id")
	if !ok {
		return
	}
	senderID, ok := GetQueryParam(r, w, "sender_id")
	if !ok {
		return
	}

	state := h.tracker.Get(roomID, senderID)
	if state == nil {
		respondError(w, http.StatusNotFound, ErrMsgComboOverError)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (h *GiftHandler) HandleListGifts(w http.ResponseWriter, r *http.Request) {
	gifts, err := h.catalogSvc.ListGifts(r.Context())
	if err != nil {
		respondServiceError(w, r, "List gifts", err)
		return
	}
	respondJSON(w, http.StatusOK, gifts)
}

func (h *GiftHandler) HandleRecentEvents(w http.ResponseWriter, r *http.Request) {
	roomID, ok := GetQueryParam(r, w, "room_id")
	if !ok {
		return
	}
	limit := GetOptionalIntParam(r, "limit", DefaultRecentLimit)

	events, err := h.service.RecentEvents(r.Context(), roomID, limit)
	if err != nil {
		respondServiceError(w, r, "Recent gift events", err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

func (h *GiftHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	roomID, ok := GetQueryParam(r, w, "room_id")
	if !ok {
		return
	}
	limit := GetOptionalIntParam(r, "limit", DefaultLeaderboardLimit)

	entries, err := h.service.TopContributors(r.Context(), roomID, limit)
	if err != nil {
		respondServiceError(w, r, "Room leaderboard", err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

type ResetRoomRequest struct {
	RoomID      string `json:"room_id" validate:"required"`
	RequesterID string `json:"requester_id" validate:"required"`
}

func (h *GiftHandler) HandleResetRoom(w http.ResponseWriter, r *http.Request) {
	var req ResetRoomRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Reset room"); err != nil {
		return
	}

	if err := h.service.ResetRoom(r.Context(), req.RoomID, req.RequesterID); err != nil {
		respondServiceError(w, r, "Reset room", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgRoomResetSuccess})
}
