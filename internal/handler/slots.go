package handler

import (
	"net/http"

	"github.com/pulseroom/pulseroom/internal/slots"
)

type SlotsHandler struct {
	service slots.Service
}

func NewSlotsHandler(service slots.Service) *SlotsHandler {
	return &SlotsHandler{service: service}
}

type SlotsPullRequest struct {
	RoomID string `json:"room_id" validate:"required"`
	UserID string `json:"user_id" validate:"required"`
	Bet    int64  `json:"bet" validate:"required,gt=0"`
}

func (h *SlotsHandler) HandlePull(w http.ResponseWriter, r *http.Request) {
	var req SlotsPullRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Slots pull"); err != nil {
		return
	}

	result, err := h.service.Pull(r.Context(), req.RoomID, req.UserID, req.Bet)
	if err != nil {
		respondServiceError(w, r, "Slots pull", err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}
