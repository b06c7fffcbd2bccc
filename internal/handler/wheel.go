package handler

import (
	"net/http"

	"github.com/pulseroom/pulseroom/internal/wheel"
)

type WheelHandler struct {
	service wheel.Service
}

func NewWheelHandler(service wheel.Service) *WheelHandler {
	return &WheelHandler{service: service}
}

type OpenWheelRequest struct {
	RoomID string `json:"room_id" validate:"required"`
	UserID string `json:"user_id" validate:"required"`
}

func (h *WheelHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	var req OpenWheelRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Open wheel"); err != nil {
		return
	}

	round, err := h.service.Open(r.Context(), req.RoomID, req.UserID)
	if err != nil {
		respondServiceError(w, r, "Open wheel", err)
		return
	}

	respondJSON(w, http.StatusCreated, round)
}

type WheelBetRequest struct {
	RoomID   string `json:"room_id" validate:"required"`
	UserID   string `json:"user_id" validate:"required"`
	OptionID string `json:"option_id" validate:"required"`
	Amount   int64  `json:"amount" validate:"required,gt=0"`
}

func (h *WheelHandler) HandlePlaceBet(w http.ResponseWriter, r *http.Request) {
	var req WheelBetRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Place wheel bet"); err != nil {
		return
	}

	round, err := h.service.PlaceBet(r.Context(), req.RoomID, req.UserID, req.OptionID, req.Amount)
	if err != nil {
		respondServiceError(w, r, "Place wheel bet", err)
		return
	}

	respondJSON(w, http.StatusOK, round)
}

func (h *WheelHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	roomID, ok := GetQueryParam(r, w, "room_id")
	if !ok {
		return
	}
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	round, err := h.service.State(roomID, userID)
	if err != nil {
		respondServiceError(w, r, "Wheel state", err)
		return
	}

	respondJSON(w, http.StatusOK, round)
}

type CloseWheelRequest struct {
	RoomID string `json:"room_id" validate:"required"`
	UserID string `json:"user_id" validate:"required"`
}

func (h *WheelHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	var req CloseWheelRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Close wheel"); err != nil {
		return
	}

	if err := h.service.Close(r.Context(), req.RoomID, req.UserID); err != nil {
		respondServiceError(w, r, "Close wheel", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgSessionClosedSuccess})
}
