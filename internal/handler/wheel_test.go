package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pulseroom/pulseroom/internal/domain"
)

// MockWheelService mocks the wheel.Service interface
type MockWheelService struct {
	mock.Mock
}

func (m *MockWheelService) Open(ctx context.Context, roomID, userID string) (*domain.WheelRound, error) {
	args := m.Called(ctx, roomID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WheelRound), args.Error(1)
}

func (m *MockWheelService) PlaceBet(ctx context.Context, roomID, userID, optionID string, amount int64) (*domain.WheelRound, error) {
	args := m.Called(ctx, roomID, userID, optionID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WheelRound), args.Error(1)
}

func (m *MockWheelService) State(roomID, userID string) (*domain.WheelRound, error) {
	args := m.Called(roomID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WheelRound), args.Error(1)
}

func (m *MockWheelService) Close(ctx context.Context, roomID, userID string) error {
	args := m.Called(ctx, roomID, userID)
	return args.Error(0)
}

func (m *MockWheelService) Shutdown(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestHandlePlaceBet(t *testing.T) {
	bettingRound := &domain.WheelRound{
		Status: domain.WheelBetting,
		Bets:   map[string]int64{"777": 10000},
	}

	tests := []struct {
		name           string
		reqBody        interface{}
		setupMocks     func(*MockWheelService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "Success",
			reqBody: WheelBetRequest{RoomID: "r1", UserID: "u1", OptionID: "777", Amount: 10000},
			setupMocks: func(ms *MockWheelService) {
				ms.On("PlaceBet", mock.Anything, "r1", "u1", "777", int64(10000)).Return(bettingRound, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"777":10000`,
		},
		{
			name:           "Invalid JSON",
			reqBody:        "invalid json",
			setupMocks:     func(ms *MockWheelService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid request body",
		},
		{
			name:           "Missing Amount",
			reqBody:        WheelBetRequest{RoomID: "r1", UserID: "u1", OptionID: "777"},
			setupMocks:     func(ms *MockWheelService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid request",
		},
		{
			name:    "Insufficient Funds",
			reqBody: WheelBetRequest{RoomID: "r1", UserID: "u1", OptionID: "777", Amount: 10000},
			setupMocks: func(ms *MockWheelService) {
				ms.On("PlaceBet", mock.Anything, "r1", "u1", "777", int64(10000)).
					Return(nil, domain.ErrInsufficientFunds)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Not enough coins",
		},
		{
			name:    "Betting Closed",
			reqBody: WheelBetRequest{RoomID: "r1", UserID: "u1", OptionID: "777", Amount: 10000},
			setupMocks: func(ms *MockWheelService) {
				ms.On("PlaceBet", mock.Anything, "r1", "u1", "777", int64(10000)).
					Return(nil, domain.ErrInvalidBet)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "That bet can't be placed right now",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockWheelService)
			tt.setupMocks(service)
			h := NewWheelHandler(service)

			var body bytes.Buffer
			if s, ok := tt.reqBody.(string); ok {
				body.WriteString(s)
			} else {
				assert.NoError(t, json.NewEncoder(&body).Encode(tt.reqBody))
			}

			req := httptest.NewRequest("POST", "/api/v1/wheel/bet", &body)
			w := httptest.NewRecorder()

			h.HandlePlaceBet(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			service.AssertExpectations(t)
		})
	}
}

func TestHandleState_RequiresQueryParams(t *testing.T) {
	service := new(MockWheelService)
	h := NewWheelHandler(service)

	req := httptest.NewRequest("GET", "/api/v1/wheel/state?user_id=u1", nil)
	w := httptest.NewRecorder()

	h.HandleState(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "State")
}

func TestHandleClose_NoSession(t *testing.T) {
	service := new(MockWheelService)
	service.On("Close", mock.Anything, "r1", "u1").Return(domain.ErrSessionClosed)
	h := NewWheelHandler(service)

	body, _ := json.Marshal(CloseWheelRequest{RoomID: "r1", UserID: "u1"})
	req := httptest.NewRequest("POST", "/api/v1/wheel/close", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.HandleClose(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "The game session is not open")
}
