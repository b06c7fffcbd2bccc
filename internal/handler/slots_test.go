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

// MockSlotsService mocks the slots.Service interface
type MockSlotsService struct {
	mock.Mock
}

func (m *MockSlotsService) Pull(ctx context.Context, roomID, userID string, bet int64) (*domain.SlotsResult, error) {
	args := m.Called(ctx, roomID, userID, bet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SlotsResult), args.Error(1)
}

func TestHandlePull(t *testing.T) {
	winResult := &domain.SlotsResult{
		Bet:    10000,
		Payout: 200000,
		IsWin:  true,
	}

	tests := []struct {
		name           string
		reqBody        interface{}
		setupMocks     func(*MockSlotsService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "Success",
			reqBody: SlotsPullRequest{RoomID: "r1", UserID: "u1", Bet: 10000},
			setupMocks: func(ms *MockSlotsService) {
				ms.On("Pull", mock.Anything, "r1", "u1", int64(10000)).Return(winResult, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"payout":200000`,
		},
		{
			name:           "Invalid JSON",
			reqBody:        "invalid json",
			setupMocks:     func(ms *MockSlotsService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid request body",
		},
		{
			name:           "Non-Positive Bet",
			reqBody:        map[string]interface{}{"room_id": "r1", "user_id": "u1", "bet": -5},
			setupMocks:     func(ms *MockSlotsService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid request",
		},
		{
			name:    "Insufficient Funds",
			reqBody: SlotsPullRequest{RoomID: "r1", UserID: "u1", Bet: 10000},
			setupMocks: func(ms *MockSlotsService) {
				ms.On("Pull", mock.Anything, "r1", "u1", int64(10000)).
					Return(nil, domain.ErrInsufficientFunds)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Not enough coins",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockSlotsService)
			tt.setupMocks(service)
			h := NewSlotsHandler(service)

			var body bytes.Buffer
			if s, ok := tt.reqBody.(string); ok {
				body.WriteString(s)
			} else {
				assert.NoError(t, json.NewEncoder(&body).Encode(tt.reqBody))
			}

			req := httptest.NewRequest("POST", "/api/v1/slots/pull", &body)
			w := httptest.NewRecorder()

			h.HandlePull(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			service.AssertExpectations(t)
		})
	}
}
