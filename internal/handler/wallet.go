package handler

import (
	"net/http"

	"github.com/pulseroom/pulseroom/internal/ledger"
)

// HandleGetWallet returns a user's currency counters
func HandleGetWallet(ledgerSvc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, "user_id")
		if !ok {
			return
		}

		wallet, err := ledgerSvc.Balance(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, "Get wallet", err)
			return
		}

		respondJSON(w, http.StatusOK, wallet)
	}
}
