package domain

// UserProfile is the roster view of a user: identity and display fields only.
// Currency lives in Wallet.
type UserProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// SelfRecipientLabel is the announcement label used when a sender gifts
// themselves.
const SelfRecipientLabel = "themselves 🌟"
