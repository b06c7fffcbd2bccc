package domain

import "time"

// ComboState is a sender's active streak in one room. Created on the first
// send of a gift, extended on every repeat hit, destroyed when the idle
// window elapses, and implicitly superseded when a different send starts.
type ComboState struct {
	RoomID     string    `json:"room_id"`
	SenderID   string    `json:"sender_id"`
	Gift       Gift      `json:"gift"`
	Recipients []string  `json:"recipients"`
	Count      int       `json:"count"`
	ExpiresAt  time.Time `json:"expires_at"`
}
