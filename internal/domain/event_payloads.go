package domain

import "time"

// Typed event payloads emitted for presentation/animation consumers.
// The engine renders nothing; these are the contract with the realtime layer.

// GiftEventPayloadV1 is published once per committed gift send.
type GiftEventPayloadV1 struct {
	GiftID        string    `json:"gift_id"`
	GiftName      string    `json:"gift_name"`
	GiftIcon      string    `json:"gift_icon"`
	AnimationKind string    `json:"animation_kind"`
	RoomID        string    `json:"room_id"`
	SenderID      string    `json:"sender_id"`
	SenderName    string    `json:"sender_name"`
	RecipientIDs  []string  `json:"recipient_ids"`
	Quantity      int64     `json:"quantity"`
	Timestamp     time.Time `json:"timestamp"`
}

// AnnouncementPayloadV1 is published once per recipient for global-broadcast
// consumers.
type AnnouncementPayloadV1 struct {
	SenderName    string `json:"sender_name"`
	RecipientName string `json:"recipient_name"`
	GiftName      string `json:"gift_name"`
	GiftIcon      string `json:"gift_icon"`
	Amount        int64  `json:"amount"`
	AmountText    string `json:"amount_text"`
	RoomID        string `json:"room_id"`
	RoomTitle     string `json:"room_title"`
}

// LuckyWinPayloadV1 announces a lucky-gift bonus refund. The banner
// self-expires: a matching cleared event follows after the banner window.
type LuckyWinPayloadV1 struct {
	RoomID   string `json:"room_id"`
	SenderID string `json:"sender_id"`
	Amount   int64  `json:"amount"`
}

// ComboPayloadV1 reports combo streak progress.
type ComboPayloadV1 struct {
	RoomID   string `json:"room_id"`
	SenderID string `json:"sender_id"`
	GiftID   string `json:"gift_id"`
	Count    int    `json:"count"`
}

// WheelResultPayloadV1 reports a fixed wheel winner for a session.
type WheelResultPayloadV1 struct {
	RoomID   string `json:"room_id"`
	UserID   string `json:"user_id"`
	OptionID string `json:"option_id"`
	Paid     int64  `json:"paid"`
}

// SlotsResultPayloadV1 reports a resolved slots pull.
type SlotsResultPayloadV1 struct {
	RoomID  string    `json:"room_id"`
	UserID  string    `json:"user_id"`
	ReelIDs [3]string `json:"reel_ids"`
	Paid    int64     `json:"paid"`
}
