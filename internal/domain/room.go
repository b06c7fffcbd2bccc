package domain

import "time"

// Seat is a speaker's record on a room mic, including the read-optimized
// charm mirror used for in-room display.
type Seat struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	SeatIndex int    `json:"seat_index"`
	IsMuted   bool   `json:"is_muted"`
	Charm     int64  `json:"charm"`
}

// RoomSnapshot is the engine's view of a room. The engine holds no ambient
// room state; snapshots arrive as per-call parameters.
type RoomSnapshot struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	HostID   string `json:"host_id"`
	Speakers []Seat `json:"speakers"`
}

// LeaderboardEntry is one contributor's cumulative gift spend in a room.
// Amounts only ever grow through gift sends; the sole sanctioned decrement is
// an explicit host moderation reset.
type LeaderboardEntry struct {
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Amount    int64     `json:"amount"`
	UpdatedAt time.Time `json:"updated_at"`
}
