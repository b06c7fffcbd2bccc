package domain

import "time"

// SlotSymbol is one reel symbol. The seven and diamond symbols take the high
// multiplier tier, everything else the fruit tier.
type SlotSymbol struct {
	ID         string `json:"id"`
	Icon       string `json:"icon"`
	Multiplier int64  `json:"multiplier"`
}

// Symbol IDs on the high multiplier tier.
const (
	SlotSymbolSeven   = "seven"
	SlotSymbolDiamond = "diamond"
)

// DefaultSlotSymbols mirrors the client's reel strip. Multipliers are
// placeholders replaced from GameSettings when a session starts.
var DefaultSlotSymbols = []SlotSymbol{
	{ID: "seven", Icon: "7️⃣"},
	{ID: "diamond", Icon: "💎"},
	{ID: "cherry", Icon: "🍒"},
	{ID: "lemon", Icon: "🍋"},
	{ID: "grape", Icon: "🍇"},
	{ID: "watermelon", Icon: "🍉"},
}

// SlotsResult is the outcome of a single pull. The financial effect is
// committed at initiation time; RevealAt is when the presentation layer may
// show it.
type SlotsResult struct {
	Reels    [3]SlotSymbol `json:"reels"`
	Bet      int64         `json:"bet"`
	Payout   int64         `json:"payout"`
	IsWin    bool          `json:"is_win"`
	RevealAt time.Time     `json:"reveal_at"`
}
