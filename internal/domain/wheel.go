package domain

// WheelStatus is the phase of a wheel round.
type WheelStatus string

const (
	WheelBetting  WheelStatus = "betting"
	WheelSpinning WheelStatus = "spinning"
	WheelResult   WheelStatus = "result"
)

// WheelOption is one segment on the wheel. Multipliers come from
// configuration in two tiers: the rare jackpot segment and the common tier.
type WheelOption struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Icon       string `json:"icon"`
	Multiplier int64  `json:"multiplier"`
}

// WheelJackpotID is the segment that takes the jackpot multiplier tier.
const WheelJackpotID = "777"

// DefaultWheelOptions mirrors the client's wheel layout. Multipliers are
// placeholders replaced from GameSettings when a session starts.
var DefaultWheelOptions = []WheelOption{
	{ID: "777", Label: "777", Icon: "7️⃣"},
	{ID: "crown", Label: "Crown", Icon: "👑"},
	{ID: "gem", Label: "Gem", Icon: "💎"},
	{ID: "star", Label: "Star", Icon: "⭐"},
	{ID: "clover", Label: "Clover", Icon: "🍀"},
	{ID: "bell", Label: "Bell", Icon: "🔔"},
}

// WheelRound is the observable state of one wheel cycle.
type WheelRound struct {
	Status   WheelStatus      `json:"status"`
	TimeLeft int              `json:"time_left"`
	Bets     map[string]int64 `json:"bets"`
	Winner   *WheelOption     `json:"winner,omitempty"`
	WinPaid  int64            `json:"win_paid"`
	History  []WheelOption    `json:"history"`
}

// WheelHistoryCap bounds the most-recent-first winner history.
const WheelHistoryCap = 8
