package domain

// BalanceField identifies one of the per-user currency counters.
// Coins is the only spendable balance; the others are monotonically
// increasing scores and are never decremented by gift or game flows.
type BalanceField string

const (
	FieldCoins    BalanceField = "coins"
	FieldWealth   BalanceField = "wealth"
	FieldCharm    BalanceField = "charm"
	FieldDiamonds BalanceField = "diamonds"
)

// Valid reports whether f names a known wallet counter.
func (f BalanceField) Valid() bool {
	switch f {
	case FieldCoins, FieldWealth, FieldCharm, FieldDiamonds:
		return true
	}
	return false
}

// Wallet is a snapshot of a user's currency counters. Mutation happens only
// through ledger deltas, never by writing a Wallet back wholesale.
type Wallet struct {
	UserID   string `json:"user_id"`
	Coins    int64  `json:"coins"`
	Wealth   int64  `json:"wealth"`
	Charm    int64  `json:"charm"`
	Diamonds int64  `json:"diamonds"`
}

// Field returns the value of the named counter.
func (w *Wallet) Field(f BalanceField) int64 {
	switch f {
	case FieldCoins:
		return w.Coins
	case FieldWealth:
		return w.Wealth
	case FieldCharm:
		return w.Charm
	case FieldDiamonds:
		return w.Diamonds
	}
	return 0
}
