package domain

// Gift is a catalog entry for a sendable gift.
type Gift struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	Cost          int64  `json:"cost"`
	IsLucky       bool   `json:"is_lucky"`
	AnimationKind string `json:"animation_kind"` // presentation hint, opaque to the engine
}

// GiftTransaction is the unit of work for one gift send. It is ephemeral and
// never persisted as an entity.
type GiftTransaction struct {
	Gift         Gift
	RoomID       string
	SenderID     string
	RecipientIDs []string
	Quantity     int64
	FromCombo    bool // set by the combo tracker to prevent nested combo chains
}

// TotalCost is the full debit taken from the sender:
// cost x quantity x number of recipients.
func (t *GiftTransaction) TotalCost() int64 {
	return t.Gift.Cost * t.Quantity * int64(len(t.RecipientIDs))
}

// PerRecipientAmount is the charm/diamond credit each recipient receives:
// the full per-recipient price, not divided across recipients.
func (t *GiftTransaction) PerRecipientAmount() int64 {
	return t.Gift.Cost * t.Quantity
}

// Validate checks the structural preconditions of a send. Funds are checked
// separately against the sender's wallet.
func (t *GiftTransaction) Validate() error {
	if t.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if len(t.RecipientIDs) == 0 {
		return ErrNoRecipients
	}
	return nil
}

// SendResult summarizes the committed portion of a gift send.
type SendResult struct {
	TotalCost    int64    `json:"total_cost"`
	LuckyWin     bool     `json:"lucky_win"`
	LuckyRefund  int64    `json:"lucky_refund"`
	ComboCount   int      `json:"combo_count"`
	RecipientIDs []string `json:"recipient_ids"`
	// Warnings carries post-debit effects that failed and were queued for
	// retry. The send itself still counts as a success.
	Warnings []string `json:"warnings,omitempty"`
}
