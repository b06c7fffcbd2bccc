package gift

import "time"

// LuckyBannerDuration is how long a lucky-win banner stays up before the
// cleared event follows it.
const LuckyBannerDuration = 5 * time.Second

// Ledger step names used in retry/abandon logs
const (
	StepRecipientCharm    = "recipient_charm"
	StepRecipientDiamonds = "recipient_diamonds"
)

// Warning strings returned on partial failure. The send itself has already
// committed by the time any of these can occur.
const (
	WarnWealthCreditFailed  = "wealth credit failed"
	WarnLeaderboardFailed   = "leaderboard update failed"
	WarnSeatMirrorFailed    = "seat charm mirror failed"
	WarnLuckyRefundFailed   = "lucky refund credit failed"
	WarnGiftLogFailed       = "gift event log append failed"
	WarnSenderLookupFailed  = "sender lookup failed"
	WarnRoomLookupFailed    = "room lookup failed"
	WarnAnnouncementFailed  = "announcement publish failed"
	WarnRecipientLookupSkip = "recipient lookup failed"
)

// Log Messages
const (
	LogMsgGiftSent          = "Gift sent"
	LogMsgPostDebitStepSoft = "Post-debit step failed, send preserved"
	LogMsgLuckyWinRolled    = "Lucky gift win"
	LogMsgRoomReset         = "Room leaderboard reset by host"
)
