package session

import "errors"

// User-facing action errors. These are surfaced directly; they stay
// short and actionable rather than exposing transport detail.
var (
	ErrInvalidScope         = errors.New("no auction or lot selected")
	ErrNotAuthenticated     = errors.New("sign in to participate")
	ErrRoomNotLoaded        = errors.New("the auction is still loading")
	ErrLotNotFound          = errors.New("this lot is not part of the auction")
	ErrLotSold              = errors.New("this lot has already been sold")
	ErrBidTooLow            = errors.New("bid is below the minimum for this lot")
	ErrVerificationMismatch = errors.New("verification code does not match")
	ErrNoBuyNowPrice        = errors.New("this lot cannot be bought outright")
	ErrConfirmationMismatch = errors.New("type the confirmation phrase to buy now")
	ErrEmptyMessage         = errors.New("message is empty")
)

func loadFailureMessage(err error) string {
	return "couldn't load the auction: " + err.Error()
}
