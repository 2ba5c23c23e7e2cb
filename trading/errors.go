package trading

import "errors"

// Rejection reasons. These are business outcomes, not failures: handlers
// surface them to the user on the re-rendered trade form.
var (
	ErrInvalidAction      = errors.New("action must be buy or sell")
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrInvalidPrice       = errors.New("price must be a positive number")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrNoHolding          = errors.New("no shares held")
)

// IsRejection reports whether err is a business rejection rather than an
// infrastructure failure.
func IsRejection(err error) bool {
	for _, rejection := range []error{
		ErrInvalidAction,
		ErrInvalidAmount,
		ErrInvalidPrice,
		ErrInsufficientFunds,
		ErrInsufficientShares,
		ErrNoHolding,
	} {
		if errors.Is(err, rejection) {
			return true
		}
	}
	return false
}
