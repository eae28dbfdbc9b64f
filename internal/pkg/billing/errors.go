package billing

import (
	"errors"
	"fmt"
)

// Expected business outcomes of the upgrade flow. These are matched with
// errors.Is / errors.As by the HTTP layer; anything else is treated as an
// opaque persistence failure.
var (
	ErrTierNotFound        = errors.New("tier not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrDowngradeNotAllowed = errors.New("downgrade is not allowed through upgrade")
	ErrSubscriptionExists  = errors.New("an entitling subscription already exists")
)

// InsufficientFundsError carries the structured data a caller needs to render
// a localized shortfall message.
type InsufficientFundsError struct {
	RequiredMinor  int64
	AvailableMinor int64
	Currency       string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %d, available %d (%s)",
		e.RequiredMinor, e.AvailableMinor, e.Currency)
}
