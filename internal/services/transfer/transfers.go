package transfer

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Request struct {
	SenderID   string
	ReceiverID string
	Amount     decimal.Decimal
}

// Receipt echoes a transfer that was applied.
type Receipt struct {
	SenderID   string
	ReceiverID string
	Amount     decimal.Decimal
}

func receiptFor(req Request) Receipt {
	return Receipt{
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Amount:     req.Amount,
	}
}

var (
	ErrAccountBlocked    = errors.New("account blocked")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrSameAccount       = errors.New("sender and receiver must differ")
)

type BlockedError struct {
	AccountID string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("account %q is blocked", e.AccountID)
}

func (e *BlockedError) Is(target error) bool {
	return target == ErrAccountBlocked
}

// InsufficientFundsError reports the sender balance before the attempt.
type InsufficientFundsError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: requested %s, available %s", e.Requested, e.Available)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}
