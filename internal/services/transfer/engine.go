package transfer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fastprodman/transferledger/internal/repos/accounts"
)

type Engine struct {
	store accounts.Store
}

func New(store accounts.Store) *Engine {
	return &Engine{store: store}
}

// Transfer moves req.Amount from sender to receiver in a single store
// transaction:
//
// 1) Load sender, then receiver.
// 2) Reject a blocked sender, then a blocked receiver.
// 3) Compute both new balances and reject a negative sender balance.
// 4) Put both balances.
//
// Nothing is written unless every step passes. ctx is only used for logging;
// a started transfer is never abandoned.
func (e *Engine) Transfer(ctx context.Context, req Request) (Receipt, error) {
	if !req.Amount.IsPositive() {
		return Receipt{}, fmt.Errorf("transfer %s: %w", req.Amount, ErrInvalidAmount)
	}

	if req.SenderID == req.ReceiverID {
		return Receipt{}, fmt.Errorf("transfer to %q: %w", req.SenderID, ErrSameAccount)
	}

	err := e.store.RunTransaction(func(tx accounts.Tx) error {
		return apply(tx, req)
	})
	if err != nil {
		slog.InfoContext(ctx, "transfer rejected",
			"sender_id", req.SenderID,
			"receiver_id", req.ReceiverID,
			"amount", req.Amount.String(),
			"error", err,
		)

		return Receipt{}, fmt.Errorf("transfer: %w", err)
	}

	slog.DebugContext(ctx, "transfer applied",
		"sender_id", req.SenderID,
		"receiver_id", req.ReceiverID,
		"amount", req.Amount.String(),
	)

	return receiptFor(req), nil
}

func apply(tx accounts.Tx, req Request) error {
	sender, err := tx.Get(req.SenderID)
	if err != nil {
		return fmt.Errorf("load sender: %w", err)
	}

	receiver, err := tx.Get(req.ReceiverID)
	if err != nil {
		return fmt.Errorf("load receiver: %w", err)
	}

	if sender.Blocked {
		return &BlockedError{AccountID: sender.ID}
	}

	if receiver.Blocked {
		return &BlockedError{AccountID: receiver.ID}
	}

	newSenderBalance := sender.Balance.Sub(req.Amount)
	newReceiverBalance := receiver.Balance.Add(req.Amount)

	if newSenderBalance.IsNegative() {
		return &InsufficientFundsError{
			Requested: req.Amount,
			Available: sender.Balance,
		}
	}

	err = tx.Put(sender.WithBalance(newSenderBalance))
	if err != nil {
		return fmt.Errorf("put sender: %w", err)
	}

	err = tx.Put(receiver.WithBalance(newReceiverBalance))
	if err != nil {
		return fmt.Errorf("put receiver: %w", err)
	}

	return nil
}
