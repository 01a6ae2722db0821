package memory

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/fastprodman/transferledger/internal/repos/accounts"
)

var (
	ErrNilTransaction = errors.New("nil transaction body")
	ErrTxClosed       = errors.New("transaction already finished")
	ErrTxPanic        = errors.New("panic in transaction body")
)

// RunTransaction runs fn while holding the store-wide transaction lock.
// Writes are staged in the tx and applied in one step only if fn returns nil.
// An error or panic from fn discards them and comes back as
// *accounts.TransactionError.
func (s *Store) RunTransaction(fn func(tx accounts.Tx) error) error {
	if fn == nil {
		return &accounts.TransactionError{Err: ErrNilTransaction}
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	t := &tx{
		store:  s,
		staged: make(map[string]record),
	}
	defer t.closed.Store(true)

	err := runBody(fn, t)
	if err != nil {
		return &accounts.TransactionError{Err: err}
	}

	s.commit(t.staged)

	return nil
}

func runBody(fn func(tx accounts.Tx) error, t *tx) (err error) {
	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("%w: %v", ErrTxPanic, r)
		}
	}()

	return fn(t)
}

func (s *Store) commit(staged map[string]record) {
	if len(staged) == 0 {
		return
	}

	s.dataMu.Lock()
	defer s.dataMu.Unlock()

	for id, rec := range staged {
		s.records[id] = rec
	}
}

// tx is the handle given to a transaction body. records is read without
// dataMu here: it only changes in commit, which runs under txMu.
type tx struct {
	store  *Store
	staged map[string]record
	closed atomic.Bool
}

var _ accounts.Tx = (*tx)(nil)

func (t *tx) Get(id string) (accounts.Account, error) {
	if t.closed.Load() {
		return accounts.Account{}, ErrTxClosed
	}

	rec, ok := t.lookup(id)
	if !ok {
		return accounts.Account{}, accounts.NewNotFoundError(id)
	}

	return rec.account(id), nil
}

func (t *tx) Put(account accounts.Account) error {
	if t.closed.Load() {
		return ErrTxClosed
	}

	if account.ID == "" {
		return accounts.ErrEmptyAccountID
	}

	if account.Balance.IsNegative() {
		return fmt.Errorf("put %q: %w", account.ID, accounts.ErrNegativeBalance)
	}

	t.staged[account.ID] = record{
		balance: account.Balance,
		blocked: account.Blocked,
	}

	return nil
}

func (t *tx) lookup(id string) (record, bool) {
	rec, ok := t.staged[id]
	if ok {
		return rec, true
	}

	rec, ok = t.store.records[id]

	return rec, ok
}
