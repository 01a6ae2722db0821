package accounts

import (
	"github.com/shopspring/decimal"
)

// Account is a ledger entry. Values are copies; mutating one never touches
// the store.
type Account struct {
	ID      string
	Balance decimal.Decimal
	Blocked bool
}

// WithBalance returns a copy of a with the balance replaced.
func (a Account) WithBalance(balance decimal.Decimal) Account {
	a.Balance = balance
	return a
}

// Store is the single source of truth for account records.
type Store interface {
	// Get returns the committed snapshot of an account. It never waits for
	// a running transaction.
	Get(id string) (Account, error)

	// RunTransaction runs fn with exclusive mutating access. Writes made
	// through tx become visible together when fn returns nil and are
	// discarded otherwise.
	RunTransaction(fn func(tx Tx) error) error
}

// Tx is the mutation handle passed to a transaction body. It is only valid
// until the body returns.
type Tx interface {
	Get(id string) (Account, error)
	Put(account Account) error
	GenerateUniqueID() (string, error)
}
