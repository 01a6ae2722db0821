package memory

import (
	"fmt"
	"sync"

	"github.com/fastprodman/transferledger/internal/repos/accounts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var _ accounts.Store = (*Store)(nil)

// record is what the map holds; the id lives only in the key.
type record struct {
	balance decimal.Decimal
	blocked bool
}

func (r record) account(id string) accounts.Account {
	return accounts.Account{ID: id, Balance: r.balance, Blocked: r.blocked}
}

// Store keeps accounts in process memory.
//
// txMu serializes transaction bodies. dataMu guards records and is held for
// writing only while a finished transaction applies its staged writes, so
// plain reads never wait for a transaction body.
type Store struct {
	txMu sync.Mutex

	dataMu  sync.RWMutex
	records map[string]record

	newID func() (string, error)
}

type Option func(*Store)

// WithIDGenerator replaces the random UUID source used by GenerateUniqueID.
func WithIDGenerator(fn func() (string, error)) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		records: make(map[string]record),
		newID:   randomID,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Len returns the number of committed accounts.
func (s *Store) Len() int {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()

	return len(s.records)
}

func randomID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("new uuid: %w", err)
	}

	return id.String(), nil
}
