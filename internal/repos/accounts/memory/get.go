package memory

import (
	"github.com/fastprodman/transferledger/internal/repos/accounts"
)

func (s *Store) Get(id string) (accounts.Account, error) {
	s.dataMu.RLock()
	rec, ok := s.records[id]
	s.dataMu.RUnlock()

	if !ok {
		return accounts.Account{}, accounts.NewNotFoundError(id)
	}

	return rec.account(id), nil
}
