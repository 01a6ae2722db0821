package memory

import (
	"testing"

	"github.com/fastprodman/transferledger/internal/repos/accounts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *Store, accs ...accounts.Account) {
	t.Helper()

	err := s.RunTransaction(func(tx accounts.Tx) error {
		for _, a := range accs {
			err := tx.Put(a)
			if err != nil {
				return err
			}
		}

		return nil
	})
	require.NoError(t, err, "seed accounts")
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	require.NoError(t, err)

	return d
}
