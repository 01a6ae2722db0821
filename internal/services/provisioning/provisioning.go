package provisioning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fastprodman/transferledger/internal/repos/accounts"
	"github.com/shopspring/decimal"
)

var ErrAccountExists = errors.New("account already exists")

type ExistsError struct {
	AccountID string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("account %q already exists", e.AccountID)
}

func (e *ExistsError) Is(target error) bool {
	return target == ErrAccountExists
}

// CreateRequest holds the optional fields of a new account. Nil means
// "use the default".
type CreateRequest struct {
	ID      *string
	Balance *decimal.Decimal
	Blocked *bool
}

type Service struct {
	store accounts.Store
}

func New(store accounts.Store) *Service {
	return &Service{store: store}
}

// Create stores a new account in one transaction. A missing id is generated
// by the store, a missing balance is zero and a missing blocked flag is false.
func (s *Service) Create(ctx context.Context, req CreateRequest) (accounts.Account, error) {
	account, err := accounts.WithTx(s.store, func(tx accounts.Tx) (accounts.Account, error) {
		id, err := resolveID(tx, req.ID)
		if err != nil {
			return accounts.Account{}, err
		}

		account := accounts.Account{
			ID:      id,
			Balance: decimal.Zero,
		}

		if req.Balance != nil {
			account.Balance = *req.Balance
		}

		if req.Blocked != nil {
			account.Blocked = *req.Blocked
		}

		err = tx.Put(account)
		if err != nil {
			return accounts.Account{}, fmt.Errorf("put account: %w", err)
		}

		return account, nil
	})
	if err != nil {
		return accounts.Account{}, fmt.Errorf("create account: %w", err)
	}

	slog.DebugContext(ctx, "account created",
		"account_id", account.ID,
		"balance", account.Balance.String(),
		"blocked", account.Blocked,
	)

	return account, nil
}

func resolveID(tx accounts.Tx, requested *string) (string, error) {
	if requested == nil || *requested == "" {
		id, err := tx.GenerateUniqueID()
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}

		return id, nil
	}

	_, err := tx.Get(*requested)
	switch {
	case err == nil:
		return "", &ExistsError{AccountID: *requested}
	case errors.Is(err, accounts.ErrAccountNotFound):
		return *requested, nil
	default:
		return "", fmt.Errorf("check existing: %w", err)
	}
}

// Fetch returns the committed state of an account.
func (s *Service) Fetch(_ context.Context, id string) (accounts.Account, error) {
	account, err := s.store.Get(id)
	if err != nil {
		return accounts.Account{}, fmt.Errorf("fetch account: %w", err)
	}

	return account, nil
}
