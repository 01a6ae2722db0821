package accounts

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmptyAccountID  = errors.New("empty account id")
	ErrNegativeBalance = errors.New("negative balance")
)

// NotFoundError carries the id of the missing account.
type NotFoundError struct {
	AccountID string
}

func NewNotFoundError(id string) *NotFoundError {
	return &NotFoundError{AccountID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("account %q not found", e.AccountID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrAccountNotFound
}

// TransactionError reports an aborted transaction. Err is whatever the body
// returned, or the recovered panic value.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction aborted: %v", e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
