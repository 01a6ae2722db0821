package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/fastprodman/transferledger/internal/repos/accounts"
	"github.com/fastprodman/transferledger/internal/services/provisioning"
	"github.com/fastprodman/transferledger/internal/services/transfer"
)

var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError names the request parameter that could not be used.
type InvalidArgumentError struct {
	Param string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q", e.Param)
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func invalidArg(param string) error {
	return &InvalidArgumentError{Param: param}
}

type Reason string

const (
	ReasonAccountNotFound Reason = "ACCOUNT_NOT_FOUND"
	ReasonNotEnoughFunds  Reason = "NOT_ENOUGH_FUNDS"
	ReasonAccountBlocked  Reason = "ACCOUNT_IS_BLOCKED"
	ReasonAccountExists   Reason = "ACCOUNT_EXISTS"
	ReasonInvalidParam    Reason = "INVALID_PARAM"
	ReasonUnknown         Reason = "UNKNOWN"
)

type errorResponse struct {
	Reason Reason   `json:"reason"`
	Values []string `json:"values"`
}

// mapError turns a core or boundary error into a status code and body.
//
//nolint:cyclop
func mapError(err error) (int, errorResponse) {
	var (
		invalid  *InvalidArgumentError
		notFound *accounts.NotFoundError
		blocked  *transfer.BlockedError
		funds    *transfer.InsufficientFundsError
		exists   *provisioning.ExistsError
	)

	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, errorResponse{Reason: ReasonInvalidParam, Values: []string{invalid.Param}}
	case errors.As(err, &notFound):
		return http.StatusNotFound, errorResponse{Reason: ReasonAccountNotFound, Values: []string{notFound.AccountID}}
	case errors.As(err, &blocked):
		return http.StatusForbidden, errorResponse{Reason: ReasonAccountBlocked, Values: []string{blocked.AccountID}}
	case errors.As(err, &funds):
		return http.StatusBadRequest, errorResponse{Reason: ReasonNotEnoughFunds, Values: []string{funds.Available.String()}}
	case errors.As(err, &exists):
		return http.StatusConflict, errorResponse{Reason: ReasonAccountExists, Values: []string{exists.AccountID}}
	case errors.Is(err, transfer.ErrInvalidAmount):
		return http.StatusBadRequest, errorResponse{Reason: ReasonInvalidParam, Values: []string{"amount"}}
	case errors.Is(err, transfer.ErrSameAccount):
		return http.StatusBadRequest, errorResponse{Reason: ReasonInvalidParam, Values: []string{"receiver_id"}}
	case errors.Is(err, accounts.ErrNegativeBalance):
		return http.StatusBadRequest, errorResponse{Reason: ReasonInvalidParam, Values: []string{"balance"}}
	default:
		return http.StatusInternalServerError, errorResponse{Reason: ReasonUnknown, Values: []string{}}
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := mapError(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	writeJSON(w, status, body)
}
