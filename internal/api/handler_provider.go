package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/fastprodman/transferledger/internal/repos/accounts"
	"github.com/fastprodman/transferledger/internal/services/provisioning"
	"github.com/fastprodman/transferledger/internal/services/transfer"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

type AccountService interface {
	Create(ctx context.Context, req provisioning.CreateRequest) (accounts.Account, error)
	Fetch(ctx context.Context, id string) (accounts.Account, error)
}

type TransferService interface {
	Transfer(ctx context.Context, req transfer.Request) (transfer.Receipt, error)
}

// HandlerProvider exposes the account and transfer services over HTTP.
type HandlerProvider struct {
	accounts  AccountService
	transfers TransferService
	validate  *validator.Validate
}

func NewHandler(accountsSvc AccountService, transfers TransferService) *HandlerProvider {
	return &HandlerProvider{
		accounts:  accountsSvc,
		transfers: transfers,
		validate:  newValidator(),
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// decodeBody reads a single JSON object with unknown fields rejected.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty body: %w", invalidArg("body"))
		}

		return fmt.Errorf("decode body: %v: %w", err, invalidArg("body"))
	}

	return nil
}

// parseAmount keeps the boundary contract: empty and non-numeric amounts
// never reach the engine.
func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Decimal{}, invalidArg("amount")
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse amount: %v: %w", err, invalidArg("amount"))
	}

	return amount, nil
}

// --- Handlers ---

// CreateAccountHandler handles POST /account/
func (h *HandlerProvider) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = validate(h.validate, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.accounts.Create(r.Context(), provisioning.CreateRequest{
		ID:      req.AccountID,
		Balance: req.Balance,
		Blocked: req.Blocked,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/account/"+created.ID)
	writeJSON(w, http.StatusCreated, toAccountResponse(created))
}

// GetAccountHandler handles GET /account/{accountId}
func (h *HandlerProvider) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "accountId")
	if id == "" {
		writeError(w, r, invalidArg("account_id"))
		return
	}

	account, err := h.accounts.Fetch(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

// TransferHandler handles POST /transfer/{senderId}/to/{receiverId}?amount=
func (h *HandlerProvider) TransferHandler(w http.ResponseWriter, r *http.Request) {
	params := transferParams{
		SenderID:   chi.URLParam(r, "senderId"),
		ReceiverID: chi.URLParam(r, "receiverId"),
		Amount:     r.URL.Query().Get("amount"),
	}

	err := validate(h.validate, params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	amount, err := parseAmount(params.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	receipt, err := h.transfers.Transfer(r.Context(), transfer.Request{
		SenderID:   params.SenderID,
		ReceiverID: params.ReceiverID,
		Amount:     amount,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toReceiptResponse(receipt))
}
