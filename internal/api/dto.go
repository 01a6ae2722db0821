package api

import (
	"github.com/fastprodman/transferledger/internal/repos/accounts"
	"github.com/fastprodman/transferledger/internal/services/transfer"
	"github.com/shopspring/decimal"
)

type createAccountRequest struct {
	AccountID *string          `json:"account_id" validate:"omitempty,max=128,excludesall=/?#"`
	Balance   *decimal.Decimal `json:"balance"`
	Blocked   *bool            `json:"blocked"`
}

type accountResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	Blocked   bool            `json:"blocked"`
}

func toAccountResponse(a accounts.Account) accountResponse {
	return accountResponse{
		AccountID: a.ID,
		Balance:   a.Balance,
		Blocked:   a.Blocked,
	}
}

// transferParams is assembled from the path and the query string.
type transferParams struct {
	SenderID   string `json:"sender_id"   validate:"required"`
	ReceiverID string `json:"receiver_id" validate:"required"`
	Amount     string `json:"amount"      validate:"required,numeric"`
}

type receiptResponse struct {
	SenderID   string          `json:"sender_id"`
	ReceiverID string          `json:"receiver_id"`
	Amount     decimal.Decimal `json:"amount"`
}

func toReceiptResponse(r transfer.Receipt) receiptResponse {
	return receiptResponse{
		SenderID:   r.SenderID,
		ReceiverID: r.ReceiverID,
		Amount:     r.Amount,
	}
}
