package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fastprodman/transferledger/internal/repos/accounts"
	"github.com/fastprodman/transferledger/internal/repos/accounts/memory"
	"github.com/fastprodman/transferledger/internal/services/provisioning"
	"github.com/fastprodman/transferledger/internal/services/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	handler http.Handler
	store   *memory.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	store := memory.New()

	return fixture{
		handler: NewRouter(provisioning.New(store), transfer.New(store)),
		store:   store,
	}
}

func (f fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	return rec
}

func (f fixture) create(t *testing.T, body string) accountResponse {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/account/", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out accountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	return out
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()

	var out errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())

	return out
}

func TestCreateAccountHandler(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/account/", `{"balance":"56778.456","blocked":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got accountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got.AccountID)
	assert.Equal(t, "56778.456", got.Balance.String())
	assert.True(t, got.Blocked)
	assert.Equal(t, "/account/"+got.AccountID, rec.Header().Get("Location"))

	// balance is an exact string on the wire
	assert.Contains(t, rec.Body.String(), `"balance":"56778.456"`)
}

func TestCreateAccountHandler_Variants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		target      string
		body        string
		wantStatus  int
		wantReason  Reason
		wantValues  []string
		wantBalance string
	}{
		{name: "numeric balance", target: "/account/", body: `{"balance":12.5}`, wantStatus: http.StatusCreated, wantBalance: "12.5"},
		{name: "no trailing slash", target: "/account", body: `{}`, wantStatus: http.StatusCreated, wantBalance: "0"},
		{name: "null fields", target: "/account/", body: `{"account_id":null,"balance":null}`, wantStatus: http.StatusCreated, wantBalance: "0"},
		{
			name: "empty body", target: "/account/", body: "",
			wantStatus: http.StatusBadRequest, wantReason: ReasonInvalidParam, wantValues: []string{"body"},
		},
		{
			name: "unknown field", target: "/account/", body: `{"owner":"bob"}`,
			wantStatus: http.StatusBadRequest, wantReason: ReasonInvalidParam, wantValues: []string{"body"},
		},
		{
			name: "bad balance", target: "/account/", body: `{"balance":"lots"}`,
			wantStatus: http.StatusBadRequest, wantReason: ReasonInvalidParam, wantValues: []string{"body"},
		},
		{
			name: "negative balance", target: "/account/", body: `{"balance":"-1"}`,
			wantStatus: http.StatusBadRequest, wantReason: ReasonInvalidParam, wantValues: []string{"balance"},
		},
		{
			name: "slash in id", target: "/account/", body: `{"account_id":"a/b"}`,
			wantStatus: http.StatusBadRequest, wantReason: ReasonInvalidParam, wantValues: []string{"account_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			rec := f.do(t, http.MethodPost, tt.target, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus == http.StatusCreated {
				var got accountResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, tt.wantBalance, got.Balance.String())
				assert.False(t, got.Blocked)

				return
			}

			e := decodeError(t, rec)
			assert.Equal(t, tt.wantReason, e.Reason)
			assert.Equal(t, tt.wantValues, e.Values)
			assert.Equal(t, 0, f.store.Len())
		})
	}
}

func TestCreateAccountHandler_DuplicateID(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.create(t, `{"account_id":"alice","balance":"10"}`)

	rec := f.do(t, http.MethodPost, "/account/", `{"account_id":"alice","balance":"99"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	e := decodeError(t, rec)
	assert.Equal(t, ReasonAccountExists, e.Reason)
	assert.Equal(t, []string{"alice"}, e.Values)
}

func TestGetAccountHandler(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	created := f.create(t, `{"balance":"3.14"}`)

	rec := f.do(t, http.MethodGet, "/account/"+created.AccountID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got accountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.AccountID, got.AccountID)
	assert.Equal(t, "3.14", got.Balance.String())

	rec = f.do(t, http.MethodGet, "/account/nobody", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	e := decodeError(t, rec)
	assert.Equal(t, ReasonAccountNotFound, e.Reason)
	assert.Equal(t, []string{"nobody"}, e.Values)
}

func TestTransferHandler(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	sender := f.create(t, `{"balance":"56778.456"}`)
	receiver := f.create(t, `{"balance":"890.789"}`)

	rec := f.do(t, http.MethodPost, "/transfer/"+sender.AccountID+"/to/"+receiver.AccountID+"?amount=6770.111", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var receipt receiptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	assert.Equal(t, sender.AccountID, receipt.SenderID)
	assert.Equal(t, receiver.AccountID, receipt.ReceiverID)
	assert.Equal(t, "6770.111", receipt.Amount.String())

	s, err := f.store.Get(sender.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "50008.345", s.Balance.String())

	r, err := f.store.Get(receiver.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "7660.9", r.Balance.String())
}

func TestTransferHandler_Errors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rich := f.create(t, `{"account_id":"rich","balance":"100"}`)
	poor := f.create(t, `{"account_id":"poor","balance":"1.01"}`)
	frozen := f.create(t, `{"account_id":"frozen","balance":"50","blocked":true}`)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantReason Reason
		wantValues []string
	}{
		{
			name:       "missing amount",
			target:     "/transfer/rich/to/poor",
			wantStatus: http.StatusBadRequest, wantReason: ReasonInvalidParam, wantValues: []string{"amount"},
		},
		{
			name:       "empty amount",
			target:     "/transfer/rich/to/poor?amount=",
			wantStatus: http.StatusBadRequest, wantReason: ReasonInvalidParam, wantValues: []string{"amount"},
		},
		{
			name:       "non numeric amount",
			target:     "/transfer/rich/to/poor?amount=ten",
			wantStatus: http.StatusBadRequest, wantReason: ReasonInvalidParam, wantValues: []string{"amount"},
		},
		{
			name:       "zero amount",
			target:     "/transfer/rich/to/poor?amount=0",
			wantStatus: http.StatusBadRequest, wantReason: ReasonInvalidParam, wantValues: []string{"amount"},
		},
		{
			name:       "negative amount",
			target:     "/transfer/rich/to/poor?amount=-5",
			wantStatus: http.StatusBadRequest, wantReason: ReasonInvalidParam, wantValues: []string{"amount"},
		},
		{
			name:       "same account",
			target:     "/transfer/rich/to/rich?amount=1",
			wantStatus: http.StatusBadRequest, wantReason: ReasonInvalidParam, wantValues: []string{"receiver_id"},
		},
		{
			name:       "unknown sender",
			target:     "/transfer/ghost/to/poor?amount=1",
			wantStatus: http.StatusNotFound, wantReason: ReasonAccountNotFound, wantValues: []string{"ghost"},
		},
		{
			name:       "unknown receiver",
			target:     "/transfer/rich/to/ghost?amount=1",
			wantStatus: http.StatusNotFound, wantReason: ReasonAccountNotFound, wantValues: []string{"ghost"},
		},
		{
			name:       "blocked sender",
			target:     "/transfer/frozen/to/rich?amount=1",
			wantStatus: http.StatusForbidden, wantReason: ReasonAccountBlocked, wantValues: []string{"frozen"},
		},
		{
			name:       "blocked receiver",
			target:     "/transfer/rich/to/frozen?amount=1",
			wantStatus: http.StatusForbidden, wantReason: ReasonAccountBlocked, wantValues: []string{"frozen"},
		},
		{
			name:       "not enough funds",
			target:     "/transfer/poor/to/rich?amount=1.02",
			wantStatus: http.StatusBadRequest, wantReason: ReasonNotEnoughFunds, wantValues: []string{"1.01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, tt.target, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			e := decodeError(t, rec)
			assert.Equal(t, tt.wantReason, e.Reason)
			assert.Equal(t, tt.wantValues, e.Values)
		})
	}

	for id, want := range map[string]string{
		rich.AccountID:   "100",
		poor.AccountID:   "1.01",
		frozen.AccountID: "50",
	} {
		a, err := f.store.Get(id)
		require.NoError(t, err)
		assert.Equal(t, want, a.Balance.String(), "%s balance changed", id)
	}
}

type brokenTransfers struct{}

func (brokenTransfers) Transfer(context.Context, transfer.Request) (transfer.Receipt, error) {
	return transfer.Receipt{}, &accounts.TransactionError{Err: errors.New("unexpected")}
}

func TestTransferHandler_UnexpectedError(t *testing.T) {
	t.Parallel()

	h := NewRouter(provisioning.New(memory.New()), brokenTransfers{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/transfer/a/to/b?amount=1", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	e := decodeError(t, rec)
	assert.Equal(t, ReasonUnknown, e.Reason)
	assert.Empty(t, e.Values)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
