package api

import (
	"log/slog"
	"net/http"

	"github.com/fastprodman/transferledger/internal/infra/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the chi router with all API endpoints registered.
func NewRouter(accountsSvc AccountService, transfers TransferService) http.Handler {
	h := NewHandler(accountsSvc, transfers)
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(logging.RequestLogger(slog.Default()))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/account", func(r chi.Router) {
		r.Post("/", h.CreateAccountHandler)
		r.Get("/{accountId}", h.GetAccountHandler)
	})

	r.Post("/transfer/{senderId}/to/{receiverId}", h.TransferHandler)

	return r
}
