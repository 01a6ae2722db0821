package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fastprodman/transferledger/internal/api"
	"github.com/fastprodman/transferledger/internal/infra/logging"
	"github.com/fastprodman/transferledger/internal/repos/accounts/memory"
	"github.com/fastprodman/transferledger/internal/services/provisioning"
	"github.com/fastprodman/transferledger/internal/services/transfer"
	"github.com/fastprodman/transferledger/pkg/envconf"
	"github.com/fastprodman/transferledger/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func loadConfig() (*apiConfig, error) {
	err := envconf.LoadDotEnv(".env")
	if err != nil {
		return nil, fmt.Errorf("read dotenv: %w", err)
	}

	cfg := new(apiConfig)

	err = envconf.Load(cfg)
	if err != nil {
		return nil, fmt.Errorf("init config: %w", err)
	}

	return cfg, nil
}

func run(ctx context.Context) (retErr error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Ledger ---
	store := memory.New()
	accountsSvc := provisioning.New(store)
	transfers := transfer.New(store)

	// --- HTTP server ---
	srv := api.NewServer(cfg.HTTP, api.NewRouter(accountsSvc, transfers))

	shutdownqueue.Add("ledger summary", func(c context.Context) error {
		slog.InfoContext(c, "ledger closed", "accounts", store.Len())

		return nil
	})

	shutdownqueue.Add("http server", func(c context.Context) error {
		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr

			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "addr", srv.Addr)

	select {
	case <-ctx.Done():
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
