package main

import (
	"log/slog"
	"time"

	"github.com/fastprodman/transferledger/internal/config"
)

type apiConfig struct {
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL"        default:"INFO"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" default:"10s"`
	HTTP            config.HTTPConfig
}
