package config

import "time"

type HTTPConfig struct {
	Port              uint16        `env:"APP_PORT"                 default:"8080"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT"        default:"15s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT"       default:"15s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT"        default:"60s"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" default:"5s"`
}
