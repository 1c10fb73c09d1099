package config_fx

import (
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"vibedl/internal/config"
)

var Module = fx.Provide(
	provideConfig, provideLogger)

func provideConfig() (*config.Config, error) {
	return config.Load()
}

func provideLogger() zerolog.Logger {
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
