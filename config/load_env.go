package config

import (
	"log/slog"

	"github.com/subosito/gotenv"
)

// LoadEnv loads environment variables from the given .env file.
// A missing file is not fatal; the OS environment is used as-is.
func LoadEnv(envFile string) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("[Config] No .env file found, using OS environment",
			slog.String("file", envFile))
	}
}
