// Command dashboard serves the Kraków budget dashboard and its JSON API.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/krykon00/krk-budget-app/internal/app"
	"github.com/krykon00/krk-budget-app/internal/config"
)

func main() {
	// A missing .env is fine; the environment and config file still apply
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	application, err := app.NewApplication(cfg, nil)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
