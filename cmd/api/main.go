package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/idms/ems/internal/pkg/logger"
	"github.com/idms/ems/internal/server"
)

func main() {
	// Load .env if present; real environment variables win
	_ = godotenv.Load()

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
