package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forms-service/internal/app"
	"forms-service/internal/logging"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		// Absent .env is fine in deployed environments.
		l := logging.Component("main")
		l.Debug().Msg("no .env file loaded")
	}

	logging.Init(logging.Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
	})
	log := logging.Component("main")

	service, err := app.NewService()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize service")
	}

	go func() {
		if err := service.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := service.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
