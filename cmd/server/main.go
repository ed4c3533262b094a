package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/moodboard/moodboard-server/internal/config"
	"github.com/moodboard/moodboard-server/internal/room"
	"github.com/moodboard/moodboard-server/internal/server"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	registry := room.NewRegistry(room.Options{
		HistoryLimit: cfg.HistoryLimit,
		EnforceTurns: cfg.EnforceTurns,
	})

	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for now := range ticker.C {
			registry.Sweep(now, cfg.IdleTimeout)
		}
	}()

	router := server.NewRouter(cfg, registry)

	log.Info().Int("port", cfg.Port).Msg("starting server")
	if err := router.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
