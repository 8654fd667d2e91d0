package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"trustdir/auth"
	"trustdir/business"
	"trustdir/config"
	"trustdir/db"
	"trustdir/httpapi"
	"trustdir/report"
	"trustdir/review"
	"trustdir/trust"
)

func main() {
	cfg := config.Load()

	log := newLogger(cfg.Env)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap database pool")
	}
	defer pool.Close()

	trustService := trust.NewService(trust.NewRepository(pool), log)

	svcs := httpapi.Services{
		Auth:       auth.NewService(auth.NewRepository(pool), cfg.JWTSecret),
		Businesses: business.NewService(business.NewRepository(pool), trustService, log),
		Reviews:    review.NewService(review.NewRepository(pool), trustService, log),
		Reports:    report.NewService(report.NewRepository(pool), trustService, log),
		Scores:     trustService,
	}

	router := httpapi.NewRouter(svcs, log)

	addr := cfg.Host + ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("starting trust directory API")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Str("service", "trustdir").Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Str("service", "trustdir").Logger()
}
