package main

import (
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/konnections/internal/httpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP puzzle server",
	Long: `Run the HTTP puzzle server.

Endpoints:
  GET  /puzzle?date=YYYY-MM-DD   today's (or the given day's) puzzle
  HEAD /puzzle?date=YYYY-MM-DD   200 if already stored, 404 otherwise
  GET  /health                   liveness
  GET  /metrics                  Prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		be, err := openBackend(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := be.close(); err != nil {
				log.Warn().Err(err).Msg("close store")
			}
		}()

		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		srv := httpserver.New(httpserver.Options{
			Provider:       be.provider,
			Store:          be.store,
			Location:       loc,
			ClientOrigin:   cfg.ClientOrigin,
			HandlerTimeout: cfg.HandlerTimeout,
			RateRPS:        cfg.RateLimit.RPS,
			RateBurst:      cfg.RateLimit.Burst,
			Gatherer:       be.registry,
		})

		log.Info().
			Str("port", cfg.Port).
			Str("store", cfg.Store.Backend).
			Str("source", cfg.Source.Provider).
			Str("tz", loc.String()).
			Msg("starting konnections server")
		return srv.Run(ctx, ":"+cfg.Port)
	},
}
