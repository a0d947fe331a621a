package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	server "review_insights/internal/adapters/http_server"
	"review_insights/internal/adapters/observability"
	"review_insights/internal/shared"
	"review_insights/internal/wiring"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	// /metrics belongs to the analysis API, so prometheus gets its own listener
	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	p, err := wiring.Build(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline setup failed")
	}
	defer p.Close()

	srv := server.New(cfg.RequestTimeout)
	srv.MountHandlers(&server.Handlers{S: p.Service})

	log.Info().Str("addr", cfg.HTTPAddr).Int("pages", cfg.FeedPages).Str("country", cfg.ItunesCountry).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
