package main

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_insights/internal/adapters/observability"
	"review_insights/internal/domain"
	"review_insights/internal/shared"
	"review_insights/internal/wiring"
)

// collector refreshes the raw artifact and run history of every app id given
// as arguments, or listed in APP_IDS.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ids := os.Args[1:]
	if len(ids) == 0 {
		ids = cfg.AppIDs
	}
	if len(ids) == 0 {
		log.Fatal().Msg("no app ids: pass them as arguments or set APP_IDS")
	}
	log.Info().
		Strs("app_ids", ids).
		Int("workers", cfg.CollectWorkers).
		Int("pages", cfg.FeedPages).
		Msg("collector starting")

	p, err := wiring.Build(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline setup failed")
	}
	defer p.Close()

	workers := cfg.CollectWorkers
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(appID string) {
			defer wg.Done()
			defer sem.Release(1)

			out, err := p.Service.Refresh(ctx, appID)
			if err != nil {
				ev := log.Warn()
				if errors.Is(err, domain.ErrNoData) {
					ev = log.Info()
				}
				ev.Str("app_id", appID).Err(err).Msg("refresh failed")
				return
			}
			log.Info().
				Str("app_id", appID).
				Int("reviews", out.Metrics.TotalReviews).
				Float64("avg", out.Metrics.AverageRating).
				Int("negative", out.Insights.SentimentCounts.Negative).
				Msg("refresh ok")
		}(id)
	}

	wg.Wait()
	log.Info().Msg("collection completed")
}
