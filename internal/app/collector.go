package app

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"review_insights/internal/domain"
)

type Collector struct {
	client      domain.FeedClient
	pageTimeout time.Duration
	concurrency int

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewCollector builds a collector. A nil rng is seeded randomly.
func NewCollector(c domain.FeedClient, pageTimeout time.Duration, concurrency int, rng *rand.Rand) *Collector {
	if concurrency <= 0 {
		concurrency = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Collector{client: c, pageTimeout: pageTimeout, concurrency: concurrency, rng: rng}
}

// Collect fetches pages 1..pageCount and aggregates their entries in page order.
// A failing page contributes nothing. When more than sampleLimit entries were
// found (sampleLimit > 0), a uniform sample of exactly sampleLimit is returned.
func (c *Collector) Collect(ctx context.Context, appID string, pageCount, sampleLimit int) domain.FeedPayload {
	if pageCount <= 0 {
		return domain.FeedPayload{}
	}
	pages := make([][]json.RawMessage, pageCount)

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i := 0; i < pageCount; i++ {
		page := i + 1
		g.Go(func() error {
			pages[page-1] = c.fetchPage(ctx, appID, page)
			return nil
		})
	}
	_ = g.Wait()

	var entries []json.RawMessage
	for _, p := range pages {
		entries = append(entries, p...)
	}
	if len(entries) == 0 {
		log.Warn().Str("app_id", appID).Int("pages", pageCount).Msg("no review entries found")
		return domain.FeedPayload{}
	}
	if sampleLimit > 0 && len(entries) > sampleLimit {
		log.Debug().Str("app_id", appID).Int("limit", sampleLimit).Int("total", len(entries)).Msg("sampling reviews")
		entries = c.sample(entries, sampleLimit)
	}
	log.Info().Str("app_id", appID).Int("entries", len(entries)).Msg("collected reviews")
	return domain.FeedPayload{Feed: domain.Feed{Entries: entries}}
}

func (c *Collector) fetchPage(ctx context.Context, appID string, page int) []json.RawMessage {
	if c.pageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.pageTimeout)
		defer cancel()
	}
	entries, err := c.client.ReviewsPage(ctx, appID, page)
	if err != nil {
		ev := log.Warn()
		if errors.Is(err, domain.ErrNotFound) {
			ev = log.Debug()
		}
		ev.Err(err).Str("app_id", appID).Int("page", page).Msg("feed page skipped")
		return nil
	}
	return entries
}

// sample draws k of in without replacement (partial Fisher-Yates on a copy).
func (c *Collector) sample(in []json.RawMessage, k int) []json.RawMessage {
	out := append([]json.RawMessage(nil), in...)
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 0; i < k; i++ {
		j := i + c.rng.IntN(len(out)-i)
		out[i], out[j] = out[j], out[i]
	}
	return out[:k]
}
