// Package wiring assembles the analysis pipeline from configuration.
package wiring

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"review_insights/internal/adapters/files"
	"review_insights/internal/adapters/itunes"
	openaiad "review_insights/internal/adapters/openai"
	redisad "review_insights/internal/adapters/redis"
	"review_insights/internal/app"
	"review_insights/internal/domain"
	"review_insights/internal/nlp"
	"review_insights/internal/shared"
	mysqlrepo "review_insights/internal/storage/mysql"
)

// Pipeline is a ready service plus the resources to release on shutdown.
type Pipeline struct {
	Service *app.AnalysisService
	db      *sql.DB
}

func (p *Pipeline) Close() {
	if p.db != nil {
		_ = p.db.Close()
	}
}

// Build loads the sentiment lexicon once and selects every optional capability
// (topic model, embedder, artifact store, run history) from cfg.
func Build(ctx context.Context, cfg shared.Config) (*Pipeline, error) {
	client, err := itunes.New(cfg.ItunesBase, cfg.ItunesCountry, cfg.FetchRPS, cfg.PageTimeout)
	if err != nil {
		return nil, fmt.Errorf("itunes client: %w", err)
	}

	store, err := artifactStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{}
	var runs domain.RunRecorder
	if cfg.MySQLDSN != "" {
		db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("mysql: %w", err)
		}
		log.Info().Msg("run history enabled")
		p.db = db
		runs = mysqlrepo.New(db)
	}

	kw := nlp.TFIDFKeywords{}
	engine := app.NewInsightEngine(nlp.NewVaderScorer(), topicClusterer(cfg, kw), kw, cfg.KeywordsTopN)
	collector := app.NewCollector(client, cfg.PageTimeout, cfg.PageConcurrency, nil)
	p.Service = app.NewAnalysisService(collector, engine, store, runs, cfg.FeedPages, cfg.SampleLimit)
	return p, nil
}

func topicClusterer(cfg shared.Config, kw domain.KeywordExtractor) domain.TopicClusterer {
	if cfg.TopicModel == "off" {
		log.Info().Msg("topic modelling disabled")
		return nil
	}
	var emb domain.Embedder = nlp.TFIDFEmbedder{}
	if cfg.TopicEmbedder == "openai" {
		emb = openaiad.NewEmbedder(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	}
	log.Info().Str("embedder", cfg.TopicEmbedder).Float64("eps", cfg.ClusterEps).Int("min_points", cfg.ClusterMinPoints).Msg("topic modelling enabled")
	return nlp.NewDensityClusterer(emb, kw, cfg.ClusterEps, cfg.ClusterMinPoints)
}

func artifactStore(ctx context.Context, cfg shared.Config) (domain.ArtifactStore, error) {
	switch cfg.ArtifactStore {
	case "", "file":
		return files.New(cfg.ArtifactDir), nil
	case "redis":
		s := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.ArtifactTTL)
		if err := s.Ping(ctx); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown ARTIFACT_STORE %q", cfg.ArtifactStore)
	}
}
