package wiring

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"review_insights/internal/adapters/files"
	redisad "review_insights/internal/adapters/redis"
	"review_insights/internal/nlp"
	"review_insights/internal/shared"
)

func baseConfig(t *testing.T) shared.Config {
	return shared.Config{
		ItunesBase:    "https://itunes.example",
		ItunesCountry: "gb",
		FeedPages:     1,
		SampleLimit:   10,
		FetchRPS:      1,
		TopicModel:    "density",
		TopicEmbedder: "tfidf",
		ArtifactStore: "file",
		ArtifactDir:   t.TempDir(),
	}
}

func TestBuild_FileStore(t *testing.T) {
	p, err := Build(context.Background(), baseConfig(t))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer p.Close()
	if p.Service == nil {
		t.Fatalf("nil service")
	}
}

func TestArtifactStore_Selection(t *testing.T) {
	ctx := context.Background()
	cfg := baseConfig(t)
	if s, err := artifactStore(ctx, cfg); err != nil {
		t.Fatalf("file: %v", err)
	} else if _, ok := s.(*files.Store); !ok {
		t.Fatalf("expected file store, got %T", s)
	}

	mr := miniredis.RunT(t)
	cfg.ArtifactStore, cfg.RedisAddr = "redis", mr.Addr()
	if s, err := artifactStore(ctx, cfg); err != nil {
		t.Fatalf("redis: %v", err)
	} else if _, ok := s.(*redisad.Store); !ok {
		t.Fatalf("expected redis store, got %T", s)
	}

	cfg.ArtifactStore = "s3"
	if _, err := artifactStore(ctx, cfg); err == nil {
		t.Fatalf("expected error for unknown store")
	}
}

func TestTopicClusterer_Selection(t *testing.T) {
	cfg := baseConfig(t)
	kw := nlp.TFIDFKeywords{}
	if c := topicClusterer(cfg, kw); c == nil {
		t.Fatalf("density model should yield a clusterer")
	}
	cfg.TopicModel = "off"
	if c := topicClusterer(cfg, kw); c != nil {
		t.Fatalf("off should disable topics, got %T", c)
	}
}
