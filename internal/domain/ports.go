package domain

import (
	"context"
	"encoding/json"
)

// FeedClient fetches one page of customer-review entries.
type FeedClient interface {
	ReviewsPage(ctx context.Context, appID string, page int) ([]json.RawMessage, error)
}

type SentimentScorer interface {
	// Compound returns a polarity score in [-1, 1].
	Compound(text string) float64
}

type TopicClusterer interface {
	Cluster(ctx context.Context, docs []string) (TopicResult, error)
}

type KeywordExtractor interface {
	TopKeywords(docs []string, n int) []string
}

type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

type ArtifactStore interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
}

type RunRecorder interface {
	SaveRun(ctx context.Context, run AnalysisRun) error
	ListRuns(ctx context.Context, appID string, limit int) ([]AnalysisRun, error)
}
