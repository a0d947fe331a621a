package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"review_insights/internal/adapters/observability"
	"review_insights/internal/charts"
	"review_insights/internal/domain"
)

const defaultHistoryLimit = 20

// Analysis is the /metrics response body.
type Analysis struct {
	Metrics  *domain.MetricsReport `json:"metrics"`
	Insights domain.InsightsReport `json:"insights"`
}

// Charts is the /visualize response body.
type Charts struct {
	Rating    charts.Spec `json:"rating_chart"`
	Sentiment charts.Spec `json:"sentiment_chart"`
}

// AnalysisService runs the pipeline per request; nothing is cached between calls.
type AnalysisService struct {
	collector   *Collector
	engine      *InsightEngine
	store       domain.ArtifactStore
	runs        domain.RunRecorder // optional
	pages       int
	sampleLimit int
	now         func() time.Time
}

func NewAnalysisService(c *Collector, e *InsightEngine, store domain.ArtifactStore, runs domain.RunRecorder, pages, sampleLimit int) *AnalysisService {
	return &AnalysisService{
		collector:   c,
		engine:      e,
		store:       store,
		runs:        runs,
		pages:       pages,
		sampleLimit: sampleLimit,
		now:         time.Now,
	}
}

// ArtifactName is the stored name of an app's raw feed.
func ArtifactName(appID string) string { return appID + "_raw_reviews.json" }

// ValidateAppID accepts a non-empty string of ASCII digits.
func ValidateAppID(appID string) error {
	if appID == "" {
		return domain.ErrInvalidAppID
	}
	for _, r := range appID {
		if r < '0' || r > '9' {
			return domain.ErrInvalidAppID
		}
	}
	return nil
}

func (s *AnalysisService) collect(ctx context.Context, appID string) (domain.FeedPayload, error) {
	if err := ValidateAppID(appID); err != nil {
		return domain.FeedPayload{}, err
	}
	start := time.Now()
	p := s.collector.Collect(ctx, appID, s.pages, s.sampleLimit)
	observability.ObserveStage("collect", time.Since(start))
	if p.Empty() {
		return domain.FeedPayload{}, domain.ErrNoData
	}
	return p, nil
}

func (s *AnalysisService) persist(ctx context.Context, appID string, p domain.FeedPayload) error {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", domain.ErrPersistence, err)
	}
	if err := s.store.Save(ctx, ArtifactName(appID), b); err != nil {
		return fmt.Errorf("%w: save %s: %v", domain.ErrPersistence, ArtifactName(appID), err)
	}
	return nil
}

// Collect fetches the feed and stores it as the app's raw artifact.
func (s *AnalysisService) Collect(ctx context.Context, appID string) (domain.FeedPayload, error) {
	p, err := s.collect(ctx, appID)
	if err != nil {
		return domain.FeedPayload{}, err
	}
	if err := s.persist(ctx, appID, p); err != nil {
		return domain.FeedPayload{}, err
	}
	return p, nil
}

// Analyze computes rating metrics and review insights for a freshly collected feed.
func (s *AnalysisService) Analyze(ctx context.Context, appID string) (Analysis, error) {
	p, err := s.collect(ctx, appID)
	if err != nil {
		return Analysis{}, err
	}
	return s.analyze(ctx, appID, p)
}

// Refresh collects the feed once, stores it as the raw artifact, then analyzes
// and records that same payload.
func (s *AnalysisService) Refresh(ctx context.Context, appID string) (Analysis, error) {
	p, err := s.collect(ctx, appID)
	if err != nil {
		return Analysis{}, err
	}
	if err := s.persist(ctx, appID, p); err != nil {
		return Analysis{}, err
	}
	return s.analyze(ctx, appID, p)
}

func (s *AnalysisService) analyze(ctx context.Context, appID string, p domain.FeedPayload) (Analysis, error) {
	table := Normalize(p)

	start := time.Now()
	m := ComputeMetrics(table)
	observability.ObserveStage("metrics", time.Since(start))
	if m == nil {
		return Analysis{}, domain.ErrNoData
	}
	out := Analysis{Metrics: m, Insights: s.engine.Generate(ctx, table)}
	s.record(ctx, appID, out)
	return out, nil
}

func (s *AnalysisService) record(ctx context.Context, appID string, a Analysis) {
	if s.runs == nil {
		return
	}
	run := domain.AnalysisRun{
		AppID:         appID,
		TotalReviews:  a.Metrics.TotalReviews,
		AverageRating: a.Metrics.AverageRating,
		MedianRating:  a.Metrics.MedianRating,
		Sentiment:     a.Insights.SentimentCounts,
		Keywords:      a.Insights.NegativeReviewKeywords,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.runs.SaveRun(ctx, run); err != nil {
		log.Error().Err(err).Str("app_id", appID).Msg("record analysis run failed")
	}
}

// Download collects, stores, and reads back the raw artifact.
func (s *AnalysisService) Download(ctx context.Context, appID string) ([]byte, string, error) {
	p, err := s.collect(ctx, appID)
	if err != nil {
		return nil, "", err
	}
	if err := s.persist(ctx, appID, p); err != nil {
		return nil, "", err
	}
	name := ArtifactName(appID)
	b, err := s.store.Load(ctx, name)
	if err != nil {
		return nil, "", fmt.Errorf("%w: load %s: %v", domain.ErrPersistence, name, err)
	}
	return b, name, nil
}

// Visualize builds the rating and sentiment charts for a freshly collected feed.
func (s *AnalysisService) Visualize(ctx context.Context, appID string) (Charts, error) {
	p, err := s.collect(ctx, appID)
	if err != nil {
		return Charts{}, err
	}
	table := Normalize(p)
	if len(table) == 0 {
		return Charts{}, domain.ErrNoData
	}
	annotated := s.engine.Annotate(table)
	return Charts{
		Rating:    charts.RatingChart(table),
		Sentiment: charts.SentimentChart(annotated),
	}, nil
}

// History lists recent recorded runs for appID, newest first.
func (s *AnalysisService) History(ctx context.Context, appID string, limit int) ([]domain.AnalysisRun, error) {
	if s.runs == nil {
		return nil, domain.ErrHistoryDisabled
	}
	if err := ValidateAppID(appID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	runs, err := s.runs.ListRuns(ctx, appID, limit)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []domain.AnalysisRun{}
	}
	return runs, nil
}
