package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"review_insights/internal/adapters/observability"
	"review_insights/internal/domain"
	"review_insights/internal/nlp"
)

const defaultKeywordsTopN = 10

type InsightEngine struct {
	scorer   domain.SentimentScorer
	topics   domain.TopicClusterer // nil disables topic modelling
	keywords domain.KeywordExtractor
	topN     int
}

func NewInsightEngine(s domain.SentimentScorer, t domain.TopicClusterer, k domain.KeywordExtractor, topN int) *InsightEngine {
	if topN <= 0 {
		topN = defaultKeywordsTopN
	}
	return &InsightEngine{scorer: s, topics: t, keywords: k, topN: topN}
}

// Annotate returns a copy of t with every row classified.
func (e *InsightEngine) Annotate(t domain.ReviewTable) domain.ReviewTable {
	start := time.Now()
	out := make(domain.ReviewTable, len(t))
	for i, r := range t {
		r.Sentiment = nlp.Classify(e.scorer.Compound(r.ReviewText))
		out[i] = r
	}
	observability.ObserveStage("sentiment", time.Since(start))
	return out
}

// Generate runs sentiment, topic clustering over negative reviews, and keyword
// extraction. A failing clusterer leaves topics empty; keywords and counts remain.
func (e *InsightEngine) Generate(ctx context.Context, t domain.ReviewTable) domain.InsightsReport {
	annotated := e.Annotate(t)
	rep := domain.InsightsReport{
		SentimentCounts:        CountSentiments(annotated),
		NegativeReviewTopics:   []int{},
		TopicInfo:              []domain.TopicInfo{},
		NegativeReviewKeywords: []string{},
	}

	negatives := annotated.Filter(domain.Negative).Texts()
	if len(negatives) == 0 {
		return rep
	}

	if e.topics != nil {
		start := time.Now()
		res, err := e.topics.Cluster(ctx, negatives)
		observability.ObserveStage("topics", time.Since(start))
		switch {
		case err != nil:
			log.Warn().Err(err).Int("docs", len(negatives)).Msg("topic modelling failed, continuing without topics")
		case len(res.Assignments) != len(negatives):
			log.Warn().Int("docs", len(negatives)).Int("assignments", len(res.Assignments)).Msg("topic assignments mismatch, dropping topics")
		default:
			rep.NegativeReviewTopics = res.Assignments
			if res.Topics != nil {
				rep.TopicInfo = res.Topics
			}
		}
	}

	start := time.Now()
	if kws := e.keywords.TopKeywords(negatives, e.topN); kws != nil {
		rep.NegativeReviewKeywords = kws
	}
	observability.ObserveStage("keywords", time.Since(start))
	return rep
}

// CountSentiments tallies an annotated table.
func CountSentiments(t domain.ReviewTable) domain.SentimentCounts {
	var c domain.SentimentCounts
	for _, r := range t {
		switch r.Sentiment {
		case domain.Positive:
			c.Positive++
		case domain.Negative:
			c.Negative++
		case domain.Neutral:
			c.Neutral++
		}
	}
	return c
}
