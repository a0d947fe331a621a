package domain

import "time"

type RatingBucket struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type MetricsReport struct {
	AverageRating      float64              `json:"average_rating"`
	MedianRating       float64              `json:"median_rating"`
	TotalReviews       int                  `json:"total_reviews"`
	RatingDistribution map[int]RatingBucket `json:"rating_distribution"`
}

type SentimentCounts struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// OutlierTopic is the cluster id of negative reviews that fit no topic.
const OutlierTopic = -1

type TopicInfo struct {
	Topic    int      `json:"topic"`
	Count    int      `json:"count"`
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// TopicResult holds one assignment per clustered document plus descriptors
// for every non-outlier topic.
type TopicResult struct {
	Assignments []int
	Topics      []TopicInfo
}

type InsightsReport struct {
	SentimentCounts        SentimentCounts `json:"sentiment_counts"`
	NegativeReviewTopics   []int           `json:"negative_review_topics"`
	TopicInfo              []TopicInfo     `json:"topic_info"`
	NegativeReviewKeywords []string        `json:"negative_review_keywords"`
}

// AnalysisRun is the persisted summary of one metrics computation.
type AnalysisRun struct {
	ID            int64           `json:"id"`
	AppID         string          `json:"app_id"`
	TotalReviews  int             `json:"total_reviews"`
	AverageRating float64         `json:"average_rating"`
	MedianRating  float64         `json:"median_rating"`
	Sentiment     SentimentCounts `json:"sentiment_counts"`
	Keywords      []string        `json:"keywords"`
	CreatedAt     time.Time       `json:"created_at"`
}
