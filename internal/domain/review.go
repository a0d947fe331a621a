package domain

import "encoding/json"

// FeedPayload is the aggregated customer-review feed for one app, entries kept verbatim.
type FeedPayload struct {
	Feed Feed `json:"feed"`
}

type Feed struct {
	Entries []json.RawMessage `json:"entry"`
}

func (p FeedPayload) Empty() bool { return len(p.Feed.Entries) == 0 }

type Sentiment string

const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
)

type ReviewRecord struct {
	ReviewText string    `json:"review_text"`
	Rating     int       `json:"rating"` // 0 when the feed value was unparsable
	Title      string    `json:"title"`
	Sentiment  Sentiment `json:"sentiment,omitempty"`
}

// ReviewTable keeps feed order; aggregates over it are order-independent.
type ReviewTable []ReviewRecord

// Texts returns the review_text column.
func (t ReviewTable) Texts() []string {
	out := make([]string, len(t))
	for i, r := range t {
		out[i] = r.ReviewText
	}
	return out
}

// Filter returns the rows annotated with s.
func (t ReviewTable) Filter(s Sentiment) ReviewTable {
	var out ReviewTable
	for _, r := range t {
		if r.Sentiment == s {
			out = append(out, r)
		}
	}
	return out
}
