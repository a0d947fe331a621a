// Package charts builds declarative Vega-Lite v5 chart documents.
package charts

import (
	"sort"

	"review_insights/internal/domain"
)

const schemaURL = "https://vega.github.io/schema/vega-lite/v5.json"

type Spec struct {
	Schema   string   `json:"$schema"`
	Title    string   `json:"title"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Data     Data     `json:"data"`
	Mark     Mark     `json:"mark"`
	Encoding Encoding `json:"encoding"`
}

type Data struct {
	Values any `json:"values"`
}

type Mark struct {
	Type        string `json:"type"`
	InnerRadius int    `json:"innerRadius,omitempty"`
}

type Encoding struct {
	X       *Channel  `json:"x,omitempty"`
	Y       *Channel  `json:"y,omitempty"`
	Theta   *Channel  `json:"theta,omitempty"`
	Color   *Channel  `json:"color,omitempty"`
	Tooltip []Channel `json:"tooltip,omitempty"`
}

type Channel struct {
	Field  string `json:"field"`
	Type   string `json:"type"`
	Title  string `json:"title,omitempty"`
	Format string `json:"format,omitempty"`
}

type RatingPoint struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

type SentimentPoint struct {
	Sentiment  domain.Sentiment `json:"sentiment"`
	Count      int              `json:"count"`
	Percentage float64          `json:"percentage"`
}

// RatingChart is a bar chart of review counts per rating, ratings ascending.
func RatingChart(t domain.ReviewTable) Spec {
	counts := map[int]int{}
	for _, r := range t {
		counts[r.Rating]++
	}
	points := make([]RatingPoint, 0, len(counts))
	for rating, n := range counts {
		points = append(points, RatingPoint{Rating: rating, Count: n})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Rating < points[j].Rating })

	return Spec{
		Schema: schemaURL,
		Title:  "Rating Distribution",
		Width:  400,
		Height: 300,
		Data:   Data{Values: points},
		Mark:   Mark{Type: "bar"},
		Encoding: Encoding{
			X: &Channel{Field: "rating", Type: "ordinal", Title: "Rating"},
			Y: &Channel{Field: "count", Type: "quantitative", Title: "Number of Reviews"},
			Tooltip: []Channel{
				{Field: "rating", Type: "ordinal"},
				{Field: "count", Type: "quantitative"},
			},
		},
	}
}

var sentimentOrder = []domain.Sentiment{domain.Positive, domain.Neutral, domain.Negative}

// SentimentChart is a pie chart over an annotated table. Classes absent from
// the table are left out.
func SentimentChart(t domain.ReviewTable) Spec {
	counts := map[domain.Sentiment]int{}
	for _, r := range t {
		if r.Sentiment != "" {
			counts[r.Sentiment]++
		}
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	points := make([]SentimentPoint, 0, len(counts))
	for _, s := range sentimentOrder {
		n := counts[s]
		if n == 0 {
			continue
		}
		points = append(points, SentimentPoint{
			Sentiment:  s,
			Count:      n,
			Percentage: float64(n) / float64(total) * 100,
		})
	}

	return Spec{
		Schema: schemaURL,
		Title:  "Sentiment Distribution",
		Width:  300,
		Height: 300,
		Data:   Data{Values: points},
		Mark:   Mark{Type: "arc"},
		Encoding: Encoding{
			Theta: &Channel{Field: "count", Type: "quantitative"},
			Color: &Channel{Field: "sentiment", Type: "nominal", Title: "Sentiment"},
			Tooltip: []Channel{
				{Field: "sentiment", Type: "nominal"},
				{Field: "count", Type: "quantitative"},
				{Field: "percentage", Type: "quantitative", Format: ".1f"},
			},
		},
	}
}
