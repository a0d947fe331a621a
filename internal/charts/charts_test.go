package charts_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"review_insights/internal/charts"
	"review_insights/internal/domain"
)

func TestRatingChart_AscendingCounts(t *testing.T) {
	table := domain.ReviewTable{{Rating: 5}, {Rating: 1}, {Rating: 5}, {Rating: 3}}
	spec := charts.RatingChart(table)

	if spec.Mark.Type != "bar" || spec.Title != "Rating Distribution" {
		t.Fatalf("unexpected mark/title: %+v", spec)
	}
	if spec.Encoding.X.Field != "rating" || spec.Encoding.X.Type != "ordinal" {
		t.Fatalf("x channel: %+v", spec.Encoding.X)
	}
	if spec.Encoding.Y.Field != "count" || spec.Encoding.Y.Type != "quantitative" {
		t.Fatalf("y channel: %+v", spec.Encoding.Y)
	}
	pts := spec.Data.Values.([]charts.RatingPoint)
	want := []charts.RatingPoint{{Rating: 1, Count: 1}, {Rating: 3, Count: 1}, {Rating: 5, Count: 2}}
	if len(pts) != len(want) {
		t.Fatalf("points = %+v", pts)
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Fatalf("point %d = %+v, want %+v", i, pts[i], want[i])
		}
	}
}

func TestSentimentChart_OnlyPresentClasses(t *testing.T) {
	table := domain.ReviewTable{
		{Sentiment: domain.Positive},
		{Sentiment: domain.Positive},
		{Sentiment: domain.Negative},
	}
	spec := charts.SentimentChart(table)
	if spec.Mark.Type != "arc" || spec.Title != "Sentiment Distribution" {
		t.Fatalf("unexpected mark/title: %+v", spec)
	}
	pts := spec.Data.Values.([]charts.SentimentPoint)
	if len(pts) != 2 {
		t.Fatalf("expected 2 classes, got %+v", pts)
	}
	if pts[0].Sentiment != domain.Positive || pts[0].Count != 2 || math.Abs(pts[0].Percentage-66.6667) > 1e-3 {
		t.Fatalf("positive point: %+v", pts[0])
	}
	if pts[1].Sentiment != domain.Negative || pts[1].Count != 1 {
		t.Fatalf("negative point: %+v", pts[1])
	}
	var pctFormat string
	for _, c := range spec.Encoding.Tooltip {
		if c.Field == "percentage" {
			pctFormat = c.Format
		}
	}
	if pctFormat != ".1f" {
		t.Fatalf("percentage tooltip format = %q", pctFormat)
	}
}

func TestSpec_MarshalsVegaLite(t *testing.T) {
	b, err := json.Marshal(charts.RatingChart(domain.ReviewTable{{Rating: 4}}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"$schema":"https://vega.github.io/schema/vega-lite/v5.json"`, `"values":[{"rating":4,"count":1}]`} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %s in %s", want, s)
		}
	}
	if strings.Contains(s, `"theta"`) {
		t.Fatalf("bar chart should not carry theta: %s", s)
	}
}
