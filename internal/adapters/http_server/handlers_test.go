package httpserver_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"review_insights/internal/adapters/files"
	httpserver "review_insights/internal/adapters/http_server"
	"review_insights/internal/app"
	"review_insights/internal/domain"
	"review_insights/internal/nlp"
)

// ---- fakes ----

type fakeFeed struct{ entries []json.RawMessage }

func (f *fakeFeed) ReviewsPage(ctx context.Context, appID string, page int) ([]json.RawMessage, error) {
	if page != 1 || appID != "42" {
		return nil, domain.ErrNotFound
	}
	return f.entries, nil
}

type stubScorer map[string]float64

func (s stubScorer) Compound(text string) float64 { return s[text] }

type brokenStore struct{}

func (brokenStore) Save(context.Context, string, []byte) error   { return context.DeadlineExceeded }
func (brokenStore) Load(context.Context, string) ([]byte, error) { return nil, context.DeadlineExceeded }

var entries = []json.RawMessage{
	json.RawMessage(`{"im:rating":{"label":"5"},"title":{"label":"Yay"},"content":{"label":"Great app!"}}`),
	json.RawMessage(`{"im:rating":{"label":"1"},"title":{"label":"Nope"},"content":{"label":"Terrible, crashes constantly"}}`),
	json.RawMessage(`{"im:rating":{"label":"3"},"title":{"label":"Meh"},"content":{"label":"It's okay"}}`),
}

func newTestServer(t *testing.T, store domain.ArtifactStore) *httptest.Server {
	t.Helper()
	scorer := stubScorer{"great app!": 0.6, "terrible, crashes constantly": -0.5}
	engine := app.NewInsightEngine(scorer, nil, nlp.TFIDFKeywords{}, 10)
	svc := app.NewAnalysisService(
		app.NewCollector(&fakeFeed{entries: entries}, time.Second, 2, nil),
		engine, store, nil, 2, 100,
	)
	srv := httpserver.New(5 * time.Second)
	srv.MountHandlers(&httpserver.Handlers{S: svc})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, body
}

// ---- tests ----

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, files.New(t.TempDir()))
	res, body := get(t, ts.URL+"/healthz")
	if res.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("healthz: %d %q", res.StatusCode, body)
	}
}

func TestMetrics_OK(t *testing.T) {
	ts := newTestServer(t, files.New(t.TempDir()))
	res, body := get(t, ts.URL+"/metrics?app_id=42")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", res.StatusCode, body)
	}
	var out struct {
		Metrics  domain.MetricsReport  `json:"metrics"`
		Insights domain.InsightsReport `json:"insights"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Metrics.TotalReviews != 3 || out.Metrics.AverageRating != 3 {
		t.Fatalf("metrics = %+v", out.Metrics)
	}
	if out.Metrics.RatingDistribution[5].Count != 1 {
		t.Fatalf("distribution = %+v", out.Metrics.RatingDistribution)
	}
	if out.Insights.SentimentCounts != (domain.SentimentCounts{Positive: 1, Negative: 1, Neutral: 1}) {
		t.Fatalf("counts = %+v", out.Insights.SentimentCounts)
	}
	if len(out.Insights.NegativeReviewKeywords) != 3 {
		t.Fatalf("keywords = %v", out.Insights.NegativeReviewKeywords)
	}
	if !strings.Contains(string(body), `"negative_review_topics":[]`) {
		t.Fatalf("topics should serialize as an empty list: %s", body)
	}
}

func TestStatusMapping(t *testing.T) {
	ts := newTestServer(t, files.New(t.TempDir()))
	cases := []struct {
		path   string
		status int
	}{
		{"/metrics", http.StatusBadRequest},
		{"/metrics?app_id=abc", http.StatusBadRequest},
		{"/metrics?app_id=7", http.StatusNotFound},
		{"/collect?app_id=7", http.StatusNotFound},
		{"/download?app_id=7", http.StatusNotFound},
		{"/visualize?app_id=7", http.StatusNotFound},
		{"/history?app_id=42", http.StatusNotImplemented},
		{"/history?app_id=42&limit=0", http.StatusBadRequest},
	}
	for _, c := range cases {
		res, body := get(t, ts.URL+c.path)
		if res.StatusCode != c.status {
			t.Fatalf("%s: status %d, want %d (%s)", c.path, res.StatusCode, c.status, body)
		}
		if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
			t.Fatalf("%s: content-type %q", c.path, ct)
		}
	}
}

func TestNotFoundDetailNamesApp(t *testing.T) {
	ts := newTestServer(t, files.New(t.TempDir()))
	_, body := get(t, ts.URL+"/collect?app_id=7")
	if !strings.Contains(string(body), "No reviews found for app_id 7") {
		t.Fatalf("detail: %s", body)
	}
}

func TestCollect_ReturnsRawFeed(t *testing.T) {
	ts := newTestServer(t, files.New(t.TempDir()))
	res, body := get(t, ts.URL+"/collect?app_id=42")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	var p domain.FeedPayload
	if err := json.Unmarshal(body, &p); err != nil || len(p.Feed.Entries) != 3 {
		t.Fatalf("payload: %v / %s", err, body)
	}
}

func TestDownload_Attachment(t *testing.T) {
	ts := newTestServer(t, files.New(t.TempDir()))
	res, body := get(t, ts.URL+"/download?app_id=42")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	if cd := res.Header.Get("Content-Disposition"); cd != `attachment; filename="42_raw_reviews.json"` {
		t.Fatalf("content-disposition %q", cd)
	}
	if !strings.Contains(string(body), "Great app!") {
		t.Fatalf("body: %s", body)
	}
}

func TestDownload_StoreFailure(t *testing.T) {
	ts := newTestServer(t, brokenStore{})
	res, _ := get(t, ts.URL+"/download?app_id=42")
	if res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", res.StatusCode)
	}
}

func TestVisualize_Charts(t *testing.T) {
	ts := newTestServer(t, files.New(t.TempDir()))
	res, body := get(t, ts.URL+"/visualize?app_id=42")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	var out map[string]map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["rating_chart"]["title"] != "Rating Distribution" || out["sentiment_chart"]["title"] != "Sentiment Distribution" {
		t.Fatalf("charts: %s", body)
	}
}

func TestETag_NotModified(t *testing.T) {
	ts := newTestServer(t, files.New(t.TempDir()))
	res, _ := get(t, ts.URL+"/collect?app_id=42")
	etag := res.Header.Get("ETag")
	if etag == "" {
		t.Fatalf("missing ETag")
	}
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/collect?app_id=42", nil)
	req.Header.Set("If-None-Match", etag)
	res2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res2.Body.Close()
	if res2.StatusCode != http.StatusNotModified {
		t.Fatalf("status %d, want 304", res2.StatusCode)
	}
}
