package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"

	"review_insights/internal/domain"
)

// ---- fakes ----

type fakeFeed struct {
	mu    sync.Mutex
	pages map[int][]json.RawMessage
	errs  map[int]error
	calls int
}

func (f *fakeFeed) ReviewsPage(ctx context.Context, appID string, page int) ([]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.errs[page]; err != nil {
		return nil, err
	}
	return f.pages[page], nil
}

type stubScorer map[string]float64

func (s stubScorer) Compound(text string) float64 { return s[text] }

type stubClusterer struct {
	res   domain.TopicResult
	err   error
	calls int
	docs  []string
}

func (c *stubClusterer) Cluster(ctx context.Context, docs []string) (domain.TopicResult, error) {
	c.calls++
	c.docs = docs
	return c.res, c.err
}

type stubKeywords struct {
	out  []string
	docs []string
	n    int
}

func (k *stubKeywords) TopKeywords(docs []string, n int) []string {
	k.docs, k.n = docs, n
	return k.out
}

type memStore struct {
	data    map[string][]byte
	saveErr error
	loadErr error
}

func (m *memStore) Save(ctx context.Context, name string, b []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[name] = b
	return nil
}

func (m *memStore) Load(ctx context.Context, name string) ([]byte, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	b, ok := m.data[name]
	if !ok {
		return nil, domain.ErrArtifactNotFound
	}
	return b, nil
}

type fakeRuns struct {
	saved   []domain.AnalysisRun
	saveErr error
}

func (r *fakeRuns) SaveRun(ctx context.Context, run domain.AnalysisRun) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, run)
	return nil
}

func (r *fakeRuns) ListRuns(ctx context.Context, appID string, limit int) ([]domain.AnalysisRun, error) {
	var out []domain.AnalysisRun
	for i := len(r.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if r.saved[i].AppID == appID {
			out = append(out, r.saved[i])
		}
	}
	return out, nil
}

var errBoom = errors.New("boom")

// ---- helpers ----

func fixtureEntries(t *testing.T) []json.RawMessage {
	t.Helper()
	b, err := os.ReadFile("testdata/feed_page.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var p domain.FeedPayload
	if err := json.Unmarshal(b, &p); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return p.Feed.Entries
}

func raw(s string) json.RawMessage { return json.RawMessage(s) }
