package nlp

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"review_insights/internal/domain"
)

const topicWords = 4

// TFIDFEmbedder embeds documents as their TF-IDF rows over the given corpus.
type TFIDFEmbedder struct{}

func (TFIDFEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	return Vectorize(texts).Rows, nil
}

// DensityClusterer groups documents whose embeddings are dense in cosine
// space. Points reachable from no core point land in the outlier topic.
type DensityClusterer struct {
	embedder  domain.Embedder
	keywords  domain.KeywordExtractor
	eps       float64
	minPoints int
}

func NewDensityClusterer(e domain.Embedder, kw domain.KeywordExtractor, eps float64, minPoints int) *DensityClusterer {
	if eps <= 0 {
		eps = 0.7
	}
	if minPoints < 1 {
		minPoints = 2
	}
	return &DensityClusterer{embedder: e, keywords: kw, eps: eps, minPoints: minPoints}
}

func (c *DensityClusterer) Cluster(ctx context.Context, docs []string) (domain.TopicResult, error) {
	if len(docs) == 0 {
		return domain.TopicResult{Assignments: []int{}, Topics: []domain.TopicInfo{}}, nil
	}
	vecs, err := c.embedder.Embed(ctx, docs)
	if err != nil {
		return domain.TopicResult{}, fmt.Errorf("embed: %w", err)
	}
	if len(vecs) != len(docs) {
		return domain.TopicResult{}, fmt.Errorf("embed: got %d vectors for %d docs", len(vecs), len(docs))
	}
	unit, err := normalize(vecs)
	if err != nil {
		return domain.TopicResult{}, err
	}

	labels := relabelBySize(dbscan(unit, c.eps, c.minPoints))
	return domain.TopicResult{Assignments: labels, Topics: c.describe(docs, labels)}, nil
}

func (c *DensityClusterer) describe(docs []string, labels []int) []domain.TopicInfo {
	members := map[int][]string{}
	for i, l := range labels {
		if l == domain.OutlierTopic {
			continue
		}
		members[l] = append(members[l], docs[i])
	}
	out := make([]domain.TopicInfo, 0, len(members))
	for id := 0; id < len(members); id++ {
		kws := c.keywords.TopKeywords(members[id], topicWords)
		name := strconv.Itoa(id)
		if len(kws) > 0 {
			name += "_" + strings.Join(kws, "_")
		}
		out = append(out, domain.TopicInfo{Topic: id, Count: len(members[id]), Name: name, Keywords: kws})
	}
	return out
}

func normalize(vecs [][]float64) ([][]float64, error) {
	dim := len(vecs[0])
	out := make([][]float64, len(vecs))
	for i, v := range vecs {
		if len(v) != dim {
			return nil, fmt.Errorf("embed: inconsistent vector dimensions %d and %d", dim, len(v))
		}
		u := append([]float64(nil), v...)
		if n := floats.Norm(u, 2); n > 0 {
			floats.Scale(1/n, u)
		}
		out[i] = u
	}
	return out, nil
}

const unvisited = -2

// dbscan labels clusters 0..k-1 in discovery order; noise is OutlierTopic.
// Inputs must be unit vectors (zero vectors are never neighbors of anything but themselves).
func dbscan(vecs [][]float64, eps float64, minPoints int) []int {
	labels := make([]int, len(vecs))
	for i := range labels {
		labels[i] = unvisited
	}
	neighbors := func(i int) []int {
		var nb []int
		for j := range vecs {
			if j == i || 1-floats.Dot(vecs[i], vecs[j]) <= eps {
				nb = append(nb, j)
			}
		}
		return nb
	}

	cluster := 0
	for i := range vecs {
		if labels[i] != unvisited {
			continue
		}
		nb := neighbors(i)
		if len(nb) < minPoints {
			labels[i] = domain.OutlierTopic
			continue
		}
		labels[i] = cluster
		queue := nb
		for k := 0; k < len(queue); k++ {
			j := queue[k]
			if labels[j] == domain.OutlierTopic {
				labels[j] = cluster // border point
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = cluster
			if jn := neighbors(j); len(jn) >= minPoints {
				queue = append(queue, jn...)
			}
		}
		cluster++
	}
	return labels
}

// relabelBySize renumbers clusters so 0 is the largest; ties keep discovery order.
func relabelBySize(labels []int) []int {
	sizes := map[int]int{}
	for _, l := range labels {
		if l != domain.OutlierTopic {
			sizes[l]++
		}
	}
	ids := make([]int, 0, len(sizes))
	for id := range sizes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool {
		if sizes[ids[a]] != sizes[ids[b]] {
			return sizes[ids[a]] > sizes[ids[b]]
		}
		return ids[a] < ids[b]
	})
	remap := make(map[int]int, len(ids))
	for newID, old := range ids {
		remap[old] = newID
	}
	out := make([]int, len(labels))
	for i, l := range labels {
		if l == domain.OutlierTopic {
			out[i] = l
			continue
		}
		out[i] = remap[l]
	}
	return out
}
