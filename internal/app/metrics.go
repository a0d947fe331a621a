package app

import (
	"sort"

	"review_insights/internal/domain"
)

// ComputeMetrics summarizes ratings. It returns nil for an empty table.
func ComputeMetrics(t domain.ReviewTable) *domain.MetricsReport {
	if len(t) == 0 {
		return nil
	}
	total := len(t)
	ratings := make([]int, total)
	counts := map[int]int{}
	sum := 0
	for i, r := range t {
		ratings[i] = r.Rating
		counts[r.Rating]++
		sum += r.Rating
	}

	dist := make(map[int]domain.RatingBucket, len(counts))
	for rating, n := range counts {
		dist[rating] = domain.RatingBucket{Count: n, Percentage: float64(n) / float64(total) * 100}
	}
	return &domain.MetricsReport{
		AverageRating:      float64(sum) / float64(total),
		MedianRating:       median(ratings),
		TotalReviews:       total,
		RatingDistribution: dist,
	}
}

func median(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	mid := len(cp) / 2
	if len(cp)%2 == 1 {
		return float64(cp[mid])
	}
	return 0.5 * float64(cp[mid-1]+cp[mid])
}
