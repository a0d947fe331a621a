package app

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"review_insights/internal/domain"
)

// feed entry paths
const (
	textPath   = "content.label"
	titlePath  = "title.label"
	ratingPath = "im:rating.label"
)

// Normalize flattens feed entries into a table. Missing fields become ""/0
// and no entry is ever dropped.
func Normalize(p domain.FeedPayload) domain.ReviewTable {
	if p.Empty() {
		return domain.ReviewTable{}
	}
	out := make(domain.ReviewTable, 0, len(p.Feed.Entries))
	for _, e := range p.Feed.Entries {
		out = append(out, domain.ReviewRecord{
			ReviewText: strings.ToLower(labelString(gjson.GetBytes(e, textPath))),
			Title:      strings.ToLower(labelString(gjson.GetBytes(e, titlePath))),
			Rating:     parseRating(gjson.GetBytes(e, ratingPath)),
		})
	}
	return out
}

func labelString(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

// parseRating accepts "4", " 4 " or 4; anything else, or a negative value, is 0.
func parseRating(r gjson.Result) int {
	var n int
	switch r.Type {
	case gjson.Number:
		if r.Num != float64(int64(r.Num)) {
			return 0
		}
		n = int(r.Num)
	case gjson.String:
		v, err := strconv.Atoi(strings.TrimSpace(r.Str))
		if err != nil {
			return 0
		}
		n = v
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}
