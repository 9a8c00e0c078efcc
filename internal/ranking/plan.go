// Package ranking describes a search over the article store and the scoring rules
// every store applies to it: eligibility thresholds, the combined score and result order.
package ranking

import (
	"cmp"
	"slices"

	"github.com/gcbaptista/news-search-engine/model"
)

// SortOrder selects how matched articles are ordered.
type SortOrder string

const (
	SortRelevance SortOrder = "relevance"
	SortDate      SortOrder = "date"
	SortDateDesc  SortOrder = "-date"
)

// Weights combine the two ranking signals into one score.
type Weights struct {
	Rank       float64 `yaml:"rank"`
	Similarity float64 `yaml:"similarity"`
}

// Thresholds decide whether an article matches at all. An article is kept when
// either signal exceeds its threshold.
type Thresholds struct {
	MinRank       float64 `yaml:"min_rank"`
	MinSimilarity float64 `yaml:"min_similarity"`
}

// DefaultWeights returns the production weights.
func DefaultWeights() Weights {
	return Weights{Rank: 0.7, Similarity: 0.3}
}

// DefaultThresholds returns the production thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{MinRank: 0.01, MinSimilarity: 0.1}
}

// Plan is a fully resolved search: cleaned query text, optional category filter,
// scoring parameters, order and page window. Only processed articles are considered.
type Plan struct {
	Query      string
	Category   string
	Sort       SortOrder
	Offset     int
	Limit      int
	Weights    Weights
	Thresholds Thresholds
}

// Page is the store's answer to a Plan: the requested window and the total match count.
type Page struct {
	Hits  []model.ArticleHit
	Total int
}

// Combined returns the weighted score of the two signals.
func (p Plan) Combined(rank, similarity float64) float64 {
	return rank*p.Weights.Rank + similarity*p.Weights.Similarity
}

// Eligible reports whether an article with these signals matches the plan.
func (p Plan) Eligible(rank, similarity float64) bool {
	return rank > p.Thresholds.MinRank || similarity > p.Thresholds.MinSimilarity
}

// Score fills in the combined score of a hit.
func (p Plan) Score(hit model.ArticleHit) model.ArticleHit {
	hit.CombinedScore = p.Combined(hit.SearchRank, hit.TitleSimilarity)
	return hit
}

// Sort orders hits in place according to order. A missing publication date
// compares as later than any date, as NULL does in postgres: last ascending,
// first descending. Remaining ties fall back to ID.
func Sort(hits []model.ArticleHit, order SortOrder) {
	slices.SortStableFunc(hits, func(a, b model.ArticleHit) int {
		var c int
		switch order {
		case SortRelevance:
			c = cmp.Or(cmp.Compare(b.CombinedScore, a.CombinedScore), comparePublished(a, b, true))
		case SortDate:
			c = cmp.Or(comparePublished(a, b, false), cmp.Compare(b.CombinedScore, a.CombinedScore))
		case SortDateDesc:
			c = cmp.Or(comparePublished(a, b, true), cmp.Compare(b.CombinedScore, a.CombinedScore))
		default:
			c = cmp.Compare(b.CombinedScore, a.CombinedScore)
		}
		return cmp.Or(c, cmp.Compare(a.Article.ID, b.Article.ID))
	})
}

// Window returns the [offset, offset+limit) slice of hits, clamped to bounds.
func Window(hits []model.ArticleHit, offset, limit int) []model.ArticleHit {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(hits) || limit <= 0 {
		return []model.ArticleHit{}
	}
	end := offset + limit
	if end > len(hits) {
		end = len(hits)
	}
	return hits[offset:end]
}

func comparePublished(a, b model.ArticleHit, desc bool) int {
	pa, pb := a.Article.PublishedAt, b.Article.PublishedAt
	switch {
	case pa == nil && pb == nil:
		return 0
	case pa == nil:
		return flip(1, desc)
	case pb == nil:
		return flip(-1, desc)
	}
	if desc {
		return pb.Compare(*pa)
	}
	return pa.Compare(*pb)
}

func flip(c int, desc bool) int {
	if desc {
		return -c
	}
	return c
}
