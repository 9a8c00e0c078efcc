package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gcbaptista/news-search-engine/model"
)

func defaultPlan() Plan {
	return Plan{Weights: DefaultWeights(), Thresholds: DefaultThresholds()}
}

func hit(id string, combined float64, published *time.Time) model.ArticleHit {
	return model.ArticleHit{
		Article:       model.Article{ID: id, PublishedAt: published},
		CombinedScore: combined,
	}
}

func day(d int) *time.Time {
	t := time.Date(2024, time.March, d, 12, 0, 0, 0, time.UTC)
	return &t
}

func ids(hits []model.ArticleHit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Article.ID
	}
	return out
}

func TestPlan_Combined(t *testing.T) {
	p := defaultPlan()

	a := p.Combined(0.5, 0.0)
	b := p.Combined(0.0, 0.4)

	assert.InDelta(t, 0.35, a, 1e-9)
	assert.InDelta(t, 0.12, b, 1e-9)
	assert.Greater(t, a, b)
}

func TestPlan_Eligible(t *testing.T) {
	p := defaultPlan()

	tests := []struct {
		name       string
		rank, sim  float64
		wantResult bool
	}{
		{"rank only", 0.02, 0, true},
		{"similarity only", 0, 0.2, true},
		{"both below", 0.01, 0.1, false},
		{"both above", 0.5, 0.5, true},
		{"nothing", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantResult, p.Eligible(tt.rank, tt.sim))
		})
	}
}

func TestSort(t *testing.T) {
	base := func() []model.ArticleHit {
		return []model.ArticleHit{
			hit("a", 0.30, day(1)),
			hit("b", 0.50, day(2)),
			hit("c", 0.30, day(3)),
			hit("d", 0.10, nil),
			hit("e", 0.30, nil),
		}
	}

	tests := []struct {
		order SortOrder
		want  []string
	}{
		// undated articles are last ascending and first descending
		{SortRelevance, []string{"b", "e", "c", "a", "d"}},
		{SortDate, []string{"a", "b", "c", "e", "d"}},
		{SortDateDesc, []string{"e", "d", "c", "b", "a"}},
		{SortOrder("title"), []string{"b", "a", "c", "e", "d"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			hits := base()
			Sort(hits, tt.order)
			assert.Equal(t, tt.want, ids(hits))
		})
	}
}

func TestWindow(t *testing.T) {
	hits := make([]model.ArticleHit, 25)
	for i := range hits {
		hits[i] = hit(string(rune('a'+i)), float64(100-i), nil)
	}

	page2 := Window(hits, 10, 10)
	assert.Len(t, page2, 10)
	assert.Equal(t, hits[10].Article.ID, page2[0].Article.ID)
	assert.Equal(t, hits[19].Article.ID, page2[9].Article.ID)

	assert.Len(t, Window(hits, 20, 10), 5)
	assert.Empty(t, Window(hits, 30, 10))
	assert.Empty(t, Window(hits, 0, 0))
	assert.Len(t, Window(hits, -5, 3), 3)
}
