package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/news-search-engine/model"
)

func TestDefault_PriorityOrder(t *testing.T) {
	l := Default()

	assert.Equal(t, []string{Economy, Market, Health, Technology, Industry}, l.Names())
	assert.Equal(t, 5, l.Len())

	cat, ok := l.Lookup(Market)
	require.True(t, ok)
	assert.Equal(t, "Market (Commodities)", cat.DisplayName)

	_, ok = l.Lookup("sports")
	assert.False(t, ok)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name       string
		categories []model.Category
	}{
		{"missing name", []model.Category{{Keywords: []string{"a"}}}},
		{"duplicate name", []model.Category{{Name: "x"}, {Name: "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.categories)
			assert.Error(t, err)
		})
	}
}

func TestUniqueMatches(t *testing.T) {
	l := Default()

	tests := []struct {
		name string
		text string
		want []int
	}{
		{"empty", "", []int{0, 0, 0, 0, 0}},
		{"no keywords", "The quick brown fox", []int{0, 0, 0, 0, 0}},
		{"repeated keyword counts once", "Oil oil OIL", []int{0, 1, 0, 0, 0}},
		{"whole words only", "stockholders and goldfish", []int{0, 0, 0, 0, 0}},
		{"multi word keyword", "Wall Street rallied", []int{0, 1, 0, 0, 0}},
		{"special characters", "the S&P 500 closed higher", []int{0, 1, 0, 0, 0}},
		{"several categories", "inflation hits stock prices at the hospital", []int{1, 1, 1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.UniqueMatches(tt.text))
		})
	}
}

func TestCategories_ReturnsCopy(t *testing.T) {
	l := Default()

	cats := l.Categories()
	cats[0].Name = "mutated"
	cats[0].Keywords[0] = "mutated"

	fresh := l.Categories()
	assert.Equal(t, Economy, fresh[0].Name)
	assert.Equal(t, "economy", fresh[0].Keywords[0])
}

func TestCompile_EmptyKeywordList(t *testing.T) {
	l, err := Compile([]model.Category{{Name: "empty"}, {Name: "tech", Keywords: []string{"chip"}}})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1}, l.UniqueMatches("a new chip"))
}
