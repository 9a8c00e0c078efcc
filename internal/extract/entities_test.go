package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gcbaptista/news-search-engine/model"
)

func TestEntityExtractor_Extract(t *testing.T) {
	e := NewEntityExtractor(DefaultCompanies)

	tests := []struct {
		name string
		text string
		want model.Entities
	}{
		{
			name: "money percentage and company",
			text: "Apple reported $1.5 billion revenue, up 12%.",
			want: model.Entities{
				model.EntityMoney:         {"$1.5 billion"},
				model.EntityPercentages:   {"12%"},
				model.EntityOrganizations: {"Apple"},
			},
		},
		{
			name: "companies are title cased and deduplicated",
			text: "GOLDMAN SACHS and goldman sachs joined Johnson & Johnson",
			want: model.Entities{
				model.EntityOrganizations: {"Goldman Sachs", "Johnson & Johnson"},
			},
		},
		{
			name: "fallback to capitalised phrases",
			text: "Jerome Powell spoke in New York on Tuesday",
			want: model.Entities{
				model.EntityOrganizations: {"Jerome Powell", "New York"},
			},
		},
		{
			name: "scale words match as a prefix",
			text: "Losses of $5 billions and $2 millionaire bets",
			want: model.Entities{
				model.EntityMoney: {"$5 billion", "$2 million"},
			},
		},
		{
			name: "suffix letters need a word boundary",
			text: "Prices rose $5 to $7 and $3M",
			want: model.Entities{
				model.EntityMoney: {"$5", "$7", "$3M"},
			},
		},
		{
			name: "percent with space",
			text: "rates at 4.25 % and 4.25 %",
			want: model.Entities{
				model.EntityPercentages: {"4.25 %"},
			},
		},
		{name: "nothing found", text: "quiet day", want: model.Entities{}},
		{name: "empty", text: "   ", want: model.Entities{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Extract(tt.text))
		})
	}
}

func TestEntityExtractor_Caps(t *testing.T) {
	e := NewEntityExtractor(DefaultCompanies)

	var money []string
	for i := 1; i <= 15; i++ {
		money = append(money, "$"+strings.Repeat("1", i))
	}
	got := e.Extract(strings.Join(money, " "))
	assert.Len(t, got[model.EntityMoney], 10)
	assert.Equal(t, "$1", got[model.EntityMoney][0])

	phrases := "Alpha Beta, Gamma Delta, Epsilon Zeta, Eta Theta, Iota Kappa, Lambda Mu, Nu Xi"
	got = e.Extract(phrases)
	assert.Len(t, got[model.EntityOrganizations], 5)
}

func TestEntityExtractor_EmptyGazetteer(t *testing.T) {
	e := NewEntityExtractor(nil)

	got := e.Extract("Apple and Tesla Motors")
	assert.Equal(t, model.Entities{model.EntityOrganizations: {"Tesla Motors"}}, got)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Bank Of America", titleCase("bank of america"))
	assert.Equal(t, "Johnson & Johnson", titleCase("JOHNSON & johnson"))
	assert.Equal(t, "Mcdonalds", titleCase("McDonalds"))
}
