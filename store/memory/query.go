package memory

import (
	"math"
	"slices"
	"strings"

	"github.com/gcbaptista/news-search-engine/internal/tokenizer"
)

// Field weights of the article search vector, highest first: title, keywords and summary, content.
var fieldWeights = [fieldCount]float64{1.0, 0.4, 0.2}

const (
	fieldTitle = iota
	fieldKeywordsSummary
	fieldContent
	fieldCount
)

// unitRank is the rank of a single term occurring once in the title.
const unitRank = 0.0607927

// clause is a single word or a phrase of stemmed terms, optionally negated.
type clause struct {
	terms   []tokenizer.Term
	negated bool
}

// webQuery is a disjunction of conjunctions, the shape of a web-search style query:
// bare words are ANDed, "quoted text" is a phrase, -word excludes and OR separates alternatives.
type webQuery struct {
	groups [][]clause
}

func (q webQuery) empty() bool {
	for _, g := range q.groups {
		for _, c := range g {
			if !c.negated {
				return false
			}
		}
	}
	return true
}

// parseWebQuery parses free text the way web search boxes are interpreted.
// Words that are search stopwords vanish; a query made only of stopwords matches nothing.
func parseWebQuery(text string) webQuery {
	var (
		groups  [][]clause
		current []clause
	)

	flush := func() {
		if len(current) > 0 {
			groups = append(groups, current)
		}
		current = nil
	}

	for _, piece := range splitQuery(text) {
		if !piece.quoted && strings.EqualFold(piece.text, "or") {
			flush()
			continue
		}

		terms := tokenizer.Analyze(piece.text)
		if len(terms) == 0 {
			continue
		}
		current = append(current, clause{terms: terms, negated: piece.negated})
	}
	flush()

	return webQuery{groups: groups}
}

type queryPiece struct {
	text    string
	quoted  bool
	negated bool
}

// splitQuery breaks text into whitespace separated words and double-quoted phrases.
// A leading '-' on either marks it as excluded. An unterminated quote runs to the end.
func splitQuery(text string) []queryPiece {
	var pieces []queryPiece
	runes := []rune(text)

	for i := 0; i < len(runes); {
		if runes[i] == ' ' || runes[i] == '\t' || runes[i] == '\n' {
			i++
			continue
		}

		negated := false
		if runes[i] == '-' && i+1 < len(runes) && runes[i+1] != ' ' {
			negated = true
			i++
		}

		if runes[i] == '"' {
			end := i + 1
			for end < len(runes) && runes[end] != '"' {
				end++
			}
			pieces = append(pieces, queryPiece{text: string(runes[i+1 : end]), quoted: true, negated: negated})
			i = end + 1
			continue
		}

		end := i
		for end < len(runes) && runes[end] != ' ' && runes[end] != '\t' && runes[end] != '\n' && runes[end] != '"' {
			end++
		}
		pieces = append(pieces, queryPiece{text: string(runes[i:end]), negated: negated})
		i = end
	}
	return pieces
}

// docVector holds the stemmed term positions of an article, per weighted field.
type docVector [fieldCount]map[string][]int

func newDocVector(title, keywordsSummary, content string) docVector {
	var v docVector
	for f, text := range [fieldCount]string{title, keywordsSummary, content} {
		v[f] = make(map[string][]int)
		for _, term := range tokenizer.Analyze(text) {
			v[f][term.Text] = append(v[f][term.Text], term.Pos)
		}
	}
	return v
}

// occurrences counts the matches of a clause in one field. Phrases must appear
// with the same relative term positions as in the query.
func (v docVector) occurrences(f int, c clause) int {
	first := v[f][c.terms[0].Text]
	if len(c.terms) == 1 {
		return len(first)
	}

	n := 0
	for _, start := range first {
		matched := true
		for _, t := range c.terms[1:] {
			want := start + (t.Pos - c.terms[0].Pos)
			if !slices.Contains(v[f][t.Text], want) {
				matched = false
				break
			}
		}
		if matched {
			n++
		}
	}
	return n
}

// rank scores the vector against the query in [0, 1]. Each alternative is scored as the
// mean of its positive clause scores and zeroed when an excluded clause occurs; the best
// alternative wins.
func (v docVector) rank(q webQuery) float64 {
	best := 0.0
	for _, group := range q.groups {
		sum, positives, excluded := 0.0, 0, false
		for _, c := range group {
			weighted := 0.0
			for f := 0; f < fieldCount; f++ {
				if n := v.occurrences(f, c); n > 0 {
					weighted += fieldWeights[f] * math.Log2(1+float64(n))
				}
			}
			if c.negated {
				if weighted > 0 {
					excluded = true
				}
				continue
			}
			positives++
			sum += math.Min(1, unitRank*weighted)
		}
		if excluded || positives == 0 {
			continue
		}
		if r := sum / float64(positives); r > best {
			best = r
		}
	}
	return best
}
