package tokenizer

import (
	"regexp"
	"strings"

	snowballeng "github.com/kljensen/snowball/english"
)

// nonAlphanumericRegex matches sequences of non-alphanumeric characters.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// wordRegex matches runs of three or more ASCII letters on word boundaries.
var wordRegex = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

// Tokenize lowercases the string and splits it by non-alphanumeric characters.
func Tokenize(text string) []string {
	split := nonAlphanumericRegex.Split(strings.ToLower(text), -1)

	tokens := make([]string, 0, len(split))
	for _, s := range split {
		if s != "" {
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// Words returns the lowercased words of at least three letters, in order of appearance.
// Digits and shorter words are dropped; "U.S." and "AI" yield nothing.
func Words(text string) []string {
	return wordRegex.FindAllString(strings.ToLower(text), -1)
}

// Term is a stemmed full-text term and its position among the tokens of the source text.
type Term struct {
	Text string
	Pos  int
}

// Analyze turns text into stemmed full-text terms. Search stopwords are dropped
// but still advance the position counter, so phrase gaps are preserved.
func Analyze(text string) []Term {
	tokens := Tokenize(text)
	terms := make([]Term, 0, len(tokens))
	for pos, tok := range tokens {
		if IsSearchStopword(tok) {
			continue
		}
		terms = append(terms, Term{Text: Stem(tok), Pos: pos})
	}
	return terms
}

// Stem reduces a lowercased token to its english snowball stem.
func Stem(token string) string {
	return snowballeng.Stem(token, false)
}
