package tokenizer

import (
	"strings"
	"unicode"
)

// Trigrams returns the set of character trigrams of s. Each alphanumeric word is
// lowercased and padded with two leading blanks and one trailing blank before
// splitting, which is how trigram similarity is defined for title matching.
func Trigrams(s string) map[string]struct{} {
	set := make(map[string]struct{})

	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		padded := []rune("  " + w + " ")
		for i := 0; i+3 <= len(padded); i++ {
			set[string(padded[i:i+3])] = struct{}{}
		}
	}
	return set
}

// Similarity returns the share of trigrams two strings have in common, in [0, 1].
func Similarity(a, b string) float64 {
	ta, tb := Trigrams(a), Trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(ta)+len(tb)-shared)
}
