package tokenizer

// keywordStopwords are dropped by keyword extraction: english function words plus news filler.
var keywordStopwords = toSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to",
	"for", "of", "with", "by", "from", "as", "is", "was", "are",
	"were", "been", "be", "have", "has", "had", "do", "does", "did",
	"will", "would", "could", "should", "may", "might", "must",
	"that", "this", "these", "those", "it", "its", "they", "their",
	"we", "you", "he", "she", "who", "which", "what", "when", "where",
	"how", "why", "all", "each", "every", "both", "few", "more", "most",
	"other", "some", "such", "no", "nor", "not", "only", "own", "same",
	"so", "than", "too", "very", "can", "just", "now", "also",
	"said", "says", "new", "year", "years", "one", "two", "first", "last",
)

// searchStopwords mirrors the english full-text dictionary stop list.
var searchStopwords = toSet(
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "your",
	"yours", "yourself", "yourselves", "he", "him", "his", "himself", "she", "her",
	"hers", "herself", "it", "its", "itself", "they", "them", "their", "theirs",
	"themselves", "what", "which", "who", "whom", "this", "that", "these", "those",
	"am", "is", "are", "was", "were", "be", "been", "being", "have", "has", "had",
	"having", "do", "does", "did", "doing", "a", "an", "the", "and", "but", "if",
	"or", "because", "as", "until", "while", "of", "at", "by", "for", "with",
	"about", "against", "between", "into", "through", "during", "before", "after",
	"above", "below", "to", "from", "up", "down", "in", "out", "on", "off", "over",
	"under", "again", "further", "then", "once", "here", "there", "when", "where",
	"why", "how", "all", "any", "both", "each", "few", "more", "most", "other",
	"some", "such", "no", "nor", "not", "only", "own", "same", "so", "than", "too",
	"very", "s", "t", "can", "will", "just", "don", "should", "now",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopword reports whether a lowercased word is excluded from keyword extraction.
func IsStopword(word string) bool {
	_, ok := keywordStopwords[word]
	return ok
}

// IsSearchStopword reports whether a lowercased token is ignored by full-text matching.
func IsSearchStopword(token string) bool {
	_, ok := searchStopwords[token]
	return ok
}
