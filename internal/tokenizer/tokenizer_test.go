package tokenizer

import (
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", []string{}},
		{"simple lowercase", "hello world", []string{"hello", "world"}},
		{"with punctuation", "hello, world!", []string{"hello", "world"}},
		{"with numbers", "item123 test", []string{"item123", "test"}},
		{"leading/trailing spaces", "  hello world  ", []string{"hello", "world"}},
		{"string with hyphen", "state-of-the-art", []string{"state", "of", "the", "art"}},
		{"all caps word", "HELLO WORLD", []string{"hello", "world"}},
		{"only symbols", "!@#$%^", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"short words dropped", "AI is a big deal", []string{"big", "deal"}},
		{"digits split words", "GPT4o and 5G", []string{"and"}},
		{"lowercased", "Cat DOG cat", []string{"cat", "dog", "cat"}},
		{"apostrophes break words", "Apple's stock", []string{"apple", "stock"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Words(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Words(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	got := Analyze("The markets are falling")
	want := []Term{{Text: "market", Pos: 1}, {Text: "fall", Pos: 3}}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Analyze() = %v, want %v", got, want)
	}
}

func TestStopwords(t *testing.T) {
	for _, w := range []string{"the", "said", "years", "first"} {
		if !IsStopword(w) {
			t.Errorf("Expected %q to be a keyword stopword", w)
		}
	}
	if IsStopword("market") {
		t.Error("Expected 'market' not to be a keyword stopword")
	}
	if IsSearchStopword("said") {
		t.Error("Expected 'said' to be searchable")
	}
	if !IsSearchStopword("the") {
		t.Error("Expected 'the' to be a search stopword")
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "word", "word", 1},
		{"case insensitive", "Word", "WORD", 1},
		{"empty side", "", "word", 0},
		{"plural", "cat", "cats", 0.5},
		{"disjoint", "abc", "xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTrigrams(t *testing.T) {
	got := Trigrams("cat")
	want := map[string]struct{}{"  c": {}, " ca": {}, "cat": {}, "at ": {}}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Trigrams(\"cat\") = %v, want %v", got, want)
	}
}
