// Package lexicon holds the category keyword table and its compiled whole-word matchers.
package lexicon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gcbaptista/news-search-engine/model"
)

// Lexicon is an immutable, compiled category table. It is safe for concurrent use.
type Lexicon struct {
	categories []model.Category
	matchers   []*regexp.Regexp
	index      map[string]int
}

// Compile builds one case-insensitive whole-word matcher per category.
// The order of categories is the tie-break priority used by detection.
func Compile(categories []model.Category) (*Lexicon, error) {
	l := &Lexicon{
		categories: make([]model.Category, len(categories)),
		matchers:   make([]*regexp.Regexp, len(categories)),
		index:      make(map[string]int, len(categories)),
	}

	for i, cat := range categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("category at position %d has no name", i)
		}
		if _, dup := l.index[cat.Name]; dup {
			return nil, fmt.Errorf("duplicate category %q", cat.Name)
		}

		cat.Keywords = append([]string(nil), cat.Keywords...)
		l.categories[i] = cat
		l.index[cat.Name] = i

		re, err := compileKeywords(cat.Keywords)
		if err != nil {
			return nil, fmt.Errorf("compile keywords for %q: %w", cat.Name, err)
		}
		l.matchers[i] = re
	}

	return l, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(categories []model.Category) *Lexicon {
	l, err := Compile(categories)
	if err != nil {
		panic(err)
	}
	return l
}

// Default compiles DefaultCategories.
func Default() *Lexicon {
	return MustCompile(DefaultCategories())
}

func compileKeywords(keywords []string) (*regexp.Regexp, error) {
	parts := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(strings.ToLower(kw)))
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return regexp.Compile(`(?i)\b(` + strings.Join(parts, "|") + `)\b`)
}

// Categories returns a copy of the category table in priority order.
func (l *Lexicon) Categories() []model.Category {
	out := make([]model.Category, len(l.categories))
	for i, cat := range l.categories {
		cat.Keywords = append([]string(nil), cat.Keywords...)
		out[i] = cat
	}
	return out
}

// Names returns the category names in priority order.
func (l *Lexicon) Names() []string {
	names := make([]string, len(l.categories))
	for i, cat := range l.categories {
		names[i] = cat.Name
	}
	return names
}

// Lookup returns the category with the given name.
func (l *Lexicon) Lookup(name string) (model.Category, bool) {
	i, ok := l.index[name]
	if !ok {
		return model.Category{}, false
	}
	return l.categories[i], true
}

// Len returns the number of categories.
func (l *Lexicon) Len() int {
	return len(l.categories)
}

// UniqueMatches counts, per category in priority order, the distinct keyword forms found in text.
// Forms are compared lowercased, so "Oil" and "oil" count once.
func (l *Lexicon) UniqueMatches(text string) []int {
	counts := make([]int, len(l.matchers))
	if text == "" {
		return counts
	}

	lower := strings.ToLower(text)
	for i, re := range l.matchers {
		if re == nil {
			continue
		}
		seen := make(map[string]struct{})
		for _, m := range re.FindAllString(lower, -1) {
			seen[m] = struct{}{}
		}
		counts[i] = len(seen)
	}
	return counts
}
