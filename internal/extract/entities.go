package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gcbaptista/news-search-engine/model"
)

const (
	maxEntitiesPerType = 10
	maxFallbackPhrases = 5
)

// DefaultCompanies is the gazetteer of organisation names recognised in article text.
var DefaultCompanies = []string{
	"apple", "google", "microsoft", "amazon", "meta", "facebook", "tesla",
	"nvidia", "netflix", "twitter", "uber", "lyft", "airbnb", "spotify",
	"salesforce", "oracle", "ibm", "intel", "amd", "qualcomm", "cisco",
	"jpmorgan", "goldman sachs", "morgan stanley", "bank of america",
	"wells fargo", "citigroup", "blackrock", "vanguard", "berkshire",
	"walmart", "target", "costco", "home depot", "starbucks", "mcdonalds",
	"pfizer", "moderna", "johnson & johnson", "merck", "abbvie",
	"exxon", "chevron", "shell", "bp", "conocophillips",
	"boeing", "airbus", "lockheed martin", "raytheon", "general electric",
	"ford", "gm", "toyota", "volkswagen", "bmw", "mercedes", "honda",
}

var (
	moneyRegex       = regexp.MustCompile(`(?i)\$[\d,]+(?:\.\d+)?(?:\s*(?:million|billion|trillion|[BMT]\b))?`)
	percentRegex     = regexp.MustCompile(`\d+(?:\.\d+)?\s*%`)
	capitalizedRegex = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)
)

// EntityExtractor finds money amounts, percentages and organisations with regular expressions.
// It is immutable after construction and safe for concurrent use.
type EntityExtractor struct {
	companies *regexp.Regexp
}

// NewEntityExtractor compiles a whole-word, case-insensitive matcher over the given company names.
func NewEntityExtractor(companies []string) *EntityExtractor {
	parts := make([]string, 0, len(companies))
	for _, c := range companies {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, regexp.QuoteMeta(c))
		}
	}

	e := &EntityExtractor{}
	if len(parts) > 0 {
		e.companies = regexp.MustCompile(`(?i)\b(` + strings.Join(parts, "|") + `)\b`)
	}
	return e
}

// Extract returns the entities found in text keyed by type. Types without matches are omitted.
// Capitalised multi-word phrases are reported as organisations only when no known company matched.
func (e *EntityExtractor) Extract(text string) model.Entities {
	entities := model.Entities{}
	if strings.TrimSpace(text) == "" {
		return entities
	}

	if money := dedupe(moneyRegex.FindAllString(text, -1), maxEntitiesPerType); len(money) > 0 {
		entities[model.EntityMoney] = money
	}

	if pct := dedupe(percentRegex.FindAllString(text, -1), maxEntitiesPerType); len(pct) > 0 {
		entities[model.EntityPercentages] = pct
	}

	if e.companies != nil {
		matches := e.companies.FindAllString(text, -1)
		for i, m := range matches {
			matches[i] = titleCase(m)
		}
		if orgs := dedupe(matches, maxEntitiesPerType); len(orgs) > 0 {
			entities[model.EntityOrganizations] = orgs
		}
	}

	if _, found := entities[model.EntityOrganizations]; !found {
		if phrases := dedupe(capitalizedRegex.FindAllString(text, -1), maxFallbackPhrases); len(phrases) > 0 {
			entities[model.EntityOrganizations] = phrases
		}
	}

	return entities
}

// dedupe keeps the first occurrence of each value and truncates to limit.
func dedupe(values []string, limit int) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out
}

// titleCase upper-cases the first letter of every letter run and lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
