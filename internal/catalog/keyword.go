package catalog

import (
	"strings"
	"unicode"

	"github.com/Rrens/quackbot/internal/domain"
)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "about": {}, "do": {}, "does": {}, "for": {}, "how": {},
	"in": {}, "is": {}, "me": {}, "of": {}, "on": {}, "or": {}, "tell": {}, "the": {}, "to": {},
	"what": {}, "which": {}, "who": {}, "with": {},
}

// Tokens lowercases s and splits it into words, dropping stopwords and single characters
func Tokens(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// MatchKeywords returns companies whose name, descriptions or tags contain any query word
// as a whole word, in catalog order, at most limit of them (limit <= 0 means no limit).
func MatchKeywords(companies []domain.Company, query string, limit int) []domain.Company {
	words := Tokens(query)
	result := make([]domain.Company, 0)
	if len(words) == 0 {
		return result
	}

	for i := range companies {
		if limit > 0 && len(result) == limit {
			break
		}
		if containsAny(Tokens(companies[i].Text()), words) {
			result = append(result, companies[i])
		}
	}
	return result
}

func containsAny(haystack, words []string) bool {
	for _, h := range haystack {
		for _, w := range words {
			if h == w {
				return true
			}
		}
	}
	return false
}
