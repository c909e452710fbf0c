package security

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

const (
	// MaxSearchQueryLength defines the maximum allowed length for search queries
	MaxSearchQueryLength = 100
)

// ErrInvalidSearchQuery is returned for search terms that cannot be used as a name filter.
var ErrInvalidSearchQuery = errors.New("invalid search query")

// ValidateSearchQuery trims a name search term and checks its length.
// Any character is allowed; the term is bound as a parameter and matched literally.
// An empty result means "no filter".
func ValidateSearchQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}

	if utf8.RuneCountInString(query) > MaxSearchQueryLength {
		return "", errors.Join(ErrInvalidSearchQuery, errors.New("search query too long"))
	}

	return query, nil
}

// FoldName returns the Unicode case-folded form of s used for name matching.
func FoldName(s string) string {
	return cases.Fold().String(s)
}

// EscapeLike escapes LIKE wildcards so the term matches literally. Use with ESCAPE '\'.
func EscapeLike(query string) string {
	if query == "" {
		return ""
	}

	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(query)
}

// ContainsPattern builds a case-insensitive substring LIKE pattern for query.
// The caller compares it against a column holding FoldName of the stored value.
func ContainsPattern(query string) string {
	return "%" + EscapeLike(FoldName(query)) + "%"
}
