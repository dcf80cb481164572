package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxQueryLength bounds search queries accepted by the locations API.
const MaxQueryLength = 128

// ValidateQuery validates a search query before it reaches a store.
//
// The validation rules are intentionally conservative:
//   - Maximum length of MaxQueryLength runes
//   - No control characters or null bytes
//
// An empty query is valid; callers decide what an empty search returns.
func ValidateQuery(q string) error {
	if !utf8.ValidString(q) {
		return New(ErrCodeInvalidQuery, "query is not valid UTF-8")
	}
	if utf8.RuneCountInString(q) > MaxQueryLength {
		return New(ErrCodeInvalidQuery, "query too long (max %d characters)", MaxQueryLength)
	}
	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidQuery, "query contains invalid control characters")
		}
	}
	return nil
}

// ValidateArticleSlug validates an article slug used to select content.
// Slugs are lowercase words separated by single dashes.
func ValidateArticleSlug(slug string) error {
	if slug == "" {
		return New(ErrCodeInvalidInput, "article slug cannot be empty")
	}
	if len(slug) > 100 {
		return New(ErrCodeInvalidInput, "article slug too long (max 100 characters)")
	}
	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") || strings.Contains(slug, "--") {
		return New(ErrCodeInvalidInput, "invalid article slug: %q", slug)
	}
	for _, r := range slug {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
			return New(ErrCodeInvalidInput, "invalid article slug: %q", slug)
		}
	}
	return nil
}
