package models

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	problemsBaseURL = "https://leetcode.com/problems/"
	unknownSlug     = "unknown"
)

var (
	slugStripRe = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaceRe = regexp.MustCompile(`\s+`)
)

// DeriveSlug builds a url slug from a numbered title such as "1. Two Sum".
// The text after the first "." is lowercased, stripped of punctuation and
// hyphenated. Titles without a "." or with nothing usable yield "unknown".
func DeriveSlug(title string) string {
	_, rest, found := strings.Cut(title, ".")
	if !found {
		return unknownSlug
	}
	s := strings.ToLower(strings.TrimSpace(rest))
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(s, "-")
	if s == "" {
		return unknownSlug
	}
	return s
}

// DeriveURL returns the problem url for a numbered title.
func DeriveURL(title string) string {
	return ProblemURL(DeriveSlug(title))
}

func ProblemURL(slug string) string {
	return problemsBaseURL + slug + "/"
}

// IsPlaceholderURL reports whether u carries no usable identity, either
// because it is empty or because it was derived from an unparsable title.
func IsPlaceholderURL(u string) bool {
	u = strings.TrimSpace(u)
	return u == "" || u == ProblemURL(unknownSlug)
}

// SlugFromURL extracts the problem slug from a problem page url such as
// https://leetcode.com/problems/two-sum/description/.
func SlugFromURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	parts := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(parts) < 2 || parts[0] != "problems" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// CanonicalURL reduces any problem page url to its canonical problem url so
// that ".../two-sum/description/" and ".../two-sum/" dedup to the same record.
// Urls that are not problem pages are returned trimmed but otherwise untouched.
func CanonicalURL(raw string) string {
	if slug, ok := SlugFromURL(raw); ok {
		return ProblemURL(slug)
	}
	return strings.TrimSpace(raw)
}
