// Package heuristics classifies free-text QR input: URL detection with scheme
// normalisation and an advisory check for probably sensitive content.
package heuristics

import (
	"regexp"
	"strings"
)

// likelyURL requires a domain-like token with at least one dot, followed by
// path or query characters.
var likelyURL = regexp.MustCompile(`^(https?://)?[\w\-]+(\.[\w\-]+)+[\w\-._~:/?#\[\]@!$&'()*+,;=.]+$`)

var hasScheme = regexp.MustCompile(`^https?://`)

// IsLikelyURL reports whether s looks like a web address.
func IsLikelyURL(s string) bool {
	return likelyURL.MatchString(s)
}

// EnsureHTTPS prefixes https:// to URL-like input that has no scheme.
// Anything else is returned unchanged.
func EnsureHTTPS(s string) string {
	if hasScheme.MatchString(s) {
		return s
	}
	if IsLikelyURL(s) {
		return "https://" + s
	}
	return s
}

// NormalizeInput trims s and, when it looks like a URL, makes sure it carries a
// scheme. The second return value reports whether s was classified as a URL.
func NormalizeInput(s string) (string, bool) {
	v := strings.TrimSpace(s)
	if !IsLikelyURL(v) {
		return v, false
	}
	return EnsureHTTPS(v), true
}
