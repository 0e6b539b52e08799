package heuristics

import (
	"regexp"
	"strings"
)

// sensitive lists fragments that hint at credentials, payment data or personal
// identifiers (English and Russian terms).
var sensitive = regexp.MustCompile(`(?i)(парол|логин|passport|card|secret|key|token|pin|личн|private|bank|iban|inn|snils|email|@|mail)`)

// LooksSensitive reports whether s probably contains private data.
// The result is advisory; it never blocks generation.
func LooksSensitive(s string) bool {
	return sensitive.MatchString(s)
}

// SensitiveTerms returns the distinct matched fragments of s, lower-cased, in
// order of first appearance.
func SensitiveTerms(s string) []string {
	matches := sensitive.FindAllString(s, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	terms := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.ToLower(m)
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		terms = append(terms, m)
	}
	return terms
}
