package provider

import (
	"regexp"
	"strconv"
	"strings"
)

// Pattern compilation for item name parsing
var (
	// Leading round token: "Round 22", "R22", "Episode 3", "Ep 3"
	roundRe = regexp.MustCompile(`(?i)^\s*(?:round|episode|ep|r)[\s._-]*(\d+)`)

	// Separators between a round token and the event name
	separatorRe = regexp.MustCompile(`^[\s._:\-–—]+`)

	// Token delimiters for season year extraction
	yearTokenRe = regexp.MustCompile(`[\s_-]+`)
)

const (
	minPlausibleYear = 1900
	maxPlausibleYear = 2100
)

// splitRound strips a leading round token from an item's display name.
// It returns the round number, the remaining name fragment, and whether a
// token was found. Names without a token come back unchanged.
//
//	"Round 22 - Las Vegas Grand Prix" -> 22, "Las Vegas Grand Prix", true
//	"Monaco Grand Prix"               -> 0, "Monaco Grand Prix", false
func splitRound(name string) (int, string, bool) {
	m := roundRe.FindStringSubmatchIndex(name)
	if m == nil {
		return 0, name, false
	}
	round, err := strconv.Atoi(name[m[2]:m[3]])
	if err != nil {
		return 0, name, false
	}
	fragment := name[m[1]:]
	fragment = separatorRe.ReplaceAllString(fragment, "")
	return round, strings.TrimSpace(fragment), true
}

// yearInRange reports whether n is a plausible season year.
func yearInRange(n int) bool {
	return n >= minPlausibleYear && n <= maxPlausibleYear
}

// yearFromName returns the first whitespace/hyphen/underscore-delimited
// token of name that parses as a plausible year, or 0.
func yearFromName(name string) int {
	for _, token := range yearTokenRe.Split(name, -1) {
		n, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		if yearInRange(n) {
			return n
		}
	}
	return 0
}

// normalizeName folds a name for comparison.
func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// splitAlternates splits a delimited alternate-names field. The remote
// uses both commas and slashes as delimiters.
func splitAlternates(alternate string) []string {
	if strings.TrimSpace(alternate) == "" {
		return nil
	}
	parts := strings.FieldsFunc(alternate, func(r rune) bool {
		return r == ',' || r == '/'
	})
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

// leagueNameMatches decides whether query names the given league. Tiers in
// order: exact equality, equality against any alternate name, bidirectional
// substring containment. The first tier to hit wins.
func leagueNameMatches(query, name, alternate string) bool {
	q := normalizeName(query)
	n := normalizeName(name)
	if q == "" || n == "" {
		return false
	}
	if q == n {
		return true
	}
	for _, alt := range splitAlternates(alternate) {
		if q == normalizeName(alt) {
			return true
		}
	}
	return strings.Contains(n, q) || strings.Contains(q, n)
}
