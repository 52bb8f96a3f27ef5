// Package court canonicalizes free-form court names so that faceted
// filters stay usable despite inconsistent source data.
package court

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// rewriteRule is one ordered rewrite step. Rules run in sequence and later
// rules see the output of earlier ones.
type rewriteRule struct {
	pattern *regexp.Regexp
	replace string
}

// rules collapse known phrasing variants of the same institution. The list
// is heuristic, not exhaustive: new phrasings need new rules.
var rules = []rewriteRule{
	{
		regexp.MustCompile(`(?i)Superior Court Of (The )?State Of California,? County Of (.+)`),
		"Superior Court of California, County of ${2}",
	},
	{
		regexp.MustCompile(`(?i)Superior Court Of California,? County Of (.+)`),
		"Superior Court of California, County of ${1}",
	},
	{
		regexp.MustCompile(`(?i)Supreme Court Of (The )?State Of California`),
		"Supreme Court of California",
	},
	{
		regexp.MustCompile(`(?i)Court Of Appeal Of (The )?State Of California,? (.+)`),
		"Court of Appeal of California, ${2}",
	},
}

var (
	justiceCenterRe = regexp.MustCompile(`(?i)County Of ([^,]+),?\s+(.+?)\s*Justice Center`)
	divisionRe      = regexp.MustCompile(`([^,]+) Division`)
)

// Normalize returns the canonical form of a court name. It is pure and
// total: empty input yields empty output. The input is trimmed and
// title-cased before the rewrite rules run.
func Normalize(name string) string {
	if name == "" {
		return ""
	}

	normalized := titleCase(strings.TrimSpace(name))

	for _, r := range rules {
		normalized = r.pattern.ReplaceAllString(normalized, r.replace)
	}

	// Re-anchor Justice Center qualifiers into canonical position.
	if strings.Contains(normalized, "Justice Center") {
		if m := justiceCenterRe.FindStringSubmatch(normalized); m != nil {
			county, center := m[1], m[2]
			normalized = "Superior Court of California, County of " + county + ", " + center + " Justice Center"
		}
	}

	if strings.Contains(normalized, "Division") {
		normalized = divisionRe.ReplaceAllString(normalized, "Division ${1}")
	}

	return normalized
}

// GroupSimilar maps each name through Normalize and returns the distinct
// canonical forms, sorted. Original casing variants are discarded: one
// representative per group is enough for a filter dropdown.
func GroupSimilar(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		seen[Normalize(name)] = struct{}{}
	}

	grouped := make([]string, 0, len(seen))
	for name := range seen {
		grouped = append(grouped, name)
	}
	sort.Strings(grouped)
	return grouped
}

// titleCase uppercases the first letter of every word and lowercases the
// rest, treating any non-letter as a word boundary (handles all-caps input).
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
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
