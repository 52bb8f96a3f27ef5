// Package legaltag validates free-form tags against the controlled legal
// topic vocabulary. LLM output is best-matched rather than trusted: a tag
// that survives validation is always a vocabulary member.
package legaltag

import "strings"

// Vocabulary is the controlled set of legal topic tags. Order matters: the
// word-overlap strategy breaks ties by vocabulary position.
var Vocabulary = []string{
	"DUI",
	"Drug Possession",
	"Assault",
	"Domestic Violence",
	"Burglary",
	"Theft",
	"Fraud",
	"Homicide",
	"Weapons",
	"Probation Violation",
	"Parole",
	"Sentencing",
	"Evidence Suppression",
	"Search and Seizure",
	"Bail",
	"Plea Agreement",
	"Competency",
	"Juvenile",
	"Immigration",
	"Civil Rights",
	"Appeal",
	"Restitution",
}

// Match resolves a raw tag to a vocabulary member via a ranked strategy
// chain: exact match, then substring containment, then word overlap. The
// first strategy that produces a result wins. Returns false when no
// strategy matches.
//
// The word-overlap fallback can assign a tag the classifier never intended
// when overlap is coincidental; that fuzziness is part of the contract.
func Match(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if tag, ok := matchExact(raw); ok {
		return tag, true
	}
	if tag, ok := matchSubstring(raw); ok {
		return tag, true
	}
	return matchWordOverlap(raw)
}

// ValidateTags maps each raw tag through Match, dropping duplicates and
// tags that resolve to nothing.
func ValidateTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	validated := make([]string, 0, len(raw))

	for _, r := range raw {
		tag, ok := Match(r)
		if !ok {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		validated = append(validated, tag)
	}
	return validated
}

// matchExact is a case-insensitive equality check against the vocabulary.
func matchExact(raw string) (string, bool) {
	for _, tag := range Vocabulary {
		if strings.EqualFold(raw, tag) {
			return tag, true
		}
	}
	return "", false
}

// matchSubstring matches when the raw tag contains a vocabulary term or a
// vocabulary term contains the raw tag, case-insensitively.
func matchSubstring(raw string) (string, bool) {
	lower := strings.ToLower(raw)
	for _, tag := range Vocabulary {
		tagLower := strings.ToLower(tag)
		if strings.Contains(lower, tagLower) || strings.Contains(tagLower, lower) {
			return tag, true
		}
	}
	return "", false
}

// matchWordOverlap picks the vocabulary term sharing the most words with
// the raw tag. At least one shared word is required; ties resolve to the
// earlier vocabulary entry.
func matchWordOverlap(raw string) (string, bool) {
	rawWords := wordSet(raw)
	if len(rawWords) == 0 {
		return "", false
	}

	best := ""
	bestCount := 0
	for _, tag := range Vocabulary {
		count := 0
		for w := range wordSet(tag) {
			if _, ok := rawWords[w]; ok {
				count++
			}
		}
		if count > bestCount {
			best = tag
			bestCount = count
		}
	}

	if bestCount == 0 {
		return "", false
	}
	return best, true
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}
