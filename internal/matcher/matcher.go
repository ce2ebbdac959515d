package matcher

import (
	"strconv"
	"strings"

	"github.com/playtrivia/trivia-backend/internal/synonym"
)

// Method records which rule resolved an utterance. Exposed for metrics.
type Method string

const (
	MethodExact   Method = "exact"
	MethodFuzzy   Method = "fuzzy"
	MethodPartial Method = "partial"
)

// fuzzyPunctuation is stripped before edit-distance comparison.
const fuzzyPunctuation = ".,/#!$%^&*;:{}=-_`~()"

// minFuzzyLength is the exclusive length floor for fuzzy matching. Short
// strings are one typo away from too many other short strings.
const minFuzzyLength = 3

// Match is the result of resolving an utterance against the synonym groups
// of the presented answers.
type Match struct {
	Index  int // 0-based position in presentation order
	Method Method
}

// Resolve applies the match rules in precedence order: exact, then fuzzy,
// then partial. It returns false when no rule resolves the utterance.
// Explicit numeric or boolean arguments supplied by the intent layer take
// precedence over all of these and never reach the matcher.
func Resolve(utterance string, groups []synonym.Group) (Match, bool) {
	if idx, ok := exact(utterance, groups); ok {
		return Match{Index: idx, Method: MethodExact}, true
	}
	if idx, ok := fuzzy(utterance, groups); ok {
		return Match{Index: idx, Method: MethodFuzzy}, true
	}
	if idx, ok := partial(utterance, groups); ok {
		return Match{Index: idx, Method: MethodPartial}, true
	}
	return Match{}, false
}

// ValidChoice reports whether raw parses to a usable 1-based answer number
// for a question with choiceCount presented answers.
func ValidChoice(raw string, choiceCount int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	if n < 1 || n > choiceCount {
		return 0, false
	}
	return n, true
}

func exact(utterance string, groups []synonym.Group) (int, bool) {
	trimmed := strings.TrimSpace(utterance)
	for i, g := range groups {
		if strings.EqualFold(trimmed, strings.TrimSpace(g.Representative())) {
			return i, true
		}
	}
	return 0, false
}

func fuzzy(utterance string, groups []synonym.Group) (int, bool) {
	normalized := normalize(utterance)
	if len(normalized) <= minFuzzyLength {
		return 0, false
	}
	for i, g := range groups {
		for _, form := range g.Forms {
			candidate := normalize(form)
			if len(candidate) <= minFuzzyLength {
				continue
			}
			if editDistance(normalized, candidate) <= 1 {
				return i, true
			}
		}
	}
	return 0, false
}

func partial(utterance string, groups []synonym.Group) (int, bool) {
	for _, part := range strings.Fields(utterance) {
		for i, g := range groups {
			for _, form := range g.Forms {
				if strings.EqualFold(part, form) {
					return i, true
				}
			}
		}
	}
	return 0, false
}

// normalize lowercases, strips punctuation and removes inter-word spaces so
// that "St. John's" and "st johns" compare equal before edit distance.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r == ' ' || r == '\t' {
			continue
		}
		if strings.ContainsRune(fuzzyPunctuation, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// editDistance is the Levenshtein distance over bytes, two-row variant.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
