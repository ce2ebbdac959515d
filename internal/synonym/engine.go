package synonym

import (
	"strings"
)

// Separator delimits alternate phrasings inside one canonical answer string.
const Separator = "|"

// stopWords are filler words dropped from word-level breakdowns. They carry
// no answer signal and would otherwise match across unrelated answers.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "and": {}, "or": {}, "&": {}, "of": {}, "for": {}, "an": {}, "by": {},
}

// Group holds the matchable forms derived from one canonical answer string.
// Forms[0] is the representative form; the remainder are alternate
// word-level forms usable for fuzzy and partial matching.
type Group struct {
	Canonical string
	Forms     []string
}

// Representative returns the form used for exact matching.
func (g Group) Representative() string {
	if len(g.Forms) == 0 {
		return g.Canonical
	}
	return g.Forms[0]
}

// Display returns the user-facing label for this answer: the first
// pipe-delimited segment of the canonical string.
func (g Group) Display() string {
	seg, _, _ := strings.Cut(g.Canonical, Separator)
	return strings.TrimSpace(seg)
}

// Expand derives one synonym group per canonical answer string, in input
// order. Words shared between two groups of the same question are removed
// from both, repeatedly, until no group shares a word with any other. A
// group that would end up empty keeps its canonical string as the single
// fallback form, so no group is ever empty.
//
// Expansion is deterministic: identical input always yields identical
// output.
func Expand(answers []string) []Group {
	groups := make([]Group, 0, len(answers))
	for _, canonical := range answers {
		groups = append(groups, expandOne(canonical))
	}
	crossDeduplicate(groups)
	for i := range groups {
		if len(groups[i].Forms) == 0 {
			groups[i].Forms = []string{groups[i].Canonical}
		}
	}
	return groups
}

func expandOne(canonical string) Group {
	canonical = strings.TrimSpace(canonical)
	g := Group{Canonical: canonical}

	if !strings.Contains(canonical, Separator) {
		g.Forms = appendUnique(g.Forms, canonical)
		for _, w := range contentWords(canonical) {
			g.Forms = appendUnique(g.Forms, w)
		}
		return g
	}

	g.Forms = appendUnique(g.Forms, canonical)
	for _, segment := range strings.Split(canonical, Separator) {
		for _, w := range contentWords(segment) {
			g.Forms = appendUnique(g.Forms, w)
		}
	}
	return g
}

// contentWords splits a phrase on whitespace and drops stop words.
func contentWords(phrase string) []string {
	var words []string
	for _, w := range strings.Fields(phrase) {
		if _, skip := stopWords[strings.ToLower(w)]; skip {
			continue
		}
		words = append(words, w)
	}
	return words
}

func appendUnique(forms []string, candidate string) []string {
	for _, f := range forms {
		if strings.EqualFold(f, candidate) {
			return forms
		}
	}
	return append(forms, candidate)
}

// crossDeduplicate removes every form shared by two or more groups from all
// of them, iterating to a fixpoint so that three-way overlaps are fully
// resolved regardless of group order.
func crossDeduplicate(groups []Group) {
	for {
		shared := map[string]int{}
		for _, g := range groups {
			seen := map[string]struct{}{}
			for _, f := range g.Forms {
				key := strings.ToLower(f)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				shared[key]++
			}
		}

		removed := false
		for i := range groups {
			kept := groups[i].Forms[:0]
			for _, f := range groups[i].Forms {
				if shared[strings.ToLower(f)] > 1 {
					removed = true
					continue
				}
				kept = append(kept, f)
			}
			groups[i].Forms = kept
		}
		if !removed {
			return
		}
	}
}
