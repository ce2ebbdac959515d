package corpus

import (
	"strings"

	"github.com/playtrivia/trivia-backend/internal/synonym"
)

// Dictionary is the set of every matchable answer form across the whole
// corpus. It backs the "understood but wrong for this question" check: an
// utterance that names some answer, just not one of the current choices.
type Dictionary struct {
	forms map[string]struct{}
}

// NewDictionary expands every question's answer set and collects all forms.
// Built once at startup alongside the corpus.
func NewDictionary(c *Corpus) *Dictionary {
	d := &Dictionary{forms: make(map[string]struct{})}
	for _, q := range c.questions {
		for _, g := range synonym.Expand(q.Answers) {
			for _, f := range g.Forms {
				d.forms[strings.ToLower(strings.TrimSpace(f))] = struct{}{}
			}
		}
	}
	return d
}

// Contains reports whether the utterance, or any single word of it, is a
// known answer form somewhere in the corpus.
func (d *Dictionary) Contains(utterance string) bool {
	whole := strings.ToLower(strings.TrimSpace(utterance))
	if _, ok := d.forms[whole]; ok {
		return true
	}
	for _, part := range strings.Fields(whole) {
		if _, ok := d.forms[part]; ok {
			return true
		}
	}
	return false
}
