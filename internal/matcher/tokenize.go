package matcher

import (
	"sort"
	"strings"
	"unicode"
)

// TokenSet is the set of distinct keywords of a text.
type TokenSet map[string]struct{}

func (s TokenSet) Has(word string) bool {
	_, ok := s[word]
	return ok
}

// Sorted returns the keywords in lexical order.
func (s TokenSet) Sorted() []string {
	words := make([]string, 0, len(s))
	for w := range s {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Keywords lower-cases text, deletes every character other than a-z, 0-9 and
// whitespace, splits on whitespace and keeps tokens that are long enough and
// not stop-words. Deleted characters are not replaced, so "data-analysis"
// becomes the single keyword "dataanalysis".
func Keywords(text string) TokenSet {
	set := make(TokenSet)
	for _, tok := range strings.Fields(normalize(text)) {
		if len(tok) < MinKeywordLength || IsStopWord(tok) {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

func normalize(text string) string {
	lower := strings.ToLower(text)
	var sb strings.Builder
	sb.Grow(len(lower))
	for _, r := range lower {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') || unicode.IsSpace(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
