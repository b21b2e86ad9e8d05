package search

import (
	"slices"
	"strings"
	"unicode"
)

// minQueryToken is the shortest query token that takes part in token matching.
const minQueryToken = 2

// lowerRunes lowercases s rune by rune, so that indices into the result are
// rune indices into s.
func lowerRunes(s string) []rune {
	rs := []rune(s)
	for i, r := range rs {
		rs[i] = unicode.ToLower(r)
	}
	return rs
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// token is a lowercased word of a field together with the rune index in the
// source text of each of its runes. Punctuation inside a word is dropped from
// text but still lies inside the token's source span.
type token struct {
	text string
	pos  []int
}

// sourceRange maps n runes of t.text starting at k back to a source range.
func (t token) sourceRange(k, n int) Range {
	return Range{Start: t.pos[k], End: t.pos[k+n-1] + 1}
}

// tokenSpans lowercases s, strips everything but letters, digits, underscore
// and whitespace, and splits on whitespace, keeping source rune positions.
func tokenSpans(s string) []token {
	var (
		out []token
		b   strings.Builder
		pos []int
	)
	flush := func() {
		if len(pos) > 0 {
			out = append(out, token{text: b.String(), pos: pos})
		}
		b.Reset()
		pos = nil
	}
	i := 0
	for _, r := range s {
		switch {
		case isWordRune(r):
			b.WriteRune(unicode.ToLower(r))
			pos = append(pos, i)
		case unicode.IsSpace(r):
			flush()
		}
		i++
	}
	flush()
	return out
}

// tokenize returns the text of every token of s.
func tokenize(s string) []string {
	spans := tokenSpans(s)
	out := make([]string, len(spans))
	for i, t := range spans {
		out[i] = t.text
	}
	return out
}

// queryTokens returns the tokens of q long enough to take part in matching.
func queryTokens(q string) []string {
	var out []string
	for _, tok := range tokenize(q) {
		if len([]rune(tok)) >= minQueryToken {
			out = append(out, tok)
		}
	}
	return out
}

// acronym returns the first rune of every token of s.
func acronym(s string) string {
	var b strings.Builder
	for _, tok := range tokenize(s) {
		for _, r := range tok {
			b.WriteRune(r)
			break
		}
	}
	return b.String()
}

// indexAll returns the start rune index of every occurrence of needle in
// hay, overlapping ones included.
func indexAll(hay, needle []rune) []int {
	if len(needle) == 0 || len(needle) > len(hay) {
		return nil
	}
	var out []int
	for i := 0; i+len(needle) <= len(hay); i++ {
		if slices.Equal(hay[i:i+len(needle)], needle) {
			out = append(out, i)
		}
	}
	return out
}

func hasPrefixRunes(s, prefix []rune) bool {
	return len(prefix) <= len(s) && slices.Equal(s[:len(prefix)], prefix)
}
