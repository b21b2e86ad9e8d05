package search

import (
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Field score contributions.
const (
	scoreExact      = 100
	scoreContains   = 80
	scorePrefix     = 60
	scoreWordPrefix = 40

	scoreTokenExact    = 30
	scoreTokenPrefix   = 20
	scoreTokenContains = 15
	scoreTokenFuzzy    = 15 // Multiplied by similarity

	scoreAcronym = 25

	fuzzyThreshold = 0.70
	maxAcronymLen  = 5
)

// similarity returns 1 minus the Levenshtein distance normalized by the
// longer rune length. Two empty strings are identical.
func similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// query is a prepared search query.
type query struct {
	text   []rune   // Lowercased, trimmed
	tokens []string // Tokens of at least minQueryToken runes
	words  int      // Token count before the length filter
}

func newQuery(raw string) query {
	trimmed := strings.TrimSpace(raw)
	return query{
		text:   lowerRunes(trimmed),
		tokens: queryTokens(trimmed),
		words:  len(tokenize(trimmed)),
	}
}

func (q query) empty() bool {
	return len(q.text) == 0
}

// scoreField returns the raw score of value against q and the rune ranges of
// value to highlight. A zero score means no match.
func scoreField(value string, q query) (int, []Range) {
	v := lowerRunes(value)
	if len(v) == 0 || q.empty() {
		return 0, nil
	}
	if slices.Equal(v, q.text) {
		return scoreExact, []Range{{Start: 0, End: len(v)}}
	}

	score := 0
	var ranges []Range

	if hits := indexAll(v, q.text); len(hits) > 0 {
		score += scoreContains
		for _, i := range hits {
			ranges = append(ranges, Range{Start: i, End: i + len(q.text)})
		}
	}
	if hasPrefixRunes(v, q.text) {
		score += scorePrefix
	}
	for _, word := range strings.Fields(string(v)) {
		if hasPrefixRunes([]rune(word), q.text) {
			score += scoreWordPrefix
			break
		}
	}

	fieldTokens := tokenSpans(value)
	for _, qt := range q.tokens {
		tr := []rune(qt)
		for _, ft := range fieldTokens {
			matched := false
			switch {
			case ft.text == qt:
				score += scoreTokenExact
				matched = true
			case strings.HasPrefix(ft.text, qt):
				score += scoreTokenPrefix
				matched = true
			case strings.Contains(ft.text, qt):
				score += scoreTokenContains
				matched = true
			default:
				if sim := similarity(qt, ft.text); sim > fuzzyThreshold {
					score += int(math.Floor(sim * scoreTokenFuzzy))
				}
			}
			if matched {
				for _, k := range indexAll([]rune(ft.text), tr) {
					ranges = append(ranges, ft.sourceRange(k, len(tr)))
				}
			}
		}
	}

	if q.words == 1 && len(q.tokens) == 1 && utf8.RuneCountInString(q.tokens[0]) <= maxAcronymLen {
		if strings.Contains(acronym(value), q.tokens[0]) {
			score += scoreAcronym
		}
	}

	return score, MergeRanges(ranges)
}
