package search

import (
	"sort"
	"strings"
)

// Range is a half-open [Start, End) span of rune indices.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Segment is a piece of a field value, highlighted or not.
type Segment struct {
	Text      string `json:"text"`
	Highlight bool   `json:"highlight"`
}

const (
	// DefaultPreviewLength is the preview size in runes, markers excluded.
	DefaultPreviewLength = 60
	previewLead          = 15
	ellipsis             = "..."
)

// MergeRanges sorts ranges by start and merges overlapping or adjacent ones.
// Empty ranges are dropped.
func MergeRanges(ranges []Range) []Range {
	var in []Range
	for _, r := range ranges {
		if r.End > r.Start {
			in = append(in, r)
		}
	}
	if len(in) == 0 {
		return nil
	}
	sort.Slice(in, func(i, j int) bool {
		if in[i].Start != in[j].Start {
			return in[i].Start < in[j].Start
		}
		return in[i].End < in[j].End
	})

	out := []Range{in[0]}
	for _, r := range in[1:] {
		last := &out[len(out)-1]
		if r.Start <= last.End {
			last.End = max(last.End, r.End)
			continue
		}
		out = append(out, r)
	}
	return out
}

// Segments splits text into highlighted and plain segments. The segments
// cover text exactly once, in order. Ranges are merged and clamped to text
// first, so any input is accepted.
func Segments(text string, ranges []Range) []Segment {
	rs := []rune(text)
	var out []Segment
	pos := 0
	for _, r := range MergeRanges(ranges) {
		start, end := clamp(r.Start, len(rs)), clamp(r.End, len(rs))
		if start < pos {
			start = pos
		}
		if end <= start {
			continue
		}
		if start > pos {
			out = append(out, Segment{Text: string(rs[pos:start])})
		}
		out = append(out, Segment{Text: string(rs[start:end]), Highlight: true})
		pos = end
	}
	if pos < len(rs) {
		out = append(out, Segment{Text: string(rs[pos:])})
	}
	return out
}

func clamp(i, n int) int {
	return max(0, min(i, n))
}

// Preview returns an excerpt of at most maxLen runes starting previewLead
// runes before the match. When maxLen cannot hold the lead and the match,
// the lead shrinks so the match start stays in the excerpt. A truncated side
// is marked with "...". maxLen <= 0 selects DefaultPreviewLength.
func Preview(text string, match Range, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultPreviewLength
	}
	rs := []rune(text)
	if len(rs) <= maxLen {
		return text
	}

	matchStart := clamp(match.Start, len(rs))
	matchLen := max(0, clamp(match.End, len(rs))-matchStart)
	lead := max(0, min(previewLead, maxLen-matchLen))
	start := max(0, matchStart-lead)
	end := min(start+maxLen, len(rs))

	var b strings.Builder
	if start > 0 {
		b.WriteString(ellipsis)
	}
	b.WriteString(string(rs[start:end]))
	if end < len(rs) {
		b.WriteString(ellipsis)
	}
	return b.String()
}
