package interval

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Range is a half-open span [Start, End) of code points within a specific text.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Valid reports whether r is a non-empty span starting at or after zero.
func (r Range) Valid() bool {
	return r.Start >= 0 && r.End > r.Start
}

// Len returns the span length, or 0 for invalid ranges.
func (r Range) Len() int {
	if !r.Valid() {
		return 0
	}
	return r.End - r.Start
}

// Segment is one slice of a highlighted text.
type Segment struct {
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted"`
}

// Merge drops invalid ranges, sorts the rest by (Start, End) and merges
// touching or overlapping ranges in a single pass.
func Merge(ranges []Range) []Range {
	valid := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.Valid() {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool {
		if valid[i].Start != valid[j].Start {
			return valid[i].Start < valid[j].Start
		}
		return valid[i].End < valid[j].End
	})

	merged := make([]Range, 0, len(valid))
	cur := valid[0]
	for _, r := range valid[1:] {
		if r.Start <= cur.End {
			if r.End > cur.End {
				cur.End = r.End
			}
			continue
		}
		merged = append(merged, cur)
		cur = r
	}
	return append(merged, cur)
}

// Clamp restricts r to [0, n]. The second result is false when nothing of r
// survives.
func Clamp(r Range, n int) (Range, bool) {
	if r.Start < 0 {
		r.Start = 0
	}
	if r.End > n {
		r.End = n
	}
	return r, r.Valid()
}

// Shift moves every range by -offset and clamps the result to [0, n],
// dropping ranges that fall outside. The result is merged.
func Shift(ranges []Range, offset, n int) []Range {
	out := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		shifted, ok := Clamp(Range{Start: r.Start - offset, End: r.End - offset}, n)
		if ok {
			out = append(out, shifted)
		}
	}
	return Merge(out)
}

// Offsets maps each code point index of text to its byte offset, with one
// final entry for len(text). An invalid UTF-8 byte counts as one code point,
// matching utf8.RuneCountInString, and slicing by these offsets keeps it as is.
func Offsets(text string) []int {
	offs := make([]int, 0, len(text)+1)
	for i := range text {
		offs = append(offs, i)
	}
	return append(offs, len(text))
}

// Segments partitions text into alternating plain and highlighted segments.
// Concatenating the segment texts reproduces text byte for byte and no two
// adjacent segments share the same Highlighted flag.
func Segments(text string, ranges []Range) []Segment {
	if text == "" || len(ranges) == 0 {
		return []Segment{{Text: text}}
	}
	offs := Offsets(text)
	n := len(offs) - 1

	var segments []Segment
	pos := 0
	for _, r := range Merge(ranges) {
		c, ok := Clamp(r, n)
		if !ok || c.End <= pos {
			continue
		}
		if c.Start < pos {
			c.Start = pos
		}
		if c.Start > pos {
			segments = append(segments, Segment{Text: text[offs[pos]:offs[c.Start]]})
		}
		segments = append(segments, Segment{Text: text[offs[c.Start]:offs[c.End]], Highlighted: true})
		pos = c.End
	}
	if pos < n {
		segments = append(segments, Segment{Text: text[offs[pos]:]})
	}
	if len(segments) == 0 {
		return []Segment{{Text: text}}
	}
	return segments
}

// Slice returns the code points of text covered by r, clamped to its bounds.
func Slice(text string, r Range) string {
	offs := Offsets(text)
	c, ok := Clamp(r, len(offs)-1)
	if !ok {
		return ""
	}
	return text[offs[c.Start]:offs[c.End]]
}

// Needles expands a query into the strings searched for when computing
// highlights: the query with whitespace removed, its whitespace-separated
// terms, and every 2- and 3-code-point gram of the trimmed query.
func Needles(query string) []string {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}

	set := make(map[string]struct{})
	add := func(s string) {
		if strings.TrimSpace(s) != "" {
			set[s] = struct{}{}
		}
	}

	add(strings.Join(strings.Fields(q), ""))
	for _, term := range strings.Fields(q) {
		add(term)
	}
	for _, n := range []int{2, 3} {
		for _, gram := range ngrams(q, n) {
			add(gram)
		}
	}

	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func ngrams(text string, n int) []string {
	runes := []rune(text)
	if len(runes) < n {
		return nil
	}
	out := make([]string, 0, len(runes)-n+1)
	for i := 0; i+n <= len(runes); i++ {
		gram := runes[i : i+n]
		if containsSpace(gram) {
			continue
		}
		out = append(out, string(gram))
	}
	return out
}

func containsSpace(runes []rune) bool {
	for _, r := range runes {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}

// Find returns every occurrence of any needle in text as code point ranges,
// merged and truncated to at most max ranges (max <= 0 means unlimited).
func Find(text string, needles []string, max int) []Range {
	if text == "" || len(needles) == 0 {
		return nil
	}

	var found []Range
	for _, needle := range needles {
		if needle == "" {
			continue
		}
		needleLen := utf8.RuneCountInString(needle)
		byteOff := 0
		for {
			idx := strings.Index(text[byteOff:], needle)
			if idx < 0 {
				break
			}
			start := utf8.RuneCountInString(text[:byteOff+idx])
			found = append(found, Range{Start: start, End: start + needleLen})
			_, size := utf8.DecodeRuneInString(text[byteOff+idx:])
			byteOff += idx + size
		}
	}

	merged := Merge(found)
	if max > 0 && len(merged) > max {
		merged = merged[:max]
	}
	return merged
}
