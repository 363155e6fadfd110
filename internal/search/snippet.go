package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"archive-lens/internal/interval"
)

const ellipsis = "…"

// Context windows around the first match, in code points.
var (
	ParagraphWindow  = Window{Before: 20, After: 60}
	AnnotationWindow = Window{Before: 40, After: 120}
)

// TruncateLen bounds snippets of hits that carry no match ranges.
const TruncateLen = 120

// Window is how much text to keep before and after the first match.
type Window struct {
	Before int
	After  int
}

// WindowFor returns the snippet window used for hits of kind k.
func WindowFor(k Kind) Window {
	if k == KindAnnotation {
		return AnnotationWindow
	}
	return ParagraphWindow
}

// Snippet is an excerpt of a hit's text with highlights in the excerpt's
// coordinates.
type Snippet struct {
	Text       string           `json:"text"`
	Highlights []interval.Range `json:"highlights"`
}

// Segments splits the snippet into highlighted and plain runs.
func (s Snippet) Segments() []interval.Segment {
	return interval.Segments(s.Text, s.Highlights)
}

// BuildSnippet windows text around its first match. Without matches the
// text is cut to maxLen. An ellipsis marks each side that was cut, and the
// highlights are re-expressed relative to the returned text.
func BuildSnippet(text string, ranges []interval.Range, before, after, maxLen int) Snippet {
	offs := interval.Offsets(text)
	n := len(offs) - 1
	merged := interval.Shift(ranges, 0, n)

	if len(merged) == 0 {
		if maxLen <= 0 || n <= maxLen {
			return Snippet{Text: text}
		}
		return Snippet{Text: text[:offs[maxLen]] + ellipsis}
	}

	first := merged[0]
	start := max(0, first.Start-before)
	end := min(n, first.End+after)

	var b strings.Builder
	lead := 0
	if start > 0 {
		b.WriteString(ellipsis)
		lead = utf8.RuneCountInString(ellipsis)
	}
	b.WriteString(text[offs[start]:offs[end]])
	if end < n {
		b.WriteString(ellipsis)
	}

	shifted := interval.Shift(merged, start, end-start)
	for i := range shifted {
		shifted[i].Start += lead
		shifted[i].End += lead
	}
	return Snippet{Text: b.String(), Highlights: shifted}
}

// SnippetFor builds the snippet of a hit with its kind's window.
func SnippetFor(h Hit) Snippet {
	w := WindowFor(h.Kind())
	return BuildSnippet(h.Text(), h.Ranges(), w.Before, w.After, TruncateLen)
}

// structuralLabels are the field captions that the primary document repeats
// inside its paragraphs; they are ignored when comparing snippets.
var structuralLabels = []string{"指令编号", "标题", "正文", "下发时间", "附件"}

const normalizedLen = 80

// Normalize reduces a snippet to the form used for duplicate detection:
// labels, whitespace, punctuation and symbols are removed and the result is
// cut to a bounded length.
func Normalize(s string) string {
	for _, label := range structuralLabels {
		s = strings.ReplaceAll(s, label, "")
	}
	var b strings.Builder
	count := 0
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
		count++
		if count == normalizedLen {
			break
		}
	}
	return b.String()
}
