package search

import (
	"math"
	"sort"
	"strconv"
	"unicode"
	"unicode/utf8"

	"archive-lens/internal/locator"
)

// Group is the hits of one archive in the order they arrived.
type Group struct {
	ArchiveID string
	Hits      []Hit
}

// GroupByArchive partitions hits by archive. Groups are ordered by the
// first hit of each archive.
func GroupByArchive(hits []Hit) []Group {
	var groups []Group
	pos := make(map[string]int)
	for _, h := range hits {
		i, ok := pos[h.Archive()]
		if !ok {
			i = len(groups)
			pos[h.Archive()] = i
			groups = append(groups, Group{ArchiveID: h.Archive()})
		}
		groups[i].Hits = append(groups[i].Hits, h)
	}
	return groups
}

// Band orders candidate kinds: every paragraph or field snippet comes
// before attachments, which come before annotations.
type Band int

const (
	BandParagraph Band = iota
	BandField
	BandAttachment
	BandAnnotation
)

var fieldPriority = map[string]int{
	"instruction_no": 0,
	"title":          1,
	"content":        2,
	"issued_at":      3,
}

const unknownField = 9

// Candidate is one snippet shown for an archive.
type Candidate struct {
	Hit     Hit     `json:"hit"`
	Tag     string  `json:"tag"`
	Snippet Snippet `json:"snippet"`
	Band    Band    `json:"-"`
	Order   int     `json:"-"`
}

// blockOrder is the trailing number of a block id ("b12" → 12); ids without
// one sort last.
func blockOrder(id string) int {
	end := len(id)
	start := end
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(id[:start])
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			break
		}
		start -= size
	}
	if start == end {
		return math.MaxInt
	}
	n, err := strconv.Atoi(id[start:end])
	if err != nil {
		return math.MaxInt
	}
	return n
}

func tagFor(h Hit) string {
	switch h := h.(type) {
	case DocxBlock:
		return "正文段落"
	case MainDocField:
		return locator.FieldLabel(h.FieldName)
	case AttachmentName:
		return "附件"
	case AnnotationHit:
		return "批注"
	}
	return ""
}

// Candidates builds the ranked, de-duplicated snippets of one archive's
// hits. Field hits are only used when the archive has no paragraph hit.
func Candidates(hits []Hit) []Candidate {
	hasParagraph := false
	for _, h := range hits {
		if h.Kind() == KindDocxBlock {
			hasParagraph = true
			break
		}
	}

	out := make([]Candidate, 0, len(hits))
	for i, h := range hits {
		c := Candidate{Hit: h, Tag: tagFor(h), Snippet: SnippetFor(h)}
		switch h := h.(type) {
		case DocxBlock:
			c.Band, c.Order = BandParagraph, blockOrder(h.BlockID)
		case MainDocField:
			if hasParagraph {
				continue
			}
			p, ok := fieldPriority[h.FieldName]
			if !ok {
				p = unknownField
			}
			c.Band, c.Order = BandField, p
		case AttachmentName:
			c.Band, c.Order = BandAttachment, i
		case AnnotationHit:
			c.Band, c.Order = BandAnnotation, -utf8.RuneCountInString(h.Content)
		default:
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Band != out[j].Band {
			return out[i].Band < out[j].Band
		}
		return out[i].Order < out[j].Order
	})
	return Dedup(out)
}

// Dedup drops candidates whose normalized snippet was already seen,
// keeping the earlier one. Candidates that normalize to nothing are kept.
func Dedup(candidates []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		key := Normalize(c.Snippet.Text)
		if key != "" {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, c)
	}
	return out
}

// Counts tallies an archive's hits by kind.
type Counts struct {
	Paragraphs  int `json:"paragraphs"`
	Fields      int `json:"fields"`
	Attachments int `json:"attachments"`
	Annotations int `json:"annotations"`
}

// Total is the number of hits counted.
func (c Counts) Total() int {
	return c.Paragraphs + c.Fields + c.Attachments + c.Annotations
}

// ContainerResult is the aggregated view of one archive.
type ContainerResult struct {
	ArchiveID string      `json:"archive_id"`
	Title     string      `json:"title"`
	Counts    Counts      `json:"counts"`
	Snippets  []Candidate `json:"snippets"`
}

// Aggregate groups hits by archive and builds each archive's snippets.
func Aggregate(hits []Hit) []ContainerResult {
	groups := GroupByArchive(hits)
	out := make([]ContainerResult, 0, len(groups))
	for _, g := range groups {
		res := ContainerResult{ArchiveID: g.ArchiveID, Title: g.ArchiveID}
		for _, h := range g.Hits {
			switch h.Kind() {
			case KindDocxBlock:
				res.Counts.Paragraphs++
			case KindMainDocField:
				res.Counts.Fields++
			case KindAttachmentName:
				res.Counts.Attachments++
			case KindAnnotation:
				res.Counts.Annotations++
			}
		}
		res.Snippets = Candidates(g.Hits)
		out = append(out, res)
	}
	return out
}

// ApplyTitles replaces archive ids with display titles where known.
func ApplyTitles(results []ContainerResult, titles map[string]string) {
	for i := range results {
		if t, ok := titles[results[i].ArchiveID]; ok && t != "" {
			results[i].Title = t
		}
	}
}
