package search

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"archive-lens/internal/interval"
	"archive-lens/internal/locator"
)

func TestGroupByArchive(t *testing.T) {
	hits := []Hit{
		DocxBlock{ArchiveID: "A", BlockID: "b1", BlockText: "导入"},
		AnnotationHit{ArchiveID: "B", AnnotationID: "n1", Content: "导入"},
		AttachmentName{ArchiveID: "A", FileID: "f1", DisplayName: "导入.pdf"},
	}

	groups := GroupByArchive(hits)
	if len(groups) != 2 {
		t.Fatalf("GroupByArchive() returned %d groups, want 2", len(groups))
	}
	if groups[0].ArchiveID != "A" || groups[1].ArchiveID != "B" {
		t.Errorf("GroupByArchive() order = [%s %s], want [A B]", groups[0].ArchiveID, groups[1].ArchiveID)
	}
	if len(groups[0].Hits) != 2 {
		t.Fatalf("group A has %d hits, want 2", len(groups[0].Hits))
	}
	if groups[0].Hits[0].Kind() != KindDocxBlock || groups[0].Hits[1].Kind() != KindAttachmentName {
		t.Errorf("group A kinds = [%s %s], want [docx_block attachment_name]", groups[0].Hits[0].Kind(), groups[0].Hits[1].Kind())
	}
}

func TestBuildSnippet(t *testing.T) {
	fifty := "一二三四五导入" + strings.Repeat("文", 43)
	long := strings.Repeat("甲", 30) + "导入" + strings.Repeat("乙", 100)
	plain := strings.Repeat("丙", 130)

	tests := []struct {
		name       string
		text       string
		ranges     []interval.Range
		wantText   string
		wantRanges []interval.Range
	}{
		{
			name:       "match near start keeps whole paragraph",
			text:       fifty,
			ranges:     []interval.Range{{Start: 5, End: 7}},
			wantText:   fifty,
			wantRanges: []interval.Range{{Start: 5, End: 7}},
		},
		{
			name:       "match deep in text is windowed on both sides",
			text:       long,
			ranges:     []interval.Range{{Start: 30, End: 32}},
			wantText:   "…" + string([]rune(long)[10:92]) + "…",
			wantRanges: []interval.Range{{Start: 21, End: 23}},
		},
		{
			name:       "later match outside the window is dropped",
			text:       long,
			ranges:     []interval.Range{{Start: 30, End: 32}, {Start: 120, End: 125}},
			wantText:   "…" + string([]rune(long)[10:92]) + "…",
			wantRanges: []interval.Range{{Start: 21, End: 23}},
		},
		{
			name:     "no match truncates",
			text:     plain,
			wantText: strings.Repeat("丙", 120) + "…",
		},
		{
			name:       "invalid byte before match is kept",
			text:       strings.Repeat("甲", 25) + "\xff导入尾",
			ranges:     []interval.Range{{Start: 26, End: 28}},
			wantText:   "…" + strings.Repeat("甲", 19) + "\xff导入尾",
			wantRanges: []interval.Range{{Start: 21, End: 23}},
		},
		{
			name:     "no match short text is unchanged",
			text:     "短文本",
			wantText: "短文本",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildSnippet(tt.text, tt.ranges, 20, 60, TruncateLen)
			if got.Text != tt.wantText {
				t.Errorf("BuildSnippet() text = %q, want %q", got.Text, tt.wantText)
			}
			if len(got.Highlights) != len(tt.wantRanges) || (len(tt.wantRanges) > 0 && !reflect.DeepEqual(got.Highlights, tt.wantRanges)) {
				t.Errorf("BuildSnippet() highlights = %v, want %v", got.Highlights, tt.wantRanges)
			}
			for _, r := range got.Highlights {
				if s := interval.Slice(got.Text, r); s != "导入" {
					t.Errorf("highlight %v slices to %q, want %q", r, s, "导入")
				}
			}
		})
	}
}

func TestSnippetFor_AnnotationWindowIsWider(t *testing.T) {
	content := strings.Repeat("甲", 35) + "导入" + strings.Repeat("乙", 10)
	hit := AnnotationHit{ArchiveID: "A", Content: content, Highlights: []interval.Range{{Start: 35, End: 37}}}

	got := SnippetFor(hit)
	if got.Text != content {
		t.Errorf("SnippetFor() = %q, want full content", got.Text)
	}

	block := DocxBlock{ArchiveID: "A", BlockText: content, Highlights: []interval.Range{{Start: 35, End: 37}}}
	if got := SnippetFor(block); !strings.HasPrefix(got.Text, "…") {
		t.Errorf("SnippetFor(paragraph) = %q, want leading ellipsis", got.Text)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"标题：导入 档案。", "导入档案"},
		{"  导入，档案！ ", "导入档案"},
		{"下发时间 2024-01-02", "20240102"},
		{strings.Repeat("字", 100), strings.Repeat("字", 80)},
		{"…", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDedup_KeepsFirstSorted(t *testing.T) {
	candidates := []Candidate{
		{Hit: DocxBlock{ArchiveID: "A", BlockID: "b1"}, Snippet: Snippet{Text: "导入，档案"}, Band: BandParagraph},
		{Hit: MainDocField{ArchiveID: "A", FieldName: "title"}, Snippet: Snippet{Text: "标题 导入档案"}, Band: BandField},
		{Hit: AttachmentName{ArchiveID: "A", FileID: "f"}, Snippet: Snippet{Text: "附件.pdf"}, Band: BandAttachment},
	}

	got := Dedup(candidates)
	if len(got) != 2 {
		t.Fatalf("Dedup() kept %d candidates, want 2", len(got))
	}
	if got[0].Hit.Kind() != KindDocxBlock {
		t.Errorf("Dedup() kept %s, want docx_block", got[0].Hit.Kind())
	}
}

func TestCandidates_Order(t *testing.T) {
	hits := []Hit{
		AnnotationHit{ArchiveID: "A", AnnotationID: "short", Content: "短"},
		AnnotationHit{ArchiveID: "A", AnnotationID: "long", Content: "较长的批注"},
		AttachmentName{ArchiveID: "A", FileID: "f1", DisplayName: "导入.pdf"},
		DocxBlock{ArchiveID: "A", BlockID: "b10", BlockText: "十号段落导入"},
		DocxBlock{ArchiveID: "A", BlockID: "b2", BlockText: "二号段落导入"},
		DocxBlock{ArchiveID: "A", BlockID: "intro", BlockText: "导入前言"},
	}

	got := Candidates(hits)
	var ids []string
	for _, c := range got {
		switch h := c.Hit.(type) {
		case DocxBlock:
			ids = append(ids, h.BlockID)
		case AttachmentName:
			ids = append(ids, h.FileID)
		case AnnotationHit:
			ids = append(ids, h.AnnotationID)
		}
	}
	want := []string{"b2", "b10", "intro", "f1", "long", "short"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Candidates() order = %v, want %v", ids, want)
	}
}

func TestCandidates_FieldSuppression(t *testing.T) {
	withParagraph := []Hit{
		MainDocField{ArchiveID: "A", FieldName: "title", SourceText: "导入办法"},
		DocxBlock{ArchiveID: "A", BlockID: "b1", BlockText: "关于导入的通知"},
	}
	got := Candidates(withParagraph)
	if len(got) != 1 || got[0].Hit.Kind() != KindDocxBlock {
		t.Errorf("Candidates() with paragraph = %v, want only the paragraph", got)
	}

	fieldsOnly := []Hit{
		MainDocField{ArchiveID: "A", FieldName: "issued_at", SourceText: "2024年"},
		MainDocField{ArchiveID: "A", FieldName: "title", SourceText: "导入办法"},
		MainDocField{ArchiveID: "A", FieldName: "instruction_no", SourceText: "第7号"},
	}
	got = Candidates(fieldsOnly)
	var fields []string
	for _, c := range got {
		fields = append(fields, c.Hit.(MainDocField).FieldName)
	}
	want := []string{"instruction_no", "title", "issued_at"}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("Candidates() fields = %v, want %v", fields, want)
	}
}

func TestBlockOrder(t *testing.T) {
	tests := []struct {
		id   string
		want int
	}{
		{"b12", 12},
		{"p_0003", 3},
		{"intro", math.MaxInt},
		{"", math.MaxInt},
	}
	for _, tt := range tests {
		if got := blockOrder(tt.id); got != tt.want {
			t.Errorf("blockOrder(%q) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestAggregate(t *testing.T) {
	hits := []Hit{
		DocxBlock{ArchiveID: "A", BlockID: "b1", BlockText: "导入档案"},
		MainDocField{ArchiveID: "A", FieldName: "title", SourceText: "导入"},
		AnnotationHit{ArchiveID: "B", AnnotationID: "n1", Content: "需要复核"},
	}

	got := Aggregate(hits)
	ApplyTitles(got, map[string]string{"A": "甲档案"})

	if len(got) != 2 {
		t.Fatalf("Aggregate() returned %d containers, want 2", len(got))
	}
	if got[0].Title != "甲档案" || got[1].Title != "B" {
		t.Errorf("titles = [%s %s], want [甲档案 B]", got[0].Title, got[1].Title)
	}
	wantCounts := Counts{Paragraphs: 1, Fields: 1}
	if got[0].Counts != wantCounts {
		t.Errorf("Counts = %+v, want %+v", got[0].Counts, wantCounts)
	}
	if got[0].Counts.Total() != 2 {
		t.Errorf("Counts.Total() = %d, want 2", got[0].Counts.Total())
	}
	if len(got[0].Snippets) != 1 || got[0].Snippets[0].Tag != "正文段落" {
		t.Errorf("Snippets = %+v, want one paragraph snippet", got[0].Snippets)
	}
}

func TestHits_JSON(t *testing.T) {
	in := Hits{
		DocxBlock{ArchiveID: "A", BlockID: "b1", BlockText: "导入", Highlights: []interval.Range{{Start: 0, End: 2}}},
		MainDocField{ArchiveID: "A", FieldName: "title", SourceText: "导入", BestBlockID: "b1"},
		AttachmentName{ArchiveID: "A", FileID: "f1", DisplayName: "x.pdf"},
		AnnotationHit{ArchiveID: "A", AnnotationID: "n1", TargetKind: locator.KindPDF, TargetRef: "f1", Locator: json.RawMessage(`{"page":2}`), Content: "看这里"},
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"kind":"main_doc_field"`) {
		t.Errorf("Marshal() = %s, missing kind tag", data)
	}

	var out Hits
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("Unmarshal() = %#v, want %#v", out, in)
	}

	if _, err := DecodeHit([]byte(`{"kind":"bogus"}`)); err == nil {
		t.Error("DecodeHit() with unknown kind should fail")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		hit     Hit
		want    Navigation
		wantErr bool
	}{
		{
			name: "paragraph",
			hit:  DocxBlock{ArchiveID: "A", BlockID: "b3", Highlights: []interval.Range{{Start: 1, End: 3}}},
			want: Navigation{ArchiveID: "A", TargetKind: locator.KindPrimaryDoc, TargetRef: "A",
				Locator: locator.PrimaryDoc{BlockID: "b3"}, Highlights: []interval.Range{{Start: 1, End: 3}}},
		},
		{
			name: "field with best block opens paragraph",
			hit: MainDocField{ArchiveID: "A", FieldName: "title", Highlights: []interval.Range{{Start: 0, End: 2}},
				BestBlockID: "b1", BestBlockHighlights: []interval.Range{{Start: 4, End: 6}}},
			want: Navigation{ArchiveID: "A", TargetKind: locator.KindPrimaryDoc, TargetRef: "A",
				Locator: locator.PrimaryDoc{BlockID: "b1"}, Highlights: []interval.Range{{Start: 4, End: 6}}},
		},
		{
			name: "field without best block opens field",
			hit:  MainDocField{ArchiveID: "A", FieldName: "title", Highlights: []interval.Range{{Start: 0, End: 2}}},
			want: Navigation{ArchiveID: "A", TargetKind: locator.KindPrimaryDoc, TargetRef: "A",
				Locator: locator.PrimaryDoc{FieldName: "title"}, Highlights: []interval.Range{{Start: 0, End: 2}}},
		},
		{
			name: "attachment name",
			hit:  AttachmentName{ArchiveID: "A", FileID: "f1", Highlights: []interval.Range{{Start: 0, End: 1}}},
			want: Navigation{ArchiveID: "A", TargetKind: locator.KindMedia, TargetRef: "f1",
				Locator: locator.Media{}, Highlights: []interval.Range{{Start: 0, End: 1}}},
		},
		{
			name: "annotation opens its locator",
			hit: AnnotationHit{ArchiveID: "A", AnnotationID: "n1", TargetKind: locator.KindPDF, TargetRef: "f1",
				Locator: json.RawMessage(`{"page":4}`)},
			want: Navigation{ArchiveID: "A", TargetKind: locator.KindPDF, TargetRef: "f1",
				Locator: locator.PDF{Page: locator.Int(4)}, AnnotationID: "n1"},
		},
		{
			name: "annotation with broken locator",
			hit: AnnotationHit{ArchiveID: "A", AnnotationID: "n2", TargetKind: locator.KindPDF, TargetRef: "f1",
				Locator: json.RawMessage(`{"page":0}`)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.hit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, locator.ErrInvalidLocator) {
					t.Errorf("Resolve() error = %v, want ErrInvalidLocator", err)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRequest_Bounded(t *testing.T) {
	tests := []struct {
		in   Request
		want Request
	}{
		{Request{}, Request{Limit: DefaultLimit}},
		{Request{Limit: 1000, Offset: -5}, Request{Limit: MaxLimit}},
		{Request{Limit: 10, Offset: 50000}, Request{Limit: 10, Offset: MaxOffset}},
	}
	for _, tt := range tests {
		if got := tt.in.Bounded(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Bounded(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

type fakeSearcher struct {
	pages  []Page
	reqs   []Request
	err    error
	during func()
}

func (f *fakeSearcher) SearchPaged(_ context.Context, req Request) (Page, error) {
	f.reqs = append(f.reqs, req)
	if f.during != nil {
		f.during()
	}
	if f.err != nil {
		return Page{}, f.err
	}
	if len(f.pages) == 0 {
		return Page{Offset: req.Offset, Limit: req.Limit}, nil
	}
	p := f.pages[0]
	f.pages = f.pages[1:]
	return p, nil
}

func TestPager_AccumulatesAndResets(t *testing.T) {
	src := &fakeSearcher{pages: []Page{
		{Items: Hits{DocxBlock{ArchiveID: "A", BlockID: "b1"}, DocxBlock{ArchiveID: "A", BlockID: "b2"}}, HasMore: true},
		{Items: Hits{DocxBlock{ArchiveID: "B", BlockID: "b1"}}, HasMore: false},
	}}
	p := NewPager(src, 2)
	ctx := context.Background()

	p.Reset(" 导入 ", Filters{})
	if n, err := p.More(ctx); err != nil || n != 2 {
		t.Fatalf("More() = %d, %v, want 2, nil", n, err)
	}
	if n, err := p.More(ctx); err != nil || n != 1 {
		t.Fatalf("More() = %d, %v, want 1, nil", n, err)
	}
	if p.HasMore() {
		t.Error("HasMore() = true after last page")
	}
	if n, _ := p.More(ctx); n != 0 {
		t.Errorf("More() after last page = %d, want 0", n)
	}
	if len(src.reqs) != 2 {
		t.Fatalf("backend called %d times, want 2", len(src.reqs))
	}
	if src.reqs[0].Query != "导入" || src.reqs[0].Offset != 0 || src.reqs[1].Offset != 2 || src.reqs[1].Limit != 2 {
		t.Errorf("requests = %+v, want offsets 0 then 2 for query 导入", src.reqs)
	}
	if got := len(p.Hits()); got != 3 {
		t.Errorf("Hits() len = %d, want 3", got)
	}

	p.Reset("档案", Filters{})
	if got := len(p.Hits()); got != 0 {
		t.Errorf("Hits() after Reset len = %d, want 0", got)
	}
	p.More(ctx)
	if last := src.reqs[len(src.reqs)-1]; last.Offset != 0 || last.Query != "档案" {
		t.Errorf("request after Reset = %+v, want offset 0 for 档案", last)
	}
}

func TestPager_DropsStalePage(t *testing.T) {
	src := &fakeSearcher{pages: []Page{
		{Items: Hits{DocxBlock{ArchiveID: "A", BlockID: "old"}}, HasMore: true},
	}}
	p := NewPager(src, 10)
	p.Reset("旧", Filters{})
	src.during = func() { p.Reset("新", Filters{}) }

	n, err := p.More(context.Background())
	if err != nil || n != 0 {
		t.Errorf("More() = %d, %v, want 0, nil for stale page", n, err)
	}
	if len(p.Hits()) != 0 {
		t.Errorf("stale page was applied: %v", p.Hits())
	}
	if p.Query() != "新" || !p.HasMore() {
		t.Errorf("pager state after stale page = %q hasMore=%v", p.Query(), p.HasMore())
	}
}

func TestPager_Error(t *testing.T) {
	src := &fakeSearcher{err: errors.New("找不到档案")}
	p := NewPager(src, 10)
	p.Reset("导入", Filters{})

	if _, err := p.More(context.Background()); err == nil || !strings.Contains(err.Error(), "找不到档案") {
		t.Errorf("More() error = %v, want wrapped backend error", err)
	}
	if !p.HasMore() {
		t.Error("HasMore() = false after failed page, want retry possible")
	}
}

func TestPager_EmptyQuery(t *testing.T) {
	src := &fakeSearcher{}
	p := NewPager(src, 10)
	p.Reset("   ", Filters{})
	if n, err := p.More(context.Background()); n != 0 || err != nil {
		t.Errorf("More() = %d, %v, want 0, nil", n, err)
	}
	if len(src.reqs) != 0 {
		t.Errorf("backend called %d times for empty query", len(src.reqs))
	}
}
