package storage

import (
	"context"
	"database/sql"
	"reflect"
	"testing"

	"archive-lens/internal/backend"
	"archive-lens/internal/interval"
	"archive-lens/internal/search"
)

// seedSearch builds two archives:
//
//	a1 (zip 100): title and paragraphs mention 防汛, plus an annotation.
//	a2 (zip 200): content mentions 防汛 but no single paragraph does, plus
//	              a spreadsheet named after it.
func seedSearch(t *testing.T, db *sql.DB) {
	t.Helper()
	ctx := context.Background()
	archives := NewArchiveRepo(db)
	blocks := NewBlockRepo(db)

	putArchive(t, db, "a1", 100)
	putArchive(t, db, "a2", 200)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(archives.PutMainDoc(ctx, "a1", backend.MainDoc{
		InstructionNo: "ZL-001",
		Title:         "关于防汛工作的通知",
		IssuedAt:      "2024-06-01",
		Content:       "请各单位做好防汛准备。注意安全。",
		FieldBlocks:   map[string][]string{"title": {"b0"}, "content": {"b1", "b2"}},
	}))
	must(blocks.Replace(ctx, "a1", []backend.Block{
		{BlockID: "b0", Text: "关于防汛工作的通知"},
		{BlockID: "b1", Text: "请各单位做好防汛防汛准备。"},
		{BlockID: "b2", Text: "注意安全。"},
	}))
	must(archives.PutMainDoc(ctx, "a2", backend.MainDoc{
		InstructionNo: "ZL-002",
		Title:         "检查安排",
		IssuedAt:      "2024-07-01",
		Content:       "开展防汛检查",
		FieldBlocks:   map[string][]string{"content": {"c0", "c1", "c2"}},
	}))
	must(blocks.Replace(ctx, "a2", []backend.Block{
		{BlockID: "c1", Text: "开展防"},
		{BlockID: "c2", Text: "汛检查"},
	}))
	must(NewAttachmentRepo(db).Put(ctx, AttachmentRecord{Attachment: backend.Attachment{
		FileID: "f1", ArchiveID: "a2", DisplayName: "防汛预案.xlsx", FileType: "xlsx", VirtualPath: "防汛预案.xlsx",
	}}))
	_, err := db.Exec(`INSERT INTO annotations (annotation_id, archive_id, target_kind, target_ref, locator_json, content, created_at, updated_at)
		VALUES ('n1', 'a1', 'primary_doc', 'a1', '{"block_id":"b1"}', '防汛重点', 10, 10)`)
	must(err)
}

type hitKey struct {
	Kind search.Kind
	ID   string
}

func keys(hits search.Hits) []hitKey {
	out := make([]hitKey, len(hits))
	for i, h := range hits {
		switch v := h.(type) {
		case search.DocxBlock:
			out[i] = hitKey{v.Kind(), v.BlockID}
		case search.MainDocField:
			out[i] = hitKey{v.Kind(), v.ArchiveID + "." + v.FieldName}
		case search.AttachmentName:
			out[i] = hitKey{v.Kind(), v.FileID}
		case search.AnnotationHit:
			out[i] = hitKey{v.Kind(), v.AnnotationID}
		}
	}
	return out
}

func TestSearchRepo_RanksAndSuppresses(t *testing.T) {
	db := newTestDB(t)
	seedSearch(t, db)

	page, err := NewSearchRepo(db).Search(context.Background(), search.Request{Query: " 防汛 "})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	// b1 covers more text than b0; a1's content field is dropped because b1
	// already matched inside it.
	want := []hitKey{
		{search.KindDocxBlock, "b1"},
		{search.KindDocxBlock, "b0"},
		{search.KindMainDocField, "a1.title"},
		{search.KindMainDocField, "a2.content"},
		{search.KindAnnotation, "n1"},
		{search.KindAttachmentName, "f1"},
	}
	if got := keys(page.Items); !reflect.DeepEqual(got, want) {
		t.Fatalf("Search() = %v, want %v", got, want)
	}
	if page.HasMore || page.Limit != search.DefaultLimit || page.Offset != 0 {
		t.Errorf("page = has_more %v limit %d offset %d", page.HasMore, page.Limit, page.Offset)
	}

	b1 := page.Items[0].(search.DocxBlock)
	if want := []interval.Range{{Start: 6, End: 10}}; !reflect.DeepEqual(b1.Highlights, want) {
		t.Errorf("b1 highlights = %v, want %v", b1.Highlights, want)
	}

	// c0 does not exist; c1 is the first existing block and nothing scores.
	content := page.Items[3].(search.MainDocField)
	if content.BestBlockID != "c1" {
		t.Errorf("BestBlockID = %q, want c1", content.BestBlockID)
	}
	if want := []interval.Range{{Start: 2, End: 4}}; !reflect.DeepEqual(content.Highlights, want) {
		t.Errorf("content highlights = %v, want %v", content.Highlights, want)
	}
}

func TestSearchRepo_Filters(t *testing.T) {
	db := newTestDB(t)
	seedSearch(t, db)
	repo := NewSearchRepo(db)
	from := int64(150)

	tests := []struct {
		name    string
		filters search.Filters
		want    []hitKey
	}{
		{
			name:    "attachment type only",
			filters: search.Filters{FileTypes: []string{"xlsx"}},
			want:    []hitKey{{search.KindAttachmentName, "f1"}},
		},
		{
			name:    "non-matching attachment type",
			filters: search.Filters{FileTypes: []string{"pdf"}},
			want:    []hitKey{},
		},
		{
			name:    "annotations only",
			filters: search.Filters{FileTypes: []string{"annotation"}},
			want:    []hitKey{{search.KindAnnotation, "n1"}},
		},
		{
			name:    "main document only",
			filters: search.Filters{FileTypes: []string{"docx_main"}},
			want: []hitKey{
				{search.KindDocxBlock, "b1"},
				{search.KindDocxBlock, "b0"},
				{search.KindMainDocField, "a1.title"},
				{search.KindMainDocField, "a2.content"},
			},
		},
		{
			name:    "date from",
			filters: search.Filters{DateFrom: &from},
			want: []hitKey{
				{search.KindMainDocField, "a2.content"},
				{search.KindAttachmentName, "f1"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.Search(context.Background(), search.Request{Query: "防汛", Filters: tt.filters})
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if got := keys(page.Items); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Search() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchRepo_Paging(t *testing.T) {
	db := newTestDB(t)
	seedSearch(t, db)
	repo := NewSearchRepo(db)
	ctx := context.Background()

	tests := []struct {
		name        string
		offset      int
		limit       int
		wantLen     int
		wantHasMore bool
	}{
		{"first page", 0, 2, 2, true},
		{"last full page", 4, 2, 2, false},
		{"partial page", 5, 2, 1, false},
		{"past the end", 10, 2, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.Search(ctx, search.Request{Query: "防汛", Offset: tt.offset, Limit: tt.limit})
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(page.Items) != tt.wantLen || page.HasMore != tt.wantHasMore {
				t.Errorf("Search() = %d items has_more %v, want %d items has_more %v",
					len(page.Items), page.HasMore, tt.wantLen, tt.wantHasMore)
			}
		})
	}
}

func TestSearchRepo_EmptyQuery(t *testing.T) {
	db := newTestDB(t)
	seedSearch(t, db)

	page, err := NewSearchRepo(db).Search(context.Background(), search.Request{Query: "   ", Limit: 500, Offset: -3})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(page.Items) != 0 || page.HasMore {
		t.Errorf("Search() = %+v, want empty page", page)
	}
	if page.Limit != search.MaxLimit || page.Offset != 0 {
		t.Errorf("Search() limit %d offset %d, want %d and 0", page.Limit, page.Offset, search.MaxLimit)
	}
}
