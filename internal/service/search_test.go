package service

import (
	"context"
	"errors"
	"testing"

	"archive-lens/internal/backend"
	"archive-lens/internal/backend/mocks"
	"archive-lens/internal/interval"
	"archive-lens/internal/locator"
	"archive-lens/internal/search"

	"go.uber.org/mock/gomock"
)

func TestSearchService_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockBackend := mocks.NewMockBackend(ctrl)
	svc := NewSearchService(mockBackend, 30)

	hits := search.Hits{
		search.DocxBlock{ArchiveID: "A1", BlockID: "b2", BlockText: "请做好防汛准备", Highlights: []interval.Range{{Start: 3, End: 5}}},
		search.AttachmentName{ArchiveID: "A2", FileID: "f1", DisplayName: "防汛预案.xlsx", Highlights: []interval.Range{{Start: 0, End: 2}}},
		search.MainDocField{ArchiveID: "A1", FieldName: "title", SourceText: "防汛通知", Highlights: []interval.Range{{Start: 0, End: 2}}},
	}

	mockBackend.EXPECT().
		SearchPaged(gomock.Any(), search.Request{Query: "防汛", Limit: 30, Offset: 0}).
		Return(search.Page{Items: hits, HasMore: true, Limit: 30}, nil)
	mockBackend.EXPECT().
		ListArchives(gomock.Any(), backend.Filters{}).
		Return([]backend.Archive{{ArchiveID: "A1", OriginalName: "通知.zip"}}, nil)

	got, err := svc.Search(context.Background(), SearchQuery{Query: " 防汛 "})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got.Groups) != 2 {
		t.Fatalf("Search() groups = %d, want 2", len(got.Groups))
	}
	if got.Groups[0].ArchiveID != "A1" || got.Groups[0].Title != "通知.zip" {
		t.Errorf("first group = %s %q, want A1 titled 通知.zip", got.Groups[0].ArchiveID, got.Groups[0].Title)
	}
	if got.Groups[1].Title != "A2" {
		t.Errorf("untitled group = %q, want archive id", got.Groups[1].Title)
	}
	// The field hit is hidden because A1 already has a paragraph hit.
	if n := len(got.Groups[0].Snippets); n != 1 {
		t.Errorf("A1 snippets = %d, want 1", n)
	}
	if got.Groups[0].Counts.Fields != 1 || got.Groups[0].Counts.Paragraphs != 1 {
		t.Errorf("A1 counts = %+v", got.Groups[0].Counts)
	}
	if !got.HasMore || got.NextOffset != 3 {
		t.Errorf("HasMore = %v NextOffset = %d, want true and 3", got.HasMore, got.NextOffset)
	}
}

func TestSearchService_Search_GroupsAcrossPages(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockBackend := mocks.NewMockBackend(ctrl)
	svc := NewSearchService(mockBackend, 2)

	first := search.Hits{
		search.DocxBlock{ArchiveID: "A", BlockID: "b1", BlockText: "防汛通知正文", Highlights: []interval.Range{{Start: 0, End: 2}}},
		search.DocxBlock{ArchiveID: "B", BlockID: "b1", BlockText: "防汛物资", Highlights: []interval.Range{{Start: 0, End: 2}}},
	}
	second := search.Hits{
		search.MainDocField{ArchiveID: "A", FieldName: "title", SourceText: "防汛通知", Highlights: []interval.Range{{Start: 0, End: 2}}},
	}

	gomock.InOrder(
		mockBackend.EXPECT().
			SearchPaged(gomock.Any(), search.Request{Query: "防汛", Limit: 2, Offset: 0}).
			Return(search.Page{Items: first, HasMore: true, Limit: 2}, nil),
		mockBackend.EXPECT().
			SearchPaged(gomock.Any(), search.Request{Query: "防汛", Limit: 2, Offset: 2}).
			Return(search.Page{Items: second, HasMore: false, Offset: 2, Limit: 2}, nil),
	)
	mockBackend.EXPECT().ListArchives(gomock.Any(), backend.Filters{}).Return(nil, nil)

	got, err := svc.Search(context.Background(), SearchQuery{Query: "防汛", Offset: 2})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	var groupsA int
	for _, g := range got.Groups {
		if g.ArchiveID != "A" {
			continue
		}
		groupsA++
		// The title hit from the second page is hidden behind the first page's paragraph.
		if len(g.Snippets) != 1 {
			t.Errorf("A snippets = %d, want 1", len(g.Snippets))
		}
		if g.Counts.Paragraphs != 1 || g.Counts.Fields != 1 {
			t.Errorf("A counts = %+v, want one paragraph and one field", g.Counts)
		}
	}
	if groupsA != 1 {
		t.Errorf("groups for A = %d, want 1", groupsA)
	}
	if len(got.Groups) != 2 {
		t.Errorf("Search() groups = %d, want 2", len(got.Groups))
	}
	if got.HasMore || got.NextOffset != 3 {
		t.Errorf("HasMore = %v NextOffset = %d, want false and 3", got.HasMore, got.NextOffset)
	}
}

func TestSearchService_Search_EmptyQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockBackend := mocks.NewMockBackend(ctrl)

	got, err := NewSearchService(mockBackend, 30).Search(context.Background(), SearchQuery{Query: "   ", Offset: 40})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got.Groups) != 0 || got.HasMore || got.NextOffset != 40 {
		t.Errorf("Search() = %+v, want empty page", got)
	}
}

func TestSearchService_Search_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockBackend := mocks.NewMockBackend(ctrl)
	from, to := int64(200), int64(100)

	_, err := NewSearchService(mockBackend, 30).Search(context.Background(), SearchQuery{
		Query:   "防汛",
		Filters: backend.Filters{DateFrom: &from, DateTo: &to},
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("Search() error = %v, want ValidationError", err)
	}
}

func TestSearchService_Search_TitleLookupFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockBackend := mocks.NewMockBackend(ctrl)

	mockBackend.EXPECT().
		SearchPaged(gomock.Any(), gomock.Any()).
		Return(search.Page{Items: search.Hits{search.DocxBlock{ArchiveID: "A1", BlockID: "b1", BlockText: "防汛"}}}, nil)
	mockBackend.EXPECT().
		ListArchives(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("database is locked"))

	got, err := NewSearchService(mockBackend, 30).Search(context.Background(), SearchQuery{Query: "防汛", Limit: 500})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got.Limit != search.MaxLimit {
		t.Errorf("Limit = %d, want %d", got.Limit, search.MaxLimit)
	}
	if len(got.Groups) != 1 || got.Groups[0].Title != "A1" {
		t.Errorf("Search() groups = %+v", got.Groups)
	}
}

func TestSearchService_Navigate(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewSearchService(mocks.NewMockBackend(ctrl), 30)

	tests := []struct {
		name    string
		hit     search.Hit
		wantLoc locator.Locator
		wantErr bool
	}{
		{
			name: "field with best block opens the paragraph",
			hit: search.MainDocField{
				ArchiveID: "A1", FieldName: "content", SourceText: "开展防汛检查",
				BestBlockID: "b3", BestBlockHighlights: []interval.Range{{Start: 0, End: 2}},
			},
			wantLoc: locator.PrimaryDoc{BlockID: "b3"},
		},
		{
			name:    "attachment name",
			hit:     search.AttachmentName{ArchiveID: "A1", FileID: "f1", DisplayName: "预案.pdf"},
			wantLoc: locator.Media{},
		},
		{
			name:    "annotation with broken locator",
			hit:     search.AnnotationHit{ArchiveID: "A1", AnnotationID: "n1", TargetKind: locator.KindPDF, Locator: []byte(`{"page":"x"}`)},
			wantErr: true,
		},
		{
			name:    "nil hit",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav, err := svc.Navigate(context.Background(), tt.hit)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					var vErr *ValidationError
					if !errors.As(err, &vErr) {
						t.Errorf("Navigate() error = %v, want invalid input", err)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("Navigate() error = %v", err)
			}
			if nav.Locator != tt.wantLoc {
				t.Errorf("Navigate() locator = %#v, want %#v", nav.Locator, tt.wantLoc)
			}
		})
	}
}
