package backend

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_backend.go -package=mocks archive-lens/internal/backend Backend

import (
	"context"

	"archive-lens/internal/locator"
	"archive-lens/internal/search"
)

// Archive is the metadata of one imported archive.
type Archive struct {
	ArchiveID    string `json:"archive_id"`
	OriginalName string `json:"original_name"`
	ZipDate      int64  `json:"zip_date"`
	ImportedAt   int64  `json:"imported_at"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
}

// MainDoc holds the structured fields of an archive's primary document.
type MainDoc struct {
	InstructionNo string `json:"instruction_no"`
	Title         string `json:"title"`
	IssuedAt      string `json:"issued_at"`
	Content       string `json:"content"`
	// FieldBlocks maps a field name to the block ids that reproduce it.
	FieldBlocks map[string][]string `json:"field_block_map,omitempty"`
}

// Field returns the text of a structured field by name.
func (m MainDoc) Field(name string) string {
	switch name {
	case "instruction_no":
		return m.InstructionNo
	case "title":
		return m.Title
	case "issued_at":
		return m.IssuedAt
	case "content":
		return m.Content
	}
	return ""
}

// Attachment is a file stored inside an archive.
type Attachment struct {
	FileID      string `json:"file_id"`
	ArchiveID   string `json:"archive_id"`
	DisplayName string `json:"display_name"`
	FileType    string `json:"file_type"`
	VirtualPath string `json:"virtual_path"`
	CachedPath  string `json:"cached_path,omitempty"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
}

// TargetKind maps an attachment's file type to the locator kind used to
// annotate it.
func (a Attachment) TargetKind() locator.TargetKind {
	switch a.FileType {
	case "pdf":
		return locator.KindPDF
	case "xlsx", "xls", "csv":
		return locator.KindSpreadsheet
	case "docx", "doc":
		return locator.KindSecondaryDoc
	default:
		return locator.KindMedia
	}
}

// ArchiveDetail is everything the detail view needs about one archive.
type ArchiveDetail struct {
	Archive     Archive              `json:"archive"`
	MainDoc     *MainDoc             `json:"main_doc,omitempty"`
	Attachments []Attachment         `json:"attachments"`
	Annotations []locator.Annotation `json:"annotations"`
}

// Block is one paragraph of the primary document.
type Block struct {
	BlockID string `json:"block_id"`
	Text    string `json:"text"`
}

// AttachmentPreview is the extracted content of an attached document.
type AttachmentPreview struct {
	FileID     string   `json:"file_id"`
	Paragraphs []string `json:"paragraphs"`
	ImagePaths []string `json:"image_paths"`
}

// SheetInfo describes the extent of one sheet.
type SheetInfo struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
}

// Workbook lists the sheets of a spreadsheet attachment.
type Workbook struct {
	FileID       string      `json:"file_id"`
	Sheets       []SheetInfo `json:"sheets"`
	DefaultSheet string      `json:"default_sheet,omitempty"`
}

// Sheet returns the info of the named sheet.
func (w Workbook) Sheet(name string) (SheetInfo, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return SheetInfo{}, false
}

// CellsRequest asks for the half-open rectangle [RowStart,RowEnd) x [ColStart,ColEnd).
type CellsRequest struct {
	FileID    string `json:"file_id"`
	SheetName string `json:"sheet_name"`
	RowStart  int    `json:"row_start"`
	RowEnd    int    `json:"row_end"`
	ColStart  int    `json:"col_start"`
	ColEnd    int    `json:"col_end"`
}

// CellsResponse carries the fetched rectangle; Cells[i][j] is the cell at
// (RowStart+i, ColStart+j). Rows or columns past the sheet extent are omitted.
type CellsResponse struct {
	RowStart int        `json:"row_start"`
	ColStart int        `json:"col_start"`
	Cells    [][]string `json:"cells"`
}

// CreateAnnotationRequest is a draft annotation submitted for persistence.
type CreateAnnotationRequest struct {
	ArchiveID  string
	TargetKind locator.TargetKind
	TargetRef  string
	Locator    locator.Locator
	Content    string
}

// PreviewPath is the local path an attachment can be previewed from.
type PreviewPath struct {
	FileID string `json:"file_id"`
	Path   string `json:"path"`
}

// Filters narrow archive listings and searches.
type Filters = search.Filters

// Backend is the document backend this subsystem consumes. Errors carry a
// user-visible message.
type Backend interface {
	GetArchiveDetail(ctx context.Context, archiveID string) (ArchiveDetail, error)
	GetDocxBlocks(ctx context.Context, archiveID string) ([]Block, error)
	GetDocxAttachmentPreview(ctx context.Context, fileID string) (AttachmentPreview, error)
	GetExcelSheetInfo(ctx context.Context, fileID string) (Workbook, error)
	GetExcelSheetCells(ctx context.Context, req CellsRequest) (CellsResponse, error)
	ListAnnotations(ctx context.Context, archiveID string) ([]locator.Annotation, error)
	CreateAnnotation(ctx context.Context, req CreateAnnotationRequest) error
	DeleteAnnotation(ctx context.Context, annotationID string) error
	SearchPaged(ctx context.Context, req search.Request) (search.Page, error)
	ListArchives(ctx context.Context, filters Filters) ([]Archive, error)
	GetAttachmentPreviewPath(ctx context.Context, fileID string) (PreviewPath, error)
}
