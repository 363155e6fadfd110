package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"archive-lens/internal/backend"
	"archive-lens/internal/contextutil"
	"archive-lens/internal/locator"
	"archive-lens/internal/search"
	"archive-lens/internal/sheets"
)

var (
	// ErrEmptyContent is returned when an annotation has no text.
	ErrEmptyContent = backend.NewError(backend.ErrInvalidRequest, "批注内容不能为空")
	// ErrNotCached is returned when an attachment has no extracted file yet.
	ErrNotCached = backend.NewError(backend.ErrNotFound, "附件尚未缓存")
	// ErrNotSpreadsheet is returned when sheet data is requested for another file type.
	ErrNotSpreadsheet = backend.NewError(backend.ErrInvalidRequest, "附件不是表格文件")
)

// Store is the SQLite-backed document backend. Attachment files live under
// the library root.
type Store struct {
	archives    *ArchiveRepo
	blocks      *BlockRepo
	attachments *AttachmentRepo
	annotations *AnnotationRepo
	search      *SearchRepo
	libraryRoot string
}

var _ backend.Backend = (*Store)(nil)

// NewStore creates a Store over an open, migrated database.
func NewStore(db *sql.DB, libraryRoot string) *Store {
	return &Store{
		archives:    NewArchiveRepo(db),
		blocks:      NewBlockRepo(db),
		attachments: NewAttachmentRepo(db),
		annotations: NewAnnotationRepo(db),
		search:      NewSearchRepo(db),
		libraryRoot: libraryRoot,
	}
}

// Archives exposes the archive repository to importers.
func (s *Store) Archives() *ArchiveRepo { return s.archives }

// Blocks exposes the block repository to importers.
func (s *Store) Blocks() *BlockRepo { return s.blocks }

// Attachments exposes the attachment repository to importers.
func (s *Store) Attachments() *AttachmentRepo { return s.attachments }

func gone(archiveID string) error {
	return fmt.Errorf("%w: %s", backend.ErrArchiveGone, archiveID)
}

func (s *Store) requireArchive(ctx context.Context, archiveID string) (*ArchiveRecord, error) {
	rec, err := s.archives.Get(ctx, archiveID)
	if errors.Is(err, ErrNotFound) {
		return nil, gone(archiveID)
	}
	return rec, err
}

// GetArchiveDetail loads an archive with its primary document, attachments
// and annotations.
func (s *Store) GetArchiveDetail(ctx context.Context, archiveID string) (backend.ArchiveDetail, error) {
	rec, err := s.requireArchive(ctx, archiveID)
	if err != nil {
		return backend.ArchiveDetail{}, err
	}

	detail := backend.ArchiveDetail{Archive: rec.Archive()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		doc, err := s.archives.GetMainDoc(gctx, archiveID)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		detail.MainDoc = doc
		return err
	})
	g.Go(func() error {
		recs, err := s.attachments.ListByArchive(gctx, archiveID)
		if err != nil {
			return err
		}
		detail.Attachments = make([]backend.Attachment, len(recs))
		for i, a := range recs {
			detail.Attachments[i] = a.Attachment
		}
		return nil
	})
	g.Go(func() error {
		var err error
		detail.Annotations, err = s.annotations.ListByArchive(gctx, archiveID)
		return err
	})
	if err := g.Wait(); err != nil {
		return backend.ArchiveDetail{}, err
	}
	return detail, nil
}

// GetDocxBlocks returns the paragraphs of the archive's primary document.
func (s *Store) GetDocxBlocks(ctx context.Context, archiveID string) ([]backend.Block, error) {
	if _, err := s.requireArchive(ctx, archiveID); err != nil {
		return nil, err
	}
	return s.blocks.List(ctx, archiveID)
}

// GetDocxAttachmentPreview returns the extracted content of an attached document.
func (s *Store) GetDocxAttachmentPreview(ctx context.Context, fileID string) (backend.AttachmentPreview, error) {
	preview, err := s.attachments.GetPreview(ctx, fileID)
	if errors.Is(err, ErrNotFound) {
		return backend.AttachmentPreview{}, fmt.Errorf("%w: %s", ErrNotCached, fileID)
	}
	if err != nil {
		return backend.AttachmentPreview{}, err
	}
	return *preview, nil
}

// GetAttachmentPreviewPath resolves the cached file of an attachment.
func (s *Store) GetAttachmentPreviewPath(ctx context.Context, fileID string) (backend.PreviewPath, error) {
	rec, err := s.attachments.Get(ctx, fileID)
	if err != nil {
		return backend.PreviewPath{}, fmt.Errorf("failed to load attachment %s: %w", fileID, err)
	}
	if rec.CachedPath == "" {
		return backend.PreviewPath{}, fmt.Errorf("%w: %s", ErrNotCached, fileID)
	}
	path := rec.CachedPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.libraryRoot, path)
	}
	if _, err := os.Stat(path); err != nil {
		return backend.PreviewPath{}, fmt.Errorf("%w: %v", ErrNotCached, err)
	}
	return backend.PreviewPath{FileID: fileID, Path: path}, nil
}

func (s *Store) sheetPath(ctx context.Context, fileID string) (string, error) {
	rec, err := s.attachments.Get(ctx, fileID)
	if err != nil {
		return "", fmt.Errorf("failed to load attachment %s: %w", fileID, err)
	}
	if rec.TargetKind() != locator.KindSpreadsheet {
		return "", fmt.Errorf("%w: %s", ErrNotSpreadsheet, rec.DisplayName)
	}
	p, err := s.GetAttachmentPreviewPath(ctx, fileID)
	if err != nil {
		return "", err
	}
	return p.Path, nil
}

// GetExcelSheetInfo lists the sheets of a spreadsheet attachment.
func (s *Store) GetExcelSheetInfo(ctx context.Context, fileID string) (backend.Workbook, error) {
	path, err := s.sheetPath(ctx, fileID)
	if err != nil {
		return backend.Workbook{}, err
	}
	infos, def, err := sheets.Info(path)
	if err != nil {
		return backend.Workbook{}, err
	}
	return backend.Workbook{FileID: fileID, Sheets: infos, DefaultSheet: def}, nil
}

// GetExcelSheetCells reads one rectangle of a sheet.
func (s *Store) GetExcelSheetCells(ctx context.Context, req backend.CellsRequest) (backend.CellsResponse, error) {
	path, err := s.sheetPath(ctx, req.FileID)
	if err != nil {
		return backend.CellsResponse{}, err
	}
	cells, err := sheets.Cells(path, req.SheetName, req.RowStart, req.RowEnd, req.ColStart, req.ColEnd)
	if err != nil {
		return backend.CellsResponse{}, err
	}
	return backend.CellsResponse{RowStart: req.RowStart, ColStart: req.ColStart, Cells: cells}, nil
}

// ListAnnotations returns the annotations of an archive, newest first.
func (s *Store) ListAnnotations(ctx context.Context, archiveID string) ([]locator.Annotation, error) {
	if _, err := s.requireArchive(ctx, archiveID); err != nil {
		return nil, err
	}
	return s.annotations.ListByArchive(ctx, archiveID)
}

// CreateAnnotation validates and stores a new annotation.
func (s *Store) CreateAnnotation(ctx context.Context, req backend.CreateAnnotationRequest) error {
	if strings.TrimSpace(req.Content) == "" {
		return ErrEmptyContent
	}
	if err := locator.Validate(req.Locator); err != nil {
		return err
	}
	if req.Locator.Kind() != req.TargetKind {
		return fmt.Errorf("%w: locator is %s, target is %s", locator.ErrInvalidLocator, req.Locator.Kind(), req.TargetKind)
	}
	if _, err := s.requireArchive(ctx, req.ArchiveID); err != nil {
		return err
	}

	a, err := s.annotations.Create(ctx, req)
	if err != nil {
		return err
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "annotation created",
		"annotation_id", a.ID, "archive_id", a.ArchiveID, "target_kind", a.TargetKind)
	return nil
}

// DeleteAnnotation removes an annotation.
func (s *Store) DeleteAnnotation(ctx context.Context, annotationID string) error {
	if err := s.annotations.Delete(ctx, annotationID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("批注不存在: %w", err)
		}
		return err
	}
	return nil
}

// SearchPaged runs a keyword search.
func (s *Store) SearchPaged(ctx context.Context, req search.Request) (search.Page, error) {
	return s.search.Search(ctx, req)
}

// ListArchives returns archives within the filter's date bounds, newest first.
func (s *Store) ListArchives(ctx context.Context, filters backend.Filters) ([]backend.Archive, error) {
	recs, err := s.archives.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	out := make([]backend.Archive, len(recs))
	for i, r := range recs {
		out[i] = r.Archive()
	}
	return out, nil
}
