package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_archive_service.go -package=mocks -mock_names=ArchiveService=MockArchiveService archive-lens/internal/service ArchiveService

import (
	"context"
	"log/slog"
	"strings"

	"archive-lens/internal/backend"
	"archive-lens/internal/contextutil"
)

// ArchiveService reads archives and their attachments.
type ArchiveService interface {
	// List returns archives matching filters, newest zip date first.
	List(ctx context.Context, filters backend.Filters) ([]backend.Archive, error)
	// Detail returns an archive with its attachments and annotations.
	Detail(ctx context.Context, archiveID string) (backend.ArchiveDetail, error)
	// Blocks returns the paragraphs of the archive's primary document.
	Blocks(ctx context.Context, archiveID string) ([]backend.Block, error)
	// Preview returns the extracted content of an attached document.
	Preview(ctx context.Context, fileID string) (backend.AttachmentPreview, error)
	// PreviewPath returns where an attachment can be opened from.
	PreviewPath(ctx context.Context, fileID string) (backend.PreviewPath, error)
}

type archiveService struct {
	backend backend.Backend
	logger  *slog.Logger
}

// NewArchiveService creates a new ArchiveService.
func NewArchiveService(b backend.Backend) ArchiveService {
	return &archiveService{
		backend: b,
		logger:  slog.Default(),
	}
}

func requireID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: field, Message: "cannot be empty"}
	}
	return nil
}

func validateFilters(f backend.Filters) error {
	if f.DateFrom != nil && f.DateTo != nil && *f.DateFrom > *f.DateTo {
		return &ValidationError{Field: "date_from", Message: "must not be after date_to"}
	}
	return nil
}

func (s *archiveService) List(ctx context.Context, filters backend.Filters) ([]backend.Archive, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}
	archives, err := s.backend.ListArchives(ctx, filters)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list archives", "error", err)
		return nil, fromBackend(err, "failed to list archives")
	}
	return archives, nil
}

// Detail logs archive-gone at info level: another window deleting the
// archive is expected, not a fault.
func (s *archiveService) Detail(ctx context.Context, archiveID string) (backend.ArchiveDetail, error) {
	if err := requireID("archive_id", archiveID); err != nil {
		return backend.ArchiveDetail{}, err
	}
	detail, err := s.backend.GetArchiveDetail(ctx, archiveID)
	if err != nil {
		logger := contextutil.LoggerFromContext(ctx)
		if backend.IsArchiveGone(err) {
			logger.InfoContext(ctx, "archive no longer exists", "archive_id", archiveID)
		} else {
			logger.ErrorContext(ctx, "failed to load archive", "archive_id", archiveID, "error", err)
		}
		return backend.ArchiveDetail{}, fromBackend(err, "failed to load archive")
	}
	return detail, nil
}

func (s *archiveService) Blocks(ctx context.Context, archiveID string) ([]backend.Block, error) {
	if err := requireID("archive_id", archiveID); err != nil {
		return nil, err
	}
	blocks, err := s.backend.GetDocxBlocks(ctx, archiveID)
	if err != nil {
		return nil, fromBackend(err, "failed to load blocks")
	}
	return blocks, nil
}

func (s *archiveService) Preview(ctx context.Context, fileID string) (backend.AttachmentPreview, error) {
	if err := requireID("file_id", fileID); err != nil {
		return backend.AttachmentPreview{}, err
	}
	p, err := s.backend.GetDocxAttachmentPreview(ctx, fileID)
	if err != nil {
		return backend.AttachmentPreview{}, fromBackend(err, "failed to load preview")
	}
	return p, nil
}

func (s *archiveService) PreviewPath(ctx context.Context, fileID string) (backend.PreviewPath, error) {
	if err := requireID("file_id", fileID); err != nil {
		return backend.PreviewPath{}, err
	}
	p, err := s.backend.GetAttachmentPreviewPath(ctx, fileID)
	if err != nil {
		return backend.PreviewPath{}, fromBackend(err, "failed to resolve preview path")
	}
	return p, nil
}
