package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"archive-lens/internal/backend"
)

// AttachmentRepo provides methods for attachment operations.
type AttachmentRepo struct {
	db *sql.DB
}

// NewAttachmentRepo creates a new AttachmentRepo.
func NewAttachmentRepo(db *sql.DB) *AttachmentRepo {
	return &AttachmentRepo{db: db}
}

// Put inserts an attachment row or updates it in place, keeping any stored
// preview.
func (r *AttachmentRepo) Put(ctx context.Context, rec AttachmentRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attachments
			(file_id, archive_id, display_name, file_type, source_depth, container_virtual_path, virtual_path, cached_path, size_bytes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(file_id) DO UPDATE SET
			display_name = excluded.display_name,
			file_type = excluded.file_type,
			source_depth = excluded.source_depth,
			container_virtual_path = excluded.container_virtual_path,
			virtual_path = excluded.virtual_path,
			cached_path = excluded.cached_path,
			size_bytes = excluded.size_bytes`,
		rec.FileID, rec.ArchiveID, rec.DisplayName, rec.FileType, rec.SourceDepth,
		nullable(rec.ContainerVirtualPath), rec.VirtualPath, nullable(rec.CachedPath), rec.SizeBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to put attachment: %w", err)
	}
	return nil
}

const attachmentColumns = "file_id, archive_id, display_name, file_type, source_depth, container_virtual_path, virtual_path, cached_path, size_bytes"

func scanAttachment(row rowScanner) (AttachmentRecord, error) {
	var (
		rec       AttachmentRecord
		container sql.NullString
		cached    sql.NullString
		size      sql.NullInt64
	)
	err := row.Scan(&rec.FileID, &rec.ArchiveID, &rec.DisplayName, &rec.FileType, &rec.SourceDepth,
		&container, &rec.VirtualPath, &cached, &size)
	rec.ContainerVirtualPath = container.String
	rec.CachedPath = cached.String
	rec.SizeBytes = size.Int64
	return rec, err
}

// Get returns one attachment. Returns nil and ErrNotFound if not found.
func (r *AttachmentRepo) Get(ctx context.Context, fileID string) (*AttachmentRecord, error) {
	rec, err := scanAttachment(r.db.QueryRowContext(ctx,
		"SELECT "+attachmentColumns+" FROM attachments WHERE file_id = ?", fileID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query attachment: %w", err)
	}
	return &rec, nil
}

// ListByArchive returns the attachments of an archive, shallowest first and
// then by virtual path.
func (r *AttachmentRepo) ListByArchive(ctx context.Context, archiveID string) ([]AttachmentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+attachmentColumns+" FROM attachments WHERE archive_id = ? ORDER BY source_depth, virtual_path",
		archiveID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []AttachmentRecord
	for rows.Next() {
		rec, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachments: %w", err)
	}
	return out, nil
}

// PutPreview stores the extracted paragraphs and image paths of an attached
// document.
func (r *AttachmentRepo) PutPreview(ctx context.Context, preview backend.AttachmentPreview) error {
	paragraphs, err := json.Marshal(nonNil(preview.Paragraphs))
	if err != nil {
		return fmt.Errorf("failed to encode paragraphs: %w", err)
	}
	images, err := json.Marshal(nonNil(preview.ImagePaths))
	if err != nil {
		return fmt.Errorf("failed to encode image paths: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO attachment_previews (file_id, paragraphs_json, image_paths_json) VALUES (?, ?, ?)",
		preview.FileID, string(paragraphs), string(images),
	)
	if err != nil {
		return fmt.Errorf("failed to put attachment preview: %w", err)
	}
	return nil
}

// GetPreview returns the stored preview of an attached document.
// Returns nil and ErrNotFound if none was extracted.
func (r *AttachmentRepo) GetPreview(ctx context.Context, fileID string) (*backend.AttachmentPreview, error) {
	var paragraphs, images string
	err := r.db.QueryRowContext(ctx,
		"SELECT paragraphs_json, image_paths_json FROM attachment_previews WHERE file_id = ?",
		fileID,
	).Scan(&paragraphs, &images)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query attachment preview: %w", err)
	}

	preview := &backend.AttachmentPreview{FileID: fileID}
	if err := json.Unmarshal([]byte(paragraphs), &preview.Paragraphs); err != nil {
		return nil, fmt.Errorf("failed to decode paragraphs: %w", err)
	}
	if err := json.Unmarshal([]byte(images), &preview.ImagePaths); err != nil {
		return nil, fmt.Errorf("failed to decode image paths: %w", err)
	}
	return preview, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
