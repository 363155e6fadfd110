package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"archive-lens/internal/backend"
	"archive-lens/internal/contextutil"
	"archive-lens/internal/locator"
)

// AnnotationRepo provides methods for annotation operations.
type AnnotationRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewAnnotationRepo creates a new AnnotationRepo.
func NewAnnotationRepo(db *sql.DB) *AnnotationRepo {
	return &AnnotationRepo{db: db, now: time.Now}
}

// Create persists a new annotation with a generated UUID and returns it.
// The request is expected to be validated by the caller.
func (r *AnnotationRepo) Create(ctx context.Context, req backend.CreateAnnotationRequest) (*locator.Annotation, error) {
	raw, err := locator.Encode(req.Locator)
	if err != nil {
		return nil, err
	}

	now := r.now().UTC().Truncate(time.Second)
	a := &locator.Annotation{
		ID:         uuid.New().String(),
		ArchiveID:  req.ArchiveID,
		TargetKind: req.TargetKind,
		TargetRef:  req.TargetRef,
		Locator:    req.Locator,
		Content:    req.Content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO annotations (annotation_id, archive_id, target_kind, target_ref, locator_json, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ArchiveID, string(a.TargetKind), a.TargetRef, string(raw), a.Content, now.Unix(), now.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert annotation: %w", err)
	}
	return a, nil
}

// ListByArchive returns the annotations of an archive, newest first.
// Rows whose locator no longer decodes are skipped.
func (r *AnnotationRepo) ListByArchive(ctx context.Context, archiveID string) ([]locator.Annotation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT annotation_id, archive_id, target_kind, target_ref, locator_json, content, created_at, updated_at
		 FROM annotations WHERE archive_id = ? ORDER BY created_at DESC, rowid DESC`,
		archiveID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query annotations: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	out := []locator.Annotation{}
	for rows.Next() {
		var (
			a                locator.Annotation
			kind, raw        string
			created, updated int64
		)
		if err := rows.Scan(&a.ID, &a.ArchiveID, &kind, &a.TargetRef, &raw, &a.Content, &created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan annotation: %w", err)
		}
		a.TargetKind = locator.TargetKind(kind)
		loc, err := locator.Decode(a.TargetKind, []byte(raw))
		if err != nil {
			contextutil.LoggerFromContext(ctx).WarnContext(ctx, "skipping annotation with invalid locator",
				"annotation_id", a.ID, "error", err)
			continue
		}
		a.Locator = loc
		a.CreatedAt = time.Unix(created, 0).UTC()
		a.UpdatedAt = time.Unix(updated, 0).UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating annotations: %w", err)
	}
	return out, nil
}

// Delete removes an annotation. Returns ErrNotFound if it does not exist.
func (r *AnnotationRepo) Delete(ctx context.Context, annotationID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM annotations WHERE annotation_id = ?", annotationID)
	if err != nil {
		return fmt.Errorf("failed to delete annotation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
