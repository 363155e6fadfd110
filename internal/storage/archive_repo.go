package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"

	"archive-lens/internal/backend"
	"archive-lens/internal/search"
)

var (
	// ErrNotFound is returned when a record is not found. It is the
	// backend's not-found error, so it survives the Backend interface.
	ErrNotFound = backend.ErrNotFound
)

// ArchiveStore defines the interface for archive storage operations.
type ArchiveStore interface {
	// Put inserts or replaces an archive row.
	Put(ctx context.Context, rec ArchiveRecord) error
	// Get returns the archive with the given id.
	// Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, archiveID string) (*ArchiveRecord, error)
	// List returns archives matching the date filter, newest first.
	List(ctx context.Context, filters search.Filters) ([]ArchiveRecord, error)
	// Delete removes an archive and everything that belongs to it.
	Delete(ctx context.Context, archiveID string) error
	// PutMainDoc stores the structured fields of the primary document.
	PutMainDoc(ctx context.Context, archiveID string, doc backend.MainDoc) error
	// GetMainDoc returns the structured fields of the primary document.
	// Returns ErrNotFound if the archive has none.
	GetMainDoc(ctx context.Context, archiveID string) (*backend.MainDoc, error)
}

// ArchiveRepo provides methods for archive and primary document operations.
// It implements the ArchiveStore interface.
type ArchiveRepo struct {
	db *sql.DB
}

// NewArchiveRepo creates a new ArchiveRepo.
func NewArchiveRepo(db *sql.DB) *ArchiveRepo {
	return &ArchiveRepo{db: db}
}

// dateBounds turns optional filter bounds into an inclusive BETWEEN pair.
func dateBounds(filters search.Filters) (int64, int64) {
	from, to := int64(math.MinInt64), int64(math.MaxInt64)
	if filters.DateFrom != nil {
		from = *filters.DateFrom
	}
	if filters.DateTo != nil {
		to = *filters.DateTo
	}
	return from, to
}

// Put inserts or replaces an archive row.
func (r *ArchiveRepo) Put(ctx context.Context, rec ArchiveRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO archives (archive_id, sha256, original_name, source_path, stored_path, zip_date, imported_at, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(archive_id) DO UPDATE SET
			sha256 = excluded.sha256,
			original_name = excluded.original_name,
			source_path = excluded.source_path,
			stored_path = excluded.stored_path,
			zip_date = excluded.zip_date,
			imported_at = excluded.imported_at,
			status = excluded.status,
			error = excluded.error`,
		rec.ArchiveID, rec.SHA256, rec.OriginalName, nullable(rec.SourcePath), rec.StoredPath,
		rec.ZipDate, rec.ImportedAt, rec.Status, nullable(rec.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to put archive: %w", err)
	}
	return nil
}

const archiveColumns = "archive_id, sha256, original_name, source_path, stored_path, zip_date, imported_at, status, error"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArchive(row rowScanner) (ArchiveRecord, error) {
	var (
		rec        ArchiveRecord
		sourcePath sql.NullString
		errMsg     sql.NullString
	)
	err := row.Scan(&rec.ArchiveID, &rec.SHA256, &rec.OriginalName, &sourcePath, &rec.StoredPath,
		&rec.ZipDate, &rec.ImportedAt, &rec.Status, &errMsg)
	rec.SourcePath = sourcePath.String
	rec.Error = errMsg.String
	return rec, err
}

// Get returns the archive with the given id.
// Returns nil and ErrNotFound if not found.
func (r *ArchiveRepo) Get(ctx context.Context, archiveID string) (*ArchiveRecord, error) {
	rec, err := scanArchive(r.db.QueryRowContext(ctx,
		"SELECT "+archiveColumns+" FROM archives WHERE archive_id = ?", archiveID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	return &rec, nil
}

// List returns archives whose zip date falls within the filter bounds,
// newest first.
func (r *ArchiveRepo) List(ctx context.Context, filters search.Filters) ([]ArchiveRecord, error) {
	from, to := dateBounds(filters)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+archiveColumns+" FROM archives WHERE zip_date BETWEEN ? AND ? ORDER BY zip_date DESC, imported_at DESC",
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query archives: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []ArchiveRecord
	for rows.Next() {
		rec, err := scanArchive(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan archive: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating archives: %w", err)
	}
	return out, nil
}

// Delete removes an archive. Blocks, attachments and annotations cascade.
// Returns ErrNotFound if the archive does not exist.
func (r *ArchiveRepo) Delete(ctx context.Context, archiveID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM archives WHERE archive_id = ?", archiveID)
	if err != nil {
		return fmt.Errorf("failed to delete archive: %w", err)
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

// PutMainDoc stores the structured fields of an archive's primary document,
// replacing any previous version.
func (r *ArchiveRepo) PutMainDoc(ctx context.Context, archiveID string, doc backend.MainDoc) error {
	fieldMap := doc.FieldBlocks
	if fieldMap == nil {
		fieldMap = map[string][]string{}
	}
	mapJSON, err := json.Marshal(fieldMap)
	if err != nil {
		return fmt.Errorf("failed to encode field block map: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO main_doc (archive_id, instruction_no, title, issued_at, content, field_block_map_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		archiveID, doc.InstructionNo, doc.Title, doc.IssuedAt, doc.Content, string(mapJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to put main doc: %w", err)
	}
	return nil
}

// GetMainDoc returns the primary document fields of an archive.
// Returns nil and ErrNotFound if the archive has none.
func (r *ArchiveRepo) GetMainDoc(ctx context.Context, archiveID string) (*backend.MainDoc, error) {
	var (
		doc     backend.MainDoc
		mapJSON string
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT instruction_no, title, issued_at, content, field_block_map_json FROM main_doc WHERE archive_id = ?",
		archiveID,
	).Scan(&doc.InstructionNo, &doc.Title, &doc.IssuedAt, &doc.Content, &mapJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query main doc: %w", err)
	}
	doc.FieldBlocks = decodeFieldBlocks(mapJSON)
	return &doc, nil
}

// decodeFieldBlocks tolerates a malformed map; it only steers highlighting.
func decodeFieldBlocks(raw string) map[string][]string {
	var m map[string][]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil
	}
	return m
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
