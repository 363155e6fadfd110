package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// It enables foreign keys and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS archives (
			archive_id TEXT PRIMARY KEY,
			sha256 TEXT NOT NULL UNIQUE,
			original_name TEXT NOT NULL,
			source_path TEXT,
			stored_path TEXT NOT NULL,
			zip_date INTEGER NOT NULL,
			imported_at INTEGER NOT NULL,
			status TEXT NOT NULL,
			error TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS main_doc (
			archive_id TEXT PRIMARY KEY,
			instruction_no TEXT NOT NULL,
			title TEXT NOT NULL,
			issued_at TEXT NOT NULL,
			content TEXT NOT NULL,
			field_block_map_json TEXT NOT NULL,
			FOREIGN KEY (archive_id) REFERENCES archives(archive_id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS docx_blocks (
			archive_id TEXT NOT NULL,
			block_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			text TEXT NOT NULL,
			PRIMARY KEY (archive_id, block_id),
			FOREIGN KEY (archive_id) REFERENCES archives(archive_id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS attachments (
			file_id TEXT PRIMARY KEY,
			archive_id TEXT NOT NULL,
			display_name TEXT NOT NULL,
			file_type TEXT NOT NULL,
			source_depth INTEGER NOT NULL,
			container_virtual_path TEXT,
			virtual_path TEXT NOT NULL,
			cached_path TEXT,
			size_bytes INTEGER,
			FOREIGN KEY (archive_id) REFERENCES archives(archive_id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS attachment_previews (
			file_id TEXT PRIMARY KEY,
			paragraphs_json TEXT NOT NULL,
			image_paths_json TEXT NOT NULL,
			FOREIGN KEY (file_id) REFERENCES attachments(file_id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS annotations (
			annotation_id TEXT PRIMARY KEY,
			archive_id TEXT NOT NULL,
			target_kind TEXT NOT NULL,
			target_ref TEXT NOT NULL,
			locator_json TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			FOREIGN KEY (archive_id) REFERENCES archives(archive_id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_archives_zip_date ON archives(zip_date);`,
		`CREATE INDEX IF NOT EXISTS idx_attachments_archive ON attachments(archive_id);`,
		`CREATE INDEX IF NOT EXISTS idx_annotations_archive ON annotations(archive_id, created_at);`,
	}

	for i, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}

	return nil
}
