package storage

import (
	"archive-lens/internal/backend"
)

// ArchiveRecord is a full archives row as written by the importer.
type ArchiveRecord struct {
	ArchiveID    string
	SHA256       string // hex digest of the archive file, unique per library
	OriginalName string
	SourcePath   string
	StoredPath   string // relative to the library root
	ZipDate      int64  // unix seconds, taken from the archive name or mtime
	ImportedAt   int64
	Status       string
	Error        string
}

// Archive converts the record to its backend view.
func (r ArchiveRecord) Archive() backend.Archive {
	return backend.Archive{
		ArchiveID:    r.ArchiveID,
		OriginalName: r.OriginalName,
		ZipDate:      r.ZipDate,
		ImportedAt:   r.ImportedAt,
		Status:       r.Status,
		Error:        r.Error,
	}
}

// AttachmentRecord is a full attachments row.
type AttachmentRecord struct {
	backend.Attachment
	SourceDepth          int    // nesting depth of the container it was extracted from
	ContainerVirtualPath string // empty for top-level files
}

const (
	StatusReady  = "ready"
	StatusFailed = "failed"
)
