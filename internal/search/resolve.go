package search

import (
	"fmt"

	"archive-lens/internal/interval"
	"archive-lens/internal/locator"
)

// Navigation tells the detail view what to open for a clicked hit.
// TargetRef is the archive id for the primary document and the file id for
// attachments.
type Navigation struct {
	ArchiveID    string             `json:"archive_id"`
	TargetKind   locator.TargetKind `json:"target_kind"`
	TargetRef    string             `json:"target_ref"`
	Locator      locator.Locator    `json:"locator"`
	Highlights   []interval.Range   `json:"highlights,omitempty"`
	AnnotationID string             `json:"annotation_id,omitempty"`
}

// Resolve maps a hit to the target it opens. A field hit that carries a
// best matching paragraph opens that paragraph instead of the field.
func Resolve(hit Hit) (Navigation, error) {
	switch h := hit.(type) {
	case DocxBlock:
		return Navigation{
			ArchiveID:  h.ArchiveID,
			TargetKind: locator.KindPrimaryDoc,
			TargetRef:  h.ArchiveID,
			Locator:    locator.PrimaryDoc{BlockID: h.BlockID},
			Highlights: interval.Merge(h.Highlights),
		}, nil
	case MainDocField:
		nav := Navigation{
			ArchiveID:  h.ArchiveID,
			TargetKind: locator.KindPrimaryDoc,
			TargetRef:  h.ArchiveID,
		}
		if h.BestBlockID != "" {
			nav.Locator = locator.PrimaryDoc{BlockID: h.BestBlockID}
			nav.Highlights = interval.Merge(h.BestBlockHighlights)
			return nav, nil
		}
		nav.Locator = locator.PrimaryDoc{FieldName: h.FieldName}
		nav.Highlights = interval.Merge(h.Highlights)
		return nav, nil
	case AttachmentName:
		return Navigation{
			ArchiveID:  h.ArchiveID,
			TargetKind: locator.KindMedia,
			TargetRef:  h.FileID,
			Locator:    locator.Media{},
			Highlights: interval.Merge(h.Highlights),
		}, nil
	case AnnotationHit:
		loc, err := locator.Decode(h.TargetKind, h.Locator)
		if err != nil {
			return Navigation{}, fmt.Errorf("failed to resolve annotation %s: %w", h.AnnotationID, err)
		}
		return Navigation{
			ArchiveID:    h.ArchiveID,
			TargetKind:   h.TargetKind,
			TargetRef:    h.TargetRef,
			Locator:      loc,
			AnnotationID: h.AnnotationID,
		}, nil
	}
	return Navigation{}, fmt.Errorf("cannot resolve hit %T", hit)
}
