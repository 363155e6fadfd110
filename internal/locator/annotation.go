package locator

import (
	"encoding/json"
	"fmt"
	"time"
)

// Annotation is a note attached to a locator inside an archive.
// It is owned by the document backend and never mutated in place.
type Annotation struct {
	ID         string
	ArchiveID  string
	TargetKind TargetKind
	// TargetRef is the id of the addressed document within the archive: the
	// archive id for the primary document, the file id for attachments.
	TargetRef string
	Locator   Locator
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type annotationJSON struct {
	ID         string          `json:"annotation_id"`
	ArchiveID  string          `json:"archive_id"`
	TargetKind TargetKind      `json:"target_kind"`
	TargetRef  string          `json:"target_ref"`
	Locator    json.RawMessage `json:"locator"`
	Content    string          `json:"content"`
	CreatedAt  int64           `json:"created_at"`
	UpdatedAt  int64           `json:"updated_at,omitempty"`
}

// MarshalJSON encodes timestamps as unix seconds, matching the backend wire format.
func (a Annotation) MarshalJSON() ([]byte, error) {
	loc, err := Encode(a.Locator)
	if err != nil {
		return nil, err
	}
	out := annotationJSON{
		ID:         a.ID,
		ArchiveID:  a.ArchiveID,
		TargetKind: a.TargetKind,
		TargetRef:  a.TargetRef,
		Locator:    loc,
		Content:    a.Content,
		CreatedAt:  a.CreatedAt.Unix(),
	}
	if !a.UpdatedAt.IsZero() {
		out.UpdatedAt = a.UpdatedAt.Unix()
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes and validates the locator for the annotation's kind.
func (a *Annotation) UnmarshalJSON(data []byte) error {
	var in annotationJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	loc, err := Decode(in.TargetKind, in.Locator)
	if err != nil {
		return fmt.Errorf("annotation %s: %w", in.ID, err)
	}
	*a = Annotation{
		ID:         in.ID,
		ArchiveID:  in.ArchiveID,
		TargetKind: in.TargetKind,
		TargetRef:  in.TargetRef,
		Locator:    loc,
		Content:    in.Content,
		CreatedAt:  time.Unix(in.CreatedAt, 0).UTC(),
	}
	if in.UpdatedAt != 0 {
		a.UpdatedAt = time.Unix(in.UpdatedAt, 0).UTC()
	}
	return nil
}

// Label returns the classified description of the annotation's target.
func (a Annotation) Label() string {
	return Classify(a.Locator)
}
