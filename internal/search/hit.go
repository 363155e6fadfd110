package search

import (
	"encoding/json"
	"fmt"

	"archive-lens/internal/interval"
	"archive-lens/internal/locator"
)

// Kind discriminates search hits on the wire.
type Kind string

const (
	KindDocxBlock      Kind = "docx_block"
	KindMainDocField   Kind = "main_doc_field"
	KindAttachmentName Kind = "attachment_name"
	KindAnnotation     Kind = "annotation"
)

// Hit is one raw match returned by the backend. Highlights are code point
// ranges relative to Text.
type Hit interface {
	Kind() Kind
	Archive() string
	Text() string
	Ranges() []interval.Range
}

// DocxBlock is a match inside a paragraph of the primary document.
type DocxBlock struct {
	ArchiveID  string           `json:"archive_id"`
	BlockID    string           `json:"block_id"`
	BlockText  string           `json:"block_text"`
	Highlights []interval.Range `json:"highlights"`
}

// MainDocField is a match inside a structured field of the primary
// document. BestBlockID names the paragraph that reproduces the match best,
// when the backend found one.
type MainDocField struct {
	ArchiveID           string           `json:"archive_id"`
	FieldName           string           `json:"field_name"`
	SourceText          string           `json:"source_text"`
	Highlights          []interval.Range `json:"highlights"`
	BestBlockID         string           `json:"best_block_id,omitempty"`
	BestBlockHighlights []interval.Range `json:"best_block_highlights,omitempty"`
}

// AttachmentName is a match in an attachment's display name.
type AttachmentName struct {
	ArchiveID   string           `json:"archive_id"`
	FileID      string           `json:"file_id"`
	DisplayName string           `json:"display_name"`
	Highlights  []interval.Range `json:"highlights"`
}

// AnnotationHit is a match in the content of an annotation.
type AnnotationHit struct {
	ArchiveID    string             `json:"archive_id"`
	AnnotationID string             `json:"annotation_id"`
	TargetKind   locator.TargetKind `json:"target_kind"`
	TargetRef    string             `json:"target_ref"`
	Locator      json.RawMessage    `json:"locator,omitempty"`
	Content      string             `json:"content"`
	Highlights   []interval.Range   `json:"highlights"`
}

func (DocxBlock) Kind() Kind      { return KindDocxBlock }
func (MainDocField) Kind() Kind   { return KindMainDocField }
func (AttachmentName) Kind() Kind { return KindAttachmentName }
func (AnnotationHit) Kind() Kind  { return KindAnnotation }

func (h DocxBlock) Archive() string      { return h.ArchiveID }
func (h MainDocField) Archive() string   { return h.ArchiveID }
func (h AttachmentName) Archive() string { return h.ArchiveID }
func (h AnnotationHit) Archive() string  { return h.ArchiveID }

func (h DocxBlock) Text() string      { return h.BlockText }
func (h MainDocField) Text() string   { return h.SourceText }
func (h AttachmentName) Text() string { return h.DisplayName }
func (h AnnotationHit) Text() string  { return h.Content }

func (h DocxBlock) Ranges() []interval.Range      { return h.Highlights }
func (h MainDocField) Ranges() []interval.Range   { return h.Highlights }
func (h AttachmentName) Ranges() []interval.Range { return h.Highlights }
func (h AnnotationHit) Ranges() []interval.Range  { return h.Highlights }

type kindTag struct {
	Kind Kind `json:"kind"`
}

func (h DocxBlock) MarshalJSON() ([]byte, error) {
	type plain DocxBlock
	return json.Marshal(struct {
		kindTag
		plain
	}{kindTag{KindDocxBlock}, plain(h)})
}

func (h MainDocField) MarshalJSON() ([]byte, error) {
	type plain MainDocField
	return json.Marshal(struct {
		kindTag
		plain
	}{kindTag{KindMainDocField}, plain(h)})
}

func (h AttachmentName) MarshalJSON() ([]byte, error) {
	type plain AttachmentName
	return json.Marshal(struct {
		kindTag
		plain
	}{kindTag{KindAttachmentName}, plain(h)})
}

func (h AnnotationHit) MarshalJSON() ([]byte, error) {
	type plain AnnotationHit
	return json.Marshal(struct {
		kindTag
		plain
	}{kindTag{KindAnnotation}, plain(h)})
}

// DecodeHit parses one hit, choosing the concrete type by its "kind" field.
func DecodeHit(data []byte) (Hit, error) {
	var tag kindTag
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("failed to decode hit kind: %w", err)
	}

	var (
		hit Hit
		err error
	)
	switch tag.Kind {
	case KindDocxBlock:
		var h DocxBlock
		err = json.Unmarshal(data, &h)
		hit = h
	case KindMainDocField:
		var h MainDocField
		err = json.Unmarshal(data, &h)
		hit = h
	case KindAttachmentName:
		var h AttachmentName
		err = json.Unmarshal(data, &h)
		hit = h
	case KindAnnotation:
		var h AnnotationHit
		err = json.Unmarshal(data, &h)
		hit = h
	default:
		return nil, fmt.Errorf("unknown hit kind %q", tag.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s hit: %w", tag.Kind, err)
	}
	return hit, nil
}

// Hits is a list of hits that decodes from a JSON array of tagged objects.
type Hits []Hit

func (hs *Hits) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Hits, 0, len(raw))
	for i, item := range raw {
		hit, err := DecodeHit(item)
		if err != nil {
			return fmt.Errorf("hit %d: %w", i, err)
		}
		out = append(out, hit)
	}
	*hs = out
	return nil
}
