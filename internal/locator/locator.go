package locator

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TargetKind identifies the document category a locator addresses.
type TargetKind string

const (
	KindPrimaryDoc   TargetKind = "primary_doc"
	KindSecondaryDoc TargetKind = "secondary_doc"
	KindPDF          TargetKind = "pdf"
	KindSpreadsheet  TargetKind = "spreadsheet"
	KindMedia        TargetKind = "media"
)

// Kinds lists every supported target kind.
var Kinds = []TargetKind{KindPrimaryDoc, KindSecondaryDoc, KindPDF, KindSpreadsheet, KindMedia}

// Valid reports whether k is a known target kind.
func (k TargetKind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ErrInvalidLocator is returned when a locator payload does not describe
// exactly one shape of its target kind.
var ErrInvalidLocator = errors.New("invalid locator")

// Locator addresses a point or range inside one document of an archive.
// The concrete types are PrimaryDoc, SecondaryDoc, PDF, Spreadsheet and Media.
type Locator interface {
	Kind() TargetKind
	validate() error
}

// PrimaryDoc addresses a paragraph block or a structured field of the
// archive's main document. With neither BlockID nor FieldName it addresses
// the whole document.
type PrimaryDoc struct {
	BlockID    string `json:"block_id,omitempty"`
	Start      *int   `json:"start,omitempty"`
	End        *int   `json:"end,omitempty"`
	FieldName  string `json:"field_name,omitempty"`
	FieldStart *int   `json:"field_start,omitempty"`
	FieldEnd   *int   `json:"field_end,omitempty"`
}

// SecondaryDoc addresses a page, a paragraph (optionally a range within it)
// or an embedded image of an attached document. With none set it addresses
// the file.
type SecondaryDoc struct {
	Page       *int `json:"page,omitempty"`
	ParaIdx    *int `json:"para_idx,omitempty"`
	Start      *int `json:"start,omitempty"`
	End        *int `json:"end,omitempty"`
	ImageIndex *int `json:"image_index,omitempty"`
}

// PDF addresses a 1-based page of a PDF attachment; nil Page is file level.
type PDF struct {
	Page *int `json:"page"`
}

// Spreadsheet addresses a row or a cell (0-based) of a sheet. Without Row it
// addresses the file.
type Spreadsheet struct {
	SheetName string `json:"sheet_name,omitempty"`
	Row       *int   `json:"row,omitempty"`
	Col       *int   `json:"col,omitempty"`
}

// Media addresses a span of an attachment's display name; without a span it
// addresses the file.
type Media struct {
	NameStart *int `json:"name_start,omitempty"`
	NameEnd   *int `json:"name_end,omitempty"`
}

func (PrimaryDoc) Kind() TargetKind   { return KindPrimaryDoc }
func (SecondaryDoc) Kind() TargetKind { return KindSecondaryDoc }
func (PDF) Kind() TargetKind          { return KindPDF }
func (Spreadsheet) Kind() TargetKind  { return KindSpreadsheet }
func (Media) Kind() TargetKind        { return KindMedia }

// Int returns a pointer to v, for building locators in place.
func Int(v int) *int {
	return &v
}

func checkSpan(name string, start, end *int) error {
	if start == nil && end == nil {
		return nil
	}
	if start == nil || end == nil {
		return fmt.Errorf("%w: %s range needs both ends", ErrInvalidLocator, name)
	}
	if *start < 0 || *end <= *start {
		return fmt.Errorf("%w: %s range [%d,%d) is empty", ErrInvalidLocator, name, *start, *end)
	}
	return nil
}

func (l PrimaryDoc) validate() error {
	if l.BlockID != "" && l.FieldName != "" {
		return fmt.Errorf("%w: primary_doc cannot address both a block and a field", ErrInvalidLocator)
	}
	if err := checkSpan("block", l.Start, l.End); err != nil {
		return err
	}
	if err := checkSpan("field", l.FieldStart, l.FieldEnd); err != nil {
		return err
	}
	if l.Start != nil && l.BlockID == "" {
		return fmt.Errorf("%w: block range without block_id", ErrInvalidLocator)
	}
	if l.FieldStart != nil && l.FieldName == "" {
		return fmt.Errorf("%w: field range without field_name", ErrInvalidLocator)
	}
	return nil
}

func (l SecondaryDoc) validate() error {
	set := 0
	for _, p := range []*int{l.Page, l.ParaIdx, l.ImageIndex} {
		if p != nil {
			if *p < 0 {
				return fmt.Errorf("%w: negative secondary_doc index", ErrInvalidLocator)
			}
			set++
		}
	}
	if set > 1 {
		return fmt.Errorf("%w: secondary_doc must address one of page, paragraph or image", ErrInvalidLocator)
	}
	if err := checkSpan("paragraph", l.Start, l.End); err != nil {
		return err
	}
	if l.Start != nil && l.ParaIdx == nil {
		return fmt.Errorf("%w: paragraph range without para_idx", ErrInvalidLocator)
	}
	return nil
}

func (l PDF) validate() error {
	if l.Page != nil && *l.Page < 1 {
		return fmt.Errorf("%w: pdf page %d out of range", ErrInvalidLocator, *l.Page)
	}
	return nil
}

func (l Spreadsheet) validate() error {
	if l.Col != nil && l.Row == nil {
		return fmt.Errorf("%w: spreadsheet column without row", ErrInvalidLocator)
	}
	if (l.Row != nil && *l.Row < 0) || (l.Col != nil && *l.Col < 0) {
		return fmt.Errorf("%w: negative spreadsheet coordinate", ErrInvalidLocator)
	}
	if l.Row != nil && l.SheetName == "" {
		return fmt.Errorf("%w: spreadsheet row without sheet_name", ErrInvalidLocator)
	}
	return nil
}

func (l Media) validate() error {
	return checkSpan("name", l.NameStart, l.NameEnd)
}

// Validate checks that loc describes exactly one shape of its kind.
func Validate(loc Locator) error {
	if loc == nil {
		return fmt.Errorf("%w: missing locator", ErrInvalidLocator)
	}
	return loc.validate()
}

// Decode parses a locator payload for the given kind and validates it.
// Unknown fields are ignored so that newer payloads stay readable.
func Decode(kind TargetKind, raw json.RawMessage) (Locator, error) {
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage("{}")
	}

	var (
		loc Locator
		err error
	)
	switch kind {
	case KindPrimaryDoc:
		var l PrimaryDoc
		err = json.Unmarshal(raw, &l)
		loc = l
	case KindSecondaryDoc:
		var l SecondaryDoc
		err = json.Unmarshal(raw, &l)
		loc = l
	case KindPDF:
		var l PDF
		err = json.Unmarshal(raw, &l)
		loc = l
	case KindSpreadsheet:
		var l Spreadsheet
		err = json.Unmarshal(raw, &l)
		loc = l
	case KindMedia:
		var l Media
		err = json.Unmarshal(raw, &l)
		loc = l
	default:
		return nil, fmt.Errorf("%w: unknown target kind %q", ErrInvalidLocator, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrInvalidLocator, kind, err)
	}
	if err := loc.validate(); err != nil {
		return nil, err
	}
	return loc, nil
}

// Encode serializes a locator payload (without its kind).
func Encode(loc Locator) (json.RawMessage, error) {
	if loc == nil {
		return json.RawMessage("{}"), nil
	}
	data, err := json.Marshal(loc)
	if err != nil {
		return nil, fmt.Errorf("encode %s locator: %w", loc.Kind(), err)
	}
	return data, nil
}
