package locator

import (
	"errors"
	"unicode/utf8"

	"archive-lens/internal/interval"
)

var (
	// ErrCrossUnitSelection is returned when a selection spans more than one paragraph.
	ErrCrossUnitSelection = errors.New("批注范围不能跨越多个段落")
	// ErrEmptySelection is returned when a selection resolves to zero length.
	ErrEmptySelection = errors.New("请先选择要批注的文字")
	// ErrSelectionOutOfBounds is returned when a selection point names an unknown unit.
	ErrSelectionOutOfBounds = errors.New("选择位置无效")
)

// TextUnit is the addressable text buffer of one renderable unit (a block,
// a paragraph, a file name).
type TextUnit struct {
	ID   string
	Text string
}

// SelectionPoint is one end of a user selection: a unit index and a code
// point offset into that unit's text.
type SelectionPoint struct {
	Unit   int
	Offset int
}

// SelectionRange maps a selection between anchor and focus onto a range
// within a single unit. Backward selections are normalized and offsets are
// clamped to the unit's text.
func SelectionRange(units []TextUnit, anchor, focus SelectionPoint) (int, interval.Range, error) {
	if anchor.Unit < 0 || anchor.Unit >= len(units) || focus.Unit < 0 || focus.Unit >= len(units) {
		return 0, interval.Range{}, ErrSelectionOutOfBounds
	}
	if anchor.Unit != focus.Unit {
		return 0, interval.Range{}, ErrCrossUnitSelection
	}

	start, end := anchor.Offset, focus.Offset
	if end < start {
		start, end = end, start
	}
	r, ok := interval.Clamp(interval.Range{Start: start, End: end}, utf8.RuneCountInString(units[anchor.Unit].Text))
	if !ok {
		return 0, interval.Range{}, ErrEmptySelection
	}
	return anchor.Unit, r, nil
}

// BlockSelection builds a primary document paragraph locator from a
// selection over the document's blocks.
func BlockSelection(blocks []TextUnit, anchor, focus SelectionPoint) (PrimaryDoc, error) {
	unit, r, err := SelectionRange(blocks, anchor, focus)
	if err != nil {
		return PrimaryDoc{}, err
	}
	return PrimaryDoc{BlockID: blocks[unit].ID, Start: Int(r.Start), End: Int(r.End)}, nil
}

// FieldSelection builds a primary document field locator from a selection
// within one field's text.
func FieldSelection(field TextUnit, start, end int) (PrimaryDoc, error) {
	_, r, err := SelectionRange([]TextUnit{field}, SelectionPoint{Offset: start}, SelectionPoint{Offset: end})
	if err != nil {
		return PrimaryDoc{}, err
	}
	return PrimaryDoc{FieldName: field.ID, FieldStart: Int(r.Start), FieldEnd: Int(r.End)}, nil
}

// ParagraphSelection builds a secondary document paragraph locator; the
// paragraph index is the unit's position.
func ParagraphSelection(paragraphs []TextUnit, anchor, focus SelectionPoint) (SecondaryDoc, error) {
	unit, r, err := SelectionRange(paragraphs, anchor, focus)
	if err != nil {
		return SecondaryDoc{}, err
	}
	return SecondaryDoc{ParaIdx: Int(unit), Start: Int(r.Start), End: Int(r.End)}, nil
}

// NameSelection builds a media locator from a selection within a display name.
func NameSelection(name string, start, end int) (Media, error) {
	_, r, err := SelectionRange([]TextUnit{{Text: name}}, SelectionPoint{Offset: start}, SelectionPoint{Offset: end})
	if err != nil {
		return Media{}, err
	}
	return Media{NameStart: Int(r.Start), NameEnd: Int(r.End)}, nil
}
