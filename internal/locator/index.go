package locator

import "strconv"

// KeyFunc extracts the grouping key of a locator. ok is false when the
// locator does not carry the granularity the key is built from.
type KeyFunc func(loc Locator) (key string, ok bool)

// IndexByKey groups annotation ids of the given kind by keyFn, preserving
// the order of annotations within each key. It is used to build
// "N annotations here" overlays.
func IndexByKey(annotations []Annotation, kind TargetKind, keyFn KeyFunc) map[string][]string {
	index := make(map[string][]string)
	for _, a := range annotations {
		if a.TargetKind != kind || a.Locator == nil {
			continue
		}
		key, ok := keyFn(a.Locator)
		if !ok {
			continue
		}
		index[key] = append(index[key], a.ID)
	}
	return index
}

// BlockKey keys primary document annotations by block id.
func BlockKey(loc Locator) (string, bool) {
	l, ok := loc.(PrimaryDoc)
	if !ok || l.BlockID == "" {
		return "", false
	}
	return l.BlockID, true
}

// FieldKey keys primary document annotations by field name.
func FieldKey(loc Locator) (string, bool) {
	l, ok := loc.(PrimaryDoc)
	if !ok || l.FieldName == "" {
		return "", false
	}
	return l.FieldName, true
}

// PageKey keys PDF and secondary document annotations by page number.
func PageKey(loc Locator) (string, bool) {
	switch l := loc.(type) {
	case PDF:
		if l.Page != nil {
			return strconv.Itoa(*l.Page), true
		}
	case SecondaryDoc:
		if l.Page != nil {
			return strconv.Itoa(*l.Page), true
		}
	}
	return "", false
}

// ParaOrImageKey keys secondary document annotations by paragraph ("p:N")
// or image ("i:N").
func ParaOrImageKey(loc Locator) (string, bool) {
	l, ok := loc.(SecondaryDoc)
	if !ok {
		return "", false
	}
	switch {
	case l.ParaIdx != nil:
		return "p:" + strconv.Itoa(*l.ParaIdx), true
	case l.ImageIndex != nil:
		return "i:" + strconv.Itoa(*l.ImageIndex), true
	}
	return "", false
}

// RowKey returns the key of a whole-row marker.
func RowKey(row int) string {
	return strconv.Itoa(row)
}

// CellKey returns the key of a single-cell marker.
func CellKey(row, col int) string {
	return strconv.Itoa(row) + "," + strconv.Itoa(col)
}

// SheetKey keys spreadsheet annotations of one sheet as "row" or "row,col".
func SheetKey(sheet string) KeyFunc {
	return func(loc Locator) (string, bool) {
		l, ok := loc.(Spreadsheet)
		if !ok || l.Row == nil || l.SheetName != sheet {
			return "", false
		}
		if l.Col != nil {
			return CellKey(*l.Row, *l.Col), true
		}
		return RowKey(*l.Row), true
	}
}

// Target identifies the object currently open in the detail view.
type Target struct {
	Kind TargetKind
	// Ref is the target_ref of the open document (archive id for the
	// primary document, file id for attachments).
	Ref string
	// BlockID and FieldName narrow a primary document target to one block
	// or field when the view has focus on it.
	BlockID   string
	FieldName string
}

// FilterByTarget returns the annotations that belong to the open target at
// the coarsest compatible granularity: a focused primary document block or
// field shows only its annotations, an unfocused primary document shows all
// of them, and an attachment shows everything with its target_ref.
func FilterByTarget(annotations []Annotation, target Target) []Annotation {
	out := make([]Annotation, 0, len(annotations))
	for _, a := range annotations {
		if a.TargetKind != target.Kind {
			continue
		}
		if target.Ref != "" && a.TargetRef != target.Ref {
			continue
		}
		if target.Kind == KindPrimaryDoc && !matchesPrimaryFocus(a.Locator, target) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func matchesPrimaryFocus(loc Locator, target Target) bool {
	if target.BlockID == "" && target.FieldName == "" {
		return true
	}
	l, ok := loc.(PrimaryDoc)
	if !ok {
		return false
	}
	if target.BlockID != "" {
		return l.BlockID == target.BlockID
	}
	return l.FieldName == target.FieldName
}
