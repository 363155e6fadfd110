package locator

import (
	"fmt"
	"strconv"
)

// FieldLabels maps structured field names of the main document to display labels.
var FieldLabels = map[string]string{
	"instruction_no": "指令编号",
	"title":          "标题",
	"content":        "正文",
	"issued_at":      "下发时间",
}

// FieldLabel returns the display label of a field, or the raw name if unknown.
func FieldLabel(name string) string {
	if label, ok := FieldLabels[name]; ok {
		return label
	}
	return name
}

// ColumnName converts a 0-based column index to spreadsheet letters (0 → A, 26 → AA).
func ColumnName(col int) string {
	if col < 0 {
		return "?"
	}
	name := ""
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		name = string(rune('A'+(n-1)%26)) + name
	}
	return name
}

// CellName returns the A1-style name of a 0-based cell.
func CellName(row, col int) string {
	return ColumnName(col) + strconv.Itoa(row+1)
}

func charSpan(start, end *int) string {
	return fmt.Sprintf("第%d-%d字", *start+1, *end)
}

// Classify describes the target of a locator for hints and list labels.
// It never fails: missing detail falls back to the coarsest level.
func Classify(loc Locator) string {
	switch l := loc.(type) {
	case PrimaryDoc:
		return classifyPrimary(l)
	case *PrimaryDoc:
		if l != nil {
			return classifyPrimary(*l)
		}
	case SecondaryDoc:
		return classifySecondary(l)
	case *SecondaryDoc:
		if l != nil {
			return classifySecondary(*l)
		}
	case PDF:
		return classifyPDF(l)
	case *PDF:
		if l != nil {
			return classifyPDF(*l)
		}
	case Spreadsheet:
		return classifySheet(l)
	case *Spreadsheet:
		if l != nil {
			return classifySheet(*l)
		}
	case Media:
		return classifyMedia(l)
	case *Media:
		if l != nil {
			return classifyMedia(*l)
		}
	}
	return "未知位置"
}

func classifyPrimary(l PrimaryDoc) string {
	switch {
	case l.BlockID != "" && l.Start != nil && l.End != nil:
		return fmt.Sprintf("主文档 段落%s %s", l.BlockID, charSpan(l.Start, l.End))
	case l.BlockID != "":
		return fmt.Sprintf("主文档 段落%s", l.BlockID)
	case l.FieldName != "" && l.FieldStart != nil && l.FieldEnd != nil:
		return fmt.Sprintf("主文档 字段「%s」%s", FieldLabel(l.FieldName), charSpan(l.FieldStart, l.FieldEnd))
	case l.FieldName != "":
		return fmt.Sprintf("主文档 字段「%s」", FieldLabel(l.FieldName))
	default:
		return "主文档（整篇）"
	}
}

func classifySecondary(l SecondaryDoc) string {
	switch {
	case l.Page != nil:
		return fmt.Sprintf("附件文档 第%d页", *l.Page+1)
	case l.ParaIdx != nil && l.Start != nil && l.End != nil:
		return fmt.Sprintf("附件文档 第%d段 %s", *l.ParaIdx+1, charSpan(l.Start, l.End))
	case l.ParaIdx != nil:
		return fmt.Sprintf("附件文档 第%d段", *l.ParaIdx+1)
	case l.ImageIndex != nil:
		return fmt.Sprintf("附件文档 图片%d", *l.ImageIndex+1)
	default:
		return "附件文档（整个文件）"
	}
}

func classifyPDF(l PDF) string {
	if l.Page != nil {
		return fmt.Sprintf("PDF 第%d页", *l.Page)
	}
	return "PDF（整个文件）"
}

func classifySheet(l Spreadsheet) string {
	switch {
	case l.Row != nil && l.Col != nil:
		return fmt.Sprintf("表格「%s」单元格 %s", l.SheetName, CellName(*l.Row, *l.Col))
	case l.Row != nil:
		return fmt.Sprintf("表格「%s」第%d行", l.SheetName, *l.Row+1)
	default:
		return "表格（整个文件）"
	}
}

func classifyMedia(l Media) string {
	if l.NameStart != nil && l.NameEnd != nil {
		return "文件名 " + charSpan(l.NameStart, l.NameEnd)
	}
	return "文件（整个文件）"
}
