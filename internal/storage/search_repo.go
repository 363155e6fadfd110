package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"archive-lens/internal/contextutil"
	"archive-lens/internal/interval"
	"archive-lens/internal/locator"
	"archive-lens/internal/search"
)

const (
	// maxHighlights caps the ranges returned per hit.
	maxHighlights = 20

	// File type filter values that select non-attachment hits.
	typeMainDoc    = "docx_main"
	typeAnnotation = "annotation"
)

// SearchRepo runs keyword searches over blocks, fields, attachment names and
// annotations.
type SearchRepo struct {
	db *sql.DB
}

// NewSearchRepo creates a new SearchRepo.
func NewSearchRepo(db *sql.DB) *SearchRepo {
	return &SearchRepo{db: db}
}

// typeSet is the file type filter; nil allows everything.
type typeSet map[string]struct{}

func newTypeSet(types []string) typeSet {
	if types == nil {
		return nil
	}
	set := make(typeSet, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

func (s typeSet) allows(t string) bool {
	if s == nil {
		return true
	}
	_, ok := s[t]
	return ok
}

// attachmentTypes lists the filter values that name attachment file types.
func (s typeSet) attachmentTypes() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		if t != typeMainDoc {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

// matcher builds the SQL predicate that selects rows containing any needle.
type matcher struct {
	needles []string
}

func (m matcher) clause(column string) (string, []any) {
	parts := make([]string, len(m.needles))
	args := make([]any, len(m.needles))
	for i, n := range m.needles {
		parts[i] = "instr(" + column + ", ?) > 0"
		args[i] = n
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// Search returns one page of ranked hits. Hits are ordered paragraphs first,
// then structured fields, annotations and attachment names; fields are
// ordered by their document position and ties go to the hit with the most
// highlighted text.
func (r *SearchRepo) Search(ctx context.Context, req search.Request) (search.Page, error) {
	req = req.Bounded()
	page := search.Page{Items: search.Hits{}, Offset: req.Offset, Limit: req.Limit}

	query := strings.TrimSpace(req.Query)
	needles := interval.Needles(query)
	if len(needles) == 0 {
		return page, nil
	}
	m := matcher{needles: needles}
	types := newTypeSet(req.Filters.FileTypes)
	from, to := dateBounds(req.Filters)
	fetch := min(max((req.Offset+req.Limit+1)*4, 200), 5000)

	var (
		docx   []search.DocxBlock
		fields []search.MainDocField
		annos  []search.AnnotationHit
		atts   []search.AttachmentName
		err    error
	)
	if types.allows(typeMainDoc) {
		if docx, err = r.queryBlocks(ctx, m, from, to, fetch); err != nil {
			return page, err
		}
		if fields, err = r.queryFields(ctx, m, from, to, fetch); err != nil {
			return page, err
		}
		if fields, err = r.resolveContentFields(ctx, fields, docx, needles); err != nil {
			return page, err
		}
	}
	if types.allows(typeAnnotation) {
		if annos, err = r.queryAnnotations(ctx, m, from, to, fetch); err != nil {
			return page, err
		}
	}
	if types == nil || len(types.attachmentTypes()) > 0 {
		if atts, err = r.queryAttachments(ctx, m, types, from, to, fetch); err != nil {
			return page, err
		}
	}

	out := make([]search.Hit, 0, len(docx)+len(fields)+len(annos)+len(atts))
	for _, h := range docx {
		out = append(out, h)
	}
	for _, h := range fields {
		out = append(out, h)
	}
	for _, h := range annos {
		out = append(out, h)
	}
	for _, h := range atts {
		out = append(out, h)
	}
	rank(out)

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "search completed",
		"query", query, "total", len(out), "offset", req.Offset, "limit", req.Limit)

	page.HasMore = len(out) > req.Offset+req.Limit
	if req.Offset < len(out) {
		page.Items = append(page.Items, out[req.Offset:min(req.Offset+req.Limit, len(out))]...)
	}
	return page, nil
}

func kindRank(h search.Hit) int {
	switch h.Kind() {
	case search.KindDocxBlock:
		return 0
	case search.KindMainDocField:
		return 1
	case search.KindAnnotation:
		return 2
	default:
		return 3
	}
}

func fieldRank(name string) int {
	switch name {
	case "instruction_no":
		return 0
	case "title":
		return 1
	case "content":
		return 2
	case "issued_at":
		return 3
	default:
		return 9
	}
}

func coverage(h search.Hit) int {
	n := 0
	for _, r := range h.Ranges() {
		n += r.Len()
	}
	return n
}

func rank(hits []search.Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if ka, kb := kindRank(a), kindRank(b); ka != kb {
			return ka < kb
		}
		fa, aok := a.(search.MainDocField)
		fb, bok := b.(search.MainDocField)
		if aok && bok {
			if ra, rb := fieldRank(fa.FieldName), fieldRank(fb.FieldName); ra != rb {
				return ra < rb
			}
		}
		return coverage(a) > coverage(b)
	})
}

func (r *SearchRepo) queryBlocks(ctx context.Context, m matcher, from, to int64, limit int) ([]search.DocxBlock, error) {
	where, args := m.clause("b.text")
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.archive_id, b.block_id, b.text
		 FROM docx_blocks b JOIN archives a ON a.archive_id = b.archive_id
		 WHERE `+where+` AND a.zip_date BETWEEN ? AND ?
		 ORDER BY a.zip_date DESC, b.archive_id, b.seq
		 LIMIT ?`,
		append(args, from, to, limit)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search blocks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []search.DocxBlock
	for rows.Next() {
		var h search.DocxBlock
		if err := rows.Scan(&h.ArchiveID, &h.BlockID, &h.BlockText); err != nil {
			return nil, fmt.Errorf("failed to scan block hit: %w", err)
		}
		h.Highlights = interval.Find(h.BlockText, m.needles, maxHighlights)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating block hits: %w", err)
	}
	return out, nil
}

// fieldRows unpivots the structured fields of main_doc into one row each.
const fieldRows = `SELECT archive_id, 'instruction_no' AS field_name, instruction_no AS source_text FROM main_doc
	UNION ALL SELECT archive_id, 'title', title FROM main_doc
	UNION ALL SELECT archive_id, 'issued_at', issued_at FROM main_doc
	UNION ALL SELECT archive_id, 'content', content FROM main_doc`

func (r *SearchRepo) queryFields(ctx context.Context, m matcher, from, to int64, limit int) ([]search.MainDocField, error) {
	where, args := m.clause("f.source_text")
	rows, err := r.db.QueryContext(ctx,
		`SELECT f.archive_id, f.field_name, f.source_text
		 FROM (`+fieldRows+`) f JOIN archives a ON a.archive_id = f.archive_id
		 WHERE `+where+` AND a.zip_date BETWEEN ? AND ?
		 ORDER BY a.zip_date DESC, f.archive_id
		 LIMIT ?`,
		append(args, from, to, limit)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search fields: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []search.MainDocField
	for rows.Next() {
		var h search.MainDocField
		if err := rows.Scan(&h.ArchiveID, &h.FieldName, &h.SourceText); err != nil {
			return nil, fmt.Errorf("failed to scan field hit: %w", err)
		}
		h.Highlights = interval.Find(h.SourceText, m.needles, maxHighlights)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating field hits: %w", err)
	}
	return out, nil
}

// resolveContentFields drops content field hits already covered by a
// paragraph hit of the same archive and points the rest at the content
// paragraph that contains the most needle occurrences.
func (r *SearchRepo) resolveContentFields(ctx context.Context, fields []search.MainDocField, docx []search.DocxBlock, needles []string) ([]search.MainDocField, error) {
	hitBlocks := make(map[string]map[string]bool)
	for _, h := range docx {
		if hitBlocks[h.ArchiveID] == nil {
			hitBlocks[h.ArchiveID] = make(map[string]bool)
		}
		hitBlocks[h.ArchiveID][h.BlockID] = true
	}

	out := fields[:0]
	for _, f := range fields {
		if f.FieldName != "content" {
			out = append(out, f)
			continue
		}
		ids, err := r.contentBlockIDs(ctx, f.ArchiveID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			out = append(out, f)
			continue
		}
		covered := false
		for _, id := range ids {
			if hitBlocks[f.ArchiveID][id] {
				covered = true
				break
			}
		}
		if covered {
			continue
		}

		bestID, bestText, err := r.bestContentBlock(ctx, f.ArchiveID, ids, needles)
		if err != nil {
			return nil, err
		}
		if bestID != "" {
			f.BestBlockID = bestID
			f.BestBlockHighlights = interval.Find(bestText, needles, maxHighlights)
		} else {
			f.BestBlockID = ids[0]
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *SearchRepo) contentBlockIDs(ctx context.Context, archiveID string) ([]string, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		"SELECT field_block_map_json FROM main_doc WHERE archive_id = ?", archiveID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query field block map: %w", err)
	}
	return decodeFieldBlocks(raw)["content"], nil
}

// bestContentBlock scores each existing block by needle occurrences; the
// first block wins ties. It returns an empty id when none of the blocks exist.
func (r *SearchRepo) bestContentBlock(ctx context.Context, archiveID string, ids, needles []string) (string, string, error) {
	bestID, bestText, bestScore := "", "", -1
	for _, id := range ids {
		var text string
		err := r.db.QueryRowContext(ctx,
			"SELECT text FROM docx_blocks WHERE archive_id = ? AND block_id = ?", archiveID, id,
		).Scan(&text)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return "", "", fmt.Errorf("failed to query content block: %w", err)
		}
		score := 0
		for _, n := range needles {
			score += strings.Count(text, n)
		}
		if score > bestScore {
			bestID, bestText, bestScore = id, text, score
		}
	}
	return bestID, bestText, nil
}

func (r *SearchRepo) queryAttachments(ctx context.Context, m matcher, types typeSet, from, to int64, limit int) ([]search.AttachmentName, error) {
	where, args := m.clause("t.display_name")
	if types != nil {
		want := types.attachmentTypes()
		where += " AND t.file_type IN (" + strings.TrimSuffix(strings.Repeat("?,", len(want)), ",") + ")"
		for _, t := range want {
			args = append(args, t)
		}
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.archive_id, t.file_id, t.display_name
		 FROM attachments t JOIN archives a ON a.archive_id = t.archive_id
		 WHERE `+where+` AND a.zip_date BETWEEN ? AND ?
		 ORDER BY a.zip_date DESC, t.archive_id, t.source_depth, t.virtual_path
		 LIMIT ?`,
		append(args, from, to, limit)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search attachments: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []search.AttachmentName
	for rows.Next() {
		var h search.AttachmentName
		if err := rows.Scan(&h.ArchiveID, &h.FileID, &h.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan attachment hit: %w", err)
		}
		h.Highlights = interval.Find(h.DisplayName, m.needles, maxHighlights)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachment hits: %w", err)
	}
	return out, nil
}

func (r *SearchRepo) queryAnnotations(ctx context.Context, m matcher, from, to int64, limit int) ([]search.AnnotationHit, error) {
	where, args := m.clause("n.content")
	rows, err := r.db.QueryContext(ctx,
		`SELECT n.archive_id, n.annotation_id, n.target_kind, n.target_ref, n.locator_json, n.content
		 FROM annotations n JOIN archives a ON a.archive_id = n.archive_id
		 WHERE `+where+` AND a.zip_date BETWEEN ? AND ?
		 ORDER BY n.created_at DESC
		 LIMIT ?`,
		append(args, from, to, limit)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search annotations: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []search.AnnotationHit
	for rows.Next() {
		var (
			h         search.AnnotationHit
			kind, raw string
		)
		if err := rows.Scan(&h.ArchiveID, &h.AnnotationID, &kind, &h.TargetRef, &raw, &h.Content); err != nil {
			return nil, fmt.Errorf("failed to scan annotation hit: %w", err)
		}
		h.TargetKind = locator.TargetKind(kind)
		if json.Valid([]byte(raw)) {
			h.Locator = json.RawMessage(raw)
		}
		h.Highlights = interval.Find(h.Content, m.needles, maxHighlights)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating annotation hits: %w", err)
	}
	return out, nil
}
