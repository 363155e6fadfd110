package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_annotation_service.go -package=mocks -mock_names=AnnotationService=MockAnnotationService archive-lens/internal/service AnnotationService

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"archive-lens/internal/backend"
	"archive-lens/internal/contextutil"
	"archive-lens/internal/locator"
)

// NewAnnotationRequest validates a draft and builds the request sent to the
// backend. For the primary document the target defaults to the archive.
func NewAnnotationRequest(archiveID, content string, loc locator.Locator, target locator.Target) (backend.CreateAnnotationRequest, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return backend.CreateAnnotationRequest{}, &ValidationError{Field: "content", Message: "批注内容不能为空"}
	}
	if loc == nil {
		return backend.CreateAnnotationRequest{}, &ValidationError{Field: "locator", Message: "请先选择批注位置"}
	}
	if err := locator.Validate(loc); err != nil {
		return backend.CreateAnnotationRequest{}, &ValidationError{Field: "locator", Message: err.Error()}
	}
	if target.Kind != "" && target.Kind != loc.Kind() {
		return backend.CreateAnnotationRequest{}, &ValidationError{Field: "target_kind", Message: "批注位置与目标类型不一致"}
	}
	ref := target.Ref
	if ref == "" && loc.Kind() == locator.KindPrimaryDoc {
		ref = archiveID
	}
	if ref == "" {
		return backend.CreateAnnotationRequest{}, &ValidationError{Field: "target_ref", Message: "缺少批注目标"}
	}
	return backend.CreateAnnotationRequest{
		ArchiveID:  archiveID,
		TargetKind: loc.Kind(),
		TargetRef:  ref,
		Locator:    loc,
		Content:    content,
	}, nil
}

// AnnotationService lists, creates and deletes annotations.
type AnnotationService interface {
	// List returns the annotations of an archive, newest first.
	List(ctx context.Context, archiveID string) ([]locator.Annotation, error)
	// Create validates and stores an annotation, then returns the archive's
	// fresh list.
	Create(ctx context.Context, archiveID, content string, loc locator.Locator, target locator.Target) ([]locator.Annotation, error)
	// Delete removes an annotation.
	Delete(ctx context.Context, annotationID string) error
	// Report renders the annotations of an archive as markdown, grouped by
	// the document they target.
	Report(ctx context.Context, archiveID string) (string, error)
}

// annotationService implements AnnotationService.
type annotationService struct {
	backend backend.Backend
	logger  *slog.Logger
}

// NewAnnotationService creates a new AnnotationService.
func NewAnnotationService(b backend.Backend) AnnotationService {
	return &annotationService{
		backend: b,
		logger:  slog.Default(),
	}
}

// List returns the annotations of an archive.
func (s *annotationService) List(ctx context.Context, archiveID string) ([]locator.Annotation, error) {
	if strings.TrimSpace(archiveID) == "" {
		return nil, &ValidationError{Field: "archive_id", Message: "cannot be empty"}
	}
	list, err := s.backend.ListAnnotations(ctx, archiveID)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list annotations", "archive_id", archiveID, "error", err)
		return nil, fromBackend(err, "failed to list annotations")
	}
	return list, nil
}

// Create validates the draft before any backend call.
func (s *annotationService) Create(ctx context.Context, archiveID, content string, loc locator.Locator, target locator.Target) ([]locator.Annotation, error) {
	logger := contextutil.LoggerFromContext(ctx)

	req, err := NewAnnotationRequest(archiveID, content, loc, target)
	if err != nil {
		logger.WarnContext(ctx, "rejected annotation draft", "archive_id", archiveID, "error", err)
		return nil, err
	}
	if err := s.backend.CreateAnnotation(ctx, req); err != nil {
		logger.ErrorContext(ctx, "failed to create annotation", "archive_id", archiveID, "error", err)
		return nil, fromBackend(err, "failed to create annotation")
	}

	logger.InfoContext(ctx, "annotation created", "archive_id", archiveID, "target_kind", req.TargetKind)
	return s.List(ctx, archiveID)
}

// Delete removes an annotation.
func (s *annotationService) Delete(ctx context.Context, annotationID string) error {
	if strings.TrimSpace(annotationID) == "" {
		return &ValidationError{Field: "annotation_id", Message: "cannot be empty"}
	}
	if err := s.backend.DeleteAnnotation(ctx, annotationID); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to delete annotation", "annotation_id", annotationID, "error", err)
		return fromBackend(err, "failed to delete annotation")
	}
	return nil
}

// Report renders the archive's annotations. Sections follow the primary
// document and then the attachments in detail order; within a section the
// newest annotation comes first.
func (s *annotationService) Report(ctx context.Context, archiveID string) (string, error) {
	detail, err := s.backend.GetArchiveDetail(ctx, archiveID)
	if err != nil {
		return "", fromBackend(err, "failed to load archive")
	}

	names := map[string]string{archiveID: "正文"}
	order := map[string]int{archiveID: 0}
	for i, a := range detail.Attachments {
		names[a.FileID] = a.DisplayName
		order[a.FileID] = i + 1
	}

	sections := make(map[string][]locator.Annotation)
	var refs []string
	for _, a := range detail.Annotations {
		if _, ok := sections[a.TargetRef]; !ok {
			refs = append(refs, a.TargetRef)
		}
		sections[a.TargetRef] = append(sections[a.TargetRef], a)
	}
	sort.SliceStable(refs, func(i, j int) bool {
		oi, iok := order[refs[i]]
		oj, jok := order[refs[j]]
		if iok != jok {
			return iok
		}
		return oi < oj
	})

	title := detail.Archive.OriginalName
	if detail.MainDoc != nil && detail.MainDoc.Title != "" {
		title = detail.MainDoc.Title
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(title))
	if len(refs) == 0 {
		b.WriteString("暂无批注。\n")
		return b.String(), nil
	}
	for _, ref := range refs {
		name := names[ref]
		if name == "" {
			name = ref
		}
		fmt.Fprintf(&b, "## %s\n\n", escapeMarkdown(name))
		for _, a := range sections[ref] {
			fmt.Fprintf(&b, "- **%s** %s  \n  %s\n",
				escapeMarkdown(a.Label()),
				a.CreatedAt.In(time.Local).Format("2006-01-02 15:04"),
				escapeMarkdown(strings.ReplaceAll(a.Content, "\n", " ")))
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`, "[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
