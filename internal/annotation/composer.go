// Package annotation holds the client-side state of annotating one archive:
// the draft being written and the last list fetched from the backend.
package annotation

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"archive-lens/internal/backend"
	"archive-lens/internal/locator"
	"archive-lens/internal/service"
)

// Store is the part of the document backend the composer needs.
type Store interface {
	ListAnnotations(ctx context.Context, archiveID string) ([]locator.Annotation, error)
	CreateAnnotation(ctx context.Context, req backend.CreateAnnotationRequest) error
	DeleteAnnotation(ctx context.Context, annotationID string) error
}

// Composer drafts, submits and lists the annotations of one archive. The
// list is only ever replaced by a fresh fetch; it is never patched locally.
type Composer struct {
	store  Store
	logger *slog.Logger

	mu          sync.Mutex
	archiveID   string
	gen         uint64
	text        string
	draft       locator.Locator
	target      locator.Target
	annotations []locator.Annotation
	errMsg      string
	gone        bool
}

// NewComposer creates a composer for archiveID.
func NewComposer(store Store, archiveID string) *Composer {
	return &Composer{
		store:     store,
		logger:    slog.Default(),
		archiveID: archiveID,
	}
}

// Open switches to another archive. The draft and list are cleared and
// requests still in flight for the previous archive are ignored.
func (c *Composer) Open(archiveID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.archiveID = archiveID
	c.text = ""
	c.draft = nil
	c.target = locator.Target{}
	c.annotations = nil
	c.errMsg = ""
	c.gone = false
}

// SetDraft records the locator the next annotation will be attached to.
func (c *Composer) SetDraft(loc locator.Locator, target locator.Target) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = loc
	c.target = target
}

// ClearDraft forgets the draft locator but keeps the text.
func (c *Composer) ClearDraft() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = nil
	c.target = locator.Target{}
}

// SetText replaces the draft content.
func (c *Composer) SetText(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = s
}

// Text returns the draft content.
func (c *Composer) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Draft returns the draft locator and its target, or nil.
func (c *Composer) Draft() (locator.Locator, locator.Target) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft, c.target
}

// Hint describes where the drafted annotation will be attached.
func (c *Composer) Hint() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return ""
	}
	return locator.Classify(c.draft)
}

// Err returns the message of the last failed operation.
func (c *Composer) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Gone reports whether the backend said the archive no longer exists.
func (c *Composer) Gone() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gone
}

// Annotations returns the last fetched list.
func (c *Composer) Annotations() []locator.Annotation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]locator.Annotation, len(c.annotations))
	copy(out, c.annotations)
	return out
}

// Visible returns the annotations shown when target is the open object.
func (c *Composer) Visible(target locator.Target) []locator.Annotation {
	return locator.FilterByTarget(c.Annotations(), target)
}

// Markers indexes the current list for badge overlays.
func (c *Composer) Markers(kind locator.TargetKind, keyFn locator.KeyFunc) map[string][]string {
	return locator.IndexByKey(c.Annotations(), kind, keyFn)
}

func (c *Composer) validateDraft() (backend.CreateAnnotationRequest, error) {
	return service.NewAnnotationRequest(c.archiveID, c.text, c.draft, c.target)
}

// draftErrorMessage is the text shown for a rejected draft.
func draftErrorMessage(err error) string {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	return backend.Message(err)
}

// Submit creates an annotation from the draft. An invalid draft is rejected
// without calling the backend. On backend failure the draft is kept for a
// retry; on success it is cleared and the list is fetched again.
func (c *Composer) Submit(ctx context.Context) error {
	c.mu.Lock()
	req, err := c.validateDraft()
	if err != nil {
		c.errMsg = draftErrorMessage(err)
		c.mu.Unlock()
		return err
	}
	gen := c.gen
	c.mu.Unlock()

	if err := c.store.CreateAnnotation(ctx, req); err != nil {
		c.logger.ErrorContext(ctx, "failed to create annotation", "archive_id", req.ArchiveID, "error", err)
		c.fail(gen, err)
		return service.WrapError(err, "failed to create annotation")
	}

	c.mu.Lock()
	if gen == c.gen {
		c.text = ""
		c.draft = nil
		c.target = locator.Target{}
		c.errMsg = ""
	}
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "annotation created", "archive_id", req.ArchiveID, "target_kind", req.TargetKind)
	return c.Refresh(ctx)
}

// Delete removes an annotation and fetches the list again.
func (c *Composer) Delete(ctx context.Context, annotationID string) error {
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	if err := c.store.DeleteAnnotation(ctx, annotationID); err != nil {
		c.logger.ErrorContext(ctx, "failed to delete annotation", "annotation_id", annotationID, "error", err)
		c.fail(gen, err)
		return service.WrapError(err, "failed to delete annotation")
	}
	return c.Refresh(ctx)
}

// Refresh replaces the list with the backend's. A response that arrives
// after the composer switched archives is dropped.
func (c *Composer) Refresh(ctx context.Context) error {
	c.mu.Lock()
	gen, archiveID := c.gen, c.archiveID
	c.mu.Unlock()

	list, err := c.store.ListAnnotations(ctx, archiveID)
	if err != nil {
		c.fail(gen, err)
		return service.WrapError(err, "failed to list annotations")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.logger.DebugContext(ctx, "dropping annotations of superseded archive", "archive_id", archiveID)
		return nil
	}
	c.annotations = list
	return nil
}

func (c *Composer) fail(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.errMsg = backend.Message(err)
	if backend.IsArchiveGone(err) {
		c.gone = true
	}
}
