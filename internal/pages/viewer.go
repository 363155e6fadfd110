// Package pages renders paginated documents lazily: a page is drawn the
// first time it comes near the viewport and never again.
package pages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
)

// ErrLibraryUnavailable is returned when no page rendering library is
// available. It is not retried.
var ErrLibraryUnavailable = errors.New("page rendering library not loaded")

// ErrPageOutOfRange is returned for a page number outside [1, NumPages].
var ErrPageOutOfRange = errors.New("page out of range")

// Viewport is the pixel size of a page at a scale factor.
type Viewport struct {
	Width  float64
	Height float64
	Scale  float64
}

// Surface is the drawable a page is rendered into.
type Surface interface {
	SetSize(width, height int)
}

// Page is one page handle of a loaded document.
type Page interface {
	Viewport(scale float64) Viewport
	Render(ctx context.Context, surface Surface, vp Viewport) error
}

// Document is a loaded paginated document. Pages are numbered from 1.
type Document interface {
	NumPages() int
	Page(ctx context.Context, n int) (Page, error)
}

// Loader turns document bytes into a Document.
type Loader interface {
	Load(ctx context.Context, data []byte) (Document, error)
}

// Scroller brings a page container into view.
type Scroller interface {
	ScrollIntoView(page int)
}

// SurfaceProvider returns the surface of page n's container.
type SurfaceProvider interface {
	Surface(n int) Surface
}

// Viewer renders the pages of one document. Each viewer owns its document
// handle and render state; viewers never share them.
type Viewer struct {
	doc      Document
	scale    float64
	surfaces SurfaceProvider
	scroller Scroller
	logger   *slog.Logger

	mu       sync.Mutex
	rendered map[int]bool
}

// Open loads data with loader and returns a viewer for it.
func Open(ctx context.Context, loader Loader, data []byte, scale float64, surfaces SurfaceProvider, scroller Scroller) (*Viewer, error) {
	if loader == nil {
		return nil, ErrLibraryUnavailable
	}
	doc, err := loader.Load(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return NewViewer(doc, scale, surfaces, scroller), nil
}

// NewViewer creates a viewer over an already loaded document.
func NewViewer(doc Document, scale float64, surfaces SurfaceProvider, scroller Scroller) *Viewer {
	if scale <= 0 {
		scale = 1
	}
	return &Viewer{
		doc:      doc,
		scale:    scale,
		surfaces: surfaces,
		scroller: scroller,
		logger:   slog.Default(),
		rendered: make(map[int]bool),
	}
}

// NumPages returns the page count of the document.
func (v *Viewer) NumPages() int {
	return v.doc.NumPages()
}

func (v *Viewer) checkPage(n int) error {
	if n < 1 || n > v.doc.NumPages() {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, n, v.doc.NumPages())
	}
	return nil
}

// Observe is called by the intersection watcher for page n. The first time
// the page is visible it is rendered; later calls do nothing. A failed
// render is forgotten so the next intersection retries it. It reports
// whether this call rendered the page.
func (v *Viewer) Observe(ctx context.Context, n int, visible bool) (bool, error) {
	if !visible {
		return false, nil
	}
	if err := v.checkPage(n); err != nil {
		return false, err
	}

	v.mu.Lock()
	if v.rendered[n] {
		v.mu.Unlock()
		return false, nil
	}
	v.rendered[n] = true
	v.mu.Unlock()

	if err := v.render(ctx, n); err != nil {
		v.mu.Lock()
		delete(v.rendered, n)
		v.mu.Unlock()
		v.logger.WarnContext(ctx, "page render failed", "page", n, "error", err)
		return false, err
	}
	return true, nil
}

func (v *Viewer) render(ctx context.Context, n int) error {
	page, err := v.doc.Page(ctx, n)
	if err != nil {
		return fmt.Errorf("failed to get page %d: %w", n, err)
	}
	vp := page.Viewport(v.scale)
	surface := v.surfaces.Surface(n)
	surface.SetSize(int(math.Ceil(vp.Width)), int(math.Ceil(vp.Height)))
	if err := page.Render(ctx, surface, vp); err != nil {
		return fmt.Errorf("failed to render page %d: %w", n, err)
	}
	return nil
}

// Rendered reports whether page n has been rendered or is rendering.
func (v *Viewer) Rendered(n int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rendered[n]
}

// ScrollTo brings page n into view. It does not render; rendering follows
// from the intersection that the scroll causes.
func (v *Viewer) ScrollTo(n int) error {
	if err := v.checkPage(n); err != nil {
		return err
	}
	if v.scroller != nil {
		v.scroller.ScrollIntoView(n)
	}
	return nil
}

// ObserveViewport reports every page of layout to Observe with its
// visibility under cfg, and returns the pages rendered by this pass.
func (v *Viewer) ObserveViewport(ctx context.Context, cfg WatchConfig, layout []Box, viewportTop, viewportHeight float64) ([]int, error) {
	var (
		rendered []int
		errs     []error
	)
	for i, box := range layout {
		visible := cfg.Intersects(box.Top, box.Bottom, viewportTop, viewportHeight)
		ok, err := v.Observe(ctx, i+1, visible)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			rendered = append(rendered, i+1)
		}
	}
	return rendered, errors.Join(errs...)
}
