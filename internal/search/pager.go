package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Pager accumulates pages of one query. Reset starts a new query; a page
// that resolves after a reset belongs to the old query and is dropped.
type Pager struct {
	src   Searcher
	limit int

	fetchMu sync.Mutex

	mu      sync.Mutex
	query   string
	filters Filters
	offset  int
	hits    []Hit
	hasMore bool
	gen     uint64
}

// NewPager creates a pager requesting limit hits per page.
func NewPager(src Searcher, limit int) *Pager {
	return &Pager{src: src, limit: Request{Limit: limit}.Bounded().Limit}
}

// Reset clears accumulated hits and the offset for a new query.
func (p *Pager) Reset(query string, filters Filters) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.query = strings.TrimSpace(query)
	p.filters = filters
	p.offset = 0
	p.hits = nil
	p.hasMore = p.query != ""
}

// More requests the next page and appends it. It returns the number of hits
// appended, which is zero when there is nothing more or the page was stale.
func (p *Pager) More(ctx context.Context) (int, error) {
	p.fetchMu.Lock()
	defer p.fetchMu.Unlock()

	p.mu.Lock()
	if !p.hasMore {
		p.mu.Unlock()
		return 0, nil
	}
	gen := p.gen
	req := Request{Query: p.query, Filters: p.filters, Limit: p.limit, Offset: p.offset}
	p.mu.Unlock()

	page, err := p.src.SearchPaged(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		slog.Debug("dropping stale search page", "query", req.Query, "offset", req.Offset)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to fetch search page at offset %d: %w", req.Offset, err)
	}
	p.hits = append(p.hits, page.Items...)
	p.offset = req.Offset + len(page.Items)
	p.hasMore = page.HasMore && len(page.Items) > 0 && p.offset < MaxOffset
	return len(page.Items), nil
}

// Hits returns a copy of the accumulated hits.
func (p *Pager) Hits() []Hit {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Hit, len(p.hits))
	copy(out, p.hits)
	return out
}

// HasMore reports whether another page can be requested.
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Query returns the active query.
func (p *Pager) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}
