package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_search_service.go -package=mocks -mock_names=SearchService=MockSearchService archive-lens/internal/service SearchService

import (
	"context"
	"log/slog"
	"strings"

	"archive-lens/internal/backend"
	"archive-lens/internal/contextutil"
	"archive-lens/internal/search"
)

// SearchQuery is one page request of the search view.
type SearchQuery struct {
	Query   string
	Filters backend.Filters
	Offset  int
	Limit   int
}

// SearchResult aggregates every hit from the first one up to the end of the
// requested page. It replaces, rather than extends, earlier results of the
// same query; NextOffset is the offset of the following page.
type SearchResult struct {
	Query      string                   `json:"query"`
	Groups     []search.ContainerResult `json:"groups"`
	Offset     int                      `json:"offset"`
	Limit      int                      `json:"limit"`
	NextOffset int                      `json:"next_offset"`
	HasMore    bool                     `json:"has_more"`
}

// SearchService runs searches and resolves clicked hits.
type SearchService interface {
	// Search fetches raw hits through the requested page and aggregates them by archive.
	Search(ctx context.Context, q SearchQuery) (SearchResult, error)
	// Navigate returns the target a hit opens in the detail view.
	Navigate(ctx context.Context, hit search.Hit) (search.Navigation, error)
}

type searchService struct {
	backend      backend.Backend
	defaultLimit int
	logger       *slog.Logger
}

// NewSearchService creates a new SearchService. defaultLimit is used for
// queries that do not set a page size.
func NewSearchService(b backend.Backend, defaultLimit int) SearchService {
	return &searchService{
		backend:      b,
		defaultLimit: defaultLimit,
		logger:       slog.Default(),
	}
}

func (s *searchService) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validateFilters(q.Filters); err != nil {
		return SearchResult{}, err
	}
	limit := q.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	req := search.Request{
		Query:   strings.TrimSpace(q.Query),
		Filters: q.Filters,
		Limit:   limit,
		Offset:  q.Offset,
	}.Bounded()

	result := SearchResult{Query: req.Query, Offset: req.Offset, Limit: req.Limit, Groups: []search.ContainerResult{}}
	if req.Query == "" {
		result.NextOffset = req.Offset
		return result, nil
	}

	// Groups cover every hit up to the requested page so an archive spread
	// over several pages stays one group with field suppression and dedup
	// applied across all of them.
	pager := search.NewPager(s.backend, req.Limit)
	pager.Reset(req.Query, req.Filters)
	for pages := req.Offset/req.Limit + 1; pages > 0 && pager.HasMore(); pages-- {
		if _, err := pager.More(ctx); err != nil {
			logger.ErrorContext(ctx, "search failed", "query", req.Query, "error", err)
			return SearchResult{}, fromBackend(err, "search failed")
		}
	}

	hits := pager.Hits()
	result.Groups = search.Aggregate(hits)
	result.HasMore = pager.HasMore()
	result.NextOffset = len(hits)
	if len(result.Groups) > 0 {
		s.applyTitles(ctx, result.Groups)
	}

	logger.DebugContext(ctx, "search aggregated", "query", req.Query, "hits", len(hits), "groups", len(result.Groups))
	return result, nil
}

// applyTitles shows archive names instead of ids. A failed lookup only
// costs the titles.
func (s *searchService) applyTitles(ctx context.Context, groups []search.ContainerResult) {
	archives, err := s.backend.ListArchives(ctx, backend.Filters{})
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to load archive titles", "error", err)
		return
	}
	titles := make(map[string]string, len(archives))
	for _, a := range archives {
		titles[a.ArchiveID] = a.OriginalName
	}
	search.ApplyTitles(groups, titles)
}

func (s *searchService) Navigate(ctx context.Context, hit search.Hit) (search.Navigation, error) {
	if hit == nil {
		return search.Navigation{}, &ValidationError{Field: "hit", Message: "cannot be empty"}
	}
	nav, err := search.Resolve(hit)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to resolve hit", "kind", hit.Kind(), "error", err)
		return search.Navigation{}, WrapError(ErrInvalidInput, err.Error())
	}
	return nav, nil
}
