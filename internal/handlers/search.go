package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"archive-lens/internal/contextutil"
	"archive-lens/internal/search"
	"archive-lens/internal/service"
)

// maxHitBody bounds the body of a navigate request.
const maxHitBody = 1 << 20

// SearchHandler serves aggregated search results and resolves clicked hits.
type SearchHandler struct {
	search service.SearchService
	logger *slog.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(search service.SearchService) *SearchHandler {
	return &SearchHandler{
		search: search,
		logger: slog.Default(),
	}
}

// Search handles GET /api/search?q=...&offset=&limit=&date_from=&date_to=&file_types=.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filters, err := parseFilters(q)
	if err != nil {
		handleServiceError(w, ctx, err, "Search failed")
		return
	}
	offset, err := parseInt(q, "offset", 0)
	if err != nil {
		handleServiceError(w, ctx, err, "Search failed")
		return
	}
	limit, err := parseInt(q, "limit", 0)
	if err != nil {
		handleServiceError(w, ctx, err, "Search failed")
		return
	}

	result, err := h.search.Search(ctx, service.SearchQuery{
		Query:   q.Get("q"),
		Filters: filters,
		Offset:  offset,
		Limit:   limit,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Search failed")
		return
	}
	writeJSON(ctx, w, http.StatusOK, result)
}

// Navigate handles POST /api/search/navigate. The body is a hit exactly as
// returned by Search.
func (h *SearchHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxHitBody))
	if err != nil {
		logger.WarnContext(ctx, "failed to read request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	hit, err := search.DecodeHit(body)
	if err != nil {
		logger.WarnContext(ctx, "invalid hit", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	nav, err := h.search.Navigate(ctx, hit)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to resolve hit")
		return
	}
	writeJSON(ctx, w, http.StatusOK, nav)
}
