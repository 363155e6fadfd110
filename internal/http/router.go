package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"archive-lens/internal/handlers"
	"archive-lens/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Archives    service.ArchiveService
	Annotations service.AnnotationService
	Search      service.SearchService
	Sheets      service.SheetService
	DB          handlers.Pinger
	LibraryRoot string
	IndexHTML   string // Embedded HTML content
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	archives := handlers.NewArchiveHandler(deps.Archives)
	annotations := handlers.NewAnnotationHandler(deps.Annotations)
	search := handlers.NewSearchHandler(deps.Search)
	sheets := handlers.NewSheetHandler(deps.Sheets)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.DB, deps.LibraryRoot))

		r.Get("/archives", archives.List)
		r.Route("/archives/{id}", func(r chi.Router) {
			r.Get("/", archives.Detail)
			r.Get("/blocks", archives.Blocks)
			r.Get("/annotations", annotations.List)
			r.Method(http.MethodGet, "/annotations/report", handlers.NewReportHandler(deps.Annotations))
		})

		r.Post("/annotations", annotations.Create)
		r.Delete("/annotations/{id}", annotations.Delete)

		r.Get("/search", search.Search)
		r.Post("/search/navigate", search.Navigate)

		r.Route("/files/{id}", func(r chi.Router) {
			r.Get("/preview", archives.Preview)
			r.Get("/path", archives.PreviewPath)
			r.Get("/sheets", sheets.Workbook)
			r.Get("/window", sheets.Window)
		})
	})

	// Serve HTML page at root
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(deps.IndexHTML))
	})

	return r
}
