package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghhtml "github.com/yuin/goldmark/renderer/html"

	"archive-lens/internal/contextutil"
	"archive-lens/internal/service"
)

// ReportHandler serves an archive's annotations as a rendered HTML page, or
// as markdown when asked for text/markdown.
type ReportHandler struct {
	annotations service.AnnotationService
	parser      goldmark.Markdown
	template    *template.Template
	now         func() time.Time
	logger      *slog.Logger
}

// reportPageData holds template data for rendered report pages.
type reportPageData struct {
	ArchiveID string
	Generated string
	Content   template.HTML
}

// NewReportHandler creates a new handler for annotation reports.
func NewReportHandler(annotations service.AnnotationService) *ReportHandler {
	tmpl := template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>批注汇总 · {{.ArchiveID}}</title>
  <style>
    :root {
      color-scheme: dark;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 900px;
      line-height: 1.7;
      background: #050b18;
      color: #e4ecff;
    }
    header {
      margin-bottom: 2rem;
      border-bottom: 1px solid rgba(148, 163, 184, 0.2);
      padding-bottom: 1.5rem;
    }
    h1 {
      margin-top: 0;
      color: #fff;
      font-size: 2rem;
    }
    article {
      background: rgba(12, 19, 35, 0.85);
      border: 1px solid rgba(99, 102, 241, 0.2);
      border-radius: 16px;
      padding: 2rem;
      box-shadow: 0 15px 35px rgba(2, 6, 23, 0.8);
    }
    article h2, article h3, article h4 {
      color: #c7d2fe;
      margin-top: 1.5rem;
    }
    article p {
      color: #cbd5f5;
    }
    pre {
      background: #0f172a;
      padding: 1rem;
      overflow-x: auto;
      border-radius: 10px;
      border: 1px solid rgba(99, 102, 241, 0.2);
    }
    code {
      font-family: 'SFMono-Regular', Consolas, 'Liberation Mono', Menlo, monospace;
      background: rgba(99, 102, 241, 0.18);
      padding: 2px 5px;
      border-radius: 6px;
      color: #cbd5ff;
    }
    pre code {
      background: transparent;
      padding: 0;
    }
    blockquote {
      border-left: 4px solid rgba(96, 165, 250, 0.6);
      padding-left: 1rem;
      margin-left: 0;
      color: #93c5fd;
      background: rgba(59, 130, 246, 0.08);
      border-radius: 6px;
    }
    a {
      color: #60a5fa;
      text-decoration: none;
    }
    a:hover {
      text-decoration: underline;
    }
    .meta {
      color: #94a3b8;
      font-size: 0.95rem;
      margin-top: 0.5rem;
    }
    @media (max-width: 640px) {
      body {
        padding: 1rem;
      }
      article {
        padding: 1.25rem;
      }
    }
  </style>
</head>
<body>
  <header>
    <h1>批注汇总</h1>
    <p class="meta">档案 {{.ArchiveID}} &middot; 生成于 {{.Generated}}</p>
  </header>
  <article>{{.Content}}</article>
</body>
</html>`))

	return &ReportHandler{
		annotations: annotations,
		parser: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Table,
				extension.TaskList,
				extension.Strikethrough,
				extension.Linkify,
				extension.Typographer,
			),
			goldmark.WithRendererOptions(
				ghhtml.WithHardWraps(),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		template: tmpl,
		now:      time.Now,
		logger:   slog.Default(),
	}
}

// ServeHTTP handles GET /api/archives/{id}/annotations/report.
func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	id := pathParam(r, "id")

	md, err := h.annotations.Report(ctx, id)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to build report")
		return
	}

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(md))
		return
	}

	htmlContent, err := h.renderMarkdown([]byte(md))
	if err != nil {
		logger.ErrorContext(ctx, "failed to render markdown", "archive_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	var page bytes.Buffer
	err = h.template.Execute(&page, reportPageData{
		ArchiveID: id,
		Generated: h.now().Format("2006-01-02 15:04"),
		Content:   template.HTML(htmlContent),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to execute report template", "archive_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = page.WriteTo(w)
}

func (h *ReportHandler) renderMarkdown(content []byte) (string, error) {
	var buf bytes.Buffer
	if err := h.parser.Convert(content, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
