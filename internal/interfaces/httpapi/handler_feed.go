package httpapi

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	date := strings.TrimSpace(query.Get("date"))
	if date == "" {
		date = h.feed.Today()
	}
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures", attribute.String("feed.date", date))
	defer span.End()

	fixtures, err := h.feed.FetchFeed(ctx, date)
	if err != nil {
		h.logger.WarnContext(ctx, "fetch fixture feed failed", "date", date, "error", err)
		writeError(ctx, w, err)
		return
	}

	view := h.feed.View(fixtures, query.Get("q"), h.now())
	writeSuccess(ctx, w, http.StatusOK, feedViewToDTO(date, view))
}

func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListNews")
	defer span.End()

	articles, err := h.news.Search(ctx, r.URL.Query().Get("q"))
	if err != nil {
		h.logger.WarnContext(ctx, "search news failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]newsArticleDTO, 0, len(articles))
	for _, article := range articles {
		items = append(items, articleToDTO(article))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
