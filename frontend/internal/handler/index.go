package handler

import (
	"net/http"

	frontend_domain "github.com/tastelink/tastelink/frontend/internal/domain"
	"github.com/tastelink/tastelink/frontend/internal/session"
	"github.com/tastelink/tastelink/shared/logger"
)

func (h *Handler) IndexGetHandler(w http.ResponseWriter, r *http.Request) {
	id, _ := session.FromContext(r.Context())

	page, err := h.Posts.List(r.Context(), pageFromQuery(r))
	if err != nil {
		logger.Log.Error("listing posts", "error", err)
		h.renderTemplateWithError(w, r, "index.html", frontend_domain.IndexPageData{}, "모집글을 불러오지 못했습니다.")
		return
	}

	data := frontend_domain.IndexPageData{Page: page, Cards: make([]frontend_domain.Card, 0, len(page.Posts))}
	for _, p := range page.Posts {
		data.Cards = append(data.Cards, h.renderCard(p, id))
	}
	h.renderTemplate(w, r, "index.html", data)
}
