package handler

import (
	"errors"
	"net/http"
	"strings"

	internal_errors "github.com/tastelink/tastelink/shared/errors"
	"github.com/tastelink/tastelink/shared/logger"
	"github.com/tastelink/tastelink/shared/utils"
)

// userMessage picks what the visitor sees for err. Rule violations explain
// themselves; anything else is logged and replaced with fallback.
func userMessage(err error, action, fallback string) string {
	if internal_errors.IsBusinessRule(err) || errors.Is(err, internal_errors.ErrPostNotFound) {
		return err.Error()
	}
	logger.Log.Error("action failed", "action", action, "error", err)
	return fallback
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.renderTemplateWithStatus(w, r, http.StatusNotFound, "not_found.html", nil, "")
}

// NotFoundHandler renders the 404 page for unknown routes.
func (h *Handler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		utils.WriteJSONError(w, &internal_errors.ErrorWithStatusCode{Message: "not found", StatusCode: http.StatusNotFound})
		return
	}
	h.notFound(w, r)
}

// safeNext keeps login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return "/"
	}
	return next
}
