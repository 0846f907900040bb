package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	frontend_domain "github.com/tastelink/tastelink/frontend/internal/domain"
	"github.com/tastelink/tastelink/frontend/internal/service"
	"github.com/tastelink/tastelink/frontend/internal/session"
	internal_errors "github.com/tastelink/tastelink/shared/errors"
	"github.com/tastelink/tastelink/shared/logger"
)

func postURL(id string) string {
	return "/post/" + id
}

func (h *Handler) PostGetHandler(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")
	id, _ := session.FromContext(r.Context())

	p, err := h.Posts.Get(r.Context(), postID)
	if errors.Is(err, internal_errors.ErrPostNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		logger.Log.Error("loading post", "post", postID, "error", err)
		h.renderTemplateWithStatus(w, r, http.StatusBadGateway, "error.html", nil, "모집글을 불러오지 못했습니다.")
		return
	}

	h.renderTemplate(w, r, "post.html", h.renderPost(r, p, id))
}

func (h *Handler) formPage(action, heading, postID string, form service.PostForm) frontend_domain.FormPageData {
	return frontend_domain.FormPageData{
		Action:         action,
		Heading:        heading,
		Form:           form,
		PaymentMethods: service.PaymentMethods,
		PostID:         postID,
	}
}

func (h *Handler) CreateGetHandler(w http.ResponseWriter, r *http.Request) {
	id, _ := session.FromContext(r.Context())
	form := service.PostForm{Writer: id.Key(), Members: "1", PaymentMethod: service.PaymentMethods[0]}
	h.renderTemplate(w, r, "post_form.html", h.formPage("/create", "모집글 작성", "", form))
}

func (h *Handler) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	id, _ := session.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		h.redirectWithFlash(w, r, "/create", flashCookieError, "잘못된 요청입니다.")
		return
	}
	form := formFromRequest(r)

	p, err := h.Posts.Create(r.Context(), id, form)
	if err != nil {
		// Re-render so the visitor keeps what they typed.
		msg := userMessage(err, "create", "등록 중 오류가 발생했습니다.")
		h.renderTemplateWithError(w, r, "post_form.html", h.formPage("/create", "모집글 작성", "", form), msg)
		return
	}
	h.redirectWithFlash(w, r, postURL(p.Id), flashCookieSuccess, "모집글이 성공적으로 등록되었습니다!")
}

func (h *Handler) EditGetHandler(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")
	id, _ := session.FromContext(r.Context())

	p, err := h.Posts.Get(r.Context(), postID)
	if errors.Is(err, internal_errors.ErrPostNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.redirectWithFlash(w, r, "/", flashCookieError, userMessage(err, "edit_form", "모집글을 불러오지 못했습니다."))
		return
	}
	if !h.Posts.CanEdit(p, id) {
		h.redirectWithFlash(w, r, postURL(postID), flashCookieError, internal_errors.ErrForbidden.Message)
		return
	}

	form := service.FormFromPost(p, h.Posts.Location())
	h.renderTemplate(w, r, "post_form.html", h.formPage(postURL(postID)+"/edit", "모집글 수정", postID, form))
}

func (h *Handler) EditPostHandler(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")
	id, _ := session.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		h.redirectWithFlash(w, r, postURL(postID)+"/edit", flashCookieError, "잘못된 요청입니다.")
		return
	}
	form := formFromRequest(r)

	_, err := h.Posts.Update(r.Context(), id, postID, form)
	switch {
	case err == nil:
		h.redirectWithFlash(w, r, postURL(postID), flashCookieSuccess, "수정되었습니다.")
	case errors.Is(err, internal_errors.ErrForbidden), errors.Is(err, internal_errors.ErrPostNotFound):
		h.redirectWithFlash(w, r, postURL(postID), flashCookieError, err.Error())
	default:
		msg := userMessage(err, "update", "수정 중 오류가 발생했습니다.")
		h.renderTemplateWithError(w, r, "post_form.html", h.formPage(postURL(postID)+"/edit", "모집글 수정", postID, form), msg)
	}
}

func (h *Handler) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")
	id, _ := session.FromContext(r.Context())

	if err := h.Posts.Delete(r.Context(), id, postID); err != nil {
		h.redirectWithFlash(w, r, postURL(postID), flashCookieError, userMessage(err, "delete", "삭제 중 오류가 발생했습니다."))
		return
	}
	h.redirectWithFlash(w, r, "/", flashCookieSuccess, "삭제 완료!")
}
