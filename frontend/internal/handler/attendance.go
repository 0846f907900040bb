package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tastelink/tastelink/frontend/internal/session"
	internal_errors "github.com/tastelink/tastelink/shared/errors"
	"github.com/tastelink/tastelink/shared/utils"
)

func (h *Handler) JoinHandler(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")
	id, _ := session.FromContext(r.Context())

	if _, err := h.Posts.Join(r.Context(), id, postID); err != nil {
		h.redirectWithFlash(w, r, postURL(postID), flashCookieError, userMessage(err, "join", "참석 처리 중 오류가 발생했습니다."))
		return
	}
	h.redirectWithFlash(w, r, postURL(postID), flashCookieSuccess, "참석 완료!")
}

func (h *Handler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")
	id, _ := session.FromContext(r.Context())

	if _, err := h.Posts.Cancel(r.Context(), id, postID); err != nil {
		h.redirectWithFlash(w, r, postURL(postID), flashCookieError, userMessage(err, "cancel", "참석 취소 중 오류 발생."))
		return
	}
	h.redirectWithFlash(w, r, postURL(postID), flashCookieSuccess, "참석 취소되었습니다.")
}

type likeResponse struct {
	Likes int    `json:"likes"`
	Liked bool   `json:"liked"`
	Error string `json:"error,omitempty"`
}

// LikeHandler toggles the visitor's like. Script callers get JSON with the
// confirmed counters; plain form posts are redirected back.
func (h *Handler) LikeHandler(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")
	id, _ := session.FromContext(r.Context())
	back := postURL(postID)
	if next := r.PostFormValue("next"); next != "" {
		back = safeNext(next)
	}

	p, err := h.Posts.ToggleLike(r.Context(), id, postID)
	if err != nil {
		msg := userMessage(err, "like", "좋아요 처리 중 오류가 발생했습니다.")
		if wantsJSON(r) {
			// p is the restored snapshot so the script can undo its optimistic state.
			utils.WriteJSON(w, internal_errors.StatusCode(err), likeResponse{Likes: p.Likes, Liked: p.LikedByIdentity(id), Error: msg})
			return
		}
		h.redirectWithFlash(w, r, back, flashCookieError, msg)
		return
	}
	if wantsJSON(r) {
		utils.WriteJSON(w, http.StatusOK, likeResponse{Likes: p.Likes, Liked: p.LikedByIdentity(id)})
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *Handler) ReviewAddHandler(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")
	id, _ := session.FromContext(r.Context())

	if _, err := h.Posts.AddReview(r.Context(), id, postID, r.PostFormValue("text")); err != nil {
		h.redirectWithFlash(w, r, postURL(postID)+"#reviews", flashCookieError, userMessage(err, "review_add", "후기 등록 중 오류가 발생했습니다."))
		return
	}
	http.Redirect(w, r, postURL(postID)+"#reviews", http.StatusSeeOther)
}

func (h *Handler) ReviewDeleteHandler(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")
	id, _ := session.FromContext(r.Context())

	index, err := strconv.Atoi(r.PostFormValue("index"))
	if err != nil {
		h.redirectWithFlash(w, r, postURL(postID)+"#reviews", flashCookieError, internal_errors.ErrReviewNotFound.Message)
		return
	}
	_, err = h.Posts.RemoveReview(r.Context(), id, postID, index, r.PostFormValue("createdAt"))
	if errors.Is(err, internal_errors.ErrForbidden) {
		h.redirectWithFlash(w, r, postURL(postID)+"#reviews", flashCookieError, "본인이 작성한 후기만 삭제할 수 있습니다.")
		return
	}
	if err != nil {
		h.redirectWithFlash(w, r, postURL(postID)+"#reviews", flashCookieError, userMessage(err, "review_remove", "후기 삭제 중 오류가 발생했습니다."))
		return
	}
	http.Redirect(w, r, postURL(postID)+"#reviews", http.StatusSeeOther)
}
