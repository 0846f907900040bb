package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	frontend_domain "github.com/tastelink/tastelink/frontend/internal/domain"
	"github.com/tastelink/tastelink/frontend/internal/middleware"
	"github.com/tastelink/tastelink/frontend/internal/service"
	"github.com/tastelink/tastelink/frontend/internal/session"
	"github.com/tastelink/tastelink/shared/domain"
	"github.com/tastelink/tastelink/shared/logger"
)

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common frontend_domain.CommonTemplateData
}

func (h *Handler) initCommonTemplateData(w http.ResponseWriter, r *http.Request) frontend_domain.CommonTemplateData {
	common := frontend_domain.CommonTemplateData{
		Error:      h.popFlash(w, r, flashCookieError),
		Success:    h.popFlash(w, r, flashCookieSuccess),
		CSRFToken:  middleware.CSRFToken(r.Context()),
		Path:       r.URL.RequestURI(),
		KakaoJSKey: h.KakaoJSKey,
	}
	if id, ok := session.FromContext(r.Context()); ok {
		common.Identity = &id
	}
	return common
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	h.renderTemplateWithStatus(w, r, http.StatusOK, name, data, "")
}

func (h *Handler) renderTemplateWithError(w http.ResponseWriter, r *http.Request, name string, data any, errMsg string) {
	h.renderTemplateWithStatus(w, r, http.StatusOK, name, data, errMsg)
}

func (h *Handler) renderTemplateWithStatus(w http.ResponseWriter, r *http.Request, status int, name string, data any, errMsg string) {
	tmpl, ok := h.lookupTemplate(name)
	if !ok {
		http.Error(w, fmt.Sprintf("Template %s not found", name), http.StatusInternalServerError)
		return
	}

	common := h.initCommonTemplateData(w, r)
	if errMsg != "" {
		common.Error = errMsg
	}

	wrapped := TemplateData{
		Data:   data,
		Common: common,
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, wrapped); err != nil {
		logger.Log.Error("error executing template", "template", name, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderCard transforms a post into a listing card.
func (h *Handler) renderCard(p domain.Post, id domain.Identity) frontend_domain.Card {
	return frontend_domain.Card{
		Post:       p,
		Attendance: domain.ResolveAttendance(p, h.listingCapacity()),
		Liked:      !id.IsZero() && p.LikedByIdentity(id),
		EventDate:  frontend_domain.FormatTime(p.EventDate, h.Posts.Location()),
	}
}

// renderPost builds the detail view. Unknown capacity never makes a post full here.
func (h *Handler) renderPost(r *http.Request, p domain.Post, id domain.Identity) frontend_domain.PostPageData {
	loc := h.Posts.Location()
	data := frontend_domain.PostPageData{
		Post:       p,
		Attendance: domain.ResolveAttendance(p, 0),
		Joined:     !id.IsZero() && p.HasAttendee(id),
		Liked:      !id.IsZero() && p.LikedByIdentity(id),
		CanEdit:    h.Posts.CanEdit(p, id),
		EventDate:  frontend_domain.FormatTime(p.EventDate, loc),
		EndAt:      frontend_domain.FormatTime(p.EndAt, loc),
		CreatedAt:  frontend_domain.FormatTime(p.CreatedAt, loc),
	}

	for _, a := range h.Posts.Attendees(r.Context(), p) {
		data.Attendees = append(data.Attendees, frontend_domain.Attendee{Name: a.DisplayName, Profile: a.Profile})
	}
	for i, review := range p.Reviews {
		data.Reviews = append(data.Reviews, renderReview(h, i, review, id))
	}
	return data
}

func renderReview(h *Handler, index int, r domain.Review, id domain.Identity) frontend_domain.Review {
	shown := r.CreatedAt
	if t := domain.ParseTime(r.CreatedAt); t != nil {
		shown = frontend_domain.FormatTime(t, h.Posts.Location())
	}
	return frontend_domain.Review{
		Index:     index,
		Writer:    r.Writer,
		Text:      h.TextProcessor.Render(r.Text),
		CreatedAt: shown,
		RawTime:   r.CreatedAt,
		Deletable: !id.IsZero() && id.Matches(r.Writer),
	}
}

// formFromRequest reads the create/edit form fields.
func formFromRequest(r *http.Request) service.PostForm {
	return service.PostForm{
		Writer:        r.PostFormValue("writer"),
		Title:         r.PostFormValue("title"),
		Members:       r.PostFormValue("members"),
		Likes:         r.PostFormValue("likes"),
		PaymentMethod: r.PostFormValue("paymentMethod"),
		Image:         r.PostFormValue("image"),
		EventDate:     r.PostFormValue("eventDate"),
		EndAt:         r.PostFormValue("endAt"),
	}
}

func pageFromQuery(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
