package handler

import (
	"net/http"
	"net/url"
	"strings"

	frontend_domain "github.com/tastelink/tastelink/frontend/internal/domain"
	"github.com/tastelink/tastelink/shared/domain"
	"github.com/tastelink/tastelink/shared/logger"
	"github.com/tastelink/tastelink/shared/utils"
)

// Guest is the identity behind the one-click guest login.
var Guest = domain.Identity{Name: "게스트", Email: "guest@example.com"}

type loginForm struct {
	Name  string `validate:"required_without=Email,max=40"`
	Email string `validate:"omitempty,email,max=254"`
}

func (h *Handler) LoginGetHandler(w http.ResponseWriter, r *http.Request) {
	data := frontend_domain.LoginPageData{Next: safeNext(r.URL.Query().Get("next"))}
	h.renderTemplate(w, r, "login.html", data)
}

func loginRedirect(next string) string {
	return "/login?next=" + url.QueryEscape(safeNext(next))
}

// LoginPostHandler trusts whatever name and email the visitor declares.
func (h *Handler) LoginPostHandler(w http.ResponseWriter, r *http.Request) {
	next := r.PostFormValue("next")
	form := loginForm{
		Name:  strings.TrimSpace(r.PostFormValue("name")),
		Email: strings.TrimSpace(r.PostFormValue("email")),
	}
	if err := utils.Validator().Struct(form); err != nil {
		data := frontend_domain.LoginPageData{Next: safeNext(next), Name: form.Name, Email: form.Email}
		h.renderTemplateWithError(w, r, "login.html", data, "이름 또는 올바른 이메일을 입력하세요.")
		return
	}

	h.login(w, r, domain.Identity{Name: form.Name, Email: form.Email}, next)
}

func (h *Handler) GuestLoginHandler(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, Guest, r.PostFormValue("next"))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, id domain.Identity, next string) {
	if err := h.Sessions.Login(w, id); err != nil {
		logger.Log.Error("issuing session cookie", "error", err)
		h.redirectWithFlash(w, r, loginRedirect(next), flashCookieError, "로그인 실패")
		return
	}
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Logout(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
