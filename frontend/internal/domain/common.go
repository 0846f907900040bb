package frontend_domain

import "github.com/tastelink/tastelink/shared/domain"

// CommonTemplateData holds fields that are common to all page templates.
// Available in templates as .Common via the TemplateData wrapper.
type CommonTemplateData struct {
	Error      string
	Success    string
	Identity   *domain.Identity
	CSRFToken  string // CSRF token for form submissions
	Path       string // current request URI, used as the login return target
	KakaoJSKey string
}

// LoggedIn reports whether the visitor has declared an identity.
func (c CommonTemplateData) LoggedIn() bool {
	return c.Identity != nil && !c.Identity.IsZero()
}
