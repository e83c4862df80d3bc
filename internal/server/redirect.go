package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

const redirectCookieName = "barangay_redirect"

func (s *Service) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// redirectWithNotice sends the browser to path with a notice query parameter.
func (s *Service) redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	v := url.Values{}
	v.Set("notice", notice)
	http.Redirect(w, r, path+"?"+v.Encode(), http.StatusSeeOther)
}

func (s *Service) redirectWithError(w http.ResponseWriter, r *http.Request, path, msg string) {
	v := url.Values{}
	v.Set("error", msg)
	http.Redirect(w, r, path+"?"+v.Encode(), http.StatusSeeOther)
}

func (s *Service) setRedirectCookie(w http.ResponseWriter, path string, age time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     redirectCookieName,
		Value:    path,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(age.Seconds()),
	})
}

func (s *Service) clearRedirectCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     redirectCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// postLoginPath returns the saved redirect target when it points back into
// the admin area, otherwise the dashboard.
func (s *Service) postLoginPath(w http.ResponseWriter, r *http.Request) string {
	const fallback = "/admin/dashboard"

	cookie, err := r.Cookie(redirectCookieName)
	if err != nil {
		return fallback
	}
	s.clearRedirectCookie(w)

	path := cookie.Value
	if !strings.HasPrefix(path, "/admin") || strings.HasPrefix(path, "//") || strings.HasPrefix(path, "/admin/login") {
		return fallback
	}

	return path
}
