package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"barangay/pkg/types"
)

func (s *Service) handleGetLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.adminFromContext(r.Context()); ok {
		s.logger.Debug("admin is already logged in, redirecting to dashboard")
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}

	data := &types.AdminLoginPageData{
		BasePageData: types.BasePageData{Title: "Admin Login"},
		Error:        r.URL.Query().Get("error"),
	}

	if err := s.renderTemplate(w, r, "page.admin.login", data); err != nil {
		s.logger.WithError(err).Error("failed to render login page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	data := &types.AdminLoginPageData{
		BasePageData: types.BasePageData{Title: "Admin Login"},
		Email:        email,
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	admin, err := s.auth.Login(ctx, email, password)
	if err != nil {
		status := http.StatusUnauthorized
		data.Error = "Invalid email or password."
		if !errors.Is(err, types.ErrInvalidCredentials) {
			s.logger.WithError(err).Error("failed to log in admin")
			status = http.StatusInternalServerError
			data.Error = "Login failed. Please try again."
		}

		if err := s.renderTemplateStatus(w, r, status, "page.admin.login", data); err != nil {
			s.logger.WithError(err).Error("failed to render login page")
			s.internalServerError(w)
		}
		return
	}

	accessToken, err := s.tokens.Issue(admin)
	if err != nil {
		s.logger.WithError(err).Error("failed to issue session token")
		s.internalServerError(w)
		return
	}

	encryptedToken, err := s.cookie.Encode(s.config.CookieName, accessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt session token")
		s.internalServerError(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    encryptedToken,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   s.config.SessionMaxAgeSec,
		Path:     "/",
	})

	s.logger.WithField("admin_id", admin.ID).Info("admin logged in")

	http.Redirect(w, r, s.postLoginPath(w, r), http.StatusSeeOther)
}

func (s *Service) handlePostLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Path:     "/",
	})

	s.redirectToLogin(w, r)
}
