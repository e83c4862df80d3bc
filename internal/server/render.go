package server

import (
	"barangay/pkg/types"
	"bytes"
	"net/http"
)

func (s *Service) renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) error {
	return s.renderTemplateStatus(w, r, http.StatusOK, templateName, data)
}

// renderTemplateStatus executes into a buffer so a failed render never
// leaves a half-written page behind the status line.
func (s *Service) renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) error {
	if setter, ok := data.(types.NavbarDataSetter); ok {
		navbar := types.NavbarData{}
		if session, ok := s.adminFromContext(r.Context()); ok {
			navbar.IsAdmin = true
			navbar.AdminEmail = session.Email
			navbar.AdminFullName = session.FullName
		}
		setter.SetNavbarData(navbar)
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
