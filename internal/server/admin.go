package server

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"barangay/pkg/types"

	"github.com/alexedwards/flow"
)

func (s *Service) handleAdminIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

func (s *Service) handleDashboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := types.RequestFilter{
		Status: types.RequestStatus(query.Get("status")),
		Search: query.Get("q"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	rows, counts, err := s.requests.Dashboard(ctx, filter)
	if err != nil {
		s.logger.WithError(err).Error("failed to load dashboard")
		s.renderError(w, r, http.StatusInternalServerError, "Failed to load requests. Please try again.")
		return
	}

	data := &types.AdminDashboardPageData{
		BasePageData: types.BasePageData{Title: "Admin Dashboard"},
		Counts:       counts,
		Rows:         rows,
		Search:       filter.Search,
		Statuses:     types.RequestStatuses,
		Notice:       query.Get("notice"),
		Error:        query.Get("error"),
	}
	if filter.Status.Valid() {
		data.Status = string(filter.Status)
	}

	if err := s.renderTemplate(w, r, "page.admin.dashboard", data); err != nil {
		s.logger.WithError(err).Error("failed to render dashboard page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handleRequestDetail(w http.ResponseWriter, r *http.Request) {
	requestID := flow.Param(r.Context(), "id")

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	detail, err := s.requests.Detail(ctx, requestID)
	if errors.Is(err, types.ErrRequestNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		s.logger.WithError(err).WithField("request_id", requestID).Error("failed to load request detail")
		s.renderError(w, r, http.StatusInternalServerError, "Failed to load the request. Please try again.")
		return
	}

	data := &types.AdminRequestPageData{
		BasePageData: types.BasePageData{Title: detail.Request.ReferenceNumber},
		Detail:       detail,
		Notice:       r.URL.Query().Get("notice"),
		Error:        r.URL.Query().Get("error"),
	}

	if err := s.renderTemplate(w, r, "page.admin.request", data); err != nil {
		s.logger.WithError(err).Error("failed to render request detail page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handleApprove(w http.ResponseWriter, r *http.Request) {
	s.processRequest(w, r, func(ctx context.Context, requestID string, admin types.AdminSession) (*types.DocumentRequest, error) {
		return s.requests.Approve(ctx, requestID, admin)
	})
}

func (s *Service) handleReject(w http.ResponseWriter, r *http.Request) {
	reason := r.FormValue("rejection_reason")
	s.processRequest(w, r, func(ctx context.Context, requestID string, admin types.AdminSession) (*types.DocumentRequest, error) {
		return s.requests.Reject(ctx, requestID, admin, reason)
	})
}

type processFunc func(ctx context.Context, requestID string, admin types.AdminSession) (*types.DocumentRequest, error)

func (s *Service) processRequest(w http.ResponseWriter, r *http.Request, process processFunc) {
	requestID := flow.Param(r.Context(), "id")
	detailPath := "/admin/requests/" + requestID

	session, ok := s.adminFromContext(r.Context())
	if !ok {
		s.redirectToLogin(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	updated, err := process(ctx, requestID, *session)
	switch {
	case errors.Is(err, types.ErrRequestNotFound):
		s.notFound(w, r)
	case errors.Is(err, types.ErrRejectionReasonRequired):
		s.redirectWithError(w, r, detailPath, "A rejection reason is required.")
	case errors.Is(err, types.ErrInvalidTransition):
		s.redirectWithError(w, r, detailPath, "This request has already been processed.")
	case err != nil:
		s.logger.WithError(err).WithField("request_id", requestID).Error("failed to process request")
		s.redirectWithError(w, r, detailPath, "Failed to update the request. Please try again.")
	default:
		s.redirectWithNotice(w, r, detailPath, fmt.Sprintf("Request %s marked %s.", updated.ReferenceNumber, updated.Status))
	}
}

func (s *Service) handleFileDownload(w http.ResponseWriter, r *http.Request) {
	fileID := flow.Param(r.Context(), "fileID")

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	file, content, err := s.files.Load(ctx, fileID)
	if errors.Is(err, types.ErrFileNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		s.logger.WithError(err).WithField("file_id", fileID).Error("failed to load file")
		s.internalServerError(w)
		return
	}

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": file.FileName}))
	w.Header().Set("Cache-Control", "private, no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)

	if session, ok := s.adminFromContext(r.Context()); ok {
		s.logger.WithField("file_id", fileID).WithField("admin_id", session.AdminID).Debug("served uploaded file")
	}
}
