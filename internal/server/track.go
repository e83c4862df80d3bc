package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"barangay/pkg/types"
)

func (s *Service) handleTrack(w http.ResponseWriter, r *http.Request) {
	reference := strings.TrimSpace(r.URL.Query().Get("reference"))

	data := &types.TrackPageData{
		BasePageData: types.BasePageData{Title: "Track Your Request"},
		Reference:    reference,
	}

	status := http.StatusOK
	if reference != "" {
		ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
		defer cancel()

		data.Searched = true
		results, err := s.requests.Track(ctx, reference)
		var validationErr *types.ValidationError
		switch {
		case errors.As(err, &validationErr):
			data.Error = validationErr.Fields["reference"]
			status = http.StatusUnprocessableEntity
		case err != nil:
			s.logger.WithError(err).WithField("reference", reference).Error("failed to track request")
			data.Error = "Search failed. Please try again."
			status = http.StatusInternalServerError
		default:
			data.Results = results
		}
	}

	if err := s.renderTemplateStatus(w, r, status, "page.track", data); err != nil {
		s.logger.WithError(err).Error("failed to render track page")
		s.internalServerError(w)
		return
	}
}
