package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"barangay/internal/utils"
	"barangay/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
)

const (
	multipartMemory = 32 << 20

	fieldProofFile   = "zone_clearance_file"
	fieldValidIDFile = "valid_id_file"
)

type requestFormView struct {
	status      int
	form        types.RequestForm
	verified    *types.DocumentRequest
	err         string
	notice      string
	fieldErrors map[string]string
}

func (s *Service) handleGetRequestForm(w http.ResponseWriter, r *http.Request) {
	spec, ok := types.FormSpecBySlug(flow.Param(r.Context(), "slug"))
	if !ok {
		s.notFound(w, r)
		return
	}

	view := requestFormView{status: http.StatusOK}
	view.form.ZoneClearanceReference = r.URL.Query().Get("reference")

	s.renderRequestForm(w, r, spec, view)
}

// handlePostVerify looks up the approved zone clearance named on the form
// and re-renders it with the applicant's details filled in.
func (s *Service) handlePostVerify(w http.ResponseWriter, r *http.Request) {
	spec, ok := types.FormSpecBySlug(flow.Param(r.Context(), "slug"))
	if !ok || !spec.RequiresZoneClearance {
		s.notFound(w, r)
		return
	}

	requestForm, _, err := s.parseRequestForm(w, r, spec)
	if err != nil {
		s.renderBadUpload(w, r, spec, requestForm, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	clearance, err := s.requests.Verify(ctx, types.VerificationQuery{Reference: requestForm.ZoneClearanceReference})
	if err != nil {
		view := requestFormView{status: http.StatusUnprocessableEntity, form: requestForm}

		var validationErr *types.ValidationError
		switch {
		case errors.As(err, &validationErr):
			view.err = "Enter your Zone Clearance reference number to continue."
			view.fieldErrors = validationErr.Fields
		case errors.Is(err, types.ErrZoneClearanceNotFound):
			view.err = "No approved Zone Clearance was found for that reference number."
			view.fieldErrors = map[string]string{"zone_clearance_reference": "No approved Zone Clearance matches this reference."}
		default:
			s.logger.WithError(err).Error("failed to verify zone clearance")
			view.status = http.StatusInternalServerError
			view.err = "Verification failed. Please try again."
		}

		s.renderRequestForm(w, r, spec, view)
		return
	}

	requestForm = prefillFromClearance(requestForm, clearance)

	s.renderRequestForm(w, r, spec, requestFormView{
		status:   http.StatusOK,
		form:     requestForm,
		verified: clearance,
		notice:   "Zone Clearance verified. Your details have been filled in from it.",
	})
}

func (s *Service) handlePostRequestForm(w http.ResponseWriter, r *http.Request) {
	spec, ok := types.FormSpecBySlug(flow.Param(r.Context(), "slug"))
	if !ok {
		s.notFound(w, r)
		return
	}

	requestForm, decodeErrs, err := s.parseRequestForm(w, r, spec)
	if err != nil {
		s.renderBadUpload(w, r, spec, requestForm, err)
		return
	}

	if len(decodeErrs) > 0 {
		s.renderRequestForm(w, r, spec, requestFormView{
			status:      http.StatusUnprocessableEntity,
			form:        requestForm,
			err:         "Please correct the highlighted fields.",
			fieldErrors: decodeErrs,
		})
		return
	}

	submission := types.Submission{
		DocumentType: spec.DocumentType,
		Form:         requestForm,
	}

	if spec.OffersExistingClearance {
		submission.ProofFile, err = s.readUpload(r, fieldProofFile)
		if err != nil {
			s.renderBadUpload(w, r, spec, requestForm, err)
			return
		}
	}

	submission.ValidIDFile, err = s.readUpload(r, fieldValidIDFile)
	if err != nil {
		s.renderBadUpload(w, r, spec, requestForm, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	request, err := s.requests.Submit(ctx, submission)
	if err != nil {
		view := requestFormView{status: http.StatusUnprocessableEntity, form: requestForm}

		var validationErr *types.ValidationError
		switch {
		case errors.As(err, &validationErr):
			view.err = "Please correct the highlighted fields."
			view.fieldErrors = validationErr.Fields
		case errors.Is(err, types.ErrZoneClearanceRequired):
			view.err = "An approved Zone Clearance is required. Verify your Zone Clearance reference number before submitting."
			view.fieldErrors = map[string]string{"zone_clearance_reference": "Verify an approved Zone Clearance reference."}
		default:
			s.logger.WithError(err).WithField("document_type", spec.DocumentType).Error("failed to submit document request")
			view.status = http.StatusInternalServerError
			view.err = "Failed to submit request. Please try again."
		}

		s.renderRequestForm(w, r, spec, view)
		return
	}

	data := &types.RequestSubmittedPageData{
		BasePageData: types.BasePageData{Title: spec.Title + " Submitted"},
		Spec:         spec,
		Request:      request,
	}

	if err := s.renderTemplate(w, r, "page.request.submitted", data); err != nil {
		s.logger.WithError(err).Error("failed to render request submitted page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) renderRequestForm(w http.ResponseWriter, r *http.Request, spec types.FormSpec, view requestFormView) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	zones, err := s.requests.Zones(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch zones")
		s.renderError(w, r, http.StatusInternalServerError, "Failed to load the request form. Please try again.")
		return
	}

	data := &types.RequestFormPageData{
		BasePageData: types.BasePageData{Title: spec.Title},
		Spec:         spec,
		Zones:        zones,
		Form:         view.form,
		Verified:     view.verified,
		Error:        view.err,
		Notice:       view.notice,
		FieldErrors:  view.fieldErrors,
	}
	if !view.form.BirthDate.IsZero() {
		data.BirthDate = view.form.BirthDate.Format(birthDateLayout)
	}

	if err := s.renderTemplateStatus(w, r, view.status, "page.request", data); err != nil {
		s.logger.WithError(err).Error("failed to render request form page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) renderBadUpload(w http.ResponseWriter, r *http.Request, spec types.FormSpec, requestForm types.RequestForm, err error) {
	view := requestFormView{status: http.StatusBadRequest, form: requestForm, err: "The form could not be read. Please try again."}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		view.status = http.StatusRequestEntityTooLarge
		view.err = "Uploaded files are too large."
	} else {
		s.logger.WithError(err).Warn("failed to read request form")
	}

	s.renderRequestForm(w, r, spec, view)
}

// parseRequestForm reads a multipart or urlencoded request form. Decode
// failures come back as per-field messages; a non-nil error means the body
// itself could not be read.
func (s *Service) parseRequestForm(w http.ResponseWriter, r *http.Request, spec types.FormSpec) (types.RequestForm, map[string]string, error) {
	var requestForm types.RequestForm

	r.Body = http.MaxBytesReader(w, r.Body, 2*s.config.MaxUploadBytes+multipartMemory)

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return requestForm, nil, err
	}

	err = decoder.Decode(&requestForm, r.PostForm)
	if err == nil {
		return requestForm, nil, nil
	}

	var decodeErrs form.DecodeErrors
	if !errors.As(err, &decodeErrs) {
		return requestForm, nil, err
	}

	fields := make(map[string]string, len(decodeErrs))
	for field := range decodeErrs {
		fields[field] = "Invalid value."
	}
	if _, ok := decodeErrs["birth_date"]; ok {
		fields["birth_date"] = "Enter a date as YYYY-MM-DD."
	}

	s.logger.WithField("slug", spec.Slug).WithError(err).Debug("request form decode failed")

	return requestForm, fields, nil
}

func (s *Service) readUpload(r *http.Request, field string) (*types.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// one byte past the limit lets the storage service report the overflow
	data, err := io.ReadAll(io.LimitReader(file, s.config.MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}

	return &types.Upload{FileName: header.Filename, Data: data}, nil
}

func prefillFromClearance(f types.RequestForm, clearance *types.DocumentRequest) types.RequestForm {
	if f.FirstName == "" {
		f.FirstName = clearance.FirstName
	}
	if f.MiddleName == "" {
		f.MiddleName = utils.PtrString(clearance.MiddleName)
	}
	if f.LastName == "" {
		f.LastName = clearance.LastName
	}
	if f.Age == 0 {
		f.Age = clearance.Age
	}
	if f.BirthDate.IsZero() {
		f.BirthDate = clearance.BirthDate
	}
	if f.Address == "" {
		f.Address = clearance.Address
	}
	if f.ZoneID == "" {
		f.ZoneID = clearance.ZoneID
	}
	if f.Contact == "" {
		f.Contact = clearance.Contact
	}
	if f.Email == "" {
		f.Email = utils.PtrString(clearance.Email)
	}
	if f.MaritalStatus == "" {
		f.MaritalStatus = clearance.MaritalStatus
	}

	f.ZoneClearanceReference = clearance.ReferenceNumber
	return f
}
