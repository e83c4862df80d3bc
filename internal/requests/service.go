// Package requests implements the document request workflow: submission
// with cross-document verification, admin approval, tracking and the
// dashboard queries.
package requests

import (
	"barangay/internal/utils"
	"barangay/pkg/types"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const maxReferenceAttempts = 10

type RequestStore interface {
	Request(ctx context.Context, requestID string) (*types.DocumentRequest, error)
	Requests(ctx context.Context, filter types.RequestFilter) ([]*types.DocumentRequest, error)
	RequestsByReference(ctx context.Context, ref string) ([]*types.DocumentRequest, error)
	ReferenceExists(ctx context.Context, ref string) (bool, error)
	ApprovedZoneClearance(ctx context.Context, q types.VerificationQuery) (*types.DocumentRequest, error)
	CreateRequest(ctx context.Context, request *types.DocumentRequest) error
	UpdateRequest(ctx context.Context, requestID string, patch types.RequestPatch) (*types.DocumentRequest, error)
	CountByStatus(ctx context.Context) (types.StatusCounts, error)
}

type EventStore interface {
	RecordEvent(ctx context.Context, event *types.RequestEvent) error
	EventsByRequest(ctx context.Context, requestID string) ([]*types.RequestEvent, error)
}

type ZoneStore interface {
	Zones(ctx context.Context) ([]*types.Zone, error)
	Zone(ctx context.Context, id string) (*types.Zone, error)
}

type FileStore interface {
	Save(ctx context.Context, upload *types.Upload) (string, error)
	Metadata(ctx context.Context, id string) (*types.StoredFile, error)
}

type Service struct {
	logger   logrus.FieldLogger
	requests RequestStore
	events   EventStore
	zones    ZoneStore
	files    FileStore
	location *time.Location
	validate *validator.Validate

	now func() time.Time
}

func New(
	logger logrus.FieldLogger,
	requests RequestStore,
	events EventStore,
	zones ZoneStore,
	files FileStore,
	location *time.Location,
) *Service {
	if location == nil {
		location = time.UTC
	}

	return &Service{
		logger:   logger,
		requests: requests,
		events:   events,
		zones:    zones,
		files:    files,
		location: location,
		validate: newValidator(),
		now:      time.Now,
	}
}

func (s *Service) Zones(ctx context.Context) ([]*types.Zone, error) {
	return s.zones.Zones(ctx)
}

// Verify finds the approved zone clearance identified by q. Reference
// numbers take precedence over email, email over phone.
func (s *Service) Verify(ctx context.Context, q types.VerificationQuery) (*types.DocumentRequest, error) {
	q = types.VerificationQuery{
		Reference: strings.TrimSpace(q.Reference),
		Email:     strings.TrimSpace(q.Email),
		Phone:     strings.TrimSpace(q.Phone),
	}

	if q.Empty() {
		return nil, types.NewValidationError("zone_clearance_reference", "Enter your Zone Clearance reference number.")
	}

	return s.requests.ApprovedZoneClearance(ctx, q)
}

// Submit validates the submission, enforces the zone clearance dependency,
// stores any uploads and creates the pending request.
func (s *Service) Submit(ctx context.Context, sub types.Submission) (*types.DocumentRequest, error) {
	spec, ok := types.FormSpecFor(sub.DocumentType)
	if !ok {
		return nil, fmt.Errorf("unknown document type %q", sub.DocumentType)
	}

	form := normalizeForm(sub.Form)
	if err := s.validateForm(&form); err != nil {
		return nil, err
	}

	if _, err := s.zones.Zone(ctx, form.ZoneID); err != nil {
		if errors.Is(err, types.ErrZoneNotFound) {
			return nil, types.NewValidationError("zone_id", "Select a valid zone.")
		}
		return nil, err
	}

	request := &types.DocumentRequest{
		FirstName:     form.FirstName,
		MiddleName:    utils.NonEmptyStringPtr(form.MiddleName),
		LastName:      form.LastName,
		Age:           form.Age,
		BirthDate:     form.BirthDate,
		Address:       form.Address,
		ZoneID:        form.ZoneID,
		Contact:       form.Contact,
		Email:         utils.NonEmptyStringPtr(form.Email),
		MaritalStatus: form.MaritalStatus,
		DocumentType:  spec.DocumentType,
		Purpose:       form.Purpose,
	}

	if spec.RequiresZoneClearance {
		if form.ZoneClearanceReference == "" {
			return nil, types.ErrZoneClearanceRequired
		}

		clearance, err := s.Verify(ctx, types.VerificationQuery{Reference: form.ZoneClearanceReference})
		if err != nil {
			if errors.Is(err, types.ErrZoneClearanceNotFound) {
				return nil, fmt.Errorf("zone clearance %s: %w", form.ZoneClearanceReference, types.ErrZoneClearanceRequired)
			}
			return nil, err
		}

		request.HasZoneClearance = true
		request.ZoneClearanceReference = utils.StringPtr(clearance.ReferenceNumber)
	} else if spec.OffersExistingClearance {
		request.HasZoneClearance = form.HasZoneClearance
	}

	if sub.ProofFile != nil && request.HasZoneClearance {
		fileID, err := s.files.Save(ctx, sub.ProofFile)
		if err != nil {
			return nil, uploadError("zone_clearance_file", err)
		}
		request.ZoneClearanceFileID = &fileID
	}

	if sub.ValidIDFile != nil {
		fileID, err := s.files.Save(ctx, sub.ValidIDFile)
		if err != nil {
			return nil, uploadError("valid_id_file", err)
		}
		request.ValidIDFileID = &fileID
	}

	now := s.now()
	ref, err := s.issueReference(ctx, spec.DocumentType, now)
	if err != nil {
		return nil, err
	}
	request.ReferenceNumber = ref
	request.RequestDate = now

	if err := s.requests.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, request.ID, types.RequestStatusPending, "applicant", nil)

	s.logger.WithFields(logrus.Fields{
		"request_id":       request.ID,
		"reference_number": request.ReferenceNumber,
		"document_type":    request.DocumentType,
	}).Info("document request submitted")

	return request, nil
}

// issueReference draws reference numbers until one is unused.
func (s *Service) issueReference(ctx context.Context, docType types.DocumentType, at time.Time) (string, error) {
	local := at.In(s.location)
	for range maxReferenceAttempts {
		ref, err := NewReferenceNumber(docType, local)
		if err != nil {
			return "", err
		}

		exists, err := s.requests.ReferenceExists(ctx, ref)
		if err != nil {
			return "", err
		}
		if !exists {
			return ref, nil
		}
	}

	return "", fmt.Errorf("no free reference number for %s on %s after %d attempts", docType, local.Format("2006-01-02"), maxReferenceAttempts)
}

// Approve moves a pending request to approved.
func (s *Service) Approve(ctx context.Context, requestID string, admin types.AdminSession) (*types.DocumentRequest, error) {
	return s.transition(ctx, requestID, admin, types.RequestStatusApproved, nil)
}

// Reject moves a pending request to rejected. The reason is mandatory.
func (s *Service) Reject(ctx context.Context, requestID string, admin types.AdminSession, reason string) (*types.DocumentRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, types.ErrRejectionReasonRequired
	}
	return s.transition(ctx, requestID, admin, types.RequestStatusRejected, &reason)
}

func (s *Service) transition(ctx context.Context, requestID string, admin types.AdminSession, to types.RequestStatus, reason *string) (*types.DocumentRequest, error) {
	pending := types.RequestStatusPending
	processedAt := s.now()

	updated, err := s.requests.UpdateRequest(ctx, requestID, types.RequestPatch{
		Status:          &to,
		RejectionReason: reason,
		ProcessedBy:     utils.StringPtr(admin.FullName),
		ProcessedAt:     &processedAt,
		ExpectStatus:    &pending,
	})
	if err != nil {
		return nil, err
	}

	s.recordEvent(ctx, requestID, to, admin.Email, reason)

	s.logger.WithFields(logrus.Fields{
		"request_id":       requestID,
		"reference_number": updated.ReferenceNumber,
		"status":           to,
		"admin":            admin.Email,
	}).Info("document request processed")

	return updated, nil
}

// recordEvent writes the audit row. A failure is logged and does not undo
// the change it describes.
func (s *Service) recordEvent(ctx context.Context, requestID string, status types.RequestStatus, actor string, note *string) {
	err := s.events.RecordEvent(ctx, &types.RequestEvent{
		RequestID: requestID,
		Status:    status,
		Actor:     actor,
		Note:      note,
		CreatedAt: s.now(),
	})
	if err != nil {
		s.logger.WithError(err).WithField("request_id", requestID).Error("failed to record request event")
	}
}

// Dashboard lists requests for the admin view with counts across all requests.
func (s *Service) Dashboard(ctx context.Context, filter types.RequestFilter) ([]types.DashboardRow, types.StatusCounts, error) {
	if !filter.Status.Valid() {
		filter.Status = ""
	}

	requests, err := s.requests.Requests(ctx, filter)
	if err != nil {
		return nil, types.StatusCounts{}, err
	}

	counts, err := s.requests.CountByStatus(ctx)
	if err != nil {
		return nil, types.StatusCounts{}, err
	}

	names, err := s.zoneNames(ctx)
	if err != nil {
		return nil, types.StatusCounts{}, err
	}

	rows := make([]types.DashboardRow, 0, len(requests))
	for _, request := range requests {
		rows = append(rows, types.DashboardRow{Request: request, ZoneName: names[request.ZoneID]})
	}

	return rows, counts, nil
}

// Track returns the requests carrying the reference number.
func (s *Service) Track(ctx context.Context, ref string) ([]types.TrackedRequest, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, types.NewValidationError("reference", "Enter your reference number.")
	}

	requests, err := s.requests.RequestsByReference(ctx, ref)
	if err != nil {
		return nil, err
	}

	names, err := s.zoneNames(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]types.TrackedRequest, 0, len(requests))
	for _, request := range requests {
		results = append(results, types.TrackedRequest{Request: request, ZoneName: names[request.ZoneID]})
	}

	return results, nil
}

// Detail gathers the request with its zone, the zone clearance it cites,
// its uploaded files and its event history.
func (s *Service) Detail(ctx context.Context, requestID string) (*types.RequestDetail, error) {
	request, err := s.requests.Request(ctx, requestID)
	if err != nil {
		return nil, err
	}

	detail := &types.RequestDetail{Request: request}

	detail.Zone, err = s.zones.Zone(ctx, request.ZoneID)
	if err != nil && !errors.Is(err, types.ErrZoneNotFound) {
		return nil, err
	}

	if ref := utils.PtrString(request.ZoneClearanceReference); ref != "" {
		cited, err := s.requests.RequestsByReference(ctx, ref)
		if err != nil {
			return nil, err
		}
		for _, c := range cited {
			if c.DocumentType == types.DocumentTypeZoneClearance {
				detail.ZoneClearance = c
				break
			}
		}
	}

	if detail.ProofFile, err = s.fileMetadata(ctx, request.ZoneClearanceFileID); err != nil {
		return nil, err
	}
	if detail.ValidIDFile, err = s.fileMetadata(ctx, request.ValidIDFileID); err != nil {
		return nil, err
	}

	detail.Events, err = s.events.EventsByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	return detail, nil
}

func (s *Service) fileMetadata(ctx context.Context, id *string) (*types.StoredFile, error) {
	if id == nil || *id == "" {
		return nil, nil
	}

	file, err := s.files.Metadata(ctx, *id)
	if errors.Is(err, types.ErrFileNotFound) {
		return nil, nil
	}
	return file, err
}

func (s *Service) zoneNames(ctx context.Context) (map[string]string, error) {
	zones, err := s.zones.Zones(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(zones))
	for _, zone := range zones {
		names[zone.ID] = zone.ZoneName
	}
	return names, nil
}

func uploadError(field string, err error) error {
	switch {
	case errors.Is(err, types.ErrFileTooLarge):
		return types.NewValidationError(field, "File is too large.")
	case errors.Is(err, types.ErrUnsupportedFileType):
		return types.NewValidationError(field, "Upload a PDF or an image (JPEG, PNG, WebP, HEIC).")
	default:
		return err
	}
}
