package requests

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"barangay/internal/db"
	"barangay/internal/storage"
	"barangay/internal/store"
	"barangay/internal/utils"
	"barangay/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")
	admin    = types.AdminSession{AdminID: "admin-1", Email: "admin@barangay.gov.ph", FullName: "Barangay Administrator"}
)

type fixture struct {
	svc      *Service
	requests *store.RequestRepository
	events   *store.RequestEventRepository
	files    *store.FileRepository
	hook     *test.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	conn, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	storeDB := store.NewSQLiteDB(conn)
	require.NoError(t, store.Migrate(ctx, storeDB))

	zones := store.NewZoneRepository(storeDB)
	require.NoError(t, zones.UpsertZone(ctx, &types.Zone{ID: "zone-1", ZoneNumber: 1, ZoneName: "Zone 1 - Purok Uno"}))
	require.NoError(t, zones.UpsertZone(ctx, &types.Zone{ID: "zone-2", ZoneNumber: 2, ZoneName: "Zone 2 - Purok Dos"}))

	f := &fixture{
		requests: store.NewRequestRepository(storeDB),
		events:   store.NewRequestEventRepository(storeDB),
		files:    store.NewFileRepository(storeDB),
	}

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	f.hook = hook

	files := storage.NewService(f.files, storage.NewDatabaseBlobs(f.files), 1<<20)
	manila := time.FixedZone("PHT", 8*60*60)

	f.svc = New(logger, f.requests, f.events, zones, files, manila)
	// 02:00 UTC on the 10th is 10:00 in Manila
	f.svc.now = func() time.Time { return time.Date(2024, 12, 10, 2, 0, 0, 0, time.UTC) }

	return f
}

func validForm() types.RequestForm {
	return types.RequestForm{
		FirstName:     "Juan",
		LastName:      "Dela Cruz",
		Age:           34,
		BirthDate:     time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		Address:       "123 Mabini St",
		ZoneID:        "zone-1",
		Contact:       "09171234567",
		Email:         "juan@example.com",
		MaritalStatus: types.MaritalStatusSingle,
		Purpose:       "Employment",
	}
}

func (f *fixture) submitZoneClearance(t *testing.T) *types.DocumentRequest {
	t.Helper()

	request, err := f.svc.Submit(context.Background(), types.Submission{
		DocumentType: types.DocumentTypeZoneClearance,
		Form:         validForm(),
	})
	require.NoError(t, err)
	return request
}

func (f *fixture) approvedZoneClearance(t *testing.T) *types.DocumentRequest {
	t.Helper()

	request := f.submitZoneClearance(t)
	approved, err := f.svc.Approve(context.Background(), request.ID, admin)
	require.NoError(t, err)
	return approved
}

func TestSubmitZoneClearance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	request := f.submitZoneClearance(t)

	assert.Regexp(t, `^ZC-20241210-\d{4}$`, request.ReferenceNumber)
	assert.Equal(t, types.RequestStatusPending, request.Status)
	assert.Equal(t, types.DocumentTypeZoneClearance, request.DocumentType)
	assert.False(t, request.HasZoneClearance)

	stored, err := f.requests.Request(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, request.ReferenceNumber, stored.ReferenceNumber)
	assert.Equal(t, types.RequestStatusPending, stored.Status)

	events, err := f.events.EventsByRequest(ctx, request.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, types.RequestStatusPending, events[0].Status)
	assert.Equal(t, "applicant", events[0].Actor)

	entry := f.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "document request submitted", entry.Message)
}

func TestTrackFindsExactlyTheSubmittedRequest(t *testing.T) {
	f := newFixture(t)
	request := f.submitZoneClearance(t)
	f.submitZoneClearance(t)

	results, err := f.svc.Track(context.Background(), request.ReferenceNumber)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, request.ID, results[0].Request.ID)
	assert.Equal(t, "Zone 1 - Purok Uno", results[0].ZoneName)

	results, err = f.svc.Track(context.Background(), "ZC-19990101-0000")
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = f.svc.Track(context.Background(), "  ")
	var validationErr *types.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "reference")
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t)

	form := validForm()
	form.FirstName = "  "
	form.Age = 0
	form.Email = "not-an-email"
	form.MaritalStatus = "complicated"

	_, err := f.svc.Submit(context.Background(), types.Submission{DocumentType: types.DocumentTypeZoneClearance, Form: form})

	var validationErr *types.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "first_name")
	assert.Contains(t, validationErr.Fields, "age")
	assert.Contains(t, validationErr.Fields, "email")
	assert.Contains(t, validationErr.Fields, "marital_status")
	assert.NotContains(t, validationErr.Fields, "last_name")
}

func TestSubmitUnknownZone(t *testing.T) {
	f := newFixture(t)

	form := validForm()
	form.ZoneID = "zone-99"

	_, err := f.svc.Submit(context.Background(), types.Submission{DocumentType: types.DocumentTypeZoneClearance, Form: form})

	var validationErr *types.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "zone_id")
}

func TestDependentDocumentsRequireApprovedZoneClearance(t *testing.T) {
	for _, docType := range []types.DocumentType{types.DocumentTypeIndigency, types.DocumentTypeClearance} {
		t.Run(string(docType), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			// no reference at all
			_, err := f.svc.Submit(ctx, types.Submission{DocumentType: docType, Form: validForm()})
			assert.ErrorIs(t, err, types.ErrZoneClearanceRequired)

			// a pending clearance is not enough
			pending := f.submitZoneClearance(t)
			form := validForm()
			form.ZoneClearanceReference = pending.ReferenceNumber
			_, err = f.svc.Submit(ctx, types.Submission{DocumentType: docType, Form: form})
			assert.ErrorIs(t, err, types.ErrZoneClearanceRequired)

			// nothing was written for the rejected submissions
			all, err := f.requests.Requests(ctx, types.RequestFilter{})
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestSubmitWithApprovedZoneClearance(t *testing.T) {
	f := newFixture(t)
	clearance := f.approvedZoneClearance(t)

	form := validForm()
	form.ZoneClearanceReference = " " + strings.ToLower(clearance.ReferenceNumber) + " "
	form.Purpose = "Scholarship application"

	request, err := f.svc.Submit(context.Background(), types.Submission{DocumentType: types.DocumentTypeIndigency, Form: form})
	require.NoError(t, err)

	assert.Regexp(t, `^BI-20241210-\d{4}$`, request.ReferenceNumber)
	assert.True(t, request.HasZoneClearance)
	assert.Equal(t, clearance.ReferenceNumber, utils.PtrString(request.ZoneClearanceReference))
	assert.Equal(t, types.RequestStatusPending, request.Status)
}

func TestVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Verify(ctx, types.VerificationQuery{Reference: "   "})
	var validationErr *types.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	pending := f.submitZoneClearance(t)
	_, err = f.svc.Verify(ctx, types.VerificationQuery{Reference: pending.ReferenceNumber})
	assert.ErrorIs(t, err, types.ErrZoneClearanceNotFound)

	_, err = f.svc.Approve(ctx, pending.ID, admin)
	require.NoError(t, err)

	got, err := f.svc.Verify(ctx, types.VerificationQuery{Reference: pending.ReferenceNumber})
	require.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)

	got, err = f.svc.Verify(ctx, types.VerificationQuery{Email: " juan@example.com "})
	require.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)
}

func TestApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	request := f.submitZoneClearance(t)

	approved, err := f.svc.Approve(ctx, request.ID, admin)
	require.NoError(t, err)

	assert.Equal(t, types.RequestStatusApproved, approved.Status)
	require.NotNil(t, approved.ProcessedAt)
	assert.Nil(t, approved.RejectionReason)
	assert.Equal(t, admin.FullName, utils.PtrString(approved.ProcessedBy))

	_, err = f.svc.Approve(ctx, request.ID, admin)
	assert.ErrorIs(t, err, types.ErrInvalidTransition)

	_, err = f.svc.Reject(ctx, request.ID, admin, "too late")
	assert.ErrorIs(t, err, types.ErrInvalidTransition)

	events, err := f.events.EventsByRequest(ctx, request.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, types.RequestStatusApproved, events[1].Status)
	assert.Equal(t, admin.Email, events[1].Actor)

	_, err = f.svc.Approve(ctx, "missing", admin)
	assert.ErrorIs(t, err, types.ErrRequestNotFound)
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	request := f.submitZoneClearance(t)

	_, err := f.svc.Reject(ctx, request.ID, admin, "  ")
	assert.ErrorIs(t, err, types.ErrRejectionReasonRequired)

	stored, err := f.requests.Request(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RequestStatusPending, stored.Status)

	rejected, err := f.svc.Reject(ctx, request.ID, admin, " Address outside the barangay ")
	require.NoError(t, err)
	assert.Equal(t, types.RequestStatusRejected, rejected.Status)
	assert.Equal(t, "Address outside the barangay", utils.PtrString(rejected.RejectionReason))
	assert.NotNil(t, rejected.ProcessedAt)

	events, err := f.events.EventsByRequest(ctx, request.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Address outside the barangay", utils.PtrString(events[1].Note))
}

func TestSubmitStoresUploads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	form := validForm()
	form.HasZoneClearance = true

	request, err := f.svc.Submit(ctx, types.Submission{
		DocumentType: types.DocumentTypeZoneClearance,
		Form:         form,
		ProofFile:    &types.Upload{FileName: "old-clearance.pdf", Data: pdfBytes},
		ValidIDFile:  &types.Upload{FileName: "id.pdf", Data: pdfBytes},
	})
	require.NoError(t, err)
	require.NotNil(t, request.ZoneClearanceFileID)
	require.NotNil(t, request.ValidIDFileID)

	file, err := f.files.File(ctx, *request.ZoneClearanceFileID)
	require.NoError(t, err)
	assert.Equal(t, "old-clearance.pdf", file.FileName)
	assert.Equal(t, "application/pdf", file.MimeType)

	detail, err := f.svc.Detail(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.ProofFile)
	require.NotNil(t, detail.ValidIDFile)
	assert.Equal(t, "id.pdf", detail.ValidIDFile.FileName)
}

func TestSubmitIgnoresProofWithoutDeclaration(t *testing.T) {
	f := newFixture(t)

	request, err := f.svc.Submit(context.Background(), types.Submission{
		DocumentType: types.DocumentTypeZoneClearance,
		Form:         validForm(),
		ProofFile:    &types.Upload{FileName: "old-clearance.pdf", Data: pdfBytes},
	})
	require.NoError(t, err)
	assert.Nil(t, request.ZoneClearanceFileID)
}

func TestSubmitRejectsUnsupportedUpload(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), types.Submission{
		DocumentType: types.DocumentTypeZoneClearance,
		Form:         validForm(),
		ValidIDFile:  &types.Upload{FileName: "notes.txt", Data: []byte("just some text")},
	})

	var validationErr *types.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "valid_id_file")
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	clearance := f.approvedZoneClearance(t)
	second := f.submitZoneClearance(t)
	_, err := f.svc.Reject(ctx, second.ID, admin, "Duplicate")
	require.NoError(t, err)
	f.submitZoneClearance(t)

	rows, counts, err := f.svc.Dashboard(ctx, types.RequestFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, types.StatusCounts{Total: 3, Pending: 1, Approved: 1, Rejected: 1}, counts)
	assert.Equal(t, "Zone 1 - Purok Uno", rows[0].ZoneName)

	rows, counts, err = f.svc.Dashboard(ctx, types.RequestFilter{Status: types.RequestStatusApproved})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, clearance.ID, rows[0].Request.ID)
	assert.Equal(t, 3, counts.Total, "counts ignore the filter")

	// an unknown status shows everything
	rows, _, err = f.svc.Dashboard(ctx, types.RequestFilter{Status: "archived"})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestDetailCrossReferencesClearance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clearance := f.approvedZoneClearance(t)

	form := validForm()
	form.ZoneClearanceReference = clearance.ReferenceNumber
	request, err := f.svc.Submit(ctx, types.Submission{DocumentType: types.DocumentTypeClearance, Form: form})
	require.NoError(t, err)

	detail, err := f.svc.Detail(ctx, request.ID)
	require.NoError(t, err)

	require.NotNil(t, detail.Zone)
	assert.Equal(t, "zone-1", detail.Zone.ID)
	require.NotNil(t, detail.ZoneClearance)
	assert.Equal(t, clearance.ID, detail.ZoneClearance.ID)
	assert.Nil(t, detail.ProofFile)
	assert.Len(t, detail.Events, 1)

	_, err = f.svc.Detail(ctx, "missing")
	assert.True(t, errors.Is(err, types.ErrRequestNotFound))
}
