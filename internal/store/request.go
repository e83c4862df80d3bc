package store

import (
	"barangay/internal/utils"
	"barangay/pkg/types"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const requestTableName = "document_requests"

var requestColumns = utils.StructTagValues(types.DocumentRequest{})

type RequestRepository struct {
	db DB
}

func NewRequestRepository(db DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Request(ctx context.Context, requestID string) (*types.DocumentRequest, error) {

	query, args, err := r.db.Builder().Select(requestColumns...).From(requestTableName).
		Where(sq.Eq{"id": requestID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request query: %w", err)
	}

	var request = new(types.DocumentRequest)
	err = r.db.Get(ctx, request, query, args...)
	if errors.Is(err, ErrNoRows) {
		return nil, types.ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch request %s: %w", requestID, err)
	}

	return request, nil
}

// Requests lists requests newest-first, narrowed by the filter's status and
// case-insensitive free-text search across name, email and reference number.
func (r *RequestRepository) Requests(ctx context.Context, filter types.RequestFilter) ([]*types.DocumentRequest, error) {

	builder := r.db.Builder().Select(requestColumns...).From(requestTableName).
		OrderBy("request_date DESC")

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}

	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		pattern := "%" + search + "%"
		builder = builder.Where(sq.Or{
			sq.Like{"LOWER(first_name)": pattern},
			sq.Like{"LOWER(last_name)": pattern},
			sq.Like{"LOWER(email)": pattern},
			sq.Like{"LOWER(reference_number)": pattern},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate requests query: %w", err)
	}

	var requests = make([]*types.DocumentRequest, 0)
	err = r.db.Select(ctx, &requests, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requests: %w", err)
	}

	return requests, nil
}

// RequestsByReference returns every request whose reference number equals
// ref, ignoring case.
func (r *RequestRepository) RequestsByReference(ctx context.Context, ref string) ([]*types.DocumentRequest, error) {

	query, args, err := r.db.Builder().Select(requestColumns...).From(requestTableName).
		Where(sq.Eq{"LOWER(reference_number)": strings.ToLower(strings.TrimSpace(ref))}).
		OrderBy("request_date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reference query: %w", err)
	}

	var requests = make([]*types.DocumentRequest, 0)
	err = r.db.Select(ctx, &requests, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requests by reference: %w", err)
	}

	return requests, nil
}

func (r *RequestRepository) ReferenceExists(ctx context.Context, ref string) (bool, error) {
	requests, err := r.RequestsByReference(ctx, ref)
	if err != nil {
		return false, err
	}
	return len(requests) > 0, nil
}

// ApprovedZoneClearance finds the newest approved zone clearance matching
// the query. Reference numbers match case-insensitively, email and phone
// match exactly.
func (r *RequestRepository) ApprovedZoneClearance(ctx context.Context, q types.VerificationQuery) (*types.DocumentRequest, error) {

	builder := r.db.Builder().Select(requestColumns...).From(requestTableName).
		Where(sq.Eq{
			"document_type": types.DocumentTypeZoneClearance,
			"status":        types.RequestStatusApproved,
		}).
		OrderBy("request_date DESC").
		Limit(1)

	switch {
	case q.Reference != "":
		builder = builder.Where(sq.Eq{"LOWER(reference_number)": strings.ToLower(q.Reference)})
	case q.Email != "":
		builder = builder.Where(sq.Eq{"email": q.Email})
	case q.Phone != "":
		builder = builder.Where(sq.Eq{"contact": q.Phone})
	default:
		return nil, types.ErrZoneClearanceNotFound
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate zone clearance query: %w", err)
	}

	var request = new(types.DocumentRequest)
	err = r.db.Get(ctx, request, query, args...)
	if errors.Is(err, ErrNoRows) {
		return nil, types.ErrZoneClearanceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch approved zone clearance: %w", err)
	}

	return request, nil
}

// CreateRequest inserts the request as pending. The caller supplies the
// reference number; ID and request date are assigned here.
func (r *RequestRepository) CreateRequest(ctx context.Context, request *types.DocumentRequest) error {

	request.ID = utils.NanoID()
	request.Status = types.RequestStatusPending
	request.RejectionReason = nil
	request.ProcessedBy = nil
	request.ProcessedAt = nil
	request.UpdatedAt = nil
	if request.RequestDate.IsZero() {
		request.RequestDate = time.Now()
	}
	request.RequestDate = request.RequestDate.UTC()

	query, args, err := r.db.Builder().Insert(requestTableName).SetMap(utils.StructToMap(request)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert request query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create request")

}

// UpdateRequest merges the non-nil patch fields into the row, stamps
// updated_at and returns the updated request. With ExpectStatus set the
// update only applies while the row still has that status.
func (r *RequestRepository) UpdateRequest(ctx context.Context, requestID string, patch types.RequestPatch) (*types.DocumentRequest, error) {

	set := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.RejectionReason != nil {
		set["rejection_reason"] = *patch.RejectionReason
	}
	if patch.ProcessedBy != nil {
		set["processed_by"] = *patch.ProcessedBy
	}
	if patch.ProcessedAt != nil {
		set["processed_at"] = patch.ProcessedAt.UTC()
	}

	where := sq.Eq{"id": requestID}
	if patch.ExpectStatus != nil {
		where["status"] = *patch.ExpectStatus
	}

	query, args, err := r.db.Builder().Update(requestTableName).SetMap(set).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate update request query for request %s: %w", requestID, err)
	}

	affected, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update request %s: %w", requestID, err)
	}

	updated, err := r.Request(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if affected == 0 {
		return nil, types.ErrInvalidTransition
	}

	return updated, nil

}

type statusCount struct {
	Status types.RequestStatus `db:"status"`
	Count  int                 `db:"count"`
}

func (r *RequestRepository) CountByStatus(ctx context.Context) (types.StatusCounts, error) {

	query, args, err := r.db.Builder().Select("status", "COUNT(*) AS count").From(requestTableName).
		GroupBy("status").
		ToSql()
	if err != nil {
		return types.StatusCounts{}, fmt.Errorf("failed to generate status count query: %w", err)
	}

	var rows []statusCount
	err = r.db.Select(ctx, &rows, query, args...)
	if err != nil {
		return types.StatusCounts{}, fmt.Errorf("failed to count requests by status: %w", err)
	}

	var counts types.StatusCounts
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case types.RequestStatusPending:
			counts.Pending = row.Count
		case types.RequestStatusApproved:
			counts.Approved = row.Count
		case types.RequestStatusRejected:
			counts.Rejected = row.Count
		}
	}

	return counts, nil
}
