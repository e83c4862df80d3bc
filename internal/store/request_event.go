package store

import (
	"barangay/internal/utils"
	"barangay/pkg/types"
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const requestEventsTableName = "request_events"

var requestEventsColumns = utils.StructTagValues(types.RequestEvent{})

type RequestEventRepository struct {
	db DB
}

func NewRequestEventRepository(db DB) *RequestEventRepository {
	return &RequestEventRepository{db: db}
}

// RecordEvent logs a lifecycle event for a request
func (r *RequestEventRepository) RecordEvent(ctx context.Context, event *types.RequestEvent) error {
	event.ID = utils.NanoID()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	event.CreatedAt = event.CreatedAt.UTC()

	query, args, err := r.db.Builder().
		Insert(requestEventsTableName).
		SetMap(utils.StructToMap(event)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert request event query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to record request event")
}

// EventsByRequest returns all events for a request, ordered chronologically
func (r *RequestEventRepository) EventsByRequest(ctx context.Context, requestID string) ([]*types.RequestEvent, error) {
	query, args, err := r.db.Builder().
		Select(requestEventsColumns...).
		From(requestEventsTableName).
		Where(sq.Eq{"request_id": requestID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate get events query: %w", err)
	}

	var events = make([]*types.RequestEvent, 0)
	err = r.db.Select(ctx, &events, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to get request events")
	}

	return events, nil
}
