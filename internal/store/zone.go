package store

import (
	"barangay/internal/utils"
	"barangay/pkg/types"
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const zoneTableName = "zones"

var zoneColumns = utils.StructTagValues(types.Zone{})

type ZoneRepository struct {
	db DB
}

func NewZoneRepository(db DB) *ZoneRepository {
	return &ZoneRepository{db: db}
}

// Zones returns every zone ordered by zone number.
func (r *ZoneRepository) Zones(ctx context.Context) ([]*types.Zone, error) {
	query, args, err := r.db.Builder().
		Select(zoneColumns...).
		From(zoneTableName).
		OrderBy("zone_number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate zones query: %w", err)
	}

	var zones = make([]*types.Zone, 0)
	err = r.db.Select(ctx, &zones, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch zones: %w", err)
	}

	return zones, nil
}

func (r *ZoneRepository) Zone(ctx context.Context, id string) (*types.Zone, error) {
	query, args, err := r.db.Builder().
		Select(zoneColumns...).
		From(zoneTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate zone query: %w", err)
	}

	var zone types.Zone
	err = r.db.Get(ctx, &zone, query, args...)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, types.ErrZoneNotFound
		}
		return nil, fmt.Errorf("failed to fetch zone: %w", err)
	}

	return &zone, nil
}

// UpsertZone inserts the zone or overwrites the row with the same ID.
func (r *ZoneRepository) UpsertZone(ctx context.Context, zone *types.Zone) error {
	if zone.CreatedAt.IsZero() {
		zone.CreatedAt = time.Now().UTC()
	}

	query, args, err := r.db.Builder().
		Insert(zoneTableName).
		Columns(zoneColumns...).
		Values(
			zone.ID,
			zone.ZoneNumber,
			zone.ZoneName,
			zone.ZoneLeader,
			zone.LeaderContact,
			zone.CreatedAt,
		).
		Suffix("ON CONFLICT (id) DO UPDATE SET zone_number = EXCLUDED.zone_number, zone_name = EXCLUDED.zone_name, zone_leader = EXCLUDED.zone_leader, leader_contact = EXCLUDED.leader_contact").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert zone query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert zone %s: %w", zone.ID, err)
	}

	return nil
}
