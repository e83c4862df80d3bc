package seed

import (
	"barangay/pkg/types"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

type zoneUpserter interface {
	UpsertZone(ctx context.Context, zone *types.Zone) error
}

// DefaultZones is the source of truth for the barangay's zones. IDs are
// fixed so requests keep pointing at the same zone across re-seeds.
var DefaultZones = []types.Zone{
	{ID: "zone-1", ZoneNumber: 1, ZoneName: "Zone 1 - Purok Uno"},
	{ID: "zone-2", ZoneNumber: 2, ZoneName: "Zone 2 - Purok Dos"},
	{ID: "zone-3", ZoneNumber: 3, ZoneName: "Zone 3 - Purok Tres"},
	{ID: "zone-4", ZoneNumber: 4, ZoneName: "Zone 4 - Purok Kwatro"},
	{ID: "zone-5", ZoneNumber: 5, ZoneName: "Zone 5 - Purok Singko"},
	{ID: "zone-6", ZoneNumber: 6, ZoneName: "Zone 6 - Purok Seis"},
}

// SeedZones upserts every default zone. Running it again is a no-op apart
// from restoring edited names.
func SeedZones(ctx context.Context, logger logrus.FieldLogger, repo zoneUpserter) error {
	for _, zone := range DefaultZones {
		if err := repo.UpsertZone(ctx, &zone); err != nil {
			return fmt.Errorf("failed to upsert zone %s: %w", zone.ID, err)
		}
	}

	logger.WithField("count", len(DefaultZones)).Info("zones seeded")
	return nil
}
