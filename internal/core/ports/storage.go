package ports

import (
	"context"

	"github.com/lcalzada-xor/probesentinel/internal/core/domain"
)

// Storage is the sighting store: the only component allowed to mutate
// Device, Sighting, Fingerprint, and Identity rows. The ingest core reads
// fingerprint state but writes exclusively through LogSighting.
type Storage interface {
	// LogSighting executes the ordering-critical path of spec §4.4 step 2-3:
	// update the device's last_seen, read the fingerprint row as it existed
	// before this call, upsert the fingerprint, then insert the sighting —
	// all inside one transaction. It returns the pre-update fingerprint
	// snapshot (nil on first sighting of a fingerprint, or when the
	// sighting carries no fingerprint).
	LogSighting(ctx context.Context, s domain.SightingDTO) (*domain.Fingerprint, error)

	GetFingerprint(ctx context.Context, fingerprintID string) (*domain.Fingerprint, error)
	DisableFingerprintNotifications(ctx context.Context, fingerprintID string) error
	SetFingerprintAlias(ctx context.Context, fingerprintID, alias string) (string, error)
	LinkFingerprint(ctx context.Context, fingerprintID, identityID string) error

	CreateIdentity(ctx context.Context, identityID, alias string, fingerprintIDs []string) (*domain.Identity, error)
	UpdateAlias(ctx context.Context, identityID, alias string) (*domain.Identity, error)
	GetIdentity(ctx context.Context, identityID string) (*domain.Identity, error)
	GetAllIdentities(ctx context.Context) ([]domain.Identity, error)

	GetDevice(ctx context.Context, mac string) (*domain.Device, error)
	GetAllDevices(ctx context.Context, trusted *bool) ([]domain.Device, error)
	GetTrustedDeviceMACs(ctx context.Context) ([]string, error)

	GetSightings(ctx context.Context, mac string, limit, offset int, order string) ([]domain.Sighting, int64, error)

	Close() error
}
