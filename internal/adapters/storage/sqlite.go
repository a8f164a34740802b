// Package storage implements ports.Storage on top of GORM and SQLite,
// grounded on the teacher's SQLiteAdapter: WAL journaling, a busy timeout in
// place of a connection pool, and the gorm/opentelemetry tracing plugin.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/lcalzada-xor/probesentinel/internal/core/domain"
	"github.com/lcalzada-xor/probesentinel/internal/core/ports"
)

var tracer = otel.Tracer("probesentinel/storage")

// SQLiteStore is the sole writer of Device, Sighting, Fingerprint, and
// Identity rows.
type SQLiteStore struct {
	db    *gorm.DB
	clock ports.Clock
}

// Open connects to a SQLite database at path, applying the pragmas the
// single-writer model in spec §5 depends on, bootstrapping the schema, and
// installing OpenTelemetry tracing on every query GORM issues.
func Open(path string, clock ports.Clock) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("storage: pragma %q: %w", pragma, err)
		}
	}

	if err := db.Use(tracing.NewPlugin()); err != nil {
		return nil, fmt.Errorf("storage: install tracing plugin: %w", err)
	}

	// SQLite is single-writer; one pooled connection avoids SQLITE_BUSY
	// between this store's own connections and keeps an in-memory database from silently
	// fanning out to multiple independent databases.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("storage: underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&deviceModel{}, &sightingModel{}, &fingerprintModel{}, &identityModel{}); err != nil {
		return nil, fmt.Errorf("storage: migrate schema: %w", err)
	}
	if err := createIndexes(db); err != nil {
		return nil, fmt.Errorf("storage: create indexes: %w", err)
	}

	if clock == nil {
		clock = ports.RealClock{}
	}
	return &SQLiteStore{db: db, clock: clock}, nil
}

// createIndexes adds the indexes named in spec §6 beyond what AutoMigrate's
// struct tags already cover, the same belt-and-suspenders approach the
// teacher's adapter takes for stores that predate a given column or index.
func createIndexes(db *gorm.DB) error {
	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_sightings_timestamp ON sightings(timestamp)",
		"CREATE INDEX IF NOT EXISTS idx_sightings_mac ON sightings(mac)",
		"CREATE INDEX IF NOT EXISTS idx_sightings_ie_fingerprint ON sightings(ie_fingerprint)",
		"CREATE INDEX IF NOT EXISTS idx_sightings_identity_id ON sightings(identity_id)",
		"CREATE INDEX IF NOT EXISTS idx_devices_is_trusted ON devices(is_trusted)",
		"CREATE INDEX IF NOT EXISTS idx_fingerprints_identity_id ON device_fingerprints(identity_id)",
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LogSighting implements the ordering-critical transaction from spec §4.4:
// update the device's last_seen, read the fingerprint row as it stood before
// this call, upsert the fingerprint, then insert the sighting. The
// fingerprint read uses a row lock so the read-before-write is serializable
// against concurrent writers touching the same fingerprint_id.
func (s *SQLiteStore) LogSighting(ctx context.Context, dto domain.SightingDTO) (*domain.Fingerprint, error) {
	ctx, span := tracer.Start(ctx, "storage.LogSighting")
	defer span.End()

	now := s.clock.Now().UTC().Truncate(time.Second)
	var oldFP *domain.Fingerprint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertDeviceLastSeen(tx, dto.MAC, now); err != nil {
			return fmt.Errorf("update device last_seen: %w", err)
		}

		hasFingerprint := dto.IEFingerprint != "" && dto.IEFingerprint != domain.NoStableIEs
		if hasFingerprint {
			var err error
			oldFP, err = readFingerprintForUpdate(tx, dto.IEFingerprint)
			if err != nil {
				return fmt.Errorf("read fingerprint: %w", err)
			}
			if err := upsertFingerprint(tx, dto.IEFingerprint, ieDataJSON(dto.IEData), now); err != nil {
				return fmt.Errorf("upsert fingerprint: %w", err)
			}
		}

		row := sightingModel{
			Timestamp: now,
			MAC:       dto.MAC,
			DBM:       dto.DBM,
			RSSI:      fmt.Sprintf("%d dBm", dto.DBM),
			SSID:      dto.SSID,
			OUI:       dto.OUI,
		}
		if hasFingerprint {
			row.IEFingerprint = &dto.IEFingerprint
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("insert sighting: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.StoreError{Op: "LogSighting", Err: err}
	}
	return oldFP, nil
}

func upsertDeviceLastSeen(tx *gorm.DB, mac string, now time.Time) error {
	var existing deviceModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("mac = ?", mac).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Create(&deviceModel{MAC: mac, IsTrusted: false, FirstSeen: now, LastSeen: now}).Error
	case err != nil:
		return err
	default:
		return tx.Model(&deviceModel{}).Where("mac = ?", mac).Update("last_seen", now).Error
	}
}

// readFingerprintForUpdate returns the fingerprint row as it exists right
// now, locked against concurrent writers, or nil if no such row exists yet.
// The caller must perform its upsert inside the same transaction so the
// lock covers both the read and the write.
func readFingerprintForUpdate(tx *gorm.DB, fingerprintID string) (*domain.Fingerprint, error) {
	var row fingerprintModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("fingerprint_id = ?", fingerprintID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDomainFingerprint(row), nil
}

func upsertFingerprint(tx *gorm.DB, fingerprintID, ieDump string, now time.Time) error {
	row := fingerprintModel{
		FingerprintID:       fingerprintID,
		IEData:              ieDump,
		FirstSeen:           now,
		LastSeen:            now,
		SightingCount:       1,
		NotificationEnabled: true,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fingerprint_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_seen":      now,
			"sighting_count": gorm.Expr("sighting_count + 1"),
		}),
	}).Create(&row).Error
}

func (s *SQLiteStore) GetFingerprint(ctx context.Context, fingerprintID string) (*domain.Fingerprint, error) {
	var row fingerprintModel
	err := s.db.WithContext(ctx).Where("fingerprint_id = ?", fingerprintID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StoreError{Op: "GetFingerprint", Err: err}
	}
	return toDomainFingerprint(row), nil
}

func (s *SQLiteStore) DisableFingerprintNotifications(ctx context.Context, fingerprintID string) error {
	err := s.db.WithContext(ctx).Model(&fingerprintModel{}).
		Where("fingerprint_id = ?", fingerprintID).
		Update("notification_enabled", false).Error
	if err != nil {
		return &domain.StoreError{Op: "DisableFingerprintNotifications", Err: err}
	}
	return nil
}

// SetFingerprintAlias implements spec §4.4's set_fingerprint_alias: if the
// fingerprint already has an identity, update that identity's alias;
// otherwise create a new identity whose identity_id equals the
// fingerprint_id and link it. Returns the identity_id that now owns the
// alias.
func (s *SQLiteStore) SetFingerprintAlias(ctx context.Context, fingerprintID, alias string) (string, error) {
	now := s.clock.Now().UTC().Truncate(time.Second)
	var identityID string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var fp fingerprintModel
		if err := tx.Where("fingerprint_id = ?", fingerprintID).First(&fp).Error; err != nil {
			return err
		}

		if fp.IdentityID != nil {
			identityID = *fp.IdentityID
			return tx.Model(&identityModel{}).Where("identity_id = ?", identityID).
				Updates(map[string]interface{}{"alias": alias, "alias_set_at": now}).Error
		}

		identityID = fingerprintID
		identity := identityModel{
			IdentityID: identityID,
			Alias:      alias,
			AliasSetAt: &now,
			FirstSeen:  now,
			LastSeen:   now,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&identity).Error; err != nil {
			return err
		}
		return tx.Model(&fingerprintModel{}).Where("fingerprint_id = ?", fingerprintID).
			Update("identity_id", identityID).Error
	})
	if err != nil {
		return "", &domain.StoreError{Op: "SetFingerprintAlias", Err: err}
	}
	return identityID, nil
}

func (s *SQLiteStore) LinkFingerprint(ctx context.Context, fingerprintID, identityID string) error {
	err := s.db.WithContext(ctx).Model(&fingerprintModel{}).
		Where("fingerprint_id = ?", fingerprintID).
		Update("identity_id", identityID).Error
	if err != nil {
		return &domain.StoreError{Op: "LinkFingerprint", Err: err}
	}
	return nil
}

func (s *SQLiteStore) CreateIdentity(ctx context.Context, identityID, alias string, fingerprintIDs []string) (*domain.Identity, error) {
	now := s.clock.Now().UTC().Truncate(time.Second)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&identityModel{}).Where("identity_id = ?", identityID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrIdentityExists
		}
		identity := identityModel{
			IdentityID: identityID,
			Alias:      alias,
			FirstSeen:  now,
			LastSeen:   now,
		}
		if err := tx.Create(&identity).Error; err != nil {
			return err
		}
		if len(fingerprintIDs) > 0 {
			if err := tx.Model(&fingerprintModel{}).Where("fingerprint_id IN ?", fingerprintIDs).
				Update("identity_id", identityID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, domain.ErrIdentityExists) {
		return nil, domain.ErrIdentityExists
	}
	if err != nil {
		return nil, &domain.StoreError{Op: "CreateIdentity", Err: err}
	}
	return s.GetIdentity(ctx, identityID)
}

func (s *SQLiteStore) UpdateAlias(ctx context.Context, identityID, alias string) (*domain.Identity, error) {
	now := s.clock.Now().UTC().Truncate(time.Second)
	res := s.db.WithContext(ctx).Model(&identityModel{}).Where("identity_id = ?", identityID).
		Updates(map[string]interface{}{"alias": alias, "alias_set_at": now})
	if res.Error != nil {
		return nil, &domain.StoreError{Op: "UpdateAlias", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.GetIdentity(ctx, identityID)
}

func (s *SQLiteStore) GetIdentity(ctx context.Context, identityID string) (*domain.Identity, error) {
	var row identityModel
	err := s.db.WithContext(ctx).Where("identity_id = ?", identityID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StoreError{Op: "GetIdentity", Err: err}
	}
	return toDomainIdentity(row), nil
}

func (s *SQLiteStore) GetAllIdentities(ctx context.Context) ([]domain.Identity, error) {
	var rows []identityModel
	if err := s.db.WithContext(ctx).Order("last_seen DESC").Find(&rows).Error; err != nil {
		return nil, &domain.StoreError{Op: "GetAllIdentities", Err: err}
	}
	out := make([]domain.Identity, len(rows))
	for i, r := range rows {
		out[i] = *toDomainIdentity(r)
	}
	return out, nil
}

func (s *SQLiteStore) GetDevice(ctx context.Context, mac string) (*domain.Device, error) {
	var row deviceModel
	err := s.db.WithContext(ctx).Where("mac = ?", mac).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StoreError{Op: "GetDevice", Err: err}
	}
	return toDomainDevice(row), nil
}

func (s *SQLiteStore) GetAllDevices(ctx context.Context, trusted *bool) ([]domain.Device, error) {
	q := s.db.WithContext(ctx).Order("last_seen DESC")
	if trusted != nil {
		q = q.Where("is_trusted = ?", *trusted)
	}
	var rows []deviceModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, &domain.StoreError{Op: "GetAllDevices", Err: err}
	}
	out := make([]domain.Device, len(rows))
	for i, r := range rows {
		out[i] = *toDomainDevice(r)
	}
	return out, nil
}

func (s *SQLiteStore) GetTrustedDeviceMACs(ctx context.Context) ([]string, error) {
	var macs []string
	err := s.db.WithContext(ctx).Model(&deviceModel{}).Where("is_trusted = ?", true).Pluck("mac", &macs).Error
	if err != nil {
		return nil, &domain.StoreError{Op: "GetTrustedDeviceMACs", Err: err}
	}
	return macs, nil
}

func (s *SQLiteStore) GetSightings(ctx context.Context, mac string, limit, offset int, order string) ([]domain.Sighting, int64, error) {
	q := s.db.WithContext(ctx).Model(&sightingModel{})
	if mac != "" {
		q = q.Where("mac = ?", mac)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, &domain.StoreError{Op: "GetSightings", Err: err}
	}

	dir := "DESC"
	if order == "asc" {
		dir = "ASC"
	}

	var rows []sightingModel
	err := q.Order("timestamp " + dir).Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, 0, &domain.StoreError{Op: "GetSightings", Err: err}
	}
	out := make([]domain.Sighting, len(rows))
	for i, r := range rows {
		out[i] = toDomainSighting(r)
	}
	return out, total, nil
}
