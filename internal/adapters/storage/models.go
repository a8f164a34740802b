package storage

import "time"

// deviceModel mirrors domain.Device with GORM tags; kept separate from the
// domain package so the persistence shape can drift from the domain shape
// without forcing GORM tags onto core types.
type deviceModel struct {
	MAC       string `gorm:"primaryKey;column:mac"`
	Name      string
	IsTrusted bool
	FirstSeen time.Time `gorm:"not null"`
	LastSeen  time.Time `gorm:"not null;index"`
}

func (deviceModel) TableName() string { return "devices" }

type sightingModel struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	Timestamp     time.Time `gorm:"not null;index"`
	MAC           string    `gorm:"not null;index;column:mac"`
	DBM           int       `gorm:"column:dbm"`
	RSSI          string    `gorm:"column:rssi"`
	SSID          string
	OUI           string
	IEFingerprint *string `gorm:"index;column:ie_fingerprint"`
	IdentityID    *string `gorm:"index;column:identity_id"`
}

func (sightingModel) TableName() string { return "sightings" }

type fingerprintModel struct {
	FingerprintID       string    `gorm:"primaryKey;column:fingerprint_id"`
	IEData              string    `gorm:"column:ie_data"`
	FirstSeen           time.Time `gorm:"not null"`
	LastSeen            time.Time `gorm:"not null"`
	SightingCount       int       `gorm:"not null;default:1"`
	NotificationEnabled bool      `gorm:"not null;default:true"`
	IdentityID          *string   `gorm:"index;column:identity_id"`
}

func (fingerprintModel) TableName() string { return "device_fingerprints" }

type identityModel struct {
	IdentityID     string `gorm:"primaryKey;column:identity_id"`
	Alias          string
	AliasSetAt     *time.Time
	SSIDSignature  string `gorm:"column:ssid_signature"`
	FirstSeen      time.Time `gorm:"not null"`
	LastSeen       time.Time `gorm:"not null"`
	TotalSightings int
}

func (identityModel) TableName() string { return "device_identities" }
