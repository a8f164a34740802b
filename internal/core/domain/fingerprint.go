package domain

import "time"

// Fingerprint is the durable device handle: a deterministic hash over the
// stable IE multiset, resilient to MAC randomization. sighting_count is
// incremented once per upsert and must always equal the count of sightings
// carrying this fingerprint_id.
type Fingerprint struct {
	FingerprintID        string `gorm:"primaryKey;column:fingerprint_id"`
	IEData               string `gorm:"column:ie_data"` // JSON dump, forensics only
	FirstSeen            time.Time `gorm:"not null"`
	LastSeen             time.Time `gorm:"not null"`
	SightingCount        int       `gorm:"not null;default:1"`
	NotificationEnabled  bool      `gorm:"not null;default:true"`
	IdentityID           *string   `gorm:"index;column:identity_id"`
}

func (Fingerprint) TableName() string { return "device_fingerprints" }
