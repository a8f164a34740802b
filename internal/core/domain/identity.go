package domain

import "time"

// Identity is a user-labeled logical device: zero or more Fingerprints
// grouped under one alias. It has no FK back to its fingerprints;
// membership is discovered by querying device_fingerprints.identity_id.
type Identity struct {
	IdentityID     string `gorm:"primaryKey;column:identity_id"`
	Alias          string
	AliasSetAt     *time.Time
	SSIDSignature  string `gorm:"column:ssid_signature"` // JSON array
	FirstSeen      time.Time `gorm:"not null"`
	LastSeen       time.Time `gorm:"not null"`
	TotalSightings int
}

func (Identity) TableName() string { return "device_identities" }
