package domain

import "time"

// Device is an ephemeral, MAC-keyed row. Under address randomization it is
// low value on its own — the Fingerprint is the durable handle — but every
// sighting still needs a parent row for the foreign key.
type Device struct {
	MAC       string `gorm:"primaryKey;column:mac"`
	Name      string
	IsTrusted bool
	FirstSeen time.Time `gorm:"not null"`
	LastSeen  time.Time `gorm:"not null"`
}

func (Device) TableName() string { return "devices" }
