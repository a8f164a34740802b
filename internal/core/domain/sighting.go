package domain

import "time"

// NoStableIEs is the fingerprint sentinel returned when a probe carried no
// IEs outside the excluded set; such sightings are written with a null
// ie_fingerprint and never reach the arrival gate.
const NoStableIEs = "no_stable_ies"

// UndirectedProbe is the SSID value stored when a probe request's SSID
// field is absent, empty, or contains a NUL byte.
const UndirectedProbe = "Undirected Probe"

// MissingSignal is the sentinel dBm value when radiotap carried no
// antenna-signal field.
const MissingSignal = -255

// Sighting is an append-only observation of one probe request. Nothing
// about a Sighting is ever mutated after insert.
type Sighting struct {
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

func (Sighting) TableName() string { return "sightings" }

// SightingDTO is what the ingest pipeline hands to the store; it carries
// the full IE dump alongside the derived fingerprint so upsert_fingerprint
// never has to re-walk the probe.
type SightingDTO struct {
	MAC           string
	DBM           int
	SSID          string
	OUI           string
	IEFingerprint string // "" or NoStableIEs when no fingerprint applies
	IEData        []InformationElement
}
