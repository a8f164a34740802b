package storage

import (
	"encoding/json"

	"github.com/lcalzada-xor/probesentinel/internal/core/domain"
)

// ieDataJSON serializes the full (stable + excluded) IE list for the
// fingerprint's ie_data forensics column. Marshal failure is treated as "no
// dump available" rather than aborting the sighting write.
func ieDataJSON(ies []domain.InformationElement) string {
	if len(ies) == 0 {
		return "[]"
	}
	b, err := json.Marshal(ies)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func toDomainFingerprint(row fingerprintModel) *domain.Fingerprint {
	return &domain.Fingerprint{
		FingerprintID:       row.FingerprintID,
		IEData:              row.IEData,
		FirstSeen:           row.FirstSeen,
		LastSeen:            row.LastSeen,
		SightingCount:       row.SightingCount,
		NotificationEnabled: row.NotificationEnabled,
		IdentityID:          row.IdentityID,
	}
}

func toDomainIdentity(row identityModel) *domain.Identity {
	return &domain.Identity{
		IdentityID:     row.IdentityID,
		Alias:          row.Alias,
		AliasSetAt:     row.AliasSetAt,
		SSIDSignature:  row.SSIDSignature,
		FirstSeen:      row.FirstSeen,
		LastSeen:       row.LastSeen,
		TotalSightings: row.TotalSightings,
	}
}

func toDomainDevice(row deviceModel) *domain.Device {
	return &domain.Device{
		MAC:       row.MAC,
		Name:      row.Name,
		IsTrusted: row.IsTrusted,
		FirstSeen: row.FirstSeen,
		LastSeen:  row.LastSeen,
	}
}

func toDomainSighting(row sightingModel) domain.Sighting {
	return domain.Sighting{
		ID:            row.ID,
		Timestamp:     row.Timestamp,
		MAC:           row.MAC,
		DBM:           row.DBM,
		RSSI:          row.RSSI,
		SSID:          row.SSID,
		OUI:           row.OUI,
		IEFingerprint: row.IEFingerprint,
		IdentityID:    row.IdentityID,
	}
}
