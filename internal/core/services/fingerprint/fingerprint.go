// Package fingerprint computes the stable IE fingerprint that identifies a
// device across MAC address randomization.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/lcalzada-xor/probesentinel/internal/core/domain"
)

// excludedIEs are the information elements dropped before fingerprinting
// because they vary sighting-to-sighting and would defeat the purpose of a
// stable handle: SSID (0) changes per probed network, DS Parameter Set (3)
// reflects whatever channel the frame happened to be sent on, and Vendor
// Specific (221) carries randomized or session-scoped vendor payloads.
var excludedIEs = map[uint8]bool{
	0:   true,
	3:   true,
	221: true,
}

// truncateLen is the number of hex characters kept from the SHA-256 digest.
const truncateLen = 16

// Calculate derives the deterministic fingerprint ID for a set of
// information elements. It excludes volatile IEs, builds a canonical
// "id:len:hexdata" token per remaining IE, sorts the tokens, joins them with
// "|", and hashes the result with SHA-256, truncated to 16 hex characters.
//
// If no IEs survive exclusion, Calculate returns domain.NoStableIEs — such
// probes carry nothing that can distinguish one device from another and must
// not be upserted into device_fingerprints.
func Calculate(ies []domain.InformationElement) string {
	tokens := make([]string, 0, len(ies))
	for _, ie := range ies {
		if excludedIEs[ie.ID] {
			continue
		}
		tokens = append(tokens, fmt.Sprintf("%d:%d:%s", ie.ID, ie.Len, hex.EncodeToString(ie.Data)))
	}
	if len(tokens) == 0 {
		return domain.NoStableIEs
	}
	sort.Strings(tokens)
	joined := strings.Join(tokens, "|")
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])[:truncateLen]
}
