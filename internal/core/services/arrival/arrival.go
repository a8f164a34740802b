// Package arrival implements the notifier gate: given the fingerprint row as
// it existed before the current sighting's upsert, decide whether this
// sighting represents an arrival worth notifying about.
package arrival

import (
	"time"

	"github.com/lcalzada-xor/probesentinel/internal/core/domain"
)

// spamGuardThreshold is the sighting_count above which a fingerprint is
// assumed to be a saturating beacon (neighborhood IoT, not a human arriving)
// and is never notified again regardless of gap.
const spamGuardThreshold = 100

// returningGap is the minimum time since last_seen for a repeat sighting to
// count as a "returning" arrival rather than noise from an already-present
// device.
const returningGap = 10 * time.Minute

// Decide evaluates the rules in order against the fingerprint row as it
// existed before this sighting's upsert. oldFP is nil exactly when this
// sighting introduced a brand new fingerprint_id.
func Decide(oldFP *domain.Fingerprint, now time.Time) domain.ArrivalDecision {
	if oldFP == nil {
		return domain.ArrivalDecision{ShouldNotify: true, Kind: domain.NotificationNew}
	}
	if !oldFP.NotificationEnabled {
		return domain.ArrivalDecision{ShouldNotify: false, Kind: domain.NotificationNone}
	}
	if oldFP.SightingCount > spamGuardThreshold {
		return domain.ArrivalDecision{ShouldNotify: false, Kind: domain.NotificationNone}
	}
	if now.Sub(oldFP.LastSeen) >= returningGap {
		return domain.ArrivalDecision{ShouldNotify: true, Kind: domain.NotificationReturning}
	}
	return domain.ArrivalDecision{ShouldNotify: false, Kind: domain.NotificationNone}
}
