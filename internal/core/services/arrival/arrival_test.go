package arrival

import (
	"testing"
	"time"

	"github.com/lcalzada-xor/probesentinel/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestDecide_NewFingerprint(t *testing.T) {
	got := Decide(nil, time.Now())
	assert.Equal(t, domain.ArrivalDecision{ShouldNotify: true, Kind: domain.NotificationNew}, got)
}

func TestDecide_NotificationsDisabled(t *testing.T) {
	now := time.Now()
	oldFP := &domain.Fingerprint{
		NotificationEnabled: false,
		SightingCount:       5,
		LastSeen:            now.Add(-24 * time.Hour),
	}

	got := Decide(oldFP, now)
	assert.Equal(t, domain.ArrivalDecision{ShouldNotify: false, Kind: domain.NotificationNone}, got)
}

func TestDecide_SpamGuard(t *testing.T) {
	now := time.Now()
	oldFP := &domain.Fingerprint{
		NotificationEnabled: true,
		SightingCount:       101,
		LastSeen:            now.Add(-24 * time.Hour),
	}

	got := Decide(oldFP, now)
	assert.Equal(t, domain.ArrivalDecision{ShouldNotify: false, Kind: domain.NotificationNone}, got)
}

func TestDecide_Returning(t *testing.T) {
	now := time.Now()
	oldFP := &domain.Fingerprint{
		NotificationEnabled: true,
		SightingCount:       2,
		LastSeen:            now.Add(-11 * time.Minute),
	}

	got := Decide(oldFP, now)
	assert.Equal(t, domain.ArrivalDecision{ShouldNotify: true, Kind: domain.NotificationReturning}, got)
}

func TestDecide_TooSoonToReturn(t *testing.T) {
	now := time.Now()
	oldFP := &domain.Fingerprint{
		NotificationEnabled: true,
		SightingCount:       2,
		LastSeen:            now.Add(-1 * time.Minute),
	}

	got := Decide(oldFP, now)
	assert.Equal(t, domain.ArrivalDecision{ShouldNotify: false, Kind: domain.NotificationNone}, got)
}

func TestDecide_ExactlyAtThreshold(t *testing.T) {
	now := time.Now()
	oldFP := &domain.Fingerprint{
		NotificationEnabled: true,
		SightingCount:       2,
		LastSeen:            now.Add(-10 * time.Minute),
	}

	got := Decide(oldFP, now)
	assert.Equal(t, domain.NotificationReturning, got.Kind)
}
