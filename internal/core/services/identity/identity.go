// Package identity wraps ports.Storage's identity operations (spec §4.6) for
// the chat-bot adapter's write commands. The HTTP read surface in
// internal/adapters/web reads identities from the store directly.
package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/lcalzada-xor/probesentinel/internal/core/domain"
	"github.com/lcalzada-xor/probesentinel/internal/core/ports"
)

// Manager is the identity-manager component: user-driven linkage of
// fingerprints to named identities.
type Manager struct {
	Store ports.Storage
}

// Create inserts a new Identity. If id is empty, a random UUID is generated
// — the one identity_id shape in this system not derived from a
// fingerprint_id, since it has no seed fingerprint to borrow from.
func (m *Manager) Create(ctx context.Context, id, alias string, fingerprintIDs []string) (*domain.Identity, error) {
	if id == "" {
		id = uuid.NewString()
	}
	return m.Store.CreateIdentity(ctx, id, alias, fingerprintIDs)
}

// SetAlias labels a fingerprint directly, creating its identity on first use
// per spec §4.4's set_fingerprint_alias contract.
func (m *Manager) SetAlias(ctx context.Context, fingerprintID, alias string) (*domain.Identity, error) {
	identityID, err := m.Store.SetFingerprintAlias(ctx, fingerprintID, alias)
	if err != nil {
		return nil, err
	}
	return m.Store.GetIdentity(ctx, identityID)
}

// Silence disables future notifications for a fingerprint without affecting
// its identity linkage or alias.
func (m *Manager) Silence(ctx context.Context, fingerprintID string) error {
	return m.Store.DisableFingerprintNotifications(ctx, fingerprintID)
}

// Link attaches a fingerprint to an existing identity, overwriting any
// previous link without history, per spec §4.6.
func (m *Manager) Link(ctx context.Context, fingerprintID, identityID string) error {
	return m.Store.LinkFingerprint(ctx, fingerprintID, identityID)
}

func (m *Manager) Get(ctx context.Context, identityID string) (*domain.Identity, error) {
	return m.Store.GetIdentity(ctx, identityID)
}

func (m *Manager) List(ctx context.Context) ([]domain.Identity, error) {
	return m.Store.GetAllIdentities(ctx)
}
