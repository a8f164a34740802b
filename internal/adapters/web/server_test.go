package web

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/probesentinel/internal/core/domain"
)

type stubStore struct {
	devices   []domain.Device
	sightings []domain.Sighting
	total     int64
}

func (s *stubStore) LogSighting(context.Context, domain.SightingDTO) (*domain.Fingerprint, error) {
	return nil, nil
}
func (s *stubStore) GetFingerprint(context.Context, string) (*domain.Fingerprint, error) { return nil, nil }
func (s *stubStore) DisableFingerprintNotifications(context.Context, string) error       { return nil }
func (s *stubStore) SetFingerprintAlias(context.Context, string, string) (string, error) { return "", nil }
func (s *stubStore) LinkFingerprint(context.Context, string, string) error               { return nil }
func (s *stubStore) CreateIdentity(context.Context, string, string, []string) (*domain.Identity, error) {
	return nil, nil
}
func (s *stubStore) UpdateAlias(context.Context, string, string) (*domain.Identity, error) { return nil, nil }
func (s *stubStore) GetIdentity(context.Context, string) (*domain.Identity, error)          { return nil, nil }
func (s *stubStore) GetAllIdentities(context.Context) ([]domain.Identity, error)            { return nil, nil }
func (s *stubStore) GetDevice(context.Context, string) (*domain.Device, error)              { return nil, nil }
func (s *stubStore) GetAllDevices(context.Context, *bool) ([]domain.Device, error) {
	return s.devices, nil
}
func (s *stubStore) GetTrustedDeviceMACs(context.Context) ([]string, error) { return nil, nil }
func (s *stubStore) GetSightings(context.Context, string, int, int, string) ([]domain.Sighting, int64, error) {
	return s.sightings, s.total, nil
}
func (s *stubStore) Close() error { return nil }

func TestListDevices_ReturnsJSONArray(t *testing.T) {
	store := &stubStore{devices: []domain.Device{{MAC: "aa:bb:cc:11:22:33"}}}
	router := NewServer(store, nil)

	req := httptest.NewRequest("GET", "/devices", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	var got []domain.Device
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
}

func TestStats_ReturnsCounts(t *testing.T) {
	store := &stubStore{
		devices: []domain.Device{{MAC: "a", IsTrusted: true}, {MAC: "b"}},
		total:   42,
	}
	router := NewServer(store, nil)

	req := httptest.NewRequest("GET", "/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.EqualValues(t, 2, got["devices_total"])
	require.EqualValues(t, 1, got["devices_trusted"])
	require.EqualValues(t, 42, got["sightings_total"])
}
