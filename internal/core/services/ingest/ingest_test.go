package ingest

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/probesentinel/internal/core/domain"
	"github.com/lcalzada-xor/probesentinel/internal/core/ports"
)

type fakeStore struct {
	logged []domain.SightingDTO
	oldFP  *domain.Fingerprint
}

func (f *fakeStore) LogSighting(ctx context.Context, s domain.SightingDTO) (*domain.Fingerprint, error) {
	f.logged = append(f.logged, s)
	return f.oldFP, nil
}
func (f *fakeStore) GetFingerprint(context.Context, string) (*domain.Fingerprint, error) { return nil, nil }
func (f *fakeStore) DisableFingerprintNotifications(context.Context, string) error       { return nil }
func (f *fakeStore) SetFingerprintAlias(context.Context, string, string) (string, error) { return "", nil }
func (f *fakeStore) LinkFingerprint(context.Context, string, string) error               { return nil }
func (f *fakeStore) CreateIdentity(context.Context, string, string, []string) (*domain.Identity, error) {
	return nil, nil
}
func (f *fakeStore) UpdateAlias(context.Context, string, string) (*domain.Identity, error) { return nil, nil }
func (f *fakeStore) GetIdentity(context.Context, string) (*domain.Identity, error)          { return nil, nil }
func (f *fakeStore) GetAllIdentities(context.Context) ([]domain.Identity, error)            { return nil, nil }
func (f *fakeStore) GetDevice(context.Context, string) (*domain.Device, error)              { return nil, nil }
func (f *fakeStore) GetAllDevices(context.Context, *bool) ([]domain.Device, error)          { return nil, nil }
func (f *fakeStore) GetTrustedDeviceMACs(context.Context) ([]string, error)                 { return nil, nil }
func (f *fakeStore) GetSightings(context.Context, string, int, int, string) ([]domain.Sighting, int64, error) {
	return nil, 0, nil
}
func (f *fakeStore) Close() error { return nil }

type fakeResolver struct {
	trustedMAC string
}

func (r *fakeResolver) Lookup(mac string) (string, bool) {
	if mac == r.trustedMAC {
		return "Trusted Device", true
	}
	return "Unknown OUI", false
}

type fakeNotifier struct{ calls int }

func (n *fakeNotifier) Notify(context.Context, string, ports.ProbeNotification, domain.NotificationKind) error {
	n.calls++
	return nil
}

type fakeMetrics struct {
	sightings, trustedFiltered, decodeErrors, storeErrors, notifierErrors int
	arrivals                                                              map[domain.NotificationKind]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{arrivals: make(map[domain.NotificationKind]int)}
}
func (m *fakeMetrics) IncSightings()       { m.sightings++ }
func (m *fakeMetrics) IncTrustedFiltered() { m.trustedFiltered++ }
func (m *fakeMetrics) IncDecodeErrors()    { m.decodeErrors++ }
func (m *fakeMetrics) IncStoreErrors()     { m.storeErrors++ }
func (m *fakeMetrics) IncNotifierErrors()  { m.notifierErrors++ }
func (m *fakeMetrics) IncArrivals(kind domain.NotificationKind) {
	m.arrivals[kind]++
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeDecode builds a canned decode function so these tests exercise the
// pipeline's own logic without constructing real 802.11 frame bytes; the
// decoder package has its own tests for the gopacket-facing parsing.
func fakeDecode(req domain.ProbeRequest) func(ports.RawFrame) (domain.ProbeRequest, bool) {
	return func(ports.RawFrame) (domain.ProbeRequest, bool) { return req, true }
}

func TestHandleFrame_TrustedMACDiscardedBeforeWrite(t *testing.T) {
	store := &fakeStore{}
	metrics := newFakeMetrics()
	p := &Pipeline{
		Store:       store,
		Resolver:    &fakeResolver{trustedMAC: "aa:bb:cc:11:22:33"},
		Clock:       fixedClock{t: time.Now()},
		Metrics:     metrics,
		Log:         silentLogger(),
		DecodeFrame: fakeDecode(domain.ProbeRequest{TransmitterMAC: "aa:bb:cc:11:22:33"}),
	}

	p.handleFrame(context.Background(), ports.RawFrame{})

	require.Empty(t, store.logged)
	require.Equal(t, 1, metrics.trustedFiltered)
}

func TestHandleFrame_NewFingerprintNotifies(t *testing.T) {
	store := &fakeStore{oldFP: nil}
	notifier := &fakeNotifier{}
	metrics := newFakeMetrics()
	p := &Pipeline{
		Store:    store,
		Resolver: &fakeResolver{},
		Notifier: notifier,
		Clock:    fixedClock{t: time.Now()},
		Metrics:  metrics,
		Log:      silentLogger(),
		DecodeFrame: fakeDecode(domain.ProbeRequest{
			TransmitterMAC: "aa:bb:cc:11:22:33",
			IEs: []domain.InformationElement{
				{ID: 1, Len: 2, Data: []byte{0x82, 0x84}},
			},
		}),
	}

	p.handleFrame(context.Background(), ports.RawFrame{})

	require.Len(t, store.logged, 1)
	require.Equal(t, 1, notifier.calls)
	require.Equal(t, 1, metrics.arrivals[domain.NotificationNew])
}

func TestHandleFrame_NoStableIEsSkipsArrivalGate(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	metrics := newFakeMetrics()
	p := &Pipeline{
		Store:    store,
		Resolver: &fakeResolver{},
		Notifier: notifier,
		Clock:    fixedClock{t: time.Now()},
		Metrics:  metrics,
		Log:      silentLogger(),
		DecodeFrame: fakeDecode(domain.ProbeRequest{
			TransmitterMAC: "aa:bb:cc:11:22:33",
			IEs: []domain.InformationElement{
				{ID: 0, Len: 0, Data: nil},
			},
		}),
	}

	p.handleFrame(context.Background(), ports.RawFrame{})

	require.Len(t, store.logged, 1)
	require.Equal(t, domain.NoStableIEs, store.logged[0].IEFingerprint)
	require.Zero(t, notifier.calls)
}
