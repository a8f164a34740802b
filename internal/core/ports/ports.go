package ports

import (
	"context"
	"time"

	"github.com/lcalzada-xor/probesentinel/internal/core/domain"
)

// FrameSource yields raw 802.11 frames from a monitor-mode interface. It is
// an external collaborator (spec §2 component 1): the core never opens a
// radio itself, it only consumes whatever a FrameSource hands it.
//
// Frames is closed when the source stops, whether due to context
// cancellation or the end of capture; the interface does not report which.
type FrameSource interface {
	Frames(ctx context.Context) (<-chan RawFrame, error)
	Close() error
}

// RawFrame is a single captured frame plus the subset of radiotap metadata
// the decoder needs. Adapters are responsible for producing these from
// whatever capture library they wrap.
type RawFrame struct {
	Dot11Payload     []byte // the 802.11 MAC frame, header included
	DBMAntennaSignal int32  // radiotap antenna signal; 0 with HasSignal=false if absent
	HasSignal        bool
	ChannelFrequency int // MHz, 0 if absent
}

// VendorResolver maps a MAC to a manufacturer string and flags trusted
// devices for early-exit filtering, per spec §4.3.
type VendorResolver interface {
	// Lookup returns (oui, trusted). oui is the resolved manufacturer,
	// "Locally Assigned", or "Unknown OUI"; trusted is true when the full
	// MAC matched a trusted-device entry, in which case oui is undefined
	// and the caller must discard the probe before any write.
	Lookup(mac string) (oui string, trusted bool)
}

// Notifier is the capability the ingest core depends on instead of any
// concrete transport (spec §9 "Notifier coupling"). Implementations must
// not block the caller beyond their own bounded timeout, and failures are
// the caller's to log — Notify itself returns an error only so the caller
// can account for it in metrics.
type Notifier interface {
	Notify(ctx context.Context, fingerprintID string, probe ProbeNotification, kind domain.NotificationKind) error
}

// ProbeNotification is the payload shape posted to the notifier endpoint.
type ProbeNotification struct {
	MAC  string `json:"mac"`
	DBM  int    `json:"dbm"`
	SSID string `json:"ssid"`
	OUI  string `json:"oui"`
}

// Broadcaster publishes every accepted sighting to a live-consumer topic
// (spec §6 "Outbound sighting broadcast"). Broker unavailability must never
// block ingest: Publish is expected to be fire-and-forget from the caller's
// perspective, buffering or dropping internally.
type Broadcaster interface {
	Publish(ctx context.Context, msg BroadcastMessage)
	Close() error
}

// BroadcastMessage mirrors the exact JSON object spec §6 requires.
type BroadcastMessage struct {
	Timestamp string `json:"timestamp"`
	RSSI      int    `json:"rssi"`
	Channel   int    `json:"channel"`
	MAC       string `json:"MAC"`
	ClientOUI string `json:"clientOUI"`
	SSID      string `json:"SSID"`
}

// Clock abstracts "now" so the arrival gate and store are deterministically
// testable without monkeypatching time.Now.
type Clock interface {
	Now() time.Time
}
