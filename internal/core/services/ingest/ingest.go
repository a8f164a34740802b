// Package ingest wires the decoder, fingerprinter, OUI resolver, store, and
// arrival gate into the single sequential pipeline described in spec §5:
// frames arrive one at a time and are decoded, fingerprinted, and persisted
// synchronously before the next frame is considered.
package ingest

import (
	"context"
	"log/slog"

	"github.com/lcalzada-xor/probesentinel/internal/core/domain"
	"github.com/lcalzada-xor/probesentinel/internal/core/ports"
	"github.com/lcalzada-xor/probesentinel/internal/core/services/arrival"
	"github.com/lcalzada-xor/probesentinel/internal/core/services/decoder"
	"github.com/lcalzada-xor/probesentinel/internal/core/services/fingerprint"
)

// Metrics is the narrow counter surface ingest needs; internal/telemetry
// implements it over Prometheus.
type Metrics interface {
	IncSightings()
	IncTrustedFiltered()
	IncDecodeErrors()
	IncStoreErrors()
	IncNotifierErrors()
	IncArrivals(kind domain.NotificationKind)
}

// Pipeline runs the ingest core against one FrameSource. It holds no
// parallelism itself: Run drains frames sequentially, exactly as spec §5
// requires of the single ingest path.
type Pipeline struct {
	Store     ports.Storage
	Resolver  ports.VendorResolver
	Notifier  ports.Notifier
	Broadcast ports.Broadcaster
	Clock     ports.Clock
	Metrics   Metrics
	Log       *slog.Logger

	// DecodeFrame defaults to decoder.Decode; tests override it to supply
	// canned ProbeRequests without constructing raw 802.11 frame bytes.
	DecodeFrame func(ports.RawFrame) (domain.ProbeRequest, bool)
}

// Run consumes frames from src until ctx is cancelled or the source closes
// its channel. Per-frame panics are recovered so a single malformed frame
// can never bring down the ingest loop.
func (p *Pipeline) Run(ctx context.Context, src ports.FrameSource) error {
	frames, err := src.Frames(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, open := <-frames:
			if !open {
				return nil
			}
			p.handleFrame(ctx, raw)
		}
	}
}

func (p *Pipeline) handleFrame(ctx context.Context, raw ports.RawFrame) {
	defer func() {
		if r := recover(); r != nil {
			p.Log.Error("recovered panic handling frame", "panic", r)
			p.Metrics.IncDecodeErrors()
		}
	}()

	decode := p.DecodeFrame
	if decode == nil {
		decode = decoder.Decode
	}
	req, ok := decode(raw)
	if !ok {
		return
	}

	oui, trusted := p.Resolver.Lookup(req.TransmitterMAC)
	if trusted {
		p.Metrics.IncTrustedFiltered()
		return
	}

	fpID := fingerprint.Calculate(req.IEs)

	dto := domain.SightingDTO{
		MAC:           req.TransmitterMAC,
		DBM:           req.DBM,
		SSID:          req.SSID,
		OUI:           oui,
		IEFingerprint: fpID,
		IEData:        req.IEs,
	}

	oldFP, err := p.Store.LogSighting(ctx, dto)
	if err != nil {
		p.Log.Error("log sighting failed", "mac", req.TransmitterMAC, "error", err)
		p.Metrics.IncStoreErrors()
		return
	}
	p.Metrics.IncSightings()

	if p.Broadcast != nil {
		p.Broadcast.Publish(ctx, ports.BroadcastMessage{
			Timestamp: p.Clock.Now().UTC().Format("2006-01-02 15:04:05"),
			RSSI:      req.DBM,
			Channel:   req.Channel,
			MAC:       req.TransmitterMAC,
			ClientOUI: oui,
			SSID:      req.SSID,
		})
	}

	if fpID == domain.NoStableIEs {
		return
	}

	decision := arrival.Decide(oldFP, p.Clock.Now())
	p.Metrics.IncArrivals(decision.Kind)
	if !decision.ShouldNotify {
		return
	}

	if p.Notifier == nil {
		return
	}
	if err := p.Notifier.Notify(ctx, fpID, ports.ProbeNotification{
		MAC:  req.TransmitterMAC,
		DBM:  req.DBM,
		SSID: req.SSID,
		OUI:  oui,
	}, decision.Kind); err != nil {
		p.Log.Error("notifier call failed", "fingerprint_id", fpID, "error", err)
		p.Metrics.IncNotifierErrors()
	}
}
