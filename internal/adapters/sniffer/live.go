// Package sniffer implements ports.FrameSource over a single monitor-mode
// interface, grounded on the teacher's capture manager but reduced from its
// multi-interface channel-hopping orchestration to the single-interface
// passive capture spec §1 describes.
package sniffer

import (
	"context"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/lcalzada-xor/probesentinel/internal/core/ports"
)

// snaplen is large enough to capture a full management frame plus radiotap
// header without truncation.
const snaplen = 2048

// LiveSource captures from one monitor-mode interface via libpcap.
type LiveSource struct {
	iface  string
	handle *pcap.Handle
}

// Open puts the named interface into promiscuous capture. The interface
// must already be in monitor mode; this type does not attempt to set it,
// matching spec's framing of the frame source as an external collaborator.
func Open(iface string) (*LiveSource, error) {
	handle, err := pcap.OpenLive(iface, snaplen, true, pcap.BlockForever)
	if err != nil {
		return nil, fmt.Errorf("sniffer: open %s: %w", iface, err)
	}
	return &LiveSource{iface: iface, handle: handle}, nil
}

// Frames starts a goroutine that decodes RadioTap headers off the capture
// handle and emits RawFrames until ctx is cancelled or the handle errors.
func (s *LiveSource) Frames(ctx context.Context) (<-chan ports.RawFrame, error) {
	out := make(chan ports.RawFrame, 64)
	src := gopacket.NewPacketSource(s.handle, layers.LayerTypeRadioTap)
	packets := src.Packets()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case packet, open := <-packets:
				if !open {
					return
				}
				raw, ok := toRawFrame(packet)
				if !ok {
					continue
				}
				select {
				case out <- raw:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func toRawFrame(packet gopacket.Packet) (ports.RawFrame, bool) {
	radiotapLayer := packet.Layer(layers.LayerTypeRadioTap)
	radiotap, ok := radiotapLayer.(*layers.RadioTap)
	if !ok {
		return ports.RawFrame{}, false
	}

	dot11Layer := packet.Layer(layers.LayerTypeDot11)
	if dot11Layer == nil {
		return ports.RawFrame{}, false
	}

	raw := ports.RawFrame{
		Dot11Payload: dot11Layer.LayerContents(),
	}
	if dot11Layer.LayerPayload() != nil {
		raw.Dot11Payload = append(raw.Dot11Payload, dot11Layer.LayerPayload()...)
	}

	if radiotap.Present.DBMAntennaSignal() {
		raw.HasSignal = true
		raw.DBMAntennaSignal = int32(radiotap.DBMAntennaSignal)
	}
	if radiotap.Present.ChannelFrequency() {
		raw.ChannelFrequency = int(radiotap.ChannelFrequency)
	}
	return raw, true
}

func (s *LiveSource) Close() error {
	s.handle.Close()
	return nil
}
