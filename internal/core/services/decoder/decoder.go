// Package decoder turns a raw captured 802.11 frame into a ProbeRequest,
// discarding every frame that is not a probe request.
package decoder

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/lcalzada-xor/probesentinel/internal/core/domain"
	"github.com/lcalzada-xor/probesentinel/internal/core/ports"
)

// MissingChannel is the sentinel channel number for an unrecognized or
// absent radiotap channel frequency.
const MissingChannel = 0

// freqToChannel is the fixed 2.4 GHz MHz-to-channel table. Frequencies
// outside this table (5/6 GHz, or anything radiotap didn't stamp) resolve
// to MissingChannel rather than being derived by formula.
var freqToChannel = map[int]int{
	2412: 1, 2417: 2, 2422: 3, 2427: 4, 2432: 5, 2437: 6, 2442: 7,
	2447: 8, 2452: 9, 2457: 10, 2462: 11, 2467: 12, 2472: 13, 2484: 14,
}

// Decode parses a raw frame as 802.11 and, if and only if it is a probe
// request, returns the decoded record. ok is false for every other frame
// subtype or for a frame gopacket cannot parse as Dot11 at all.
func Decode(raw ports.RawFrame) (req domain.ProbeRequest, ok bool) {
	packet := gopacket.NewPacket(raw.Dot11Payload, layers.LayerTypeDot11, gopacket.NoCopy)

	mgmt := packet.Layer(layers.LayerTypeDot11MgmtProbeReq)
	if mgmt == nil {
		return domain.ProbeRequest{}, false
	}

	dot11Layer := packet.Layer(layers.LayerTypeDot11)
	dot11, good := dot11Layer.(*layers.Dot11)
	if !good {
		return domain.ProbeRequest{}, false
	}

	ies := extractIEs(packet)
	ssid := extractSSID(ies)

	return domain.ProbeRequest{
		TransmitterMAC: dot11.Address2.String(),
		SSID:           ssid,
		DBM:            dbmOf(raw),
		Channel:        channelOf(raw),
		IEs:            ies,
	}, true
}

func dbmOf(raw ports.RawFrame) int {
	if !raw.HasSignal {
		return domain.MissingSignal
	}
	return int(raw.DBMAntennaSignal)
}

func channelOf(raw ports.RawFrame) int {
	if ch, known := freqToChannel[raw.ChannelFrequency]; known {
		return ch
	}
	return MissingChannel
}

// extractIEs walks every Dot11InformationElement layer gopacket decoded out
// of the management frame body, in wire order.
func extractIEs(packet gopacket.Packet) []domain.InformationElement {
	var ies []domain.InformationElement
	for _, l := range packet.Layers() {
		ie, is := l.(*layers.Dot11InformationElement)
		if !is {
			continue
		}
		ies = append(ies, domain.InformationElement{
			ID:   uint8(ie.ID),
			Len:  ie.Length,
			Data: append([]byte(nil), ie.Info...),
		})
	}
	return ies
}

// extractSSID returns the UTF-8-sanitized SSID IE payload, or
// domain.UndirectedProbe when the SSID IE is absent, empty, or carries a
// NUL byte anywhere in its payload.
func extractSSID(ies []domain.InformationElement) string {
	for _, ie := range ies {
		if ie.ID != 0 {
			continue
		}
		if len(ie.Data) == 0 || containsNUL(ie.Data) {
			return domain.UndirectedProbe
		}
		return sanitizeUTF8(ie.Data)
	}
	return domain.UndirectedProbe
}

func containsNUL(b []byte) bool {
	for _, c := range b {
		if c == 0 {
			return true
		}
	}
	return false
}

func sanitizeUTF8(b []byte) string {
	return string([]rune(string(b)))
}
