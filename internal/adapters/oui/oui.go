// Package oui resolves manufacturer strings from MAC address prefixes and
// flags trusted devices for early discard, grounded on the tab-separated
// OUI table format and trusted-device merge used by the original sensor's
// build_oui_lookup routine.
package oui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	// TrustedDeviceSentinel is the manufacturer value stored for a full MAC
	// match; callers must check the trusted result of Lookup rather than
	// compare against this string directly.
	TrustedDeviceSentinel = "Trusted Device"

	// LocallyAssigned is returned when the U/L bit is set and no OUI prefix
	// matched.
	LocallyAssigned = "Locally Assigned"

	// UnknownOUI is returned when neither a prefix nor the U/L bit resolves
	// the manufacturer.
	UnknownOUI = "Unknown OUI"
)

// Table is the immutable, process-wide OUI map. It is read-only after
// construction and safe to share across goroutines without locking.
type Table struct {
	byPrefix map[string]string // uppercase "AA:BB:CC" -> manufacturer
	trusted  map[string]bool   // lowercase full MAC -> true
}

// Load reads a tab-separated OUI table from r. Lines beginning with '#' are
// comments; blank lines are skipped. Column [0] is the prefix (trailing
// spaces stripped), column [2] is the manufacturer name.
func Load(r io.Reader) (*Table, error) {
	t := &Table{
		byPrefix: make(map[string]string),
		trusted:  make(map[string]bool),
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 3 {
			continue
		}
		prefix := strings.ToUpper(strings.TrimRight(cols[0], " "))
		manufacturer := strings.TrimSpace(cols[2])
		if prefix == "" || manufacturer == "" {
			continue
		}
		t.byPrefix[prefix] = manufacturer
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("oui: reading table: %w", err)
	}
	return t, nil
}

// WithTrustedDevices returns a copy of t with the given full MAC addresses
// (any case) merged in as trusted, mapped to TrustedDeviceSentinel. The
// receiver is left untouched.
func (t *Table) WithTrustedDevices(macs []string) *Table {
	out := &Table{
		byPrefix: t.byPrefix, // read-only map, safe to share
		trusted:  make(map[string]bool, len(t.trusted)+len(macs)),
	}
	for mac := range t.trusted {
		out.trusted[mac] = true
	}
	for _, mac := range macs {
		out.trusted[strings.ToLower(mac)] = true
	}
	return out
}

// Lookup implements ports.VendorResolver. mac must be colon-separated hex,
// any case.
func (t *Table) Lookup(mac string) (oui string, trusted bool) {
	lower := strings.ToLower(mac)
	if t.trusted[lower] {
		return TrustedDeviceSentinel, true
	}

	prefix := prefixOf(mac)
	if manufacturer, ok := t.byPrefix[prefix]; ok {
		return manufacturer, false
	}

	if isLocallyAdministered(mac) {
		return LocallyAssigned, false
	}
	return UnknownOUI, false
}

// prefixOf returns the uppercase 24-bit OUI prefix "AA:BB:CC" of a
// colon-separated MAC string.
func prefixOf(mac string) string {
	parts := strings.SplitN(mac, ":", 4)
	if len(parts) < 3 {
		return ""
	}
	return strings.ToUpper(parts[0] + ":" + parts[1] + ":" + parts[2])
}

// isLocallyAdministered reports whether bit 6 (the U/L bit) of the first
// MAC octet is set.
func isLocallyAdministered(mac string) bool {
	parts := strings.SplitN(mac, ":", 2)
	if len(parts) < 1 || len(parts[0]) < 2 {
		return false
	}
	var firstOctet byte
	if _, err := fmt.Sscanf(parts[0], "%x", &firstOctet); err != nil {
		return false
	}
	return firstOctet&0x02 != 0
}
