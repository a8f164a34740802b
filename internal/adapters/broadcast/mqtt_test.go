package broadcast

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/probesentinel/internal/core/ports"
)

func TestBroadcastMessage_JSONShape(t *testing.T) {
	msg := ports.BroadcastMessage{
		Timestamp: "2026-01-01 12:00:00",
		RSSI:      -60,
		Channel:   6,
		MAC:       "aa:bb:cc:11:22:33",
		ClientOUI: "Unknown OUI",
		SSID:      "home",
	}

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &raw))

	require.Contains(t, raw, "timestamp")
	require.Contains(t, raw, "rssi")
	require.Contains(t, raw, "channel")
	require.Contains(t, raw, "MAC")
	require.Contains(t, raw, "clientOUI")
	require.Contains(t, raw, "SSID")
}
