package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/probesentinel/internal/core/domain"
	"github.com/lcalzada-xor/probesentinel/internal/core/ports"
)

func TestHTTPNotifier_PostsExpectedShape(t *testing.T) {
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(srv.URL)
	err := n.Notify(context.Background(), "abcd1234abcd1234", ports.ProbeNotification{
		MAC: "aa:bb:cc:11:22:33", DBM: -60, SSID: "home", OUI: "Unknown OUI",
	}, domain.NotificationNew)
	require.NoError(t, err)

	require.Equal(t, "abcd1234abcd1234", got.Fingerprint)
	require.Equal(t, "new", got.NotificationType)
	require.Equal(t, "aa:bb:cc:11:22:33", got.ProbeData.MAC)
}

func TestHTTPNotifier_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := New(srv.URL)
	err := n.Notify(context.Background(), "fp", ports.ProbeNotification{}, domain.NotificationReturning)
	require.Error(t, err)
}
