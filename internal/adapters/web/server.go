// Package web exposes the read-oriented HTTP surface spec §1 treats as an
// external collaborator: device/sighting/fingerprint/identity listing plus
// a live sighting feed, grounded on the teacher's gorilla/mux routing and
// gorilla/websocket fan-out.
package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/lcalzada-xor/probesentinel/internal/core/ports"
)

// Server is the thin read-only HTTP API over ports.Storage.
type Server struct {
	store ports.Storage
	hub   *Hub
}

// NewServer builds the mux router. hub may be nil if live-feed support is
// not wired for this process.
func NewServer(store ports.Storage, hub *Hub) *mux.Router {
	s := &Server{store: store, hub: hub}

	r := mux.NewRouter()
	r.HandleFunc("/devices", s.listDevices).Methods(http.MethodGet)
	r.HandleFunc("/devices/{mac}", s.getDevice).Methods(http.MethodGet)
	r.HandleFunc("/sightings", s.listSightings).Methods(http.MethodGet)
	r.HandleFunc("/fingerprints/{id}", s.getFingerprint).Methods(http.MethodGet)
	r.HandleFunc("/identities", s.listIdentities).Methods(http.MethodGet)
	r.HandleFunc("/identities/{id}", s.getIdentity).Methods(http.MethodGet)
	r.HandleFunc("/stats", s.stats).Methods(http.MethodGet)
	if hub != nil {
		r.HandleFunc("/live", hub.HandleWebSocket)
	}
	return r
}

func (s *Server) listDevices(w http.ResponseWriter, r *http.Request) {
	var trusted *bool
	if v := r.URL.Query().Get("trusted"); v != "" {
		b := v == "true"
		trusted = &b
	}
	devices, err := s.store.GetAllDevices(r.Context(), trusted)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, devices)
}

func (s *Server) getDevice(w http.ResponseWriter, r *http.Request) {
	mac := mux.Vars(r)["mac"]
	device, err := s.store.GetDevice(r.Context(), mac)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if device == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, device)
}

// listSightings implements the pagination contract supplemented from
// original_source's get_sightings: mac filter, limit/offset, order.
func (s *Server) listSightings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mac := q.Get("mac")
	limit := queryInt(q, "limit", 50)
	offset := queryInt(q, "offset", 0)
	order := q.Get("order")
	if order == "" {
		order = "desc"
	}

	sightings, total, err := s.store.GetSightings(r.Context(), mac, limit, offset, order)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"total":     total,
		"limit":     limit,
		"offset":    offset,
		"sightings": sightings,
	})
}

func (s *Server) getFingerprint(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	fp, err := s.store.GetFingerprint(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if fp == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, fp)
}

func (s *Server) listIdentities(w http.ResponseWriter, r *http.Request) {
	identities, err := s.store.GetAllIdentities(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, identities)
}

func (s *Server) getIdentity(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	identity, err := s.store.GetIdentity(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if identity == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, identity)
}

// stats is a supplemented endpoint (not in the distilled spec, present in
// spirit in original_source's CLI summary output): trusted vs. total device
// counts and a sighting total, useful for a dashboard landing page.
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	all, err := s.store.GetAllDevices(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	trusted := 0
	for _, d := range all {
		if d.IsTrusted {
			trusted++
		}
	}
	_, total, err := s.store.GetSightings(r.Context(), "", 1, 0, "desc")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"devices_total":   len(all),
		"devices_trusted": trusted,
		"sightings_total": total,
	})
}

func queryInt(q map[string][]string, key string, fallback int) int {
	vals, ok := q[key]
	if !ok || len(vals) == 0 {
		return fallback
	}
	n, err := strconv.Atoi(vals[0])
	if err != nil {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
