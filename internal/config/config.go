// Package config loads runtime configuration the way the teacher's
// internal/config does: environment variables provide defaults, command
// line flags override them.
package config

import (
	"flag"
	"os"
	"path/filepath"
)

// Config holds every knob the CLI contract in spec §6 names: the single
// required monitor-interface flag, plus database path, log path, and
// notifier/broker settings that are themselves opaque to the ingest core.
type Config struct {
	MonitorInterface string
	DBPath           string
	LogPath          string
	NotifierURL      string
	MQTTBrokerURL    string
	MQTTProbeTopic   string
	MQTTStatusTopic  string
	Mock             bool
}

// Load parses environment variables first, then flags, with flags taking
// precedence — exactly the teacher's Load() order.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:          getEnv("PROBESENTINEL_DB_PATH", defaultDBPath()),
		LogPath:         getEnv("PROBESENTINEL_LOG_PATH", ""),
		NotifierURL:     getEnv("PROBESENTINEL_NOTIFIER_URL", "http://localhost:8787/notify"),
		MQTTBrokerURL:   getEnv("PROBESENTINEL_MQTT_BROKER", "tcp://localhost:1883"),
		MQTTProbeTopic:  getEnv("PROBESENTINEL_MQTT_PROBE_TOPIC", "probesentinel/sightings"),
		MQTTStatusTopic: getEnv("PROBESENTINEL_MQTT_STATUS_TOPIC", "probesentinel/status"),
	}

	flag.StringVar(&cfg.MonitorInterface, "m", "", "monitor-mode interface to capture on (required)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the SQLite database file")
	flag.StringVar(&cfg.LogPath, "log", cfg.LogPath, "path to write logs to (default: stdout)")
	flag.StringVar(&cfg.NotifierURL, "notifier-url", cfg.NotifierURL, "notifier endpoint URL")
	flag.StringVar(&cfg.MQTTBrokerURL, "mqtt-broker", cfg.MQTTBrokerURL, "MQTT broker URL")
	flag.BoolVar(&cfg.Mock, "mock", false, "replay mock frames instead of opening a monitor interface")
	flag.Parse()

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "probesentinel.db"
	}
	dir := filepath.Join(home, ".probesentinel")
	_ = os.MkdirAll(dir, 0o755)
	return filepath.Join(dir, "sentinel.db")
}
