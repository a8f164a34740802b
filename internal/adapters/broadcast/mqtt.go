// Package broadcast publishes every accepted sighting to a pub/sub topic
// for live consumers, grounded on the original sensor's paho-mqtt client:
// a last-will "Offline" on the status topic, a birth "Online" published on
// connect, and asynchronous reconnect so broker downtime never blocks
// ingest (spec §6).
package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/lcalzada-xor/probesentinel/internal/core/ports"
)

const (
	onlinePayload  = "Online"
	offlinePayload = "Offline"
)

// MQTTBroadcaster publishes BroadcastMessage values to probeTopic and
// maintains LWT/birth semantics on statusTopic.
type MQTTBroadcaster struct {
	client      mqtt.Client
	probeTopic  string
	statusTopic string
	log         *slog.Logger
}

// Config holds the connection parameters; BrokerURL is e.g.
// "tcp://localhost:1883".
type Config struct {
	BrokerURL   string
	ClientID    string
	ProbeTopic  string
	StatusTopic string
}

// New connects to the broker, arms the last-will message, and publishes the
// birth message once connected. It does not block waiting for the initial
// connection to succeed — paho's auto-reconnect handles that in the
// background, matching the "broker unavailability is recoverable" contract.
func New(cfg Config, log *slog.Logger) *MQTTBroadcaster {
	b := &MQTTBroadcaster{
		probeTopic:  cfg.ProbeTopic,
		statusTopic: cfg.StatusTopic,
		log:         log,
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetWill(cfg.StatusTopic, offlinePayload, 1, true).
		SetOnConnectHandler(func(c mqtt.Client) {
			token := c.Publish(cfg.StatusTopic, 1, true, onlinePayload)
			token.Wait()
			if err := token.Error(); err != nil {
				log.Error("mqtt: publish birth message failed", "error", err)
			}
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			log.Warn("mqtt: connection lost, reconnecting", "error", err)
		})

	b.client = mqtt.NewClient(opts)
	token := b.client.Connect()
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			log.Error("mqtt: initial connect failed, will keep retrying", "error", err)
		}
	}()

	return b
}

// Publish serializes msg and publishes it to the probe topic. A disconnected
// client drops the publish silently; the sighting itself is already
// durable in the store by the time Publish is called.
func (b *MQTTBroadcaster) Publish(ctx context.Context, msg ports.BroadcastMessage) {
	if !b.client.IsConnectionOpen() {
		return
	}
	body, err := json.Marshal(msg)
	if err != nil {
		b.log.Error("mqtt: encode broadcast message", "error", err)
		return
	}
	token := b.client.Publish(b.probeTopic, 0, false, body)
	go func() {
		if !token.WaitTimeout(5 * time.Second) {
			b.log.Warn("mqtt: publish timed out")
			return
		}
		if err := token.Error(); err != nil {
			b.log.Error("mqtt: publish failed", "error", err)
		}
	}()
}

func (b *MQTTBroadcaster) Close() error {
	token := b.client.Publish(b.statusTopic, 1, true, offlinePayload)
	token.WaitTimeout(2 * time.Second)
	b.client.Disconnect(250)
	return nil
}
