// Command sentineld is the passive Wi-Fi probe-request sensor: it captures
// from one monitor-mode interface, fingerprints and stores every probe
// request, and notifies on new or returning devices.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lcalzada-xor/probesentinel/internal/adapters/bot"
	"github.com/lcalzada-xor/probesentinel/internal/adapters/broadcast"
	"github.com/lcalzada-xor/probesentinel/internal/adapters/notifier"
	"github.com/lcalzada-xor/probesentinel/internal/adapters/oui"
	"github.com/lcalzada-xor/probesentinel/internal/adapters/sniffer"
	"github.com/lcalzada-xor/probesentinel/internal/adapters/storage"
	"github.com/lcalzada-xor/probesentinel/internal/adapters/web"
	"github.com/lcalzada-xor/probesentinel/internal/config"
	"github.com/lcalzada-xor/probesentinel/internal/core/ports"
	"github.com/lcalzada-xor/probesentinel/internal/core/services/identity"
	"github.com/lcalzada-xor/probesentinel/internal/core/services/ingest"
	"github.com/lcalzada-xor/probesentinel/internal/telemetry"
)

const ouiTablePath = "data/oui.txt"

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}
	if cfg.MonitorInterface == "" && !cfg.Mock {
		log.Error("missing required -m monitor interface flag")
		os.Exit(1)
	}
	if cfg.LogPath != "" {
		logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Error("log file open failed", "path", cfg.LogPath, "error", err)
			os.Exit(1)
		}
		defer logFile.Close()
		log = slog.New(slog.NewJSONHandler(logFile, nil))
		slog.SetDefault(log)
	}

	telemetry.InitMetrics()
	shutdownTracer, err := telemetry.InitTracer(ctx, "dev")
	if err != nil {
		log.Error("tracer init failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	store, err := storage.Open(cfg.DBPath, ports.RealClock{})
	if err != nil {
		log.Error("store bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	resolver, err := loadResolver(ctx, store, log)
	if err != nil {
		log.Error("oui table load failed", "error", err)
		os.Exit(1)
	}

	var src ports.FrameSource
	if cfg.Mock {
		src = &sniffer.MockSource{}
	} else {
		src, err = sniffer.Open(cfg.MonitorInterface)
		if err != nil {
			log.Error("interface open failed", "interface", cfg.MonitorInterface, "error", err)
			os.Exit(1)
		}
	}
	defer src.Close()

	hub := web.NewHub(log)
	mqttBroadcaster := broadcast.New(broadcast.Config{
		BrokerURL:   cfg.MQTTBrokerURL,
		ClientID:    "sentineld",
		ProbeTopic:  cfg.MQTTProbeTopic,
		StatusTopic: cfg.MQTTStatusTopic,
	}, log)
	defer mqttBroadcaster.Close()

	pipeline := &ingest.Pipeline{
		Store:     store,
		Resolver:  resolver,
		Notifier:  notifier.New(cfg.NotifierURL),
		Broadcast: fanOutBroadcaster{hub, mqttBroadcaster},
		Clock:     ports.RealClock{},
		Metrics:   telemetry.Counters{},
		Log:       log,
	}

	identityMgr := &identity.Manager{Store: store}
	dispatcher := &bot.Dispatcher{Identity: identityMgr}
	router := web.NewServer(store, hub)
	router.HandleFunc("/bot/command", dispatcher.HandleCommand).Methods(http.MethodPost)

	httpServer := &http.Server{Addr: ":8088", Handler: router}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}()

	log.Info("sentineld starting", "interface", cfg.MonitorInterface, "mock", cfg.Mock)
	if err := pipeline.Run(ctx, src); err != nil {
		log.Error("ingest pipeline exited with error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	log.Info("sentineld stopped")
}

// loadResolver opens the OUI table and merges in every device already
// marked trusted in the store, matching the original sensor's
// build_oui_lookup behavior of combining a static table with a live
// trusted-device set.
func loadResolver(ctx context.Context, store ports.Storage, log *slog.Logger) (ports.VendorResolver, error) {
	f, err := os.Open(ouiTablePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tbl, err := oui.Load(f)
	if err != nil {
		return nil, err
	}

	trustedMACs, err := store.GetTrustedDeviceMACs(ctx)
	if err != nil {
		log.Warn("could not load trusted device MACs, continuing without them", "error", err)
		return tbl, nil
	}
	return tbl.WithTrustedDevices(trustedMACs), nil
}

// fanOutBroadcaster publishes every sighting to both the live websocket
// feed and the MQTT topic, since spec §6 describes one logical broadcast
// contract but this deployment serves two kinds of live consumers.
type fanOutBroadcaster struct {
	hub  ports.Broadcaster
	mqtt ports.Broadcaster
}

func (f fanOutBroadcaster) Publish(ctx context.Context, msg ports.BroadcastMessage) {
	f.hub.Publish(ctx, msg)
	f.mqtt.Publish(ctx, msg)
}

func (f fanOutBroadcaster) Close() error {
	_ = f.hub.Close()
	return f.mqtt.Close()
}
