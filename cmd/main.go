package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sugarmill-monitor/internal/analytics"
	"sugarmill-monitor/internal/api"
	"sugarmill-monitor/internal/bus"
	"sugarmill-monitor/internal/config"
	"sugarmill-monitor/internal/db"
	"sugarmill-monitor/internal/live"
	"sugarmill-monitor/internal/logging"
	"sugarmill-monitor/internal/providers"
	"sugarmill-monitor/internal/telemetry"
	"sugarmill-monitor/internal/ws"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// Connect to database
	dbConn, err := db.New(cfg.DB.DSN)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer dbConn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Change-notification bus: bridge over Kafka when a broker is
	// configured, otherwise in-process only.
	var changeBus bus.Bus
	if cfg.Kafka.Broker != "" {
		bridge := bus.NewKafka(cfg.Kafka.Broker, cfg.Kafka.GroupID, map[string]string{
			bus.StreamReadingInserted: cfg.Kafka.ReadingTopic,
			bus.StreamAlertInserted:   cfg.Kafka.AlertTopic,
		}, logger)
		bridge.Start(ctx)
		defer bridge.Close()
		changeBus = bridge
		logger.Infof("Change notifications bridged over Kafka at %s", cfg.Kafka.Broker)
	} else {
		changeBus = bus.NewInProc()
		logger.Infof("Change notifications running in-process")
	}

	// Live views, seeded from storage then fed by the bus
	liveStore := live.NewStateStore(cfg.Telemetry.HistoryCapacity)
	registry := live.NewAlertRegistry(cfg.Telemetry.AlertDisplayMax)
	seedViews(ctx, dbConn, liveStore, registry, logger)
	defer liveStore.Attach(changeBus, logger)()
	defer registry.Attach(changeBus, logger)()

	// Websocket fan-out
	hub := ws.NewHub(logger)
	go hub.Run()
	defer hub.Close()
	defer hub.Attach(changeBus)()

	// Optional alert escalation
	escalator := providers.NewEscalator(cfg, logger)
	if escalator.Enabled() {
		defer escalator.Attach(ctx, changeBus)()
		logger.Infof("Alert escalation enabled")
	}

	// Telemetry scheduler
	band := telemetry.Band{Target: cfg.Telemetry.TargetPol, Tolerance: cfg.Telemetry.PolTolerance}
	sched := telemetry.NewScheduler(dbConn, changeBus, telemetry.NewGenerator(), band,
		cfg.Telemetry.TickInterval, logger)
	sched.Start(ctx)
	defer sched.Stop()

	// Analytics + API
	analyticsSvc := analytics.NewService(dbConn, 50)
	handler := api.NewHandler(dbConn, liveStore, registry, analyticsSvc, hub, sched, logger, cfg)
	router := api.NewRouter(handler, logger, cfg)
	go func() {
		logger.Infof("API started on %s", cfg.API.Port)
		if err := router.Run(cfg.API.Port); err != nil {
			logger.Errorf("API run failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Infof("Shutting down...")
}

// seedViews loads the live views from storage so the dashboard is populated
// before the first tick lands.
func seedViews(ctx context.Context, dbConn *db.DB, liveStore *live.StateStore,
	registry *live.AlertRegistry, logger *logging.Logger) {
	if recent, err := dbConn.RecentReadings(ctx, 20); err != nil {
		logger.Errorf("Seed recent readings failed: %v", err)
	} else {
		liveStore.Seed(recent)
	}

	sensors, err := dbConn.ListSensors(ctx)
	if err != nil {
		logger.Errorf("Seed sensors failed: %v", err)
	} else {
		for _, s := range sensors {
			r, err := dbConn.LatestReading(ctx, s.ID)
			if err != nil {
				logger.Errorf("Seed latest reading for %s failed: %v", s.Name, err)
				continue
			}
			if r != nil {
				liveStore.SetLatest(*r)
			}
		}
	}

	if alerts, err := dbConn.UnacknowledgedAlerts(ctx, 10); err != nil {
		logger.Errorf("Seed alerts failed: %v", err)
	} else {
		registry.Seed(alerts)
	}
}
