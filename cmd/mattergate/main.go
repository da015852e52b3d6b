// Mattergate - Device Bridge Controller
//
// Mattergate bridges devices from a home-automation platform into an
// external bridge-network session: it enumerates platform devices,
// enrolls the supported ones, mirrors their state as bridged nodes, and
// forwards live platform events for as long as the process runs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hallgate/mattergate/internal/api"
	"github.com/hallgate/mattergate/internal/bridge"
	"github.com/hallgate/mattergate/internal/bridge/adapters"
	"github.com/hallgate/mattergate/internal/infrastructure/config"
	"github.com/hallgate/mattergate/internal/infrastructure/database"
	"github.com/hallgate/mattergate/internal/infrastructure/influxdb"
	"github.com/hallgate/mattergate/internal/infrastructure/logging"
	"github.com/hallgate/mattergate/internal/infrastructure/mqtt"
	"github.com/hallgate/mattergate/internal/platform"
	"github.com/hallgate/mattergate/internal/session"
	"github.com/hallgate/mattergate/internal/store"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability. Returning an error allows main to handle exit codes
// consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Mattergate",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database and bootstrap the scalar-store schema
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	if err := db.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrapping database schema: %w", err)
	}
	log.Info("database ready", "path", cfg.Database.Path)

	kvStore := store.New(store.NewSQLiteStore(db.DB))

	// Connect to the platform's MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Connect to InfluxDB event telemetry (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Platform API client over MQTT
	platformClient := platform.NewClient(mqttClient, platform.Options{
		Logger: log,
	})

	// Adapter registry: categories are statically known at composition time
	registry := bridge.NewRegistry()
	adapters.RegisterAll(registry, platformClient)
	log.Info("adapters registered", "categories", registry.Categories())

	// Bridge session hub and health reporting
	hub := session.NewHub(session.HubOptions{
		Name:   cfg.Bridge.Name,
		Logger: log,
	})

	healthReporter := session.NewHealthReporter(session.HealthReporterConfig{
		Version:   version,
		Interval:  cfg.GetHealthInterval(),
		Publisher: mqttClient,
		Hub:       hub,
	})
	healthReporter.SetLogger(log)
	if err := healthReporter.PublishStarting(); err != nil {
		log.Warn("failed to publish starting status", "error", err)
	}
	healthReporter.Start(ctx)
	defer healthReporter.Stop()

	// Controller: enrollment, discovery, live feed convergence
	syncSet := bridge.NewSyncSet(kvStore)
	enroller := bridge.NewEnroller(bridge.EnrollerOptions{
		Store:        kvStore,
		Registry:     registry,
		Mutator:      platformClient,
		ControllerID: cfg.Bridge.ID,
		Version:      cfg.Bridge.EnrollmentVersion,
	})

	var recorder bridge.EventRecorder
	if influxClient != nil {
		recorder = influxClient
	}
	dispatcher := bridge.NewDispatcher(bridge.DispatcherOptions{
		Synced:   syncSet,
		Registry: registry,
		Recorder: recorder,
		Logger:   log,
		Config:   bridge.DispatcherConfig{Debug: cfg.Bridge.Debug},
	})

	controller := bridge.NewController(bridge.ControllerOptions{
		Platform:   platformClient,
		Enroller:   enroller,
		Dispatcher: dispatcher,
		Registry:   registry,
		Session:    hub,
		Synced:     syncSet,
		Logger:     log,
	})

	if err := controller.Run(ctx); err != nil {
		return fmt.Errorf("starting bridge controller: %w", err)
	}
	log.Info("bridge controller running", "nodes", controller.NodeCount())

	// Read-only status API (optional)
	if cfg.API.Enabled {
		checks := map[string]api.HealthChecker{
			"database": db,
			"mqtt":     mqttClient,
		}
		if influxClient != nil {
			checks["influxdb"] = influxClient
		}

		apiServer, err := api.New(api.Deps{
			Config:   cfg.API,
			Logger:   log,
			Hub:      hub,
			Registry: registry,
			Checks:   checks,
			Version:  version,
		})
		if err != nil {
			return fmt.Errorf("creating API server: %w", err)
		}
		if err := apiServer.Start(ctx); err != nil {
			return fmt.Errorf("starting API server: %w", err)
		}
		defer func() {
			if closeErr := apiServer.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	} else {
		log.Info("status API disabled")
	}

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	log.Info("Mattergate stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses MATTERGATE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("MATTERGATE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
