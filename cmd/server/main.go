/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the inventory ledger server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, then flags)
  2. Build the logger
  3. Open the configured store
  4. Load the ledger into the inventory service
  5. Configure HTTP router and the backup scheduler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS (override the environment):
  -port    HTTP server port (HTTP_PORT, default: 8080)
  -store   memory | sqlite | json (STORE_DRIVER, default: sqlite)
  -db      SQLite database path (DB_PATH, default: inventory.db)
           Use ":memory:" for in-memory database
  -data    JSON data file for the json store (DATA_FILE)
  -backups Backup directory (BACKUP_DIR, empty disables backups)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (HTTP_SHUTDOWN_TIMEOUT)
  3. Stop the backup scheduler
  4. Flush the last ledger snapshot and close the store
  5. Exit

EXAMPLES:
  # Run with the default SQLite file
  ./server

  # Keep the ledger as a single JSON document
  ./server -store=json -data=./data/inventory.json

  # Throwaway in-memory ledger on a different port
  ./server -store=memory -port=3000

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - inventory/service.go: The ledger service
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"
	"github.com/warp/inventory-ledger/api"
	"github.com/warp/inventory-ledger/config"
	"github.com/warp/inventory-ledger/inventory"
	"github.com/warp/inventory-ledger/ledger"
	"github.com/warp/inventory-ledger/metrics"
	"github.com/warp/inventory-ledger/store/jsonfile"
	"github.com/warp/inventory-ledger/store/memory"
	"github.com/warp/inventory-ledger/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	// Flags
	flag.StringVar(&cfg.HTTPPort, "port", cfg.HTTPPort, "HTTP server port")
	flag.StringVar(&cfg.StoreDriver, "store", cfg.StoreDriver, "Store driver: memory, sqlite or json")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	flag.StringVar(&cfg.DataFile, "data", cfg.DataFile, "JSON data file")
	flag.StringVar(&cfg.BackupDir, "backups", cfg.BackupDir, "Backup directory (empty disables backups)")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	log := newLogger(cfg, os.Stdout)
	loc, _ := cfg.Location()

	// Initialize store
	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize store")
	}
	defer closeStore()

	m := metrics.New("inventory")

	svc, err := inventory.Open(context.Background(), inventory.Options{
		Store:             store,
		Logger:            log,
		Metrics:           m,
		Location:          loc,
		LowStockThreshold: cfg.LowStockThreshold,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to load ledger")
	}
	defer svc.Close()

	// Create router
	handler := api.NewHandler(svc, log)
	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
		Metrics:        m,
	})

	// Start backup scheduler
	backups := api.NewBackupScheduler(svc, cfg.BackupDir, log)
	backups.Interval = cfg.BackupInterval
	backups.Metrics = m
	backups.Start()
	defer backups.Stop()

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":  server.Addr,
			"store": cfg.StoreDriver,
		}).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		log.WithError(err).Error("Server failed")
		return
	}

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server stopped")
}

// newLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func newLogger(cfg config.Config, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// openStore returns the configured store and a function releasing it.
func openStore(cfg config.Config) (ledger.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return memory.New(), func() {}, nil
	case config.DriverJSON:
		return jsonfile.New(cfg.DataFile, nil), func() {}, nil
	case config.DriverSQLite:
		s, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
