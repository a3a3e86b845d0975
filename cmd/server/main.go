package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/diewo77/ventepos/gate"
	"github.com/diewo77/ventepos/internal/config"
	"github.com/diewo77/ventepos/internal/db"
	"github.com/diewo77/ventepos/internal/pdf"
	"github.com/diewo77/ventepos/internal/prefs"
	"github.com/diewo77/ventepos/internal/server"
	"github.com/diewo77/ventepos/internal/services"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	logger := newLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	dbConn, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}

	if *migrateOnlyFlag {
		logger.Info("migrations completed")
		return
	}

	// Local preferences: connected user and the persisted basket.
	store, err := prefs.Open(filepath.Join(cfg.DataDir, "prefs.db"))
	if err != nil {
		logger.Fatal("failed to open preferences store", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	cart := services.NewCartService(store, logger)
	if err := cart.Restore(); err != nil {
		logger.Warn("could not restore the persisted basket", zap.Error(err))
	}
	checkout, err := services.NewCheckoutService(dbConn, cart, logger)
	if err != nil {
		logger.Fatal("failed to init checkout service", zap.Error(err))
	}

	handler := server.New(server.Deps{
		DB:       dbConn,
		Cart:     cart,
		Checkout: checkout,
		Sessions: services.NewSessionService(store),
		Reports:  services.NewReportService(dbConn),
		PDF:      pdf.NewGenerator(cfg.ExportDir),
		License:  licenseFromEnv(),
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	// Snapshot the basket so an in-progress sale survives the restart.
	if err := cart.Persist(); err != nil {
		logger.Error("failed to persist the basket", zap.Error(err))
	}
	logger.Info("server stopped gracefully")
}

func newLogger(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	return logger
}

// licenseFromEnv selects the license policy. Without a configured key pair
// every installation is licensed; setting LICENSE_KEY and LICENSE_SECRET
// turns the signed check on.
func licenseFromEnv() gate.LicensePolicy {
	key := os.Getenv("LICENSE_KEY")
	secret := os.Getenv("LICENSE_SECRET")
	if key == "" || secret == "" {
		return gate.AlwaysValid{}
	}
	return gate.NewSignedLicense(key, os.Getenv("LICENSE_PUBLIC"), secret)
}
