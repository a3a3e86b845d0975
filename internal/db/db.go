package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/ventepos/internal/config"
	"github.com/diewo77/ventepos/internal/models"
)

// Identifiants du compte admin créé au premier lancement.
const (
	DefaultAdminLogin    = "admin"
	DefaultAdminPassword = "Admin123"
)

// Connect opens the store and brings the schema up to date. With an empty
// DSN it uses the embedded sqlite file under cfg.DataDir (created on first
// run); a postgres DSN switches to a server database, same as the invoicing
// stack does.
func Connect(cfg config.Config) (*gorm.DB, error) {
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var (
		conn *gorm.DB
		err  error
	)
	dsn := NormalizeDSN(cfg.DatabaseDSN)
	if dsn == "" {
		if mkErr := os.MkdirAll(cfg.DataDir, 0o755); mkErr != nil {
			return nil, fmt.Errorf("create data dir: %w", mkErr)
		}
		path := filepath.Join(cfg.DataDir, "ventepos.db")
		zap.S().Infof("using embedded database at %s", path)
		conn, err = gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), gormCfg)
	} else {
		for i := 0; i < 10; i++ {
			conn, err = gorm.Open(postgres.Open(dsn), gormCfg)
			if err == nil {
				break
			}
			zap.S().Warnf("retrying DB connection: %v", err)
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	// MIGRATIONS=1 runs sql migrations via golang-migrate (postgres only);
	// otherwise AutoMigrate keeps the schema current (default, embedded mode).
	if v := strings.ToLower(os.Getenv("MIGRATIONS")); dsn != "" && (v == "1" || v == "true" || v == "yes") {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := AutoMigrate(conn); err != nil {
			return nil, err
		}
	}

	for _, table := range []string{"products", "clients", "users", "sale_transactions"} {
		if !conn.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}

	if err := SeedDefaultAdmin(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// AutoMigrate creates or updates the POS tables.
func AutoMigrate(conn *gorm.DB) error {
	toMigrate := []interface{}{
		&models.User{}, &models.Owner{}, &models.Product{}, &models.Client{}, &models.SaleTransaction{},
	}
	for _, m := range toMigrate {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// SeedDefaultAdmin inserts exactly one administrative account when the users
// table is empty, so a fresh install can log in.
func SeedDefaultAdmin(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Nom:      "Admin",
		Prenom:   "Administrator",
		Numero:   "0000000000",
		Adresse:  "N/A",
		Email:    "admin@ventepos.local",
		Login:    DefaultAdminLogin,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := conn.Create(&admin).Error; err != nil {
		return err
	}
	zap.S().Info("default admin user added to the database")
	return nil
}

// runSQLMigrations executes migrations in ./migrations using the
// golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
