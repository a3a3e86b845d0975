package db

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/ventepos/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	d, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := AutoMigrate(d); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestSeedDefaultAdminIdempotent(t *testing.T) {
	d := openTestDB(t)
	if err := SeedDefaultAdmin(d); err != nil {
		t.Fatal(err)
	}
	if err := SeedDefaultAdmin(d); err != nil {
		t.Fatal(err)
	}
	var count int64
	d.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly 1 seeded user, got %d", count)
	}
	var admin models.User
	if err := d.Where("login = ?", DefaultAdminLogin).First(&admin).Error; err != nil {
		t.Fatalf("default admin missing: %v", err)
	}
	if !admin.IsAdmin() {
		t.Fatalf("seeded user has role %q, want admin", admin.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(DefaultAdminPassword)); err != nil {
		t.Fatalf("seeded password is not a bcrypt hash of the default: %v", err)
	}
}

func TestSeedSkippedWhenUsersExist(t *testing.T) {
	d := openTestDB(t)
	existing := models.User{Nom: "Doe", Login: "jdoe", Password: "x", Role: models.RoleNormal}
	if err := d.Create(&existing).Error; err != nil {
		t.Fatal(err)
	}
	if err := SeedDefaultAdmin(d); err != nil {
		t.Fatal(err)
	}
	var count int64
	d.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Fatalf("seed must not run on a non-empty users table, got %d users", count)
	}
}

func TestNormalizeDSN(t *testing.T) {
	cases := map[string]string{
		"":                              "",
		"postgres://u:p@h:5432/db":      "postgres://u:p@h:5432/db",
		"  host=h user=u dbname=d  ":    "host=h user=u dbname=d sslmode=disable",
		"host=h dbname=d sslmode=require": "host=h dbname=d sslmode=require",
	}
	for in, want := range cases {
		if got := NormalizeDSN(in); got != want {
			t.Errorf("NormalizeDSN(%q) = %q, want %q", in, got, want)
		}
	}
}
