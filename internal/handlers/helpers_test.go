package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/ventepos/auth"
	"github.com/diewo77/ventepos/gate"
	"github.com/diewo77/ventepos/internal/db"
	"github.com/diewo77/ventepos/internal/models"
	"github.com/diewo77/ventepos/internal/prefs"
	"github.com/diewo77/ventepos/internal/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func openTestPrefs(t *testing.T) *prefs.Store {
	t.Helper()
	s, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("open prefs: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newCartServices(t *testing.T, conn *gorm.DB) (*services.CartService, *services.CheckoutService) {
	t.Helper()
	cart := services.NewCartService(openTestPrefs(t), zaptest.NewLogger(t))
	checkout, err := services.NewCheckoutService(conn, cart, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}
	return cart, checkout
}

// adminGate registers the users policy the router installs: only users whose
// role is Admin pass.
func adminGate(conn *gorm.DB) *gate.Gate[uint] {
	g := gate.NewGate[uint]()
	g.Register("users", gate.PolicyFunc[uint](func(_ context.Context, uid uint, _ gate.Action, _ any) bool {
		var u models.User
		if err := conn.First(&u, uid).Error; err != nil {
			return false
		}
		return u.IsAdmin()
	}))
	return g
}

func jsonReq(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asUser(req *http.Request, uid uint) *http.Request {
	return req.WithContext(auth.WithUserID(req.Context(), uid))
}

func createUser(t *testing.T, conn *gorm.DB, login, role string) models.User {
	t.Helper()
	u := models.User{Nom: login, Login: login, Password: "x", Role: role}
	if err := conn.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func createProduct(t *testing.T, conn *gorm.DB, code, nom string, prix float64, stock int) models.Product {
	t.Helper()
	p := models.Product{Code: code, Nom: nom, PrixVente: prix, PrixAchat: prix / 2, Quantite: stock}
	if err := conn.Create(&p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}
