package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/ventepos/gate"
	"github.com/diewo77/ventepos/internal/db"
	"github.com/diewo77/ventepos/internal/pdf"
	"github.com/diewo77/ventepos/internal/prefs"
	"github.com/diewo77/ventepos/internal/services"
)

func newTestHandler(t *testing.T, license gate.LicensePolicy) (http.Handler, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.SeedDefaultAdmin(conn); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("prefs: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	logger := zaptest.NewLogger(t)
	cart := services.NewCartService(store, logger)
	checkout, err := services.NewCheckoutService(conn, cart, logger)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	return New(Deps{
		DB:       conn,
		Cart:     cart,
		Checkout: checkout,
		Sessions: services.NewSessionService(store),
		Reports:  services.NewReportService(conn),
		PDF:      pdf.NewGenerator(t.TempDir()),
		License:  license,
		Logger:   logger,
	}), conn
}

func login(t *testing.T, h http.Handler) []*http.Cookie {
	t.Helper()
	body := `{"login":"` + db.DefaultAdminLogin + `","password":"` + db.DefaultAdminPassword + `"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}

func TestHealthEndpoints(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	for _, path := range []string{"/health", "/healthz"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, w.Code)
		}
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	for _, path := range []string{"/products", "/clients", "/cart", "/reports/summary", "/exports/products"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", path, w.Code)
		}
	}
}

func TestLoginThenCreateProductFlow(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	cookies := login(t, h)

	req := httptest.NewRequest(http.MethodPost, "/products",
		strings.NewReader(`{"code":"P-001","nom":"Pommes","prix_vente":10,"quantite":5}`))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create product: expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	req2 := httptest.NewRequest(http.MethodGet, "/products", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, req2)
	if w2.Code != http.StatusOK || !strings.Contains(w2.Body.String(), "Pommes") {
		t.Fatalf("list products: %d %s", w2.Code, w2.Body.String())
	}
}

func TestSeededAdminCanManageUsers(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	cookies := login(t, h)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin listing users: expected 200 got %d", w.Code)
	}
}

func TestExpiredLicenseBlocksAPI(t *testing.T) {
	expired := gate.NewSignedLicense(
		gate.SignLicense(time.Now().AddDate(0, 0, -1), "pub", "priv"), "pub", "priv")
	h, _ := newTestHandler(t, expired)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{}`)))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", w.Code)
	}

	// Health and license status stay reachable.
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/license", nil))
	if w2.Code != http.StatusOK {
		t.Fatalf("license endpoint: expected 200 got %d", w2.Code)
	}
	var status struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Valid {
		t.Fatal("expired license must report invalid")
	}
}
