package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/ventepos/auth"
	"github.com/diewo77/ventepos/gate"
	"github.com/diewo77/ventepos/httpx"
	"github.com/diewo77/ventepos/internal/handlers"
	"github.com/diewo77/ventepos/internal/models"
	"github.com/diewo77/ventepos/internal/pdf"
	"github.com/diewo77/ventepos/internal/services"
)

// Deps carries everything the router needs; main builds it once at startup.
type Deps struct {
	DB       *gorm.DB
	Cart     *services.CartService
	Checkout *services.CheckoutService
	Sessions *services.SessionService
	Reports  *services.ReportService
	PDF      *pdf.Generator
	License  gate.LicensePolicy
	Logger   *zap.Logger
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.License == nil {
		d.License = gate.AlwaysValid{}
	}
	db := d.DB
	mux := http.NewServeMux()

	// RequireAuth double-checks that the session's user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	// Only administrators may manage operator accounts.
	g := gate.NewGate[uint]()
	g.Register("users", gate.PolicyFunc[uint](func(_ context.Context, uid uint, _ gate.Action, _ any) bool {
		var u models.User
		if err := db.First(&u, uid).Error; err != nil {
			return false
		}
		return u.IsAdmin()
	}))

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/license", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"valid":        d.License.Valid(),
			"expires_soon": d.License.ExpiresSoon(),
		})
	})

	// Auth endpoints
	handlers.NewAuthHandler(db, d.Sessions).Register(mux)

	protect := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(h))
	}

	// Product endpoints
	ph := handlers.NewProductHandler(db)
	mux.Handle("/products", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ph.List(w, r)
		case http.MethodPost:
			ph.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))
	mux.Handle("/products/get", protect(ph.Get))
	mux.Handle("/products/update", protect(ph.Update))
	mux.Handle("/products/delete", protect(ph.Delete))

	// Client endpoints
	ch := handlers.NewClientHandler(db)
	mux.Handle("/clients", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ch.List(w, r)
		case http.MethodPost:
			ch.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))
	mux.Handle("/clients/get", protect(ch.Get))
	mux.Handle("/clients/update", protect(ch.Update))
	mux.Handle("/clients/delete", protect(ch.Delete))

	// User management (admin-gated through the authorization gate)
	uh := handlers.NewUserHandler(db, g)
	mux.Handle("/users", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			uh.List(w, r)
		case http.MethodPost:
			uh.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))
	mux.Handle("/users/update", protect(uh.Update))
	mux.Handle("/users/delete", protect(uh.Delete))

	// Business profile
	oh := handlers.NewOwnerHandler(db)
	mux.Handle("/owner", protect(oh.Handle))

	// Cart & checkout
	carth := handlers.NewCartHandler(db, d.Cart, d.Checkout)
	mux.Handle("/cart", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			carth.List(w, r)
		case http.MethodPost:
			carth.AddItem(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))
	mux.Handle("/cart/increment", protect(carth.Increment))
	mux.Handle("/cart/decrement", protect(carth.Decrement))
	mux.Handle("/cart/remove", protect(carth.RemoveItem))
	mux.Handle("/cart/clear", protect(carth.Clear))
	mux.Handle("/checkout", protect(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		carth.DoCheckout(w, r)
	}))

	// Reporting
	rh := handlers.NewReportHandler(d.Reports)
	mux.Handle("/reports/summary", protect(rh.Summary))
	mux.Handle("/reports/history", protect(rh.History))
	mux.Handle("/reports/orders", protect(rh.Orders))
	mux.Handle("/reports/orders/detail", protect(rh.OrderDetail))
	mux.Handle("/reports/dashboard", protect(rh.Dashboard))

	// PDF exports
	eh := handlers.NewExportHandler(db, d.Reports, d.PDF)
	mux.Handle("/exports/invoice", protect(eh.Invoice))
	mux.Handle("/exports/products", protect(eh.Products))
	mux.Handle("/exports/inventory", protect(eh.Inventory))
	mux.Handle("/exports/clients", protect(eh.Clients))
	mux.Handle("/exports/history", protect(eh.History))
	mux.Handle("/exports/summary", protect(eh.Summary))

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("VentePOS API"))
	})

	return withLicense(d.License, withRecover(d.Logger, withLogging(d.Logger, mux)))
}

// withLicense blocks everything except the health and license endpoints when
// the installation's license is no longer valid.
func withLicense(license gate.LicensePolicy, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health", "/healthz", "/license":
			next.ServeHTTP(w, r)
			return
		}
		if !license.Valid() {
			httpx.JSONError(w, http.StatusForbidden, "license_expired", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withLogging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

func withRecover(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
