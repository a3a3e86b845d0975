package handlers

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/ventepos/auth"
	"github.com/diewo77/ventepos/httpx"
	"github.com/diewo77/ventepos/internal/models"
	"github.com/diewo77/ventepos/internal/services"
)

type AuthHandler struct {
	DB       *gorm.DB
	Sessions *services.SessionService
}

func NewAuthHandler(db *gorm.DB, sessions *services.SessionService) *AuthHandler {
	return &AuthHandler{DB: db, Sessions: sessions}
}

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/login", h.login)
	mux.HandleFunc("/logout", h.logout)
	mux.Handle("/me", auth.Middleware(auth.RequireAuth(http.HandlerFunc(h.me))))
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var input struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.BadRequest(w, "invalid_json", nil)
		return
	}
	login := strings.TrimSpace(input.Login)
	if login == "" || input.Password == "" {
		httpx.BadRequest(w, "missing_credentials", nil)
		return
	}
	var user models.User
	if err := h.DB.Where("login = ?", login).First(&user).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", localize(r, "invalid_credentials"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", localize(r, "invalid_credentials"))
		return
	}
	auth.CreateSession(w, user.ID)
	if err := h.Sessions.SetConnectedUser(user); err != nil {
		httpx.InternalError(w)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	auth.ClearSession(w)
	if err := h.Sessions.Clear(); err != nil {
		httpx.InternalError(w)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	if u, ok := h.Sessions.ConnectedUser(); ok {
		httpx.JSON(w, http.StatusOK, u)
		return
	}
	// Cookie is valid but the connected-user slot is gone: rebuild it.
	uid, _ := auth.UserIDFromContext(r.Context())
	var user models.User
	if err := h.DB.First(&user, uid).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	_ = h.Sessions.SetConnectedUser(user)
	httpx.JSON(w, http.StatusOK, user)
}
