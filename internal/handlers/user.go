package handlers

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/ventepos/auth"
	"github.com/diewo77/ventepos/gate"
	"github.com/diewo77/ventepos/httpx"
	"github.com/diewo77/ventepos/internal/models"
	"github.com/diewo77/ventepos/validation"
)

// UserHandler manages operator accounts. Every operation goes through the
// authorization gate: only administrators may touch the user list.
type UserHandler struct {
	DB   *gorm.DB
	Gate *gate.Gate[uint]
}

func NewUserHandler(db *gorm.DB, g *gate.Gate[uint]) *UserHandler {
	return &UserHandler{DB: db, Gate: g}
}

func (h *UserHandler) authorize(w http.ResponseWriter, r *http.Request, action gate.Action) bool {
	uid, _ := auth.UserIDFromContext(r.Context())
	if err := h.Gate.Authorize(r.Context(), uid, action, "users", nil); err != nil {
		httpx.Forbidden(w)
		return false
	}
	return true
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, gate.ActionList) {
		return
	}
	var users []models.User
	if err := h.DB.Order("login ASC").Find(&users).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_users", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": users, "total": len(users)})
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, gate.ActionCreate) {
		return
	}
	var input struct {
		Nom      string `json:"nom"`
		Prenom   string `json:"prenom"`
		Numero   string `json:"numero"`
		Adresse  string `json:"adresse"`
		Email    string `json:"email"`
		Login    string `json:"login"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.BadRequest(w, "invalid_json", nil)
		return
	}
	if input.Role == "" {
		input.Role = models.RoleNormal
	}
	v := validation.Violations{}
	validation.Required("nom", input.Nom, v)
	validation.Required("login", input.Login, v)
	validation.Required("password", input.Password, v)
	validation.OneOf("role", input.Role, v, models.RoleAdmin, models.RoleNormal)
	if !v.Empty() {
		httpx.BadRequest(w, "validation_failed", v)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.InternalError(w)
		return
	}
	u := models.User{
		Nom:      strings.TrimSpace(input.Nom),
		Prenom:   strings.TrimSpace(input.Prenom),
		Numero:   input.Numero,
		Adresse:  input.Adresse,
		Email:    input.Email,
		Login:    strings.TrimSpace(input.Login),
		Password: string(hash),
		Role:     input.Role,
	}
	if err := h.DB.Create(&u).Error; err != nil {
		if isDuplicate(err) {
			httpx.JSONError(w, http.StatusConflict, "duplicate_login", localize(r, "duplicate_login"))
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "user_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, u)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, gate.ActionUpdate) {
		return
	}
	id := idParam(r)
	if id <= 0 {
		httpx.BadRequest(w, "invalid_id", nil)
		return
	}
	var u models.User
	if err := h.DB.First(&u, id).Error; err != nil {
		httpx.NotFound(w, "user_not_found")
		return
	}
	var body struct {
		Nom      *string `json:"nom"`
		Prenom   *string `json:"prenom"`
		Numero   *string `json:"numero"`
		Adresse  *string `json:"adresse"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
		Role     *string `json:"role"`
	}
	if err := httpx.Decode(r, &body); err != nil {
		httpx.BadRequest(w, "invalid_json", nil)
		return
	}
	if body.Role != nil {
		v := validation.Violations{}
		validation.OneOf("role", *body.Role, v, models.RoleAdmin, models.RoleNormal)
		if !v.Empty() {
			httpx.BadRequest(w, "validation_failed", v)
			return
		}
		u.Role = *body.Role
	}
	if body.Nom != nil {
		u.Nom = strings.TrimSpace(*body.Nom)
	}
	if body.Prenom != nil {
		u.Prenom = strings.TrimSpace(*body.Prenom)
	}
	if body.Numero != nil {
		u.Numero = *body.Numero
	}
	if body.Adresse != nil {
		u.Adresse = *body.Adresse
	}
	if body.Email != nil {
		u.Email = *body.Email
	}
	if body.Password != nil && *body.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
		if err != nil {
			httpx.InternalError(w)
			return
		}
		u.Password = string(hash)
	}
	if err := h.DB.Save(&u).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "user_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, gate.ActionDelete) {
		return
	}
	id := idParam(r)
	if id <= 0 {
		httpx.BadRequest(w, "invalid_id", nil)
		return
	}
	if uid, _ := auth.UserIDFromContext(r.Context()); uid == uint(id) {
		httpx.BadRequest(w, "cannot_delete_self", nil)
		return
	}
	res := h.DB.Delete(&models.User{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "user_delete_failed", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.NotFound(w, "user_not_found")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
