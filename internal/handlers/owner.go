package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/ventepos/httpx"
	"github.com/diewo77/ventepos/internal/models"
	"github.com/diewo77/ventepos/validation"
)

// OwnerHandler manages the single business profile printed on invoices.
type OwnerHandler struct {
	DB *gorm.DB
}

func NewOwnerHandler(db *gorm.DB) *OwnerHandler { return &OwnerHandler{DB: db} }

func (h *OwnerHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut, http.MethodPost:
		h.upsert(w, r)
	default:
		w.Header().Set("Allow", "GET,PUT,POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

func (h *OwnerHandler) get(w http.ResponseWriter, _ *http.Request) {
	var o models.Owner
	if err := h.DB.First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSON(w, http.StatusOK, models.Owner{})
			return
		}
		httpx.InternalError(w)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

// upsert creates the profile the first time and updates it afterwards; the
// installation only ever has one.
func (h *OwnerHandler) upsert(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Nom       string `json:"nom"`
		Adresse   string `json:"adresse"`
		Telephone string `json:"telephone"`
		LogoPath  string `json:"logo_path"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.BadRequest(w, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("nom", input.Nom, v)
	if !v.Empty() {
		httpx.BadRequest(w, "validation_failed", v)
		return
	}

	var o models.Owner
	err := h.DB.First(&o).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		o = models.Owner{Nom: strings.TrimSpace(input.Nom), Adresse: input.Adresse, Telephone: input.Telephone, LogoPath: input.LogoPath}
		if err := h.DB.Create(&o).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "owner_save_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusCreated, o)
	case err != nil:
		httpx.InternalError(w)
	default:
		o.Nom = strings.TrimSpace(input.Nom)
		o.Adresse = input.Adresse
		o.Telephone = input.Telephone
		o.LogoPath = input.LogoPath
		if err := h.DB.Save(&o).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "owner_save_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, o)
	}
}
