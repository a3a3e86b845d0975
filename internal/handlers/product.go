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

type ProductHandler struct {
	DB *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler { return &ProductHandler{DB: db} }

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	pageSize, offset := pagination(r)
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	dbq := h.DB.Model(&models.Product{})
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		dbq = dbq.Where("lower(nom) LIKE ? OR lower(code) LIKE ? OR lower(categorie) LIKE ?", like, like, like)
	}
	var total int64
	if err := dbq.Count(&total).Error; err != nil {
		httpx.InternalError(w)
		return
	}
	var products []models.Product
	if err := dbq.Order("nom ASC").Limit(pageSize).Offset(offset).Find(&products).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": products, "total": total, "limit": pageSize, "offset": offset})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id <= 0 {
		httpx.BadRequest(w, "invalid_id", nil)
		return
	}
	var p models.Product
	if err := h.DB.First(&p, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "product_not_found", localize(r, "product_not_found"))
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

type productInput struct {
	Code           string  `json:"code"`
	Nom            string  `json:"nom"`
	Description    string  `json:"description"`
	Categorie      string  `json:"categorie"`
	Taille         string  `json:"taille"`
	UniteMesure    string  `json:"unite_mesure"`
	PrixAchat      float64 `json:"prix_achat"`
	PrixVente      float64 `json:"prix_vente"`
	Quantite       int     `json:"quantite"`
	DateExpiration *string `json:"date_expiration"`
}

func (in *productInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("code", in.Code, v)
	validation.Required("nom", in.Nom, v)
	validation.PositiveFloat("prix_vente", in.PrixVente, v)
	validation.NonNegativeFloat("prix_achat", in.PrixAchat, v)
	validation.NonNegativeInt("quantite", in.Quantite, v)
	if in.DateExpiration != nil {
		if _, ok := parseDate(*in.DateExpiration); !ok {
			v["date_expiration"] = "invalid_date"
		}
	}
	return v
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input productInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.BadRequest(w, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.BadRequest(w, "validation_failed", v)
		return
	}
	p := models.Product{
		Code:        strings.ToUpper(strings.TrimSpace(input.Code)),
		Nom:         strings.TrimSpace(input.Nom),
		Description: input.Description,
		Categorie:   input.Categorie,
		Taille:      input.Taille,
		UniteMesure: input.UniteMesure,
		PrixAchat:   input.PrixAchat,
		PrixVente:   input.PrixVente,
		Quantite:    input.Quantite,
	}
	if input.DateExpiration != nil {
		if t, ok := parseDate(*input.DateExpiration); ok {
			p.DateExpiration = &t
		}
	}
	if err := h.DB.Create(&p).Error; err != nil {
		if isDuplicate(err) {
			httpx.JSONError(w, http.StatusConflict, "duplicate_code", localize(r, "duplicate_code"))
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "product_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

// Update edits everything but the code; the code stays the product's stable
// public reference.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id <= 0 {
		httpx.BadRequest(w, "invalid_id", nil)
		return
	}
	var p models.Product
	if err := h.DB.First(&p, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "product_not_found", localize(r, "product_not_found"))
		return
	}
	var body struct {
		Nom            *string  `json:"nom"`
		Description    *string  `json:"description"`
		Categorie      *string  `json:"categorie"`
		Taille         *string  `json:"taille"`
		UniteMesure    *string  `json:"unite_mesure"`
		PrixAchat      *float64 `json:"prix_achat"`
		PrixVente      *float64 `json:"prix_vente"`
		Quantite       *int     `json:"quantite"`
		DateExpiration *string  `json:"date_expiration"`
	}
	if err := httpx.Decode(r, &body); err != nil {
		httpx.BadRequest(w, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	if body.Nom != nil {
		validation.Required("nom", *body.Nom, v)
	}
	if body.PrixVente != nil {
		validation.PositiveFloat("prix_vente", *body.PrixVente, v)
	}
	if body.PrixAchat != nil {
		validation.NonNegativeFloat("prix_achat", *body.PrixAchat, v)
	}
	if body.Quantite != nil {
		validation.NonNegativeInt("quantite", *body.Quantite, v)
	}
	if !v.Empty() {
		httpx.BadRequest(w, "validation_failed", v)
		return
	}
	if body.Nom != nil {
		p.Nom = strings.TrimSpace(*body.Nom)
	}
	if body.Description != nil {
		p.Description = *body.Description
	}
	if body.Categorie != nil {
		p.Categorie = *body.Categorie
	}
	if body.Taille != nil {
		p.Taille = *body.Taille
	}
	if body.UniteMesure != nil {
		p.UniteMesure = *body.UniteMesure
	}
	if body.PrixAchat != nil {
		p.PrixAchat = *body.PrixAchat
	}
	if body.PrixVente != nil {
		p.PrixVente = *body.PrixVente
	}
	if body.Quantite != nil {
		p.Quantite = *body.Quantite
	}
	if body.DateExpiration != nil {
		if *body.DateExpiration == "" {
			p.DateExpiration = nil
		} else if t, ok := parseDate(*body.DateExpiration); ok {
			p.DateExpiration = &t
		} else {
			httpx.BadRequest(w, "validation_failed", validation.Violations{"date_expiration": "invalid_date"})
			return
		}
	}
	if err := h.DB.Save(&p).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "product_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Delete removes the product and, through the store-level cascade, its
// sale transactions.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id <= 0 {
		httpx.BadRequest(w, "invalid_id", nil)
		return
	}
	res := h.DB.Delete(&models.Product{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "product_delete_failed", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "product_not_found", localize(r, "product_not_found"))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// isDuplicate recognises unique-constraint violations across drivers.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(strings.ToLower(err.Error()), "unique") ||
		strings.Contains(strings.ToLower(err.Error()), "duplicate")
}
