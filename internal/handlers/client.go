package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/diewo77/ventepos/httpx"
	"github.com/diewo77/ventepos/internal/models"
	"github.com/diewo77/ventepos/validation"
)

type ClientHandler struct {
	DB *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler { return &ClientHandler{DB: db} }

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	pageSize, offset := pagination(r)
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	dbq := h.DB.Model(&models.Client{})
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		dbq = dbq.Where("lower(nom) LIKE ? OR lower(prenom) LIKE ? OR lower(numero_client) LIKE ?", like, like, like)
	}
	var total int64
	if err := dbq.Count(&total).Error; err != nil {
		httpx.InternalError(w)
		return
	}
	var clients []models.Client
	if err := dbq.Order("nom ASC, prenom ASC").Limit(pageSize).Offset(offset).Find(&clients).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_clients", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": clients, "total": total, "limit": pageSize, "offset": offset})
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id <= 0 {
		httpx.BadRequest(w, "invalid_id", nil)
		return
	}
	var c models.Client
	if err := h.DB.First(&c, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "client_not_found", localize(r, "client_not_found"))
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Nom     string `json:"nom"`
		Prenom  string `json:"prenom"`
		Numero  string `json:"numero"`
		Adresse string `json:"adresse"`
		Email   string `json:"email"`
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
	c := models.Client{
		Nom:     strings.TrimSpace(input.Nom),
		Prenom:  strings.TrimSpace(input.Prenom),
		Numero:  input.Numero,
		Adresse: input.Adresse,
		Email:   input.Email,
		// Référence client générée à la création, jamais modifiée ensuite.
		NumeroClient: uuid.NewString(),
	}
	if err := h.DB.Create(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "client_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id <= 0 {
		httpx.BadRequest(w, "invalid_id", nil)
		return
	}
	var c models.Client
	if err := h.DB.First(&c, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "client_not_found", localize(r, "client_not_found"))
		return
	}
	var body struct {
		Nom     *string `json:"nom"`
		Prenom  *string `json:"prenom"`
		Numero  *string `json:"numero"`
		Adresse *string `json:"adresse"`
		Email   *string `json:"email"`
	}
	if err := httpx.Decode(r, &body); err != nil {
		httpx.BadRequest(w, "invalid_json", nil)
		return
	}
	if body.Nom != nil {
		if strings.TrimSpace(*body.Nom) == "" {
			httpx.BadRequest(w, "validation_failed", validation.Violations{"nom": "required"})
			return
		}
		c.Nom = strings.TrimSpace(*body.Nom)
	}
	if body.Prenom != nil {
		c.Prenom = strings.TrimSpace(*body.Prenom)
	}
	if body.Numero != nil {
		c.Numero = *body.Numero
	}
	if body.Adresse != nil {
		c.Adresse = *body.Adresse
	}
	if body.Email != nil {
		c.Email = *body.Email
	}
	if err := h.DB.Save(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "client_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

// Delete removes the client and, through the store-level cascade, their
// sale transactions.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id <= 0 {
		httpx.BadRequest(w, "invalid_id", nil)
		return
	}
	res := h.DB.Delete(&models.Client{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "client_delete_failed", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "client_not_found", localize(r, "client_not_found"))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
