package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/ventepos/httpx"
	"github.com/diewo77/ventepos/internal/models"
	"github.com/diewo77/ventepos/internal/services"
	"github.com/diewo77/ventepos/validation"
)

// CartHandler exposes the in-progress sale: line management plus the final
// checkout. Stock is validated against the product table on every quantity
// change, and again inside the checkout transaction.
type CartHandler struct {
	DB       *gorm.DB
	Cart     *services.CartService
	Checkout *services.CheckoutService
}

func NewCartHandler(db *gorm.DB, cart *services.CartService, checkout *services.CheckoutService) *CartHandler {
	return &CartHandler{DB: db, Cart: cart, Checkout: checkout}
}

func (h *CartHandler) List(w http.ResponseWriter, _ *http.Request) {
	lines := h.Cart.Lines()
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items":       lines,
		"lignes":      len(lines),
		"total_price": h.Cart.TotalPrice(),
	})
}

// AddItem sets the basket quantity for a product (last write wins). The
// display fields of the line are snapshotted from the product at add time.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ProductID uint `json:"product_id"`
		Quantite  int  `json:"quantite"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.BadRequest(w, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.NonNegativeInt("quantite", input.Quantite, v)
	if input.ProductID == 0 {
		v["product_id"] = "required"
	}
	if !v.Empty() {
		httpx.BadRequest(w, "validation_failed", v)
		return
	}

	var product models.Product
	if err := h.DB.First(&product, input.ProductID).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "product_not_found", localize(r, "product_not_found"))
		return
	}
	if input.Quantite > product.Quantite {
		httpx.JSONError(w, http.StatusConflict, "insufficient_stock", map[string]any{
			"message":  localize(r, "insufficient_stock"),
			"demande":  input.Quantite,
			"en_stock": product.Quantite,
		})
		return
	}

	line, err := h.Cart.AddOrUpdateLine(models.CartLine{
		ProductID:   product.ID,
		Nom:         product.Nom,
		Description: product.Description,
		Prix:        product.PrixVente,
		Quantite:    input.Quantite,
		Categorie:   product.Categorie,
		Taille:      product.Taille,
		DateLimite:  product.DateExpiration,
	})
	if err != nil {
		httpx.InternalError(w)
		return
	}
	httpx.JSON(w, http.StatusOK, line)
}

// Increment bumps a line's quantity by one, within available stock.
func (h *CartHandler) Increment(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, +1)
}

// Decrement lowers a line's quantity by one, stopping at zero. A zero
// quantity keeps the line in the basket.
func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, -1)
}

func (h *CartHandler) step(w http.ResponseWriter, r *http.Request, delta int) {
	var input struct {
		ID string `json:"id"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.BadRequest(w, "invalid_json", nil)
		return
	}
	line, ok := h.Cart.Line(input.ID)
	if !ok {
		httpx.NotFound(w, "line_not_found")
		return
	}
	next := line.Quantite + delta
	if next < 0 {
		next = 0
	}
	if delta > 0 {
		var product models.Product
		if err := h.DB.First(&product, line.ProductID).Error; err != nil {
			httpx.JSONError(w, http.StatusNotFound, "product_not_found", localize(r, "product_not_found"))
			return
		}
		if next > product.Quantite {
			httpx.JSONError(w, http.StatusConflict, "insufficient_stock", map[string]any{
				"message":  localize(r, "insufficient_stock"),
				"demande":  next,
				"en_stock": product.Quantite,
			})
			return
		}
	}
	line.Quantite = next
	stored, err := h.Cart.AddOrUpdateLine(line)
	if err != nil {
		httpx.InternalError(w)
		return
	}
	httpx.JSON(w, http.StatusOK, stored)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.BadRequest(w, "invalid_id", nil)
		return
	}
	if err := h.Cart.RemoveLine(id); err != nil {
		httpx.InternalError(w)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"removed": id})
}

func (h *CartHandler) Clear(w http.ResponseWriter, _ *http.Request) {
	if err := h.Cart.Clear(); err != nil {
		httpx.InternalError(w)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// DoCheckout commits the basket as one order. Any failure leaves both the
// store and the basket untouched.
func (h *CartHandler) DoCheckout(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ClientID    *uint  `json:"client_id"`
		PaymentMode string `json:"payment_mode"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.BadRequest(w, "invalid_json", nil)
		return
	}
	result, err := h.Checkout.Checkout(r.Context(), input.ClientID, models.PaymentMode(input.PaymentMode))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyBasket):
			httpx.JSONError(w, http.StatusBadRequest, "empty_basket", localize(r, "empty_basket"))
		case errors.Is(err, services.ErrInvalidPaymentMode):
			httpx.BadRequest(w, "invalid_payment_mode", nil)
		case errors.Is(err, services.ErrClientNotFound):
			httpx.JSONError(w, http.StatusBadRequest, "client_not_found", localize(r, "client_not_found"))
		case errors.Is(err, services.ErrProductNotFound):
			httpx.JSONError(w, http.StatusConflict, "product_not_found", err.Error())
		case errors.Is(err, services.ErrInsufficientStock):
			httpx.JSONError(w, http.StatusConflict, "insufficient_stock", err.Error())
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "checkout_failed", nil)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}
