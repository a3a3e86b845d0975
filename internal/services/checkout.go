package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/ventepos/internal/models"
)

var (
	// ErrEmptyBasket is returned when checkout is attempted on an empty cart.
	ErrEmptyBasket = errors.New("le panier est vide")
	// ErrInvalidPaymentMode is returned when no valid payment mode is selected.
	ErrInvalidPaymentMode = errors.New("mode de paiement invalide")
	// ErrProductNotFound wraps the name of the product missing from the store.
	ErrProductNotFound = errors.New("produit introuvable")
	// ErrInsufficientStock wraps the name of the product whose stock is short.
	ErrInsufficientStock = errors.New("stock insuffisant")
	// ErrClientNotFound is returned when the selected client no longer exists.
	ErrClientNotFound = errors.New("client introuvable")
)

// CheckoutResult reports what one successful checkout wrote.
type CheckoutResult struct {
	OrderID      int64   `json:"order_id"`
	Transactions int     `json:"transactions"`
	Total        float64 `json:"total"`
}

// CheckoutService atomically converts the current basket into a committed
// sale: one SaleTransaction row per line under a single generated order id,
// with the matching stock decrements, all inside one store transaction.
type CheckoutService struct {
	db     *gorm.DB
	cart   *CartService
	node   *snowflake.Node
	logger *zap.Logger
}

func NewCheckoutService(db *gorm.DB, cart *CartService, logger *zap.Logger) (*CheckoutService, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("init order id generator: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{db: db, cart: cart, node: node, logger: logger}, nil
}

// Checkout validates and commits the basket. On any failure nothing is
// written and the basket is left untouched; on success the basket is cleared
// and the count of transactions written is reported.
//
// A zero-quantity line is treated like any other line and produces a
// zero-quantity transaction.
func (s *CheckoutService) Checkout(ctx context.Context, clientID *uint, mode models.PaymentMode) (*CheckoutResult, error) {
	lines := s.cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyBasket
	}
	if !mode.Valid() {
		return nil, ErrInvalidPaymentMode
	}

	// One fresh order identifier shared by every line of this checkout.
	orderID := s.node.Generate().Int64()
	now := time.Now()

	var total float64
	count := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clientID != nil {
			var n int64
			if err := tx.Model(&models.Client{}).Where("id = ?", *clientID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("%w (id=%d)", ErrClientNotFound, *clientID)
			}
		}
		for _, line := range lines {
			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s (id=%d)", ErrProductNotFound, line.Nom, line.ProductID)
				}
				return err
			}
			if line.Quantite > product.Quantite {
				return fmt.Errorf("%w: %s (demandé %d, en stock %d)",
					ErrInsufficientStock, product.Nom, line.Quantite, product.Quantite)
			}

			txn := models.SaleTransaction{
				Quantite:     line.Quantite,
				DateDeVente:  now,
				ProductID:    product.ID,
				ClientID:     clientID,
				OrderID:      orderID,
				PaymentMode:  mode,
				PrixUnitaire: product.PrixVente,
			}
			if err := tx.Create(&txn).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Product{}).
				Where("id = ?", product.ID).
				UpdateColumn("quantite", gorm.Expr("quantite - ?", line.Quantite)).Error; err != nil {
				return err
			}
			total += float64(line.Quantite) * product.PrixVente
			count++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cart.Clear(); err != nil {
		// The sale is committed; a failed cart clear must not undo it.
		s.logger.Warn("failed to clear cart after checkout", zap.Error(err))
	}

	s.logger.Info("checkout committed",
		zap.Int64("order_id", orderID),
		zap.Int("transactions", count),
		zap.Float64("total", total))
	return &CheckoutResult{OrderID: orderID, Transactions: count, Total: total}, nil
}
