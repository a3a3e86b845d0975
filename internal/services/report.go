package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/ventepos/internal/models"
)

// ErrOrderNotFound is returned when no transaction carries the order id.
var ErrOrderNotFound = errors.New("commande introuvable")

// ProductSalesSummary aggregates the sales of one product over a period.
// Revenue uses the per-transaction price snapshot, so a later price change
// does not rewrite history.
type ProductSalesSummary struct {
	ProductID         uint    `json:"product_id"`
	Nom               string  `json:"nom"`
	TotalQuantitySold int     `json:"total_quantity_sold"`
	TotalSalesPrice   float64 `json:"total_sales_price"`
}

// OrderSummary is one checkout event seen from the order history page.
type OrderSummary struct {
	OrderID     int64              `json:"order_id"`
	DateDeVente time.Time          `json:"date_de_vente"`
	PaymentMode models.PaymentMode `json:"payment_mode"`
	Lignes      int                `json:"lignes"`
	Total       float64            `json:"total"`
}

// ReportService is the pure read side: grouped and paginated queries over
// SaleTransaction joined with Product/Client. No write side effects.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService { return &ReportService{db: db} }

// SalesSummary groups transactions by product over [from, to], optionally
// filtered by a case-insensitive substring of the product name, with
// skip/take pagination. Returns the page and the total number of matching
// products.
func (r *ReportService) SalesSummary(ctx context.Context, from, to time.Time, search string, page, pageSize int) ([]ProductSalesSummary, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.SaleTransaction{}).
		Joins("JOIN products ON products.id = sale_transactions.product_id").
		Where("sale_transactions.date_de_vente BETWEEN ? AND ?", from, to)
	if s := strings.TrimSpace(search); s != "" {
		base = base.Where("lower(products.nom) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Distinct("sale_transactions.product_id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []ProductSalesSummary
	err := base.Session(&gorm.Session{}).
		Select("sale_transactions.product_id AS product_id, products.nom AS nom, " +
			"SUM(sale_transactions.quantite) AS total_quantity_sold, " +
			"SUM(sale_transactions.quantite * sale_transactions.prix_unitaire) AS total_sales_price").
		Group("sale_transactions.product_id, products.nom").
		Order("products.nom ASC").
		Limit(pageSize).
		Offset(pageOffset(page, pageSize)).
		Scan(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// History lists individual transactions in [from, to], most recent first,
// with product and client preloaded, paginated.
func (r *ReportService) History(ctx context.Context, from, to time.Time, page, pageSize int) ([]models.SaleTransaction, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.SaleTransaction{}).
		Where("date_de_vente BETWEEN ? AND ?", from, to)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.SaleTransaction
	err := base.Session(&gorm.Session{}).
		Preload("Product").
		Preload("Client").
		Order("date_de_vente DESC, id DESC").
		Limit(pageSize).
		Offset(pageOffset(page, pageSize)).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Orders groups transactions by order id over [from, to], paginated, most
// recent checkout first.
func (r *ReportService) Orders(ctx context.Context, from, to time.Time, page, pageSize int) ([]OrderSummary, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.SaleTransaction{}).
		Where("date_de_vente BETWEEN ? AND ?", from, to)

	var total int64
	if err := base.Session(&gorm.Session{}).Distinct("order_id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []OrderSummary
	err := base.Session(&gorm.Session{}).
		Select("order_id AS order_id, MIN(date_de_vente) AS date_de_vente, " +
			"MIN(payment_mode) AS payment_mode, COUNT(*) AS lignes, " +
			"SUM(quantite * prix_unitaire) AS total").
		Group("order_id").
		Order("MIN(date_de_vente) DESC").
		Limit(pageSize).
		Offset(pageOffset(page, pageSize)).
		Scan(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// OrderDetail returns every line of one checkout, in insertion order.
func (r *ReportService) OrderDetail(ctx context.Context, orderID int64) ([]models.SaleTransaction, error) {
	var out []models.SaleTransaction
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Client").
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrOrderNotFound
	}
	return out, nil
}

// MostSold returns the top products by quantity sold over [from, to].
func (r *ReportService) MostSold(ctx context.Context, from, to time.Time, limit int) ([]ProductSalesSummary, error) {
	return r.rankedByQuantity(ctx, from, to, limit, "DESC")
}

// LeastSold returns the bottom products by quantity sold over [from, to].
func (r *ReportService) LeastSold(ctx context.Context, from, to time.Time, limit int) ([]ProductSalesSummary, error) {
	return r.rankedByQuantity(ctx, from, to, limit, "ASC")
}

func (r *ReportService) rankedByQuantity(ctx context.Context, from, to time.Time, limit int, dir string) ([]ProductSalesSummary, error) {
	var out []ProductSalesSummary
	err := r.db.WithContext(ctx).Model(&models.SaleTransaction{}).
		Joins("JOIN products ON products.id = sale_transactions.product_id").
		Where("sale_transactions.date_de_vente BETWEEN ? AND ?", from, to).
		Select("sale_transactions.product_id AS product_id, products.nom AS nom, "+
			"SUM(sale_transactions.quantite) AS total_quantity_sold, "+
			"SUM(sale_transactions.quantite * sale_transactions.prix_unitaire) AS total_sales_price").
		Group("sale_transactions.product_id, products.nom").
		Order("total_quantity_sold " + dir).
		Limit(limit).
		Scan(&out).Error
	return out, err
}

func pageOffset(page, pageSize int) int {
	if page > 1 {
		return (page - 1) * pageSize
	}
	return 0
}
