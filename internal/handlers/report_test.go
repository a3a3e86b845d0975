package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/ventepos/internal/models"
	"github.com/diewo77/ventepos/internal/services"
)

func seedSale(t *testing.T, conn *gorm.DB, productID uint, qty int, price float64, orderID int64, when time.Time) {
	t.Helper()
	txn := models.SaleTransaction{
		Quantite: qty, DateDeVente: when, ProductID: productID,
		OrderID: orderID, PaymentMode: models.PaymentCash, PrixUnitaire: price,
	}
	if err := conn.Create(&txn).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}
}

func TestReportSummaryHandler(t *testing.T) {
	conn := setupTestDB(t)
	h := NewReportHandler(services.NewReportService(conn))
	p := createProduct(t, conn, "P-001", "Pommes", 10, 50)
	now := time.Now()
	seedSale(t, conn, p.ID, 3, 10, 100, now.Add(-time.Hour))
	seedSale(t, conn, p.ID, 2, 10, 101, now.Add(-2*time.Hour))

	w := httptest.NewRecorder()
	h.Summary(w, httptest.NewRequest(http.MethodGet, "/reports/summary", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var payload struct {
		Items []services.ProductSalesSummary `json:"items"`
		Total int64                          `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Total != 1 || len(payload.Items) != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Items[0].TotalQuantitySold != 5 || payload.Items[0].TotalSalesPrice != 50 {
		t.Fatalf("aggregation wrong: %+v", payload.Items[0])
	}
}

func TestReportOrderDetailNotFound(t *testing.T) {
	conn := setupTestDB(t)
	h := NewReportHandler(services.NewReportService(conn))

	w := httptest.NewRecorder()
	h.OrderDetail(w, httptest.NewRequest(http.MethodGet, "/reports/orders/detail?order_id=9999", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}

	w2 := httptest.NewRecorder()
	h.OrderDetail(w2, httptest.NewRequest(http.MethodGet, "/reports/orders/detail?order_id=abc", nil))
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w2.Code)
	}
}

func TestReportDashboardHandler(t *testing.T) {
	conn := setupTestDB(t)
	h := NewReportHandler(services.NewReportService(conn))
	p1 := createProduct(t, conn, "P-001", "Pommes", 10, 50)
	p2 := createProduct(t, conn, "P-002", "Riz", 45, 50)
	now := time.Now()
	seedSale(t, conn, p1.ID, 8, 10, 100, now.Add(-time.Hour))
	seedSale(t, conn, p2.ID, 1, 45, 101, now.Add(-2*time.Hour))

	w := httptest.NewRecorder()
	h.Dashboard(w, httptest.NewRequest(http.MethodGet, "/reports/dashboard?top=1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var payload struct {
		MostSold  []services.ProductSalesSummary `json:"most_sold"`
		LeastSold []services.ProductSalesSummary `json:"least_sold"`
		Revenue   float64                        `json:"revenue"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.MostSold) != 1 || payload.MostSold[0].Nom != "Pommes" {
		t.Fatalf("most sold wrong: %+v", payload.MostSold)
	}
	if len(payload.LeastSold) != 1 || payload.LeastSold[0].Nom != "Riz" {
		t.Fatalf("least sold wrong: %+v", payload.LeastSold)
	}
	if payload.Revenue != 125 {
		t.Fatalf("revenue wrong: %v", payload.Revenue)
	}
}
