package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/ventepos/httpx"
	"github.com/diewo77/ventepos/internal/models"
	"github.com/diewo77/ventepos/internal/pdf"
	"github.com/diewo77/ventepos/internal/services"
)

// ExportHandler renders the printable documents. Each export is saved as a
// timestamped file in the Download folder and streamed back as the response.
type ExportHandler struct {
	DB      *gorm.DB
	Reports *services.ReportService
	Gen     *pdf.Generator
}

func NewExportHandler(db *gorm.DB, reports *services.ReportService, gen *pdf.Generator) *ExportHandler {
	return &ExportHandler{DB: db, Reports: reports, Gen: gen}
}

func (h *ExportHandler) owner() pdf.OwnerInfo {
	var o models.Owner
	if err := h.DB.First(&o).Error; err != nil {
		return pdf.OwnerInfo{}
	}
	return pdf.OwnerInfo{Nom: o.Nom, Adresse: o.Adresse, Telephone: o.Telephone}
}

func (h *ExportHandler) serve(w http.ResponseWriter, prefix string, data []byte, genErr error) {
	if genErr != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed", nil)
		return
	}
	path, err := h.Gen.Write(prefix, data)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_export_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Invoice: GET /exports/invoice?order_id=
func (h *ExportHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(r.URL.Query().Get("order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		httpx.BadRequest(w, "invalid_order_id", nil)
		return
	}
	lines, err := h.Reports.OrderDetail(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "order_not_found", localize(r, "order_not_found"))
			return
		}
		httpx.InternalError(w)
		return
	}

	data := pdf.InvoiceData{
		OrderID:     strconv.FormatInt(orderID, 10),
		Date:        lines[0].DateDeVente.Format("2006-01-02 15:04"),
		PaymentMode: string(lines[0].PaymentMode),
	}
	if c := lines[0].Client; c != nil {
		data.ClientNom = c.Nom + " " + c.Prenom
	}
	for _, l := range lines {
		data.Lines = append(data.Lines, pdf.InvoiceLine{
			Nom:          l.Product.Nom,
			Quantite:     l.Quantite,
			PrixUnitaire: l.PrixUnitaire,
		})
		data.Total += float64(l.Quantite) * l.PrixUnitaire
	}
	bytes, genErr := pdf.InvoicePDF(h.owner(), data)
	h.serve(w, "facture", bytes, genErr)
}

// Products: GET /exports/products
func (h *ExportHandler) Products(w http.ResponseWriter, _ *http.Request) {
	var products []models.Product
	if err := h.DB.Order("nom ASC").Find(&products).Error; err != nil {
		httpx.InternalError(w)
		return
	}
	rows := make([]pdf.ProductRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, pdf.ProductRow{Code: p.Code, Nom: p.Nom, Categorie: p.Categorie, PrixVente: p.PrixVente, Quantite: p.Quantite})
	}
	bytes, genErr := pdf.ProductListPDF(h.owner(), rows)
	h.serve(w, "liste_produits", bytes, genErr)
}

// Inventory: GET /exports/inventory
func (h *ExportHandler) Inventory(w http.ResponseWriter, _ *http.Request) {
	var products []models.Product
	if err := h.DB.Order("nom ASC").Find(&products).Error; err != nil {
		httpx.InternalError(w)
		return
	}
	rows := make([]pdf.InventoryRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, pdf.InventoryRow{Code: p.Code, Nom: p.Nom, Quantite: p.Quantite, PrixAchat: p.PrixAchat})
	}
	bytes, genErr := pdf.InventoryPDF(h.owner(), rows)
	h.serve(w, "inventaire", bytes, genErr)
}

// Clients: GET /exports/clients
func (h *ExportHandler) Clients(w http.ResponseWriter, _ *http.Request) {
	var clients []models.Client
	if err := h.DB.Order("nom ASC, prenom ASC").Find(&clients).Error; err != nil {
		httpx.InternalError(w)
		return
	}
	rows := make([]pdf.ClientRow, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, pdf.ClientRow{NumeroClient: c.NumeroClient, Nom: c.Nom + " " + c.Prenom, Telephone: c.Numero, Adresse: c.Adresse})
	}
	bytes, genErr := pdf.ClientListPDF(h.owner(), rows)
	h.serve(w, "liste_clients", bytes, genErr)
}

// History: GET /exports/history?from=&to=
func (h *ExportHandler) History(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r)
	txns, _, err := h.Reports.History(r.Context(), from, to, 1, 10000)
	if err != nil {
		httpx.InternalError(w)
		return
	}
	rows := make([]pdf.HistoryRow, 0, len(txns))
	for _, t := range txns {
		row := pdf.HistoryRow{
			Date:         t.DateDeVente.Format("2006-01-02 15:04"),
			Produit:      t.Product.Nom,
			Quantite:     t.Quantite,
			PrixUnitaire: t.PrixUnitaire,
		}
		if t.Client != nil {
			row.Client = t.Client.Nom
		}
		rows = append(rows, row)
	}
	bytes, genErr := pdf.HistoryPDF(h.owner(), periodLabel(from, to), rows)
	h.serve(w, "historique", bytes, genErr)
}

// Summary: GET /exports/summary?from=&to=
func (h *ExportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r)
	items, _, err := h.Reports.SalesSummary(r.Context(), from, to, "", 1, 10000)
	if err != nil {
		httpx.InternalError(w)
		return
	}
	rows := make([]pdf.SummaryRow, 0, len(items))
	for _, s := range items {
		rows = append(rows, pdf.SummaryRow{Produit: s.Nom, QuantiteVendu: s.TotalQuantitySold, MontantTotal: s.TotalSalesPrice})
	}
	bytes, genErr := pdf.SummaryPDF(h.owner(), periodLabel(from, to), rows)
	h.serve(w, "resume_ventes", bytes, genErr)
}

func periodLabel(from, to time.Time) string {
	return fmt.Sprintf("Du %s au %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
}
