package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/ventepos/httpx"
	"github.com/diewo77/ventepos/internal/services"
)

// ReportHandler is the read-only sales reporting surface.
type ReportHandler struct {
	Reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{Reports: reports}
}

// Summary: GET /reports/summary?from=&to=&q=&page=&limit=
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r)
	pageSize, _ := pagination(r)
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	items, total, err := h.Reports.SalesSummary(r.Context(), from, to, q, pageParam(r), pageSize)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_summarize", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items": items, "total": total, "from": from, "to": to, "limit": pageSize,
	})
}

// History: GET /reports/history?from=&to=&page=&limit=
func (h *ReportHandler) History(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r)
	pageSize, _ := pagination(r)
	items, total, err := h.Reports.History(r.Context(), from, to, pageParam(r), pageSize)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_history", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items": items, "total": total, "from": from, "to": to, "limit": pageSize,
	})
}

// Orders: GET /reports/orders?from=&to=&page=&limit=
func (h *ReportHandler) Orders(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r)
	pageSize, _ := pagination(r)
	items, total, err := h.Reports.Orders(r.Context(), from, to, pageParam(r), pageSize)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_orders", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items": items, "total": total, "from": from, "to": to, "limit": pageSize,
	})
}

// OrderDetail: GET /reports/orders/detail?order_id=
func (h *ReportHandler) OrderDetail(w http.ResponseWriter, r *http.Request) {
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
	var total float64
	for _, l := range lines {
		total += float64(l.Quantite) * l.PrixUnitaire
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"order_id": orderID, "items": lines, "total": total})
}

// Dashboard: GET /reports/dashboard?from=&to=&top=
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r)
	top := 5
	if v := r.URL.Query().Get("top"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 50 {
			top = n
		}
	}
	most, err := h.Reports.MostSold(r.Context(), from, to, top)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_build_dashboard", nil)
		return
	}
	least, err := h.Reports.LeastSold(r.Context(), from, to, top)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_build_dashboard", nil)
		return
	}
	recent, _, err := h.Reports.Orders(r.Context(), from, to, 1, top)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_build_dashboard", nil)
		return
	}
	var revenue float64
	var count int
	summary, _, err := h.Reports.SalesSummary(r.Context(), from, to, "", 1, 10000)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_build_dashboard", nil)
		return
	}
	for _, s := range summary {
		revenue += s.TotalSalesPrice
		count += s.TotalQuantitySold
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"from": from, "to": to,
		"most_sold":     most,
		"least_sold":    least,
		"recent_orders": recent,
		"revenue":       revenue,
		"articles_sold": count,
	})
}
