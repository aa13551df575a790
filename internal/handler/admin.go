package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/forkline/storefront/internal/domain/menu"
	"github.com/forkline/storefront/internal/notify"
)

type menuItemRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image"`
}

// parsePrice accepts human price input: currency sign and comma decimal
// separators are tolerated ("£9,99" parses as 9.99). Negative prices are
// rejected.
func parsePrice(value string) (decimal.Decimal, error) {
	v := strings.TrimSpace(value)
	v = strings.ReplaceAll(v, "£", "")
	v = strings.ReplaceAll(v, ",", ".")
	p, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, errors.New("price must be a number like 9.99")
	}
	if p.IsNegative() {
		return decimal.Zero, errors.New("price must not be negative")
	}
	return p, nil
}

// adminListMenu returns the whole catalog, newest items first.
func (h *Handler) adminListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.menu.List(r.Context(), "")
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	resp := make([]menuItemResponse, len(items))
	for i, it := range items {
		resp[i] = toMenuItemResponse(it)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) adminCreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, r, http.StatusUnprocessableEntity, "name is required")
		return
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "Main"
	}

	it := &menu.Item{
		Name:        name,
		Category:    category,
		Description: strings.TrimSpace(req.Description),
		Price:       price,
		Image:       strings.TrimSpace(req.Image),
	}
	if err := h.menu.Create(r.Context(), it); err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toMenuItemResponse(*it))
}

func (h *Handler) adminUpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req menuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	existing, err := h.menu.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, menu.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "item not found")
			return
		}
		writeInternal(w, r, err)
		return
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "Main"
	}

	existing.Name = strings.TrimSpace(req.Name)
	existing.Category = category
	existing.Description = strings.TrimSpace(req.Description)
	existing.Price = price
	// A blank image keeps the stored reference, mirroring "no new upload".
	if img := strings.TrimSpace(req.Image); img != "" {
		existing.Image = img
	}

	if err := h.menu.Update(r.Context(), existing); err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toMenuItemResponse(*existing))
}

func (h *Handler) adminDeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.menu.Delete(r.Context(), id); err != nil && !errors.Is(err, menu.ErrNotFound) {
		writeInternal(w, r, err)
		return
	}
	// Deleting an absent item is not an error; the outcome is the same.
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

// adminRunSummary aggregates all-time sales and posts them to the summary
// endpoint. The response always carries the computed figures; a failed or
// disabled summary call only changes the "sent" flag.
func (h *Handler) adminRunSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.orderSvc.SalesSummary(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	date := time.Now().UTC().Format("2006-01-02")
	sent := false
	if h.summary != nil {
		payload := notify.DailySummary{
			Date:       date,
			TotalSales: sum.TotalSales.InexactFloat64(),
			OrderCount: sum.OrderCount,
		}
		if err := h.summary.Send(r.Context(), payload); err != nil {
			zctx.From(r.Context()).Error("Daily summary call failed", zap.Error(err))
		} else {
			sent = true
		}
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"date":        date,
		"order_count": sum.OrderCount,
		"total_sales": sum.TotalSales.StringFixed(2),
		"sent":        sent,
	})
}
