package handler

import (
	"net/http"
	"time"

	"github.com/forkline/storefront/internal/domain/order"
)

type orderItemResponse struct {
	MenuItemID int64  `json:"menu_item_id"`
	Qty        int    `json:"qty"`
	UnitPrice  string `json:"unit_price"`
}

type orderResponse struct {
	ID        int64               `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	Status    string              `json:"status"`
	Items     []orderItemResponse `json:"items"`
	Total     string              `json:"total"`
}

func toOrderResponse(o order.Order) orderResponse {
	resp := orderResponse{
		ID:        o.ID,
		CreatedAt: o.CreatedAt,
		Status:    o.Status,
		Items:     make([]orderItemResponse, len(o.Items)),
		Total:     o.Total.StringFixed(2),
	}
	for i, it := range o.Items {
		resp.Items[i] = orderItemResponse{
			MenuItemID: it.MenuItemID,
			Qty:        it.Qty,
			UnitPrice:  it.UnitPrice.StringFixed(2),
		}
	}
	return resp
}

// listOrders returns the authenticated user's own orders, newest first.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByUser(r.Context(), h.sess(r).State().UserID)
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, r, http.StatusOK, resp)
}
