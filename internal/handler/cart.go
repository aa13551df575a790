package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/forkline/storefront/internal/domain/cart"
)

type cartLineResponse struct {
	Item      menuItemResponse `json:"item"`
	Qty       int              `json:"qty"`
	LineTotal string           `json:"line_total"`
}

type cartResponse struct {
	Lines []cartLineResponse `json:"lines"`
	Total string             `json:"total"`
	// RemovedItems counts cart entries dropped because their menu item no
	// longer exists; a notice for the client, never an error.
	RemovedItems int `json:"removed_items,omitempty"`
}

func itemIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid item id")
	}
	return id, nil
}

// addToCart increments the quantity for the item by one. The item is not
// checked against the catalog here; stale ids fall out at view and commit.
func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sess := h.sess(r)
	sess.State().Cart.Add(id)
	if err := sess.Save(r.Context(), w); err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "added"})
}

type cartUpdateRequest struct {
	Action string `json:"action"`
}

// updateCart applies inc or dec; a quantity dropping to zero removes the
// entry.
func (h *Handler) updateCart(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req cartUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := h.sess(r)
	if err := sess.State().Cart.Update(id, cart.UpdateAction(req.Action)); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := sess.Save(r.Context(), w); err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sess := h.sess(r)
	sess.State().Cart.Remove(id)
	if err := sess.Save(r.Context(), w); err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "removed"})
}

// viewCart resolves the cart against the current catalog. Entries whose item
// vanished are dropped from the lines and total, and reported as a count.
func (h *Handler) viewCart(w http.ResponseWriter, r *http.Request) {
	view, err := cart.Resolve(r.Context(), h.sess(r).State().Cart, h.menu)
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	resp := cartResponse{
		Lines:        make([]cartLineResponse, len(view.Lines)),
		Total:        view.Total.StringFixed(2),
		RemovedItems: view.RemovedItems,
	}
	for i, line := range view.Lines {
		resp.Lines[i] = cartLineResponse{
			Item:      toMenuItemResponse(line.Item),
			Qty:       line.Qty,
			LineTotal: line.LineTotal.StringFixed(2),
		}
	}
	writeJSON(w, r, http.StatusOK, resp)
}
