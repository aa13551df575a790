package handler

import (
	"net/http"
	"strings"

	"github.com/forkline/storefront/internal/domain/menu"
)

type menuItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	Image       string `json:"image,omitempty"`
}

type menuResponse struct {
	Items      []menuItemResponse `json:"items"`
	Categories []string           `json:"categories"`
	Selected   string             `json:"selected,omitempty"`
}

func toMenuItemResponse(it menu.Item) menuItemResponse {
	return menuItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Category:    it.Category,
		Description: it.Description,
		Price:       it.Price.StringFixed(2),
		Image:       it.Image,
	}
}

// listMenu returns the catalog, optionally filtered by category, plus the
// distinct category list for the filter control.
func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	selected := strings.TrimSpace(r.URL.Query().Get("category"))

	categories, err := h.menu.Categories(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	items, err := h.menu.List(r.Context(), selected)
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	resp := menuResponse{
		Items:      make([]menuItemResponse, len(items)),
		Categories: categories,
		Selected:   selected,
	}
	for i, it := range items {
		resp.Items[i] = toMenuItemResponse(it)
	}
	writeJSON(w, r, http.StatusOK, resp)
}
