// Package handler exposes the storefront over HTTP: auth, menu browsing,
// cart mutation, the checkout workflow, order history, and the admin
// surface. Handlers validate and gate at the boundary, delegate to domain
// services, and map domain errors onto HTTP responses.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/forkline/storefront/internal/domain/menu"
	"github.com/forkline/storefront/internal/domain/order"
	"github.com/forkline/storefront/internal/domain/user"
	"github.com/forkline/storefront/internal/notify"
	"github.com/forkline/storefront/internal/session"
)

// Handler carries every dependency the HTTP surface needs.
type Handler struct {
	sessions   *session.Manager
	users      user.Repository
	menu       menu.Repository
	orders     order.Repository
	orderSvc   *order.Service
	dispatcher *notify.Dispatcher
	summary    notify.SummarySender // nil when the endpoint is not configured
}

// NewHandler constructs a Handler with the required dependencies. summary
// may be nil to disable the daily-summary call.
func NewHandler(
	sessions *session.Manager,
	users user.Repository,
	menuRepo menu.Repository,
	orders order.Repository,
	orderSvc *order.Service,
	dispatcher *notify.Dispatcher,
	summary notify.SummarySender,
) *Handler {
	return &Handler{
		sessions:   sessions,
		users:      users,
		menu:       menuRepo,
		orders:     orders,
		orderSvc:   orderSvc,
		dispatcher: dispatcher,
		summary:    summary,
	}
}

// Routes builds the full route tree. The session middleware runs on every
// route; the auth guards wrap only the groups that need them.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.sessions.Middleware())

	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)

	r.Get("/menu", h.listMenu)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireUser)

		r.Get("/cart", h.viewCart)
		r.Post("/cart/add/{itemID}", h.addToCart)
		r.Post("/cart/update/{itemID}", h.updateCart)
		r.Post("/cart/remove/{itemID}", h.removeFromCart)

		r.Get("/checkout", h.getCheckout)
		r.Post("/checkout", h.postCheckout)
		r.Get("/payment", h.getPayment)
		r.Post("/payment", h.postPayment)

		r.Get("/orders", h.listOrders)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.RequireUser, h.RequireAdmin)

		r.Get("/admin/menu", h.adminListMenu)
		r.Post("/admin/menu", h.adminCreateMenuItem)
		r.Put("/admin/menu/{itemID}", h.adminUpdateMenuItem)
		r.Delete("/admin/menu/{itemID}", h.adminDeleteMenuItem)
		r.Post("/admin/summary/run", h.adminRunSummary)
	})

	return r
}

// sess returns the request session. The session middleware runs on every
// route, so a nil session is a wiring bug, caught by the recovery middleware.
func (h *Handler) sess(r *http.Request) *session.Session {
	return session.FromContext(r.Context())
}
