package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/forkline/storefront/internal/domain/cart"
	"github.com/forkline/storefront/internal/domain/checkout"
	"github.com/forkline/storefront/internal/domain/order"
)

// checkoutResponse echoes the stored (possibly invalid) delivery details so
// the client can repopulate the form, plus the derived workflow state.
type checkoutResponse struct {
	State   checkout.State            `json:"state"`
	Details *checkout.DeliveryDetails `json:"details,omitempty"`
}

// getCheckout enters the delivery-details step. Precondition: non-empty cart.
func (h *Handler) getCheckout(w http.ResponseWriter, r *http.Request) {
	st := h.sess(r).State()
	if err := checkout.GateDetails(st.Cart); err != nil {
		writePrecondition(w, r, "your cart is empty", "cart")
		return
	}

	writeJSON(w, r, http.StatusOK, checkoutResponse{
		State:   checkout.StateOf(st.Cart, st.Checkout),
		Details: st.Checkout,
	})
}

// postCheckout captures delivery details. Invalid submissions are still
// stored in the session (so the form repopulates) and reported field by
// field; the session stays at the details step.
func (h *Handler) postCheckout(w http.ResponseWriter, r *http.Request) {
	sess := h.sess(r)
	st := sess.State()
	if err := checkout.GateDetails(st.Cart); err != nil {
		writePrecondition(w, r, "your cart is empty", "cart")
		return
	}

	var details checkout.DeliveryDetails
	if err := decodeJSON(r, &details); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	details.Normalize()

	// Store before validating: the submitted values survive a failed
	// validation so the user does not retype everything.
	st.Checkout = &details
	if verr := details.Validate(); verr != nil {
		if err := sess.Save(r.Context(), w); err != nil {
			writeInternal(w, r, err)
			return
		}
		writeValidationError(w, r, verr)
		return
	}

	if err := sess.Save(r.Context(), w); err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, checkoutResponse{
		State:   checkout.StateDetailsCaptured,
		Details: st.Checkout,
	})
}

// getPayment enters the payment step. Preconditions: non-empty cart and
// captured delivery details.
func (h *Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	st := h.sess(r).State()
	if err := h.gatePayment(w, r, st.Cart, st.Checkout); err != nil {
		return
	}
	writeJSON(w, r, http.StatusOK, checkoutResponse{
		State: checkout.StatePaymentPending,
	})
}

// postPayment validates the card, commits the order, dispatches the
// best-effort notifications, and clears the cart. The cart is cleared only
// after the commit is confirmed; a failed commit leaves session state intact
// for retry.
func (h *Handler) postPayment(w http.ResponseWriter, r *http.Request) {
	sess := h.sess(r)
	st := sess.State()
	if err := h.gatePayment(w, r, st.Cart, st.Checkout); err != nil {
		return
	}

	var card checkout.PaymentCard
	if err := decodeJSON(r, &card); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	card.Normalize()
	if verr := card.Validate(); verr != nil {
		writeValidationError(w, r, verr)
		return
	}

	ord, err := h.orderSvc.Commit(r.Context(), st.UserID, st.Cart)
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			writePrecondition(w, r, "your cart is empty", "cart")
			return
		}
		// Cart and checkout state stay untouched so the user can retry.
		writeInternal(w, r, err)
		return
	}

	// Commit happens-before notify; sink failures are logged inside the
	// dispatcher and never reach this response.
	h.dispatcher.OrderPlaced(r.Context(), ord, st.Email, st.Checkout)

	st.Cart.Clear()
	st.Checkout = nil
	if err := sess.Save(r.Context(), w); err != nil {
		writeInternal(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]any{
		"state":    checkout.StateCommitted,
		"order_id": ord.ID,
		"total":    ord.Total.StringFixed(2),
	})
}

// gatePayment writes the precondition response and returns non-nil when the
// payment step cannot be entered.
func (h *Handler) gatePayment(w http.ResponseWriter, r *http.Request, c cart.Cart, details *checkout.DeliveryDetails) error {
	err := checkout.GatePayment(c, details)
	switch {
	case errors.Is(err, checkout.ErrCartEmpty):
		writePrecondition(w, r, "your cart is empty", "cart")
	case errors.Is(err, checkout.ErrDetailsMissing):
		writePrecondition(w, r, "please enter delivery details first", "checkout")
	}
	return err
}
