// Package checkout carries the multi-step checkout workflow: delivery detail
// capture, payment detail validation, and the gating between steps. No money
// moves here; payment validation is purely syntactic.
package checkout

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"

	"github.com/forkline/storefront/internal/domain/cart"
)

// State names the position of a session inside the checkout workflow. The
// state is derived from session contents, never stored separately.
type State string

const (
	StateEmptyCart       State = "EMPTY_CART"
	StateDetailsPending  State = "DETAILS_PENDING"
	StateDetailsCaptured State = "DETAILS_CAPTURED"
	StatePaymentPending  State = "PAYMENT_PENDING"
	StateCommitted       State = "COMMITTED"
)

// Precondition errors. Handlers translate these into redirects to the
// earlier step rather than hard failures.
var (
	ErrCartEmpty      = errors.New("cart is empty")
	ErrDetailsMissing = errors.New("delivery details not captured")
)

// FieldError describes a single failed validation on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError accumulates every failing field of one submission, so the
// user sees all problems at once instead of fixing them one by one.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// StateOf derives the workflow state from the session-held cart and delivery
// details.
func StateOf(c cart.Cart, details *DeliveryDetails) State {
	switch {
	case c.IsEmpty():
		return StateEmptyCart
	case details == nil:
		return StateDetailsPending
	default:
		return StatePaymentPending
	}
}

// GateDetails checks the precondition for entering the delivery-details step:
// a non-empty cart.
func GateDetails(c cart.Cart) error {
	if c.IsEmpty() {
		return ErrCartEmpty
	}
	return nil
}

// GatePayment checks the preconditions for entering the payment step: a
// non-empty cart and previously captured delivery details.
func GatePayment(c cart.Cart, details *DeliveryDetails) error {
	if c.IsEmpty() {
		return ErrCartEmpty
	}
	if details == nil {
		return ErrDetailsMissing
	}
	return nil
}
