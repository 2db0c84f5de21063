// Package notify classifies verified payment events and dispatches the
// matching customer notification email.
package notify

import (
	"github.com/promptworks/site-backend/internal/stripe"
)

// eventTypeCheckoutCompleted is the only event type that triggers a
// notification. Every other type is acknowledged without side effects.
const eventTypeCheckoutCompleted = "checkout.session.completed"

// CheckoutFact is what dispatch needs from a completed checkout: who to
// contact and which product they bought. Derived per event, never persisted.
type CheckoutFact struct {
	Email      string
	Name       string // may be empty
	ProductTag string // may be empty
}

// ClassifyEvent decides whether a verified event is actionable. The check is
// an explicit allow-list so newly introduced event types can never reach
// dispatch logic by default.
//
// Returns ok=false for every non-actionable event, including a completed
// checkout with no customer email — an event without a contactable party is
// acknowledged, not retried. The error is non-nil only when the nested
// payload of an actionable event cannot be parsed.
func ClassifyEvent(event stripe.Event) (CheckoutFact, bool, error) {
	if event.Type != eventTypeCheckoutCompleted {
		return CheckoutFact{}, false, nil
	}

	details, err := stripe.ExtractCheckoutDetails(event)
	if err != nil {
		return CheckoutFact{}, false, err
	}

	if details.Email == "" {
		return CheckoutFact{}, false, nil
	}

	return CheckoutFact{
		Email:      details.Email,
		Name:       details.Name,
		ProductTag: details.ProductTag,
	}, true, nil
}
