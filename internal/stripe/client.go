// Package stripe defines the interface for Stripe webhook verification and
// provides payload-extraction helpers used by the notification pipeline.
package stripe

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ─── ERRORS ───────────────────────────────────────────────────────────────────

var (
	// ErrSignatureInvalid covers every authentication failure: missing
	// header, malformed header, and signature mismatch are all reported
	// identically so a forger learns nothing from the error shape.
	ErrSignatureInvalid = errors.New("stripe: invalid webhook signature")

	// ErrMalformedPayload means the signature was valid but the body could
	// not be parsed into an event envelope.
	ErrMalformedPayload = errors.New("stripe: malformed event payload")
)

// ─── TYPES ────────────────────────────────────────────────────────────────────

// Event is a verified, parsed Stripe webhook event. DataRaw contains the raw
// JSON of the event's data.object so callers unmarshal only what they need.
type Event struct {
	ID      string
	Type    string
	DataRaw json.RawMessage
}

// CheckoutDetails is the subset of a checkout.session.completed payload the
// notification pipeline needs.
type CheckoutDetails struct {
	Email      string
	Name       string
	ProductTag string
}

// ─── CLIENT INTERFACE ─────────────────────────────────────────────────────────

// Client is the interface the api package uses for webhook verification.
// The concrete implementation wraps the official stripe-go SDK.
// Tests inject a stub.
type Client interface {
	// VerifyWebhook validates the Stripe-Signature header against the raw
	// payload and returns the parsed event. Returns ErrSignatureInvalid on
	// any authentication failure and ErrMalformedPayload if the body cannot
	// be parsed after a valid signature.
	VerifyWebhook(payload []byte, sigHeader string, secret string) (Event, error)
}

// ─── HELPERS USED BY notify/ ─────────────────────────────────────────────────

// ExtractCheckoutDetails pulls the customer contact fields and the product
// metadata tag from the event's data.object. Works for
// checkout.session.completed events.
func ExtractCheckoutDetails(event Event) (CheckoutDetails, error) {
	var obj struct {
		CustomerDetails struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"customer_details"`
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(event.DataRaw, &obj); err != nil {
		return CheckoutDetails{}, fmt.Errorf("%w: unmarshal checkout session in event %s: %v",
			ErrMalformedPayload, event.ID, err)
	}
	return CheckoutDetails{
		Email:      obj.CustomerDetails.Email,
		Name:       obj.CustomerDetails.Name,
		ProductTag: obj.Metadata["product"],
	}, nil
}
