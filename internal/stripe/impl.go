package stripe

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// stripeClient is the concrete implementation of Client backed by the
// official stripe-go SDK. Construct it with NewClient.
type stripeClient struct {
	secretKey string
}

// NewClient returns a Client backed by the Stripe SDK.
// secretKey is your STRIPE_SECRET_KEY env var. It configures the SDK for any
// future API call but is never used during webhook verification — that uses
// only the webhook signing secret passed per call.
func NewClient(secretKey string) Client {
	stripe.Key = secretKey
	return &stripeClient{secretKey: secretKey}
}

// VerifyWebhook validates the Stripe-Signature header and returns the parsed
// event. Signature validation runs over the exact raw bytes Stripe signed,
// using an HMAC-SHA256 constant-time comparison with a tolerance window
// (300 seconds by default in the Stripe SDK).
func (c *stripeClient) VerifyWebhook(payload []byte, sigHeader string, secret string) (Event, error) {
	// Validate the signature before touching the payload so a parse failure
	// after a valid signature is reported as a distinct condition.
	if err := webhook.ValidatePayload(payload, sigHeader, secret); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	var stripeEvent stripe.Event
	if err := json.Unmarshal(payload, &stripeEvent); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	event := Event{
		ID:   stripeEvent.ID,
		Type: string(stripeEvent.Type),
	}
	if stripeEvent.Data != nil {
		event.DataRaw = stripeEvent.Data.Raw
	}
	return event, nil
}
