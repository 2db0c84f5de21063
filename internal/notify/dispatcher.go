package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/promptworks/site-backend/internal/assets"
	"github.com/promptworks/site-backend/internal/email"
)

// RoutingKey selects which template and attachment set a checkout maps to.
type RoutingKey string

const (
	// RouteDigitalBundle delivers the prompt pack with its two attachments.
	RouteDigitalBundle RoutingKey = "digital_bundle"
	// RouteGenericConfirmation sends a plain order confirmation.
	RouteGenericConfirmation RoutingKey = "generic_confirmation"
)

// productTagBundle is the checkout metadata value that selects the bundle
// delivery email. It must match the product tag set on the Stripe Checkout
// session by the site frontend.
const productTagBundle = "prompts_111"

// routesByProductTag is the full routing table. Every tag not listed here,
// including the empty tag, falls through to the generic confirmation.
var routesByProductTag = map[string]RoutingKey{
	productTagBundle: RouteDigitalBundle,
}

// Attachment filenames inside the asset collection. Both must be present for
// a bundle dispatch to proceed.
const (
	attachmentWorkbook = "prompt-pack-workbook.html"
	attachmentGuide    = "prompt-pack-guide.pdf"
)

// RouteFor resolves the routing key for a checkout fact. Exactly one key is
// chosen per fact.
func RouteFor(fact CheckoutFact) RoutingKey {
	if key, ok := routesByProductTag[fact.ProductTag]; ok {
		return key
	}
	return RouteGenericConfirmation
}

// Dispatcher renders and sends the notification email for a checkout fact.
type Dispatcher struct {
	assets *assets.Store
	mailer email.Sender
	logger *slog.Logger
}

// NewDispatcher wires the dispatcher to its collaborators.
func NewDispatcher(store *assets.Store, mailer email.Sender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		assets: store,
		mailer: mailer,
		logger: logger,
	}
}

// Dispatch composes exactly one outbound email for fact and hands it to the
// delivery collaborator.
//
// A delivery failure is logged with full provider detail and swallowed: the
// webhook acknowledgement owed to the event source is independent of the
// email-send outcome, and surfacing the error would trigger uncontrolled
// event-source retries. A missing attachment is returned as an error wrapping
// assets.ErrAssetMissing — the message is never sent partially.
func (d *Dispatcher) Dispatch(ctx context.Context, fact CheckoutFact) error {
	route := RouteFor(fact)

	var msg email.Message
	var err error

	switch route {
	case RouteDigitalBundle:
		msg, err = d.buildBundleMessage(fact)
	default:
		msg, err = d.buildGenericMessage(fact)
	}
	if err != nil {
		return err
	}

	id, err := d.mailer.Send(ctx, msg)
	if err != nil {
		d.logger.Error("notify: delivery failed",
			"route", string(route),
			"recipient", fact.Email,
			"error", err,
		)
		return nil
	}

	d.logger.Info("notify: dispatched",
		"route", string(route),
		"recipient", fact.Email,
		"attachments", len(msg.Attachments),
		"message_id", id,
	)
	return nil
}

func (d *Dispatcher) buildBundleMessage(fact CheckoutFact) (email.Message, error) {
	workbook, err := d.assets.Attachment(attachmentWorkbook)
	if err != nil {
		return email.Message{}, fmt.Errorf("notify: bundle dispatch: %w", err)
	}
	guide, err := d.assets.Attachment(attachmentGuide)
	if err != nil {
		return email.Message{}, fmt.Errorf("notify: bundle dispatch: %w", err)
	}

	htmlBody, textBody, err := renderBundle(fact.Name)
	if err != nil {
		return email.Message{}, err
	}

	return email.Message{
		To:      fact.Email,
		Subject: "Your Prompt Pack is here",
		HTML:    htmlBody,
		Text:    textBody,
		Attachments: []email.Attachment{
			{Filename: attachmentWorkbook, Content: workbook, ContentType: "text/html"},
			{Filename: attachmentGuide, Content: guide, ContentType: "application/pdf"},
		},
	}, nil
}

func (d *Dispatcher) buildGenericMessage(fact CheckoutFact) (email.Message, error) {
	htmlBody, textBody, err := renderGeneric(fact.Name)
	if err != nil {
		return email.Message{}, err
	}

	return email.Message{
		To:      fact.Email,
		Subject: "Your order is confirmed",
		HTML:    htmlBody,
		Text:    textBody,
	}, nil
}
