package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/promptworks/site-backend/internal/notify"
	stripeinternal "github.com/promptworks/site-backend/internal/stripe"
)

// ─── POST /api/webhooks/stripe ────────────────────────────────────────────────

// handleStripeWebhook is the entry point for all Stripe webhook deliveries.
//
// The signature check is a hard gate: on any authentication failure nothing
// downstream runs and Stripe gets an immediate 400. Once an event is verified
// and actionable, the email-send outcome no longer changes the response —
// delivery failures are logged and the event is still acked with 200 so
// Stripe does not retry a notification that would only produce duplicates.
//
// Stripe delivers events at-least-once; no dedup store is kept, so a retried
// delivery of the same event re-sends the notification. That duplicate email
// is accepted as harmless.
func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	// Read the raw body before any other processing so the signature check
	// runs against the exact bytes Stripe signed.
	r.Body = http.MaxBytesReader(w, r.Body, 65536) // 64 KB — generous for any Stripe event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondErr(w, http.StatusBadRequest, "could not read request body")
		return
	}

	sig := r.Header.Get("Stripe-Signature")
	event, err := s.stripe.VerifyWebhook(payload, sig, s.cfg.StripeWebhookSecret)
	if err != nil {
		s.logger.Warn("webhook: rejected", "error", err, logField(r))
		if errors.Is(err, stripeinternal.ErrMalformedPayload) {
			respondErr(w, http.StatusBadRequest, "malformed event payload")
			return
		}
		respondErr(w, http.StatusBadRequest, "invalid webhook signature")
		return
	}

	fact, actionable, err := notify.ClassifyEvent(event)
	if err != nil {
		// Valid signature, unparseable data.object.
		s.logger.Warn("webhook: malformed payload",
			"event_id", event.ID,
			"type", event.Type,
			"error", err,
			logField(r),
		)
		respondErr(w, http.StatusBadRequest, "malformed event payload")
		return
	}
	if !actionable {
		// Unknown event type, or a checkout with no contactable party —
		// ack immediately so Stripe stops retrying.
		s.logger.Debug("webhook: ignored event",
			"event_id", event.ID,
			"type", event.Type,
			logField(r),
		)
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := s.dispatcher.Dispatch(r.Context(), fact); err != nil {
		// Dispatch errors here mean a missing or broken deployment artifact,
		// not a delivery failure (those are swallowed inside Dispatch).
		// Return 500 so Stripe retries once the artifact is fixed.
		s.logger.Error("webhook: dispatch failed",
			"event_id", event.ID,
			"error", err,
			logField(r),
		)
		respondErr(w, http.StatusInternalServerError, "dispatch failed")
		return
	}

	w.WriteHeader(http.StatusOK)
}
