package notify_test

import (
	"encoding/json"
	"testing"

	"github.com/promptworks/site-backend/internal/notify"
	stripeinternal "github.com/promptworks/site-backend/internal/stripe"
)

// checkoutEvent builds a checkout.session.completed event with the given
// customer details and product tag.
func checkoutEvent(t *testing.T, email, name, productTag string) stripeinternal.Event {
	t.Helper()
	obj := map[string]any{
		"customer_details": map[string]string{
			"email": email,
			"name":  name,
		},
	}
	if productTag != "" {
		obj["metadata"] = map[string]string{"product": productTag}
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal event object: %v", err)
	}
	return stripeinternal.Event{
		ID:      "evt_test",
		Type:    "checkout.session.completed",
		DataRaw: json.RawMessage(raw),
	}
}

// ─── ClassifyEvent ────────────────────────────────────────────────────────────

func TestClassifyEvent_CheckoutCompletedIsActionable(t *testing.T) {
	event := checkoutEvent(t, "x@y.com", "Laura", "prompts_111")

	fact, ok, err := notify.ClassifyEvent(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected event to be actionable")
	}
	if fact.Email != "x@y.com" {
		t.Errorf("email: got %q", fact.Email)
	}
	if fact.Name != "Laura" {
		t.Errorf("name: got %q", fact.Name)
	}
	if fact.ProductTag != "prompts_111" {
		t.Errorf("product tag: got %q", fact.ProductTag)
	}
}

func TestClassifyEvent_UnknownTypeIsIgnored(t *testing.T) {
	// Allow-list, not default-pass-through: even payment-adjacent types
	// must be ignored.
	for _, eventType := range []string{
		"payment_intent.succeeded",
		"charge.refunded",
		"customer.created",
		"checkout.session.expired",
	} {
		event := stripeinternal.Event{
			ID:      "evt_other",
			Type:    eventType,
			DataRaw: json.RawMessage(`{"customer_details":{"email":"x@y.com"}}`),
		}
		_, ok, err := notify.ClassifyEvent(event)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", eventType, err)
		}
		if ok {
			t.Errorf("%s: expected event to be ignored", eventType)
		}
	}
}

func TestClassifyEvent_MissingEmailIsIgnored(t *testing.T) {
	event := checkoutEvent(t, "", "Laura", "prompts_111")

	_, ok, err := notify.ClassifyEvent(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("checkout without email should be ignored, not dispatched")
	}
}

func TestClassifyEvent_MissingNameDefaultsToEmpty(t *testing.T) {
	event := checkoutEvent(t, "x@y.com", "", "")

	fact, ok, err := notify.ClassifyEvent(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected event to be actionable")
	}
	if fact.Name != "" {
		t.Errorf("expected empty name, got %q", fact.Name)
	}
	if fact.ProductTag != "" {
		t.Errorf("expected empty product tag, got %q", fact.ProductTag)
	}
}

func TestClassifyEvent_MalformedObjectReturnsError(t *testing.T) {
	event := stripeinternal.Event{
		ID:      "evt_bad",
		Type:    "checkout.session.completed",
		DataRaw: json.RawMessage(`{not json`),
	}

	_, ok, err := notify.ClassifyEvent(event)
	if err == nil {
		t.Fatal("expected error for malformed object, got nil")
	}
	if ok {
		t.Error("malformed event must not be actionable")
	}
}
