package stripe_test

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v82/webhook"

	stripeinternal "github.com/promptworks/site-backend/internal/stripe"
)

const testSecret = "whsec_test_secret"

// signedHeader produces a valid Stripe-Signature header for payload.
func signedHeader(payload []byte, secret string) string {
	ts := time.Now()
	sig := webhook.ComputeSignature(ts, payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(sig))
}

// ─── VerifyWebhook ────────────────────────────────────────────────────────────

func TestVerifyWebhook_ValidSignatureParsesEvent(t *testing.T) {
	payload := []byte(`{
		"id": "evt_test_1",
		"type": "checkout.session.completed",
		"data": {"object": {"customer_details": {"email": "x@y.com"}}}
	}`)

	client := stripeinternal.NewClient("sk_test_key")
	event, err := client.VerifyWebhook(payload, signedHeader(payload, testSecret), testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if event.ID != "evt_test_1" {
		t.Errorf("id: got %q", event.ID)
	}
	if event.Type != "checkout.session.completed" {
		t.Errorf("type: got %q", event.Type)
	}
	if len(event.DataRaw) == 0 {
		t.Error("expected raw data object")
	}
}

func TestVerifyWebhook_TamperedPayloadFailsSignature(t *testing.T) {
	payload := []byte(`{"id": "evt_test_1", "type": "checkout.session.completed"}`)
	header := signedHeader(payload, testSecret)

	tampered := []byte(`{"id": "evt_test_1", "type": "checkout.session.completed", "x": 1}`)

	client := stripeinternal.NewClient("sk_test_key")
	_, err := client.VerifyWebhook(tampered, header, testSecret)
	if !errors.Is(err, stripeinternal.ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestVerifyWebhook_MissingHeaderFailsSignature(t *testing.T) {
	payload := []byte(`{"id": "evt_test_1"}`)

	client := stripeinternal.NewClient("sk_test_key")
	_, err := client.VerifyWebhook(payload, "", testSecret)
	if !errors.Is(err, stripeinternal.ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestVerifyWebhook_WrongSecretFailsSignature(t *testing.T) {
	payload := []byte(`{"id": "evt_test_1"}`)
	header := signedHeader(payload, "whsec_other_secret")

	client := stripeinternal.NewClient("sk_test_key")
	_, err := client.VerifyWebhook(payload, header, testSecret)
	if !errors.Is(err, stripeinternal.ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestVerifyWebhook_ValidSignatureOverGarbageIsMalformedPayload(t *testing.T) {
	payload := []byte(`{not an event`)

	client := stripeinternal.NewClient("sk_test_key")
	_, err := client.VerifyWebhook(payload, signedHeader(payload, testSecret), testSecret)
	if !errors.Is(err, stripeinternal.ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
}

// ─── ExtractCheckoutDetails ───────────────────────────────────────────────────

func TestExtractCheckoutDetails_Success(t *testing.T) {
	raw, _ := json.Marshal(map[string]any{
		"customer_details": map[string]string{
			"email": "laura@x.com",
			"name":  "Laura",
		},
		"metadata": map[string]string{"product": "prompts_111"},
	})

	event := stripeinternal.Event{
		ID:      "evt_test",
		Type:    "checkout.session.completed",
		DataRaw: json.RawMessage(raw),
	}

	details, err := stripeinternal.ExtractCheckoutDetails(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.Email != "laura@x.com" {
		t.Errorf("email: got %q", details.Email)
	}
	if details.Name != "Laura" {
		t.Errorf("name: got %q", details.Name)
	}
	if details.ProductTag != "prompts_111" {
		t.Errorf("product tag: got %q", details.ProductTag)
	}
}

func TestExtractCheckoutDetails_AbsentFieldsDefaultToEmpty(t *testing.T) {
	event := stripeinternal.Event{
		ID:      "evt_test",
		DataRaw: json.RawMessage(`{}`),
	}

	details, err := stripeinternal.ExtractCheckoutDetails(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.Email != "" || details.Name != "" || details.ProductTag != "" {
		t.Errorf("expected empty details, got %+v", details)
	}
}

func TestExtractCheckoutDetails_MalformedObjectReturnsError(t *testing.T) {
	event := stripeinternal.Event{
		ID:      "evt_test",
		DataRaw: json.RawMessage(`[1, 2`),
	}

	_, err := stripeinternal.ExtractCheckoutDetails(event)
	if !errors.Is(err, stripeinternal.ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
}
