package email

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestResendClient points a resendClient at a local test server.
func newTestResendClient(t *testing.T, handler http.HandlerFunc) *resendClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewResendClient("re_test_key", "hello@promptworks.studio", "Promptworks").(*resendClient)
	c.endpoint = srv.URL
	return c
}

func TestResendSend_BuildsRequestAndReturnsID(t *testing.T) {
	var got resendRequest
	var auth string

	c := newTestResendClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "msg_abc"})
	})

	id, err := c.Send(context.Background(), Message{
		To:      "laura@x.com",
		Subject: "Hello",
		HTML:    "<p>hi</p>",
		Text:    "hi",
		Attachments: []Attachment{
			{Filename: "guide.pdf", Content: []byte("pdf-bytes"), ContentType: "application/pdf"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if id != "msg_abc" {
		t.Errorf("id: got %q", id)
	}
	if auth != "Bearer re_test_key" {
		t.Errorf("authorization header: got %q", auth)
	}
	if got.From != "Promptworks <hello@promptworks.studio>" {
		t.Errorf("from: got %q", got.From)
	}
	if len(got.To) != 1 || got.To[0] != "laura@x.com" {
		t.Errorf("to: got %v", got.To)
	}
	if len(got.Attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(got.Attachments))
	}
	if got.Attachments[0].Filename != "guide.pdf" {
		t.Errorf("attachment filename: got %q", got.Attachments[0].Filename)
	}
	decoded, err := base64.StdEncoding.DecodeString(got.Attachments[0].Content)
	if err != nil {
		t.Fatalf("attachment content is not base64: %v", err)
	}
	if string(decoded) != "pdf-bytes" {
		t.Errorf("attachment content: got %q", decoded)
	}
}

func TestResendSend_OmitsEmptyOptionalFields(t *testing.T) {
	var raw map[string]any

	c := newTestResendClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "msg_abc"})
	})

	_, err := c.Send(context.Background(), Message{
		To:      "laura@x.com",
		Subject: "Hello",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, present := raw["text"]; present {
		t.Error("empty text should be omitted")
	}
	if _, present := raw["attachments"]; present {
		t.Error("empty attachments should be omitted")
	}
}

func TestResendSend_APIErrorIsSurfaced(t *testing.T) {
	c := newTestResendClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"name":       "validation_error",
				"message":    "Invalid `to` address",
				"statusCode": 422,
			},
		})
	})

	_, err := c.Send(context.Background(), Message{To: "bad", Subject: "x", HTML: "y"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "validation_error") {
		t.Errorf("expected provider error detail, got: %v", err)
	}
}

func TestResendSend_Non2xxWithoutErrorBodyIsSurfaced(t *testing.T) {
	c := newTestResendClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.Send(context.Background(), Message{To: "x@y.com", Subject: "x", HTML: "y"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("expected status in error, got: %v", err)
	}
}
