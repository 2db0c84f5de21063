// Package api implements the HTTP layer for the Promptworks site backend.
// Handlers are methods on *Server. Each handler file is responsible for one
// endpoint group and only imports the dependencies it actually uses.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/promptworks/site-backend/internal/notify"
	"github.com/promptworks/site-backend/internal/sequence"
	stripeinternal "github.com/promptworks/site-backend/internal/stripe"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// StripeWebhookSecret is the signing secret from the Stripe dashboard.
	StripeWebhookSecret string

	// Env is "production", "staging", or "development".
	Env string
}

// Dispatcher routes a verified checkout to the matching notification email.
// Satisfied by *notify.Dispatcher; tests inject a stub.
type Dispatcher interface {
	Dispatch(ctx context.Context, fact notify.CheckoutFact) error
}

// SequenceSender sends one day-indexed nurture email and returns its id.
// Satisfied by *sequence.Service; tests inject a stub.
type SequenceSender interface {
	Send(ctx context.Context, req sequence.Request) (string, error)
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	// stripe verifies webhook signatures.
	stripe stripeinternal.Client

	// dispatcher turns verified checkout events into notification emails.
	dispatcher Dispatcher

	// sequence handles direct nurture-email requests.
	sequence SequenceSender

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe.
func NewServer(
	stripeClient stripeinternal.Client,
	dispatcher Dispatcher,
	seq SequenceSender,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	s := &Server{
		stripe:     stripeClient,
		dispatcher: dispatcher,
		sequence:   seq,
		cfg:        cfg,
		logger:     logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)
	r.Use(middleware.Timeout(30 * time.Second))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// ── API ───────────────────────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {

		// Stripe webhook — no auth (signature verification inside handler).
		r.Post("/webhooks/stripe", s.handleStripeWebhook)

		// Nurture sequence — called by the site's scheduler per subscriber.
		r.Post("/emails/sequence", s.handleSendSequenceEmail)
	})

	return r
}
