// Package sequence sends the day-indexed nurture emails on direct request.
// The day table is fixed at deploy time; each entry points at a template file
// in the asset collection and knows how to build its subject line.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/promptworks/site-backend/internal/assets"
	"github.com/promptworks/site-backend/internal/email"
)

// ─── ERRORS ───────────────────────────────────────────────────────────────────

var (
	// ErrInvalidDay means the requested day has no entry in the table.
	ErrInvalidDay = errors.New("sequence: no email configured for requested day")

	// ErrDeliveryFailed wraps a provider error. Unlike the webhook path, the
	// caller here is a direct synchronous client and gets a definitive
	// failure.
	ErrDeliveryFailed = errors.New("sequence: delivery failed")
)

// FieldError reports a missing required request field by name.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return "sequence: missing required field: " + e.Field
}

// ─── DAY TABLE ────────────────────────────────────────────────────────────────

// Entry describes one nurture email. The table below is read-only; it is
// defined at deploy time and never mutated at runtime.
type Entry struct {
	Day          int
	TemplateFile string
	Subject      func(name string) string
	Label        string
}

var entries = map[int]Entry{
	1: {
		Day:          1,
		TemplateFile: "day1-welcome.html",
		Subject:      func(name string) string { return fmt.Sprintf("Welcome, %s — start here", name) },
		Label:        "welcome",
	},
	2: {
		Day:          2,
		TemplateFile: "day2-first-prompt.html",
		Subject:      func(name string) string { return fmt.Sprintf("%s, try this prompt today", name) },
		Label:        "first_prompt",
	},
	3: {
		Day:          3,
		TemplateFile: "day3-workflow.html",
		Subject:      func(name string) string { return "Three prompts, one workflow" },
		Label:        "workflow",
	},
	4: {
		Day:          4,
		TemplateFile: "day4-common-mistakes.html",
		Subject:      func(name string) string { return fmt.Sprintf("%s, the mistake almost everyone makes", name) },
		Label:        "common_mistakes",
	},
	5: {
		Day:          5,
		TemplateFile: "day5-next-steps.html",
		Subject:      func(name string) string { return "Where to go from here" },
		Label:        "next_steps",
	},
}

// ─── SERVICE ──────────────────────────────────────────────────────────────────

// Request is a direct ask to send one nurture email. All fields are required;
// the HTTP layer distinguishes an absent day from a literal zero, so any day
// value that reaches this package and is not in the table fails ErrInvalidDay.
type Request struct {
	Name  string
	Email string
	Day   int
}

func (r Request) validate() error {
	switch {
	case r.Name == "":
		return &FieldError{Field: "name"}
	case r.Email == "":
		return &FieldError{Field: "email"}
	}
	return nil
}

// Service resolves a day to its template, renders it, and sends the result.
type Service struct {
	assets *assets.Store
	mailer email.Sender
	logger *slog.Logger
}

// NewService wires the service and verifies that every entry in the day table
// resolves to a loaded template, so a missing deployment artifact is caught
// at startup instead of on the first request.
func NewService(store *assets.Store, mailer email.Sender, logger *slog.Logger) (*Service, error) {
	for day, entry := range entries {
		if !store.HasTemplate(entry.TemplateFile) {
			return nil, fmt.Errorf("sequence: day %d (%s): %w: template %s",
				day, entry.Label, assets.ErrAssetMissing, entry.TemplateFile)
		}
	}
	return &Service{assets: store, mailer: mailer, logger: logger}, nil
}

// Send validates req, renders the matching day's email, and delivers it.
// Returns the provider message id (or a generated one when the provider
// returns none).
func (s *Service) Send(ctx context.Context, req Request) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}

	entry, ok := entries[req.Day]
	if !ok {
		return "", fmt.Errorf("%w: day %d", ErrInvalidDay, req.Day)
	}

	htmlBody, err := s.assets.RenderTemplate(entry.TemplateFile, assets.TemplateData{Name: req.Name})
	if err != nil {
		return "", err
	}

	id, err := s.mailer.Send(ctx, email.Message{
		To:      req.Email,
		Subject: entry.Subject(req.Name),
		HTML:    htmlBody,
	})
	if err != nil {
		s.logger.Error("sequence: delivery failed",
			"day", req.Day,
			"label", entry.Label,
			"recipient", req.Email,
			"error", err,
		)
		return "", fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	if id == "" {
		id = uuid.NewString()
	}

	s.logger.Info("sequence: sent",
		"day", req.Day,
		"label", entry.Label,
		"recipient", req.Email,
		"message_id", id,
	)
	return id, nil
}
