package api

import (
	"errors"
	"net/http"

	"github.com/promptworks/site-backend/internal/sequence"
)

// ─── POST /api/emails/sequence ────────────────────────────────────────────────

type sequenceEmailRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	// Pointer so an absent field is distinguishable from a literal zero:
	// absent is MissingField, zero is InvalidDay.
	Day *int `json:"dayIndex"`
}

type sequenceEmailResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// handleSendSequenceEmail sends one nurture email for the requested day.
//
// Unlike the webhook path, the caller here is a direct synchronous client
// expecting a definitive outcome: validation failures come back as 400 with a
// field-level message and a delivery failure comes back as 500.
func (s *Server) handleSendSequenceEmail(w http.ResponseWriter, r *http.Request) {
	var req sequenceEmailRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Day == nil {
		respond(w, http.StatusBadRequest, map[string]string{
			"error": "MissingField",
			"field": "dayIndex",
		})
		return
	}

	id, err := s.sequence.Send(r.Context(), sequence.Request{
		Name:  req.Name,
		Email: req.Email,
		Day:   *req.Day,
	})
	if err != nil {
		var fieldErr *sequence.FieldError
		switch {
		case errors.As(err, &fieldErr):
			respond(w, http.StatusBadRequest, map[string]string{
				"error": "MissingField",
				"field": fieldErr.Field,
			})
		case errors.Is(err, sequence.ErrInvalidDay):
			respondErr(w, http.StatusBadRequest, "InvalidDay")
		case errors.Is(err, sequence.ErrDeliveryFailed):
			s.logger.Error("sequence: delivery failed", "error", err, logField(r))
			respondErr(w, http.StatusInternalServerError, "DeliveryFailed")
		default:
			s.respondInternalErr(w, r, err)
		}
		return
	}

	respond(w, http.StatusOK, sequenceEmailResponse{Success: true, ID: id})
}
