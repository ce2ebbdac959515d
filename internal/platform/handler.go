package platform

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/playtrivia/trivia-backend/internal/game"
	httperrors "github.com/playtrivia/trivia-backend/pkg/http/errors"
)

// Handler serves the platform webhook: one POST per user turn.
type Handler struct {
	service  *game.Service
	verifier *Verifier
	logger   zerolog.Logger
}

// NewHandler wires the webhook handler.
func NewHandler(service *game.Service, verifier *Verifier, logger zerolog.Logger) *Handler {
	return &Handler{service: service, verifier: verifier, logger: logger}
}

// HandleWebhook processes one turn request end to end.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "POST required")
		return
	}

	if err := h.verifier.VerifyHeader(r.Header.Get("Authorization")); err != nil {
		h.logger.Warn().Err(err).Msg("webhook auth failed")
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid webhook token")
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidPayload, "Malformed request body")
		return
	}
	if req.UserID == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "userId is required", "userId")
		return
	}

	ctx := r.Context()
	var reply game.Reply
	var err error
	if req.Intent == IntentNewGame {
		reply, err = h.service.StartGame(ctx, req.UserID)
	} else {
		reply, err = h.service.HandleTurn(ctx, req.UserID, req.Input())
	}
	if err != nil {
		// The service renders a user-facing failure reply for every error
		// path; the turn still gets a response.
		h.logger.Error().Err(err).Str("user", req.UserID).Str("intent", req.Intent).Msg("turn failed")
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(BuildResponse(reply, req.HasScreen())); err != nil {
		h.logger.Error().Err(err).Msg("encode webhook response")
	}
}
