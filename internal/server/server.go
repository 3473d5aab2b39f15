// Package server exposes the HTTP surface: the streaming chat endpoint, the
// usage stats endpoint and a health check.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/fotocoach/coachd/internal/models"
	"github.com/fotocoach/coachd/internal/relay"
	"github.com/fotocoach/coachd/internal/usage"
)

// maxMessageLength matches the client-side input cap.
const maxMessageLength = 4000

// Server wires the relay and the usage limiter behind chi routes.
type Server struct {
	relay      *relay.Relay
	limiter    *usage.Limiter
	logger     *zap.Logger
	configured bool
}

// New builds the server. configured reports whether a provider API key is
// present; without one every chat request fails fast with a config error.
func New(r *relay.Relay, limiter *usage.Limiter, configured bool, logger *zap.Logger) *Server {
	return &Server{
		relay:      r,
		limiter:    limiter,
		logger:     logger,
		configured: configured,
	}
}

// Routes returns the chi router for the API.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Post("/api/chat", s.handleChat)
	r.Get("/api/usage", s.handleUsage)
	return r
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, models.ErrorValidation, "invalid request body")
		return
	}
	if errType, msg := validateRequest(&req); errType != "" {
		s.writeError(w, errType, msg)
		return
	}

	if !s.configured {
		s.writeError(w, models.ErrorConfig, "API key not configured")
		return
	}

	ctx := r.Context()
	status := s.limiter.Check(ctx)
	if !status.Allowed {
		s.logger.Warn("Request blocked by usage limit",
			zap.String("reason", string(status.Reason)),
			zap.Int64("daily_used", status.DailyUsed),
			zap.Int64("monthly_used", status.MonthlyUsed))
		s.writeError(w, status.Reason, "usage limit reached")
		return
	}

	sink, err := relay.NewSSEWriter(w)
	if err != nil {
		s.writeError(w, models.ErrorUnknown, "streaming unsupported")
		return
	}

	err = s.relay.Stream(ctx, req.Messages, req.Mode, req.Language, sink)
	if err != nil {
		var relayErr *relay.Error
		if errors.As(err, &relayErr) {
			if sink.Wrote() {
				// Headers are out; the error has to travel in-band.
				if werr := sink.Error(relayErr.Type, relayErr.Detail); werr != nil {
					s.logger.Warn("Failed to write error frame", zap.Error(werr))
				}
				return
			}
			s.writeError(w, relayErr.Type, relayErr.Detail)
			return
		}
		// Sink write failure: the client went away, nothing left to send.
		s.logger.Info("Client disconnected during stream", zap.Error(err))
		return
	}

	s.limiter.Increment(ctx)
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	status := s.limiter.Check(r.Context())
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.logger.Warn("Failed to encode usage status", zap.Error(err))
	}
}

// validateRequest checks the caller input; an empty return type means valid.
// Mode and language default rather than reject, matching the original API.
func validateRequest(req *models.ChatRequest) (models.ErrorType, string) {
	if len(req.Messages) == 0 {
		return models.ErrorValidation, "messages required"
	}
	for _, m := range req.Messages {
		if m.Role != models.RoleUser && m.Role != models.RoleAssistant {
			return models.ErrorValidation, "message role must be user or assistant"
		}
		if len(m.Content) > maxMessageLength {
			return models.ErrorValidation, "message too long"
		}
	}
	if req.Mode == "" {
		req.Mode = models.ModeStandard
	}
	if !models.ValidMode(req.Mode) {
		return models.ErrorValidation, "unsupported mode"
	}
	if req.Language == "" {
		req.Language = "en"
	}
	if !models.ValidLanguage(req.Language) {
		return models.ErrorValidation, "unsupported language"
	}
	return "", ""
}

func (s *Server) writeError(w http.ResponseWriter, errType models.ErrorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(relay.HTTPStatus(errType))
	if err := json.NewEncoder(w).Encode(models.ErrorResponse{Error: message, ErrorType: errType}); err != nil {
		s.logger.Warn("Failed to encode error response", zap.Error(err))
	}
}
