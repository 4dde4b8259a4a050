package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clubtrack-dev/clubtrack/domains/auth/be/service"
	"github.com/clubtrack-dev/clubtrack/platform/go/httpapi"
	"github.com/clubtrack-dev/clubtrack/platform/go/logging"
)

// Handler wires the auth service to the HTTP surface.
type Handler struct {
	svc      service.Service
	logger   *zap.Logger
	validate *validator.Validate
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("auth service is required")
	}
	if logger == nil {
		panic("logger is required")
	}

	return &Handler{svc: svc, logger: logger, validate: httpapi.NewValidator()}
}

// Register attaches the login route. Login itself is served without a
// credential.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.login)
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteProblem(w, http.StatusBadRequest, "Invalid request body", "request body must be a JSON object")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.WriteValidationProblem(w, httpapi.ValidationFields(err))
		return
	}

	session, err := h.svc.Login(r.Context(), service.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		h.respondError(w, r.Context(), err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) respondError(w http.ResponseWriter, ctx context.Context, err error) {
	logger := h.loggerFrom(ctx).With(zap.String("operation", "authLogin"))

	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		logger.Warn("login request rejected", zap.Error(err))
		httpapi.WriteValidationProblem(w, validationErr.Fields)
	case errors.Is(err, service.ErrUnknownIdentity):
		logger.Info("login for unknown identity")
		httpapi.WriteProblem(w, http.StatusNotFound, "Resource not found", "no person matches that identifier")
	case errors.Is(err, service.ErrInvalidCredentials):
		logger.Info("login with invalid credentials")
		httpapi.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
	default:
		logger.Error("login failed", zap.Error(err))
		httpapi.WriteProblem(w, http.StatusInternalServerError, "Internal server error", "an unexpected error occurred")
	}
}

func (h *Handler) loggerFrom(ctx context.Context) *zap.Logger {
	if logger, ok := logging.FromContext(ctx); ok {
		return logger
	}
	return h.logger
}
