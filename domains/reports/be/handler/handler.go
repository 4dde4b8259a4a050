package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clubtrack-dev/clubtrack/domains/reports/be/service"
	"github.com/clubtrack-dev/clubtrack/platform/go/httpapi"
	"github.com/clubtrack-dev/clubtrack/platform/go/logging"
)

// Handler wires the reports service to the HTTP surface.
type Handler struct {
	svc      service.Service
	logger   *zap.Logger
	validate *validator.Validate
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("reports service is required")
	}
	if logger == nil {
		panic("logger is required")
	}

	return &Handler{svc: svc, logger: logger, validate: httpapi.NewValidator()}
}

// RegisterPublic attaches the routes served without a bearer credential.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/reports/attendance-range", h.rangeReport)
}

// Register attaches the credentialed report routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/reports/event-details", h.eventDetails)
}

type rangeReportRequest struct {
	DateFrom    string  `json:"dateFrom" validate:"required,datetime=2006-01-02"`
	DateTo      string  `json:"dateTo" validate:"required,datetime=2006-01-02"`
	DivisionIDs []int64 `json:"divisionIds" validate:"omitempty,dive,gt=0"`
}

func (h *Handler) rangeReport(w http.ResponseWriter, r *http.Request) {
	var req rangeReportRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteProblem(w, http.StatusBadRequest, "Invalid request body", "request body must be a JSON object")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.WriteValidationProblem(w, httpapi.ValidationFields(err))
		return
	}

	rows, err := h.svc.RangeReport(r.Context(), service.RangeInput{
		DateFrom:    req.DateFrom,
		DateTo:      req.DateTo,
		DivisionIDs: req.DivisionIDs,
	})
	if err != nil {
		h.respondError(w, r.Context(), err, "reportsRange")
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, rows)
}

type eventDetailsRequest struct {
	ClubID      int64   `json:"clubId" validate:"required,gt=0"`
	DivisionIDs []int64 `json:"divisionIds" validate:"omitempty,dive,gt=0"`
	DateFrom    string  `json:"dateFrom" validate:"omitempty,datetime=2006-01-02"`
	DateTo      string  `json:"dateTo" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) eventDetails(w http.ResponseWriter, r *http.Request) {
	var req eventDetailsRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteProblem(w, http.StatusBadRequest, "Invalid request body", "request body must be a JSON object")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.WriteValidationProblem(w, httpapi.ValidationFields(err))
		return
	}

	details, err := h.svc.EventDetails(r.Context(), service.EventDetailsInput{
		ClubID:      req.ClubID,
		DivisionIDs: req.DivisionIDs,
		DateFrom:    req.DateFrom,
		DateTo:      req.DateTo,
	})
	if err != nil {
		h.respondError(w, r.Context(), err, "reportsEventDetails")
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, details)
}

func (h *Handler) respondError(w http.ResponseWriter, ctx context.Context, err error, op string) {
	logger := h.loggerFrom(ctx).With(zap.String("operation", op))

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		logger.Warn("report request rejected", zap.Error(err))
		httpapi.WriteValidationProblem(w, validationErr.Fields)
		return
	}

	logger.Error("report query failed", zap.Error(err))
	httpapi.WriteProblem(w, http.StatusInternalServerError, "Internal server error", "an unexpected error occurred")
}

func (h *Handler) loggerFrom(ctx context.Context) *zap.Logger {
	if logger, ok := logging.FromContext(ctx); ok {
		return logger
	}
	return h.logger
}
