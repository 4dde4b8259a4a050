package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clubtrack-dev/clubtrack/domains/events/be/service"
	"github.com/clubtrack-dev/clubtrack/platform/go/httpapi"
	"github.com/clubtrack-dev/clubtrack/platform/go/logging"
)

// Handler wires the events service to the HTTP surface.
type Handler struct {
	svc      service.Service
	logger   *zap.Logger
	validate *validator.Validate
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("events service is required")
	}
	if logger == nil {
		panic("logger is required")
	}

	return &Handler{svc: svc, logger: logger, validate: httpapi.NewValidator()}
}

// Register attaches the event routes to the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/events", h.create)
	r.Post("/events/attendance", h.markAttendance)
	r.Post("/events/status", h.setStatus)
}

type createEventRequest struct {
	Date        string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time        string  `json:"time" validate:"omitempty,datetime=15:04"`
	Type        string  `json:"type" validate:"required"`
	SubType     *string `json:"subType"`
	Note        *string `json:"note"`
	DivisionIDs []int64 `json:"divisionIds" validate:"required,min=1,dive,gt=0"`
}

type createEventResponse struct {
	OK      bool  `json:"ok"`
	EventID int64 `json:"eventId"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteProblem(w, http.StatusBadRequest, "Invalid request body", "request body must be a JSON object")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.WriteValidationProblem(w, httpapi.ValidationFields(err))
		return
	}

	eventID, err := h.svc.Create(r.Context(), service.CreateInput{
		Date:        req.Date,
		Time:        req.Time,
		Type:        req.Type,
		SubType:     req.SubType,
		Note:        req.Note,
		DivisionIDs: req.DivisionIDs,
	})
	if err != nil {
		h.respondError(w, r.Context(), err, "eventsCreate")
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, createEventResponse{OK: true, EventID: eventID})
}

type markAttendanceRequest struct {
	EventID        int64  `json:"eventId" validate:"required,gt=0"`
	PersonID       int64  `json:"personId" validate:"required,gt=0"`
	AttendanceCode string `json:"attendanceCode" validate:"required"`
}

func (h *Handler) markAttendance(w http.ResponseWriter, r *http.Request) {
	var req markAttendanceRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteProblem(w, http.StatusBadRequest, "Invalid request body", "request body must be a JSON object")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.WriteValidationProblem(w, httpapi.ValidationFields(err))
		return
	}

	if err := h.svc.MarkAttendance(r.Context(), service.MarkInput{
		EventID:  req.EventID,
		PersonID: req.PersonID,
		Code:     req.AttendanceCode,
	}); err != nil {
		h.respondError(w, r.Context(), err, "eventsMarkAttendance")
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type setStatusRequest struct {
	EventID int64  `json:"eventId" validate:"required,gt=0"`
	Status  string `json:"status" validate:"required"`
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteProblem(w, http.StatusBadRequest, "Invalid request body", "request body must be a JSON object")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.WriteValidationProblem(w, httpapi.ValidationFields(err))
		return
	}

	if err := h.svc.SetStatus(r.Context(), service.SetStatusInput{
		EventID: req.EventID,
		Status:  req.Status,
	}); err != nil {
		h.respondError(w, r.Context(), err, "eventsSetStatus")
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) respondError(w http.ResponseWriter, ctx context.Context, err error, op string) {
	logger := h.loggerFrom(ctx).With(zap.String("operation", op))

	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		logger.Warn("events request rejected", zap.Error(err))
		httpapi.WriteValidationProblem(w, validationErr.Fields)
	case errors.Is(err, service.ErrAttendanceNotFound):
		logger.Info("attendance record not found", zap.Error(err))
		httpapi.WriteProblem(w, http.StatusNotFound, "Resource not found", "no attendance record for that event and person")
	case errors.Is(err, service.ErrEventNotFound):
		logger.Info("event not found", zap.Error(err))
		httpapi.WriteProblem(w, http.StatusNotFound, "Resource not found", "event not found")
	case errors.Is(err, service.ErrDivisionNotFound):
		logger.Warn("unknown division in event request", zap.Error(err))
		httpapi.WriteProblem(w, http.StatusNotFound, "Resource not found", "one or more divisions do not exist")
	default:
		logger.Error("events operation failed", zap.Error(err))
		httpapi.WriteProblem(w, http.StatusInternalServerError, "Internal server error", "an unexpected error occurred")
	}
}

func (h *Handler) loggerFrom(ctx context.Context) *zap.Logger {
	if logger, ok := logging.FromContext(ctx); ok {
		return logger
	}
	return h.logger
}
