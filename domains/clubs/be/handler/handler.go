package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clubtrack-dev/clubtrack/domains/clubs/be/service"
	"github.com/clubtrack-dev/clubtrack/platform/go/httpapi"
	"github.com/clubtrack-dev/clubtrack/platform/go/logging"
)

// Handler wires the clubs service to the HTTP surface.
type Handler struct {
	svc      service.Service
	logger   *zap.Logger
	validate *validator.Validate
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("clubs service is required")
	}
	if logger == nil {
		panic("logger is required")
	}

	return &Handler{svc: svc, logger: logger, validate: httpapi.NewValidator()}
}

// Register attaches the reference-data and roster routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/clubs/by-person", h.clubsByPerson)
	r.Post("/disciplines/by-club", h.disciplinesByClub)
	r.Post("/divisions/by-discipline", h.divisionsByDiscipline)
	r.Post("/divisions/by-person", h.divisionsByPerson)
	r.Post("/roster/members", h.rosterMembers)
}

type byPersonRequest struct {
	PersonID int64 `json:"personId" validate:"required,gt=0"`
}

func (h *Handler) clubsByPerson(w http.ResponseWriter, r *http.Request) {
	var req byPersonRequest
	if !h.decode(w, r, &req) {
		return
	}

	clubs, err := h.svc.ClubsByPerson(r.Context(), req.PersonID)
	if err != nil {
		h.respondError(w, r.Context(), err, "clubsByPerson")
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, clubs)
}

type byClubRequest struct {
	ClubID int64 `json:"clubId" validate:"required,gt=0"`
}

func (h *Handler) disciplinesByClub(w http.ResponseWriter, r *http.Request) {
	var req byClubRequest
	if !h.decode(w, r, &req) {
		return
	}

	disciplines, err := h.svc.DisciplinesByClub(r.Context(), req.ClubID)
	if err != nil {
		h.respondError(w, r.Context(), err, "disciplinesByClub")
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, disciplines)
}

type byDisciplineRequest struct {
	DisciplineID int64 `json:"disciplineId" validate:"required,gt=0"`
}

func (h *Handler) divisionsByDiscipline(w http.ResponseWriter, r *http.Request) {
	var req byDisciplineRequest
	if !h.decode(w, r, &req) {
		return
	}

	divisions, err := h.svc.DivisionsByDiscipline(r.Context(), req.DisciplineID)
	if err != nil {
		h.respondError(w, r.Context(), err, "divisionsByDiscipline")
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, divisions)
}

type divisionsByPersonRequest struct {
	PersonID     int64 `json:"personId" validate:"required,gt=0"`
	DisciplineID int64 `json:"disciplineId" validate:"required,gt=0"`
	ClubID       int64 `json:"clubId" validate:"required,gt=0"`
}

func (h *Handler) divisionsByPerson(w http.ResponseWriter, r *http.Request) {
	var req divisionsByPersonRequest
	if !h.decode(w, r, &req) {
		return
	}

	divisions, err := h.svc.DivisionsByPerson(r.Context(), req.PersonID, req.DisciplineID, req.ClubID)
	if err != nil {
		h.respondError(w, r.Context(), err, "divisionsByPerson")
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, divisions)
}

type rosterRequest struct {
	DivisionIDs []int64 `json:"divisionIds" validate:"required,min=1,dive,gt=0"`
}

func (h *Handler) rosterMembers(w http.ResponseWriter, r *http.Request) {
	var req rosterRequest
	if !h.decode(w, r, &req) {
		return
	}

	members, err := h.svc.Roster(r.Context(), req.DivisionIDs)
	if err != nil {
		h.respondError(w, r.Context(), err, "rosterMembers")
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, members)
}

// decode reads and validates the request body, writing the error response
// itself when the payload is unusable.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpapi.DecodeJSON(r, dst); err != nil {
		httpapi.WriteProblem(w, http.StatusBadRequest, "Invalid request body", "request body must be a JSON object")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		httpapi.WriteValidationProblem(w, httpapi.ValidationFields(err))
		return false
	}
	return true
}

func (h *Handler) respondError(w http.ResponseWriter, ctx context.Context, err error, op string) {
	logger := h.loggerFrom(ctx).With(zap.String("operation", op))

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		logger.Warn("lookup request rejected", zap.Error(err))
		httpapi.WriteValidationProblem(w, validationErr.Fields)
		return
	}

	logger.Error("lookup failed", zap.Error(err))
	httpapi.WriteProblem(w, http.StatusInternalServerError, "Internal server error", "an unexpected error occurred")
}

func (h *Handler) loggerFrom(ctx context.Context) *zap.Logger {
	if logger, ok := logging.FromContext(ctx); ok {
		return logger
	}
	return h.logger
}
