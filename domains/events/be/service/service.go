package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clubtrack-dev/clubtrack/domains/events/be/attendance"
	"github.com/clubtrack-dev/clubtrack/domains/events/be/repo"
	"github.com/clubtrack-dev/clubtrack/platform/go/persistence"
)

// FieldErrors maps request fields to validation issues.
type FieldErrors map[string][]string

// ValidationError is returned when the input payload is invalid.
type ValidationError struct {
	Fields FieldErrors
}

func (v *ValidationError) Error() string {
	return "validation error"
}

// Domain sentinel errors.
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrDivisionNotFound   = errors.New("division not found")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// CreateInput is the payload for the event-creation workflow. Date and Time
// are wire strings; Time without Date is rejected.
type CreateInput struct {
	Date        string
	Time        string
	Type        string
	SubType     *string
	Note        *string
	DivisionIDs []int64
}

// MarkInput identifies a single ledger row and the status to overwrite it with.
type MarkInput struct {
	EventID  int64
	PersonID int64
	Code     string
}

// SetStatusInput transitions an event's lifecycle status.
type SetStatusInput struct {
	EventID int64
	Status  string
}

// Service defines the business operations for the events domain.
type Service interface {
	Create(ctx context.Context, input CreateInput) (int64, error)
	MarkAttendance(ctx context.Context, input MarkInput) error
	SetStatus(ctx context.Context, input SetStatusInput) error
}

type service struct {
	repo repo.Repository
}

// New constructs an events Service backed by the provided repository.
func New(r repo.Repository) Service {
	if r == nil {
		panic("events repository is required")
	}
	return &service{repo: r}
}

// Create validates the input and runs the atomic create-link-snapshot
// workflow, returning the new event id.
func (s *service) Create(ctx context.Context, input CreateInput) (int64, error) {
	fieldErrors := FieldErrors{}

	eventType := strings.TrimSpace(input.Type)
	if eventType == "" {
		fieldErrors.add("type", "type is required")
	}

	divisionIDs := dedupeIDs(input.DivisionIDs)
	if len(divisionIDs) == 0 {
		fieldErrors.add("divisionIds", "at least one division id is required")
	}
	for _, id := range divisionIDs {
		if id <= 0 {
			fieldErrors.add("divisionIds", fmt.Sprintf("invalid division id %d", id))
			break
		}
	}

	startsAt, err := parseStartsAt(input.Date, input.Time)
	if err != nil {
		fieldErrors.add("date", err.Error())
	}

	if len(fieldErrors) > 0 {
		return 0, &ValidationError{Fields: fieldErrors}
	}

	eventID, err := s.repo.CreateEventWithSnapshot(ctx, persistence.CreateEventParams{
		StartsAt:    startsAt,
		Type:        eventType,
		SubType:     trimPtr(input.SubType),
		Note:        trimPtr(input.Note),
		DivisionIDs: divisionIDs,
	})
	if err != nil {
		return 0, mapPersistenceError(err)
	}

	return eventID, nil
}

// MarkAttendance overwrites the status of one snapshotted (event, person)
// row. The code must belong to the closed attendance set; marking is
// idempotent for equal codes and last-write-wins otherwise.
func (s *service) MarkAttendance(ctx context.Context, input MarkInput) error {
	fieldErrors := FieldErrors{}

	if input.EventID <= 0 {
		fieldErrors.add("eventId", "eventId is required")
	}
	if input.PersonID <= 0 {
		fieldErrors.add("personId", "personId is required")
	}

	code := attendance.Code(strings.TrimSpace(input.Code))
	if code == "" {
		fieldErrors.add("attendanceCode", "attendanceCode is required")
	} else if !code.Known() {
		fieldErrors.add("attendanceCode", fmt.Sprintf("unrecognized attendance code %q", string(code)))
	}

	if len(fieldErrors) > 0 {
		return &ValidationError{Fields: fieldErrors}
	}

	if err := s.repo.MarkAttendance(ctx, input.EventID, input.PersonID, string(code)); err != nil {
		return mapPersistenceError(err)
	}

	return nil
}

// SetStatus transitions the event lifecycle status within the closed set.
func (s *service) SetStatus(ctx context.Context, input SetStatusInput) error {
	fieldErrors := FieldErrors{}

	if input.EventID <= 0 {
		fieldErrors.add("eventId", "eventId is required")
	}

	status := attendance.EventStatus(strings.TrimSpace(input.Status))
	if status == "" {
		fieldErrors.add("status", "status is required")
	} else if !status.Known() {
		fieldErrors.add("status", fmt.Sprintf("unrecognized event status %q", string(status)))
	}

	if len(fieldErrors) > 0 {
		return &ValidationError{Fields: fieldErrors}
	}

	if err := s.repo.SetEventStatus(ctx, input.EventID, string(status)); err != nil {
		return mapPersistenceError(err)
	}

	return nil
}

// parseStartsAt combines the optional date and time strings. Both absent
// yields nil; a date alone defaults to midnight UTC.
func parseStartsAt(date, clock string) (*time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)

	if date == "" {
		if clock != "" {
			return nil, errors.New("time requires a date")
		}
		return nil, nil
	}

	layout := dateLayout
	value := date
	if clock != "" {
		layout = dateLayout + " " + timeLayout
		value = date + " " + clock
	}

	parsed, err := time.ParseInLocation(layout, value, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid date/time %q", value)
	}

	return &parsed, nil
}

// dedupeIDs drops repeated ids while preserving first-seen order; a repeated
// division in the payload would otherwise collide on the event link table.
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func mapPersistenceError(err error) error {
	switch {
	case errors.Is(err, persistence.ErrAttendanceNotFound):
		return ErrAttendanceNotFound
	case errors.Is(err, persistence.ErrEventNotFound):
		return ErrEventNotFound
	case errors.Is(err, persistence.ErrDivisionNotFound):
		return ErrDivisionNotFound
	default:
		return err
	}
}

func (f FieldErrors) add(field, message string) {
	if f == nil {
		return
	}
	f[field] = append(f[field], message)
}
