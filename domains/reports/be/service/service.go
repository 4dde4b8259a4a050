package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clubtrack-dev/clubtrack/domains/events/be/attendance"
	"github.com/clubtrack-dev/clubtrack/domains/reports/be/repo"
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

const dateLayout = "2006-01-02"

// RangeInput filters the flat range report. DateFrom and DateTo are required
// wire strings; the range is inclusive on both ends.
type RangeInput struct {
	DateFrom    string
	DateTo      string
	DivisionIDs []int64
}

// RangeRow is one (event, person) pair of the range report, with the stored
// codes already translated to display labels.
type RangeRow struct {
	EventID          int64   `json:"eventId"`
	Date             string  `json:"date"`
	DivisionID       int64   `json:"divisionId"`
	PersonID         int64   `json:"personId"`
	Name             string  `json:"name"`
	Nickname         *string `json:"nickname"`
	AttendanceCode   string  `json:"attendanceCode"`
	AttendanceLabel  string  `json:"attendanceLabel"`
	EventStatusLabel string  `json:"eventStatusLabel"`
	Role             string  `json:"role"`
}

// EventDetailsInput filters the event-detail report. ClubID is required;
// DateFrom and DateTo must be given together or not at all.
type EventDetailsInput struct {
	ClubID      int64
	DivisionIDs []int64
	DateFrom    string
	DateTo      string
}

// EventDivision is one division linked to a reported event.
type EventDivision struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

// EventPerson is one snapshotted person of a reported event.
type EventPerson struct {
	PersonID       int64   `json:"personId"`
	Name           string  `json:"name"`
	Nickname       *string `json:"nickname"`
	Status         int16   `json:"status"`
	Role           string  `json:"role"`
	DivisionID     int64   `json:"divisionId"`
	Division       string  `json:"division"`
	AttendanceCode string  `json:"attendanceCode"`
}

// EventDetail is one event of the detail report with its linked divisions and
// snapshotted people embedded.
type EventDetail struct {
	EventID   int64           `json:"eventId"`
	Date      *string         `json:"date"`
	Type      string          `json:"type"`
	SubType   *string         `json:"subType"`
	Note      *string         `json:"note"`
	Status    string          `json:"status"`
	Divisions []EventDivision `json:"divisions"`
	People    []EventPerson   `json:"people"`
}

// Service defines the reporting operations.
type Service interface {
	RangeReport(ctx context.Context, input RangeInput) ([]RangeRow, error)
	EventDetails(ctx context.Context, input EventDetailsInput) ([]EventDetail, error)
}

type service struct {
	repo repo.Repository
}

// New constructs a reports Service backed by the provided repository.
func New(r repo.Repository) Service {
	if r == nil {
		panic("reports repository is required")
	}
	return &service{repo: r}
}

// RangeReport flattens the attendance ledger over an inclusive date range,
// translating stored codes to display labels.
func (s *service) RangeReport(ctx context.Context, input RangeInput) ([]RangeRow, error) {
	fieldErrors := FieldErrors{}

	from, err := parseRequiredDate(input.DateFrom)
	if err != nil {
		fieldErrors.add("dateFrom", err.Error())
	}
	to, err := parseRequiredDate(input.DateTo)
	if err != nil {
		fieldErrors.add("dateTo", err.Error())
	}
	if len(fieldErrors) == 0 && to.Before(from) {
		fieldErrors.add("dateTo", "dateTo must not precede dateFrom")
	}
	for _, id := range input.DivisionIDs {
		if id <= 0 {
			fieldErrors.add("divisionIds", fmt.Sprintf("invalid division id %d", id))
			break
		}
	}

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	rows, err := s.repo.RangeAttendance(ctx, persistence.RangeAttendanceParams{
		From:        from,
		To:          to,
		DivisionIDs: input.DivisionIDs,
	})
	if err != nil {
		return nil, err
	}

	report := make([]RangeRow, 0, len(rows))
	for _, row := range rows {
		report = append(report, RangeRow{
			EventID:          row.EventID,
			Date:             row.Date.UTC().Format(dateLayout),
			DivisionID:       row.DivisionID,
			PersonID:         row.PersonID,
			Name:             row.Name,
			Nickname:         row.Nickname,
			AttendanceCode:   row.AttendanceCode,
			AttendanceLabel:  attendance.Code(row.AttendanceCode).Label(),
			EventStatusLabel: attendance.EventStatus(row.EventStatus).Label(),
			Role:             row.Role,
		})
	}

	return report, nil
}

// EventDetails lists the active events of a club with the linked divisions
// and snapshotted people embedded per event.
func (s *service) EventDetails(ctx context.Context, input EventDetailsInput) ([]EventDetail, error) {
	fieldErrors := FieldErrors{}

	if input.ClubID <= 0 {
		fieldErrors.add("clubId", "clubId is required")
	}
	for _, id := range input.DivisionIDs {
		if id <= 0 {
			fieldErrors.add("divisionIds", fmt.Sprintf("invalid division id %d", id))
			break
		}
	}

	from, to := parseOptionalRange(input.DateFrom, input.DateTo, fieldErrors)

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	events, err := s.repo.ListEvents(ctx, persistence.EventDetailParams{
		ClubID:      input.ClubID,
		DivisionIDs: input.DivisionIDs,
		From:        from,
		To:          to,
	})
	if err != nil {
		return nil, err
	}

	details := make([]EventDetail, 0, len(events))
	if len(events) == 0 {
		return details, nil
	}

	eventIDs := make([]int64, 0, len(events))
	for _, e := range events {
		eventIDs = append(eventIDs, e.EventID)
	}

	divisions, err := s.repo.ListEventDivisions(ctx, eventIDs)
	if err != nil {
		return nil, err
	}
	people, err := s.repo.ListEventPeople(ctx, eventIDs)
	if err != nil {
		return nil, err
	}

	divisionsByEvent := make(map[int64][]EventDivision, len(events))
	for _, link := range divisions {
		divisionsByEvent[link.EventID] = append(divisionsByEvent[link.EventID], EventDivision{
			ID:          link.DivisionID,
			Description: link.Description,
		})
	}

	peopleByEvent := make(map[int64][]EventPerson, len(events))
	for _, person := range people {
		peopleByEvent[person.EventID] = append(peopleByEvent[person.EventID], EventPerson{
			PersonID:       person.PersonID,
			Name:           person.Name,
			Nickname:       person.Nickname,
			Status:         person.Status,
			Role:           "Jugador",
			DivisionID:     person.DivisionID,
			Division:       person.Division,
			AttendanceCode: person.AttendanceCode,
		})
	}

	for _, e := range events {
		detail := EventDetail{
			EventID:   e.EventID,
			Type:      e.Type,
			SubType:   e.SubType,
			Note:      e.Note,
			Status:    e.Status,
			Divisions: divisionsByEvent[e.EventID],
			People:    peopleByEvent[e.EventID],
		}
		if e.StartsAt != nil {
			formatted := e.StartsAt.UTC().Format(dateLayout)
			detail.Date = &formatted
		}
		if detail.Divisions == nil {
			detail.Divisions = []EventDivision{}
		}
		if detail.People == nil {
			detail.People = []EventPerson{}
		}
		details = append(details, detail)
	}

	return details, nil
}

func parseRequiredDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("a date in %s format is required", dateLayout)
	}
	parsed, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return parsed, nil
}

// parseOptionalRange accepts either both bounds or neither, recording each
// bound's issue against its own field.
func parseOptionalRange(fromStr, toStr string, fieldErrors FieldErrors) (*time.Time, *time.Time) {
	fromStr = strings.TrimSpace(fromStr)
	toStr = strings.TrimSpace(toStr)

	if fromStr == "" && toStr == "" {
		return nil, nil
	}
	if fromStr == "" {
		fieldErrors.add("dateFrom", "dateFrom and dateTo must be provided together")
		return nil, nil
	}
	if toStr == "" {
		fieldErrors.add("dateTo", "dateFrom and dateTo must be provided together")
		return nil, nil
	}

	from, fromErr := parseRequiredDate(fromStr)
	if fromErr != nil {
		fieldErrors.add("dateFrom", fromErr.Error())
	}
	to, toErr := parseRequiredDate(toStr)
	if toErr != nil {
		fieldErrors.add("dateTo", toErr.Error())
	}
	if fromErr != nil || toErr != nil {
		return nil, nil
	}
	if to.Before(from) {
		fieldErrors.add("dateTo", "dateTo must not precede dateFrom")
		return nil, nil
	}

	return &from, &to
}

func (f FieldErrors) add(field, message string) {
	if f == nil {
		return
	}
	f[field] = append(f[field], message)
}
