package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RangeAttendanceParams filters the flat range report.
type RangeAttendanceParams struct {
	From        time.Time
	To          time.Time // inclusive; rows up to the end of this day match
	DivisionIDs []int64   // nil or empty means every division
}

// RangeAttendanceRow is one (event, person) pair of the range report.
type RangeAttendanceRow struct {
	EventID        int64
	Date           time.Time
	DivisionID     int64
	PersonID       int64
	Name           string
	Nickname       *string
	AttendanceCode string
	EventStatus    string
	Role           string
}

// EventSummary is the event header of the detail report.
type EventSummary struct {
	EventID  int64
	StartsAt *time.Time
	Type     string
	SubType  *string
	Note     *string
	Status   string
}

// EventDivisionRow links a division (id + description) to an event.
type EventDivisionRow struct {
	EventID     int64
	DivisionID  int64
	Description string
}

// EventPersonRow is one snapshotted person of an event, seen through one of
// their player memberships in a division linked to that event.
type EventPersonRow struct {
	EventID        int64
	PersonID       int64
	Name           string
	Nickname       *string
	Status         int16
	DivisionID     int64
	Division       string
	AttendanceCode string
}

// EventDetailParams filters the event-detail report. From/To are either both
// set or both nil.
type EventDetailParams struct {
	ClubID      int64
	DivisionIDs []int64
	From        *time.Time
	To          *time.Time
}

// ReportStore runs the aggregation queries that flatten the attendance ledger
// into reportable rows.
type ReportStore struct {
	pool *pgxpool.Pool
}

// NewReportStore returns a store instance bound to the shared pool.
func NewReportStore(pool *pgxpool.Pool) (*ReportStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &ReportStore{pool: pool}, nil
}

// RangeAttendance returns one row per (event, person) pair for non-cancelled
// events in the date range, restricted to players. A person reachable through
// several division links of the same event yields exactly one row; the tie
// breaks on the lowest division id. Rows are ordered by person name.
func (s *ReportStore) RangeAttendance(ctx context.Context, params RangeAttendanceParams) ([]RangeAttendanceRow, error) {
	divisionFilter := params.DivisionIDs
	if len(divisionFilter) == 0 {
		divisionFilter = nil
	}

	rows, err := s.pool.Query(ctx, `
        WITH ranked_rows AS (
            SELECT
                e.event_id,
                e.starts_at,
                ed.division_id,
                p.person_id,
                p.full_name,
                p.nickname,
                ar.status AS attendance_code,
                e.status AS event_status,
                r.description AS role,
                ROW_NUMBER() OVER (PARTITION BY e.event_id, p.person_id ORDER BY ed.division_id) AS rn
            FROM events e
            INNER JOIN attendance_records ar ON ar.event_id = e.event_id
            INNER JOIN event_divisions ed ON ed.event_id = e.event_id
            INNER JOIN memberships m
                ON m.person_id = ar.person_id
               AND m.division_id = ed.division_id
               AND m.role_id = $4
               AND m.status = 'A'
            INNER JOIN persons p ON p.person_id = ar.person_id
            INNER JOIN roles r ON r.role_id = m.role_id
            WHERE e.starts_at >= $1
              AND e.starts_at < $2 + INTERVAL '1 day'
              AND e.status <> $5
              AND ($3::bigint[] IS NULL OR ed.division_id = ANY($3))
        )
        SELECT event_id, starts_at, division_id, person_id, full_name, nickname,
               attendance_code, event_status, role
        FROM ranked_rows
        WHERE rn = 1
        ORDER BY full_name
    `, params.From, params.To, divisionFilter, RolePlayerID, EventStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("range attendance report: %w", err)
	}
	defer rows.Close()

	report := make([]RangeAttendanceRow, 0)
	for rows.Next() {
		var row RangeAttendanceRow
		if err := rows.Scan(
			&row.EventID,
			&row.Date,
			&row.DivisionID,
			&row.PersonID,
			&row.Name,
			&row.Nickname,
			&row.AttendanceCode,
			&row.EventStatus,
			&row.Role,
		); err != nil {
			return nil, fmt.Errorf("scan range report row: %w", err)
		}
		report = append(report, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate range report: %w", err)
	}

	return report, nil
}

// ListEvents returns the active events with at least one linked division in
// the given club, newest first, applying the optional division and date filters.
func (s *ReportStore) ListEvents(ctx context.Context, params EventDetailParams) ([]EventSummary, error) {
	divisionFilter := params.DivisionIDs
	if len(divisionFilter) == 0 {
		divisionFilter = nil
	}

	rows, err := s.pool.Query(ctx, `
        SELECT e.event_id, e.starts_at, e.event_type, e.event_subtype, e.note, e.status
        FROM events e
        WHERE e.status = $5
          AND EXISTS (
              SELECT 1
              FROM event_divisions ed
              INNER JOIN divisions d ON d.division_id = ed.division_id
              WHERE ed.event_id = e.event_id
                AND d.club_id = $1
                AND ($2::bigint[] IS NULL OR ed.division_id = ANY($2))
          )
          AND ($3::timestamptz IS NULL OR (e.starts_at >= $3 AND e.starts_at < $4 + INTERVAL '1 day'))
        ORDER BY e.starts_at DESC
    `, params.ClubID, divisionFilter, params.From, params.To, EventStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list report events: %w", err)
	}
	defer rows.Close()

	events := make([]EventSummary, 0)
	for rows.Next() {
		var e EventSummary
		if err := rows.Scan(&e.EventID, &e.StartsAt, &e.Type, &e.SubType, &e.Note, &e.Status); err != nil {
			return nil, fmt.Errorf("scan report event: %w", err)
		}
		events = append(events, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report events: %w", err)
	}

	return events, nil
}

// ListEventDivisions returns the divisions linked to each of the given events,
// ordered by description.
func (s *ReportStore) ListEventDivisions(ctx context.Context, eventIDs []int64) ([]EventDivisionRow, error) {
	if len(eventIDs) == 0 {
		return []EventDivisionRow{}, nil
	}

	rows, err := s.pool.Query(ctx, `
        SELECT ed.event_id, d.division_id, d.description
        FROM event_divisions ed
        INNER JOIN divisions d ON d.division_id = ed.division_id
        WHERE ed.event_id = ANY($1)
        ORDER BY d.description
    `, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("list event divisions: %w", err)
	}
	defer rows.Close()

	links := make([]EventDivisionRow, 0)
	for rows.Next() {
		var link EventDivisionRow
		if err := rows.Scan(&link.EventID, &link.DivisionID, &link.Description); err != nil {
			return nil, fmt.Errorf("scan event division: %w", err)
		}
		links = append(links, link)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event divisions: %w", err)
	}

	return links, nil
}

// ListEventPeople returns the snapshotted people of each event with their
// current attendance status, through their player membership in a division
// linked to the event, ordered by division description then person name.
func (s *ReportStore) ListEventPeople(ctx context.Context, eventIDs []int64) ([]EventPersonRow, error) {
	if len(eventIDs) == 0 {
		return []EventPersonRow{}, nil
	}

	rows, err := s.pool.Query(ctx, `
        SELECT ar.event_id, p.person_id, p.full_name, p.nickname, p.status,
               d.division_id, d.description, ar.status
        FROM attendance_records ar
        INNER JOIN persons p ON p.person_id = ar.person_id
        INNER JOIN memberships m
            ON m.person_id = ar.person_id
           AND m.role_id = $2
           AND m.status = 'A'
        INNER JOIN divisions d ON d.division_id = m.division_id
        INNER JOIN event_divisions ed
            ON ed.event_id = ar.event_id
           AND ed.division_id = m.division_id
        WHERE ar.event_id = ANY($1)
        ORDER BY ar.event_id, d.description, p.full_name
    `, eventIDs, RolePlayerID)
	if err != nil {
		return nil, fmt.Errorf("list event people: %w", err)
	}
	defer rows.Close()

	people := make([]EventPersonRow, 0)
	for rows.Next() {
		var person EventPersonRow
		if err := rows.Scan(
			&person.EventID,
			&person.PersonID,
			&person.Name,
			&person.Nickname,
			&person.Status,
			&person.DivisionID,
			&person.Division,
			&person.AttendanceCode,
		); err != nil {
			return nil, fmt.Errorf("scan event person: %w", err)
		}
		people = append(people, person)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event people: %w", err)
	}

	return people, nil
}
