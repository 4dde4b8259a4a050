package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AttendanceInitial is the sentinel status written at snapshot time, meaning
// "not yet recorded".
const AttendanceInitial = "I"

// Event status codes as stored.
const (
	EventStatusActive    = "A"
	EventStatusCancelled = "B"
	EventStatusFinished  = "F"
	EventStatusSuspended = "S"
)

// CreateEventParams captures the fields of a new event plus its target divisions.
type CreateEventParams struct {
	StartsAt    *time.Time // nil when neither date nor time were provided
	Type        string
	SubType     *string
	Note        *string
	DivisionIDs []int64 // must be non-empty; validated by the service
}

// EventStore owns event records, their division links, and the attendance ledger.
type EventStore struct {
	pool *pgxpool.Pool
}

// NewEventStore returns a store instance bound to the shared pool.
func NewEventStore(pool *pgxpool.Pool) (*EventStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &EventStore{pool: pool}, nil
}

// CreateEventWithSnapshot runs the full event-creation workflow in one
// transaction: insert the event, link every division, and snapshot the current
// player roster of each division into the attendance ledger with the initial
// sentinel status. Any failure rolls the whole unit back; no partial event,
// link, or ledger row is ever observable.
//
// The snapshot is one bulk INSERT ... SELECT per division. The transaction
// still spans one ledger row per roster member, so its lock scope grows with
// roster size; large rosters extend the window in which concurrent membership
// changes are invisible to the snapshot.
func (s *EventStore) CreateEventWithSnapshot(ctx context.Context, params CreateEventParams) (int64, error) {
	if len(params.DivisionIDs) == 0 {
		return 0, errors.New("at least one division id is required")
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin event tx: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var eventID int64
	if err := tx.QueryRow(ctx, `
        INSERT INTO events (starts_at, event_type, event_subtype, note, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING event_id
    `, params.StartsAt, params.Type, params.SubType, params.Note, EventStatusActive).Scan(&eventID); err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}

	if _, err := tx.Exec(ctx, `
        INSERT INTO event_divisions (event_id, division_id)
        SELECT $1, unnest($2::bigint[])
    `, eventID, params.DivisionIDs); err != nil {
		if isForeignKeyViolation(err) {
			return 0, ErrDivisionNotFound
		}
		return 0, fmt.Errorf("link event divisions: %w", err)
	}

	for _, divisionID := range params.DivisionIDs {
		if err := s.snapshotDivision(ctx, tx, eventID, divisionID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit event tx: %w", err)
	}

	return eventID, nil
}

// snapshotDivision inserts one ledger row per current player of the division:
// active membership in the playing role, person not deactivated, division
// active. ON CONFLICT keeps the ledger at one row per (event, person) when a
// person plays in several divisions targeted by the same event.
func (s *EventStore) snapshotDivision(ctx context.Context, tx pgx.Tx, eventID, divisionID int64) error {
	if _, err := tx.Exec(ctx, `
        INSERT INTO attendance_records (event_id, person_id, status)
        SELECT $1, m.person_id, $4
        FROM memberships m
        INNER JOIN persons p ON p.person_id = m.person_id
        INNER JOIN divisions d ON d.division_id = m.division_id
        WHERE m.division_id = $2
          AND m.role_id = $3
          AND m.status = 'A'
          AND p.status <> $5
          AND d.status = 'A'
        ON CONFLICT (event_id, person_id) DO NOTHING
    `, eventID, divisionID, RolePlayerID, AttendanceInitial, PersonStatusDeactivated); err != nil {
		return fmt.Errorf("snapshot attendance for division %d: %w", divisionID, err)
	}
	return nil
}

// MarkAttendance overwrites the status of the single matching ledger row.
// This is not an upsert: attendance can only be marked for people snapshotted
// at event-creation time.
func (s *EventStore) MarkAttendance(ctx context.Context, eventID, personID int64, status string) error {
	tag, err := s.pool.Exec(ctx, `
        UPDATE attendance_records
        SET status = $3
        WHERE event_id = $1 AND person_id = $2
    `, eventID, personID, status)
	if err != nil {
		return fmt.Errorf("mark attendance: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrAttendanceNotFound
	}

	return nil
}

// SetEventStatus transitions the event lifecycle status. Events are never
// hard-deleted; cancellation is a status change.
func (s *EventStore) SetEventStatus(ctx context.Context, eventID int64, status string) error {
	tag, err := s.pool.Exec(ctx, `
        UPDATE events
        SET status = $2
        WHERE event_id = $1
    `, eventID, status)
	if err != nil {
		return fmt.Errorf("set event status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}

	return nil
}
