package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RolePlayerID identifies the playing role; snapshots and report queries are
// restricted to it.
const RolePlayerID int64 = 1

// Member is one roster entry: a person together with the role and division
// the membership grants.
type Member struct {
	PersonID  int64      `json:"personId"`
	FullName  string     `json:"name"`
	Nickname  *string    `json:"nickname,omitempty"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
	Status    int16      `json:"status"`
	Division  string     `json:"division"`
	Role      string     `json:"role"`
}

// RosterStore resolves current division membership. Pure read; snapshots into
// the attendance ledger are taken by the EventStore inside its own transaction.
type RosterStore struct {
	pool *pgxpool.Pool
}

// NewRosterStore returns a store instance bound to the shared pool.
func NewRosterStore(pool *pgxpool.Pool) (*RosterStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &RosterStore{pool: pool}, nil
}

// ListMembers returns the current members of the given divisions: membership
// active, person not deactivated and division active. Rows are ordered by a
// fixed role rank
// (playing role last, unrecognized roles after everything else), then by
// division description.
func (s *RosterStore) ListMembers(ctx context.Context, divisionIDs []int64) ([]Member, error) {
	if len(divisionIDs) == 0 {
		return []Member{}, nil
	}

	rows, err := s.pool.Query(ctx, `
        SELECT p.person_id, p.full_name, p.nickname, p.birth_date, p.status,
               d.description AS division,
               r.description AS role
        FROM memberships m
        INNER JOIN persons p ON p.person_id = m.person_id
        INNER JOIN divisions d ON d.division_id = m.division_id
        INNER JOIN roles r ON r.role_id = m.role_id
        WHERE m.division_id = ANY($1)
          AND m.status = 'A'
          AND p.status <> $2
          AND d.status = 'A'
        ORDER BY
            CASE m.role_id
                WHEN 2 THEN 1
                WHEN 3 THEN 2
                WHEN 4 THEN 3
                WHEN 5 THEN 4
                WHEN 1 THEN 5
                ELSE 6
            END,
            d.description
    `, divisionIDs, PersonStatusDeactivated)
	if err != nil {
		return nil, fmt.Errorf("list division members: %w", err)
	}
	defer rows.Close()

	members := make([]Member, 0)
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.PersonID, &m.FullName, &m.Nickname, &m.BirthDate, &m.Status, &m.Division, &m.Role); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	return members, nil
}
