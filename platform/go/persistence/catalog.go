package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClubMembership pairs a club with the caller's membership type in that club.
type ClubMembership struct {
	ClubID      int64  `json:"clubId"`
	Description string `json:"description"`
	UserType    string `json:"userType"`
}

// Discipline is a sport practiced by a club.
type Discipline struct {
	DisciplineID int64  `json:"disciplineId"`
	Description  string `json:"description"`
}

// Division is a named sub-group (e.g. an age bracket) within a discipline.
type Division struct {
	DivisionID  int64  `json:"divisionId"`
	Description string `json:"description"`
}

// CatalogStore serves the club/discipline/division reference-data reads.
type CatalogStore struct {
	pool *pgxpool.Pool
}

// NewCatalogStore returns a store instance bound to the shared pool.
func NewCatalogStore(pool *pgxpool.Pool) (*CatalogStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &CatalogStore{pool: pool}, nil
}

// ListClubsByPerson returns the active clubs a person belongs to, ordered by description.
func (s *CatalogStore) ListClubsByPerson(ctx context.Context, personID int64) ([]ClubMembership, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT c.club_id, c.description, COALESCE(cm.user_type, '')
        FROM clubs c
        INNER JOIN club_members cm ON cm.club_id = c.club_id
        WHERE c.status = 'A' AND cm.person_id = $1
        ORDER BY c.description
    `, personID)
	if err != nil {
		return nil, fmt.Errorf("list clubs by person: %w", err)
	}
	defer rows.Close()

	clubs := make([]ClubMembership, 0)
	for rows.Next() {
		var club ClubMembership
		if err := rows.Scan(&club.ClubID, &club.Description, &club.UserType); err != nil {
			return nil, fmt.Errorf("scan club: %w", err)
		}
		clubs = append(clubs, club)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clubs: %w", err)
	}

	return clubs, nil
}

// ListDisciplinesByClub returns the disciplines linked to a club.
func (s *CatalogStore) ListDisciplinesByClub(ctx context.Context, clubID int64) ([]Discipline, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT d.discipline_id, d.description
        FROM disciplines d
        INNER JOIN club_disciplines cd ON cd.discipline_id = d.discipline_id
        WHERE cd.club_id = $1
        ORDER BY d.description
    `, clubID)
	if err != nil {
		return nil, fmt.Errorf("list disciplines by club: %w", err)
	}
	defer rows.Close()

	return collectRows[Discipline](rows, func(row pgx.Row) (Discipline, error) {
		var d Discipline
		err := row.Scan(&d.DisciplineID, &d.Description)
		return d, err
	})
}

// ListDivisionsByDiscipline returns every division of a discipline.
func (s *CatalogStore) ListDivisionsByDiscipline(ctx context.Context, disciplineID int64) ([]Division, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT division_id, description
        FROM divisions
        WHERE discipline_id = $1
        ORDER BY description
    `, disciplineID)
	if err != nil {
		return nil, fmt.Errorf("list divisions by discipline: %w", err)
	}
	defer rows.Close()

	return collectRows[Division](rows, scanDivision)
}

// ListDivisionsByPerson returns the active divisions a person holds an active
// membership in, scoped to one discipline and club.
func (s *CatalogStore) ListDivisionsByPerson(ctx context.Context, personID, disciplineID, clubID int64) ([]Division, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT DISTINCT d.division_id, d.description
        FROM divisions d
        INNER JOIN memberships m ON m.division_id = d.division_id
        WHERE m.person_id = $1
          AND m.status = 'A'
          AND d.status = 'A'
          AND d.discipline_id = $2
          AND d.club_id = $3
        ORDER BY d.description
    `, personID, disciplineID, clubID)
	if err != nil {
		return nil, fmt.Errorf("list divisions by person: %w", err)
	}
	defer rows.Close()

	return collectRows[Division](rows, scanDivision)
}

func scanDivision(row pgx.Row) (Division, error) {
	var d Division
	err := row.Scan(&d.DivisionID, &d.Description)
	return d, err
}

func collectRows[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return items, nil
}
