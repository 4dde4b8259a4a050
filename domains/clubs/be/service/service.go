package service

import (
	"context"
	"fmt"

	"github.com/clubtrack-dev/clubtrack/domains/clubs/be/repo"
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

// Service exposes the reference-data and roster lookups. Lookups never 404:
// an unknown id simply yields an empty collection.
type Service interface {
	ClubsByPerson(ctx context.Context, personID int64) ([]persistence.ClubMembership, error)
	DisciplinesByClub(ctx context.Context, clubID int64) ([]persistence.Discipline, error)
	DivisionsByDiscipline(ctx context.Context, disciplineID int64) ([]persistence.Division, error)
	DivisionsByPerson(ctx context.Context, personID, disciplineID, clubID int64) ([]persistence.Division, error)
	Roster(ctx context.Context, divisionIDs []int64) ([]persistence.Member, error)
}

type service struct {
	repo repo.Repository
}

// New constructs a clubs Service backed by the provided repository.
func New(r repo.Repository) Service {
	if r == nil {
		panic("clubs repository is required")
	}
	return &service{repo: r}
}

func (s *service) ClubsByPerson(ctx context.Context, personID int64) ([]persistence.ClubMembership, error) {
	if err := requirePositive("personId", personID); err != nil {
		return nil, err
	}
	return s.repo.ListClubsByPerson(ctx, personID)
}

func (s *service) DisciplinesByClub(ctx context.Context, clubID int64) ([]persistence.Discipline, error) {
	if err := requirePositive("clubId", clubID); err != nil {
		return nil, err
	}
	return s.repo.ListDisciplinesByClub(ctx, clubID)
}

func (s *service) DivisionsByDiscipline(ctx context.Context, disciplineID int64) ([]persistence.Division, error) {
	if err := requirePositive("disciplineId", disciplineID); err != nil {
		return nil, err
	}
	return s.repo.ListDivisionsByDiscipline(ctx, disciplineID)
}

func (s *service) DivisionsByPerson(ctx context.Context, personID, disciplineID, clubID int64) ([]persistence.Division, error) {
	fieldErrors := FieldErrors{}
	if personID <= 0 {
		fieldErrors.add("personId", "personId is required")
	}
	if disciplineID <= 0 {
		fieldErrors.add("disciplineId", "disciplineId is required")
	}
	if clubID <= 0 {
		fieldErrors.add("clubId", "clubId is required")
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}
	return s.repo.ListDivisionsByPerson(ctx, personID, disciplineID, clubID)
}

// Roster lists the current members of the given divisions; an empty id list
// is a validation error rather than an implicit match-all.
func (s *service) Roster(ctx context.Context, divisionIDs []int64) ([]persistence.Member, error) {
	fieldErrors := FieldErrors{}
	if len(divisionIDs) == 0 {
		fieldErrors.add("divisionIds", "at least one division id is required")
	}
	for _, id := range divisionIDs {
		if id <= 0 {
			fieldErrors.add("divisionIds", fmt.Sprintf("invalid division id %d", id))
			break
		}
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}
	return s.repo.ListMembers(ctx, divisionIDs)
}

func requirePositive(field string, id int64) error {
	if id <= 0 {
		fieldErrors := FieldErrors{}
		fieldErrors.add(field, fmt.Sprintf("%s is required", field))
		return &ValidationError{Fields: fieldErrors}
	}
	return nil
}

func (f FieldErrors) add(field, message string) {
	if f == nil {
		return
	}
	f[field] = append(f[field], message)
}
