package repo

import (
	"context"

	"github.com/clubtrack-dev/clubtrack/platform/go/persistence"
)

// Repository defines the reference-data and roster reads the clubs service needs.
type Repository interface {
	ListClubsByPerson(ctx context.Context, personID int64) ([]persistence.ClubMembership, error)
	ListDisciplinesByClub(ctx context.Context, clubID int64) ([]persistence.Discipline, error)
	ListDivisionsByDiscipline(ctx context.Context, disciplineID int64) ([]persistence.Division, error)
	ListDivisionsByPerson(ctx context.Context, personID, disciplineID, clubID int64) ([]persistence.Division, error)
	ListMembers(ctx context.Context, divisionIDs []int64) ([]persistence.Member, error)
}

type postgresRepository struct {
	catalog *persistence.CatalogStore
	roster  *persistence.RosterStore
}

// NewPostgresRepository constructs a repository backed by the shared persistence layer.
func NewPostgresRepository(catalog *persistence.CatalogStore, roster *persistence.RosterStore) Repository {
	if catalog == nil {
		panic("catalog store is required")
	}
	if roster == nil {
		panic("roster store is required")
	}
	return &postgresRepository{catalog: catalog, roster: roster}
}

func (r *postgresRepository) ListClubsByPerson(ctx context.Context, personID int64) ([]persistence.ClubMembership, error) {
	return r.catalog.ListClubsByPerson(ctx, personID)
}

func (r *postgresRepository) ListDisciplinesByClub(ctx context.Context, clubID int64) ([]persistence.Discipline, error) {
	return r.catalog.ListDisciplinesByClub(ctx, clubID)
}

func (r *postgresRepository) ListDivisionsByDiscipline(ctx context.Context, disciplineID int64) ([]persistence.Division, error) {
	return r.catalog.ListDivisionsByDiscipline(ctx, disciplineID)
}

func (r *postgresRepository) ListDivisionsByPerson(ctx context.Context, personID, disciplineID, clubID int64) ([]persistence.Division, error) {
	return r.catalog.ListDivisionsByPerson(ctx, personID, disciplineID, clubID)
}

func (r *postgresRepository) ListMembers(ctx context.Context, divisionIDs []int64) ([]persistence.Member, error) {
	return r.roster.ListMembers(ctx, divisionIDs)
}
