package repo

import (
	"context"

	"github.com/clubtrack-dev/clubtrack/platform/go/persistence"
)

// Repository defines the person lookup the auth service needs.
type Repository interface {
	FindByIdentifier(ctx context.Context, identifier string) (persistence.Person, error)
}

type postgresRepository struct {
	store *persistence.PersonStore
}

// NewPostgresRepository constructs a repository backed by the shared persistence layer.
func NewPostgresRepository(store *persistence.PersonStore) Repository {
	if store == nil {
		panic("person store is required")
	}
	return &postgresRepository{store: store}
}

func (r *postgresRepository) FindByIdentifier(ctx context.Context, identifier string) (persistence.Person, error) {
	return r.store.FindByIdentifier(ctx, identifier)
}
