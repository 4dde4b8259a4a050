package repo

import (
	"context"

	"github.com/clubtrack-dev/clubtrack/platform/go/persistence"
)

// Repository defines the persistence operations required by the events service.
type Repository interface {
	CreateEventWithSnapshot(ctx context.Context, params persistence.CreateEventParams) (int64, error)
	MarkAttendance(ctx context.Context, eventID, personID int64, status string) error
	SetEventStatus(ctx context.Context, eventID int64, status string) error
}

type postgresRepository struct {
	store *persistence.EventStore
}

// NewPostgresRepository constructs a repository backed by the shared persistence layer.
func NewPostgresRepository(store *persistence.EventStore) Repository {
	if store == nil {
		panic("event store is required")
	}
	return &postgresRepository{store: store}
}

func (r *postgresRepository) CreateEventWithSnapshot(ctx context.Context, params persistence.CreateEventParams) (int64, error) {
	return r.store.CreateEventWithSnapshot(ctx, params)
}

func (r *postgresRepository) MarkAttendance(ctx context.Context, eventID, personID int64, status string) error {
	return r.store.MarkAttendance(ctx, eventID, personID, status)
}

func (r *postgresRepository) SetEventStatus(ctx context.Context, eventID int64, status string) error {
	return r.store.SetEventStatus(ctx, eventID, status)
}
