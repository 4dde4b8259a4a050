package repo

import (
	"context"

	"github.com/clubtrack-dev/clubtrack/platform/go/persistence"
)

// Repository defines the read queries the reports service aggregates over.
type Repository interface {
	RangeAttendance(ctx context.Context, params persistence.RangeAttendanceParams) ([]persistence.RangeAttendanceRow, error)
	ListEvents(ctx context.Context, params persistence.EventDetailParams) ([]persistence.EventSummary, error)
	ListEventDivisions(ctx context.Context, eventIDs []int64) ([]persistence.EventDivisionRow, error)
	ListEventPeople(ctx context.Context, eventIDs []int64) ([]persistence.EventPersonRow, error)
}

type postgresRepository struct {
	store *persistence.ReportStore
}

// NewPostgresRepository constructs a repository backed by the shared persistence layer.
func NewPostgresRepository(store *persistence.ReportStore) Repository {
	if store == nil {
		panic("report store is required")
	}
	return &postgresRepository{store: store}
}

func (r *postgresRepository) RangeAttendance(ctx context.Context, params persistence.RangeAttendanceParams) ([]persistence.RangeAttendanceRow, error) {
	return r.store.RangeAttendance(ctx, params)
}

func (r *postgresRepository) ListEvents(ctx context.Context, params persistence.EventDetailParams) ([]persistence.EventSummary, error) {
	return r.store.ListEvents(ctx, params)
}

func (r *postgresRepository) ListEventDivisions(ctx context.Context, eventIDs []int64) ([]persistence.EventDivisionRow, error) {
	return r.store.ListEventDivisions(ctx, eventIDs)
}

func (r *postgresRepository) ListEventPeople(ctx context.Context, eventIDs []int64) ([]persistence.EventPersonRow, error) {
	return r.store.ListEventPeople(ctx, eventIDs)
}
