package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clubtrack-dev/clubtrack/platform/go/persistence"
)

type mockRepository struct {
	rangeFn         func(ctx context.Context, params persistence.RangeAttendanceParams) ([]persistence.RangeAttendanceRow, error)
	listEventsFn    func(ctx context.Context, params persistence.EventDetailParams) ([]persistence.EventSummary, error)
	listDivisionsFn func(ctx context.Context, eventIDs []int64) ([]persistence.EventDivisionRow, error)
	listPeopleFn    func(ctx context.Context, eventIDs []int64) ([]persistence.EventPersonRow, error)
}

func (m *mockRepository) RangeAttendance(ctx context.Context, params persistence.RangeAttendanceParams) ([]persistence.RangeAttendanceRow, error) {
	if m.rangeFn == nil {
		panic("rangeFn not configured")
	}
	return m.rangeFn(ctx, params)
}

func (m *mockRepository) ListEvents(ctx context.Context, params persistence.EventDetailParams) ([]persistence.EventSummary, error) {
	if m.listEventsFn == nil {
		panic("listEventsFn not configured")
	}
	return m.listEventsFn(ctx, params)
}

func (m *mockRepository) ListEventDivisions(ctx context.Context, eventIDs []int64) ([]persistence.EventDivisionRow, error) {
	if m.listDivisionsFn == nil {
		panic("listDivisionsFn not configured")
	}
	return m.listDivisionsFn(ctx, eventIDs)
}

func (m *mockRepository) ListEventPeople(ctx context.Context, eventIDs []int64) ([]persistence.EventPersonRow, error) {
	if m.listPeopleFn == nil {
		panic("listPeopleFn not configured")
	}
	return m.listPeopleFn(ctx, eventIDs)
}

func strPtr(s string) *string { return &s }

func TestRangeReportTranslatesLabels(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{}
	repo.rangeFn = func(ctx context.Context, params persistence.RangeAttendanceParams) ([]persistence.RangeAttendanceRow, error) {
		require.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), params.From)
		require.Equal(t, time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC), params.To)
		require.Equal(t, []int64{10}, params.DivisionIDs)

		starts := time.Date(2024, time.March, 1, 19, 0, 0, 0, time.UTC)
		return []persistence.RangeAttendanceRow{
			{
				EventID:        42,
				Date:           starts,
				DivisionID:     10,
				PersonID:       1,
				Name:           "Ana Diaz",
				Nickname:       strPtr("Anita"),
				AttendanceCode: "P",
				EventStatus:    "A",
				Role:           "Jugador",
			},
			{
				EventID:        42,
				Date:           starts,
				DivisionID:     10,
				PersonID:       2,
				Name:           "Bruno Gil",
				AttendanceCode: "I",
				EventStatus:    "A",
				Role:           "Jugador",
			},
		}, nil
	}

	svc := New(repo)

	rows, err := svc.RangeReport(context.Background(), RangeInput{
		DateFrom:    "2024-03-01",
		DateTo:      "2024-03-31",
		DivisionIDs: []int64{10},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, "2024-03-01", rows[0].Date)
	require.Equal(t, "Presente", rows[0].AttendanceLabel)
	require.Equal(t, "ACTIVO", rows[0].EventStatusLabel)
	require.Equal(t, "Desconocido", rows[1].AttendanceLabel)
}

func TestRangeReportEmptyResultIsEmptySlice(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{}
	repo.rangeFn = func(ctx context.Context, params persistence.RangeAttendanceParams) ([]persistence.RangeAttendanceRow, error) {
		return []persistence.RangeAttendanceRow{}, nil
	}

	svc := New(repo)

	rows, err := svc.RangeReport(context.Background(), RangeInput{
		DateFrom: "2024-03-01",
		DateTo:   "2024-03-01",
	})
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}

func TestRangeReportRequiresBothDates(t *testing.T) {
	t.Parallel()

	svc := New(&mockRepository{})

	_, err := svc.RangeReport(context.Background(), RangeInput{DateFrom: "2024-03-01"})
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Fields, "dateTo")
}

func TestRangeReportRejectsInvertedRange(t *testing.T) {
	t.Parallel()

	svc := New(&mockRepository{})

	_, err := svc.RangeReport(context.Background(), RangeInput{
		DateFrom: "2024-03-31",
		DateTo:   "2024-03-01",
	})
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Fields, "dateTo")
}

func TestEventDetailsAssemblesCollections(t *testing.T) {
	t.Parallel()

	starts := time.Date(2024, time.March, 1, 19, 0, 0, 0, time.UTC)

	repo := &mockRepository{}
	repo.listEventsFn = func(ctx context.Context, params persistence.EventDetailParams) ([]persistence.EventSummary, error) {
		require.Equal(t, int64(5), params.ClubID)
		require.Nil(t, params.From)
		require.Nil(t, params.To)

		return []persistence.EventSummary{
			{EventID: 42, StartsAt: &starts, Type: "Entrenamiento", Status: "A"},
			{EventID: 43, Type: "Partido", Status: "A"},
		}, nil
	}
	repo.listDivisionsFn = func(ctx context.Context, eventIDs []int64) ([]persistence.EventDivisionRow, error) {
		require.Equal(t, []int64{42, 43}, eventIDs)
		return []persistence.EventDivisionRow{
			{EventID: 42, DivisionID: 10, Description: "Primera"},
			{EventID: 42, DivisionID: 11, Description: "Reserva"},
		}, nil
	}
	repo.listPeopleFn = func(ctx context.Context, eventIDs []int64) ([]persistence.EventPersonRow, error) {
		return []persistence.EventPersonRow{
			{EventID: 42, PersonID: 1, Name: "Ana Diaz", Status: 1, DivisionID: 10, Division: "Primera", AttendanceCode: "I"},
		}, nil
	}

	svc := New(repo)

	details, err := svc.EventDetails(context.Background(), EventDetailsInput{ClubID: 5})
	require.NoError(t, err)
	require.Len(t, details, 2)

	first := details[0]
	require.Equal(t, int64(42), first.EventID)
	require.NotNil(t, first.Date)
	require.Equal(t, "2024-03-01", *first.Date)
	require.Len(t, first.Divisions, 2)
	require.Len(t, first.People, 1)
	require.Equal(t, "Jugador", first.People[0].Role)

	second := details[1]
	require.Nil(t, second.Date)
	require.NotNil(t, second.Divisions)
	require.Empty(t, second.Divisions)
	require.NotNil(t, second.People)
	require.Empty(t, second.People)
}

func TestEventDetailsSkipsLookupsWhenNoEvents(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{}
	repo.listEventsFn = func(ctx context.Context, params persistence.EventDetailParams) ([]persistence.EventSummary, error) {
		return []persistence.EventSummary{}, nil
	}

	svc := New(repo)

	details, err := svc.EventDetails(context.Background(), EventDetailsInput{ClubID: 5})
	require.NoError(t, err)
	require.NotNil(t, details)
	require.Empty(t, details)
}

func TestEventDetailsRequiresClubID(t *testing.T) {
	t.Parallel()

	svc := New(&mockRepository{})

	_, err := svc.EventDetails(context.Background(), EventDetailsInput{})
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Fields, "clubId")
}

func TestEventDetailsRejectsHalfOpenRange(t *testing.T) {
	t.Parallel()

	svc := New(&mockRepository{})

	_, err := svc.EventDetails(context.Background(), EventDetailsInput{
		ClubID:   5,
		DateFrom: "2024-03-01",
	})
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Fields, "dateTo")
	require.NotContains(t, validationErr.Fields, "dateFrom")
}

func TestEventDetailsAttributesRangeErrorsPerField(t *testing.T) {
	t.Parallel()

	svc := New(&mockRepository{})

	_, err := svc.EventDetails(context.Background(), EventDetailsInput{
		ClubID:   5,
		DateFrom: "2024-03-01",
		DateTo:   "not-a-date",
	})
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Fields, "dateTo")
	require.NotContains(t, validationErr.Fields, "dateFrom")

	_, err = svc.EventDetails(context.Background(), EventDetailsInput{
		ClubID:   5,
		DateFrom: "2024-03-31",
		DateTo:   "2024-03-01",
	})
	require.Error(t, err)

	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Fields, "dateTo")
	require.NotContains(t, validationErr.Fields, "dateFrom")
}
