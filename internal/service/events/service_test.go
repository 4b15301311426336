package events

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	eventRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/event"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/events/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
)

var errStoreDown = errors.New("connection refused")

type fakeRepository struct {
	events       map[int64]*domain.Event
	nextID       int64
	err          error
	deleteBefore time.Time
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{events: make(map[int64]*domain.Event), nextID: 1}
}

func (r *fakeRepository) Create(_ context.Context, event *domain.Event) (*domain.Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	event.RefreshWeekdayKey()
	event.ID = r.nextID
	event.CreatedAt = time.Date(2014, 8, 1, 0, 0, 0, 0, time.UTC)
	r.nextID++
	stored := *event
	r.events[event.ID] = &stored
	return event, nil
}

func (r *fakeRepository) GetByID(_ context.Context, id int64) (*domain.Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	event, ok := r.events[id]
	if !ok {
		return nil, eventRepo.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *fakeRepository) Update(_ context.Context, event *domain.Event) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.events[event.ID]; !ok {
		return eventRepo.ErrEventNotFound
	}
	event.RefreshWeekdayKey()
	stored := *event
	r.events[event.ID] = &stored
	return nil
}

func (r *fakeRepository) Delete(_ context.Context, id int64) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.events[id]; !ok {
		return eventRepo.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeRepository) ListAll(_ context.Context) ([]*domain.Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	events := make([]*domain.Event, 0, len(r.events))
	for id := int64(1); id < r.nextID; id++ {
		if event, ok := r.events[id]; ok {
			events = append(events, event)
		}
	}
	return events, nil
}

func (r *fakeRepository) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.deleteBefore = before
	if r.err != nil {
		return 0, r.err
	}
	var deleted int64
	for id, event := range r.events {
		if event.EndsAt.Before(before) && !event.IsRecurringOpening() {
			delete(r.events, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

func (m *fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(domain.DateTimeFormat, value)
	require.NoError(t, err)
	return parsed
}

func newTestService() (*Service, *fakeRepository, *fakeTxManager) {
	repo := newFakeRepository()
	tx := &fakeTxManager{}
	return NewService(repo, tx, time.UTC, nopLogger{}), repo, tx
}

func TestCreate_Success(t *testing.T) {
	svc, repo, _ := newTestService()

	resp, err := svc.Create(context.Background(), &models.CreateEventRequest{
		Kind:            "opening",
		StartsAt:        at(t, "2014-08-04 09:30"),
		EndsAt:          at(t, "2014-08-04 12:30"),
		WeeklyRecurring: true,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "opening", resp.Kind)
	assert.True(t, resp.WeeklyRecurring)
	assert.Equal(t, 0, resp.DaysToWeek)
	assert.Nil(t, resp.UpdatedAt)
	assert.Len(t, repo.events, 1)
}

func TestCreate_EndsAtMidnight(t *testing.T) {
	svc, _, _ := newTestService()

	resp, err := svc.Create(context.Background(), &models.CreateEventRequest{
		Kind:     "appointment",
		StartsAt: at(t, "2014-08-10 23:00"),
		EndsAt:   at(t, "2014-08-11 00:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, 6, resp.DaysToWeek)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     *models.CreateEventRequest
		wantErr error
	}{
		{
			name:    "nil request",
			req:     nil,
			wantErr: ErrInvalidInput,
		},
		{
			name: "unknown kind",
			req: &models.CreateEventRequest{
				Kind:     "holiday",
				StartsAt: at(t, "2014-08-04 09:30"),
				EndsAt:   at(t, "2014-08-04 12:30"),
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "missing kind",
			req: &models.CreateEventRequest{
				StartsAt: at(t, "2014-08-04 09:30"),
				EndsAt:   at(t, "2014-08-04 12:30"),
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "missing startsAt",
			req: &models.CreateEventRequest{
				Kind:   "opening",
				EndsAt: at(t, "2014-08-04 12:30"),
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "ends before start",
			req: &models.CreateEventRequest{
				Kind:     "opening",
				StartsAt: at(t, "2014-08-04 12:30"),
				EndsAt:   at(t, "2014-08-04 09:30"),
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "off grid",
			req: &models.CreateEventRequest{
				Kind:     "appointment",
				StartsAt: at(t, "2014-08-04 09:15"),
				EndsAt:   at(t, "2014-08-04 10:00"),
			},
			wantErr: ErrInvalidTimeRange,
		},
		{
			name: "spans two days",
			req: &models.CreateEventRequest{
				Kind:     "opening",
				StartsAt: at(t, "2014-08-04 22:00"),
				EndsAt:   at(t, "2014-08-05 02:00"),
			},
			wantErr: ErrInvalidTimeRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService()

			resp, err := svc.Create(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, resp)
			assert.Empty(t, repo.events)
		})
	}
}

func TestCreate_GridCheckedInCanonicalLocation(t *testing.T) {
	kathmandu, err := time.LoadLocation("Asia/Kathmandu")
	require.NoError(t, err)

	svc := NewService(newFakeRepository(), &fakeTxManager{}, kathmandu, nopLogger{})

	// 09:00 UTC = 14:45 в Катманду, не на сетке
	_, err = svc.Create(context.Background(), &models.CreateEventRequest{
		Kind:     "opening",
		StartsAt: at(t, "2014-08-04 09:00"),
		EndsAt:   at(t, "2014-08-04 10:00"),
	})

	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestCreate_RepositoryError(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.err = errStoreDown

	_, err := svc.Create(context.Background(), &models.CreateEventRequest{
		Kind:     "opening",
		StartsAt: at(t, "2014-08-04 09:30"),
		EndsAt:   at(t, "2014-08-04 12:30"),
	})

	assert.ErrorIs(t, err, ErrInternal)
	assert.Contains(t, err.Error(), errStoreDown.Error())
}

func TestGetByID(t *testing.T) {
	svc, repo, _ := newTestService()
	_, err := repo.Create(context.Background(), &domain.Event{
		Kind:     domain.KindAppointment,
		StartsAt: at(t, "2014-08-11 10:30"),
		EndsAt:   at(t, "2014-08-11 11:30"),
	})
	require.NoError(t, err)

	resp, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "appointment", resp.Kind)

	_, err = svc.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestUpdate_PartialInTransaction(t *testing.T) {
	svc, repo, tx := newTestService()
	_, err := repo.Create(context.Background(), &domain.Event{
		Kind:     domain.KindOpening,
		StartsAt: at(t, "2014-08-04 09:30"),
		EndsAt:   at(t, "2014-08-04 12:30"),
	})
	require.NoError(t, err)

	resp, err := svc.Update(context.Background(), 1, &models.UpdateEventRequest{
		StartsAt:        ptr.Ptr(at(t, "2014-08-05 09:30")),
		EndsAt:          ptr.Ptr(at(t, "2014-08-05 11:00")),
		WeeklyRecurring: ptr.Ptr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, "opening", resp.Kind)
	assert.Equal(t, 1, resp.DaysToWeek)
	assert.True(t, repo.events[1].WeeklyRecurring)
	assert.Equal(t, 1, repo.events[1].WeekdayKey)
}

func TestUpdate_Errors(t *testing.T) {
	svc, repo, _ := newTestService()
	_, err := repo.Create(context.Background(), &domain.Event{
		Kind:     domain.KindOpening,
		StartsAt: at(t, "2014-08-04 09:30"),
		EndsAt:   at(t, "2014-08-04 12:30"),
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), 1, &models.UpdateEventRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(context.Background(), 1, &models.UpdateEventRequest{Kind: ptr.Ptr("holiday")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Новый конец раньше сохранённого начала
	_, err = svc.Update(context.Background(), 1, &models.UpdateEventRequest{
		EndsAt: ptr.Ptr(at(t, "2014-08-04 08:00")),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
	assert.Equal(t, at(t, "2014-08-04 12:30"), repo.events[1].EndsAt)

	_, err = svc.Update(context.Background(), 7, &models.UpdateEventRequest{WeeklyRecurring: ptr.Ptr(true)})
	assert.ErrorIs(t, err, ErrEventNotFound)

	repo.err = errStoreDown
	_, err = svc.Update(context.Background(), 1, &models.UpdateEventRequest{WeeklyRecurring: ptr.Ptr(true)})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestDelete(t *testing.T) {
	svc, repo, _ := newTestService()
	_, err := repo.Create(context.Background(), &domain.Event{
		Kind:     domain.KindAppointment,
		StartsAt: at(t, "2014-08-11 10:30"),
		EndsAt:   at(t, "2014-08-11 11:30"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Empty(t, repo.events)

	assert.ErrorIs(t, svc.Delete(context.Background(), 1), ErrEventNotFound)
}

func TestExportCalendar(t *testing.T) {
	svc, repo, _ := newTestService()
	_, err := repo.Create(context.Background(), &domain.Event{
		Kind:            domain.KindOpening,
		StartsAt:        at(t, "2014-08-04 09:30"),
		EndsAt:          at(t, "2014-08-04 12:30"),
		WeeklyRecurring: true,
	})
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), &domain.Event{
		Kind:     domain.KindAppointment,
		StartsAt: at(t, "2014-08-11 10:30"),
		EndsAt:   at(t, "2014-08-11 11:30"),
	})
	require.NoError(t, err)

	ics, err := svc.ExportCalendar(context.Background(), at(t, "2014-08-01 00:00"))
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(ics, "BEGIN:VEVENT"))
	assert.Equal(t, 1, strings.Count(ics, "RRULE:FREQ=WEEKLY;BYDAY=MO"))
}

func TestExportCalendar_RepositoryError(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.err = errStoreDown

	_, err := svc.ExportCalendar(context.Background(), time.Now())

	assert.ErrorIs(t, err, ErrInternal)
}

func TestPurgeExpired(t *testing.T) {
	svc, repo, _ := newTestService()
	for _, event := range []*domain.Event{
		{Kind: domain.KindOpening, StartsAt: at(t, "2014-08-04 09:30"), EndsAt: at(t, "2014-08-04 12:30"), WeeklyRecurring: true},
		{Kind: domain.KindOpening, StartsAt: at(t, "2014-08-05 09:30"), EndsAt: at(t, "2014-08-05 12:30")},
		{Kind: domain.KindAppointment, StartsAt: at(t, "2014-08-05 10:30"), EndsAt: at(t, "2014-08-05 11:30")},
		{Kind: domain.KindAppointment, StartsAt: at(t, "2014-09-01 10:30"), EndsAt: at(t, "2014-09-01 11:30")},
	} {
		_, err := repo.Create(context.Background(), event)
		require.NoError(t, err)
	}

	deleted, err := svc.PurgeExpired(context.Background(), at(t, "2014-09-01 15:45"), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(2), deleted)
	assert.Equal(t, at(t, "2014-08-25 00:00"), repo.deleteBefore)
	assert.Contains(t, repo.events, int64(1))
	assert.Contains(t, repo.events, int64(4))
}

func TestPurgeExpired_InvalidRetention(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.PurgeExpired(context.Background(), time.Now(), 0)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreate_WeekdayKeyInCanonicalLocation(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	repo := newFakeRepository()
	svc := NewService(repo, &fakeTxManager{}, moscow, nopLogger{})

	// Понедельник 22:00 UTC = вторник 02:00 по Москве (UTC+4 в 2014 году)
	resp, err := svc.Create(context.Background(), &models.CreateEventRequest{
		Kind:     "opening",
		StartsAt: at(t, "2014-08-04 22:00"),
		EndsAt:   at(t, "2014-08-04 23:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.DaysToWeek)
	assert.Equal(t, moscow, repo.events[1].StartsAt.Location())
}
