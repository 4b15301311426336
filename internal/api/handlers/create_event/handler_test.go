package create_event

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/events"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/events/models"
)

type fakeService struct {
	got *models.CreateEventRequest
	err error
}

func (f *fakeService) Create(_ context.Context, req *models.CreateEventRequest) (*models.EventResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.EventResponse{
		ID:              1,
		Kind:            req.Kind,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		WeeklyRecurring: req.WeeklyRecurring,
	}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const validBody = `{"kind":"opening","startsAt":"2014-08-04T09:30:00Z","endsAt":"2014-08-04T12:30:00Z","weeklyRecurring":true}`

func TestHandle_Success(t *testing.T) {
	service := &fakeService{}
	handler := NewHandler(service, nopLogger{})

	rec := httptest.NewRecorder()
	handler.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(validBody)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, service.got)
	assert.Equal(t, "opening", service.got.Kind)
	assert.True(t, service.got.WeeklyRecurring)
	assert.Equal(t, time.Date(2014, 8, 4, 9, 30, 0, 0, time.UTC), service.got.StartsAt.UTC())
	assert.Contains(t, rec.Body.String(), `"id":1`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest},
		{name: "malformed json", body: "{", wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"kind":"opening","room":1}`, wantStatus: http.StatusBadRequest},
		{
			name:       "invalid input",
			body:       validBody,
			err:        fmt.Errorf("%w: unknown kind", events.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid time range",
			body:       validBody,
			err:        fmt.Errorf("%w: off grid", events.ErrInvalidTimeRange),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "internal",
			body:       validBody,
			err:        fmt.Errorf("%w: %v", events.ErrInternal, errors.New("timeout")),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(&fakeService{err: tt.err}, nopLogger{})

			rec := httptest.NewRecorder()
			handler.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
