package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// fakeCalendar records the calls made against the events collection
type fakeCalendar struct {
	mu       sync.Mutex
	inserted []calendar.Event
	patched  []string
	deleted  []string
	existing []*calendar.Event
	status   int

	// per-method failures, applied after status
	patchStatus  int
	deleteStatus int
}

func writeAPIError(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{"code": status, "message": http.StatusText(status)},
	})
}

func (f *fakeCalendar) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if f.status != 0 {
		writeAPIError(w, f.status)
		return
	}

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/events"):
		json.NewEncoder(w).Encode(calendar.Events{Items: f.existing})
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/events"):
		var event calendar.Event
		json.NewDecoder(r.Body).Decode(&event)
		f.inserted = append(f.inserted, event)
		event.Id = "evt-1"
		json.NewEncoder(w).Encode(event)
	case r.Method == http.MethodPatch && f.patchStatus != 0:
		writeAPIError(w, f.patchStatus)
	case r.Method == http.MethodDelete && f.deleteStatus != 0:
		writeAPIError(w, f.deleteStatus)
	case r.Method == http.MethodPatch:
		f.patched = append(f.patched, r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:])
		json.NewEncoder(w).Encode(calendar.Event{Id: "evt-1"})
	case r.Method == http.MethodDelete:
		f.deleted = append(f.deleted, r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:])
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func setupCalendarMirror(t *testing.T, fake *fakeCalendar) *CalendarMirror {
	t.Helper()

	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	srv, err := calendar.NewService(context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)

	return NewCalendarMirror(srv, "primary", quietLogger())
}

func TestCalendarMirror_InsertThenDelete(t *testing.T) {
	fake := &fakeCalendar{}
	mirror := setupCalendarMirror(t, fake)
	ctx := context.Background()

	at := time.Date(2025, 10, 17, 14, 30, 0, 0, time.UTC)
	r := Reminder{TaskID: 12, Title: "Task due!", Body: "Essay", At: at}

	require.NoError(t, mirror.Scheduled(ctx, r))

	require.Len(t, fake.inserted, 1)
	event := fake.inserted[0]
	assert.Equal(t, "Task due!", event.Summary)
	assert.Equal(t, at.Format(time.RFC3339), event.Start.DateTime)
	assert.Equal(t, "12", event.ExtendedProperties.Private[taskIDProperty])

	// Second schedule for the same task patches the known event
	require.NoError(t, mirror.Scheduled(ctx, r))
	assert.Equal(t, []string{"evt-1"}, fake.patched)
	assert.Len(t, fake.inserted, 1)

	require.NoError(t, mirror.Cancelled(ctx, 12))
	assert.Equal(t, []string{"evt-1"}, fake.deleted)
}

func TestCalendarMirror_FindsExistingEvent(t *testing.T) {
	fake := &fakeCalendar{existing: []*calendar.Event{{Id: "evt-9"}}}
	mirror := setupCalendarMirror(t, fake)

	require.NoError(t, mirror.Cancelled(context.Background(), 3))

	assert.Equal(t, []string{"evt-9"}, fake.deleted)
}

func TestCalendarMirror_CancelWithoutEvent(t *testing.T) {
	fake := &fakeCalendar{}
	mirror := setupCalendarMirror(t, fake)

	require.NoError(t, mirror.Cancelled(context.Background(), 4))

	assert.Empty(t, fake.deleted)
}

func TestCalendarMirror_DisablesOnUnauthorized(t *testing.T) {
	fake := &fakeCalendar{status: http.StatusUnauthorized}
	mirror := setupCalendarMirror(t, fake)
	ctx := context.Background()

	r := Reminder{TaskID: 5, Title: "Task due!", At: time.Now().Add(time.Hour)}
	assert.Error(t, mirror.Scheduled(ctx, r))
	assert.True(t, mirror.Disabled())

	// Later calls are skipped without reaching the API
	fake.mu.Lock()
	fake.status = 0
	fake.mu.Unlock()
	require.NoError(t, mirror.Scheduled(ctx, r))
	assert.Empty(t, fake.inserted)
}

func TestCalendarMirror_ForbiddenKeepsMirroring(t *testing.T) {
	fake := &fakeCalendar{status: http.StatusForbidden}
	mirror := setupCalendarMirror(t, fake)

	assert.Error(t, mirror.Cancelled(context.Background(), 5))
	assert.False(t, mirror.Disabled())
}

func TestIsTokenExpiredError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unauthorized", &googleapi.Error{Code: http.StatusUnauthorized}, true},
		{"forbidden", &googleapi.Error{Code: http.StatusForbidden}, false},
		{"invalid grant", errors.New(`oauth2: "invalid_grant"`), true},
		{"network", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTokenExpiredError(tt.err))
		})
	}
}

func TestCalendarMirror_RecreatesGoneEvent(t *testing.T) {
	fake := &fakeCalendar{
		existing:     []*calendar.Event{{Id: "evt-gone"}},
		patchStatus:  http.StatusGone,
		deleteStatus: http.StatusNotFound,
	}
	mirror := setupCalendarMirror(t, fake)
	ctx := context.Background()

	r := Reminder{TaskID: 8, Title: "Task due!", At: time.Date(2025, 10, 20, 10, 0, 0, 0, time.UTC)}

	// The stale event cannot be patched, so a new one is inserted
	require.NoError(t, mirror.Scheduled(ctx, r))
	assert.Len(t, fake.inserted, 1)
	assert.Empty(t, fake.patched)

	// Deleting an event the calendar no longer has is not an error
	require.NoError(t, mirror.Cancelled(ctx, 8))
	assert.Empty(t, fake.deleted)
	assert.False(t, mirror.Disabled())

	// The cache was cleared, so the next cancel looks the event up again
	fake.mu.Lock()
	fake.existing = nil
	fake.mu.Unlock()
	require.NoError(t, mirror.Cancelled(ctx, 8))
}
