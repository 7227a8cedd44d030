package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const taskIDProperty = "endify_task_id"

// CalendarConfig holds the credentials used to reach Google Calendar
type CalendarConfig struct {
	ClientID     string
	ClientSecret string
	TokenFile    string
	CalendarID   string
}

// CalendarMirror copies scheduled reminders into a Google Calendar as events
// with a popup alert at the due time
type CalendarMirror struct {
	srv        *calendar.Service
	calendarID string
	length     time.Duration
	logger     *slog.Logger

	mu       sync.Mutex
	events   map[int64]string
	disabled bool
}

var _ Mirror = (*CalendarMirror)(nil)

// NewCalendarMirror wraps an existing Calendar service
func NewCalendarMirror(srv *calendar.Service, calendarID string, logger *slog.Logger) *CalendarMirror {
	if calendarID == "" {
		calendarID = "primary"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CalendarMirror{
		srv:        srv,
		calendarID: calendarID,
		length:     15 * time.Minute,
		logger:     logger,
		events:     make(map[int64]string),
	}
}

// ConnectCalendar builds a mirror from OAuth client credentials and a stored token
func ConnectCalendar(ctx context.Context, cfg CalendarConfig, logger *slog.Logger) (*CalendarMirror, error) {
	token, err := tokenFromFile(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read calendar token: %w", err)
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{calendar.CalendarEventsScope},
		Endpoint:     google.Endpoint,
	}

	// Token source refreshes the access token as needed
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create calendar client: %w", err)
	}

	return NewCalendarMirror(srv, cfg.CalendarID, logger), nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// Scheduled creates the event for a reminder or moves the existing one
func (c *CalendarMirror) Scheduled(ctx context.Context, r Reminder) error {
	if c.Disabled() {
		return nil
	}
	event := c.eventFor(r)

	eventID, err := c.lookup(ctx, r.TaskID)
	if err != nil {
		return c.fail(fmt.Errorf("error searching for event: %w", err))
	}

	if eventID != "" {
		_, err := c.srv.Events.Patch(c.calendarID, eventID, event).Context(ctx).Do()
		if err == nil {
			return nil
		}
		if !isGone(err) {
			return c.fail(fmt.Errorf("patch event %s: %w", eventID, err))
		}
		// Removed on the calendar side, create it again
		c.forget(r.TaskID)
	}

	created, err := c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return c.fail(fmt.Errorf("insert event: %w", err))
	}

	c.mu.Lock()
	c.events[r.TaskID] = created.Id
	c.mu.Unlock()

	c.logger.Debug("calendar event created", "task_id", r.TaskID, "event_id", created.Id)
	return nil
}

// Cancelled deletes the event mirrored for a task, if there is one
func (c *CalendarMirror) Cancelled(ctx context.Context, taskID int64) error {
	if c.Disabled() {
		return nil
	}

	eventID, err := c.lookup(ctx, taskID)
	if err != nil {
		return c.fail(fmt.Errorf("error searching for event: %w", err))
	}
	if eventID == "" {
		return nil
	}

	err = c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
	if err != nil && !isGone(err) {
		return c.fail(fmt.Errorf("delete event %s: %w", eventID, err))
	}

	c.forget(taskID)
	return nil
}

// Disabled reports whether mirroring stopped after the credentials were rejected
func (c *CalendarMirror) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

func (c *CalendarMirror) forget(taskID int64) {
	c.mu.Lock()
	delete(c.events, taskID)
	c.mu.Unlock()
}

// fail turns mirroring off when err means the token no longer works
func (c *CalendarMirror) fail(err error) error {
	if isTokenExpiredError(err) {
		c.mu.Lock()
		c.disabled = true
		c.mu.Unlock()
		c.logger.Error("calendar token rejected, mirroring disabled until restart", "error", err)
	}
	return err
}

// lookup tries the local index first, then the private extended property
func (c *CalendarMirror) lookup(ctx context.Context, taskID int64) (string, error) {
	c.mu.Lock()
	eventID := c.events[taskID]
	c.mu.Unlock()
	if eventID != "" {
		return eventID, nil
	}

	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%d", taskIDProperty, taskID)).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	if len(events.Items) == 0 {
		return "", nil
	}

	eventID = events.Items[0].Id
	c.mu.Lock()
	c.events[taskID] = eventID
	c.mu.Unlock()
	return eventID, nil
}

func (c *CalendarMirror) eventFor(r Reminder) *calendar.Event {
	return &calendar.Event{
		Summary:     r.Title,
		Description: r.Body,
		Start:       &calendar.EventDateTime{DateTime: r.At.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: r.At.Add(c.length).Format(time.RFC3339)},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{taskIDProperty: strconv.FormatInt(r.TaskID, 10)},
		},
		Reminders: &calendar.EventReminders{
			UseDefault:      false,
			Overrides:       []*calendar.EventReminder{{Method: "popup", Minutes: 0, ForceSendFields: []string{"Minutes"}}},
			ForceSendFields: []string{"UseDefault"},
		},
	}
}

// ==================== ERROR CLASSIFICATION ====================

// isTokenExpiredError checks if an error is related to token expiration
func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
		return true
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return true
	}

	errMsg := err.Error()
	return strings.Contains(errMsg, "token expired") ||
		strings.Contains(errMsg, "invalid_grant")
}

func isGone(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) &&
		(apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone)
}
