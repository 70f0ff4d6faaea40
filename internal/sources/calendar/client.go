// Package calendar reads scheduled and recent interview events from the
// recruiter's primary calendar. Like email, it is a scoped source: it
// searches per candidate name and cannot discover candidates on its own.
package calendar

import (
	"context"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/errors"
	"github.com/candidatelabs/talentsync/pkg/logging"
	"github.com/candidatelabs/talentsync/pkg/sources"
)

const maxEventsPerCandidate = 20

// Client reads interview events over the Calendar API.
// Implements sources.Client.
type Client struct {
	svc        *calendar.Service
	calendarID string
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithCalendarID targets a non-primary calendar.
func WithCalendarID(id string) Option {
	return func(c *Client) {
		if id != "" {
			c.calendarID = id
		}
	}
}

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a calendar client from an authenticated HTTP client.
func New(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, errors.WrapSource("calendar", err)
	}
	c := &Client{
		svc:        svc,
		calendarID: "primary",
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Source returns candidates.SourceCalendar.
func (c *Client) Source() candidates.Source {
	return candidates.SourceCalendar
}

// FetchRecords searches the calendar once per scoped candidate, inside the
// window's lookback and lookahead. Cancelled and all-day events are skipped;
// an interview is a timed meeting.
func (c *Client) FetchRecords(ctx context.Context, window sources.Window, scope *sources.Scope) ([]sources.Record, error) {
	if scope == nil || len(scope.Candidates) == 0 {
		return nil, nil
	}

	log := logging.FromContext(ctx)
	now := c.now().UTC()
	var records []sources.Record

	for _, id := range scope.Candidates {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapSource("calendar", err)
		}
		if id.Name == "" {
			continue
		}

		list, err := c.svc.Events.List(c.calendarID).
			Q(id.Name).
			TimeMin(window.Since(now).Format(time.RFC3339)).
			TimeMax(window.Until(now).Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(maxEventsPerCandidate).
			Context(ctx).
			Do()
		if err != nil {
			return nil, mapError(err)
		}

		payload := &sources.CalendarPayload{}
		for _, ev := range list.Items {
			event, ok := convertEvent(ev, now)
			if !ok {
				continue
			}
			payload.Events = append(payload.Events, event)
		}
		if len(payload.Events) == 0 {
			continue
		}

		records = append(records, sources.Record{
			Source:     candidates.SourceCalendar,
			Identity:   id,
			ObservedAt: now,
			Calendar:   payload,
		})
	}

	log.Debug().
		Int("candidates", len(scope.Candidates)).
		Int("with_events", len(records)).
		Msg("Calendar scan complete")
	return records, nil
}

func convertEvent(ev *calendar.Event, now time.Time) (sources.CalendarEvent, bool) {
	if ev == nil || ev.Status == "cancelled" {
		return sources.CalendarEvent{}, false
	}
	if ev.Start == nil || ev.Start.DateTime == "" {
		// All-day events are never interviews.
		return sources.CalendarEvent{}, false
	}

	start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
	if err != nil {
		return sources.CalendarEvent{}, false
	}
	var end time.Time
	if ev.End != nil && ev.End.DateTime != "" {
		end, _ = time.Parse(time.RFC3339, ev.End.DateTime)
	}

	return sources.CalendarEvent{
		Title:    ev.Summary,
		Start:    start.UTC(),
		End:      end.UTC(),
		Upcoming: start.After(now),
	}, true
}

func mapError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return errors.NewAuthExpiredError("calendar", "refresh the Google OAuth token", err)
		default:
			return errors.NewSourceUnavailableError("calendar", apiErr.Code, apiErr.Message)
		}
	}
	return errors.WrapSource("calendar", err)
}
