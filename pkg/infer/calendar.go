package infer

import (
	"fmt"
	"strings"

	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/errors"
	"github.com/candidatelabs/talentsync/pkg/sources"
)

// Calendar reads scheduled interviews. A calendar hit is hard evidence that
// the process is moving, so any matched event yields EXPLICIT, but calendar
// never closes a candidate: a cancelled or past interview says nothing about
// the outcome.
type Calendar struct {
	rules Rules
}

// NewCalendar creates the calendar inferencer.
func NewCalendar(rules Rules) *Calendar {
	return &Calendar{rules: rules}
}

// Source returns candidates.SourceCalendar.
func (c *Calendar) Source() candidates.Source {
	return candidates.SourceCalendar
}

// Infer emits one signal per matched event, preferring an upcoming event as
// the headline evidence. Stage vocabulary found in the event title
// ("onsite", "final round") is lifted into the evidence line.
func (c *Calendar) Infer(rec sources.Record) (candidates.SourceRecord, error) {
	payload := rec.Calendar
	if payload == nil {
		return candidates.SourceRecord{}, errors.NewValidationError("record", rec.Source, "calendar payload missing")
	}

	out := candidates.SourceRecord{
		Source:     candidates.SourceCalendar,
		Channel:    rec.Channel,
		Status:     candidates.StatusUnclear,
		ObservedAt: rec.ObservedAt,
	}

	var headline *sources.CalendarEvent
	for i := range payload.Events {
		ev := payload.Events[i]
		out.Signals = append(out.Signals, candidates.NewCalendarEvent(ev.Title, ev.Start, ev.Upcoming, rec.ObservedAt))

		switch {
		case headline == nil:
			headline = &payload.Events[i]
		case ev.Upcoming && !headline.Upcoming:
			headline = &payload.Events[i]
		case ev.Upcoming == headline.Upcoming && ev.Start.After(headline.Start):
			headline = &payload.Events[i]
		}
	}

	if headline != nil {
		out.Status = candidates.StatusExplicit
		out.Evidence = c.describe(*headline)
	}
	return out, nil
}

func (c *Calendar) describe(ev sources.CalendarEvent) string {
	stage := "interview"
	if s, ok := containsSubstring(strings.ToLower(ev.Title), c.rules.EventStages); ok {
		stage = s
	}
	when := ev.Start.Format("1/2")
	if ev.Upcoming {
		return fmt.Sprintf("%s scheduled %s", stage, when)
	}
	return fmt.Sprintf("%s held %s", stage, when)
}
