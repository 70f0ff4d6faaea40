package infer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/sources"
)

var calTime = time.Date(2026, 8, 14, 9, 0, 0, 0, time.UTC)

func TestCalendarEventIsExplicit(t *testing.T) {
	c := NewCalendar(DefaultRules())

	rec, err := c.Infer(sources.Record{
		Source:     candidates.SourceCalendar,
		ObservedAt: calTime,
		Calendar: &sources.CalendarPayload{
			Events: []sources.CalendarEvent{
				{Title: "Jane Doe - Onsite Interview", Start: calTime.Add(48 * time.Hour), Upcoming: true},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, candidates.StatusExplicit, rec.Status)
	assert.Contains(t, rec.Evidence, "onsite")
	assert.Contains(t, rec.Evidence, "scheduled")
}

func TestCalendarUpcomingEventIsHeadline(t *testing.T) {
	c := NewCalendar(DefaultRules())

	rec, err := c.Infer(sources.Record{
		Source:     candidates.SourceCalendar,
		ObservedAt: calTime,
		Calendar: &sources.CalendarPayload{
			Events: []sources.CalendarEvent{
				{Title: "Jane Doe - Phone Screen", Start: calTime.Add(-72 * time.Hour)},
				{Title: "Jane Doe - Final Round", Start: calTime.Add(24 * time.Hour), Upcoming: true},
			},
		},
	})
	require.NoError(t, err)

	assert.Len(t, rec.Signals, 2)
	assert.Contains(t, rec.Evidence, "final")
	assert.Contains(t, rec.Evidence, "scheduled")
}

func TestCalendarPastEventReadsHeld(t *testing.T) {
	c := NewCalendar(DefaultRules())

	rec, err := c.Infer(sources.Record{
		Source:     candidates.SourceCalendar,
		ObservedAt: calTime,
		Calendar: &sources.CalendarPayload{
			Events: []sources.CalendarEvent{
				{Title: "Jane Doe - Technical Screen", Start: calTime.Add(-24 * time.Hour)},
			},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, rec.Evidence, "held")
}

func TestCalendarNoEventsIsUnclear(t *testing.T) {
	c := NewCalendar(DefaultRules())

	rec, err := c.Infer(sources.Record{
		Source:     candidates.SourceCalendar,
		ObservedAt: calTime,
		Calendar:   &sources.CalendarPayload{},
	})
	require.NoError(t, err)
	assert.Equal(t, candidates.StatusUnclear, rec.Status)
	assert.Empty(t, rec.Evidence)
}
