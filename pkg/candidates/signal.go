package candidates

import (
	"fmt"
	"time"
)

// SignalKind tags the variant of a Signal. Each kind owns a specific payload
// field on Signal; keeping the variants explicit lets rule code switch
// exhaustively instead of sniffing loosely typed payloads.
type SignalKind string

const (
	// SignalReaction is an emoji reaction on a chat message.
	SignalReaction SignalKind = "reaction"
	// SignalKeyword is a matched keyword or phrase in message text.
	SignalKeyword SignalKind = "keyword"
	// SignalStage is a pipeline or decision stage value from the ATS.
	SignalStage SignalKind = "stage"
	// SignalEmailEvent is a classified email observation.
	SignalEmailEvent SignalKind = "email"
	// SignalCalendarEvent is a matched calendar event.
	SignalCalendarEvent SignalKind = "calendar"
)

// EmailEventType classifies what an email says about the candidate.
type EmailEventType string

const (
	// EmailAdvancement indicates advancement phrasing.
	EmailAdvancement EmailEventType = "advancement"
	// EmailScheduling indicates scheduling phrasing.
	EmailScheduling EmailEventType = "scheduling"
	// EmailRejection indicates rejection phrasing.
	EmailRejection EmailEventType = "rejection"
	// EmailOther is an email that matched the candidate but carries no
	// actionable phrasing.
	EmailOther EmailEventType = "other"
)

// Signal is one atomic, timestamped, typed observation from a source.
// Signals are immutable once created.
type Signal struct {
	Kind      SignalKind `yaml:"kind" json:"kind"`
	Timestamp time.Time  `yaml:"timestamp" json:"timestamp"`

	// Payload fields; exactly one group is set depending on Kind.

	// Emoji is the reaction code for SignalReaction (e.g. "no_entry").
	Emoji string `yaml:"emoji,omitempty" json:"emoji,omitempty"`
	// OnParent is true when a reaction sits on the parent submission
	// message rather than a thread reply.
	OnParent bool `yaml:"on_parent,omitempty" json:"on_parent,omitempty"`

	// Keyword is the matched phrase for SignalKeyword.
	Keyword string `yaml:"keyword,omitempty" json:"keyword,omitempty"`

	// Stage is the stage string for SignalStage.
	Stage string `yaml:"stage,omitempty" json:"stage,omitempty"`

	// EmailEvent is the classification for SignalEmailEvent.
	EmailEvent EmailEventType `yaml:"email_event,omitempty" json:"email_event,omitempty"`
	// Subject is the email subject line for SignalEmailEvent.
	Subject string `yaml:"subject,omitempty" json:"subject,omitempty"`

	// EventTitle is the event title for SignalCalendarEvent.
	EventTitle string `yaml:"event_title,omitempty" json:"event_title,omitempty"`
	// EventStart is the event start time for SignalCalendarEvent.
	EventStart time.Time `yaml:"event_start,omitempty" json:"event_start,omitempty"`
	// Upcoming is true when the calendar event is in the future.
	Upcoming bool `yaml:"upcoming,omitempty" json:"upcoming,omitempty"`

	// Detail is a short human-readable rendering of the observation.
	Detail string `yaml:"detail,omitempty" json:"detail,omitempty"`
}

// NewReaction creates a reaction signal.
func NewReaction(emoji string, onParent bool, at time.Time) Signal {
	return Signal{
		Kind:      SignalReaction,
		Timestamp: at,
		Emoji:     emoji,
		OnParent:  onParent,
		Detail:    fmt.Sprintf(":%s:", emoji),
	}
}

// NewKeyword creates a keyword-match signal.
func NewKeyword(keyword string, at time.Time) Signal {
	return Signal{
		Kind:      SignalKeyword,
		Timestamp: at,
		Keyword:   keyword,
		Detail:    fmt.Sprintf("keyword %q", keyword),
	}
}

// NewStage creates a stage-value signal.
func NewStage(stage string, at time.Time) Signal {
	return Signal{
		Kind:      SignalStage,
		Timestamp: at,
		Stage:     stage,
		Detail:    fmt.Sprintf("stage %q", stage),
	}
}

// NewEmailEvent creates an email-event signal.
func NewEmailEvent(event EmailEventType, subject string, at time.Time) Signal {
	return Signal{
		Kind:       SignalEmailEvent,
		Timestamp:  at,
		EmailEvent: event,
		Subject:    subject,
		Detail:     fmt.Sprintf("email %s: %s", event, subject),
	}
}

// NewCalendarEvent creates a calendar-event signal.
func NewCalendarEvent(title string, start time.Time, upcoming bool, observedAt time.Time) Signal {
	return Signal{
		Kind:       SignalCalendarEvent,
		Timestamp:  observedAt,
		EventTitle: title,
		EventStart: start,
		Upcoming:   upcoming,
		Detail:     fmt.Sprintf("event %q", title),
	}
}
