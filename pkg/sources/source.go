// Package sources defines the capability a per-source collaborator client
// must implement and the raw record shape it returns. The engine core never
// performs network I/O itself; clients fetch raw observations, and the
// inference layer turns them into statuses and signals.
//
// Clients fail with the typed errors from pkg/errors (AuthExpiredError,
// SourceUnavailableError) rather than opaque failures, so a sync can degrade
// a single source to "no data" instead of aborting.
package sources

import (
	"context"
	"time"

	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/identity"
)

// Window bounds a fetch in time.
type Window struct {
	// Lookback is how far into the past to fetch.
	Lookback time.Duration
	// Lookahead is how far into the future to fetch. Only the calendar
	// source uses it.
	Lookahead time.Duration
}

// Since returns the start of the window relative to now.
func (w Window) Since(now time.Time) time.Time {
	return now.Add(-w.Lookback)
}

// Until returns the end of the window relative to now.
func (w Window) Until(now time.Time) time.Time {
	return now.Add(w.Lookahead)
}

// Client is a per-source collaborator that fetches raw candidate
// observations. Implementations handle their own authentication, paging,
// and backoff internally.
type Client interface {
	// Source returns which source this client serves.
	Source() candidates.Source

	// FetchRecords retrieves raw records within the window. A scope may
	// narrow the fetch to specific candidates or clients; a nil scope
	// fetches everything visible.
	FetchRecords(ctx context.Context, window Window, scope *Scope) ([]Record, error)
}

// Scope narrows a fetch to specific candidates or client contexts.
type Scope struct {
	// Candidates limits the fetch to these identities, when the source
	// supports per-candidate queries (email, calendar).
	Candidates []identity.Identity
	// Clients limits the fetch to these client contexts, compared
	// case-insensitively.
	Clients []string
}

// Record is one source's raw view of a candidate before inference. Exactly
// one payload pointer is set, matching Source.
type Record struct {
	Source     candidates.Source
	Identity   identity.Identity
	Channel    string
	ObservedAt time.Time

	Chat     *ChatPayload
	ATS      *ATSPayload
	Email    *EmailPayload
	Calendar *CalendarPayload
}

// ChatPayload is the raw material of a chat submission: the parent message
// and its thread.
type ChatPayload struct {
	ParentText      string
	ParentReactions []string
	SubmittedAt     time.Time
	Permalink       string
	Thread          []ChatMessage
}

// ChatMessage is one thread reply.
type ChatMessage struct {
	Author    string
	Text      string
	Reactions []string
	Timestamp time.Time
}

// ATSPayload carries the stage fields of an ATS candidate record.
type ATSPayload struct {
	PipelineStage  string
	CurrentStage   string
	StageType      string
	DaysInStage    int
	Recommendation string
	LastActivityAt time.Time
}

// EmailPayload carries the emails that matched a candidate.
type EmailPayload struct {
	Messages []EmailMessage
}

// EmailMessage is one email observation.
type EmailMessage struct {
	Subject string
	Sender  string
	Snippet string
	Date    time.Time
}

// CalendarPayload carries the calendar events that matched a candidate.
type CalendarPayload struct {
	Events []CalendarEvent
}

// CalendarEvent is one matched calendar event.
type CalendarEvent struct {
	Title    string
	Start    time.Time
	End      time.Time
	Upcoming bool
}
