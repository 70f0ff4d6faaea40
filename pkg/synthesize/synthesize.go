// Package synthesize folds per-source status records into one canonical
// status and a human-readable summary line per candidate.
//
// Only chat and ATS records are authoritative for the canonical status.
// Calendar evidence can lift an unclear candidate to explicit, because a
// scheduled interview proves movement, but it can never reopen a closed
// candidate and never closes one. Email evidence is purely advisory: a
// rejection email on a candidate who is not closed raises a review flag
// instead of changing the status.
package synthesize

import (
	"fmt"
	"slices"
	"time"

	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/infer"
)

// DefaultFollowupAfter is how long an unclear candidate may sit after
// submission before synthesis considers marking them for a follow-up.
const DefaultFollowupAfter = 7 * 24 * time.Hour

// DefaultInactivityAfter is how long the candidate's sources must all have
// been quiet before the follow-up actually fires.
const DefaultInactivityAfter = 5 * 24 * time.Hour

// Synthesizer computes the derived fields of a CandidateRecord from its
// per-source records. Synthesize is a pure function of the record and the
// clock; it never mutates its input.
type Synthesizer struct {
	rules           infer.Rules
	followupAfter   time.Duration
	inactivityAfter time.Duration
	now             func() time.Time
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithFollowupAfter sets how old an unclear candidate's submission must be
// before a follow-up is considered.
func WithFollowupAfter(d time.Duration) Option {
	return func(s *Synthesizer) {
		if d > 0 {
			s.followupAfter = d
		}
	}
}

// WithInactivityAfter sets how long all sources must be quiet before the
// follow-up fires.
func WithInactivityAfter(d time.Duration) Option {
	return func(s *Synthesizer) {
		if d > 0 {
			s.inactivityAfter = d
		}
	}
}

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Synthesizer using the given rule vocabularies.
func New(rules infer.Rules, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		rules:           rules,
		followupAfter:   DefaultFollowupAfter,
		inactivityAfter: DefaultInactivityAfter,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize returns a copy of rec with Status, DrivingSource, SummaryLine,
// FlagForReview, and NeedsFollowup recomputed from the source records.
func (s *Synthesizer) Synthesize(rec candidates.CandidateRecord) candidates.CandidateRecord {
	out := rec.Copy()

	status, driver := s.canonical(out)
	out.Status = status
	out.DrivingSource = driver
	out.FlagForReview = s.flagForReview(out, status)
	out.NeedsFollowup = s.needsFollowup(out, status)
	out.SummaryLine = s.summary(out, status)
	return out
}

// canonical derives the canonical status from the authoritative sources,
// then applies the calendar lift.
//
// Among chat and ATS, the higher-severity status wins; on a tie the record
// observed more recently drives.
func (s *Synthesizer) canonical(rec candidates.CandidateRecord) (candidates.Status, candidates.Source) {
	status := candidates.StatusNoData
	var driver candidates.Source
	var driverAt time.Time

	for _, src := range candidates.Sources() {
		if !src.Authoritative() {
			continue
		}
		sr, ok := rec.Record(src)
		if !ok || sr.Status == candidates.StatusNoData || sr.Status == "" {
			continue
		}
		switch {
		case sr.Status.Overrides(status):
			status, driver, driverAt = sr.Status, src, sr.ObservedAt
		case sr.Status == status && sr.ObservedAt.After(driverAt):
			driver, driverAt = src, sr.ObservedAt
		}
	}

	// Calendar lift: scheduled interviews prove the process is moving, so
	// a candidate who is merely unclear (or unseen by chat and ATS) counts
	// as explicit. Closed stays closed.
	if status != candidates.StatusClosed {
		if cal, ok := rec.Record(candidates.SourceCalendar); ok && cal.Status == candidates.StatusExplicit {
			if status == candidates.StatusUnclear || status == candidates.StatusNoData {
				status = candidates.StatusExplicit
				driver = candidates.SourceCalendar
			}
		}
	}

	// NO_DATA is a per-source sentinel, never a canonical status: a
	// candidate with no signals anywhere is presumed in process.
	if !status.Canonical() {
		status = candidates.StatusUnclear
	}

	return status, driver
}

// flagForReview raises the review flag on either of two conditions: a
// rejection email arrived while the candidate is not closed, or a chat reply
// soft-passed the candidate (declined for this role but worth keeping).
func (s *Synthesizer) flagForReview(rec candidates.CandidateRecord, status candidates.Status) bool {
	if status != candidates.StatusClosed {
		if em, ok := rec.Record(candidates.SourceEmail); ok {
			for _, sig := range em.Signals {
				if sig.Kind == candidates.SignalEmailEvent && sig.EmailEvent == candidates.EmailRejection {
					return true
				}
			}
		}
	}

	if ch, ok := rec.Record(candidates.SourceChat); ok {
		for _, sig := range ch.Signals {
			if sig.Kind == candidates.SignalKeyword && slices.Contains(s.rules.SoftPassPhrases, sig.Keyword) {
				return true
			}
		}
	}
	return false
}

// needsFollowup marks unclear candidates who are both overdue since
// submission and quiet across every source. Explicit candidates are moving
// on their own, and closed candidates never need a nudge. A record with no
// timestamps at all counts as past both thresholds.
func (s *Synthesizer) needsFollowup(rec candidates.CandidateRecord, status candidates.Status) bool {
	if status != candidates.StatusUnclear {
		return false
	}

	now := s.now()
	if !rec.SubmittedAt.IsZero() && now.Sub(rec.SubmittedAt) < s.followupAfter {
		return false
	}

	last := rec.SubmittedAt
	for _, src := range candidates.Sources() {
		if sr, ok := rec.Record(src); ok && sr.ObservedAt.After(last) {
			last = sr.ObservedAt
		}
	}
	if last.IsZero() {
		return true
	}
	return now.Sub(last) >= s.inactivityAfter
}

// summary builds the one-line human summary. Evidence is chosen by richness,
// not by status authority: Calendar > Email > Chat > ATS. A candidate with
// no evidence at all gets the open question.
func (s *Synthesizer) summary(rec candidates.CandidateRecord, status candidates.Status) string {
	prefix := ""
	if !rec.SubmittedAt.IsZero() {
		prefix = fmt.Sprintf("Submitted %s - ", rec.SubmittedAt.Format("1/2"))
	}

	for _, src := range []candidates.Source{
		candidates.SourceCalendar,
		candidates.SourceEmail,
		candidates.SourceChat,
		candidates.SourceATS,
	} {
		if sr, ok := rec.Record(src); ok && sr.Evidence != "" {
			return prefix + sr.Evidence
		}
	}

	if status == candidates.StatusClosed {
		return prefix + "closed"
	}
	return prefix + "any update on where things stand?"
}
