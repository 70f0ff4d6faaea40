package synthesize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/identity"
	"github.com/candidatelabs/talentsync/pkg/infer"
)

var synthTime = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func newSynth() *Synthesizer {
	return New(infer.DefaultRules(), WithClock(func() time.Time { return synthTime }))
}

func candidate(records ...candidates.SourceRecord) candidates.CandidateRecord {
	rec := candidates.CandidateRecord{
		Key:         identity.Key("https://linkedin.com/in/jane-doe"),
		Name:        "Jane Doe",
		Client:      "Acme",
		SubmittedAt: synthTime.AddDate(0, 0, -5),
	}
	for _, sr := range records {
		rec.SetRecord(sr)
	}
	return rec
}

func source(src candidates.Source, status candidates.Status, evidence string, observed time.Time) candidates.SourceRecord {
	return candidates.SourceRecord{
		Source:     src,
		Status:     status,
		Evidence:   evidence,
		ObservedAt: observed,
	}
}

func TestSynthesizeClosedBeatsExplicit(t *testing.T) {
	s := newSynth()

	out := s.Synthesize(candidate(
		source(candidates.SourceChat, candidates.StatusClosed, "declined via :no_entry: on submission", synthTime.AddDate(0, 0, -1)),
		source(candidates.SourceATS, candidates.StatusExplicit, `in pipeline stage "Onsite"`, synthTime),
	))

	assert.Equal(t, candidates.StatusClosed, out.Status)
	assert.Equal(t, candidates.SourceChat, out.DrivingSource)
}

func TestSynthesizeTieBreaksByRecency(t *testing.T) {
	s := newSynth()

	out := s.Synthesize(candidate(
		source(candidates.SourceChat, candidates.StatusExplicit, "marked in process", synthTime.AddDate(0, 0, -3)),
		source(candidates.SourceATS, candidates.StatusExplicit, `in pipeline stage "Onsite"`, synthTime.AddDate(0, 0, -1)),
	))

	assert.Equal(t, candidates.StatusExplicit, out.Status)
	assert.Equal(t, candidates.SourceATS, out.DrivingSource, "equal severity resolves to the fresher observation")
}

func TestSynthesizeCalendarLiftsUnclear(t *testing.T) {
	s := newSynth()

	out := s.Synthesize(candidate(
		source(candidates.SourceChat, candidates.StatusUnclear, "", synthTime.AddDate(0, 0, -2)),
		source(candidates.SourceCalendar, candidates.StatusExplicit, "onsite scheduled 8/22", synthTime),
	))

	assert.Equal(t, candidates.StatusExplicit, out.Status)
	assert.Equal(t, candidates.SourceCalendar, out.DrivingSource)
}

func TestSynthesizeCalendarNeverReopensClosed(t *testing.T) {
	s := newSynth()

	out := s.Synthesize(candidate(
		source(candidates.SourceChat, candidates.StatusClosed, "declined", synthTime.AddDate(0, 0, -2)),
		source(candidates.SourceCalendar, candidates.StatusExplicit, "onsite scheduled 8/22", synthTime),
	))

	assert.Equal(t, candidates.StatusClosed, out.Status)
	assert.Equal(t, candidates.SourceChat, out.DrivingSource)
}

func TestSynthesizeCalendarOnlyIsExplicit(t *testing.T) {
	s := newSynth()

	out := s.Synthesize(candidate(
		source(candidates.SourceCalendar, candidates.StatusExplicit, "final scheduled 8/22", synthTime),
	))

	assert.Equal(t, candidates.StatusExplicit, out.Status)
}

func TestSynthesizeNoSourcesIsUnclear(t *testing.T) {
	s := newSynth()
	out := s.Synthesize(candidate())
	assert.Equal(t, candidates.StatusUnclear, out.Status, "no signals anywhere means presumed in process")
	assert.True(t, out.Status.Canonical())
	assert.Contains(t, out.SummaryLine, "any update on where things stand?")
}

func TestSynthesizeEmailNeverDrivesStatus(t *testing.T) {
	s := newSynth()

	email := source(candidates.SourceEmail, candidates.StatusUnclear, "email advancement", synthTime)
	email.Signals = []candidates.Signal{
		candidates.NewEmailEvent(candidates.EmailAdvancement, "Next steps", synthTime),
	}
	out := s.Synthesize(candidate(email))

	assert.Equal(t, candidates.StatusUnclear, out.Status, "email alone cannot set a canonical status")
}

func TestSynthesizeRejectionEmailFlagsOpenCandidate(t *testing.T) {
	s := newSynth()

	email := source(candidates.SourceEmail, candidates.StatusUnclear, "", synthTime)
	email.Signals = []candidates.Signal{
		candidates.NewEmailEvent(candidates.EmailRejection, "Your application", synthTime),
	}

	open := s.Synthesize(candidate(
		source(candidates.SourceChat, candidates.StatusExplicit, "in process", synthTime),
		email,
	))
	assert.True(t, open.FlagForReview, "rejection email on an open candidate needs a human look")
	assert.Equal(t, candidates.StatusExplicit, open.Status, "the flag never changes the status")

	closed := s.Synthesize(candidate(
		source(candidates.SourceChat, candidates.StatusClosed, "declined", synthTime),
		email,
	))
	assert.False(t, closed.FlagForReview, "rejection email agrees with a closed candidate")
}

func TestSynthesizeSoftPassFlags(t *testing.T) {
	s := newSynth()

	// A soft pass leaves the status open and raises the review flag.
	chat := source(candidates.SourceChat, candidates.StatusUnclear, "", synthTime)
	chat.Signals = []candidates.Signal{
		candidates.NewKeyword("comp mismatch", synthTime),
	}
	out := s.Synthesize(candidate(chat))

	assert.Equal(t, candidates.StatusUnclear, out.Status)
	assert.True(t, out.FlagForReview)
}

func TestSynthesizeSummaryPriority(t *testing.T) {
	s := newSynth()

	out := s.Synthesize(candidate(
		source(candidates.SourceATS, candidates.StatusExplicit, `in pipeline stage "Onsite"`, synthTime),
		source(candidates.SourceChat, candidates.StatusExplicit, "marked in process", synthTime),
		source(candidates.SourceCalendar, candidates.StatusExplicit, "onsite scheduled 8/22", synthTime),
	))

	assert.Contains(t, out.SummaryLine, "onsite scheduled 8/22", "calendar evidence outranks chat and tracker")
	assert.Contains(t, out.SummaryLine, "Submitted 8/15")
}

func TestSynthesizeNoEvidenceAsksOpenQuestion(t *testing.T) {
	s := newSynth()

	out := s.Synthesize(candidate(
		source(candidates.SourceChat, candidates.StatusUnclear, "", synthTime.AddDate(0, 0, -5)),
	))

	assert.Contains(t, out.SummaryLine, "any update on where things stand?")
}

func TestSynthesizeNeedsFollowup(t *testing.T) {
	s := newSynth()

	unclear := func(submittedDaysAgo, activityDaysAgo int) candidates.CandidateRecord {
		rec := candidate(
			source(candidates.SourceChat, candidates.StatusUnclear, "", synthTime.AddDate(0, 0, -activityDaysAgo)),
		)
		rec.SubmittedAt = synthTime.AddDate(0, 0, -submittedDaysAgo)
		return rec
	}

	stale := s.Synthesize(unclear(30, 10))
	assert.True(t, stale.NeedsFollowup, "overdue submission and quiet sources")

	explicit := s.Synthesize(candidate(
		source(candidates.SourceChat, candidates.StatusExplicit, "in process", synthTime.AddDate(0, 0, -30)),
	))
	assert.False(t, explicit.NeedsFollowup, "explicit candidates are moving on their own")

	closed := s.Synthesize(candidate(
		source(candidates.SourceChat, candidates.StatusClosed, "declined", synthTime.AddDate(0, 0, -30)),
	))
	assert.False(t, closed.NeedsFollowup, "closed candidates are never chased")
}

func TestSynthesizeFollowupNeedsBothThresholds(t *testing.T) {
	s := newSynth()

	build := func(submittedDaysAgo, activityDaysAgo int) candidates.CandidateRecord {
		rec := candidate(
			source(candidates.SourceChat, candidates.StatusUnclear, "", synthTime.AddDate(0, 0, -activityDaysAgo)),
		)
		rec.SubmittedAt = synthTime.AddDate(0, 0, -submittedDaysAgo)
		return rec
	}

	// Submission is old enough, but a source spoke up two days ago.
	recent := s.Synthesize(build(30, 2))
	assert.False(t, recent.NeedsFollowup, "recent activity holds the follow-up back")

	// Everything is quiet, but the submission is only three days old.
	young := s.Synthesize(build(3, 3))
	assert.False(t, young.NeedsFollowup, "a fresh submission gets more time")

	// Exactly at both defaults fires.
	edge := s.Synthesize(build(7, 5))
	assert.True(t, edge.NeedsFollowup)
}

func TestSynthesizeFollowupWindowsAreConfigurable(t *testing.T) {
	s := New(infer.DefaultRules(),
		WithClock(func() time.Time { return synthTime }),
		WithFollowupAfter(48*time.Hour),
		WithInactivityAfter(24*time.Hour),
	)

	rec := candidate(
		source(candidates.SourceChat, candidates.StatusUnclear, "", synthTime.AddDate(0, 0, -2)),
	)
	rec.SubmittedAt = synthTime.AddDate(0, 0, -3)
	assert.True(t, s.Synthesize(rec).NeedsFollowup)
}

func TestSynthesizeDoesNotMutateInput(t *testing.T) {
	s := newSynth()

	in := candidate(source(candidates.SourceChat, candidates.StatusClosed, "declined", synthTime))
	_ = s.Synthesize(in)
	assert.Equal(t, candidates.Status(""), in.Status)
}
