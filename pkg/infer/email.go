package infer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/errors"
	"github.com/candidatelabs/talentsync/pkg/sources"
)

// Email classifies mailbox traffic that mentions the candidate. Email is an
// advisory source: it contributes evidence and review flags but never sets
// the canonical status on its own. Automated rejection mail is too noisy
// (newsletters quoting names, forwarded digests) to close a candidate
// without a human look.
type Email struct {
	rules Rules
}

// NewEmail creates the email inferencer.
func NewEmail(rules Rules) *Email {
	return &Email{rules: rules}
}

// Source returns candidates.SourceEmail.
func (e *Email) Source() candidates.Source {
	return candidates.SourceEmail
}

// Infer classifies each message as rejection, scheduling, advancement, or
// other. Rejection wins over scheduling wins over advancement when a single
// message matches several vocabularies. The source record's status is always
// UNCLEAR; synthesis reads the signals instead.
func (e *Email) Infer(rec sources.Record) (candidates.SourceRecord, error) {
	payload := rec.Email
	if payload == nil {
		return candidates.SourceRecord{}, errors.NewValidationError("record", rec.Source, "email payload missing")
	}

	out := candidates.SourceRecord{
		Source:     candidates.SourceEmail,
		Channel:    rec.Channel,
		Status:     candidates.StatusUnclear,
		ObservedAt: rec.ObservedAt,
	}

	messages := append([]sources.EmailMessage(nil), payload.Messages...)
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].Date.Before(messages[j].Date)
	})

	for _, msg := range messages {
		text := strings.ToLower(msg.Subject + " " + msg.Snippet)
		event := e.classify(text)
		if event == EmailNoMatch {
			continue
		}
		out.Signals = append(out.Signals, candidates.NewEmailEvent(event, msg.Subject, msg.Date))
		if msg.Date.After(out.ObservedAt) {
			out.ObservedAt = msg.Date
		}
	}

	if last := latestEmailSignal(out.Signals); last != nil {
		out.Evidence = fmt.Sprintf("email %s %q", last.EmailEvent, last.Subject)
	}
	return out, nil
}

// EmailNoMatch marks a message that matched none of the vocabularies.
// Unmatched messages produce no signal at all.
const EmailNoMatch candidates.EmailEventType = ""

func (e *Email) classify(text string) candidates.EmailEventType {
	if _, ok := containsSubstring(text, e.rules.EmailRejection); ok {
		return candidates.EmailRejection
	}
	if _, ok := containsSubstring(text, e.rules.EmailScheduling); ok {
		return candidates.EmailScheduling
	}
	if _, ok := containsSubstring(text, e.rules.EmailAdvancement); ok {
		return candidates.EmailAdvancement
	}
	return EmailNoMatch
}

func latestEmailSignal(signals []candidates.Signal) *candidates.Signal {
	var last *candidates.Signal
	for i := range signals {
		if signals[i].Kind != candidates.SignalEmailEvent {
			continue
		}
		if last == nil || signals[i].Timestamp.After(last.Timestamp) {
			last = &signals[i]
		}
	}
	return last
}
