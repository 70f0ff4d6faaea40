package infer

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/errors"
	"github.com/candidatelabs/talentsync/pkg/sources"
)

// Chat infers status from a submission message's reactions and its thread
// replies. Only the parent message's reactions are authoritative manual
// annotations: a terminal decline reaction there closes the candidate
// unconditionally and short-circuits every other rule.
type Chat struct {
	rules Rules
}

// NewChat creates the chat inferencer.
func NewChat(rules Rules) *Chat {
	return &Chat{rules: rules}
}

// Source returns candidates.SourceChat.
func (c *Chat) Source() candidates.Source {
	return candidates.SourceChat
}

// Infer applies the chat rule set.
//
// Precedence:
//  1. Terminal decline reaction on the parent: CLOSED, regardless of any
//     other reaction or keyword anywhere in the thread.
//  2. Rejection keyword in a thread reply: CLOSED.
//  3. In-process reaction (parent or thread) or progress keyword: EXPLICIT.
//  4. Silence: UNCLEAR.
func (c *Chat) Infer(rec sources.Record) (candidates.SourceRecord, error) {
	payload := rec.Chat
	if payload == nil {
		return candidates.SourceRecord{}, errors.NewValidationError("record", rec.Source, "chat payload missing")
	}

	out := candidates.SourceRecord{
		Source:     candidates.SourceChat,
		Channel:    rec.Channel,
		ObservedAt: rec.ObservedAt,
	}

	lastActivity := payload.SubmittedAt

	// 1. Authoritative override: terminal decline on the parent message.
	for _, emoji := range payload.ParentReactions {
		if slices.Contains(c.rules.TerminalReactions, emoji) {
			sig := candidates.NewReaction(emoji, true, payload.SubmittedAt)
			out.Status = candidates.StatusClosed
			out.Signals = []candidates.Signal{sig}
			out.Evidence = fmt.Sprintf("declined via :%s: on submission", emoji)
			return out, nil
		}
	}

	status := candidates.StatusUnclear
	var signals []candidates.Signal
	evidence := ""
	var evidenceAt time.Time

	record := func(s candidates.Status, sig candidates.Signal, why string) {
		signals = append(signals, sig)
		switch {
		case s.Overrides(status):
			status = s
			evidence, evidenceAt = why, sig.Timestamp
		case s == status && sig.Timestamp.After(evidenceAt):
			// Same priority: the most recent signal keeps the evidence line.
			evidence, evidenceAt = why, sig.Timestamp
		}
	}

	// 2. In-process reactions on the parent.
	for _, emoji := range payload.ParentReactions {
		if slices.Contains(c.rules.InProcessReactions, emoji) {
			record(candidates.StatusExplicit,
				candidates.NewReaction(emoji, true, payload.SubmittedAt),
				fmt.Sprintf("marked in process via :%s:", emoji))
		}
	}

	// 3. Thread replies: rejection keywords close, progress keywords and
	// in-process reactions mark explicit.
	replies := append([]sources.ChatMessage(nil), payload.Thread...)
	sort.Slice(replies, func(i, j int) bool {
		return replies[i].Timestamp.Before(replies[j].Timestamp)
	})

	for _, msg := range replies {
		if msg.Timestamp.After(lastActivity) {
			lastActivity = msg.Timestamp
		}

		// Soft passes are hesitation, not closure: keep the keyword signal
		// so synthesis can flag the candidate for review, but leave the
		// status alone.
		if phrase, ok := containsSubstring(msg.Text, c.rules.SoftPassPhrases); ok {
			signals = append(signals, candidates.NewKeyword(phrase, msg.Timestamp))
			continue
		}

		if keyword, ok := containsAny(msg.Text, c.rules.RejectionKeywords); ok {
			record(candidates.StatusClosed,
				candidates.NewKeyword(keyword, msg.Timestamp),
				fmt.Sprintf("rejection keyword %q in thread", keyword))
			continue
		}

		if keyword, ok := containsAny(msg.Text, c.rules.ProgressKeywords); ok {
			record(candidates.StatusExplicit,
				candidates.NewKeyword(keyword, msg.Timestamp),
				fmt.Sprintf("progress keyword %q in thread", keyword))
		}

		for _, emoji := range msg.Reactions {
			if slices.Contains(c.rules.InProcessReactions, emoji) {
				record(candidates.StatusExplicit,
					candidates.NewReaction(emoji, false, msg.Timestamp),
					fmt.Sprintf("in-process reaction :%s: in thread", emoji))
			}
		}
	}

	out.Status = status
	out.Signals = signals
	out.Evidence = evidence
	if out.ObservedAt.Before(lastActivity) {
		out.ObservedAt = lastActivity
	}
	return out, nil
}
