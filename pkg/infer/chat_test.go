package infer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/identity"
	"github.com/candidatelabs/talentsync/pkg/sources"
)

var chatTime = time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

func chatRecord(payload *sources.ChatPayload) sources.Record {
	return sources.Record{
		Source:     candidates.SourceChat,
		Identity:   identity.Identity{Name: "Jane Doe", Context: "recruit-acme"},
		Channel:    "recruit-acme",
		ObservedAt: chatTime,
		Chat:       payload,
	}
}

func TestChatTerminalReactionClosesUnconditionally(t *testing.T) {
	c := NewChat(DefaultRules())

	// Terminal decline on the parent beats every positive signal in the
	// thread.
	rec, err := c.Infer(chatRecord(&sources.ChatPayload{
		ParentText:      "Jane Doe - <https://linkedin.com/in/jane-doe>",
		ParentReactions: []string{"white_check_mark", "no_entry"},
		SubmittedAt:     chatTime,
		Thread: []sources.ChatMessage{
			{Text: "moving forward with her, scheduling onsite", Timestamp: chatTime.Add(time.Hour)},
		},
	}))
	require.NoError(t, err)

	assert.Equal(t, candidates.StatusClosed, rec.Status)
	require.Len(t, rec.Signals, 1, "terminal override short-circuits all other signal collection")
	assert.Equal(t, candidates.SignalReaction, rec.Signals[0].Kind)
	assert.True(t, rec.Signals[0].OnParent)
}

func TestChatRejectionKeywordCloses(t *testing.T) {
	c := NewChat(DefaultRules())

	rec, err := c.Infer(chatRecord(&sources.ChatPayload{
		ParentText:  "Jane Doe - <https://linkedin.com/in/jane-doe>",
		SubmittedAt: chatTime,
		Thread: []sources.ChatMessage{
			{Text: "talked to the client, we'll pass on this one", Timestamp: chatTime.Add(time.Hour)},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, candidates.StatusClosed, rec.Status)
}

func TestChatKeywordsMatchOnWordBoundaries(t *testing.T) {
	c := NewChat(DefaultRules())

	// "loophole" must not trigger the "loop" progress keyword.
	rec, err := c.Infer(chatRecord(&sources.ChatPayload{
		ParentText:  "Jane Doe - <https://linkedin.com/in/jane-doe>",
		SubmittedAt: chatTime,
		Thread: []sources.ChatMessage{
			{Text: "found a loophole in the referral policy", Timestamp: chatTime.Add(time.Hour)},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, candidates.StatusUnclear, rec.Status)
}

func TestChatProgressKeywordMarksExplicit(t *testing.T) {
	c := NewChat(DefaultRules())

	rec, err := c.Infer(chatRecord(&sources.ChatPayload{
		ParentText:  "Jane Doe - <https://linkedin.com/in/jane-doe>",
		SubmittedAt: chatTime,
		Thread: []sources.ChatMessage{
			{Text: "onsite scheduled for next Tuesday", Timestamp: chatTime.Add(2 * time.Hour)},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, candidates.StatusExplicit, rec.Status)
	assert.NotEmpty(t, rec.Evidence)
}

func TestChatInProcessReactionMarksExplicit(t *testing.T) {
	c := NewChat(DefaultRules())

	rec, err := c.Infer(chatRecord(&sources.ChatPayload{
		ParentText:      "Jane Doe - <https://linkedin.com/in/jane-doe>",
		ParentReactions: []string{"eyes"},
		SubmittedAt:     chatTime,
	}))
	require.NoError(t, err)
	assert.Equal(t, candidates.StatusExplicit, rec.Status)
}

func TestChatRejectionBeatsProgressInThread(t *testing.T) {
	c := NewChat(DefaultRules())

	rec, err := c.Infer(chatRecord(&sources.ChatPayload{
		ParentText:  "Jane Doe - <https://linkedin.com/in/jane-doe>",
		SubmittedAt: chatTime,
		Thread: []sources.ChatMessage{
			{Text: "scheduling the onsite loop", Timestamp: chatTime.Add(time.Hour)},
			{Text: "update: they rejected her after review", Timestamp: chatTime.Add(48 * time.Hour)},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, candidates.StatusClosed, rec.Status)
	assert.Len(t, rec.Signals, 2, "both signals recorded, closed wins")
}

func TestChatSoftPassDoesNotClose(t *testing.T) {
	c := NewChat(DefaultRules())

	// A soft pass is hesitation, not a terminal signal: the keyword is
	// recorded for review but the status stays unchanged.
	rec, err := c.Infer(chatRecord(&sources.ChatPayload{
		ParentText:  "Jane Doe - <https://linkedin.com/in/jane-doe>",
		SubmittedAt: chatTime,
		Thread: []sources.ChatMessage{
			{Text: "comp mismatch, keeping warm for later", Timestamp: chatTime.Add(time.Hour)},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, candidates.StatusUnclear, rec.Status)
	require.NotEmpty(t, rec.Signals)
	assert.Equal(t, candidates.SignalKeyword, rec.Signals[0].Kind)
	assert.Equal(t, "comp mismatch", rec.Signals[0].Keyword)
}

func TestChatSoftPassKeepsExplicitStatus(t *testing.T) {
	c := NewChat(DefaultRules())

	rec, err := c.Infer(chatRecord(&sources.ChatPayload{
		ParentText:  "Jane Doe - <https://linkedin.com/in/jane-doe>",
		SubmittedAt: chatTime,
		Thread: []sources.ChatMessage{
			{Text: "scheduling the onsite loop", Timestamp: chatTime.Add(time.Hour)},
			{Text: "comp mismatch, keeping warm for later", Timestamp: chatTime.Add(2 * time.Hour)},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, candidates.StatusExplicit, rec.Status)
	assert.Len(t, rec.Signals, 2)
}

func TestChatLatestSameSeveritySignalWinsEvidence(t *testing.T) {
	c := NewChat(DefaultRules())

	rec, err := c.Infer(chatRecord(&sources.ChatPayload{
		ParentText:  "Jane Doe - <https://linkedin.com/in/jane-doe>",
		SubmittedAt: chatTime,
		Thread: []sources.ChatMessage{
			{Text: "screening call went well", Timestamp: chatTime.Add(time.Hour)},
			{Text: "onsite booked for Friday", Timestamp: chatTime.Add(48 * time.Hour)},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, candidates.StatusExplicit, rec.Status)
	assert.Contains(t, rec.Evidence, `"onsite"`, "the fresher explicit signal carries the evidence line")
}

func TestChatSilenceIsUnclear(t *testing.T) {
	c := NewChat(DefaultRules())

	rec, err := c.Infer(chatRecord(&sources.ChatPayload{
		ParentText:  "Jane Doe - <https://linkedin.com/in/jane-doe>",
		SubmittedAt: chatTime,
	}))
	require.NoError(t, err)
	assert.Equal(t, candidates.StatusUnclear, rec.Status)
	assert.Empty(t, rec.Signals)
}

func TestChatMissingPayloadErrors(t *testing.T) {
	c := NewChat(DefaultRules())
	_, err := c.Infer(sources.Record{Source: candidates.SourceChat})
	require.Error(t, err)
}

func TestChatObservedAtTracksLatestReply(t *testing.T) {
	c := NewChat(DefaultRules())
	last := chatTime.Add(72 * time.Hour)

	rec, err := c.Infer(chatRecord(&sources.ChatPayload{
		ParentText:  "Jane Doe - <https://linkedin.com/in/jane-doe>",
		SubmittedAt: chatTime,
		Thread: []sources.ChatMessage{
			{Text: "pinged the client", Timestamp: last},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, last, rec.ObservedAt)
}
