package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractSubmission(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantURL  string
		wantName string
	}{
		{
			name:     "labeled link carries the name",
			text:     "New submission: <https://linkedin.com/in/jane-doe|Jane Doe> for the backend role",
			wantURL:  "https://linkedin.com/in/jane-doe",
			wantName: "Jane Doe",
		},
		{
			name:     "bare link with name on same line",
			text:     "Jane Doe - https://linkedin.com/in/jane-doe",
			wantURL:  "https://linkedin.com/in/jane-doe",
			wantName: "Jane Doe",
		},
		{
			name:     "angle-bracketed bare link",
			text:     "Bob Smith <https://www.linkedin.com/in/bobsmith123>",
			wantURL:  "https://www.linkedin.com/in/bobsmith123",
			wantName: "Bob Smith",
		},
		{
			name:     "name on preceding line",
			text:     "Maria Garcia Lopez\nhttps://linkedin.com/in/mgarcia",
			wantURL:  "https://linkedin.com/in/mgarcia",
			wantName: "Maria Garcia Lopez",
		},
		{
			name:     "trailing slash trimmed",
			text:     "Jane Doe - https://linkedin.com/in/jane-doe/",
			wantURL:  "https://linkedin.com/in/jane-doe",
			wantName: "Jane Doe",
		},
		{
			name:    "surrounding words rejected as names",
			text:    "submitting this one https://linkedin.com/in/jane-doe please review asap thanks",
			wantURL: "https://linkedin.com/in/jane-doe",
		},
		{
			name:    "email address is not a name",
			text:    "jane@example.com https://linkedin.com/in/jane-doe",
			wantURL: "https://linkedin.com/in/jane-doe",
		},
		{
			name: "no link at all",
			text: "how is Jane doing?",
		},
		{
			name: "non-profile linkedin link ignored",
			text: "see https://linkedin.com/company/acme for context",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, name := extractSubmission(tt.text)
			assert.Equal(t, tt.wantURL, url)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestClientName(t *testing.T) {
	tests := []struct {
		channel string
		prefix  string
		want    string
	}{
		{"recruit-acme-corp", "recruit-", "Acme Corp"},
		{"recruit-acme", "recruit-", "Acme"},
		{"client_big_bank", "client_", "Big Bank"},
		{"acme-eng", "", "Acme Eng"},
		{"recruit-", "recruit-", "recruit-"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClientName(tt.channel, tt.prefix), tt.channel)
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	at := time.Date(2026, 8, 14, 16, 30, 12, 345600000, time.UTC)

	ts := timeToTS(at)
	assert.Equal(t, "1786725012.345600", ts)
	assert.Equal(t, at, tsToTime(ts))

	assert.True(t, tsToTime("").IsZero())
	assert.True(t, tsToTime("not-a-ts").IsZero())
	assert.Equal(t, "0", timeToTS(time.Time{}))

	// Whole-second timestamps parse without a fractional part.
	assert.Equal(t, time.Unix(1786725012, 0).UTC(), tsToTime("1786725012"))
}
