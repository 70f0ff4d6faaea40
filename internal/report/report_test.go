package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/identity"
)

func reportRoster() *candidates.Roster {
	roster := candidates.NewRoster()
	roster.Put(candidates.CandidateRecord{
		Key:         identity.Key("https://linkedin.com/in/jane-doe"),
		Name:        "Jane Doe",
		Client:      "Acme",
		Status:      candidates.StatusExplicit,
		SummaryLine: "Submitted 8/10 - onsite scheduled 8/22",
		Enrichment:  candidates.Enrichment{Summary: "Strong backend candidate mid-loop."},
	})
	roster.Put(candidates.CandidateRecord{
		Key:           identity.Key("https://linkedin.com/in/bobsmith"),
		Name:          "Bob Smith",
		Client:        "Acme",
		Status:        candidates.StatusClosed,
		SummaryLine:   "Submitted 8/01 - closed",
		FlagForReview: true,
	})
	roster.Put(candidates.CandidateRecord{
		Key:           identity.Key("name:recruit-big-bank/carol jones"),
		Name:          "Carol Jones",
		Client:        "Big Bank",
		Status:        candidates.StatusUnclear,
		SummaryLine:   "Submitted 8/05 - any update on where things stand?",
		NeedsFollowup: true,
	})
	return roster
}

func TestMarkdownReport(t *testing.T) {
	out := Markdown(reportRoster())

	assert.Contains(t, out, "# Candidate Status")
	assert.Contains(t, out, "3 candidates across 2 clients")
	assert.Contains(t, out, "## Acme")
	assert.Contains(t, out, "## Big Bank")
	assert.Contains(t, out, "- [active] **Jane Doe** - Submitted 8/10 - onsite scheduled 8/22")
	assert.Contains(t, out, "- [closed] **Bob Smith** - Submitted 8/01 - closed ⚑ review")
	assert.Contains(t, out, "⏰ follow up")
	assert.Contains(t, out, "  - Strong backend candidate mid-loop.")

	// Closed candidates sink to the bottom of their client group.
	acme := out[strings.Index(out, "## Acme"):]
	assert.Less(t, strings.Index(acme, "Jane Doe"), strings.Index(acme, "Bob Smith"))
}

func TestMarkdownEmptyClientIsUnassigned(t *testing.T) {
	roster := candidates.NewRoster()
	roster.Put(candidates.CandidateRecord{
		Key:    identity.Key("name:jane doe"),
		Name:   "Jane Doe",
		Status: candidates.StatusNoData,
	})

	out := Markdown(roster)
	assert.Contains(t, out, "## Unassigned")
	assert.Contains(t, out, "[no data]")
}

func TestJSONReport(t *testing.T) {
	out, err := JSON(reportRoster())
	require.NoError(t, err)

	var doc struct {
		Candidates int                                     `json:"candidates"`
		Clients    map[string][]candidates.CandidateRecord `json:"clients"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, 3, doc.Candidates)
	assert.Len(t, doc.Clients["Acme"], 2)
	assert.Equal(t, "Carol Jones", doc.Clients["Big Bank"][0].Name)
}

func TestRenderFormats(t *testing.T) {
	roster := reportRoster()

	md, err := Render(roster, FormatMarkdown)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(md, "# Candidate Status"))

	def, err := Render(roster, "")
	require.NoError(t, err)
	assert.Equal(t, md[:20], def[:20])

	js, err := Render(roster, FormatJSON)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(js)))

	_, err = Render(roster, Format("xml"))
	assert.Error(t, err)
}
