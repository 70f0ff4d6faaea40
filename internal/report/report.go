// Package report renders the reconciled roster as a human-readable status
// report, grouped by client, in markdown or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/errors"
)

// Format selects the report output format.
type Format string

const (
	// FormatMarkdown renders the report as markdown.
	FormatMarkdown Format = "markdown"
	// FormatJSON renders the report as indented JSON.
	FormatJSON Format = "json"
)

// statusMarker maps each canonical status to its report marker.
var statusMarker = map[candidates.Status]string{
	candidates.StatusClosed:   "[closed]",
	candidates.StatusExplicit: "[active]",
	candidates.StatusUnclear:  "[unclear]",
	candidates.StatusNoData:   "[no data]",
}

// Render produces the status report in the requested format.
func Render(roster *candidates.Roster, format Format) (string, error) {
	switch format {
	case FormatMarkdown, "":
		return Markdown(roster), nil
	case FormatJSON:
		out, err := JSON(roster)
		return string(out), err
	default:
		return "", errors.NewValidationError("format", string(format), "unknown report format")
	}
}

// Markdown renders the roster grouped by client. Open candidates come
// first inside each group, flagged ones carry a review marker, and overdue
// ones a follow-up marker.
func Markdown(roster *candidates.Roster) string {
	byClient := roster.ByClient()
	clients := make([]string, 0, len(byClient))
	for client := range byClient {
		clients = append(clients, client)
	}
	sort.Strings(clients)

	var b strings.Builder
	fmt.Fprintf(&b, "# Candidate Status - %s\n", time.Now().Format("Jan 2, 2006"))
	fmt.Fprintf(&b, "\n%d candidates across %d clients\n", roster.Len(), len(clients))

	for _, client := range clients {
		name := client
		if name == "" {
			name = "Unassigned"
		}
		fmt.Fprintf(&b, "\n## %s\n\n", name)

		group := byClient[client]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Status.Severity() < group[j].Status.Severity()
		})

		for _, rec := range group {
			fmt.Fprintf(&b, "- %s **%s**", statusMarker[rec.Status], displayName(rec))
			if rec.SummaryLine != "" {
				fmt.Fprintf(&b, " - %s", rec.SummaryLine)
			}
			if rec.FlagForReview {
				b.WriteString(" ⚑ review")
			}
			if rec.NeedsFollowup {
				b.WriteString(" ⏰ follow up")
			}
			b.WriteString("\n")
			if !rec.Enrichment.IsZero() {
				fmt.Fprintf(&b, "  - %s\n", rec.Enrichment.Summary)
			}
		}
	}
	return b.String()
}

type jsonReport struct {
	GeneratedAt time.Time                               `json:"generated_at"`
	Candidates  int                                     `json:"candidates"`
	Clients     map[string][]candidates.CandidateRecord `json:"clients"`
}

// JSON renders the roster grouped by client as indented JSON.
func JSON(roster *candidates.Roster) ([]byte, error) {
	doc := jsonReport{
		GeneratedAt: time.Now().UTC(),
		Candidates:  roster.Len(),
		Clients:     roster.ByClient(),
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.WrapParse("json", "report", err)
	}
	return out, nil
}

func displayName(rec candidates.CandidateRecord) string {
	if rec.Name != "" {
		return rec.Name
	}
	return string(rec.Key)
}
