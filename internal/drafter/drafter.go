// Package drafter turns reconciled candidate state into prose: weekly
// check-in messages per client, and short enrichment summaries per
// candidate. Generation uses the Gemini API; when it fails for a client,
// the failure is isolated to that client and a deterministic template
// stands in, so one quota error never blanks the whole report.
package drafter

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/errors"
	"github.com/candidatelabs/talentsync/pkg/logging"
)

// Generator produces text from a prompt. *genai-backed in production,
// stubbed in tests.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Drafter composes check-ins and enrichment summaries.
type Drafter struct {
	gen Generator
}

// CheckIn is one drafted per-client message.
type CheckIn struct {
	Client     string `yaml:"client" json:"client"`
	Message    string `yaml:"message" json:"message"`
	Candidates int    `yaml:"candidates" json:"candidates"`
	// Fallback is true when generation failed and the deterministic
	// template was used instead.
	Fallback bool `yaml:"fallback,omitempty" json:"fallback,omitempty"`
}

// New creates a Drafter over the given generator.
func New(gen Generator) *Drafter {
	return &Drafter{gen: gen}
}

// CheckIns drafts one message per client from the grouped candidate list.
// A generation failure for one client is logged, recorded as a fallback
// draft, and never aborts the remaining clients.
func (d *Drafter) CheckIns(ctx context.Context, byClient map[string][]candidates.CandidateRecord) ([]CheckIn, error) {
	log := logging.FromContext(ctx)

	clients := make([]string, 0, len(byClient))
	for client := range byClient {
		clients = append(clients, client)
	}
	sort.Strings(clients)

	var out []CheckIn
	for _, client := range clients {
		if err := ctx.Err(); err != nil {
			return out, errors.WrapJob("checkins", err)
		}

		group := active(byClient[client])
		if len(group) == 0 {
			continue
		}

		message, err := d.gen.Generate(ctx, checkInPrompt(client, group))
		if err != nil {
			genErr := errors.NewGenerationError(client, "check-in draft failed", err)
			log.Warn().Err(genErr).Str("client", client).Msg("Falling back to template check-in")
			out = append(out, CheckIn{
				Client:     client,
				Message:    FallbackCheckIn(client, group),
				Candidates: len(group),
				Fallback:   true,
			})
			continue
		}

		out = append(out, CheckIn{
			Client:     client,
			Message:    strings.TrimSpace(message),
			Candidates: len(group),
		})
	}
	return out, nil
}

// Enrich produces a one-paragraph summary of a candidate from their source
// evidence. Unlike check-ins there is no fallback: a failed enrichment is
// reported so the caller can leave the existing enrichment untouched.
func (d *Drafter) Enrich(ctx context.Context, rec candidates.CandidateRecord) (string, error) {
	summary, err := d.gen.Generate(ctx, enrichPrompt(rec))
	if err != nil {
		return "", errors.NewGenerationError(rec.Name, "enrichment failed", err)
	}
	return strings.TrimSpace(summary), nil
}

// FallbackCheckIn renders the deterministic template: a greeting plus the
// synthesized one-liner for each active candidate.
func FallbackCheckIn(client string, group []candidates.CandidateRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s team! Quick status check on your candidates:\n", client)
	for _, rec := range group {
		fmt.Fprintf(&b, "- %s: %s\n", rec.Name, rec.SummaryLine)
	}
	b.WriteString("Let us know if anything above is out of date.")
	return b.String()
}

// active filters out closed and flagged candidates; check-ins only chase
// open ones, and anyone flagged for review needs a human decision before
// we nudge the client about them.
func active(group []candidates.CandidateRecord) []candidates.CandidateRecord {
	var out []candidates.CandidateRecord
	for _, rec := range group {
		if rec.Status == candidates.StatusClosed || rec.FlagForReview {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func checkInPrompt(client string, group []candidates.CandidateRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a recruiting coordinator writing a short, friendly weekly check-in message to the %s hiring team.\n", client)
	b.WriteString("Ask for updates on each candidate below. Keep it under 120 words, no subject line, no signature.\n\n")
	b.WriteString("Candidates:\n")
	for _, rec := range group {
		fmt.Fprintf(&b, "- %s: %s (status: %s)\n", rec.Name, rec.SummaryLine, rec.Status)
	}
	return b.String()
}

func enrichPrompt(rec candidates.CandidateRecord) string {
	var b strings.Builder
	b.WriteString("Summarize this recruiting candidate's current situation in one short paragraph for an internal tracker. Facts only, no speculation.\n\n")
	fmt.Fprintf(&b, "Name: %s\n", rec.Name)
	if rec.Client != "" {
		fmt.Fprintf(&b, "Client: %s\n", rec.Client)
	}
	fmt.Fprintf(&b, "Status: %s\n", rec.Status)
	fmt.Fprintf(&b, "Summary: %s\n", rec.SummaryLine)
	for _, src := range candidates.Sources() {
		if sr, ok := rec.Record(src); ok && sr.Evidence != "" {
			fmt.Fprintf(&b, "%s evidence: %s\n", src, sr.Evidence)
		}
	}
	return b.String()
}
