package infer

import (
	"fmt"
	"strings"

	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/errors"
	"github.com/candidatelabs/talentsync/pkg/sources"
)

// ATS infers status from applicant-tracking pipeline data. Stage labels are
// free-form text configured per tenant, so matching is substring-based rather
// than an enum comparison.
type ATS struct {
	rules Rules
}

// NewATS creates the ATS inferencer.
func NewATS(rules Rules) *ATS {
	return &ATS{rules: rules}
}

// Source returns candidates.SourceATS.
func (a *ATS) Source() candidates.Source {
	return candidates.SourceATS
}

// Infer applies the ATS rule set.
//
// A rejection term anywhere in the pipeline stage, decision stage, or
// recommendation closes the candidate. A concrete pipeline stage, or an
// offer/hire decision, is explicit evidence. A bare interview-plan stage
// with no pipeline context stays unclear: it says where the candidate sits,
// not whether anyone has acted lately.
func (a *ATS) Infer(rec sources.Record) (candidates.SourceRecord, error) {
	payload := rec.ATS
	if payload == nil {
		return candidates.SourceRecord{}, errors.NewValidationError("record", rec.Source, "ats payload missing")
	}

	out := candidates.SourceRecord{
		Source:     candidates.SourceATS,
		Channel:    rec.Channel,
		ObservedAt: rec.ObservedAt,
	}
	if !payload.LastActivityAt.IsZero() && payload.LastActivityAt.After(out.ObservedAt) {
		out.ObservedAt = payload.LastActivityAt
	}

	stamp := func(stage string) candidates.Signal {
		return candidates.NewStage(stage, out.ObservedAt)
	}

	for _, field := range []struct {
		label string
		value string
	}{
		{"pipeline stage", payload.PipelineStage},
		{"stage", payload.CurrentStage},
		{"recommendation", payload.Recommendation},
	} {
		if field.value == "" {
			continue
		}
		if term, ok := containsSubstring(field.value, a.rules.RejectionTerms); ok {
			out.Status = candidates.StatusClosed
			out.Signals = []candidates.Signal{stamp(field.value)}
			out.Evidence = fmt.Sprintf("%s %q matched %q", field.label, field.value, term)
			return out, nil
		}
	}

	decision := strings.ToLower(payload.Recommendation)
	switch {
	case strings.Contains(decision, "offer") || strings.Contains(decision, "hire"):
		out.Status = candidates.StatusExplicit
		out.Signals = []candidates.Signal{stamp(payload.Recommendation)}
		out.Evidence = fmt.Sprintf("decision %q", payload.Recommendation)
	case payload.PipelineStage != "":
		out.Status = candidates.StatusExplicit
		out.Signals = []candidates.Signal{stamp(payload.PipelineStage)}
		out.Evidence = fmt.Sprintf("in pipeline stage %q", payload.PipelineStage)
		if payload.DaysInStage > 0 {
			out.Evidence = fmt.Sprintf("in pipeline stage %q for %dd", payload.PipelineStage, payload.DaysInStage)
		}
	case payload.CurrentStage != "":
		out.Status = candidates.StatusUnclear
		out.Signals = []candidates.Signal{stamp(payload.CurrentStage)}
		out.Evidence = fmt.Sprintf("interview plan stage %q, no pipeline activity", payload.CurrentStage)
	default:
		out.Status = candidates.StatusUnclear
		out.Evidence = "present in tracker without stage data"
	}

	return out, nil
}
