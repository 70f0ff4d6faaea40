package candidates

import (
	"reflect"
	"time"

	"github.com/candidatelabs/talentsync/pkg/logging"
)

// MergeOption configures a merge operation.
type MergeOption func(*mergeOptions)

type mergeOptions struct {
	clearEnrichment bool
	now             time.Time
}

// WithClearEnrichment invalidates previously stored enrichment fields
// instead of preserving them.
func WithClearEnrichment() MergeOption {
	return func(o *mergeOptions) {
		o.clearEnrichment = true
	}
}

// WithMergeTime overrides the merge timestamp. Used by tests.
func WithMergeTime(now time.Time) MergeOption {
	return func(o *mergeOptions) {
		o.now = now
	}
}

// Merge performs a field-level upsert of incoming into the roster.
//
// Field ownership: source records, canonical status, summary line, and the
// flags derived from synthesis are replaced by the incoming values. The
// enrichment block is left untouched unless WithClearEnrichment is given or
// the incoming record itself carries fresh enrichment. Applying the same
// incoming record twice yields the same stored state as applying it once.
func (r *Roster) Merge(incoming CandidateRecord, opts ...MergeOption) CandidateRecord {
	options := &mergeOptions{now: time.Now().UTC()}
	for _, opt := range opts {
		opt(options)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, found := r.candidates[incoming.Key]
	if !found {
		merged := incoming.Copy()
		if merged.UpdatedAt.IsZero() {
			merged.UpdatedAt = options.now
		}
		if options.clearEnrichment {
			merged.Enrichment = Enrichment{}
		}
		r.candidates[incoming.Key] = merged
		return merged.Copy()
	}

	merged := existing.Copy()

	// Descriptive fields: take the incoming value when present.
	if incoming.Name != "" {
		merged.Name = incoming.Name
	}
	if incoming.ProfileURL != "" {
		merged.ProfileURL = incoming.ProfileURL
	}
	if incoming.Client != "" {
		merged.Client = incoming.Client
	}
	if incoming.Channel != "" {
		merged.Channel = incoming.Channel
	}
	if !incoming.SubmittedAt.IsZero() {
		merged.SubmittedAt = incoming.SubmittedAt
	}

	// Source-owned records: replaced per source, other sources kept.
	for src, rec := range incoming.Records {
		if prior, ok := merged.Records[src]; ok && prior.ObservedAt.After(rec.ObservedAt) {
			// Should not occur under correct ownership; most recent wins.
			logging.Warn().
				Str("key", incoming.Key.String()).
				Str("source", src.String()).
				Time("prior_observed_at", prior.ObservedAt).
				Time("incoming_observed_at", rec.ObservedAt).
				Msg("Merge conflict: stale source record ignored")
			continue
		}
		merged.SetRecord(rec)
	}

	// Synthesis-owned fields: fully replaced when the incoming record
	// carries a synthesis.
	if incoming.Status != "" {
		merged.Status = incoming.Status
		merged.SummaryLine = incoming.SummaryLine
		merged.DrivingSource = incoming.DrivingSource
		merged.FlagForReview = incoming.FlagForReview
		merged.NeedsFollowup = incoming.NeedsFollowup
	}

	// Enrichment: independently owned, preserved unless invalidated or
	// superseded by fresher enrichment.
	switch {
	case options.clearEnrichment:
		merged.Enrichment = Enrichment{}
	case !incoming.Enrichment.IsZero() && incoming.Enrichment.EnrichedAt.After(merged.Enrichment.EnrichedAt):
		merged.Enrichment = incoming.Enrichment
	}

	// Idempotence: re-applying an identical incoming record must not move
	// the stored state, including its timestamp.
	merged.UpdatedAt = existing.UpdatedAt
	if !reflect.DeepEqual(merged, existing) {
		merged.UpdatedAt = options.now
	}

	r.candidates[incoming.Key] = merged
	return merged.Copy()
}
