// Package candidates defines the unified candidate data model: per-source
// records, typed signals, the canonical status vocabulary, and the roster
// container that holds the reconciled candidate set.
package candidates

import (
	"time"

	"github.com/candidatelabs/talentsync/pkg/identity"
)

// SourceRecord is one source's view of a candidate. It is owned by, and only
// ever written by, the inferencer for that source.
type SourceRecord struct {
	Source     Source       `yaml:"source" json:"source"`
	Key        identity.Key `yaml:"key" json:"key"`
	Channel    string       `yaml:"channel,omitempty" json:"channel,omitempty"`
	Status     Status       `yaml:"status" json:"status"`
	Signals    []Signal     `yaml:"signals,omitempty" json:"signals,omitempty"`
	Evidence   string       `yaml:"evidence,omitempty" json:"evidence,omitempty"`
	ObservedAt time.Time    `yaml:"observed_at" json:"observed_at"`
}

// LatestSignal returns the most recent signal, or nil when there are none.
func (r *SourceRecord) LatestSignal() *Signal {
	var latest *Signal
	for i := range r.Signals {
		if latest == nil || r.Signals[i].Timestamp.After(latest.Timestamp) {
			latest = &r.Signals[i]
		}
	}
	return latest
}

// Enrichment holds independently-owned fields written by the enrichment job.
// They survive resynchronization untouched unless explicitly invalidated.
type Enrichment struct {
	Summary    string    `yaml:"summary,omitempty" json:"summary,omitempty"`
	EnrichedAt time.Time `yaml:"enriched_at,omitempty" json:"enriched_at,omitempty"`
}

// IsZero reports whether the enrichment carries any data.
func (e Enrichment) IsZero() bool {
	return e.Summary == "" && e.EnrichedAt.IsZero()
}

// CandidateRecord is the persisted, unified view of one candidate across all
// sources, keyed by identity.Key.
type CandidateRecord struct {
	Key        identity.Key `yaml:"key" json:"key"`
	Name       string       `yaml:"name" json:"name"`
	ProfileURL string       `yaml:"profile_url,omitempty" json:"profile_url,omitempty"`
	Client     string       `yaml:"client,omitempty" json:"client,omitempty"`
	Channel    string       `yaml:"channel,omitempty" json:"channel,omitempty"`

	// Source-owned fields, fully replaced by the latest synthesis.
	Records       map[Source]SourceRecord `yaml:"records,omitempty" json:"records,omitempty"`
	Status        Status                  `yaml:"status" json:"status"`
	SummaryLine   string                  `yaml:"summary_line,omitempty" json:"summary_line,omitempty"`
	DrivingSource Source                  `yaml:"driving_source,omitempty" json:"driving_source,omitempty"`
	FlagForReview bool                    `yaml:"flag_for_review,omitempty" json:"flag_for_review,omitempty"`
	NeedsFollowup bool                    `yaml:"needs_followup,omitempty" json:"needs_followup,omitempty"`

	// Independently-owned enrichment, preserved across resyncs.
	Enrichment Enrichment `yaml:"enrichment,omitempty" json:"enrichment,omitempty"`

	SubmittedAt time.Time `yaml:"submitted_at,omitempty" json:"submitted_at,omitempty"`
	UpdatedAt   time.Time `yaml:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Record returns the source record for the given source, if present.
func (c *CandidateRecord) Record(source Source) (SourceRecord, bool) {
	rec, ok := c.Records[source]
	return rec, ok
}

// SetRecord replaces the record for a source.
func (c *CandidateRecord) SetRecord(rec SourceRecord) {
	if c.Records == nil {
		c.Records = make(map[Source]SourceRecord)
	}
	c.Records[rec.Source] = rec
}

// Copy returns a deep copy of the record.
func (c *CandidateRecord) Copy() CandidateRecord {
	out := *c
	if c.Records != nil {
		out.Records = make(map[Source]SourceRecord, len(c.Records))
		for src, rec := range c.Records {
			copied := rec
			copied.Signals = append([]Signal(nil), rec.Signals...)
			out.Records[src] = copied
		}
	}
	return out
}
