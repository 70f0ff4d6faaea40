// Package infer maps each source's raw signals onto a per-source status.
// One independent rule set exists per source; the synthesizer depends only
// on the Inferencer capability, never on a concrete variant.
package infer

import (
	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/errors"
	"github.com/candidatelabs/talentsync/pkg/identity"
	"github.com/candidatelabs/talentsync/pkg/sources"
)

// Inferencer derives a source status and its justifying signals from one
// raw record. Implementations are pure: the same record always yields the
// same result.
type Inferencer interface {
	// Source returns which source this inferencer rules on.
	Source() candidates.Source

	// Infer derives the source record for a raw observation.
	Infer(rec sources.Record) (candidates.SourceRecord, error)
}

// ForSource returns the inferencer variant for a source.
func ForSource(source candidates.Source, rules Rules) (Inferencer, error) {
	switch source {
	case candidates.SourceChat:
		return NewChat(rules), nil
	case candidates.SourceATS:
		return NewATS(rules), nil
	case candidates.SourceEmail:
		return NewEmail(rules), nil
	case candidates.SourceCalendar:
		return NewCalendar(rules), nil
	default:
		return nil, errors.NewValidationError("source", source, "no inferencer for source")
	}
}

// NoData builds the explicit "checked, found nothing" sentinel record for a
// source that was unreachable or returned nothing. The synthesizer must be
// able to tell this apart from ambiguous signals.
func NoData(source candidates.Source, key identity.Key, evidence string) candidates.SourceRecord {
	return candidates.SourceRecord{
		Source:   source,
		Key:      key,
		Status:   candidates.StatusNoData,
		Evidence: evidence,
	}
}
