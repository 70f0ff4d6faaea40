package candidates

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candidatelabs/talentsync/pkg/identity"
)

var mergeTime = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func submissionRecord() CandidateRecord {
	rec := CandidateRecord{
		Key:         identity.Key("https://linkedin.com/in/jane-doe"),
		Name:        "Jane Doe",
		ProfileURL:  "https://linkedin.com/in/jane-doe",
		Client:      "Acme",
		Channel:     "recruit-acme",
		SubmittedAt: mergeTime.AddDate(0, 0, -10),
	}
	rec.SetRecord(SourceRecord{
		Source:     SourceChat,
		Key:        rec.Key,
		Status:     StatusExplicit,
		Evidence:   "marked in process via :white_check_mark:",
		ObservedAt: mergeTime.AddDate(0, 0, -2),
	})
	return rec
}

func TestMergeInsertsNewCandidate(t *testing.T) {
	r := NewRoster()
	merged := r.Merge(submissionRecord(), WithMergeTime(mergeTime))

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, "Jane Doe", merged.Name)
	assert.Equal(t, mergeTime, merged.UpdatedAt)
}

func TestMergeIsIdempotent(t *testing.T) {
	r := NewRoster()
	incoming := submissionRecord()

	first := r.Merge(incoming, WithMergeTime(mergeTime))
	second := r.Merge(incoming, WithMergeTime(mergeTime.Add(time.Hour)))

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated merge changed stored state (-first +second):\n%s", diff)
	}
	assert.Equal(t, mergeTime, second.UpdatedAt, "UpdatedAt must not move on a no-op merge")
}

func TestMergeBumpsUpdatedAtOnChange(t *testing.T) {
	r := NewRoster()
	r.Merge(submissionRecord(), WithMergeTime(mergeTime))

	changed := submissionRecord()
	rec := changed.Records[SourceChat]
	rec.Status = StatusClosed
	rec.ObservedAt = mergeTime.AddDate(0, 0, -1)
	changed.SetRecord(rec)

	later := mergeTime.Add(time.Hour)
	merged := r.Merge(changed, WithMergeTime(later))
	assert.Equal(t, later, merged.UpdatedAt)
}

func TestMergeKeepsOtherSources(t *testing.T) {
	r := NewRoster()
	r.Merge(submissionRecord(), WithMergeTime(mergeTime))

	ats := CandidateRecord{Key: submissionRecord().Key}
	ats.SetRecord(SourceRecord{
		Source:     SourceATS,
		Key:        ats.Key,
		Status:     StatusExplicit,
		Evidence:   `in pipeline stage "Onsite"`,
		ObservedAt: mergeTime.AddDate(0, 0, -1),
	})
	merged := r.Merge(ats, WithMergeTime(mergeTime))

	_, hasChat := merged.Record(SourceChat)
	_, hasATS := merged.Record(SourceATS)
	assert.True(t, hasChat, "merging one source must not drop another")
	assert.True(t, hasATS)
}

func TestMergeIgnoresStaleSourceRecord(t *testing.T) {
	r := NewRoster()
	current := submissionRecord()
	r.Merge(current, WithMergeTime(mergeTime))

	stale := CandidateRecord{Key: current.Key}
	stale.SetRecord(SourceRecord{
		Source:     SourceChat,
		Key:        current.Key,
		Status:     StatusClosed,
		ObservedAt: mergeTime.AddDate(0, 0, -30),
	})
	merged := r.Merge(stale, WithMergeTime(mergeTime))

	chat, ok := merged.Record(SourceChat)
	require.True(t, ok)
	assert.Equal(t, StatusExplicit, chat.Status, "older observation must not overwrite newer")
}

func TestMergePreservesEnrichment(t *testing.T) {
	r := NewRoster()
	enriched := submissionRecord()
	enriched.Enrichment = Enrichment{
		Summary:    "Strong backend candidate, onsite pending.",
		EnrichedAt: mergeTime.AddDate(0, 0, -3),
	}
	r.Merge(enriched, WithMergeTime(mergeTime))

	// A resync without enrichment must keep the stored block.
	merged := r.Merge(submissionRecord(), WithMergeTime(mergeTime.Add(time.Hour)))
	assert.False(t, merged.Enrichment.IsZero())
	assert.Equal(t, "Strong backend candidate, onsite pending.", merged.Enrichment.Summary)
}

func TestMergeClearEnrichment(t *testing.T) {
	r := NewRoster()
	enriched := submissionRecord()
	enriched.Enrichment = Enrichment{Summary: "old", EnrichedAt: mergeTime.AddDate(0, 0, -3)}
	r.Merge(enriched, WithMergeTime(mergeTime))

	merged := r.Merge(submissionRecord(), WithMergeTime(mergeTime), WithClearEnrichment())
	assert.True(t, merged.Enrichment.IsZero())
}

func TestMergeFresherEnrichmentWins(t *testing.T) {
	r := NewRoster()
	old := submissionRecord()
	old.Enrichment = Enrichment{Summary: "old", EnrichedAt: mergeTime.AddDate(0, 0, -5)}
	r.Merge(old, WithMergeTime(mergeTime))

	fresh := submissionRecord()
	fresh.Enrichment = Enrichment{Summary: "fresh", EnrichedAt: mergeTime.AddDate(0, 0, -1)}
	merged := r.Merge(fresh, WithMergeTime(mergeTime))
	assert.Equal(t, "fresh", merged.Enrichment.Summary)
}

func TestRosterSnapshotsAreIndependent(t *testing.T) {
	r := NewRoster()
	r.Merge(submissionRecord(), WithMergeTime(mergeTime))

	snapshot := r.Copy()
	closed := submissionRecord()
	rec := closed.Records[SourceChat]
	rec.Status = StatusClosed
	rec.ObservedAt = mergeTime
	closed.SetRecord(rec)
	r.Merge(closed, WithMergeTime(mergeTime.Add(time.Minute)))

	got, ok := snapshot.Get(submissionRecord().Key)
	require.True(t, ok)
	chat, _ := got.Record(SourceChat)
	assert.Equal(t, StatusExplicit, chat.Status, "snapshot must not see later merges")
}
