package ats

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/errors"
	"github.com/candidatelabs/talentsync/pkg/sources"
)

func writeExport(t *testing.T, dir, name, body string, mod time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

const bareExport = `[
  {
    "name": "Jane Doe",
    "linkedin_url": "https://linkedin.com/in/jane-doe",
    "client": "Acme",
    "pipeline_stage": "Onsite",
    "stage_type": "interview",
    "days_in_stage": 4,
    "last_activity_at": "2026-08-18T10:00:00Z"
  },
  {
    "name": "Bob Smith",
    "job": "Big Bank - Backend",
    "current_stage": "Sourced"
  }
]`

func TestFetchRecordsReadsNewestExport(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeExport(t, dir, "old.json", `[]`, now.Add(-2*time.Hour))
	writeExport(t, dir, "export.json", bareExport, now.Add(-time.Minute))
	writeExport(t, dir, "notes.txt", "not an export", now)

	records, err := New(dir).FetchRecords(context.Background(), sources.Window{}, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)

	jane := records[0]
	assert.Equal(t, candidates.SourceATS, jane.Source)
	assert.Equal(t, "https://linkedin.com/in/jane-doe", jane.Identity.ProfileURL)
	assert.Equal(t, "Acme", jane.Identity.Context)
	assert.Equal(t, "Onsite", jane.ATS.PipelineStage)
	assert.Equal(t, 4, jane.ATS.DaysInStage)
	assert.Equal(t, time.Date(2026, 8, 18, 10, 0, 0, 0, time.UTC), jane.ObservedAt)

	// No explicit client falls back to the job name; no activity timestamp
	// falls back to the export's mod time.
	bob := records[1]
	assert.Equal(t, "Big Bank - Backend", bob.Identity.Context)
	assert.Empty(t, bob.Identity.ProfileURL)
	assert.WithinDuration(t, now.Add(-time.Minute), bob.ObservedAt, 2*time.Second)
}

func TestFetchRecordsWrappedShape(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "export.json",
		`{"candidates": [{"name": "Jane Doe", "client": "Acme", "current_stage": "Sourced"}]}`,
		time.Now())

	records, err := New(dir).FetchRecords(context.Background(), sources.Window{}, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Jane Doe", records[0].Identity.Name)
	assert.Equal(t, "Sourced", records[0].ATS.CurrentStage)
}

func TestFetchRecordsScopeFiltersByClient(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "export.json", bareExport, time.Now())

	records, err := New(dir).FetchRecords(context.Background(), sources.Window{}, &sources.Scope{
		Clients: []string{"acme"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1, "scope matching is case-insensitive")
	assert.Equal(t, "Jane Doe", records[0].Identity.Name)
}

func TestFetchRecordsNoExportIsNotFound(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "notes.txt", "nothing here", time.Now())

	_, err := New(dir).FetchRecords(context.Background(), sources.Window{}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestFetchRecordsRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "export.json", `{"candidates": "oops"}`, time.Now())

	_, err := New(dir).FetchRecords(context.Background(), sources.Window{}, nil)
	assert.Error(t, err)
}
