// Package ats loads candidate pipeline data from applicant-tracker JSON
// exports. The tracker has no usable API surface for this workflow, so an
// operator drops periodic exports into a directory and the newest one wins.
package ats

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/errors"
	"github.com/candidatelabs/talentsync/pkg/identity"
	"github.com/candidatelabs/talentsync/pkg/logging"
	"github.com/candidatelabs/talentsync/pkg/sources"
)

// Client reads the most recent export file from a directory.
// Implements sources.Client.
type Client struct {
	dir string
}

// New creates a tracker export client reading from dir.
func New(dir string) *Client {
	return &Client{dir: dir}
}

// Source returns candidates.SourceATS.
func (c *Client) Source() candidates.Source {
	return candidates.SourceATS
}

// exportEntry is one candidate row in the export file.
type exportEntry struct {
	Name           string    `json:"name"`
	LinkedInURL    string    `json:"linkedin_url"`
	Client         string    `json:"client"`
	Job            string    `json:"job"`
	PipelineStage  string    `json:"pipeline_stage"`
	CurrentStage   string    `json:"current_stage"`
	StageType      string    `json:"stage_type"`
	Recommendation string    `json:"recommendation"`
	DaysInStage    int       `json:"days_in_stage"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// export allows both a bare array and an object wrapper, since different
// tracker report templates emit both shapes.
type export struct {
	Candidates []exportEntry `json:"candidates"`
}

// FetchRecords parses the newest export in the directory. Entries without
// last activity inside the window are still returned: tracker presence is
// roster membership, and stale activity is itself a signal.
func (c *Client) FetchRecords(ctx context.Context, _ sources.Window, scope *sources.Scope) ([]sources.Record, error) {
	path, modTime, err := c.latestExport()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	entries, err := parseExport(path, data)
	if err != nil {
		return nil, err
	}

	var records []sources.Record
	for _, entry := range entries {
		client := entry.Client
		if client == "" {
			client = entry.Job
		}
		if scope != nil && len(scope.Clients) > 0 && !containsFold(scope.Clients, client) {
			continue
		}

		observed := entry.LastActivityAt
		if observed.IsZero() {
			observed = modTime
		}

		records = append(records, sources.Record{
			Source: candidates.SourceATS,
			Identity: identity.Identity{
				ProfileURL: entry.LinkedInURL,
				Name:       entry.Name,
				Context:    client,
			},
			Channel:    client,
			ObservedAt: observed,
			ATS: &sources.ATSPayload{
				PipelineStage:  entry.PipelineStage,
				CurrentStage:   entry.CurrentStage,
				StageType:      entry.StageType,
				DaysInStage:    entry.DaysInStage,
				Recommendation: entry.Recommendation,
				LastActivityAt: entry.LastActivityAt,
			},
		})
	}

	logging.FromContext(ctx).Debug().
		Str("export", filepath.Base(path)).
		Int("candidates", len(records)).
		Msg("Tracker export loaded")
	return records, nil
}

// latestExport returns the newest .json file in the directory by mod time.
func (c *Client) latestExport() (string, time.Time, error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		return "", time.Time{}, errors.WrapIO("read", c.dir, err)
	}

	var (
		newest    string
		newestMod time.Time
	)
	for _, entry := range dirEntries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = filepath.Join(c.dir, entry.Name())
			newestMod = info.ModTime()
		}
	}

	if newest == "" {
		return "", time.Time{}, errors.NewNotFoundError("tracker export", c.dir)
	}
	return newest, newestMod, nil
}

func parseExport(path string, data []byte) ([]exportEntry, error) {
	var entries []exportEntry
	if err := json.Unmarshal(data, &entries); err == nil {
		return entries, nil
	}

	var wrapped export
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	return wrapped.Candidates, nil
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}
