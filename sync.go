package talentsync

import (
	"context"
	"strings"
	"time"

	"github.com/candidatelabs/talentsync/internal/drafter"
	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/errors"
	"github.com/candidatelabs/talentsync/pkg/identity"
	"github.com/candidatelabs/talentsync/pkg/infer"
	"github.com/candidatelabs/talentsync/pkg/jobs"
	"github.com/candidatelabs/talentsync/pkg/logging"
	"github.com/candidatelabs/talentsync/pkg/sources"
)

// SyncResult reports what one reconciliation run did.
type SyncResult struct {
	Sources    []candidates.Source `json:"sources" yaml:"sources"`
	Fetched    int                 `json:"fetched" yaml:"fetched"`
	Merged     int                 `json:"merged" yaml:"merged"`
	Skipped    int                 `json:"skipped" yaml:"skipped"`
	Candidates int                 `json:"candidates" yaml:"candidates"`
	// Duplicates lists key pairs that look like the same person seen in
	// different client contexts. They are surfaced, never auto-merged.
	Duplicates [][2]identity.Key `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
	// Degraded lists sources that were unreachable this run. Candidates
	// keep stale data from previous runs plus an explicit no-data stamp.
	Degraded []candidates.Source `json:"degraded,omitempty" yaml:"degraded,omitempty"`
	Duration time.Duration       `json:"duration" yaml:"duration"`
}

// EnrichResult reports what one enrichment run did.
type EnrichResult struct {
	Enriched int `json:"enriched" yaml:"enriched"`
	Failed   int `json:"failed" yaml:"failed"`
	Skipped  int `json:"skipped" yaml:"skipped"`
}

// Sync runs the pipeline: fetch raw records from each source, resolve
// identities, infer per-source statuses, merge into the roster, synthesize
// canonical statuses, and persist. Discovery sources (chat, tracker) run
// before scoped sources (email, calendar) so the latter have names to
// search for.
func (c *client) Sync(ctx context.Context, opts ...SyncOption) (*SyncResult, error) {
	var cfg syncConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	log := logging.FromContext(ctx)
	start := time.Now()

	roster, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{}
	for _, src := range candidates.Sources() {
		if len(cfg.only) > 0 && !containsSource(cfg.only, src) {
			continue
		}
		sc, ok := c.sources.Get(src)
		if !ok {
			continue
		}
		result.Sources = append(result.Sources, src)

		scope := &sources.Scope{Clients: cfg.clients}
		if !src.Authoritative() {
			scope.Candidates = rosterIdentities(roster, cfg.clients)
		}

		records, err := sc.FetchRecords(ctx, c.window, scope)
		if err != nil {
			// An unreachable or unauthenticated source degrades the run
			// instead of aborting it: the other sources still sync, and
			// the failed one contributes explicit no-data records.
			if errors.IsSourceUnavailable(err) || errors.IsAuthExpired(err) {
				log.Warn().Err(err).
					Str("source", string(src)).
					Msg("Source unavailable, continuing without it")
				result.Degraded = append(result.Degraded, src)
				continue
			}
			return result, err
		}
		result.Fetched += len(records)

		inferencer, err := infer.ForSource(src, c.rules)
		if err != nil {
			return result, err
		}

		for _, rec := range records {
			if err := c.mergeRecord(roster, inferencer, rec); err != nil {
				log.Warn().Err(err).
					Str("source", string(src)).
					Str("name", rec.Identity.Name).
					Msg("Skipping record")
				result.Skipped++
				continue
			}
			result.Merged++
		}

		c.backfillNoData(roster, src)
	}

	// Degraded sources stamp their no-data sentinel after the loop, so
	// candidates discovered by sources that ran later still get one.
	for _, src := range result.Degraded {
		c.backfillNoData(roster, src)
	}

	c.synthesizeAll(roster)
	result.Duplicates = possibleDuplicates(c.resolver, roster)
	for _, pair := range result.Duplicates {
		log.Warn().
			Str("a", string(pair[0])).
			Str("b", string(pair[1])).
			Msg("Possible duplicate candidate across clients")
	}

	if err := c.store.Save(ctx, roster); err != nil {
		return result, err
	}

	result.Candidates = roster.Len()
	result.Duration = time.Since(start)
	log.Info().
		Int("fetched", result.Fetched).
		Int("merged", result.Merged).
		Int("skipped", result.Skipped).
		Int("candidates", result.Candidates).
		Dur("elapsed", result.Duration).
		Msg("Sync complete")
	return result, nil
}

// mergeRecord resolves one raw record to a key, infers its source status,
// and merges the partial candidate into the roster.
func (c *client) mergeRecord(roster *candidates.Roster, inferencer infer.Inferencer, rec sources.Record) error {
	key, err := c.resolver.Resolve(rec.Identity)
	if err != nil {
		return err
	}

	srcRec, err := inferencer.Infer(rec)
	if err != nil {
		return err
	}
	srcRec.Key = key

	partial := candidates.CandidateRecord{
		Key:     key,
		Name:    rec.Identity.Name,
		Channel: rec.Channel,
	}
	if rec.Identity.ProfileURL != "" {
		partial.ProfileURL = identity.CanonicalProfileURL(rec.Identity.ProfileURL)
	}
	if rec.Channel != "" {
		partial.Client = c.clientNamer(rec.Channel)
	}
	if rec.Chat != nil {
		partial.SubmittedAt = rec.Chat.SubmittedAt
	}
	partial.SetRecord(srcRec)

	roster.Merge(partial)
	return nil
}

// backfillNoData stamps the explicit no-data sentinel on candidates the
// source was asked about but did not mention, so synthesis can tell
// "checked, nothing there" from "never checked".
func (c *client) backfillNoData(roster *candidates.Roster, src candidates.Source) {
	for _, rec := range roster.List() {
		if _, ok := rec.Record(src); ok {
			continue
		}
		partial := candidates.CandidateRecord{Key: rec.Key}
		partial.SetRecord(infer.NoData(src, rec.Key, "no activity in window"))
		roster.Merge(partial)
	}
}

// synthesizeAll recomputes the canonical status of every candidate.
func (c *client) synthesizeAll(roster *candidates.Roster) {
	for _, rec := range roster.List() {
		roster.Merge(c.synth.Synthesize(rec))
	}
}

// Enrich generates a summary for every open candidate without a current
// one. Failures are isolated per candidate; existing enrichments stay
// untouched.
func (c *client) Enrich(ctx context.Context) (*EnrichResult, error) {
	if c.drafter == nil {
		return nil, errors.NewConfigError("talentsync", "no drafter configured", nil)
	}

	log := logging.FromContext(ctx)
	roster, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := &EnrichResult{}
	for _, rec := range roster.List() {
		if err := ctx.Err(); err != nil {
			return result, errors.WrapJob(string(jobs.KindEnrich), err)
		}
		if !rec.Enrichment.IsZero() || rec.Status == candidates.StatusClosed {
			result.Skipped++
			continue
		}

		summary, err := c.drafter.Enrich(ctx, rec)
		if err != nil {
			log.Warn().Err(err).Str("name", rec.Name).Msg("Enrichment failed")
			result.Failed++
			continue
		}

		rec.Enrichment = candidates.Enrichment{
			Summary:    summary,
			EnrichedAt: time.Now().UTC(),
		}
		roster.Merge(rec)
		result.Enriched++
	}

	if err := c.store.Save(ctx, roster); err != nil {
		return result, err
	}
	return result, nil
}

// CheckIns drafts one message per client with open candidates and caches
// the result for the HTTP surface.
func (c *client) CheckIns(ctx context.Context) ([]drafter.CheckIn, error) {
	if c.drafter == nil {
		return nil, errors.NewConfigError("talentsync", "no drafter configured", nil)
	}

	roster, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	checkIns, err := c.drafter.CheckIns(ctx, roster.ByClient())
	if err != nil {
		return checkIns, err
	}

	c.mu.Lock()
	c.lastCheckIns = checkIns
	c.mu.Unlock()
	return checkIns, nil
}

// StartJob launches the operation behind kind as a background job.
func (c *client) StartJob(ctx context.Context, kind jobs.Kind) error {
	return c.registry.Start(ctx, kind, c.jobFn(kind))
}

// PollJob returns the state of the latest execution of kind.
func (c *client) PollJob(kind jobs.Kind) (jobs.Status, bool) {
	return c.registry.Poll(kind)
}

// CancelJob requests cancellation of a running job of kind.
func (c *client) CancelJob(kind jobs.Kind) bool {
	return c.registry.Cancel(kind)
}

func (c *client) jobFn(kind jobs.Kind) jobs.Fn {
	return func(ctx context.Context, t *jobs.Tracker) error {
		switch kind {
		case jobs.KindSyncChat:
			return c.syncJob(ctx, t, candidates.SourceChat)
		case jobs.KindSyncATS:
			return c.syncJob(ctx, t, candidates.SourceATS)
		case jobs.KindSyncEmail:
			return c.syncJob(ctx, t, candidates.SourceEmail)
		case jobs.KindSyncCalendar:
			return c.syncJob(ctx, t, candidates.SourceCalendar)
		case jobs.KindEnrich:
			t.SetStage("enriching")
			result, err := c.Enrich(ctx)
			if result != nil {
				total := result.Enriched + result.Failed + result.Skipped
				t.SetTotal(total)
				t.Advance(total)
			}
			return err
		case jobs.KindGenerateCheckins:
			t.SetStage("drafting")
			checkIns, err := c.CheckIns(ctx)
			t.SetTotal(len(checkIns))
			t.Advance(len(checkIns))
			return err
		default:
			return errors.NewValidationError("kind", string(kind), "unknown job kind")
		}
	}
}

func (c *client) syncJob(ctx context.Context, t *jobs.Tracker, src candidates.Source) error {
	t.SetStage("syncing " + string(src))
	result, err := c.Sync(ctx, WithOnly(src))
	if result != nil {
		t.SetTotal(result.Fetched)
		t.Advance(result.Merged + result.Skipped)
	}
	return err
}

// rosterIdentities lists the identities the scoped sources should search
// for, optionally narrowed to specific clients.
func rosterIdentities(roster *candidates.Roster, clients []string) []identity.Identity {
	var out []identity.Identity
	for _, rec := range roster.List() {
		if len(clients) > 0 && !containsFold(clients, rec.Client) {
			continue
		}
		out = append(out, identity.Identity{
			ProfileURL: rec.ProfileURL,
			Name:       rec.Name,
			Context:    rec.Channel,
		})
	}
	return out
}

// possibleDuplicates finds candidate pairs matching by name across
// different client contexts. Low-confidence matches are reported for a
// human decision, never merged.
func possibleDuplicates(resolver *identity.Resolver, roster *candidates.Roster) [][2]identity.Key {
	recs := roster.List()
	var out [][2]identity.Key
	for i := 0; i < len(recs); i++ {
		for j := i + 1; j < len(recs); j++ {
			a := identity.Identity{ProfileURL: recs[i].ProfileURL, Name: recs[i].Name, Context: recs[i].Channel}
			b := identity.Identity{ProfileURL: recs[j].ProfileURL, Name: recs[j].Name, Context: recs[j].Channel}
			if resolver.Match(a, b) == identity.MatchLow {
				out = append(out, [2]identity.Key{recs[i].Key, recs[j].Key})
			}
		}
	}
	return out
}

func containsSource(list []candidates.Source, src candidates.Source) bool {
	for _, s := range list {
		if s == src {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
