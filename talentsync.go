// Package talentsync reconciles recruiting candidate status across chat,
// applicant tracker, email, and calendar sources into a single roster with
// one canonical status per candidate.
package talentsync

import (
	"context"
	"sync"
	"time"

	"github.com/candidatelabs/talentsync/internal/drafter"
	"github.com/candidatelabs/talentsync/internal/store"
	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/errors"
	"github.com/candidatelabs/talentsync/pkg/identity"
	"github.com/candidatelabs/talentsync/pkg/infer"
	"github.com/candidatelabs/talentsync/pkg/jobs"
	"github.com/candidatelabs/talentsync/pkg/sources"
	"github.com/candidatelabs/talentsync/pkg/synthesize"
)

// TalentSync is the public surface of the reconciliation engine.
type TalentSync interface {
	// Roster returns a snapshot of the current reconciled roster.
	Roster(ctx context.Context) (*candidates.Roster, error)

	// Sync runs the reconciliation pipeline for the given sources (all
	// configured sources when none are named) and persists the result.
	Sync(ctx context.Context, opts ...SyncOption) (*SyncResult, error)

	// Enrich generates enrichment summaries for candidates that lack one.
	Enrich(ctx context.Context) (*EnrichResult, error)

	// CheckIns drafts one check-in message per client with open candidates.
	CheckIns(ctx context.Context) ([]drafter.CheckIn, error)

	// LastCheckIns returns the drafts from the most recent check-in run.
	LastCheckIns() []drafter.CheckIn

	// StartJob launches one of the operations above as a background job.
	StartJob(ctx context.Context, kind jobs.Kind) error

	// PollJob returns the state of the latest execution of kind.
	PollJob(kind jobs.Kind) (jobs.Status, bool)

	// CancelJob requests cancellation of a running job.
	CancelJob(kind jobs.Kind) bool

	// Wait blocks until all background jobs finish.
	Wait()
}

// client is the internal implementation of TalentSync.
type client struct {
	mu sync.RWMutex

	store    *store.Store
	sources  *sources.Clients
	resolver *identity.Resolver
	rules    infer.Rules
	synth    *synthesize.Synthesizer
	drafter  *drafter.Drafter
	registry *jobs.Registry

	window      sources.Window
	clientNamer func(channel string) string

	lastCheckIns []drafter.CheckIn
}

// New creates a TalentSync instance with the given options. A store is
// required; sources and the drafter are optional, and operations needing an
// absent collaborator fail with a config error.
func New(opts ...Option) (TalentSync, error) {
	c := &client{
		sources:     sources.NewClients(),
		resolver:    identity.NewResolver(identity.DefaultNicknames()),
		rules:       infer.DefaultRules(),
		registry:    jobs.NewRegistry(),
		clientNamer: func(channel string) string { return channel },
		window: sources.Window{
			Lookback:  14 * 24 * time.Hour,
			Lookahead: 14 * 24 * time.Hour,
		},
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.store == nil {
		return nil, errors.NewConfigError("talentsync", "a roster store is required", nil)
	}
	if c.synth == nil {
		c.synth = synthesize.New(c.rules)
	}
	return c, nil
}

// Roster returns a deep snapshot of the persisted roster.
func (c *client) Roster(ctx context.Context) (*candidates.Roster, error) {
	return c.store.Load(ctx)
}

// Wait blocks until all background jobs finish.
func (c *client) Wait() {
	c.registry.Wait()
}

// LastCheckIns returns the drafts from the most recent check-in run. Used
// by the HTTP surface after a GENERATE_CHECKINS job completes.
func (c *client) LastCheckIns() []drafter.CheckIn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]drafter.CheckIn(nil), c.lastCheckIns...)
}
