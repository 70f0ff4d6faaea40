package talentsync

import (
	"time"

	"github.com/candidatelabs/talentsync/internal/drafter"
	"github.com/candidatelabs/talentsync/internal/store"
	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/errors"
	"github.com/candidatelabs/talentsync/pkg/identity"
	"github.com/candidatelabs/talentsync/pkg/infer"
	"github.com/candidatelabs/talentsync/pkg/sources"
	"github.com/candidatelabs/talentsync/pkg/synthesize"
)

// Option is a function that configures a TalentSync instance.
type Option func(*client) error

// WithStore sets the roster store. Required.
func WithStore(s *store.Store) Option {
	return func(c *client) error {
		if s == nil {
			return errors.NewConfigError("talentsync", "store must not be nil", nil)
		}
		c.store = s
		return nil
	}
}

// WithSource registers a source client. Registering a second client for the
// same source replaces the first.
func WithSource(sc sources.Client) Option {
	return func(c *client) error {
		if sc == nil {
			return errors.NewConfigError("talentsync", "source client must not be nil", nil)
		}
		c.sources.Set(sc)
		return nil
	}
}

// WithRules sets the inference rule vocabularies.
func WithRules(rules infer.Rules) Option {
	return func(c *client) error {
		if rules.IsZero() {
			return nil
		}
		c.rules = rules
		return nil
	}
}

// WithResolver sets the identity resolver.
func WithResolver(r *identity.Resolver) Option {
	return func(c *client) error {
		if r != nil {
			c.resolver = r
		}
		return nil
	}
}

// WithSynthesizer sets the status synthesizer. Defaults to one built from
// the configured rules.
func WithSynthesizer(s *synthesize.Synthesizer) Option {
	return func(c *client) error {
		c.synth = s
		return nil
	}
}

// WithDrafter sets the check-in and enrichment drafter. Without one, Enrich
// and CheckIns return a config error.
func WithDrafter(d *drafter.Drafter) Option {
	return func(c *client) error {
		c.drafter = d
		return nil
	}
}

// WithWindow sets the sync lookback and lookahead.
func WithWindow(lookback, lookahead time.Duration) Option {
	return func(c *client) error {
		if lookback <= 0 {
			return errors.NewConfigError("talentsync", "lookback must be positive", nil)
		}
		c.window = sources.Window{Lookback: lookback, Lookahead: lookahead}
		return nil
	}
}

// WithClientNamer sets how a client name is derived from a chat channel
// name.
func WithClientNamer(fn func(channel string) string) Option {
	return func(c *client) error {
		if fn != nil {
			c.clientNamer = fn
		}
		return nil
	}
}

// SyncOption narrows a single Sync run.
type SyncOption func(*syncConfig)

type syncConfig struct {
	only    []candidates.Source
	clients []string
}

// WithOnly restricts the run to the named sources.
func WithOnly(srcs ...candidates.Source) SyncOption {
	return func(sc *syncConfig) {
		sc.only = append(sc.only, srcs...)
	}
}

// WithClients restricts the run to candidates of the named clients.
func WithClients(clients ...string) SyncOption {
	return func(sc *syncConfig) {
		sc.clients = append(sc.clients, clients...)
	}
}
