package cmd

import (
	"context"

	"github.com/candidatelabs/talentsync"
	"github.com/candidatelabs/talentsync/internal/config"
	"github.com/candidatelabs/talentsync/internal/drafter"
	"github.com/candidatelabs/talentsync/internal/sources/ats"
	"github.com/candidatelabs/talentsync/internal/sources/calendar"
	"github.com/candidatelabs/talentsync/internal/sources/chat"
	"github.com/candidatelabs/talentsync/internal/sources/email"
	"github.com/candidatelabs/talentsync/internal/sources/google"
	"github.com/candidatelabs/talentsync/internal/store"
	"github.com/candidatelabs/talentsync/pkg/identity"
	"github.com/candidatelabs/talentsync/pkg/synthesize"
)

// buildEngine wires a TalentSync instance from the loaded configuration.
// Sources are attached only when enabled and configured; the drafter only
// when withDrafter is set, since most commands never generate text.
func buildEngine(ctx context.Context, cfg *config.Config, withDrafter bool) (talentsync.TalentSync, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []talentsync.Option{
		talentsync.WithStore(store.New(cfg.RosterPath)),
		talentsync.WithRules(cfg.Rules),
		talentsync.WithWindow(cfg.Lookback(), cfg.CalendarLookahead()),
		talentsync.WithClientNamer(func(channel string) string {
			return chat.ClientName(channel, cfg.ChannelPrefix)
		}),
	}

	if len(cfg.Nicknames) > 0 {
		opts = append(opts, talentsync.WithResolver(identity.NewResolver(cfg.Nicknames)))
	}
	opts = append(opts, talentsync.WithSynthesizer(
		synthesize.New(cfg.Rules,
			synthesize.WithFollowupAfter(cfg.FollowupAfter()),
			synthesize.WithInactivityAfter(cfg.InactivityAfter()),
		),
	))

	if cfg.ChatEnabled {
		chatOpts := []chat.Option{chat.WithChannelPrefix(cfg.ChannelPrefix)}
		if len(cfg.Channels) > 0 {
			chatOpts = append(chatOpts, chat.WithChannels(cfg.Channels))
		}
		opts = append(opts, talentsync.WithSource(chat.New(cfg.ChatToken, chatOpts...)))
	}

	if cfg.ATSEnabled {
		opts = append(opts, talentsync.WithSource(ats.New(cfg.ATSExportDir)))
	}

	if cfg.EmailEnabled || cfg.CalendarEnabled {
		httpClient, err := google.NewHTTPClient(ctx, cfg.GoogleCredentialsFile, cfg.GoogleTokenFile)
		if err != nil {
			return nil, err
		}
		if cfg.EmailEnabled {
			emailClient, err := email.New(ctx, httpClient)
			if err != nil {
				return nil, err
			}
			opts = append(opts, talentsync.WithSource(emailClient))
		}
		if cfg.CalendarEnabled {
			calendarClient, err := calendar.New(ctx, httpClient)
			if err != nil {
				return nil, err
			}
			opts = append(opts, talentsync.WithSource(calendarClient))
		}
	}

	if withDrafter {
		gen, err := drafter.NewGemini(ctx, cfg.GeminiAPIKey, cfg.DraftModel)
		if err != nil {
			return nil, err
		}
		opts = append(opts, talentsync.WithDrafter(drafter.New(gen)))
	}

	return talentsync.New(opts...)
}
