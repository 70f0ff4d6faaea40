// Package config loads application configuration from config files,
// environment variables, and .env files.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/candidatelabs/talentsync/pkg/errors"
	"github.com/candidatelabs/talentsync/pkg/infer"
)

// Defaults applied when neither config file nor environment provide values.
const (
	DefaultRosterPath            = "data/roster.yaml"
	DefaultLookbackDays          = 14
	DefaultCalendarLookbackDays  = 7
	DefaultCalendarLookaheadDays = 14
	DefaultFollowupAfterDays     = 7
	DefaultInactivityDays        = 5
	DefaultListenAddr            = ":8080"
	DefaultDraftModel            = "gemini-2.0-flash"
)

// Config holds the application configuration loaded from all sources.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	Output  string

	// Config file actually used, if any
	ConfigFile string

	// Roster persistence
	RosterPath string

	// Sync windows
	LookbackDays          int
	CalendarLookbackDays  int
	CalendarLookaheadDays int
	FollowupAfterDays     int
	InactivityDays        int

	// Source toggles
	ChatEnabled     bool
	ATSEnabled      bool
	EmailEnabled    bool
	CalendarEnabled bool

	// Chat source
	ChatToken     string
	ChannelPrefix string
	Channels      []string

	// ATS source
	ATSExportDir string

	// Google sources (email + calendar)
	GoogleCredentialsFile string
	GoogleTokenFile       string

	// Drafting
	GeminiAPIKey string
	DraftModel   string

	// HTTP server
	ListenAddr string

	// Rule vocabularies; zero value means DefaultRules.
	Rules infer.Rules

	// Nickname groups for name matching; zero value means the built-ins.
	Nicknames [][]string

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string
}

// Load reads configuration from all sources in order of precedence:
// command-line flags (handled by cobra), environment variables, .env files,
// a config file (.talentsync.yaml), then defaults.
func Load() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	bindCredentials()
	setDefaults()

	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "failed to read config file", err)
		}
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".talentsync")
		// Missing config file is fine; env and defaults cover everything.
		_ = viper.ReadInConfig()
	}

	cfg := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		Output:  viper.GetString("output"),

		ConfigFile: viper.ConfigFileUsed(),

		RosterPath: viper.GetString("roster_path"),

		LookbackDays:          viper.GetInt("lookback_days"),
		CalendarLookbackDays:  viper.GetInt("calendar_lookback_days"),
		CalendarLookaheadDays: viper.GetInt("calendar_lookahead_days"),
		FollowupAfterDays:     viper.GetInt("followup_after_days"),
		InactivityDays:        viper.GetInt("inactivity_days"),

		ChatEnabled:     viper.GetBool("sources.chat"),
		ATSEnabled:      viper.GetBool("sources.ats"),
		EmailEnabled:    viper.GetBool("sources.email"),
		CalendarEnabled: viper.GetBool("sources.calendar"),

		ChatToken:     viper.GetString("CHAT_TOKEN"),
		ChannelPrefix: viper.GetString("channel_prefix"),
		Channels:      viper.GetStringSlice("channels"),

		ATSExportDir: viper.GetString("ats_export_dir"),

		GoogleCredentialsFile: viper.GetString("GOOGLE_CREDENTIALS_FILE"),
		GoogleTokenFile:       viper.GetString("GOOGLE_TOKEN_FILE"),

		GeminiAPIKey: viper.GetString("GEMINI_API_KEY"),
		DraftModel:   viper.GetString("draft_model"),

		ListenAddr: viper.GetString("listen_addr"),

		LogLevel:  viper.GetString("LOG_LEVEL"),
		LogFormat: viper.GetString("LOG_FORMAT"),
		LogOutput: viper.GetString("LOG_OUTPUT"),
	}

	if err := viper.UnmarshalKey("rules", &cfg.Rules); err != nil {
		return nil, errors.NewConfigError("config", "invalid rules section", err)
	}
	if cfg.Rules.IsZero() {
		cfg.Rules = infer.DefaultRules()
	}
	if err := viper.UnmarshalKey("nicknames", &cfg.Nicknames); err != nil {
		return nil, errors.NewConfigError("config", "invalid nicknames section", err)
	}

	return cfg, nil
}

// Validate checks cross-field requirements for the enabled sources.
func (c *Config) Validate() error {
	if c.ChatEnabled && c.ChatToken == "" {
		return errors.NewConfigError("chat", "CHAT_TOKEN is required when the chat source is enabled", nil)
	}
	if c.ATSEnabled && c.ATSExportDir == "" {
		return errors.NewConfigError("ats", "ats_export_dir is required when the tracker source is enabled", nil)
	}
	if (c.EmailEnabled || c.CalendarEnabled) && c.GoogleCredentialsFile == "" {
		return errors.NewConfigError("google", "GOOGLE_CREDENTIALS_FILE is required for email or calendar sources", nil)
	}
	if c.LookbackDays <= 0 {
		return errors.NewConfigError("config", "lookback_days must be positive", nil)
	}
	return nil
}

// Lookback returns the chat/ATS/email sync window as a duration.
func (c *Config) Lookback() time.Duration {
	return time.Duration(c.LookbackDays) * 24 * time.Hour
}

// CalendarLookback returns how far back calendar sync looks.
func (c *Config) CalendarLookback() time.Duration {
	return time.Duration(c.CalendarLookbackDays) * 24 * time.Hour
}

// CalendarLookahead returns how far forward calendar sync looks.
func (c *Config) CalendarLookahead() time.Duration {
	return time.Duration(c.CalendarLookaheadDays) * 24 * time.Hour
}

// FollowupAfter returns how old an unclear candidate's submission must be
// before a follow-up is considered.
func (c *Config) FollowupAfter() time.Duration {
	return time.Duration(c.FollowupAfterDays) * 24 * time.Hour
}

// InactivityAfter returns how long all sources must be quiet before the
// follow-up fires.
func (c *Config) InactivityAfter() time.Duration {
	return time.Duration(c.InactivityDays) * 24 * time.Hour
}

func setDefaults() {
	viper.SetDefault("roster_path", DefaultRosterPath)
	viper.SetDefault("lookback_days", DefaultLookbackDays)
	viper.SetDefault("calendar_lookback_days", DefaultCalendarLookbackDays)
	viper.SetDefault("calendar_lookahead_days", DefaultCalendarLookaheadDays)
	viper.SetDefault("followup_after_days", DefaultFollowupAfterDays)
	viper.SetDefault("inactivity_days", DefaultInactivityDays)
	viper.SetDefault("listen_addr", DefaultListenAddr)
	viper.SetDefault("draft_model", DefaultDraftModel)
	viper.SetDefault("sources.chat", true)
	viper.SetDefault("sources.ats", true)
	viper.SetDefault("sources.email", false)
	viper.SetDefault("sources.calendar", false)
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// bindCredentials explicitly binds credential environment variables so they
// resolve even without a config file entry.
func bindCredentials() {
	for _, key := range []string{
		"CHAT_TOKEN",
		"GOOGLE_CREDENTIALS_FILE",
		"GOOGLE_TOKEN_FILE",
		"GEMINI_API_KEY",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"LOG_OUTPUT",
	} {
		_ = viper.BindEnv(key)
	}
}
