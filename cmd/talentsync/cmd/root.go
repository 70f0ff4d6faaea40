// Package cmd implements the talentsync command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/candidatelabs/talentsync/internal/config"
	"github.com/candidatelabs/talentsync/pkg/logging"
)

var (
	configFile string
	verbose    bool
	quiet      bool
	output     string

	cfg *config.Config

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "talentsync",
	Short: "Candidate status reconciliation across chat, tracker, email, and calendar",
	Long: `Talentsync reconciles recruiting candidate status across workspace chat
channels, applicant tracker exports, email, and the interview calendar.

It resolves each candidate to a single identity, infers a status from each
source independently, and synthesizes one canonical status per candidate
with a one-line summary the whole team can read.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command with signal-aware context for graceful
// shutdown.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
	rootCmd.Version = version

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./.talentsync.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "output format (markdown, json)")

	cobra.CheckErr(viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")))
	cobra.CheckErr(viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")))
	cobra.CheckErr(viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))
}

// setup loads configuration and configures logging before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "error"
	}

	var logger zerolog.Logger
	if cfg.LogFormat == "json" {
		logger = logging.New(os.Stderr)
	} else {
		logger = logging.NewConsole()
	}
	if lvl, err := zerolog.ParseLevel(level); err == nil && level != "" {
		logger = logger.Level(lvl)
	}
	logging.SetDefault(logger)
	return nil
}
