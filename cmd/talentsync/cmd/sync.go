package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/candidatelabs/talentsync"
	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/errors"
)

var (
	syncSources []string
	syncClients []string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch all sources and reconcile the roster",
	Long: `Sync fetches candidate activity from every configured source, infers a
per-source status for each candidate, merges the results into the roster,
and synthesizes one canonical status per candidate.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, err := buildEngine(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}

		var opts []talentsync.SyncOption
		if len(syncSources) > 0 {
			srcs := make([]candidates.Source, 0, len(syncSources))
			for _, s := range syncSources {
				src := candidates.Source(s)
				if !src.IsValid() {
					return errors.NewValidationError("source", s, "unknown source")
				}
				srcs = append(srcs, src)
			}
			opts = append(opts, talentsync.WithOnly(srcs...))
		}
		if len(syncClients) > 0 {
			opts = append(opts, talentsync.WithClients(syncClients...))
		}

		result, err := engine.Sync(cmd.Context(), opts...)
		if err != nil {
			return err
		}

		fmt.Printf("Synced %d sources: %d fetched, %d merged, %d skipped, %d candidates (%s)\n",
			len(result.Sources), result.Fetched, result.Merged, result.Skipped,
			result.Candidates, result.Duration.Round(10*time.Millisecond))
		for _, pair := range result.Duplicates {
			fmt.Printf("Possible duplicate: %s / %s\n", pair[0], pair[1])
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().StringSliceVar(&syncSources, "source", nil, "limit sync to these sources (chat, ats, email, calendar)")
	syncCmd.Flags().StringSliceVar(&syncClients, "client", nil, "limit sync to these clients")
	rootCmd.AddCommand(syncCmd)
}
