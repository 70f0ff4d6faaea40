package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/candidatelabs/talentsync/internal/report"
	"github.com/candidatelabs/talentsync/internal/store"
	"github.com/candidatelabs/talentsync/pkg/candidates"
)

var statusClient string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current roster status report",
	Long: `Status renders the reconciled roster as a report grouped by client,
without contacting any source. Use --output json for machine-readable
output.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Report-only: read the roster directly, never write it.
		s := store.New(cfg.RosterPath, store.WithReadOnly())
		roster, err := s.Load(cmd.Context())
		if err != nil {
			return err
		}

		if statusClient != "" {
			roster = filterByClient(roster, statusClient)
		}

		format := report.FormatMarkdown
		if output == "json" {
			format = report.FormatJSON
		}
		out, err := report.Render(roster, format)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func filterByClient(roster *candidates.Roster, client string) *candidates.Roster {
	filtered := candidates.NewRoster()
	for _, rec := range roster.List() {
		if rec.Client == client {
			filtered.Put(rec)
		}
	}
	return filtered
}

func init() {
	statusCmd.Flags().StringVar(&statusClient, "client", "", "limit the report to one client")
	rootCmd.AddCommand(statusCmd)
}
