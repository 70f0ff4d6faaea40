package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Generate enrichment summaries for candidates without one",
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, err := buildEngine(cmd.Context(), cfg, true)
		if err != nil {
			return err
		}

		result, err := engine.Enrich(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Enriched %d candidates (%d failed, %d skipped)\n",
			result.Enriched, result.Failed, result.Skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(enrichCmd)
}
