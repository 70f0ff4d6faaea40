package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkinsCmd = &cobra.Command{
	Use:   "checkins",
	Short: "Draft per-client check-in messages",
	Long: `Checkins drafts one short status check-in message per client with open
candidates. When generation fails for a client, a deterministic template is
used for that client and the rest proceed normally.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, err := buildEngine(cmd.Context(), cfg, true)
		if err != nil {
			return err
		}

		checkIns, err := engine.CheckIns(cmd.Context())
		if err != nil {
			return err
		}

		if output == "json" {
			return json.NewEncoder(os.Stdout).Encode(checkIns)
		}

		for _, ci := range checkIns {
			fmt.Printf("## %s (%d candidates", ci.Client, ci.Candidates)
			if ci.Fallback {
				fmt.Print(", template fallback")
			}
			fmt.Printf(")\n\n%s\n\n", ci.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkinsCmd)
}
