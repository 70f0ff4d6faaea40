package cmd

import (
	"github.com/spf13/cobra"

	"github.com/candidatelabs/talentsync/internal/server"
	"github.com/candidatelabs/talentsync/pkg/logging"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve exposes the engine over HTTP: trigger and poll background jobs,
read the roster, and fetch status reports.

  POST   /api/v1/jobs/{kind}   start a job (SYNC_CHAT, SYNC_ATS, ...)
  GET    /api/v1/jobs/{kind}   poll job state
  DELETE /api/v1/jobs/{kind}   cancel a running job
  GET    /api/v1/roster        reconciled roster
  GET    /api/v1/report        status report (markdown or ?format=json)
  GET    /api/v1/checkins      latest drafted check-ins`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, err := buildEngine(cmd.Context(), cfg, cfg.GeminiAPIKey != "")
		if err != nil {
			return err
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.ListenAddr
		}
		srv := server.New(engine, addr, logging.Default())
		return srv.ListenAndServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
