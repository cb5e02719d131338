// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/knowledge-hub/internal/api"
	"github.com/pdiddy/knowledge-hub/internal/ingest"
	"github.com/pdiddy/knowledge-hub/internal/secrets"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes clause extraction, the clause cache and library, and risk
scoring under /api/v1. When server.api_token (or the api-token secret) is
set, requests must carry it as a bearer token. When scan.schedule is set
the documents directory is rescanned on that cron schedule.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := loadConfig()

		if cfg.Server.Mode != "" {
			gin.SetMode(cfg.Server.Mode)
		}

		svc, st, err := newService(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if cfg.Scan.Schedule != "" {
			sched, err := ingest.NewScheduler(svc, cfg.Scan.DocumentsDir, cfg.Scan.Schedule, logger)
			if err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop(ctx)
			logger.Info("scheduled rescans enabled",
				zap.String("dir", cfg.Scan.DocumentsDir),
				zap.String("schedule", cfg.Scan.Schedule),
			)
		}

		token := loadedSecrets.Resolve(secrets.APIToken, cfg.Server.APIToken)
		router := api.NewRouter(api.NewHandler(svc, st), api.Options{APIToken: token, Log: logger})
		return api.NewServer(cfg.Server, router, logger).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().String("schedule", "", "cron spec with seconds for rescans (overrides scan.schedule)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("scan.schedule", serveCmd.Flags().Lookup("schedule"))

	rootCmd.AddCommand(serveCmd)
}
